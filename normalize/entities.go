package normalize

import (
	"fieldops/models"
)

// str returns the first non-empty string stored under any of the given
// field names. Legacy documents use Spanish names, current ones English.
func str(data map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		if v, ok := data[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

func num(data map[string]interface{}, keys ...string) float64 {
	for _, key := range keys {
		switch v := data[key].(type) {
		case float64:
			return v
		case int64:
			return float64(v)
		case int:
			return float64(v)
		}
	}
	return 0
}

func boolean(data map[string]interface{}, fallback bool, keys ...string) bool {
	for _, key := range keys {
		if v, ok := data[key].(bool); ok {
			return v
		}
	}
	return fallback
}

func when(data map[string]interface{}, keys ...string) (t interface{}) {
	for _, key := range keys {
		if v, ok := data[key]; ok && v != nil {
			return v
		}
	}
	return nil
}

func strSlice(data map[string]interface{}, keys ...string) []string {
	for _, key := range keys {
		raw, ok := data[key].([]interface{})
		if !ok {
			continue
		}
		out := make([]string, 0, len(raw))
		for _, item := range raw {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// ParseClient builds a canonical Client from a raw document.
func ParseClient(id string, data map[string]interface{}) models.Client {
	return models.Client{
		ClientID:    id,
		Name:        str(data, "name", "nombre"),
		TaxID:       str(data, "tax_id", "ruc"),
		Address:     str(data, "address", "direccion"),
		Phone:       str(data, "phone", "telefono"),
		Email:       str(data, "email", "correo"),
		ContactName: str(data, "contact_name", "contacto"),
		Latitude:    num(data, "latitude", "lat"),
		Longitude:   num(data, "longitude", "lng"),
		CreatedAt:   Timestamp(when(data, "created_at", "createdAt", "fecha_creacion")),
	}
}

// ParseEquipment builds a canonical Equipment from a raw document.
func ParseEquipment(id string, data map[string]interface{}) models.Equipment {
	return models.Equipment{
		EquipmentID:     id,
		ClientID:        str(data, "client_id", "clientId", "cliente_id"),
		Name:            str(data, "name", "nombre"),
		Model:           str(data, "model", "modelo"),
		SerialNumber:    str(data, "serial_number", "numero_serie"),
		LastMaintenance: Timestamp(when(data, "last_maintenance", "ultimo_mantenimiento")),
		Status:          EquipmentStatus(str(data, "status", "estado")),
		TemplateID:      str(data, "template_id", "protocolo_id"),
		CreatedAt:       Timestamp(when(data, "created_at", "createdAt", "fecha_creacion")),
	}
}

// ParseTask builds a canonical Task from a raw document. Status, service
// type and priority are folded into the canonical enums since upstream
// writers emit lowercase and Spanish variants.
func ParseTask(id string, data map[string]interface{}) models.Task {
	return models.Task{
		TaskID:        id,
		CompanyID:     str(data, "company_id", "empresa_id"),
		ScheduledDate: Timestamp(when(data, "scheduled_date", "fecha")),
		ScheduledTime: str(data, "scheduled_time", "hora"),
		Address:       str(data, "address", "direccion"),
		ClientName:    str(data, "client_name", "cliente"),
		ContactName:   str(data, "contact_name", "contacto"),
		Equipment:     parseTaskEquipment(data),
		ServiceType:   ServiceType(str(data, "service_type", "tipo_servicio")),
		Priority:      Priority(str(data, "priority", "prioridad")),
		Status:        TaskStatus(str(data, "status", "estado")),
		TechnicianID:  str(data, "technician_id", "tecnico_id"),
		Description:   str(data, "description", "descripcion"),
		CreatedAt:     Timestamp(when(data, "created_at", "createdAt")),
		UpdatedAt:     Timestamp(when(data, "updated_at", "updatedAt")),
		StartedAt:     Timestamp(when(data, "started_at", "startedAt")),
		CompletedAt:   Timestamp(when(data, "completed_at", "completedAt")),
	}
}

func parseTaskEquipment(data map[string]interface{}) []models.TaskEquipment {
	raw, ok := when(data, "equipment", "equipos").([]interface{})
	if !ok {
		return nil
	}
	refs := make([]models.TaskEquipment, 0, len(raw))
	for _, item := range raw {
		entry, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		refs = append(refs, models.TaskEquipment{
			EquipmentID:  str(entry, "equipment_id", "id"),
			Name:         str(entry, "name", "nombre"),
			TemplateID:   str(entry, "template_id", "protocolo_id"),
			TemplateName: str(entry, "template_name", "protocolo_nombre"),
		})
	}
	return refs
}

// ParseUser builds a canonical User from a raw document. The legacy role
// alias TECNICO is folded into TECHNICIAN here, at the store boundary.
func ParseUser(id string, data map[string]interface{}) models.User {
	return models.User{
		UserID:            id,
		Email:             str(data, "email", "correo"),
		FullName:          str(data, "full_name", "nombre"),
		Phone:             str(data, "phone", "telefono"),
		PhotoURL:          str(data, "photo_url", "foto"),
		Role:              Role(str(data, "role", "rol")),
		NotificationToken: str(data, "notification_token", "fcm_token"),
		CreatedAt:         Timestamp(when(data, "created_at", "createdAt", "fecha_creacion")),
	}
}

// ParseTemplate builds a canonical Template from a raw document. Templates
// with no explicit active flag are treated as active.
func ParseTemplate(id string, data map[string]interface{}) models.Template {
	return models.Template{
		TemplateID:  id,
		Name:        str(data, "name", "nombre"),
		Category:    str(data, "category", "categoria"),
		ServiceType: ServiceType(str(data, "service_type", "tipo_servicio")),
		Activities:  strSlice(data, "activities", "actividades"),
		Active:      boolean(data, true, "active", "activo"),
		CreatedAt:   Timestamp(when(data, "created_at", "createdAt")),
		UpdatedAt:   Timestamp(when(data, "updated_at", "updatedAt")),
	}
}
