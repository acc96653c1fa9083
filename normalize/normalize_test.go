package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"fieldops/models"
)

func TestCanon(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"en progreso", "EN_PROGRESO"},
		{"En-Progreso", "EN_PROGRESO"},
		{"EN_PROGRESO", "EN_PROGRESO"},
		{"  en   progreso  ", "EN_PROGRESO"},
		{"fuera de servicio", "FUERA_DE_SERVICIO"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, Canon(tt.input), "Canon(%q)", tt.input)
	}
}

func TestTaskStatus(t *testing.T) {
	tests := []struct {
		input    string
		expected models.TaskStatus
	}{
		{"pending", models.TaskPending},
		{"PENDIENTE", models.TaskPending},
		{"in_progress", models.TaskInProgress},
		{"en progreso", models.TaskInProgress},
		{"En-Progreso", models.TaskInProgress},
		{"en proceso", models.TaskInProgress},
		{"completada", models.TaskCompleted},
		{"finalizado", models.TaskCompleted},
		{"canceled", models.TaskCancelled},
		{"CANCELADA", models.TaskCancelled},
		// Unrecognized values land in the pending bucket
		{"garbage", models.TaskPending},
		{"", models.TaskPending},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, TaskStatus(tt.input), "TaskStatus(%q)", tt.input)
	}
}

func TestTaskStatusIdempotent(t *testing.T) {
	for _, status := range []models.TaskStatus{
		models.TaskPending, models.TaskInProgress, models.TaskCompleted, models.TaskCancelled,
	} {
		assert.Equal(t, status, TaskStatus(string(status)))
	}
}

func TestEquipmentStatus(t *testing.T) {
	assert.Equal(t, models.EquipmentOperational, EquipmentStatus("operativo"))
	assert.Equal(t, models.EquipmentOperational, EquipmentStatus("ACTIVO"))
	assert.Equal(t, models.EquipmentMaintenance, EquipmentStatus("en mantenimiento"))
	assert.Equal(t, models.EquipmentInactive, EquipmentStatus("fuera de servicio"))

	// No universal fallback: unknown statuses pass through canonicalized
	assert.Equal(t, models.EquipmentStatus("DECOMMISSIONED"), EquipmentStatus("decommissioned"))
}

func TestRole(t *testing.T) {
	assert.Equal(t, models.RoleTechnician, Role("tecnico"))
	assert.Equal(t, models.RoleTechnician, Role("TECNICO"))
	assert.Equal(t, models.RoleAdmin, Role("administrador"))
	assert.Equal(t, models.RoleSupervisor, Role("supervisor"))

	// Unknown roles pass through canonicalized
	assert.Equal(t, models.UserRole("MANAGER"), Role("manager"))
}

func TestServiceTypeAndPriority(t *testing.T) {
	assert.Equal(t, models.ServiceCorrective, ServiceType("correctivo"))
	assert.Equal(t, models.ServiceEmergency, ServiceType("EMERGENCIA"))
	assert.Equal(t, models.ServicePreventive, ServiceType("unknown"))

	assert.Equal(t, models.PriorityHigh, Priority("alta"))
	assert.Equal(t, models.PriorityUrgent, Priority("URGENTE"))
	assert.Equal(t, models.PriorityMedium, Priority("whatever"))
}

func TestTimestamp(t *testing.T) {
	native := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

	t.Run("native time passes through", func(t *testing.T) {
		assert.Equal(t, native, Timestamp(native))
	})

	t.Run("RFC3339 string", func(t *testing.T) {
		assert.Equal(t, native, Timestamp("2025-03-14T09:30:00Z").UTC())
	})

	t.Run("date-only string", func(t *testing.T) {
		expected := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
		assert.Equal(t, expected, Timestamp("2025-03-14").UTC())
	})

	t.Run("seconds wrapper", func(t *testing.T) {
		wrapped := map[string]interface{}{"seconds": native.Unix(), "nanos": 0}
		assert.Equal(t, native, Timestamp(wrapped))
	})

	t.Run("underscore wrapper", func(t *testing.T) {
		wrapped := map[string]interface{}{"_seconds": float64(native.Unix()), "_nanoseconds": float64(0)}
		assert.Equal(t, native, Timestamp(wrapped))
	})

	t.Run("short underscore wrapper", func(t *testing.T) {
		withNanos := native.Add(500 * time.Millisecond)
		wrapped := map[string]interface{}{"_seconds": native.Unix(), "_nanos": int64(500000000)}
		assert.Equal(t, withNanos, Timestamp(wrapped))
	})

	t.Run("unrecognized shapes yield zero time", func(t *testing.T) {
		assert.True(t, Timestamp(nil).IsZero())
		assert.True(t, Timestamp(42).IsZero())
		assert.True(t, Timestamp("not a date").IsZero())
		assert.True(t, Timestamp(map[string]interface{}{"foo": "bar"}).IsZero())
	})
}

func TestParseClientBilingualFields(t *testing.T) {
	legacy := ParseClient("client-1", map[string]interface{}{
		"nombre":    "Lavandería Central",
		"direccion": "Av. Insurgentes Sur 1425",
		"telefono":  "+52 55 5555 0101",
		"contacto":  "Miguel Ángel Soto",
		"ruc":       "LCE850101AB1",
	})

	assert.Equal(t, "client-1", legacy.ClientID)
	assert.Equal(t, "Lavandería Central", legacy.Name)
	assert.Equal(t, "Av. Insurgentes Sur 1425", legacy.Address)
	assert.Equal(t, "+52 55 5555 0101", legacy.Phone)
	assert.Equal(t, "Miguel Ángel Soto", legacy.ContactName)
	assert.Equal(t, "LCE850101AB1", legacy.TaxID)

	// English field names win when both are present
	mixed := ParseClient("client-2", map[string]interface{}{
		"name":   "Hotel El Mirador",
		"nombre": "ignored",
	})
	assert.Equal(t, "Hotel El Mirador", mixed.Name)
}

func TestParseTask(t *testing.T) {
	task := ParseTask("task-1", map[string]interface{}{
		"cliente":    "Hospital del Norte",
		"fecha":      "2025-06-01",
		"hora":       "09:00",
		"estado":     "en progreso",
		"prioridad":  "alta",
		"tecnico_id": "user-tech-carlos",
		"equipos": []interface{}{
			map[string]interface{}{
				"id":     "equipment-boiler-01",
				"nombre": "Caldera industrial",
			},
		},
	})

	assert.Equal(t, "task-1", task.TaskID)
	assert.Equal(t, "Hospital del Norte", task.ClientName)
	assert.Equal(t, "09:00", task.ScheduledTime)
	assert.Equal(t, models.TaskInProgress, task.Status)
	assert.Equal(t, models.PriorityHigh, task.Priority)
	assert.Equal(t, "user-tech-carlos", task.TechnicianID)
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), task.ScheduledDate.UTC())

	if assert.Len(t, task.Equipment, 1) {
		assert.Equal(t, "equipment-boiler-01", task.Equipment[0].EquipmentID)
		assert.Equal(t, "Caldera industrial", task.Equipment[0].Name)
	}
}

func TestParseUserFoldsLegacyRole(t *testing.T) {
	user := ParseUser("user-1", map[string]interface{}{
		"correo": "carlos@fieldops.example",
		"nombre": "Carlos Rivera",
		"rol":    "tecnico",
	})

	assert.Equal(t, models.RoleTechnician, user.Role)
	assert.Equal(t, "carlos@fieldops.example", user.Email)
	assert.Equal(t, "Carlos Rivera", user.FullName)
}

func TestParseTemplateDefaultsActive(t *testing.T) {
	template := ParseTemplate("template-1", map[string]interface{}{
		"nombre":      "Mantenimiento preventivo de caldera",
		"actividades": []interface{}{"Revisar presión", "Limpiar quemadores"},
	})

	assert.True(t, template.Active)
	assert.Equal(t, []string{"Revisar presión", "Limpiar quemadores"}, template.Activities)

	inactive := ParseTemplate("template-2", map[string]interface{}{
		"name":   "Retired protocol",
		"activo": false,
	})
	assert.False(t, inactive.Active)
}
