// Package normalize folds raw Firestore document data into the canonical
// entity structs. Documents written by older versions of the console use
// Spanish field names, mixed-case status strings and assorted timestamp
// shapes; everything here resolves to a safe value and never returns an
// error.
package normalize

import (
	"strings"
	"time"

	"fieldops/models"
)

// Canon uppercases a raw enum value and collapses whitespace and hyphen
// runs into single underscores, so "en progreso", "En-Progreso" and
// "EN_PROGRESO" all compare equal.
func Canon(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")
	return strings.ToUpper(strings.Join(strings.Fields(s), "_"))
}

var taskStatusByAlias = map[string]models.TaskStatus{
	"PENDING":     models.TaskPending,
	"PENDIENTE":   models.TaskPending,
	"IN_PROGRESS": models.TaskInProgress,
	"EN_PROGRESO": models.TaskInProgress,
	"EN_PROCESO":  models.TaskInProgress,
	"COMPLETED":   models.TaskCompleted,
	"COMPLETADO":  models.TaskCompleted,
	"COMPLETADA":  models.TaskCompleted,
	"FINALIZADO":  models.TaskCompleted,
	"CANCELLED":   models.TaskCancelled,
	"CANCELED":    models.TaskCancelled,
	"CANCELADO":   models.TaskCancelled,
	"CANCELADA":   models.TaskCancelled,
}

// TaskStatus folds any recognized variant into the canonical task status.
// Unrecognized values land in the PENDING bucket rather than erroring.
func TaskStatus(s string) models.TaskStatus {
	if status, ok := taskStatusByAlias[Canon(s)]; ok {
		return status
	}
	return models.TaskPending
}

var equipmentStatusByAlias = map[string]models.EquipmentStatus{
	"OPERATIONAL":       models.EquipmentOperational,
	"OPERATIVO":         models.EquipmentOperational,
	"ACTIVE":            models.EquipmentOperational,
	"ACTIVO":            models.EquipmentOperational,
	"MAINTENANCE":       models.EquipmentMaintenance,
	"IN_MAINTENANCE":    models.EquipmentMaintenance,
	"MANTENIMIENTO":     models.EquipmentMaintenance,
	"EN_MANTENIMIENTO":  models.EquipmentMaintenance,
	"INACTIVE":          models.EquipmentInactive,
	"INACTIVO":          models.EquipmentInactive,
	"OUT_OF_SERVICE":    models.EquipmentInactive,
	"FUERA_DE_SERVICIO": models.EquipmentInactive,
}

// EquipmentStatus folds recognized variants into the canonical set. There is
// no universal fallback for equipment, so unrecognized values pass through
// canonicalized and the UI renders them with secondary styling.
func EquipmentStatus(s string) models.EquipmentStatus {
	canon := Canon(s)
	if status, ok := equipmentStatusByAlias[canon]; ok {
		return status
	}
	return models.EquipmentStatus(canon)
}

var roleByAlias = map[string]models.UserRole{
	"ADMIN":         models.RoleAdmin,
	"ADMINISTRADOR": models.RoleAdmin,
	"TECHNICIAN":    models.RoleTechnician,
	"TECNICO":       models.RoleTechnician,
	"SUPERVISOR":    models.RoleSupervisor,
}

// Role maps legacy role aliases (notably TECNICO) onto the canonical roles.
// Unrecognized roles pass through canonicalized for neutral display.
func Role(s string) models.UserRole {
	canon := Canon(s)
	if role, ok := roleByAlias[canon]; ok {
		return role
	}
	return models.UserRole(canon)
}

var serviceTypeByAlias = map[string]models.ServiceType{
	"PREVENTIVE": models.ServicePreventive,
	"PREVENTIVO": models.ServicePreventive,
	"CORRECTIVE": models.ServiceCorrective,
	"CORRECTIVO": models.ServiceCorrective,
	"EMERGENCY":  models.ServiceEmergency,
	"EMERGENCIA": models.ServiceEmergency,
}

// ServiceType folds service type variants; unrecognized values default to
// PREVENTIVE.
func ServiceType(s string) models.ServiceType {
	if t, ok := serviceTypeByAlias[Canon(s)]; ok {
		return t
	}
	return models.ServicePreventive
}

var priorityByAlias = map[string]models.Priority{
	"LOW":     models.PriorityLow,
	"BAJA":    models.PriorityLow,
	"MEDIUM":  models.PriorityMedium,
	"MEDIA":   models.PriorityMedium,
	"HIGH":    models.PriorityHigh,
	"ALTA":    models.PriorityHigh,
	"URGENT":  models.PriorityUrgent,
	"URGENTE": models.PriorityUrgent,
}

// Priority folds priority variants; unrecognized values default to MEDIUM.
func Priority(s string) models.Priority {
	if p, ok := priorityByAlias[Canon(s)]; ok {
		return p
	}
	return models.PriorityMedium
}

// Timestamp converts any stored timestamp shape to a native time.Time:
// time.Time values pass through, RFC3339 (or date-only) strings are parsed,
// and Firestore-export wrapper maps ({seconds,nanos} or {_seconds,_nanos})
// are unwrapped. Anything else yields the zero time.
func Timestamp(v interface{}) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case *time.Time:
		if t != nil {
			return *t
		}
	case string:
		if parsed, err := time.Parse(time.RFC3339, t); err == nil {
			return parsed
		}
		if parsed, err := time.Parse("2006-01-02", t); err == nil {
			return parsed
		}
	case map[string]interface{}:
		secs, ok := asInt64(t["seconds"])
		if !ok {
			secs, ok = asInt64(t["_seconds"])
		}
		if ok {
			var nanos int64
			for _, key := range []string{"nanos", "_nanoseconds", "_nanos"} {
				if n, ok := asInt64(t[key]); ok {
					nanos = n
					break
				}
			}
			return time.Unix(secs, nanos).UTC()
		}
	}
	return time.Time{}
}

func asInt64(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case float64:
		return int64(n), true
	}
	return 0, false
}
