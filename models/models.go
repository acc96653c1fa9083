// models.go
// Defines the core data structures shared by the FieldOps Central API.

package models

import (
	"time"
)

// TaskStatus defines the lifecycle state of a service work order.
type TaskStatus string

const (
	TaskPending    TaskStatus = "PENDING"
	TaskInProgress TaskStatus = "IN_PROGRESS"
	TaskCompleted  TaskStatus = "COMPLETED"
	TaskCancelled  TaskStatus = "CANCELLED"
)

// ServiceType defines the category of maintenance service.
type ServiceType string

const (
	ServicePreventive ServiceType = "PREVENTIVE"
	ServiceCorrective ServiceType = "CORRECTIVE"
	ServiceEmergency  ServiceType = "EMERGENCY"
)

// Priority defines how urgent a task is.
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
	PriorityUrgent Priority = "URGENT"
)

// EquipmentStatus defines the operational state of an installed unit.
type EquipmentStatus string

const (
	EquipmentOperational EquipmentStatus = "OPERATIONAL"
	EquipmentMaintenance EquipmentStatus = "MAINTENANCE"
	EquipmentInactive    EquipmentStatus = "INACTIVE"
)

// UserRole defines the access level of a user.
type UserRole string

const (
	RoleAdmin      UserRole = "ADMIN"
	RoleTechnician UserRole = "TECHNICIAN"
	RoleSupervisor UserRole = "SUPERVISOR"
)

// Client represents a customer with installed equipment under a service
// contract. ClientID is immutable once the document is created.
type Client struct {
	ClientID    string    `firestore:"client_id" json:"client_id"`
	Name        string    `firestore:"name" json:"name"`
	TaxID       string    `firestore:"tax_id,omitempty" json:"tax_id,omitempty"`
	Address     string    `firestore:"address" json:"address"`
	Phone       string    `firestore:"phone,omitempty" json:"phone,omitempty"`
	Email       string    `firestore:"email,omitempty" json:"email,omitempty"`
	ContactName string    `firestore:"contact_name,omitempty" json:"contact_name,omitempty"`
	Latitude    float64   `firestore:"latitude,omitempty" json:"latitude,omitempty"`
	Longitude   float64   `firestore:"longitude,omitempty" json:"longitude,omitempty"`
	CreatedAt   time.Time `firestore:"created_at" json:"created_at"`
}

// Equipment represents a unit installed at a client site.
type Equipment struct {
	EquipmentID     string          `firestore:"equipment_id" json:"equipment_id"`
	ClientID        string          `firestore:"client_id" json:"client_id"`
	Name            string          `firestore:"name" json:"name"`
	Model           string          `firestore:"model" json:"model"`
	SerialNumber    string          `firestore:"serial_number" json:"serial_number"`
	LastMaintenance time.Time       `firestore:"last_maintenance" json:"last_maintenance"`
	Status          EquipmentStatus `firestore:"status" json:"status"`
	TemplateID      string          `firestore:"template_id,omitempty" json:"template_id,omitempty"`
	CreatedAt       time.Time       `firestore:"created_at" json:"created_at"`
}

// TaskEquipment is an equipment reference embedded in a task, with an
// optional protocol template attached at scheduling time.
type TaskEquipment struct {
	EquipmentID  string `firestore:"equipment_id" json:"equipment_id"`
	Name         string `firestore:"name" json:"name"`
	TemplateID   string `firestore:"template_id,omitempty" json:"template_id,omitempty"`
	TemplateName string `firestore:"template_name,omitempty" json:"template_name,omitempty"`
}

// Task is a service work order assigned to a technician. Client and contact
// names are denormalized snapshots taken at creation time for display.
type Task struct {
	TaskID        string          `firestore:"task_id" json:"task_id"`
	CompanyID     string          `firestore:"company_id" json:"company_id"`
	ScheduledDate time.Time       `firestore:"scheduled_date" json:"scheduled_date"`
	ScheduledTime string          `firestore:"scheduled_time" json:"scheduled_time"`
	Address       string          `firestore:"address" json:"address"`
	ClientName    string          `firestore:"client_name" json:"client_name"`
	ContactName   string          `firestore:"contact_name,omitempty" json:"contact_name,omitempty"`
	Equipment     []TaskEquipment `firestore:"equipment" json:"equipment"`
	ServiceType   ServiceType     `firestore:"service_type" json:"service_type"`
	Priority      Priority        `firestore:"priority" json:"priority"`
	Status        TaskStatus      `firestore:"status" json:"status"`
	TechnicianID  string          `firestore:"technician_id" json:"technician_id"`
	Description   string          `firestore:"description,omitempty" json:"description,omitempty"`
	CreatedAt     time.Time       `firestore:"created_at" json:"created_at"`
	UpdatedAt     time.Time       `firestore:"updated_at" json:"updated_at"`
	StartedAt     time.Time       `firestore:"started_at,omitempty" json:"started_at,omitempty"`
	CompletedAt   time.Time       `firestore:"completed_at,omitempty" json:"completed_at,omitempty"`
}

// User represents an account in the system. This struct is essential for
// Role-Based Access Control (RBAC).
type User struct {
	UserID            string    `firestore:"user_id" json:"user_id"`
	Email             string    `firestore:"email" json:"email"`
	FullName          string    `firestore:"full_name" json:"full_name"`
	Phone             string    `firestore:"phone,omitempty" json:"phone,omitempty"`
	PhotoURL          string    `firestore:"photo_url,omitempty" json:"photo_url,omitempty"`
	Role              UserRole  `firestore:"role" json:"role"`
	NotificationToken string    `firestore:"notification_token,omitempty" json:"notification_token,omitempty"`
	CreatedAt         time.Time `firestore:"created_at" json:"created_at"`
}

// Template is a maintenance protocol: an ordered list of activities a
// technician performs for a given equipment category and service type.
type Template struct {
	TemplateID  string      `firestore:"template_id" json:"template_id"`
	Name        string      `firestore:"name" json:"name"`
	Category    string      `firestore:"category" json:"category"`
	ServiceType ServiceType `firestore:"service_type" json:"service_type"`
	Activities  []string    `firestore:"activities" json:"activities"`
	Active      bool        `firestore:"active" json:"active"`
	CreatedAt   time.Time   `firestore:"created_at" json:"created_at"`
	UpdatedAt   time.Time   `firestore:"updated_at" json:"updated_at"`
}

// AuditLog represents an audit trail entry for mutating operations.
type AuditLog struct {
	LogID     string `firestore:"log_id" json:"log_id"`
	Timestamp string `firestore:"timestamp" json:"timestamp"`
	UserID    string `firestore:"user_id" json:"user_id"`
	Action    string `firestore:"action" json:"action"`
	Details   string `firestore:"details" json:"details"`
}
