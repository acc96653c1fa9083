package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sort"
	"time"

	"github.com/google/uuid"

	"fieldops/db"
	"fieldops/middleware"
	"fieldops/models"
	"fieldops/normalize"
)

type TaskHandler struct {
	db *db.FirestoreDB
}

func NewTaskHandler(store *db.FirestoreDB) *TaskHandler {
	return &TaskHandler{
		db: store,
	}
}

type TaskListResponse struct {
	Tasks      []models.Task `json:"tasks"`
	Count      int           `json:"count"`
	Page       int           `json:"page"`
	TotalPages int           `json:"total_pages"`
}

type TaskEquipmentRequest struct {
	EquipmentID string `json:"equipment_id"`
	TemplateID  string `json:"template_id,omitempty"`
}

type CreateTaskRequest struct {
	ClientID      string                 `json:"client_id"`
	ScheduledDate string                 `json:"scheduled_date"`
	ScheduledTime string                 `json:"scheduled_time,omitempty"`
	Equipment     []TaskEquipmentRequest `json:"equipment"`
	ServiceType   string                 `json:"service_type,omitempty"`
	Priority      string                 `json:"priority,omitempty"`
	TechnicianID  string                 `json:"technician_id,omitempty"`
	Description   string                 `json:"description,omitempty"`
}

type UpdateTaskRequest struct {
	TaskID        string `json:"task_id"`
	ScheduledDate string `json:"scheduled_date,omitempty"`
	ScheduledTime string `json:"scheduled_time,omitempty"`
	ServiceType   string `json:"service_type,omitempty"`
	Priority      string `json:"priority,omitempty"`
	Description   string `json:"description,omitempty"`
}

type AssignTaskRequest struct {
	TaskID       string `json:"task_id"`
	TechnicianID string `json:"technician_id"`
}

type TaskIDRequest struct {
	TaskID string `json:"task_id"`
}

// effectiveTechnician resolves the technician filter for a task listing.
// Technicians are always pinned to their own tasks; any requested filter is
// overridden. Other roles see whatever they ask for.
func effectiveTechnician(user *models.User, requested string) string {
	if user.Role == models.RoleTechnician {
		return user.UserID
	}
	return requested
}

// filterTasks narrows a task list by technician and status. Empty filter
// values match everything.
func filterTasks(tasks []models.Task, technicianID string, status models.TaskStatus) []models.Task {
	filtered := make([]models.Task, 0, len(tasks))
	for _, task := range tasks {
		if technicianID != "" && task.TechnicianID != technicianID {
			continue
		}
		if status != "" && task.Status != status {
			continue
		}
		filtered = append(filtered, task)
	}
	return filtered
}

// sortTasksBySchedule orders tasks by scheduled date, then time string.
// Snapshot order from the store is not stable across pushes, so list
// endpoints always sort explicitly.
func sortTasksBySchedule(tasks []models.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		if !tasks[i].ScheduledDate.Equal(tasks[j].ScheduledDate) {
			return tasks[i].ScheduledDate.Before(tasks[j].ScheduledDate)
		}
		return tasks[i].ScheduledTime < tasks[j].ScheduledTime
	})
}

// GetTasks returns tasks filtered by technician/status, sorted by schedule,
// paginated. Technicians only ever see their own tasks.
func (h *TaskHandler) GetTasks(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, "User not found in context", http.StatusUnauthorized)
		return
	}

	query := r.URL.Query()
	technicianID := effectiveTechnician(user, query.Get("technician_id"))

	var status models.TaskStatus
	if raw := query.Get("status"); raw != "" {
		status = normalize.TaskStatus(raw)
	}

	tasks, err := h.db.GetAllTasks()
	if err != nil {
		log.Printf("❌ Failed to get tasks: %v", err)
		writeError(w, "Failed to retrieve tasks", http.StatusInternalServerError)
		return
	}

	tasks = filterTasks(tasks, technicianID, status)
	sortTasksBySchedule(tasks)

	pager := pageFromQuery(r, len(tasks))
	start, end := pager.Window()

	writeJSON(w, http.StatusOK, TaskListResponse{
		Tasks:      tasks[start:end],
		Count:      len(tasks),
		Page:       pager.CurrentPage(),
		TotalPages: pager.TotalPages(),
	})
}

// CreateTask schedules a new work order, snapshotting the client name and
// contact for display and resolving template names onto each equipment
// reference.
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, "User not found in context", http.StatusUnauthorized)
		return
	}

	var req CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.ClientID == "" || req.ScheduledDate == "" {
		writeError(w, "Client ID and scheduled date are required", http.StatusBadRequest)
		return
	}

	scheduledDate, err := time.Parse(time.RFC3339, req.ScheduledDate)
	if err != nil {
		if scheduledDate, err = time.Parse("2006-01-02", req.ScheduledDate); err != nil {
			writeError(w, "Invalid scheduled_date format. Use RFC3339 or YYYY-MM-DD", http.StatusBadRequest)
			return
		}
	}

	client, err := h.db.GetClient(req.ClientID)
	if err != nil {
		writeError(w, "Client not found", http.StatusNotFound)
		return
	}

	equipment := make([]models.TaskEquipment, 0, len(req.Equipment))
	for _, ref := range req.Equipment {
		unit, err := h.db.GetEquipment(ref.EquipmentID)
		if err != nil {
			writeError(w, fmt.Sprintf("Equipment not found: %s", ref.EquipmentID), http.StatusNotFound)
			return
		}

		taskEquipment := models.TaskEquipment{
			EquipmentID: unit.EquipmentID,
			Name:        unit.Name,
		}
		templateID := ref.TemplateID
		if templateID == "" {
			templateID = unit.TemplateID
		}
		if templateID != "" {
			if template, err := h.db.GetTemplate(templateID); err == nil {
				taskEquipment.TemplateID = template.TemplateID
				taskEquipment.TemplateName = template.Name
			}
		}
		equipment = append(equipment, taskEquipment)
	}

	now := time.Now()
	task := &models.Task{
		TaskID:        fmt.Sprintf("task-%s", uuid.NewString()),
		CompanyID:     client.ClientID,
		ScheduledDate: scheduledDate,
		ScheduledTime: req.ScheduledTime,
		Address:       client.Address,
		ClientName:    client.Name,
		ContactName:   client.ContactName,
		Equipment:     equipment,
		ServiceType:   normalize.ServiceType(req.ServiceType),
		Priority:      normalize.Priority(req.Priority),
		Status:        models.TaskPending,
		TechnicianID:  req.TechnicianID,
		Description:   req.Description,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := h.db.CreateTask(task); err != nil {
		log.Printf("❌ Failed to create task: %v", err)
		writeError(w, "Failed to create task", http.StatusInternalServerError)
		return
	}

	log.Printf("✅ Task created by %s for client %s (%s)", user.Email, client.Name, task.ServiceType)
	logAudit(h.db, user.UserID, "CREATE_TASK",
		fmt.Sprintf("Created %s task for client %s", task.ServiceType, client.Name))

	writeJSON(w, http.StatusCreated, task)
}

// UpdateTask updates scheduling fields of an existing task
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, "User not found in context", http.StatusUnauthorized)
		return
	}

	var req UpdateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.TaskID == "" {
		writeError(w, "Task ID is required", http.StatusBadRequest)
		return
	}

	task, err := h.db.GetTask(req.TaskID)
	if err != nil {
		writeError(w, "Task not found", http.StatusNotFound)
		return
	}

	if req.ScheduledDate != "" {
		scheduledDate, err := time.Parse(time.RFC3339, req.ScheduledDate)
		if err != nil {
			if scheduledDate, err = time.Parse("2006-01-02", req.ScheduledDate); err != nil {
				writeError(w, "Invalid scheduled_date format. Use RFC3339 or YYYY-MM-DD", http.StatusBadRequest)
				return
			}
		}
		task.ScheduledDate = scheduledDate
	}
	if req.ScheduledTime != "" {
		task.ScheduledTime = req.ScheduledTime
	}
	if req.ServiceType != "" {
		task.ServiceType = normalize.ServiceType(req.ServiceType)
	}
	if req.Priority != "" {
		task.Priority = normalize.Priority(req.Priority)
	}
	if req.Description != "" {
		task.Description = req.Description
	}

	if err := h.db.UpdateTask(task); err != nil {
		log.Printf("❌ Failed to update task: %v", err)
		writeError(w, "Failed to update task", http.StatusInternalServerError)
		return
	}

	log.Printf("✅ Task updated by %s: %s", user.Email, task.TaskID)
	logAudit(h.db, user.UserID, "UPDATE_TASK", fmt.Sprintf("Updated task %s", task.TaskID))

	writeJSON(w, http.StatusOK, task)
}

// AssignTask assigns a task to a technician
func (h *TaskHandler) AssignTask(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, "User not found in context", http.StatusUnauthorized)
		return
	}

	var req AssignTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.TaskID == "" || req.TechnicianID == "" {
		writeError(w, "Task ID and technician ID are required", http.StatusBadRequest)
		return
	}

	task, err := h.db.GetTask(req.TaskID)
	if err != nil {
		writeError(w, "Task not found", http.StatusNotFound)
		return
	}

	technician, err := h.db.GetUser(req.TechnicianID)
	if err != nil {
		writeError(w, "Technician not found", http.StatusNotFound)
		return
	}
	if technician.Role != models.RoleTechnician {
		writeError(w, "Tasks can only be assigned to technicians", http.StatusBadRequest)
		return
	}

	task.TechnicianID = technician.UserID

	if err := h.db.UpdateTask(task); err != nil {
		log.Printf("❌ Failed to assign task: %v", err)
		writeError(w, "Failed to assign task", http.StatusInternalServerError)
		return
	}

	log.Printf("✅ Task %s assigned to %s by %s", task.TaskID, technician.Email, user.Email)
	logAudit(h.db, user.UserID, "ASSIGN_TASK",
		fmt.Sprintf("Assigned task %s to %s", task.TaskID, technician.Email))

	writeJSON(w, http.StatusOK, task)
}

// StartTask moves a pending task to IN_PROGRESS and stamps the start time.
// Only the assigned technician (or an admin/supervisor) may start it.
func (h *TaskHandler) StartTask(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "START_TASK", func(task *models.Task, user *models.User) (string, int) {
		if task.Status != models.TaskPending {
			return "Only pending tasks can be started", http.StatusConflict
		}
		if user.Role == models.RoleTechnician && task.TechnicianID != user.UserID {
			return "Task is assigned to another technician", http.StatusForbidden
		}
		task.Status = models.TaskInProgress
		task.StartedAt = time.Now()
		return "", 0
	})
}

// CompleteTask moves an in-progress task to COMPLETED and stamps the
// completion time.
func (h *TaskHandler) CompleteTask(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "COMPLETE_TASK", func(task *models.Task, user *models.User) (string, int) {
		if task.Status != models.TaskInProgress {
			return "Only in-progress tasks can be completed", http.StatusConflict
		}
		if user.Role == models.RoleTechnician && task.TechnicianID != user.UserID {
			return "Task is assigned to another technician", http.StatusForbidden
		}
		task.Status = models.TaskCompleted
		task.CompletedAt = time.Now()
		return "", 0
	})
}

// CancelTask cancels a task that has not completed yet.
func (h *TaskHandler) CancelTask(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "CANCEL_TASK", func(task *models.Task, user *models.User) (string, int) {
		if task.Status == models.TaskCompleted || task.Status == models.TaskCancelled {
			return "Task is already finished", http.StatusConflict
		}
		task.Status = models.TaskCancelled
		return "", 0
	})
}

// transition runs one status change: load, validate, mutate, save, audit.
func (h *TaskHandler) transition(w http.ResponseWriter, r *http.Request, action string,
	apply func(*models.Task, *models.User) (string, int)) {

	if r.Method != http.MethodPost {
		writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, "User not found in context", http.StatusUnauthorized)
		return
	}

	var req TaskIDRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.TaskID == "" {
		writeError(w, "Task ID is required", http.StatusBadRequest)
		return
	}

	task, err := h.db.GetTask(req.TaskID)
	if err != nil {
		writeError(w, "Task not found", http.StatusNotFound)
		return
	}

	if message, status := apply(task, user); message != "" {
		writeError(w, message, status)
		return
	}

	if err := h.db.UpdateTask(task); err != nil {
		log.Printf("❌ Failed to update task %s: %v", task.TaskID, err)
		writeError(w, "Failed to update task", http.StatusInternalServerError)
		return
	}

	log.Printf("✅ %s by %s: %s (status: %s)", action, user.Email, task.TaskID, task.Status)
	logAudit(h.db, user.UserID, action, fmt.Sprintf("Task %s is now %s", task.TaskID, task.Status))

	writeJSON(w, http.StatusOK, task)
}

// DeleteTask deletes a task
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, "User not found in context", http.StatusUnauthorized)
		return
	}

	var req TaskIDRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.TaskID == "" {
		writeError(w, "Task ID is required", http.StatusBadRequest)
		return
	}

	if err := h.db.DeleteTask(req.TaskID); err != nil {
		log.Printf("❌ Failed to delete task: %v", err)
		writeError(w, "Failed to delete task", http.StatusInternalServerError)
		return
	}

	log.Printf("✅ Task deleted by %s: %s", user.Email, req.TaskID)
	logAudit(h.db, user.UserID, "DELETE_TASK", fmt.Sprintf("Deleted task %s", req.TaskID))

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Task deleted successfully",
	})
}
