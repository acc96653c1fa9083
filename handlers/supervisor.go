package handlers

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"fieldops/auth"
	"fieldops/db"
	"fieldops/middleware"
	"fieldops/models"
)

type SupervisorHandler struct {
	db *db.FirestoreDB
}

func NewSupervisorHandler(store *db.FirestoreDB) *SupervisorHandler {
	return &SupervisorHandler{
		db: store,
	}
}

// ExportTasks exports the task list to CSV
func (h *SupervisorHandler) ExportTasks(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, "User not found in context", http.StatusUnauthorized)
		return
	}

	tasks, err := h.db.GetAllTasks()
	if err != nil {
		log.Printf("❌ Failed to get tasks: %v", err)
		writeError(w, "Failed to retrieve tasks", http.StatusInternalServerError)
		return
	}
	sortTasksBySchedule(tasks)

	timestamp := time.Now().Format("2006-01-02_15-04-05")
	filename := fmt.Sprintf("fieldops_tasks_%s.csv", timestamp)
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))

	writer := csv.NewWriter(w)
	defer writer.Flush()

	header := []string{
		"Task ID",
		"Client",
		"Scheduled Date",
		"Scheduled Time",
		"Service Type",
		"Priority",
		"Status",
		"Technician ID",
		"Equipment",
		"Completed At",
	}
	if err := writer.Write(header); err != nil {
		log.Printf("❌ Failed to write CSV header: %v", err)
		return
	}

	for _, task := range tasks {
		names := make([]string, 0, len(task.Equipment))
		for _, unit := range task.Equipment {
			names = append(names, unit.Name)
		}

		completedAt := ""
		if !task.CompletedAt.IsZero() {
			completedAt = task.CompletedAt.Format(time.RFC3339)
		}

		row := []string{
			task.TaskID,
			task.ClientName,
			task.ScheduledDate.Format("2006-01-02"),
			task.ScheduledTime,
			string(task.ServiceType),
			string(task.Priority),
			string(task.Status),
			task.TechnicianID,
			strings.Join(names, "; "),
			completedAt,
		}
		if err := writer.Write(row); err != nil {
			log.Printf("❌ Failed to write CSV row: %v", err)
			return
		}
	}

	log.Printf("📊 CSV export by %s: %d tasks", user.Email, len(tasks))
	logAudit(h.db, user.UserID, "EXPORT_TASKS", fmt.Sprintf("Exported %d tasks to CSV", len(tasks)))
}

// ResetPasswordRequest represents a password reset request
type ResetPasswordRequest struct {
	UserID      string `json:"user_id"`
	NewPassword string `json:"new_password"`
}

// ResetPassword resets a technician's password. Supervisors may only reset
// technician accounts; admins can reset anyone's.
func (h *SupervisorHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	supervisor, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, "User not found in context", http.StatusUnauthorized)
		return
	}

	var req ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.UserID == "" || req.NewPassword == "" {
		writeError(w, "User ID and new password are required", http.StatusBadRequest)
		return
	}

	if err := auth.ValidatePasswordStrength(req.NewPassword); err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	targetUser, err := h.db.GetUser(req.UserID)
	if err != nil {
		writeError(w, "User not found", http.StatusNotFound)
		return
	}

	if supervisor.Role == models.RoleSupervisor && targetUser.Role != models.RoleTechnician {
		writeError(w, "Supervisors can only reset technician passwords", http.StatusForbidden)
		return
	}

	passwordHash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		log.Printf("❌ Failed to hash password: %v", err)
		writeError(w, "Failed to hash password", http.StatusInternalServerError)
		return
	}

	if err := h.db.StorePasswordHash(req.UserID, passwordHash); err != nil {
		log.Printf("❌ Failed to store password: %v", err)
		writeError(w, "Failed to update password", http.StatusInternalServerError)
		return
	}

	log.Printf("🔑 Password reset by %s for user: %s", supervisor.Email, targetUser.Email)
	logAudit(h.db, supervisor.UserID, "RESET_PASSWORD",
		fmt.Sprintf("Reset password for %s", targetUser.Email))

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Password reset successfully",
	})
}
