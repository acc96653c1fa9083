package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"fieldops/db"
	"fieldops/middleware"
	"fieldops/models"
	"fieldops/normalize"
)

type TemplateHandler struct {
	db *db.FirestoreDB
}

func NewTemplateHandler(store *db.FirestoreDB) *TemplateHandler {
	return &TemplateHandler{
		db: store,
	}
}

type CreateTemplateRequest struct {
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	ServiceType string   `json:"service_type"`
	Activities  []string `json:"activities"`
}

type UpdateTemplateRequest struct {
	TemplateID  string   `json:"template_id"`
	Name        string   `json:"name,omitempty"`
	Category    string   `json:"category,omitempty"`
	ServiceType string   `json:"service_type,omitempty"`
	Activities  []string `json:"activities,omitempty"`
	Active      *bool    `json:"active,omitempty"`
}

type DeleteTemplateRequest struct {
	TemplateID string `json:"template_id"`
}

// GetTemplates returns all protocol templates
func (h *TemplateHandler) GetTemplates(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	templates, err := h.db.GetAllTemplates()
	if err != nil {
		log.Printf("❌ Failed to get templates: %v", err)
		writeError(w, "Failed to retrieve templates", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, templates)
}

// CreateTemplate creates a new protocol template
func (h *TemplateHandler) CreateTemplate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	adminUser, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, "User not found in context", http.StatusUnauthorized)
		return
	}

	var req CreateTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Name == "" || len(req.Activities) == 0 {
		writeError(w, "Name and at least one activity are required", http.StatusBadRequest)
		return
	}

	now := time.Now()
	template := &models.Template{
		TemplateID:  fmt.Sprintf("template-%s", uuid.NewString()),
		Name:        req.Name,
		Category:    req.Category,
		ServiceType: normalize.ServiceType(req.ServiceType),
		Activities:  req.Activities,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := h.db.CreateTemplate(template); err != nil {
		log.Printf("❌ Failed to create template: %v", err)
		writeError(w, "Failed to create template", http.StatusInternalServerError)
		return
	}

	log.Printf("✅ Template created by %s: %s", adminUser.Email, template.Name)
	logAudit(h.db, adminUser.UserID, "ADMIN_CREATE_TEMPLATE",
		fmt.Sprintf("Created template %s (%d activities)", template.Name, len(template.Activities)))

	writeJSON(w, http.StatusCreated, template)
}

// UpdateTemplate updates an existing protocol template
func (h *TemplateHandler) UpdateTemplate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	adminUser, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, "User not found in context", http.StatusUnauthorized)
		return
	}

	var req UpdateTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.TemplateID == "" {
		writeError(w, "Template ID is required", http.StatusBadRequest)
		return
	}

	template, err := h.db.GetTemplate(req.TemplateID)
	if err != nil {
		writeError(w, "Template not found", http.StatusNotFound)
		return
	}

	if req.Name != "" {
		template.Name = req.Name
	}
	if req.Category != "" {
		template.Category = req.Category
	}
	if req.ServiceType != "" {
		template.ServiceType = normalize.ServiceType(req.ServiceType)
	}
	if req.Activities != nil {
		template.Activities = req.Activities
	}
	if req.Active != nil {
		template.Active = *req.Active
	}

	if err := h.db.UpdateTemplate(template); err != nil {
		log.Printf("❌ Failed to update template: %v", err)
		writeError(w, "Failed to update template", http.StatusInternalServerError)
		return
	}

	log.Printf("✅ Template updated by %s: %s", adminUser.Email, template.Name)
	logAudit(h.db, adminUser.UserID, "ADMIN_UPDATE_TEMPLATE",
		fmt.Sprintf("Updated template %s", template.Name))

	writeJSON(w, http.StatusOK, template)
}

// DeleteTemplate deletes a protocol template
func (h *TemplateHandler) DeleteTemplate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	adminUser, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, "User not found in context", http.StatusUnauthorized)
		return
	}

	var req DeleteTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.TemplateID == "" {
		writeError(w, "Template ID is required", http.StatusBadRequest)
		return
	}

	template, err := h.db.GetTemplate(req.TemplateID)
	if err != nil {
		writeError(w, "Template not found", http.StatusNotFound)
		return
	}

	if err := h.db.DeleteTemplate(req.TemplateID); err != nil {
		log.Printf("❌ Failed to delete template: %v", err)
		writeError(w, "Failed to delete template", http.StatusInternalServerError)
		return
	}

	log.Printf("✅ Template deleted by %s: %s", adminUser.Email, template.Name)
	logAudit(h.db, adminUser.UserID, "ADMIN_DELETE_TEMPLATE",
		fmt.Sprintf("Deleted template %s", template.Name))

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Template deleted successfully",
	})
}
