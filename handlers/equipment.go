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

type EquipmentHandler struct {
	db *db.FirestoreDB
}

func NewEquipmentHandler(store *db.FirestoreDB) *EquipmentHandler {
	return &EquipmentHandler{
		db: store,
	}
}

type EquipmentListResponse struct {
	Equipment  []models.Equipment `json:"equipment"`
	Count      int                `json:"count"`
	Page       int                `json:"page"`
	TotalPages int                `json:"total_pages"`
}

type CreateEquipmentRequest struct {
	ClientID     string `json:"client_id"`
	Name         string `json:"name"`
	Model        string `json:"model,omitempty"`
	SerialNumber string `json:"serial_number,omitempty"`
	Status       string `json:"status,omitempty"`
	TemplateID   string `json:"template_id,omitempty"`
}

type UpdateEquipmentRequest struct {
	EquipmentID     string `json:"equipment_id"`
	Name            string `json:"name,omitempty"`
	Model           string `json:"model,omitempty"`
	SerialNumber    string `json:"serial_number,omitempty"`
	Status          string `json:"status,omitempty"`
	TemplateID      string `json:"template_id,omitempty"`
	LastMaintenance string `json:"last_maintenance,omitempty"`
}

type DeleteEquipmentRequest struct {
	EquipmentID string `json:"equipment_id"`
}

// GetEquipment returns equipment, optionally scoped to one client via the
// client_id query parameter, paginated
func (h *EquipmentHandler) GetEquipment(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var (
		equipment []models.Equipment
		err       error
	)
	if clientID := r.URL.Query().Get("client_id"); clientID != "" {
		equipment, err = h.db.GetEquipmentByClient(clientID)
	} else {
		equipment, err = h.db.GetAllEquipment()
	}
	if err != nil {
		log.Printf("❌ Failed to get equipment: %v", err)
		writeError(w, "Failed to retrieve equipment", http.StatusInternalServerError)
		return
	}

	pager := pageFromQuery(r, len(equipment))
	start, end := pager.Window()

	writeJSON(w, http.StatusOK, EquipmentListResponse{
		Equipment:  equipment[start:end],
		Count:      len(equipment),
		Page:       pager.CurrentPage(),
		TotalPages: pager.TotalPages(),
	})
}

// CreateEquipment registers a new unit at a client site
func (h *EquipmentHandler) CreateEquipment(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, "User not found in context", http.StatusUnauthorized)
		return
	}

	var req CreateEquipmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.ClientID == "" || req.Name == "" {
		writeError(w, "Client ID and name are required", http.StatusBadRequest)
		return
	}

	if _, err := h.db.GetClient(req.ClientID); err != nil {
		writeError(w, "Client not found", http.StatusNotFound)
		return
	}

	status := models.EquipmentOperational
	if req.Status != "" {
		status = normalize.EquipmentStatus(req.Status)
	}

	equipment := &models.Equipment{
		EquipmentID:  fmt.Sprintf("equipment-%s", uuid.NewString()),
		ClientID:     req.ClientID,
		Name:         req.Name,
		Model:        req.Model,
		SerialNumber: req.SerialNumber,
		Status:       status,
		TemplateID:   req.TemplateID,
		CreatedAt:    time.Now(),
	}

	if err := h.db.CreateEquipment(equipment); err != nil {
		log.Printf("❌ Failed to create equipment: %v", err)
		writeError(w, "Failed to create equipment", http.StatusInternalServerError)
		return
	}

	log.Printf("✅ Equipment created by %s: %s (client: %s)", user.Email, equipment.Name, equipment.ClientID)
	logAudit(h.db, user.UserID, "CREATE_EQUIPMENT",
		fmt.Sprintf("Created equipment %s for client %s", equipment.Name, equipment.ClientID))

	writeJSON(w, http.StatusCreated, equipment)
}

// UpdateEquipment updates an existing unit
func (h *EquipmentHandler) UpdateEquipment(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, "User not found in context", http.StatusUnauthorized)
		return
	}

	var req UpdateEquipmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.EquipmentID == "" {
		writeError(w, "Equipment ID is required", http.StatusBadRequest)
		return
	}

	equipment, err := h.db.GetEquipment(req.EquipmentID)
	if err != nil {
		writeError(w, "Equipment not found", http.StatusNotFound)
		return
	}

	if req.Name != "" {
		equipment.Name = req.Name
	}
	if req.Model != "" {
		equipment.Model = req.Model
	}
	if req.SerialNumber != "" {
		equipment.SerialNumber = req.SerialNumber
	}
	if req.Status != "" {
		equipment.Status = normalize.EquipmentStatus(req.Status)
	}
	if req.TemplateID != "" {
		equipment.TemplateID = req.TemplateID
	}
	if req.LastMaintenance != "" {
		if t, err := time.Parse(time.RFC3339, req.LastMaintenance); err == nil {
			equipment.LastMaintenance = t
		} else {
			writeError(w, "Invalid last_maintenance format. Use RFC3339", http.StatusBadRequest)
			return
		}
	}

	if err := h.db.UpdateEquipment(equipment); err != nil {
		log.Printf("❌ Failed to update equipment: %v", err)
		writeError(w, "Failed to update equipment", http.StatusInternalServerError)
		return
	}

	log.Printf("✅ Equipment updated by %s: %s", user.Email, equipment.Name)
	logAudit(h.db, user.UserID, "UPDATE_EQUIPMENT", fmt.Sprintf("Updated equipment %s", equipment.Name))

	writeJSON(w, http.StatusOK, equipment)
}

// DeleteEquipment deletes an equipment record
func (h *EquipmentHandler) DeleteEquipment(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, "User not found in context", http.StatusUnauthorized)
		return
	}

	var req DeleteEquipmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.EquipmentID == "" {
		writeError(w, "Equipment ID is required", http.StatusBadRequest)
		return
	}

	equipment, err := h.db.GetEquipment(req.EquipmentID)
	if err != nil {
		writeError(w, "Equipment not found", http.StatusNotFound)
		return
	}

	if err := h.db.DeleteEquipment(req.EquipmentID); err != nil {
		log.Printf("❌ Failed to delete equipment: %v", err)
		writeError(w, "Failed to delete equipment", http.StatusInternalServerError)
		return
	}

	log.Printf("✅ Equipment deleted by %s: %s", user.Email, equipment.Name)
	logAudit(h.db, user.UserID, "DELETE_EQUIPMENT", fmt.Sprintf("Deleted equipment %s", equipment.Name))

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Equipment deleted successfully",
	})
}
