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
)

type ClientHandler struct {
	db *db.FirestoreDB
}

func NewClientHandler(store *db.FirestoreDB) *ClientHandler {
	return &ClientHandler{
		db: store,
	}
}

// ClientRow is a client plus its derived equipment count. The count is
// composed from the equipment collection at read time and never stored on
// the client document, so it cannot go stale.
type ClientRow struct {
	models.Client
	EquipmentCount int `json:"equipment_count"`
}

type ClientListResponse struct {
	Clients    []ClientRow `json:"clients"`
	Count      int         `json:"count"`
	Page       int         `json:"page"`
	TotalPages int         `json:"total_pages"`
}

type CreateClientRequest struct {
	Name        string  `json:"name"`
	TaxID       string  `json:"tax_id,omitempty"`
	Address     string  `json:"address"`
	Phone       string  `json:"phone,omitempty"`
	Email       string  `json:"email,omitempty"`
	ContactName string  `json:"contact_name,omitempty"`
	Latitude    float64 `json:"latitude,omitempty"`
	Longitude   float64 `json:"longitude,omitempty"`
}

type UpdateClientRequest struct {
	ClientID    string  `json:"client_id"`
	Name        string  `json:"name,omitempty"`
	TaxID       string  `json:"tax_id,omitempty"`
	Address     string  `json:"address,omitempty"`
	Phone       string  `json:"phone,omitempty"`
	Email       string  `json:"email,omitempty"`
	ContactName string  `json:"contact_name,omitempty"`
	Latitude    float64 `json:"latitude,omitempty"`
	Longitude   float64 `json:"longitude,omitempty"`
}

type DeleteClientRequest struct {
	ClientID string `json:"client_id"`
}

// GetClients returns a paginated client list with equipment counts
func (h *ClientHandler) GetClients(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	clients, err := h.db.GetAllClients()
	if err != nil {
		log.Printf("❌ Failed to get clients: %v", err)
		writeError(w, "Failed to retrieve clients", http.StatusInternalServerError)
		return
	}

	equipment, err := h.db.GetAllEquipment()
	if err != nil {
		log.Printf("❌ Failed to get equipment for counts: %v", err)
		writeError(w, "Failed to retrieve clients", http.StatusInternalServerError)
		return
	}

	countsByClient := make(map[string]int, len(clients))
	for _, unit := range equipment {
		countsByClient[unit.ClientID]++
	}

	sort.Slice(clients, func(i, j int) bool {
		return clients[i].Name < clients[j].Name
	})

	pager := pageFromQuery(r, len(clients))
	start, end := pager.Window()

	rows := make([]ClientRow, 0, end-start)
	for _, client := range clients[start:end] {
		rows = append(rows, ClientRow{
			Client:         client,
			EquipmentCount: countsByClient[client.ClientID],
		})
	}

	writeJSON(w, http.StatusOK, ClientListResponse{
		Clients:    rows,
		Count:      len(clients),
		Page:       pager.CurrentPage(),
		TotalPages: pager.TotalPages(),
	})
}

// CreateClient creates a new client
func (h *ClientHandler) CreateClient(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, "User not found in context", http.StatusUnauthorized)
		return
	}

	var req CreateClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Name == "" || req.Address == "" {
		writeError(w, "Name and address are required", http.StatusBadRequest)
		return
	}

	client := &models.Client{
		ClientID:    fmt.Sprintf("client-%s", uuid.NewString()),
		Name:        req.Name,
		TaxID:       req.TaxID,
		Address:     req.Address,
		Phone:       req.Phone,
		Email:       req.Email,
		ContactName: req.ContactName,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		CreatedAt:   time.Now(),
	}

	if err := h.db.CreateClient(client); err != nil {
		log.Printf("❌ Failed to create client: %v", err)
		writeError(w, "Failed to create client", http.StatusInternalServerError)
		return
	}

	log.Printf("✅ Client created by %s: %s", user.Email, client.Name)
	logAudit(h.db, user.UserID, "CREATE_CLIENT", fmt.Sprintf("Created client %s", client.Name))

	writeJSON(w, http.StatusCreated, client)
}

// UpdateClient updates an existing client
func (h *ClientHandler) UpdateClient(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, "User not found in context", http.StatusUnauthorized)
		return
	}

	var req UpdateClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.ClientID == "" {
		writeError(w, "Client ID is required", http.StatusBadRequest)
		return
	}

	client, err := h.db.GetClient(req.ClientID)
	if err != nil {
		writeError(w, "Client not found", http.StatusNotFound)
		return
	}

	if req.Name != "" {
		client.Name = req.Name
	}
	if req.TaxID != "" {
		client.TaxID = req.TaxID
	}
	if req.Address != "" {
		client.Address = req.Address
	}
	if req.Phone != "" {
		client.Phone = req.Phone
	}
	if req.Email != "" {
		client.Email = req.Email
	}
	if req.ContactName != "" {
		client.ContactName = req.ContactName
	}
	if req.Latitude != 0 || req.Longitude != 0 {
		client.Latitude = req.Latitude
		client.Longitude = req.Longitude
	}

	if err := h.db.UpdateClient(client); err != nil {
		log.Printf("❌ Failed to update client: %v", err)
		writeError(w, "Failed to update client", http.StatusInternalServerError)
		return
	}

	log.Printf("✅ Client updated by %s: %s", user.Email, client.Name)
	logAudit(h.db, user.UserID, "UPDATE_CLIENT", fmt.Sprintf("Updated client %s", client.Name))

	writeJSON(w, http.StatusOK, client)
}

// DeleteClient deletes a client
func (h *ClientHandler) DeleteClient(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, "User not found in context", http.StatusUnauthorized)
		return
	}

	var req DeleteClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.ClientID == "" {
		writeError(w, "Client ID is required", http.StatusBadRequest)
		return
	}

	client, err := h.db.GetClient(req.ClientID)
	if err != nil {
		writeError(w, "Client not found", http.StatusNotFound)
		return
	}

	if err := h.db.DeleteClient(req.ClientID); err != nil {
		log.Printf("❌ Failed to delete client: %v", err)
		writeError(w, "Failed to delete client", http.StatusInternalServerError)
		return
	}

	log.Printf("✅ Client deleted by %s: %s", user.Email, client.Name)
	logAudit(h.db, user.UserID, "DELETE_CLIENT", fmt.Sprintf("Deleted client %s", client.Name))

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Client deleted successfully",
	})
}
