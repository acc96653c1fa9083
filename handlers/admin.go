package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"fieldops/auth"
	"fieldops/db"
	"fieldops/middleware"
	"fieldops/models"
	"fieldops/normalize"
)

type AdminHandler struct {
	db *db.FirestoreDB
}

func NewAdminHandler(store *db.FirestoreDB) *AdminHandler {
	return &AdminHandler{
		db: store,
	}
}

// --- User Management ---

type CreateUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone,omitempty"`
	Role     string `json:"role"`
}

type UpdateUserRequest struct {
	UserID   string `json:"user_id"`
	FullName string `json:"full_name,omitempty"`
	Phone    string `json:"phone,omitempty"`
	PhotoURL string `json:"photo_url,omitempty"`
	Role     string `json:"role,omitempty"`
}

type DeleteUserRequest struct {
	UserID string `json:"user_id"`
}

// GetUsers returns all users
func (h *AdminHandler) GetUsers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	users, err := h.db.GetAllUsers()
	if err != nil {
		log.Printf("❌ Failed to get users: %v", err)
		writeError(w, "Failed to retrieve users", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, users)
}

// CreateUser creates a new user account
func (h *AdminHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	adminUser, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, "User not found in context", http.StatusUnauthorized)
		return
	}

	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Email == "" || req.Password == "" {
		writeError(w, "Email and password are required", http.StatusBadRequest)
		return
	}

	if err := auth.ValidatePasswordStrength(req.Password); err != nil {
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	existingUser, _ := h.db.GetUserByEmail(req.Email)
	if existingUser != nil {
		writeError(w, "Email already registered", http.StatusConflict)
		return
	}

	user := &models.User{
		UserID:    fmt.Sprintf("user-%s", uuid.NewString()),
		Email:     req.Email,
		FullName:  req.FullName,
		Phone:     req.Phone,
		Role:      normalize.Role(req.Role),
		CreatedAt: time.Now(),
	}

	if err := h.db.CreateUser(user); err != nil {
		log.Printf("❌ Failed to create user: %v", err)
		writeError(w, "Failed to create user", http.StatusInternalServerError)
		return
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		log.Printf("❌ Failed to hash password: %v", err)
		writeError(w, "Failed to hash password", http.StatusInternalServerError)
		return
	}

	if err := h.db.StorePasswordHash(user.UserID, passwordHash); err != nil {
		log.Printf("❌ Failed to store password: %v", err)
		writeError(w, "Failed to store password", http.StatusInternalServerError)
		return
	}

	log.Printf("✅ User created by %s: %s (role: %s)", adminUser.Email, user.Email, user.Role)
	logAudit(h.db, adminUser.UserID, "ADMIN_CREATE_USER",
		fmt.Sprintf("Created user %s with role %s", user.Email, user.Role))

	writeJSON(w, http.StatusCreated, user)
}

// UpdateUser updates an existing user account
func (h *AdminHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	adminUser, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, "User not found in context", http.StatusUnauthorized)
		return
	}

	var req UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.UserID == "" {
		writeError(w, "User ID is required", http.StatusBadRequest)
		return
	}

	user, err := h.db.GetUser(req.UserID)
	if err != nil {
		writeError(w, "User not found", http.StatusNotFound)
		return
	}

	if req.FullName != "" {
		user.FullName = req.FullName
	}
	if req.Phone != "" {
		user.Phone = req.Phone
	}
	if req.PhotoURL != "" {
		user.PhotoURL = req.PhotoURL
	}
	if req.Role != "" {
		user.Role = normalize.Role(req.Role)
	}

	if err := h.db.UpdateUser(user); err != nil {
		log.Printf("❌ Failed to update user: %v", err)
		writeError(w, "Failed to update user", http.StatusInternalServerError)
		return
	}

	log.Printf("✅ User updated by %s: %s", adminUser.Email, user.Email)
	logAudit(h.db, adminUser.UserID, "ADMIN_UPDATE_USER",
		fmt.Sprintf("Updated user %s (role: %s)", user.Email, user.Role))

	writeJSON(w, http.StatusOK, user)
}

// DeleteUser deletes a user account
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	adminUser, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, "User not found in context", http.StatusUnauthorized)
		return
	}

	var req DeleteUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.UserID == "" {
		writeError(w, "User ID is required", http.StatusBadRequest)
		return
	}

	if req.UserID == adminUser.UserID {
		writeError(w, "Cannot delete your own account", http.StatusBadRequest)
		return
	}

	user, err := h.db.GetUser(req.UserID)
	if err != nil {
		writeError(w, "User not found", http.StatusNotFound)
		return
	}

	if err := h.db.DeleteUser(req.UserID); err != nil {
		log.Printf("❌ Failed to delete user: %v", err)
		writeError(w, "Failed to delete user", http.StatusInternalServerError)
		return
	}

	log.Printf("✅ User deleted by %s: %s", adminUser.Email, user.Email)
	logAudit(h.db, adminUser.UserID, "ADMIN_DELETE_USER",
		fmt.Sprintf("Deleted user %s", user.Email))

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "User deleted successfully",
	})
}
