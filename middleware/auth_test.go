package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"fieldops/models"
)

func requestWithUser(role models.UserRole) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/api/clients", nil)
	user := &models.User{
		UserID: "user-1",
		Email:  "user@fieldops.example",
		Role:   role,
	}
	ctx := context.WithValue(r.Context(), UserContextKey, user)
	return r.WithContext(ctx)
}

func TestRequireRoleAllows(t *testing.T) {
	called := false
	handler := RequireRole(models.RoleSupervisor, models.RoleAdmin)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
			w.WriteHeader(http.StatusOK)
		}),
	)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, requestWithUser(models.RoleSupervisor))

	assert.True(t, called)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRoleDenies(t *testing.T) {
	called := false
	handler := RequireRole(models.RoleAdmin)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
		}),
	)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, requestWithUser(models.RoleTechnician))

	assert.False(t, called)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "Insufficient permissions")
}

func TestRequireRoleWithoutUser(t *testing.T) {
	handler := RequireRole(models.RoleAdmin)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler should not be reached")
		}),
	)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/clients", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetUserFromContext(t *testing.T) {
	r := requestWithUser(models.RoleAdmin)
	user, ok := GetUserFromContext(r.Context())
	assert.True(t, ok)
	assert.Equal(t, "user-1", user.UserID)

	_, ok = GetUserFromContext(context.Background())
	assert.False(t, ok)
}
