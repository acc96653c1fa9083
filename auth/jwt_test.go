package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fieldops/models"
)

func testUser() *models.User {
	return &models.User{
		UserID: "user-tech-carlos",
		Email:  "carlos@fieldops.example",
		Role:   models.RoleTechnician,
	}
}

func TestGenerateAndValidateToken(t *testing.T) {
	manager := NewJWTManager("test-secret-key", time.Hour, 24*time.Hour)

	token, err := manager.GenerateToken(testUser())
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := manager.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-tech-carlos", claims.UserID)
	assert.Equal(t, "carlos@fieldops.example", claims.Email)
	assert.Equal(t, models.RoleTechnician, claims.Role)
	assert.Equal(t, "fieldops-api", claims.Issuer)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	manager := NewJWTManager("test-secret-key", time.Hour, 24*time.Hour)
	other := NewJWTManager("different-secret", time.Hour, 24*time.Hour)

	token, err := manager.GenerateToken(testUser())
	require.NoError(t, err)

	_, err = other.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateExpiredToken(t *testing.T) {
	manager := NewJWTManager("test-secret-key", -time.Minute, 24*time.Hour)

	token, err := manager.GenerateToken(testUser())
	require.NoError(t, err)

	_, err = manager.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateGarbageToken(t *testing.T) {
	manager := NewJWTManager("test-secret-key", time.Hour, 24*time.Hour)

	_, err := manager.ValidateToken("not.a.token")
	assert.Error(t, err)
}

func TestExtractToken(t *testing.T) {
	token, err := ExtractToken("Bearer abc123")
	require.NoError(t, err)
	assert.Equal(t, "abc123", token)

	_, err = ExtractToken("")
	assert.Error(t, err)

	_, err = ExtractToken("abc123")
	assert.Error(t, err)

	_, err = ExtractToken("Bearer ")
	assert.Error(t, err)
}
