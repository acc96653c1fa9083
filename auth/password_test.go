package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("correct-horse-1")
	require.NoError(t, err)
	assert.NotEqual(t, "correct-horse-1", hash)

	assert.NoError(t, CheckPassword("correct-horse-1", hash))
	assert.Error(t, CheckPassword("wrong-password-2", hash))
}

func TestHashPasswordTooShort(t *testing.T) {
	_, err := HashPassword("short1")
	assert.Error(t, err)
}

func TestValidatePasswordStrength(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"valid", "password123", false},
		{"too short", "pass1", true},
		{"no digit", "passwordonly", true},
		{"no letter", "1234567890", true},
		{"exactly minimum", "abcdefg1", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePasswordStrength(tt.password)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
