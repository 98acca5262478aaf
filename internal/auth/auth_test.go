package auth_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcastellanos/taller/internal/auth"
)

func TestService_PasswordRoundTrip(t *testing.T) {
	svc := auth.NewService("test-secret", time.Hour)

	hash, err := svc.HashPassword("hunter22")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22", hash)

	assert.True(t, svc.CheckPassword("hunter22", hash))
	assert.False(t, svc.CheckPassword("wrong", hash))
}

func TestService_TokenRoundTrip(t *testing.T) {
	svc := auth.NewService("test-secret", time.Hour)
	userID := uuid.New()

	token, err := svc.GenerateToken(userID, "mrivas", "receptionist")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "mrivas", claims.Username)
	assert.Equal(t, "receptionist", claims.Role)
}

func TestService_ValidateToken_WrongSecret(t *testing.T) {
	token, err := auth.NewService("secret-a", time.Hour).GenerateToken(uuid.New(), "x", "admin")
	require.NoError(t, err)

	_, err = auth.NewService("secret-b", time.Hour).ValidateToken(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestService_ValidateToken_Expired(t *testing.T) {
	svc := auth.NewService("test-secret", -time.Minute)

	token, err := svc.GenerateToken(uuid.New(), "x", "admin")
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, auth.ErrExpiredToken)
}

func TestExtractTokenFromHeader(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{name: "Valid", header: "Bearer abc.def.ghi", want: "abc.def.ghi"},
		{name: "Empty", header: "", wantErr: true},
		{name: "NoScheme", header: "abc.def.ghi", wantErr: true},
		{name: "WrongScheme", header: "Basic abc", wantErr: true},
		{name: "EmptyToken", header: "Bearer ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := auth.ExtractTokenFromHeader(tt.header)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
