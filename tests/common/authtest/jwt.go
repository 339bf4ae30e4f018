//go:build unit || e2e

package authtest

import (
	"testing"
	"time"

	"car-rental/internal/pkg/config"
	"car-rental/internal/pkg/jwt"
	"car-rental/internal/usecase/shared"

	"github.com/stretchr/testify/require"
)

type JWTHelper struct {
	cfg config.JWTConfig
}

func NewJWTHelper(cfg config.JWTConfig) *JWTHelper {
	return &JWTHelper{cfg: cfg}
}

func (h *JWTHelper) GenerateToken(t *testing.T, userID int64, role shared.Role) string {
	t.Helper()
	duration, err := time.ParseDuration(h.cfg.Duration)
	require.NoError(t, err)
	service := jwt.NewService(h.cfg.Secret, duration)
	token, err := service.GenerateToken(userID, string(role))
	require.NoError(t, err)
	return token
}

func (h *JWTHelper) CreateExpiredToken(t *testing.T, userID int64, role shared.Role) string {
	t.Helper()
	service := jwt.NewService(h.cfg.Secret, 1*time.Millisecond)
	token, err := service.GenerateToken(userID, string(role))
	require.NoError(t, err)
	time.Sleep(10 * time.Millisecond)
	return token
}
