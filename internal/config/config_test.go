package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "8080", cfg.Server.Port)
	require.Equal(t, 100*time.Hour, cfg.JWT.AccessTokenTTL)
	require.Equal(t, 10*time.Minute, cfg.JWT.ResetTokenTTL)
	require.Equal(t, "https://api-inference.huggingface.co/models", cfg.AI.BaseURL)
	require.Equal(t, "facebook/bart-large-cnn", cfg.AI.Model)
}

func TestLoad_RequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("JWT_ACCESS_TTL", "24h")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://app.example.com, https://admin.example.com")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, 24*time.Hour, cfg.JWT.AccessTokenTTL)
	require.Equal(t, "9090", cfg.Server.Port)
	require.Equal(t, []string{"https://app.example.com", "https://admin.example.com"}, cfg.CORS.AllowedOrigins)
}

func TestGetDSN(t *testing.T) {
	cfg := &Config{
		Database: DatabaseConfig{
			Host:        "db.internal",
			Port:        "5432",
			User:        "notehub",
			Password:    "pw",
			Name:        "notehub",
			SSLMode:     "require",
			ConnTimeout: 10 * time.Second,
		},
	}
	require.Equal(t,
		"postgres://notehub:pw@db.internal:5432/notehub?sslmode=require&connect_timeout=10",
		cfg.GetDSN())
}
