package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jonathan/interview-prep/internal/config"
	"github.com/jonathan/interview-prep/internal/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"serve", "migrate", "token"} {
		assert.True(t, names[want], want)
	}
}

func TestLoadConfig_FileUnderEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"port":9000,"database_url":"postgres://file","log_mode":"prod"}`), 0o600))

	t.Setenv("PORT", "")
	t.Setenv("DATABASE_URL", "postgres://env")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GEMINI_MODEL", "")
	t.Setenv("LOG_MODE", "")
	t.Setenv("AUTO_MIGRATE", "")

	configPath = path
	t.Cleanup(func() { configPath = "" })

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "postgres://env", cfg.DatabaseURL)
	assert.Equal(t, "prod", cfg.LogMode)
}

func TestLoadConfig_InvalidEnv(t *testing.T) {
	t.Setenv("PORT", "eighty")
	_, err := loadConfig()
	assert.Error(t, err)
}

func TestTokenCommand(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "cli-secret")
	t.Setenv("AUTH_JWT_ISSUER", "")
	t.Setenv("AUTH_TOKEN_TTL_HOURS", "2")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"token", "--sub", "user_cli", "--email", "cli@example.com"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})
	require.NoError(t, rootCmd.Execute())

	token := strings.TrimSpace(out.String())
	require.NotEmpty(t, token)

	claims, err := server.NewJWTService(&config.AuthConfig{Secret: "cli-secret", TTLHours: 2}).ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user_cli", claims.Subject)
	assert.Equal(t, "cli@example.com", claims.Email)
}
