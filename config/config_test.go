package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "3333", cfg.Server.Port)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Empty(t, cfg.Server.TrustedProxies)
	assert.Equal(t, time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.False(t, cfg.Redis.Enabled())
	assert.False(t, cfg.IsProduction())
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("PORT", "9000")
	t.Setenv("JWT_TTL", "30m")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("DB_AUTO_SCHEMA", "true")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8,127.0.0.1")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("APP_ENV", "production")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, 30*time.Minute, cfg.Auth.TokenTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
	assert.True(t, cfg.Database.AutoSchema)
	assert.Equal(t, []string{"10.0.0.0/8", "127.0.0.1"}, cfg.Server.TrustedProxies)
	assert.True(t, cfg.Redis.Enabled())
	assert.True(t, cfg.IsProduction())
}

func TestFromEnv_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("DB_PORT", "not-a-number")
	t.Setenv("CACHE_TTL", "soon")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, 5*time.Minute, cfg.Redis.CacheTTL)
}

func TestFromEnv_RequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := FromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoadForAdmin_NoSecretNeeded(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("DB_HOST", "db.internal")

	cfg, err := LoadForAdmin()
	require.NoError(t, err)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Empty(t, cfg.Auth.JWTSecret)
}

func TestLoadForAdmin_ValidatesDatabase(t *testing.T) {
	t.Setenv("DB_MAX_CONNS", "1")

	_, err := LoadForAdmin()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_MAX_CONNS")
}

func TestDatabaseConfig_SplitPools(t *testing.T) {
	tests := []struct {
		name                     string
		max, min                 int
		wantProjects, wantUsers  int
		wantProjMin, wantUserMin int
	}{
		{name: "defaults", max: 10, min: 2, wantProjects: 8, wantUsers: 2, wantProjMin: 2, wantUserMin: 2},
		{name: "small budget", max: 3, min: 2, wantProjects: 2, wantUsers: 1, wantProjMin: 2, wantUserMin: 1},
		{name: "minimum", max: 2, min: 0, wantProjects: 1, wantUsers: 1, wantProjMin: 0, wantUserMin: 0},
		{name: "large", max: 40, min: 5, wantProjects: 30, wantUsers: 10, wantProjMin: 5, wantUserMin: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := DatabaseConfig{Host: "localhost", MaxConns: tt.max, MinConns: tt.min}
			projects, users := d.SplitPools()

			assert.Equal(t, tt.wantProjects, projects.MaxConns)
			assert.Equal(t, tt.wantUsers, users.MaxConns)
			assert.Equal(t, tt.max, projects.MaxConns+users.MaxConns)
			assert.Equal(t, tt.wantProjMin, projects.MinConns)
			assert.Equal(t, tt.wantUserMin, users.MinConns)
			assert.Equal(t, "localhost", users.Host)
		})
	}
}
