package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/odonto-api/pkg/config"
)

func TestLoad_RequiereJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoad_LeeVariablesDeEntorno(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cr3t")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("APP_TIMEZONE", "America/Sao_Paulo")
	t.Setenv("METRICS_ENABLED", "false")
	t.Setenv("DASHBOARD_CACHE_SECONDS", "15")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "s3cr3t", cfg.JWT.Secret)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, "0.0.0.0:9090", cfg.HTTP.Addr())
	assert.False(t, cfg.Metrics.Enabled)
	assert.Equal(t, 15*time.Second, cfg.Dashboard.CacheTTL)
	assert.Equal(t, "America/Sao_Paulo", cfg.App.Location().String())
}

func TestAppConfig_LocationInvalidaCaeAUTC(t *testing.T) {
	c := config.AppConfig{Timezone: "Marte/Olympus"}
	assert.Equal(t, time.UTC, c.Location())
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "odonto", Password: "p@ss:word", DBName: "clinica", SSLMode: "disable"}
	assert.Equal(t, "postgres://odonto:p%40ss%3Aword@db:5432/clinica?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://x@y/z"
	assert.Equal(t, "postgres://x@y/z", c.ConnectionString())
}
