package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, "pm:generations", cfg.Events.Channel)
	assert.Equal(t, 720*time.Hour, cfg.Retention.ActivityLogMaxAge)
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:3001"}, cfg.Server.AllowOrigins)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("DATABASE_SQLITE_PATH", "/tmp/pm.db")
	t.Setenv("SERVER_ALLOW_ORIGINS", "https://a.example.com, https://b.example.com,")
	t.Setenv("RETENTION_ACTIVITY_LOG_MAX_AGE", "48h")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "/tmp/pm.db", cfg.Database.SQLitePath)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.Server.AllowOrigins)
	assert.Equal(t, 48*time.Hour, cfg.Retention.ActivityLogMaxAge)
}

func TestDSN(t *testing.T) {
	tcp := DatabaseConfig{Host: "db", Port: "3306", User: "u", Password: "p", DBName: "pm"}
	assert.Equal(t, "u:p@tcp(db:3306)/pm?charset=utf8mb4&parseTime=True&loc=UTC", tcp.DSN())

	socket := DatabaseConfig{Host: "/cloudsql/proj:region:inst", User: "u", Password: "p", DBName: "pm"}
	assert.Equal(t, "u:p@unix(/cloudsql/proj:region:inst)/pm?charset=utf8mb4&parseTime=True&loc=UTC", socket.DSN())
}
