package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	GCS       GCSConfig       `mapstructure:"gcs"`
	Gotenberg GotenbergConfig `mapstructure:"gotenberg"`
	Log       LogConfig       `mapstructure:"log"`
	Events    EventsConfig    `mapstructure:"events"`
	Retention RetentionConfig `mapstructure:"retention"`
}

type ServerConfig struct {
	Port         string   `mapstructure:"port"`
	Environment  string   `mapstructure:"environment"`
	BaseURL      string   `mapstructure:"base_url"`
	AllowOrigins []string `mapstructure:"allow_origins"`
}

type DatabaseConfig struct {
	Driver     string `mapstructure:"driver"` // "mysql" or "sqlite"
	Host       string `mapstructure:"host"`
	Port       string `mapstructure:"port"`
	User       string `mapstructure:"user"`
	Password   string `mapstructure:"password"`
	DBName     string `mapstructure:"name"`
	SQLitePath string `mapstructure:"sqlite_path"`
}

type GCSConfig struct {
	BucketName      string `mapstructure:"bucket_name"`
	ProjectID       string `mapstructure:"project_id"`
	CredentialsPath string `mapstructure:"credentials_path"`
}

type GotenbergConfig struct {
	URL     string `mapstructure:"url"`
	Timeout string `mapstructure:"timeout"`
}

type LogConfig struct {
	Format string `mapstructure:"format"` // "json" or "text"
	Level  string `mapstructure:"level"`
}

// EventsConfig selects where generation events go. An empty ValkeyAddr
// disables publishing.
type EventsConfig struct {
	ValkeyAddr string `mapstructure:"valkey_addr"`
	Channel    string `mapstructure:"channel"`
}

type RetentionConfig struct {
	ActivityLogMaxAge time.Duration `mapstructure:"activity_log_max_age"`
}

func (d *DatabaseConfig) DSN() string {
	// Cloud SQL Unix socket support
	if len(d.Host) > 0 && d.Host[0] == '/' {
		return fmt.Sprintf("%s:%s@unix(%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			d.User, d.Password, d.Host, d.DBName)
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		d.User, d.Password, d.Host, d.Port, d.DBName)
}

// Load reads .env (if present) and the process environment. Keys map to
// config paths by replacing "." with "_", e.g. DATABASE_DRIVER.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded, using system environment variables", "error", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.Server.AllowOrigins = parseAllowOrigins(v.GetString("server.allow_origins"))

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.base_url", "")
	v.SetDefault("server.allow_origins", "")
	v.SetDefault("database.driver", "mysql")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "3306")
	v.SetDefault("database.user", "root")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "pm_tmpl")
	v.SetDefault("database.sqlite_path", "./pm_tmpl.db")
	v.SetDefault("gcs.bucket_name", "")
	v.SetDefault("gcs.project_id", "")
	v.SetDefault("gcs.credentials_path", "")
	v.SetDefault("gotenberg.url", "http://localhost:3000")
	v.SetDefault("gotenberg.timeout", "30s")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.level", "info")
	v.SetDefault("events.valkey_addr", "")
	v.SetDefault("events.channel", "pm:generations")
	v.SetDefault("retention.activity_log_max_age", "720h")
}

func parseAllowOrigins(origins string) []string {
	var allowOrigins []string
	for _, origin := range strings.Split(origins, ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			allowOrigins = append(allowOrigins, trimmed)
		}
	}

	if len(allowOrigins) == 0 {
		allowOrigins = []string{
			"http://localhost:3000",
			"http://localhost:3001",
		}
	}

	return allowOrigins
}
