package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// DatabaseConfig is the PostgreSQL connection configuration.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int
	MaxIdle  int
}

// DSN returns the lib/pq connection string.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode)
}

// RedisConfig is the report-cache Redis configuration.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// MQTTConfig is the metric-ingest broker configuration.
type MQTTConfig struct {
	Broker   string
	ClientID string
	Username string
	Password string
	Topic    string
	QoS      byte
}

// InsightConfig configures the optional completion-API client used for
// report narratives. Disabled unless BaseURL and APIKey are both set.
type InsightConfig struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// Enabled reports whether the insight client should be constructed.
func (c *InsightConfig) Enabled() bool {
	return c.BaseURL != "" && c.APIKey != ""
}

// Config is the secwatch-reporting service configuration.
type Config struct {
	Database DatabaseConfig
	Redis    RedisConfig
	MQTT     MQTTConfig
	Insight  InsightConfig

	HTTP struct {
		Addr string
	}

	Reporting struct {
		// Default lookback windows (days) applied when a request omits the
		// date range. The per-type defaults mirror the console UI.
		SecurityWindowDays    int
		ComplianceWindowDays  int
		IncidentWindowDays    int
		DeviceWindowDays      int
		IntegrationWindowDays int

		// AuditLogLimit caps the compliance audit-log query. Callers needing
		// more rows must narrow the date range.
		AuditLogLimit int

		// CacheTTL is how long generated reports stay in the Redis cache.
		CacheTTL time.Duration
	}

	Ingest struct {
		Enabled bool
	}

	Log struct {
		Level  string
		Format string
	}
}

// Load builds the configuration from environment variables with defaults.
func Load() (*Config, error) {
	cfg := &Config{}

	cfg.Database.Host = getEnv("DB_HOST", "localhost")
	cfg.Database.Port = getEnvInt("DB_PORT", 5432)
	cfg.Database.User = getEnv("DB_USER", "postgres")
	cfg.Database.Password = getEnv("DB_PASSWORD", "postgres")
	cfg.Database.Database = getEnv("DB_NAME", "secwatch")
	cfg.Database.SSLMode = getEnv("DB_SSLMODE", "disable")
	cfg.Database.MaxConns = getEnvInt("DB_MAX_CONNS", 10)
	cfg.Database.MaxIdle = getEnvInt("DB_MAX_IDLE", 5)

	cfg.Redis.Addr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = getEnvInt("REDIS_DB", 0)

	cfg.MQTT.Broker = getEnv("MQTT_BROKER", "tcp://localhost:1883")
	cfg.MQTT.ClientID = getEnv("MQTT_CLIENT_ID", "secwatch-reporting")
	cfg.MQTT.Username = getEnv("MQTT_USERNAME", "")
	cfg.MQTT.Password = getEnv("MQTT_PASSWORD", "")
	cfg.MQTT.Topic = getEnv("MQTT_METRICS_TOPIC", "secwatch/metrics/+/+")
	cfg.MQTT.QoS = 1

	cfg.Insight.BaseURL = getEnv("INSIGHT_API_URL", "")
	cfg.Insight.APIKey = getEnv("INSIGHT_API_KEY", "")
	cfg.Insight.Model = getEnv("INSIGHT_MODEL", "gpt-4o-mini")
	cfg.Insight.Timeout = time.Duration(getEnvInt("INSIGHT_TIMEOUT_SECONDS", 30)) * time.Second

	cfg.HTTP.Addr = getEnv("HTTP_ADDR", ":8087")

	cfg.Reporting.SecurityWindowDays = getEnvInt("REPORT_SECURITY_WINDOW_DAYS", 30)
	cfg.Reporting.ComplianceWindowDays = getEnvInt("REPORT_COMPLIANCE_WINDOW_DAYS", 90)
	cfg.Reporting.IncidentWindowDays = getEnvInt("REPORT_INCIDENT_WINDOW_DAYS", 30)
	cfg.Reporting.DeviceWindowDays = getEnvInt("REPORT_DEVICE_WINDOW_DAYS", 7)
	cfg.Reporting.IntegrationWindowDays = getEnvInt("REPORT_INTEGRATION_WINDOW_DAYS", 30)
	cfg.Reporting.AuditLogLimit = getEnvInt("REPORT_AUDIT_LOG_LIMIT", 10000)
	cfg.Reporting.CacheTTL = time.Duration(getEnvInt("REPORT_CACHE_TTL_SECONDS", 300)) * time.Second

	cfg.Ingest.Enabled = getEnv("METRIC_INGEST_ENABLED", "false") == "true"

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if v, err := strconv.Atoi(value); err == nil {
			return v
		}
	}
	return defaultValue
}
