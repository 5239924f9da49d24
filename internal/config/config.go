package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Host            string        `mapstructure:"host" yaml:"host"`
	Port            int           `mapstructure:"port" yaml:"port"`
	Mode            string        `mapstructure:"mode" yaml:"mode"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout" yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	AllowOrigins    []string      `mapstructure:"allow_origins" yaml:"allow_origins"`
}

// Addr returns the listen address
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DatabaseConfig represents the PostgreSQL connection and pool settings
type DatabaseConfig struct {
	Host            string        `mapstructure:"host" yaml:"host"`
	Port            int           `mapstructure:"port" yaml:"port"`
	Name            string        `mapstructure:"name" yaml:"name"`
	User            string        `mapstructure:"user" yaml:"user"`
	Password        string        `mapstructure:"password" yaml:"password"`
	SSLMode         string        `mapstructure:"sslmode" yaml:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns" yaml:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns" yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime" yaml:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time" yaml:"conn_max_idle_time"`
	StartupAttempts int           `mapstructure:"startup_attempts" yaml:"startup_attempts"`
	StartupInterval time.Duration `mapstructure:"startup_interval" yaml:"startup_interval"`
	LogLevel        string        `mapstructure:"log_level" yaml:"log_level"`
}

// DSN renders the keyword/value connection string understood by pgx
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

// TelemetryConfig selects OpenTelemetry exporters ("none" or "stdout")
type TelemetryConfig struct {
	ServiceName     string `mapstructure:"service_name" yaml:"service_name"`
	TracingExporter string `mapstructure:"tracing_exporter" yaml:"tracing_exporter"`
	MetricsExporter string `mapstructure:"metrics_exporter" yaml:"metrics_exporter"`
}

// Config represents the application configuration
type Config struct {
	LogLevel  string          `mapstructure:"log_level" yaml:"log_level"`
	Server    ServerConfig    `mapstructure:"server" yaml:"server"`
	Database  DatabaseConfig  `mapstructure:"database" yaml:"database"`
	Telemetry TelemetryConfig `mapstructure:"telemetry" yaml:"telemetry"`
}

// envBindings maps config keys onto the environment variables that override them
var envBindings = map[string][]string{
	"log_level":                  {"LOG_LEVEL"},
	"server.host":                {"HOST"},
	"server.port":                {"PORT"},
	"server.mode":                {"GIN_MODE"},
	"database.host":              {"POSTGRES_HOST"},
	"database.port":              {"POSTGRES_PORT"},
	"database.name":              {"POSTGRES_DB"},
	"database.user":              {"POSTGRES_USER"},
	"database.password":          {"POSTGRES_PASSWORD"},
	"database.sslmode":           {"POSTGRES_SSLMODE"},
	"database.max_open_conns":    {"DB_MAX_OPEN_CONNS"},
	"database.max_idle_conns":    {"DB_MAX_IDLE_CONNS"},
	"database.startup_attempts":  {"DB_STARTUP_ATTEMPTS"},
	"database.startup_interval":  {"DB_STARTUP_INTERVAL"},
	"database.log_level":         {"DB_LOG_LEVEL"},
	"telemetry.tracing_exporter": {"TRACING_EXPORTER"},
	"telemetry.metrics_exporter": {"METRICS_EXPORTER"},
	"telemetry.service_name":     {"OTEL_SERVICE_NAME"},
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.allow_origins", []string{"*"})

	v.SetDefault("database.host", "db")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "tasksdb")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", time.Hour)
	v.SetDefault("database.conn_max_idle_time", 15*time.Minute)
	v.SetDefault("database.startup_attempts", 10)
	v.SetDefault("database.startup_interval", 3*time.Second)
	v.SetDefault("database.log_level", "warn")

	v.SetDefault("telemetry.service_name", "minitask")
	v.SetDefault("telemetry.tracing_exporter", "none")
	v.SetDefault("telemetry.metrics_exporter", "none")
}

// Load builds the configuration from defaults, an optional YAML file and the
// environment, in increasing order of precedence. An empty path searches
// ./config.yaml and ./configs/config.yaml and tolerates neither existing; an
// explicit path must be readable.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	for key, envs := range envBindings {
		args := append([]string{key}, envs...)
		if err := v.BindEnv(args...); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate rejects settings the service cannot run with
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535, got %d", c.Server.Port)
	}
	if c.Database.Port <= 0 || c.Database.Port > 65535 {
		return fmt.Errorf("database.port must be in 1..65535, got %d", c.Database.Port)
	}
	if c.Database.Host == "" || c.Database.Name == "" || c.Database.User == "" {
		return fmt.Errorf("database host, name and user are required")
	}
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be positive, got %d", c.Database.MaxOpenConns)
	}
	if c.Database.MaxIdleConns < 0 || c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns must be in 0..%d, got %d",
			c.Database.MaxOpenConns, c.Database.MaxIdleConns)
	}
	if c.Database.StartupAttempts <= 0 {
		return fmt.Errorf("database.startup_attempts must be positive, got %d", c.Database.StartupAttempts)
	}
	if c.Database.StartupInterval < 0 {
		return fmt.Errorf("database.startup_interval must not be negative")
	}
	for _, exp := range []string{c.Telemetry.TracingExporter, c.Telemetry.MetricsExporter} {
		if exp != "none" && exp != "stdout" {
			return fmt.Errorf("unknown telemetry exporter %q", exp)
		}
	}
	return nil
}
