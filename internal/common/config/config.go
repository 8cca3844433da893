// Package config provides application configuration management.
package config

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
)

var (
	globalConfig *Config
	once         sync.Once
)

// Config is the application configuration tree.
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Redis       RedisConfig       `mapstructure:"redis"`
	Logger      LoggerConfig      `mapstructure:"logger"`
	Metrics     MetricsConfig     `mapstructure:"metrics"`
	RateLimit   RateLimitConfig   `mapstructure:"ratelimit"`
	CORS        CORSConfig        `mapstructure:"cors"`
	Brevo       BrevoConfig       `mapstructure:"brevo"`
	Reservation ReservationConfig `mapstructure:"reservation"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Name            string `mapstructure:"name"`
	Mode            string `mapstructure:"mode"`
	Port            int    `mapstructure:"port"`
	PublicBaseURL   string `mapstructure:"public_base_url"`
	ReadTimeout     int    `mapstructure:"read_timeout"`
	WriteTimeout    int    `mapstructure:"write_timeout"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	Driver          string `mapstructure:"driver"`
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	Name            string `mapstructure:"name"`
	SSLMode         string `mapstructure:"sslmode"`
	Timezone        string `mapstructure:"timezone"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
	LogMode         bool   `mapstructure:"log_mode"`
	SlowThreshold   int    `mapstructure:"slow_threshold"`
}

// DSN returns the database connection string.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode, d.Timezone,
	)
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	Password     string `mapstructure:"password"`
	DB           int    `mapstructure:"db"`
	PoolSize     int    `mapstructure:"pool_size"`
	MinIdleConns int    `mapstructure:"min_idle_conns"`
	DialTimeout  int    `mapstructure:"dial_timeout"`
	ReadTimeout  int    `mapstructure:"read_timeout"`
	WriteTimeout int    `mapstructure:"write_timeout"`
}

// Addr returns the Redis address.
func (r *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// LoggerConfig holds logging settings.
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	FilePath   string `mapstructure:"file_path"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
	Compress   bool   `mapstructure:"compress"`
	Caller     bool   `mapstructure:"caller"`
}

// MetricsConfig holds Prometheus settings.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// RateLimitConfig holds request rate limiting settings.
type RateLimitConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Limit   int  `mapstructure:"limit"`
	Window  int  `mapstructure:"window"`
}

// CORSConfig holds cross-origin settings.
type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	ExposedHeaders   []string `mapstructure:"exposed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

// BrevoConfig holds Brevo (email/WhatsApp) API settings.
type BrevoConfig struct {
	APIKey              string `mapstructure:"api_key"`
	BaseURL             string `mapstructure:"base_url"`
	SenderName          string `mapstructure:"sender_name"`
	SenderEmail         string `mapstructure:"sender_email"`
	WhatsAppSender      string `mapstructure:"whatsapp_sender"`
	TimeoutSeconds      int    `mapstructure:"timeout_seconds"`
	ConfirmTemplateID   int64  `mapstructure:"confirm_template_id"`
	ReminderTemplateID  int64  `mapstructure:"reminder_template_id"`
	CancelTemplateID    int64  `mapstructure:"cancel_template_id"`
	ProblemTemplateID   int64  `mapstructure:"problem_template_id"`
	ProblemRecipient    string `mapstructure:"problem_recipient"`
	WhatsAppEnabled     bool   `mapstructure:"whatsapp_enabled"`
	WhatsAppTemplateIDs map[string]int64
}

// Timeout returns the HTTP client timeout for Brevo calls.
func (b *BrevoConfig) Timeout() time.Duration {
	if b.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(b.TimeoutSeconds) * time.Second
}

// SelectionMode values for the public booking flow.
const (
	SelectionModeTable  = "table"
	SelectionModeSaloon = "saloon"
	SelectionModeArea   = "area"
)

// AssignStrategy values for automatic table assignment.
const (
	AssignSmallestSuitable = "smallest_suitable"
	AssignLargestAvailable = "largest_available"
	AssignRandom           = "random"
)

// ReservationConfig holds venue-level booking rules.
type ReservationConfig struct {
	DefaultDuration   int    `mapstructure:"default_duration"`
	MaxGuests         int    `mapstructure:"max_guests"`
	MinAdvanceHours   int    `mapstructure:"min_advance_hours"`
	MaxAdvanceDays    int    `mapstructure:"max_advance_days"`
	Interval          int    `mapstructure:"interval"`
	SelectionMode     string `mapstructure:"selection_mode"`
	AssignStrategy    string `mapstructure:"assign_strategy"`
	ReminderLeadHours int    `mapstructure:"reminder_lead_hours"`
	PortalBaseURL     string `mapstructure:"portal_base_url"`
}

// Validate checks reservation settings for usable values.
func (r *ReservationConfig) Validate() error {
	if r.DefaultDuration <= 0 {
		return fmt.Errorf("reservation.default_duration must be positive, got %d", r.DefaultDuration)
	}
	if r.MaxGuests <= 0 {
		return fmt.Errorf("reservation.max_guests must be positive, got %d", r.MaxGuests)
	}
	if r.Interval <= 0 {
		return fmt.Errorf("reservation.interval must be positive, got %d", r.Interval)
	}
	switch r.SelectionMode {
	case SelectionModeTable, SelectionModeSaloon, SelectionModeArea:
	default:
		return fmt.Errorf("reservation.selection_mode %q is not one of table, saloon, area", r.SelectionMode)
	}
	switch r.AssignStrategy {
	case AssignSmallestSuitable, AssignLargestAvailable, AssignRandom:
	default:
		return fmt.Errorf("reservation.assign_strategy %q is not one of smallest_suitable, largest_available, random", r.AssignStrategy)
	}
	return nil
}

// Load reads the configuration file and environment overrides.
func Load(configPath string) (*Config, error) {
	var err error
	once.Do(func() {
		v := viper.New()

		if configPath != "" {
			v.SetConfigFile(configPath)
		} else {
			v.SetConfigName("config")
			v.SetConfigType("yaml")
			v.AddConfigPath("./configs")
			v.AddConfigPath(".")
		}

		v.AutomaticEnv()
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

		setDefaults(v)

		if err = v.ReadInConfig(); err != nil {
			// Missing config file falls back to defaults.
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return
			}
			err = nil
		}

		globalConfig = &Config{}
		if err = v.Unmarshal(globalConfig); err != nil {
			return
		}
		err = globalConfig.Reservation.Validate()
	})

	return globalConfig, err
}

// Get returns the global configuration, loading defaults if needed.
func Get() *Config {
	if globalConfig == nil {
		globalConfig = &Config{}
		v := viper.New()
		setDefaults(v)
		_ = v.Unmarshal(globalConfig)
	}
	return globalConfig
}

// setDefaults registers default configuration values.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.name", "realiza-reservas")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.public_base_url", "http://localhost:8000")
	v.SetDefault("server.read_timeout", 30)
	v.SetDefault("server.write_timeout", 30)
	v.SetDefault("server.shutdown_timeout", 10)

	// Database defaults
	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.name", "realiza_reservas")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.timezone", "America/Sao_Paulo")
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 100)
	v.SetDefault("database.conn_max_lifetime", 60)
	v.SetDefault("database.log_mode", true)
	v.SetDefault("database.slow_threshold", 200)

	// Redis defaults
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.pool_size", 100)
	v.SetDefault("redis.min_idle_conns", 10)
	v.SetDefault("redis.dial_timeout", 5)
	v.SetDefault("redis.read_timeout", 3)
	v.SetDefault("redis.write_timeout", 3)

	// Logger defaults
	v.SetDefault("logger.level", "debug")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.output", "stdout")
	v.SetDefault("logger.file_path", "./logs/app.log")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 10)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)
	v.SetDefault("logger.caller", true)

	// Metrics defaults
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")

	// Rate limit defaults
	v.SetDefault("ratelimit.enabled", true)
	v.SetDefault("ratelimit.limit", 100)
	v.SetDefault("ratelimit.window", 60)

	// CORS defaults
	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"})
	v.SetDefault("cors.exposed_headers", []string{"X-Request-ID"})
	v.SetDefault("cors.allow_credentials", true)
	v.SetDefault("cors.max_age", 86400)

	// Brevo defaults
	v.SetDefault("brevo.base_url", "https://api.brevo.com")
	v.SetDefault("brevo.sender_name", "Realiza Reservas")
	v.SetDefault("brevo.sender_email", "reservas@example.com")
	v.SetDefault("brevo.timeout_seconds", 10)
	v.SetDefault("brevo.whatsapp_enabled", false)

	// Reservation defaults
	v.SetDefault("reservation.default_duration", 90)
	v.SetDefault("reservation.max_guests", 12)
	v.SetDefault("reservation.min_advance_hours", 1)
	v.SetDefault("reservation.max_advance_days", 60)
	v.SetDefault("reservation.interval", 30)
	v.SetDefault("reservation.selection_mode", "saloon")
	v.SetDefault("reservation.assign_strategy", "smallest_suitable")
	v.SetDefault("reservation.reminder_lead_hours", 24)
	v.SetDefault("reservation.portal_base_url", "http://localhost:8080")
}

// IsDebug reports whether the server runs in debug mode.
func (c *Config) IsDebug() bool {
	return c.Server.Mode == "debug"
}

// IsRelease reports whether the server runs in release mode.
func (c *Config) IsRelease() bool {
	return c.Server.Mode == "release"
}
