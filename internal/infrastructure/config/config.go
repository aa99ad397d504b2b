package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App         AppConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	Auth        AuthConfig
	Log         LogConfig
	HTTP        HTTPConfig
	OrderSystem OrderSystemConfig
	Ecommerce   EcommerceConfig
	LLM         LLMConfig
	Sync        SyncConfig
	Credentials CredentialsConfig
	Scheduler   SchedulerConfig
	Realtime    RealtimeConfig
	Telemetry   TelemetryConfig
	Swagger     SwaggerConfig
}

// SwaggerConfig holds the API documentation endpoint settings
type SwaggerConfig struct {
	Enabled     bool // Serve /swagger
	RequireAuth bool // Put /swagger behind the session auth chain
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name     string
	Env      string
	Port     string
	Timezone string // IANA name used for report period boundaries
}

// Location resolves the configured timezone, falling back to UTC
func (a AppConfig) Location() *time.Location {
	if loc, err := time.LoadLocation(a.Timezone); err == nil {
		return loc
	}
	return time.UTC
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // in minutes
	ConnMaxIdleTime int // in minutes
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// Addr returns host:port
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// AuthConfig holds settings for verifying platform-issued session tokens
type AuthConfig struct {
	JWTSecret string
	Issuer    string // optional; checked when set
	Leeway    time.Duration
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	MaxHeaderBytes    int
	MaxBodySize       int64
	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration
	RateLimitBurst    int
	CORSAllowOrigins  []string
	CORSAllowMethods  []string
	CORSAllowHeaders  []string
	TrustedProxies    []string
}

// OrderSystemConfig holds the third-party order system connection.
// Username and password are fallbacks for the credential store.
type OrderSystemConfig struct {
	BaseURL       string
	Username      string
	Password      string
	TokenLifetime time.Duration
	Timeout       time.Duration
}

// EcommerceConfig holds e-commerce webhook settings
type EcommerceConfig struct {
	WebhookSecret   string
	SignatureHeader string
	TopicHeader     string
	MaxPayloadBytes int64
}

// LLMConfig holds the hosted language model settings
type LLMConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	Timeout     time.Duration
	Temperature float64
}

// SyncConfig holds sync job tuning
type SyncConfig struct {
	PageSize          int
	MaxPages          int
	MaxReportedErrors int
}

// CredentialsConfig selects the credential store backend
type CredentialsConfig struct {
	Backend   string // database or redis
	KeyPrefix string // redis only
	// EncryptionKey, when set, seals stored values. Changing it makes
	// existing sealed values unreadable until they are written again.
	EncryptionKey string
}

// SchedulerConfig holds the optional in-process job trigger settings
type SchedulerConfig struct {
	Enabled               bool
	OrderSyncSchedule     string
	InventorySyncSchedule string
	CredentialSchedule    string
	JobTimeout            time.Duration
}

// RealtimeConfig holds the notification feed settings
type RealtimeConfig struct {
	Enabled          bool
	Channel          string
	MinReconnect     time.Duration
	MaxReconnect     time.Duration
	WriteTimeout     time.Duration
	PingInterval     time.Duration
	AllowedOrigins   []string
	ClientSendBuffer int
}

// TelemetryConfig holds OpenTelemetry configuration
type TelemetryConfig struct {
	Enabled           bool    // Whether to enable tracing
	MetricsEnabled    bool    // Whether to export business metrics
	LogsEnabled       bool    // Whether to ship logs over OTLP alongside stdout
	CollectorEndpoint string  // OTEL Collector endpoint (e.g., "localhost:4317")
	SamplingRatio     float64 // Sampling ratio (0.0-1.0, 1.0 = 100%)
	ServiceName       string
	Insecure          bool // Use insecure (non-TLS) connection (development only)
	DBTraceEnabled    bool
	MetricsInterval   time.Duration

	// Continuous profiling, independent of Enabled
	ProfilingEnabled       bool
	ProfilingServerAddress string // Pyroscope server (e.g., "http://pyroscope:4040")
}

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with RETAILOPS_ prefix (e.g., RETAILOPS_DATABASE_PASSWORD)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	v.SetEnvPrefix("RETAILOPS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name:     v.GetString("app.name"),
			Env:      v.GetString("app.env"),
			Port:     v.GetString("app.port"),
			Timezone: v.GetString("app.timezone"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("database.host"),
			Port:            v.GetInt("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			DBName:          v.GetString("database.dbname"),
			SSLMode:         v.GetString("database.sslmode"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetInt("database.conn_max_lifetime"),
			ConnMaxIdleTime: v.GetInt("database.conn_max_idle_time"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("redis.host"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Auth: AuthConfig{
			JWTSecret: v.GetString("auth.jwt_secret"),
			Issuer:    v.GetString("auth.issuer"),
			Leeway:    v.GetDuration("auth.leeway"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:       v.GetDuration("http.read_timeout"),
			WriteTimeout:      v.GetDuration("http.write_timeout"),
			IdleTimeout:       v.GetDuration("http.idle_timeout"),
			MaxHeaderBytes:    v.GetInt("http.max_header_bytes"),
			MaxBodySize:       v.GetInt64("http.max_body_size"),
			RateLimitEnabled:  v.GetBool("http.rate_limit_enabled"),
			RateLimitRequests: v.GetInt("http.rate_limit_requests"),
			RateLimitWindow:   v.GetDuration("http.rate_limit_window"),
			RateLimitBurst:    v.GetInt("http.rate_limit_burst"),
			CORSAllowOrigins:  v.GetStringSlice("http.cors_allow_origins"),
			CORSAllowMethods:  v.GetStringSlice("http.cors_allow_methods"),
			CORSAllowHeaders:  v.GetStringSlice("http.cors_allow_headers"),
			TrustedProxies:    v.GetStringSlice("http.trusted_proxies"),
		},
		OrderSystem: OrderSystemConfig{
			BaseURL:       v.GetString("order_system.base_url"),
			Username:      v.GetString("order_system.username"),
			Password:      v.GetString("order_system.password"),
			TokenLifetime: v.GetDuration("order_system.token_lifetime"),
			Timeout:       v.GetDuration("order_system.timeout"),
		},
		Ecommerce: EcommerceConfig{
			WebhookSecret:   v.GetString("ecommerce.webhook_secret"),
			SignatureHeader: v.GetString("ecommerce.signature_header"),
			TopicHeader:     v.GetString("ecommerce.topic_header"),
			MaxPayloadBytes: v.GetInt64("ecommerce.max_payload_bytes"),
		},
		LLM: LLMConfig{
			APIKey:      v.GetString("llm.api_key"),
			BaseURL:     v.GetString("llm.base_url"),
			Model:       v.GetString("llm.model"),
			Timeout:     v.GetDuration("llm.timeout"),
			Temperature: v.GetFloat64("llm.temperature"),
		},
		Sync: SyncConfig{
			PageSize:          v.GetInt("sync.page_size"),
			MaxPages:          v.GetInt("sync.max_pages"),
			MaxReportedErrors: v.GetInt("sync.max_reported_errors"),
		},
		Credentials: CredentialsConfig{
			Backend:   v.GetString("credentials.backend"),
			KeyPrefix: v.GetString("credentials.key_prefix"),

			EncryptionKey: v.GetString("credentials.encryption_key"),
		},
		Scheduler: SchedulerConfig{
			Enabled:               v.GetBool("scheduler.enabled"),
			OrderSyncSchedule:     v.GetString("scheduler.order_sync_schedule"),
			InventorySyncSchedule: v.GetString("scheduler.inventory_sync_schedule"),
			CredentialSchedule:    v.GetString("scheduler.credential_schedule"),
			JobTimeout:            v.GetDuration("scheduler.job_timeout"),
		},
		Swagger: SwaggerConfig{
			Enabled:     v.GetBool("swagger.enabled"),
			RequireAuth: v.GetBool("swagger.require_auth"),
		},
		Realtime: RealtimeConfig{
			Enabled:          v.GetBool("realtime.enabled"),
			Channel:          v.GetString("realtime.channel"),
			MinReconnect:     v.GetDuration("realtime.min_reconnect"),
			MaxReconnect:     v.GetDuration("realtime.max_reconnect"),
			WriteTimeout:     v.GetDuration("realtime.write_timeout"),
			PingInterval:     v.GetDuration("realtime.ping_interval"),
			AllowedOrigins:   v.GetStringSlice("realtime.allowed_origins"),
			ClientSendBuffer: v.GetInt("realtime.client_send_buffer"),
		},
		Telemetry: TelemetryConfig{
			Enabled:           v.GetBool("telemetry.enabled"),
			MetricsEnabled:    v.GetBool("telemetry.metrics_enabled"),
			LogsEnabled:       v.GetBool("telemetry.logs_enabled"),
			CollectorEndpoint: v.GetString("telemetry.collector_endpoint"),
			SamplingRatio:     v.GetFloat64("telemetry.sampling_ratio"),
			ServiceName:       v.GetString("telemetry.service_name"),
			Insecure:          v.GetBool("telemetry.insecure"),
			DBTraceEnabled:    v.GetBool("telemetry.db_trace_enabled"),
			MetricsInterval:   v.GetDuration("telemetry.metrics_interval"),

			ProfilingEnabled:       v.GetBool("telemetry.profiling_enabled"),
			ProfilingServerAddress: v.GetString("telemetry.profiling_server_address"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "retailops-backend"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.App.Timezone == "" {
		cfg.App.Timezone = "UTC"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "postgres"
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = "retailops"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 25
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 60
	}
	if cfg.Database.ConnMaxIdleTime == 0 {
		cfg.Database.ConnMaxIdleTime = 30
	}
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.Auth.Leeway == 0 {
		cfg.Auth.Leeway = 30 * time.Second
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		// assistant requests wait on two model round trips
		cfg.HTTP.WriteTimeout = 120 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20 // 1MB
	}
	if cfg.HTTP.MaxBodySize == 0 {
		cfg.HTTP.MaxBodySize = 2 << 20 // 2MB
	}
	if cfg.HTTP.RateLimitRequests == 0 {
		cfg.HTTP.RateLimitRequests = 120
	}
	if cfg.HTTP.RateLimitWindow == 0 {
		cfg.HTTP.RateLimitWindow = time.Minute
	}
	if cfg.HTTP.RateLimitBurst == 0 {
		cfg.HTTP.RateLimitBurst = 20
	}
	// NOTE: CORS origins have no "*" fallback. An empty list allows no cross-origin requests.
	if len(cfg.HTTP.CORSAllowMethods) == 0 {
		cfg.HTTP.CORSAllowMethods = []string{"GET", "POST", "OPTIONS"}
	}
	if len(cfg.HTTP.CORSAllowHeaders) == 0 {
		cfg.HTTP.CORSAllowHeaders = []string{"Content-Type", "Authorization", "X-Request-ID"}
	}
	if cfg.OrderSystem.TokenLifetime == 0 {
		cfg.OrderSystem.TokenLifetime = time.Hour
	}
	if cfg.OrderSystem.Timeout == 0 {
		cfg.OrderSystem.Timeout = 30 * time.Second
	}
	if cfg.Ecommerce.SignatureHeader == "" {
		cfg.Ecommerce.SignatureHeader = "X-Shopify-Hmac-Sha256"
	}
	if cfg.Ecommerce.TopicHeader == "" {
		cfg.Ecommerce.TopicHeader = "X-Shopify-Topic"
	}
	if cfg.Ecommerce.MaxPayloadBytes == 0 {
		cfg.Ecommerce.MaxPayloadBytes = 1 << 20
	}
	if cfg.LLM.BaseURL == "" {
		cfg.LLM.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = "gpt-4o-mini"
	}
	if cfg.LLM.Timeout == 0 {
		cfg.LLM.Timeout = 60 * time.Second
	}
	if cfg.Sync.PageSize == 0 {
		cfg.Sync.PageSize = 100
	}
	if cfg.Sync.MaxPages == 0 {
		cfg.Sync.MaxPages = 20
	}
	if cfg.Sync.MaxReportedErrors == 0 {
		cfg.Sync.MaxReportedErrors = 10
	}
	if cfg.Credentials.Backend == "" {
		cfg.Credentials.Backend = "database"
	}
	if cfg.Credentials.KeyPrefix == "" {
		cfg.Credentials.KeyPrefix = "retailops:secret:"
	}
	if cfg.Scheduler.OrderSyncSchedule == "" {
		cfg.Scheduler.OrderSyncSchedule = "*/15 * * * *"
	}
	if cfg.Scheduler.InventorySyncSchedule == "" {
		cfg.Scheduler.InventorySyncSchedule = "5 * * * *"
	}
	if cfg.Scheduler.CredentialSchedule == "" {
		cfg.Scheduler.CredentialSchedule = "*/50 * * * *"
	}
	if cfg.Scheduler.JobTimeout == 0 {
		cfg.Scheduler.JobTimeout = 10 * time.Minute
	}
	if cfg.Realtime.Channel == "" {
		cfg.Realtime.Channel = "notifications_feed"
	}
	if cfg.Realtime.MinReconnect == 0 {
		cfg.Realtime.MinReconnect = 10 * time.Second
	}
	if cfg.Realtime.MaxReconnect == 0 {
		cfg.Realtime.MaxReconnect = time.Minute
	}
	if cfg.Realtime.WriteTimeout == 0 {
		cfg.Realtime.WriteTimeout = 10 * time.Second
	}
	if cfg.Realtime.PingInterval == 0 {
		cfg.Realtime.PingInterval = 30 * time.Second
	}
	if cfg.Realtime.ClientSendBuffer == 0 {
		cfg.Realtime.ClientSendBuffer = 32
	}
	if cfg.Telemetry.CollectorEndpoint == "" {
		cfg.Telemetry.CollectorEndpoint = "localhost:4317"
	}
	if cfg.Telemetry.SamplingRatio == 0 {
		cfg.Telemetry.SamplingRatio = 1.0
	}
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = "retailops-backend"
	}
	if cfg.Telemetry.MetricsInterval == 0 {
		cfg.Telemetry.MetricsInterval = 60 * time.Second
	}
}

// validate performs structural validation. Third-party credentials are
// deliberately absent here: a missing one fails the request that needs it.
func (c *Config) validate() error {
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be positive")
	}
	if c.Database.MaxIdleConns < 0 {
		return fmt.Errorf("database.max_idle_conns cannot be negative")
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}

	switch c.Credentials.Backend {
	case "database", "redis":
	default:
		return fmt.Errorf("credentials.backend must be 'database' or 'redis', got %q", c.Credentials.Backend)
	}

	if _, err := time.LoadLocation(c.App.Timezone); err != nil {
		return fmt.Errorf("app.timezone %q is not a valid IANA timezone: %w", c.App.Timezone, err)
	}

	if c.App.Env == "production" {
		if c.Auth.JWTSecret == "" {
			return fmt.Errorf("auth.jwt_secret is required in production")
		}
		if len(c.Auth.JWTSecret) < 32 {
			return fmt.Errorf("auth.jwt_secret must be at least 32 characters in production")
		}
		if c.Database.Password == "" {
			return fmt.Errorf("database.password is required in production")
		}
		if c.Database.SSLMode == "disable" {
			return fmt.Errorf("database.sslmode cannot be 'disable' in production")
		}
		for _, origin := range c.HTTP.CORSAllowOrigins {
			if origin == "*" {
				return fmt.Errorf("cors_allow_origins cannot be '*' in production (use specific origins)")
			}
		}
		if c.Swagger.Enabled && !c.Swagger.RequireAuth {
			return fmt.Errorf("swagger endpoint must be disabled or require authentication in production")
		}
	}

	if c.Telemetry.SamplingRatio < 0.0 || c.Telemetry.SamplingRatio > 1.0 {
		return fmt.Errorf("telemetry.sampling_ratio must be between 0.0 and 1.0, got %f", c.Telemetry.SamplingRatio)
	}
	if c.Telemetry.ProfilingEnabled && c.Telemetry.ProfilingServerAddress == "" {
		return fmt.Errorf("telemetry.profiling_server_address is required when profiling is enabled")
	}

	return nil
}

// DSN returns the database connection string with properly escaped values
func (d *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}
