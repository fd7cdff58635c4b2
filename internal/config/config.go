package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	App       AppConfig
	HTTP      HTTPConfig
	Database  DatabaseConfig
	Auth      AuthConfig
	Share     ShareConfig
	SMTP      SMTPConfig
	Storage   StorageConfig
	Log       LogConfig
	Telemetry TelemetryConfig
	Outbox    OutboxConfig
	Bootstrap BootstrapConfig
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Name        string
	Environment string
	Port        string
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	IdleTimeout        time.Duration
	PublicRateLimit    int
	PublicRateWindow   time.Duration
	AuthRateLimit      int
	AuthRateWindow     time.Duration
	PublicViewCacheTTL time.Duration
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	Driver string // postgres, sqlite
	DSN    string
}

// AuthConfig holds token issuance settings.
type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
	Issuer    string
}

// ShareConfig holds public sharing settings.
type ShareConfig struct {
	// PublicOrigin is the public-facing origin that share paths are joined
	// onto, e.g. https://ioweyou.app.
	PublicOrigin string
	// PayoutProviderBase is the payment-provider domain used to synthesize a
	// payable link base from a bare handle.
	PayoutProviderBase string
}

// SMTPConfig holds outbound mail settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// StorageConfig holds receipt storage settings.
type StorageConfig struct {
	Driver          string // s3, stub
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	PublicBaseURL   string
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
}

// TelemetryConfig holds tracing settings.
type TelemetryConfig struct {
	Enabled          bool
	ServiceName      string
	ServiceVersion   string
	ExporterEndpoint string
	ExporterProtocol string
	SamplingRatio    float64
}

// OutboxConfig controls the event relay worker.
type OutboxConfig struct {
	Enabled      bool
	BatchSize    int
	PollInterval time.Duration
}

// BootstrapConfig controls dev-mode seeding.
type BootstrapConfig struct {
	EnsureDefaultUser bool
}

// IsProduction reports whether the app runs in production mode.
func (c Config) IsProduction() bool {
	return strings.EqualFold(c.App.Environment, "production")
}

// Load reads configuration from environment variables and an optional
// config file.
func Load() (Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvPrefix("IOWEYOU")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := Config{
		App: AppConfig{
			Name:        v.GetString("app.name"),
			Environment: v.GetString("app.environment"),
			Port:        v.GetString("app.port"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:        v.GetDuration("http.read_timeout"),
			WriteTimeout:       v.GetDuration("http.write_timeout"),
			IdleTimeout:        v.GetDuration("http.idle_timeout"),
			PublicRateLimit:    v.GetInt("http.public_rate_limit"),
			PublicRateWindow:   v.GetDuration("http.public_rate_window"),
			AuthRateLimit:      v.GetInt("http.auth_rate_limit"),
			AuthRateWindow:     v.GetDuration("http.auth_rate_window"),
			PublicViewCacheTTL: v.GetDuration("http.public_view_cache_ttl"),
		},
		Database: DatabaseConfig{
			Driver: v.GetString("database.driver"),
			DSN:    v.GetString("database.dsn"),
		},
		Auth: AuthConfig{
			JWTSecret: v.GetString("auth.jwt_secret"),
			TokenTTL:  v.GetDuration("auth.token_ttl"),
			Issuer:    v.GetString("auth.issuer"),
		},
		Share: ShareConfig{
			PublicOrigin:       strings.TrimRight(v.GetString("share.public_origin"), "/"),
			PayoutProviderBase: strings.TrimRight(v.GetString("share.payout_provider_base"), "/"),
		},
		SMTP: SMTPConfig{
			Host:     v.GetString("smtp.host"),
			Port:     v.GetInt("smtp.port"),
			Username: v.GetString("smtp.username"),
			Password: v.GetString("smtp.password"),
			From:     v.GetString("smtp.from"),
		},
		Storage: StorageConfig{
			Driver:          v.GetString("storage.driver"),
			Bucket:          v.GetString("storage.bucket"),
			Region:          v.GetString("storage.region"),
			Endpoint:        v.GetString("storage.endpoint"),
			AccessKeyID:     v.GetString("storage.access_key_id"),
			SecretAccessKey: v.GetString("storage.secret_access_key"),
			PublicBaseURL:   strings.TrimRight(v.GetString("storage.public_base_url"), "/"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
		Telemetry: TelemetryConfig{
			Enabled:          v.GetBool("telemetry.enabled"),
			ServiceName:      v.GetString("telemetry.service_name"),
			ServiceVersion:   v.GetString("telemetry.service_version"),
			ExporterEndpoint: v.GetString("telemetry.exporter_endpoint"),
			ExporterProtocol: v.GetString("telemetry.exporter_protocol"),
			SamplingRatio:    v.GetFloat64("telemetry.sampling_ratio"),
		},
		Outbox: OutboxConfig{
			Enabled:      v.GetBool("outbox.enabled"),
			BatchSize:    v.GetInt("outbox.batch_size"),
			PollInterval: v.GetDuration("outbox.poll_interval"),
		},
		Bootstrap: BootstrapConfig{
			EnsureDefaultUser: v.GetBool("bootstrap.ensure_default_user"),
		},
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.IsProduction() && c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required in production")
	}
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "ioweyou")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.port", "8080")

	v.SetDefault("http.read_timeout", 10*time.Second)
	v.SetDefault("http.write_timeout", 30*time.Second)
	v.SetDefault("http.idle_timeout", 120*time.Second)
	v.SetDefault("http.public_rate_limit", 60)
	v.SetDefault("http.public_rate_window", time.Minute)
	v.SetDefault("http.auth_rate_limit", 5)
	v.SetDefault("http.auth_rate_window", time.Minute)
	v.SetDefault("http.public_view_cache_ttl", 30*time.Second)

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "file:ioweyou.db?_pragma=foreign_keys(1)")

	v.SetDefault("auth.jwt_secret", "dev-secret")
	v.SetDefault("auth.token_ttl", 7*24*time.Hour)
	v.SetDefault("auth.issuer", "ioweyou")

	v.SetDefault("share.public_origin", "http://localhost:5173")
	v.SetDefault("share.payout_provider_base", "https://paypal.me")

	v.SetDefault("smtp.host", "")
	v.SetDefault("smtp.port", 587)
	v.SetDefault("smtp.from", "no-reply@ioweyou.app")

	v.SetDefault("storage.driver", "local")
	v.SetDefault("storage.region", "us-east-1")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.service_name", "ioweyou")
	v.SetDefault("telemetry.service_version", "dev")
	v.SetDefault("telemetry.exporter_protocol", "grpc")
	v.SetDefault("telemetry.sampling_ratio", 0.1)

	v.SetDefault("outbox.enabled", true)
	v.SetDefault("outbox.batch_size", 50)
	v.SetDefault("outbox.poll_interval", 2*time.Second)

	v.SetDefault("bootstrap.ensure_default_user", false)
}
