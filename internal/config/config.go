package config

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/woodfy/workshop-api/internal/secrets"
	"go.uber.org/zap"
)

// Config holds all application configuration
type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Auth      AuthConfig
	Storage   StorageConfig
	Secrets   SecretsConfig
	Logging   LoggingConfig
	Server    ServerConfig
	CORS      CORSConfig
	Security  SecurityConfig
	RateLimit RateLimitConfig
	Finance   FinanceConfig
	Jobs      JobsConfig
}

type AppConfig struct {
	Name        string
	Environment string
	Port        int
}

// DatabaseConfig selects where the entity snapshot is persisted.
// Driver is "postgres" or "sqlite".
type DatabaseConfig struct {
	Driver          string
	SQLitePath      string
	Host            string
	Port            int
	Name            string
	User            string
	Password        string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int
}

// AuthConfig holds the credentials accepted by the API. Requests carry
// either the static API key or an HS256 bearer token signed with JWTSecret.
type AuthConfig struct {
	Enabled   bool
	APIKey    string
	JWTSecret string
	Issuer    string
}

type StorageConfig struct {
	Mode                  string
	LocalBasePath         string
	CloudConnectionString string
	CloudContainer        string
}

type SecretsConfig struct {
	// Source determines where secrets are loaded from: "environment", "vault", or "auto"
	Source       string
	KeyVaultName string
	CacheEnabled bool
	CacheTTL     int // seconds
}

type LoggingConfig struct {
	Level  string
	Format string
}

type ServerConfig struct {
	ReadTimeout  int // seconds
	WriteTimeout int // seconds
	// RequestTimeout bounds one /api/v1 request (seconds, 0 disables)
	RequestTimeout int
	EnableSwagger  bool
	// EnableMetrics mounts the Prometheus handler on /metrics
	EnableMetrics bool
}

// CORSConfig holds CORS configuration
type CORSConfig struct {
	// AllowedOrigins lists allowed origins; "*" allows any
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

// SecurityConfig holds security header configuration
type SecurityConfig struct {
	EnableHSTS bool
	// HSTSMaxAge is the max age for HSTS in seconds (default: 1 year)
	HSTSMaxAge            int
	ContentSecurityPolicy string
	FrameOptions          string
	ReferrerPolicy        string
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Enabled bool
	// RequestsPerMinute is the limit per client IP
	RequestsPerMinute int
	// WhitelistPaths bypass rate limiting, e.g. health probes
	WhitelistPaths []string
}

// FinanceConfig holds the workshop's pricing defaults
type FinanceConfig struct {
	// Currency is the ISO 4217 code used when formatting exports
	Currency string
	// DefaultMarkupPercent prefills the quick price simulator
	DefaultMarkupPercent float64
	// DefaultTaxPercent prefills the simulator and new budgets
	DefaultTaxPercent float64
	// DefaultMultiplier prefills new budgets
	DefaultMultiplier float64
	// DeliveryWindowDays is how far ahead the upcoming deliveries report looks
	DeliveryWindowDays int
}

// JobsConfig holds the cron expressions of the background jobs.
// Expressions include a seconds field.
type JobsConfig struct {
	Enabled       bool
	BackupCron    string
	IntegrityCron string
	BackupPrefix  string
	// BackupRetention is how many snapshot backups are kept; 0 keeps all
	BackupRetention int
}

// ConnectionString builds PostgreSQL connection string
func (d *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
}

// ConnMaxLifetimeDuration returns connection max lifetime as duration
func (d *DatabaseConfig) ConnMaxLifetimeDuration() time.Duration {
	return time.Duration(d.ConnMaxLifetime) * time.Second
}

// ReadTimeoutDuration returns read timeout as duration
func (s *ServerConfig) ReadTimeoutDuration() time.Duration {
	return time.Duration(s.ReadTimeout) * time.Second
}

// WriteTimeoutDuration returns write timeout as duration
func (s *ServerConfig) WriteTimeoutDuration() time.Duration {
	return time.Duration(s.WriteTimeout) * time.Second
}

// RequestTimeoutDuration returns request timeout as duration
func (s *ServerConfig) RequestTimeoutDuration() time.Duration {
	return time.Duration(s.RequestTimeout) * time.Second
}

// Load loads configuration from file and environment variables.
// Use LoadWithSecrets to also resolve secrets from Key Vault.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Environment variables override config file
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Accept the flat env names used by deployments
	if cfg.Auth.APIKey == "" {
		cfg.Auth.APIKey = v.GetString("WORKSHOP_API_KEY")
	}
	if cfg.Auth.JWTSecret == "" {
		cfg.Auth.JWTSecret = v.GetString("WORKSHOP_JWT_SECRET")
	}
	if cfg.Secrets.KeyVaultName == "" {
		cfg.Secrets.KeyVaultName = v.GetString("AZURE_KEY_VAULT_NAME")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations the server cannot start with
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if money.GetCurrency(strings.ToUpper(c.Finance.Currency)) == nil {
		return fmt.Errorf("unknown finance.currency %q", c.Finance.Currency)
	}
	if c.Finance.DefaultTaxPercent < 0 || c.Finance.DefaultTaxPercent >= 100 {
		return fmt.Errorf("finance.defaultTaxPercent must be in [0, 100)")
	}
	if c.Finance.DefaultMultiplier <= 0 {
		return fmt.Errorf("finance.defaultMultiplier must be positive")
	}
	if c.Finance.DeliveryWindowDays < 0 {
		return fmt.Errorf("finance.deliveryWindowDays must not be negative")
	}
	if c.Jobs.BackupRetention < 0 {
		return fmt.Errorf("jobs.backupRetention must not be negative")
	}
	return nil
}

// LoadWithSecrets loads configuration and, when USE_AZURE_KEY_VAULT=true in
// staging or production, replaces database, auth and storage secrets with
// the values held in Azure Key Vault.
func LoadWithSecrets(ctx context.Context, logger *zap.Logger) (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}

	// Key Vault is opt-in and only honoured outside development
	useKeyVault := strings.ToLower(os.Getenv("USE_AZURE_KEY_VAULT")) == "true"
	isValidEnv := cfg.App.Environment == "staging" || cfg.App.Environment == "production"

	if !useKeyVault {
		logger.Info("USE_AZURE_KEY_VAULT not enabled, using environment variables for secrets",
			zap.String("environment", cfg.App.Environment),
		)
		return cfg, nil
	}

	if !isValidEnv {
		logger.Warn("USE_AZURE_KEY_VAULT is enabled but environment is not staging or production, using environment variables for secrets",
			zap.String("environment", cfg.App.Environment),
		)
		return cfg, nil
	}

	if cfg.Secrets.KeyVaultName == "" {
		return nil, fmt.Errorf("AZURE_KEY_VAULT_NAME is required when USE_AZURE_KEY_VAULT=true")
	}

	provider, err := secrets.NewProvider(&secrets.ProviderConfig{
		Source:       secrets.SourceVault,
		VaultName:    cfg.Secrets.KeyVaultName,
		Environment:  cfg.App.Environment,
		CacheEnabled: cfg.Secrets.CacheEnabled,
		CacheTTL:     time.Duration(cfg.Secrets.CacheTTL) * time.Second,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize secrets provider (USE_AZURE_KEY_VAULT=true requires valid vault): %w", err)
	}

	// Database, auth and storage secrets from Key Vault
	ResolveSecrets(ctx, cfg, provider)

	logger.Info("Secrets loaded from vault successfully",
		zap.String("key_vault_name", cfg.Secrets.KeyVaultName),
	)
	return cfg, nil
}

// ResolveSecrets overwrites config values with the ones found in the
// provider. Values missing from the provider keep their current setting.
func ResolveSecrets(ctx context.Context, cfg *Config, provider secrets.Lookup) {
	set := func(target *string, secretName, envName string) {
		if value, err := provider.GetSecretOrEnv(ctx, secretName, envName); err == nil && value != "" {
			*target = value
		}
	}

	set(&cfg.Database.Host, "WORKSHOP-DB-HOST", "DATABASE_HOST")
	set(&cfg.Database.User, "WORKSHOP-DB-USER", "DATABASE_USER")
	set(&cfg.Database.Password, "WORKSHOP-DB-PASSWORD", "DATABASE_PASSWORD")
	set(&cfg.Auth.APIKey, "workshop-api-key", "WORKSHOP_API_KEY")
	set(&cfg.Auth.JWTSecret, "workshop-jwt-secret", "WORKSHOP_JWT_SECRET")
	set(&cfg.Storage.CloudConnectionString, "storage-connection-string", "STORAGE_CLOUDCONNECTIONSTRING")

	// SSL mode is not a secret and varies per environment
	if sslMode := os.Getenv("DATABASE_SSLMODE"); sslMode != "" {
		cfg.Database.SSLMode = sslMode
	}
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "Workshop API")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.port", 8080)

	// Database defaults (sqlite for local runs)
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.sqlitePath", "./workshop.db")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "workshop")
	v.SetDefault("database.user", "workshop_user")
	v.SetDefault("database.password", "workshop_password")
	v.SetDefault("database.sslMode", "disable")
	v.SetDefault("database.maxOpenConns", 10)
	v.SetDefault("database.maxIdleConns", 2)
	v.SetDefault("database.connMaxLifetime", 300) // 5 minutes

	// Auth defaults
	v.SetDefault("auth.enabled", true)
	v.SetDefault("auth.issuer", "workshop-api")

	// Secrets defaults
	v.SetDefault("secrets.source", "auto")
	v.SetDefault("secrets.cacheEnabled", true)
	v.SetDefault("secrets.cacheTTL", 300)

	// Storage defaults
	v.SetDefault("storage.mode", "local")
	v.SetDefault("storage.localBasePath", "./storage")
	v.SetDefault("storage.cloudContainer", "workshop-backups")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	// Server defaults
	v.SetDefault("server.readTimeout", 30)
	v.SetDefault("server.writeTimeout", 30)
	v.SetDefault("server.requestTimeout", 60)
	v.SetDefault("server.enableSwagger", true)
	v.SetDefault("server.enableMetrics", true)

	// CORS defaults: no origins until configured
	v.SetDefault("cors.allowedOrigins", []string{})
	v.SetDefault("cors.allowedMethods", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"})
	v.SetDefault("cors.allowedHeaders", []string{"Accept", "Authorization", "Content-Type", "X-API-Key", "X-Request-ID"})
	v.SetDefault("cors.exposedHeaders", []string{"Content-Disposition", "X-Request-ID"})
	v.SetDefault("cors.allowCredentials", true)
	v.SetDefault("cors.maxAge", 300)

	// Security header defaults
	v.SetDefault("security.enableHSTS", false)
	v.SetDefault("security.hstsMaxAge", 31536000) // 1 year
	v.SetDefault("security.contentSecurityPolicy", "default-src 'self'")
	v.SetDefault("security.frameOptions", "DENY")
	v.SetDefault("security.referrerPolicy", "strict-origin-when-cross-origin")

	// Rate limit defaults
	v.SetDefault("rateLimit.enabled", true)
	v.SetDefault("rateLimit.requestsPerMinute", 120)
	v.SetDefault("rateLimit.whitelistPaths", []string{"/health", "/health/ready", "/metrics"})

	// Pricing defaults shown in the simulator and new budgets
	v.SetDefault("finance.currency", "BRL")
	v.SetDefault("finance.defaultMarkupPercent", 40)
	v.SetDefault("finance.defaultTaxPercent", 6)
	v.SetDefault("finance.defaultMultiplier", 2.5)
	v.SetDefault("finance.deliveryWindowDays", 7)

	// Job schedules (with seconds field)
	v.SetDefault("jobs.enabled", true)
	v.SetDefault("jobs.backupCron", "0 0 3 * * *")
	v.SetDefault("jobs.integrityCron", "0 30 6 * * *")
	v.SetDefault("jobs.backupPrefix", "backups")
	v.SetDefault("jobs.backupRetention", 30)
}
