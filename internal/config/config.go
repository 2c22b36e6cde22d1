package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	ginmiddleware "ldap-seeder/internal/adapter/gin/middleware"
	"ldap-seeder/internal/adapter/ldaptool"
	"ldap-seeder/pkg/logger"
	redisclient "ldap-seeder/pkg/redis"
)

// Config holds all configuration for the seeder and the directory API
type Config struct {
	LDAP      LDAPConfig
	Seed      SeedConfig
	App       AppConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	Logger    LoggerConfig
}

// LDAPConfig holds the target directory server and tool settings
type LDAPConfig struct {
	Host                 string `mapstructure:"LDAP_HOST" validate:"required,hostname_rfc1123|ip"`
	Port                 int    `mapstructure:"LDAP_PORT" validate:"min=1,max=65535"`
	BaseDN               string `mapstructure:"LDAP_BASE_DN" validate:"required,startswith=dc="`
	Organization         string `mapstructure:"LDAP_ORGANIZATION" validate:"required"`
	UsersOU              string `mapstructure:"LDAP_USERS_OU" validate:"required"`
	AdminDN              string `mapstructure:"LDAP_ADMIN_DN" validate:"required"`
	AdminPassword        string `mapstructure:"LDAP_ADMIN_PASSWORD" validate:"required"`
	AddBinary            string `mapstructure:"LDAP_ADD_BIN" validate:"required"`
	SearchBinary         string `mapstructure:"LDAP_SEARCH_BIN" validate:"required"`
	AddTimeoutSeconds    int    `mapstructure:"LDAP_ADD_TIMEOUT_SECONDS" validate:"min=1"`
	SearchTimeoutSeconds int    `mapstructure:"LDAP_SEARCH_TIMEOUT_SECONDS" validate:"min=1"`
}

// SeedConfig holds settings for generated users and output files
type SeedConfig struct {
	UserCount  int    `mapstructure:"SEED_USER_COUNT" validate:"min=1,max=100000"`
	MailDomain string `mapstructure:"SEED_MAIL_DOMAIN" validate:"required,fqdn"`
	Department string `mapstructure:"SEED_DEPARTMENT" validate:"required"`
	OutputPath string `mapstructure:"SEED_OUTPUT_PATH" validate:"required"`
	TempPath   string `mapstructure:"SEED_TEMP_PATH" validate:"required"`
}

// AppConfig holds configuration for the directory API server
type AppConfig struct {
	Environment            string `mapstructure:"APP_ENV"`
	HTTPPort               string `mapstructure:"HTTP_PORT" validate:"required,numeric"`
	ShutdownTimeoutSeconds int    `mapstructure:"SHUTDOWN_TIMEOUT_SECONDS" validate:"min=1"`
	// CORSAllowedOrigins comes from a comma-separated list; "*" allows any origin.
	CORSAllowedOrigins []string `mapstructure:"CORS_ALLOWED_ORIGINS" validate:"min=1,dive,required"`
}

// RedisConfig holds the optional Redis used by the directory API
type RedisConfig struct {
	Enabled         bool   `mapstructure:"REDIS_ENABLED"`
	Host            string `mapstructure:"REDIS_HOST" validate:"required_if=Enabled true"`
	Port            int    `mapstructure:"REDIS_PORT" validate:"min=1,max=65535"`
	Password        string `mapstructure:"REDIS_PASSWORD"`
	DB              int    `mapstructure:"REDIS_DB" validate:"min=0,max=15"`
	PoolSize        int    `mapstructure:"REDIS_POOL_SIZE" validate:"min=1"`
	CacheTTLSeconds int    `mapstructure:"CACHE_TTL_SECONDS" validate:"min=0"`
}

// RateLimitConfig holds configuration for the API rate limiter
type RateLimitConfig struct {
	Enabled           bool    `mapstructure:"RATE_LIMIT_ENABLED"`
	RequestsPerSecond float64 `mapstructure:"RATE_LIMIT_REQUESTS_PER_SECOND" validate:"gt=0"`
	WindowSeconds     int     `mapstructure:"RATE_LIMIT_WINDOW_SECONDS" validate:"min=1"`
}

// LoggerConfig holds configuration for the logger
type LoggerConfig struct {
	Level          string `mapstructure:"LOG_LEVEL" validate:"oneof=debug info warn warning error"`
	Format         string `mapstructure:"LOG_FORMAT" validate:"oneof=json console"`
	OutputPath     string `mapstructure:"LOG_OUTPUT_PATH" validate:"required"`
	EnableSampling bool   `mapstructure:"LOG_ENABLE_SAMPLING"`
	ServiceName    string `mapstructure:"SERVICE_NAME"`
	ServiceVersion string `mapstructure:"SERVICE_VERSION"`
}

// LoadConfig reads configuration from <path>/seeder.env and the environment.
// A missing file is not an error; every key has a default.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	v.AddConfigPath(path)
	v.SetConfigName("seeder")
	v.SetConfigType("env")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config

	cfg.LDAP.Host = v.GetString("LDAP_HOST")
	cfg.LDAP.Port = v.GetInt("LDAP_PORT")
	cfg.LDAP.BaseDN = v.GetString("LDAP_BASE_DN")
	cfg.LDAP.Organization = v.GetString("LDAP_ORGANIZATION")
	cfg.LDAP.UsersOU = v.GetString("LDAP_USERS_OU")
	cfg.LDAP.AdminDN = v.GetString("LDAP_ADMIN_DN")
	cfg.LDAP.AdminPassword = v.GetString("LDAP_ADMIN_PASSWORD")
	cfg.LDAP.AddBinary = v.GetString("LDAP_ADD_BIN")
	cfg.LDAP.SearchBinary = v.GetString("LDAP_SEARCH_BIN")
	cfg.LDAP.AddTimeoutSeconds = v.GetInt("LDAP_ADD_TIMEOUT_SECONDS")
	cfg.LDAP.SearchTimeoutSeconds = v.GetInt("LDAP_SEARCH_TIMEOUT_SECONDS")

	cfg.Seed.UserCount = v.GetInt("SEED_USER_COUNT")
	cfg.Seed.MailDomain = v.GetString("SEED_MAIL_DOMAIN")
	cfg.Seed.Department = v.GetString("SEED_DEPARTMENT")
	cfg.Seed.OutputPath = v.GetString("SEED_OUTPUT_PATH")
	cfg.Seed.TempPath = v.GetString("SEED_TEMP_PATH")

	cfg.App.Environment = v.GetString("APP_ENV")
	cfg.App.HTTPPort = v.GetString("HTTP_PORT")
	cfg.App.ShutdownTimeoutSeconds = v.GetInt("SHUTDOWN_TIMEOUT_SECONDS")
	cfg.App.CORSAllowedOrigins = splitList(v.GetString("CORS_ALLOWED_ORIGINS"))

	cfg.Redis.Enabled = v.GetBool("REDIS_ENABLED")
	cfg.Redis.Host = v.GetString("REDIS_HOST")
	cfg.Redis.Port = v.GetInt("REDIS_PORT")
	cfg.Redis.Password = v.GetString("REDIS_PASSWORD")
	cfg.Redis.DB = v.GetInt("REDIS_DB")
	cfg.Redis.PoolSize = v.GetInt("REDIS_POOL_SIZE")
	cfg.Redis.CacheTTLSeconds = v.GetInt("CACHE_TTL_SECONDS")

	cfg.RateLimit.Enabled = v.GetBool("RATE_LIMIT_ENABLED")
	cfg.RateLimit.RequestsPerSecond = v.GetFloat64("RATE_LIMIT_REQUESTS_PER_SECOND")
	cfg.RateLimit.WindowSeconds = v.GetInt("RATE_LIMIT_WINDOW_SECONDS")

	cfg.Logger.Level = strings.ToLower(v.GetString("LOG_LEVEL"))
	cfg.Logger.Format = strings.ToLower(v.GetString("LOG_FORMAT"))
	cfg.Logger.OutputPath = v.GetString("LOG_OUTPUT_PATH")
	cfg.Logger.EnableSampling = v.GetBool("LOG_ENABLE_SAMPLING")
	cfg.Logger.ServiceName = v.GetString("SERVICE_NAME")
	cfg.Logger.ServiceVersion = v.GetString("SERVICE_VERSION")

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("LDAP_HOST", "localhost")
	v.SetDefault("LDAP_PORT", 389)
	v.SetDefault("LDAP_BASE_DN", "dc=photobook,dc=local")
	v.SetDefault("LDAP_ORGANIZATION", "Photobook")
	v.SetDefault("LDAP_USERS_OU", "users")
	v.SetDefault("LDAP_ADMIN_DN", "cn=admin,dc=photobook,dc=local")
	v.SetDefault("LDAP_ADMIN_PASSWORD", "admin123")
	v.SetDefault("LDAP_ADD_BIN", "ldapadd")
	v.SetDefault("LDAP_SEARCH_BIN", "ldapsearch")
	v.SetDefault("LDAP_ADD_TIMEOUT_SECONDS", 30)
	v.SetDefault("LDAP_SEARCH_TIMEOUT_SECONDS", 10)

	v.SetDefault("SEED_USER_COUNT", 300)
	v.SetDefault("SEED_MAIL_DOMAIN", "photobook.local")
	v.SetDefault("SEED_DEPARTMENT", "Sales")
	v.SetDefault("SEED_OUTPUT_PATH", "ldap/users.ldif")
	v.SetDefault("SEED_TEMP_PATH", "/tmp/users.ldif")

	v.SetDefault("APP_ENV", "development")
	v.SetDefault("HTTP_PORT", "8080")
	v.SetDefault("SHUTDOWN_TIMEOUT_SECONDS", 10)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")

	v.SetDefault("REDIS_ENABLED", false)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_POOL_SIZE", 10)
	v.SetDefault("CACHE_TTL_SECONDS", 60)

	v.SetDefault("RATE_LIMIT_ENABLED", true)
	v.SetDefault("RATE_LIMIT_REQUESTS_PER_SECOND", 10)
	v.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 1)

	// Logger defaults
	if v.GetString("APP_ENV") == "production" {
		v.SetDefault("LOG_LEVEL", "info")
		v.SetDefault("LOG_FORMAT", "json")
	} else {
		v.SetDefault("LOG_LEVEL", "debug")
		v.SetDefault("LOG_FORMAT", "console")
	}
	v.SetDefault("LOG_OUTPUT_PATH", "stderr")
	v.SetDefault("LOG_ENABLE_SAMPLING", false)
	v.SetDefault("SERVICE_NAME", "ldap-seeder")
	v.SetDefault("SERVICE_VERSION", "1.0.0")
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// Validate checks every field against its validate tag.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			messages := make([]string, 0, len(validationErrors))
			for _, e := range validationErrors {
				messages = append(messages, fmt.Sprintf("%s failed %q check", e.Namespace(), e.Tag()))
			}
			return fmt.Errorf("invalid configuration: %s", strings.Join(messages, ", "))
		}
		return err
	}
	return nil
}

// UsersDN returns the DN of the organizational unit holding user entries.
func (c *LDAPConfig) UsersDN() string {
	return "ou=" + c.UsersOU + "," + c.BaseDN
}

// Tool returns the ldaptool client configuration.
func (c *LDAPConfig) Tool() ldaptool.Config {
	return ldaptool.Config{
		Host:          c.Host,
		Port:          c.Port,
		BaseDN:        c.BaseDN,
		SearchBase:    c.UsersDN(),
		BindDN:        c.AdminDN,
		BindPassword:  c.AdminPassword,
		AddBinary:     c.AddBinary,
		SearchBinary:  c.SearchBinary,
		AddTimeout:    time.Duration(c.AddTimeoutSeconds) * time.Second,
		SearchTimeout: time.Duration(c.SearchTimeoutSeconds) * time.Second,
	}
}

// Client returns the Redis connection configuration.
func (c *RedisConfig) Client() redisclient.Config {
	return redisclient.Config{
		Host:     c.Host,
		Port:     c.Port,
		Password: c.Password,
		DB:       c.DB,
		PoolSize: c.PoolSize,
	}
}

// CacheTTL returns the search cache TTL.
func (c *RedisConfig) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// Limiter returns the rate limiter configuration.
func (c *RateLimitConfig) Limiter() ginmiddleware.RateLimiterConfig {
	return ginmiddleware.RateLimiterConfig{
		RequestsPerSecond: c.RequestsPerSecond,
		WindowSeconds:     c.WindowSeconds,
		Enabled:           c.Enabled,
	}
}

// Logger returns the logger configuration for the given environment.
func (c *LoggerConfig) Logger(environment string) logger.Config {
	return logger.Config{
		Level:          c.Level,
		Format:         c.Format,
		OutputPath:     c.OutputPath,
		EnableSampling: c.EnableSampling,
		ServiceName:    c.ServiceName,
		ServiceVersion: c.ServiceVersion,
		Environment:    environment,
	}
}
