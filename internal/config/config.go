package config

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultJWTSecret is only acceptable outside prod.
const DefaultJWTSecret = "supersecretkey"

// MaxAuditLimit bounds AUDIT_LIMIT.
const MaxAuditLimit = 1000

type Config struct {
	Port string `yaml:"port"`

	DBHost    string `yaml:"db_host"`
	DBPort    string `yaml:"db_port"`
	DBName    string `yaml:"db_name"`
	DBUser    string `yaml:"db_user"`
	DBPass    string `yaml:"db_pass"`
	DBSSLMode string `yaml:"db_sslmode"`

	// DBMaxOpenConns is the maximum number of open connections to the database (default 25).
	DBMaxOpenConns int `yaml:"db_max_open_conns"`
	// DBMaxIdleConns is the maximum number of idle connections (default 5).
	DBMaxIdleConns int `yaml:"db_max_idle_conns"`

	JWTSecret string `yaml:"jwt_secret"`

	// Env is "dev" (default) or "prod". When "prod", JWT_SECRET must be set and not the default.
	Env string `yaml:"env"`

	// JWTExpireHours is the token lifetime in hours (default 24). Set via JWT_EXPIRE_HOURS.
	JWTExpireHours int `yaml:"jwt_expire_hours"`

	// TLSCertFile and TLSKeyFile enable HTTPS when both are set.
	TLSCertFile string `yaml:"tls_cert_file"`
	TLSKeyFile  string `yaml:"tls_key_file"`

	// LogFormat is "text" (default) or "json".
	LogFormat string `yaml:"log_format"`
	LogLevel  string `yaml:"log_level"`

	// CORSAllowedOrigins is set via CORS_ALLOWED_ORIGINS (comma-separated). Empty means same-origin only.
	CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`

	// RoleMismatchStatus is the HTTP status sent to an authenticated caller
	// lacking the required role: 403 (default) or 401.
	RoleMismatchStatus int `yaml:"role_mismatch_status"`

	// AuditRequireAdmin restricts GET /audit to admins. Off by default, so any
	// authenticated user may read the audit trail.
	AuditRequireAdmin bool `yaml:"audit_require_admin"`

	// AuditLimit caps the number of entries returned by the audit query (default 100, at most MaxAuditLimit).
	AuditLimit int `yaml:"audit_limit"`

	// TrustProxy makes the server take the client address from X-Forwarded-For / X-Real-IP.
	// Only enable it behind a reverse proxy that overwrites those headers.
	TrustProxy bool `yaml:"trust_proxy"`

	SeedAdminUsername  string `yaml:"seed_admin_username"`
	SeedAdminPassword  string `yaml:"seed_admin_password"`
	SeedSampleListings bool   `yaml:"seed_sample_listings"`

	// BacklogCron is the cron spec for refreshing the listings-by-status gauge. Empty disables it.
	BacklogCron string `yaml:"backlog_cron"`
}

// Defaults returns the configuration used when nothing is set.
func Defaults() Config {
	return Config{
		Port: "8080",

		DBHost:    "localhost",
		DBPort:    "5432",
		DBName:    "listingdb",
		DBUser:    "listinguser",
		DBPass:    "listingpass",
		DBSSLMode: "disable",

		DBMaxOpenConns: 25,
		DBMaxIdleConns: 5,

		JWTSecret:      DefaultJWTSecret,
		Env:            "dev",
		JWTExpireHours: 24,

		LogFormat: "text",
		LogLevel:  "info",

		RoleMismatchStatus: http.StatusForbidden,
		AuditLimit:         100,

		SeedAdminUsername:  "admin",
		SeedAdminPassword:  "admin123",
		SeedSampleListings: true,

		BacklogCron: "@every 1m",
	}
}

// Load reads .env (if present), then the YAML file named by CONFIG_FILE (if set),
// then environment variables, each layer overriding the previous one.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Defaults()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return cfg, err
		}
	}
	applyEnv(&cfg)
	return cfg, cfg.Validate()
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.Port = getEnv("PORT", cfg.Port)

	cfg.DBHost = getEnv("DB_HOST", cfg.DBHost)
	cfg.DBPort = getEnv("DB_PORT", cfg.DBPort)
	cfg.DBName = getEnv("DB_NAME", cfg.DBName)
	cfg.DBUser = getEnv("DB_USER", cfg.DBUser)
	cfg.DBPass = getEnv("DB_PASS", cfg.DBPass)
	cfg.DBSSLMode = getEnv("DB_SSLMODE", cfg.DBSSLMode)
	cfg.DBMaxOpenConns = getEnvInt("DB_MAX_OPEN_CONNS", cfg.DBMaxOpenConns)
	cfg.DBMaxIdleConns = getEnvInt("DB_MAX_IDLE_CONNS", cfg.DBMaxIdleConns)

	cfg.JWTSecret = getEnv("JWT_SECRET", cfg.JWTSecret)
	cfg.Env = getEnv("ENV", cfg.Env)
	cfg.JWTExpireHours = getEnvInt("JWT_EXPIRE_HOURS", cfg.JWTExpireHours)

	cfg.TLSCertFile = getEnv("TLS_CERT_FILE", cfg.TLSCertFile)
	cfg.TLSKeyFile = getEnv("TLS_KEY_FILE", cfg.TLSKeyFile)

	cfg.LogFormat = getEnv("LOG_FORMAT", cfg.LogFormat)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)

	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		cfg.CORSAllowedOrigins = parseCORSOrigins(v)
	}

	cfg.RoleMismatchStatus = getEnvInt("ROLE_MISMATCH_STATUS", cfg.RoleMismatchStatus)
	cfg.AuditRequireAdmin = getEnvBool("AUDIT_REQUIRE_ADMIN", cfg.AuditRequireAdmin)
	cfg.AuditLimit = getEnvInt("AUDIT_LIMIT", cfg.AuditLimit)
	cfg.TrustProxy = getEnvBool("TRUST_PROXY", cfg.TrustProxy)

	cfg.SeedAdminUsername = getEnv("SEED_ADMIN_USERNAME", cfg.SeedAdminUsername)
	cfg.SeedAdminPassword = getEnv("SEED_ADMIN_PASSWORD", cfg.SeedAdminPassword)
	cfg.SeedSampleListings = getEnvBool("SEED_SAMPLE_LISTINGS", cfg.SeedSampleListings)

	if v, ok := os.LookupEnv("BACKLOG_CRON"); ok {
		cfg.BacklogCron = v
	}
}

// Validate rejects settings the server cannot run with.
func (c Config) Validate() error {
	if c.Env == "prod" && (c.JWTSecret == "" || c.JWTSecret == DefaultJWTSecret) {
		return errors.New("JWT_SECRET must be set to a non-default value when ENV=prod")
	}
	if c.RoleMismatchStatus != http.StatusForbidden && c.RoleMismatchStatus != http.StatusUnauthorized {
		return fmt.Errorf("ROLE_MISMATCH_STATUS must be 401 or 403, got %d", c.RoleMismatchStatus)
	}
	if c.AuditLimit < 1 || c.AuditLimit > MaxAuditLimit {
		return fmt.Errorf("AUDIT_LIMIT must be between 1 and %d, got %d", MaxAuditLimit, c.AuditLimit)
	}
	return nil
}

// TLSEnabled reports whether both certificate and key are configured.
func (c Config) TLSEnabled() bool {
	return c.TLSCertFile != "" && c.TLSKeyFile != ""
}

// DatabaseURL returns the connection settings as a postgres URL. Credentials are
// percent-encoded, so it is safe for both lib/pq and migrations.
func (c Config) DatabaseURL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPass),
		Host:     c.DBHost + ":" + c.DBPort,
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=" + url.QueryEscape(c.DBSSLMode),
	}
	return u.String()
}

// parseCORSOrigins splits a comma-separated list of origins and trims spaces. Empty strings are omitted.
func parseCORSOrigins(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if o := strings.TrimSpace(p); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
