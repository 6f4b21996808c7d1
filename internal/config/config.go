// Package config provides application configuration loaded from environment
// variables with defaults and validation. It centralizes application settings
// such as server timeouts, logging, the document store, the admin credential,
// image hosting, pagination and observability.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// CORSConfig defines Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string
}

// SecurityConfig defines security-related settings such as HSTS.
type SecurityConfig struct {
	EnableHSTS bool
	HSTSMaxAge time.Duration
}

// OTELConfig defines OpenTelemetry observability settings.
type OTELConfig struct {
	Enabled     bool    // OTEL_ENABLED
	Endpoint    string  // OTEL_EXPORTER_OTLP_ENDPOINT (e.g. "otel:4317")
	Insecure    bool    // OTEL_EXPORTER_OTLP_INSECURE (true if no TLS)
	ServiceName string  // OTEL_SERVICE_NAME (e.g. "stockrakh")
	SampleRatio float64 // OTEL_TRACES_SAMPLER_ARG in [0..1]
}

// DBConfig selects and tunes the document store.
type DBConfig struct {
	Driver       string // sqlite|postgres
	Path         string // SQLite file path
	URL          string // Postgres DSN
	MaxOpenConns int
}

// AuthConfig holds the single admin credential and session cookie settings.
type AuthConfig struct {
	AdminUsername     string        // ADMIN_USERNAME
	AdminPasswordHash string        // ADMIN_PASSWORD_HASH (bcrypt)
	SessionTTL        time.Duration // fixed lifetime of an issued session
	CookieName        string
	CookieSecure      bool
}

// CloudinaryConfig holds Cloudinary credentials for the image host.
type CloudinaryConfig struct {
	CloudName  string
	APIKey     string
	APISecret  string
	RootFolder string  // all uploads land under <root>/<folder>
	DestroyRPS float64 // pacing for destroy calls
}

// ImageConfig selects the image host and upload processing limits.
type ImageConfig struct {
	Store        string // local|cloudinary
	Dir          string // local store directory
	BaseURL      string // local store public URL prefix
	Cloudinary   CloudinaryConfig
	MaxUpload    int64 // bytes
	MaxDimension int   // px, longest side after compression
	JPEGQuality  int   // 1..100
}

// PaginationConfig holds per-view default page sizes and the upper clamp.
type PaginationConfig struct {
	DefaultLimit    int
	OutOfStockLimit int
	ActivityLimit   int
	MaxLimit        int
}

// Config holds all configuration values for the application.
type Config struct {
	// Server
	Port              string        // just the number
	ReadTimeout       time.Duration // e.g. 15s
	ReadHeaderTimeout time.Duration // e.g. 10s
	WriteTimeout      time.Duration // e.g. 30s (uploads)
	IdleTimeout       time.Duration // e.g. 60s
	MaxHeaderBytes    int           // bytes
	GinMode           string        // debug|release|test
	AppEnv            string        // development|production

	// Logging / Docs
	LogLevel       string // debug|info|warn|error|fatal|panic
	LogPretty      bool   // pretty console logs in dev
	SwaggerEnabled bool   // enable Swagger UI route
	APIBasePath    string // base path for API routes

	DB         DBConfig
	Auth       AuthConfig
	Images     ImageConfig
	Pagination PaginationConfig

	// Web protection
	CORS     CORSConfig
	Security SecurityConfig

	// Idempotency
	IdempotencyTTL time.Duration // how long a given Idempotency-Key is valid

	// Observability
	OTEL OTELConfig
}

// IsProduction reports whether APP_ENV selects production behavior.
func (c Config) IsProduction() bool { return c.AppEnv == "production" }

// MustLoad loads the configuration and panics if validation fails.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads configuration from environment variables,
// applies defaults, normalizes values, and validates the result.
func Load() (Config, error) {
	cfg := Config{
		// Server
		Port:              getenv("PORT", "8080"),
		ReadTimeout:       getdur("READ_TIMEOUT", 15*time.Second),
		ReadHeaderTimeout: getdur("READ_HEADER_TIMEOUT", 10*time.Second),
		WriteTimeout:      getdur("WRITE_TIMEOUT", 30*time.Second),
		IdleTimeout:       getdur("IDLE_TIMEOUT", 60*time.Second),
		MaxHeaderBytes:    getint("MAX_HEADER_BYTES", 1<<20),
		GinMode:           strings.ToLower(getenv("GIN_MODE", "release")),
		AppEnv:            strings.ToLower(getenv("APP_ENV", "development")),

		// Logging / Docs
		LogLevel:       strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogPretty:      getbool("LOG_PRETTY", false),
		SwaggerEnabled: getbool("SWAGGER_ENABLED", false),
		APIBasePath:    normalizeBasePath(getenv("API_BASE_PATH", "/api")),

		DB: DBConfig{
			Driver:       strings.ToLower(getenv("DB_DRIVER", "sqlite")),
			Path:         getenv("DB_PATH", "stockrakh.db"),
			URL:          getenv("DATABASE_URL", ""),
			MaxOpenConns: getint("DB_MAX_OPEN_CONNS", 10),
		},

		Auth: AuthConfig{
			AdminUsername:     getenv("ADMIN_USERNAME", ""),
			AdminPasswordHash: getenv("ADMIN_PASSWORD_HASH", ""),
			SessionTTL:        getdur("SESSION_TTL", 7*24*time.Hour),
			CookieName:        getenv("SESSION_COOKIE_NAME", "session"),
			CookieSecure:      getbool("COOKIE_SECURE", false),
		},

		Images: ImageConfig{
			Store:   strings.ToLower(getenv("IMAGE_STORE", "local")),
			Dir:     getenv("IMAGE_DIR", "data/images"),
			BaseURL: strings.TrimRight(getenv("IMAGE_BASE_URL", "/media"), "/"),
			Cloudinary: CloudinaryConfig{
				CloudName:  getenv("CLOUDINARY_CLOUD_NAME", ""),
				APIKey:     getenv("CLOUDINARY_API_KEY", ""),
				APISecret:  getenv("CLOUDINARY_API_SECRET", ""),
				RootFolder: strings.Trim(getenv("CLOUDINARY_ROOT_FOLDER", "stockrakh"), "/"),
				DestroyRPS: getfloat("CLOUDINARY_DESTROY_RPS", 5),
			},
			MaxUpload:    int64(getint("UPLOAD_MAX_BYTES", 10<<20)),
			MaxDimension: getint("IMAGE_MAX_DIMENSION", 1920),
			JPEGQuality:  getint("IMAGE_JPEG_QUALITY", 80),
		},

		Pagination: PaginationConfig{
			DefaultLimit:    getint("PAGE_LIMIT_DEFAULT", 20),
			OutOfStockLimit: getint("OUT_OF_STOCK_LIMIT_DEFAULT", 50),
			ActivityLimit:   getint("ACTIVITY_LIMIT_DEFAULT", 10),
			MaxLimit:        getint("PAGE_LIMIT_MAX", 200),
		},

		// Web protection
		CORS: CORSConfig{
			AllowedOrigins: splitCSV(getenv("CORS_ALLOWED_ORIGINS", "")),
		},
		Security: SecurityConfig{
			EnableHSTS: getbool("ENABLE_HSTS", false),
			HSTSMaxAge: getdur("HSTS_MAX_AGE", 180*24*time.Hour),
		},

		// Idempotency
		IdempotencyTTL: getdur("IDEMPOTENCY_TTL", 24*time.Hour),

		// Observability (OpenTelemetry)
		OTEL: OTELConfig{
			Enabled:     getbool("OTEL_ENABLED", false),
			Endpoint:    getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			Insecure:    getbool("OTEL_EXPORTER_OTLP_INSECURE", true),
			ServiceName: getenv("OTEL_SERVICE_NAME", "stockrakh"),
			SampleRatio: getfloat("OTEL_TRACES_SAMPLER_ARG", 1.0),
		},
	}

	// --- normalization ---
	if cfg.LogLevel == "warning" {
		cfg.LogLevel = "warn"
	}
	switch cfg.GinMode {
	case "debug", "release", "test":
	default:
		cfg.GinMode = "release"
	}
	if cfg.DB.Driver == "postgresql" {
		cfg.DB.Driver = "postgres"
	}
	if cfg.IsProduction() {
		cfg.Auth.CookieSecure = true
	}

	// --- validation ---
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error", "fatal", "panic":
	default:
		return cfg, errors.New("LOG_LEVEL must be one of: debug, info, warn, error, fatal, panic")
	}
	if strings.TrimSpace(cfg.Port) == "" {
		return cfg, errors.New("PORT must not be empty")
	}
	if cfg.ReadTimeout <= 0 || cfg.ReadHeaderTimeout <= 0 || cfg.WriteTimeout <= 0 || cfg.IdleTimeout <= 0 {
		return cfg, errors.New("timeouts must be positive durations")
	}
	if cfg.MaxHeaderBytes <= 0 {
		return cfg, errors.New("MAX_HEADER_BYTES must be > 0")
	}
	switch cfg.DB.Driver {
	case "sqlite":
		if strings.TrimSpace(cfg.DB.Path) == "" {
			return cfg, errors.New("DB_PATH must not be empty")
		}
	case "postgres":
		if strings.TrimSpace(cfg.DB.URL) == "" {
			return cfg, errors.New("DATABASE_URL must not be empty when DB_DRIVER=postgres")
		}
	default:
		return cfg, errors.New("DB_DRIVER must be one of: sqlite, postgres")
	}
	if cfg.DB.MaxOpenConns < 1 {
		return cfg, errors.New("DB_MAX_OPEN_CONNS must be >= 1")
	}
	if cfg.Auth.SessionTTL <= 0 {
		return cfg, errors.New("SESSION_TTL must be > 0")
	}
	if strings.TrimSpace(cfg.Auth.CookieName) == "" {
		return cfg, errors.New("SESSION_COOKIE_NAME must not be empty")
	}
	switch cfg.Images.Store {
	case "local":
		if strings.TrimSpace(cfg.Images.Dir) == "" {
			return cfg, errors.New("IMAGE_DIR must not be empty")
		}
	case "cloudinary":
		c := cfg.Images.Cloudinary
		if c.CloudName == "" || c.APIKey == "" || c.APISecret == "" {
			return cfg, errors.New("CLOUDINARY_CLOUD_NAME, CLOUDINARY_API_KEY and CLOUDINARY_API_SECRET are required when IMAGE_STORE=cloudinary")
		}
		if c.DestroyRPS <= 0 {
			return cfg, errors.New("CLOUDINARY_DESTROY_RPS must be > 0")
		}
	default:
		return cfg, errors.New("IMAGE_STORE must be one of: local, cloudinary")
	}
	if cfg.Images.MaxUpload <= 0 {
		return cfg, errors.New("UPLOAD_MAX_BYTES must be > 0")
	}
	if cfg.Images.MaxDimension < 1 {
		return cfg, errors.New("IMAGE_MAX_DIMENSION must be >= 1")
	}
	if cfg.Images.JPEGQuality < 1 || cfg.Images.JPEGQuality > 100 {
		return cfg, errors.New("IMAGE_JPEG_QUALITY must be between 1 and 100")
	}
	p := cfg.Pagination
	if p.DefaultLimit < 1 || p.OutOfStockLimit < 1 || p.ActivityLimit < 1 {
		return cfg, errors.New("default page limits must be >= 1")
	}
	if p.MaxLimit < p.DefaultLimit || p.MaxLimit < p.OutOfStockLimit || p.MaxLimit < p.ActivityLimit {
		return cfg, errors.New("PAGE_LIMIT_MAX must be >= every default limit")
	}
	if cfg.Security.HSTSMaxAge < 0 {
		return cfg, errors.New("HSTS_MAX_AGE must be >= 0")
	}
	if cfg.IdempotencyTTL <= 0 {
		return cfg, errors.New("IDEMPOTENCY_TTL must be > 0")
	}
	if cfg.OTEL.SampleRatio < 0 || cfg.OTEL.SampleRatio > 1 {
		return cfg, errors.New("OTEL_TRACES_SAMPLER_ARG must be in [0,1]")
	}

	return cfg, nil
}

// ---- helpers (no external deps) ----

func getenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		return v
	}
	return def
}

func getfloat(k string, def float64) float64 {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getint(k string, def int) int {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return def
}

func getdur(k string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		t := strings.TrimSpace(p)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// normalizeBasePath ensures leading '/' and strips trailing '/' (except root).
func normalizeBasePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 && strings.HasSuffix(p, "/") {
		p = strings.TrimRight(p, "/")
	}
	return p
}
