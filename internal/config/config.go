package config

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	BackendDisk = "disk"
	BackendR2   = "r2"

	// DefaultJWTSecret is only meant for local development.
	DefaultJWTSecret = "dev-secret-change-me"
)

type R2Config struct {
	AccountID       string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	Region          string
}

type AuthConfig struct {
	Password     string
	PasswordHash string
	JWTSecret    string
}

// Enabled reports whether an owner password has been configured.
func (a AuthConfig) Enabled() bool {
	return a.Password != "" || a.PasswordHash != ""
}

type Config struct {
	Port           string
	Environment    string
	DBDriver       string
	DBURL          string
	UploadDir      string
	StorageBackend string
	MaxUploadBytes int64
	StaticDir      string
	LogLevel       string
	LogFormat      string
	Auth           AuthConfig
	CorsConfig     cors.Options
	R2             R2Config
}

// Load reads the optional env file and then the process environment.
func Load() (Config, error) {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	// a missing env file is fine, the process environment still applies
	_ = godotenv.Load(envFile)

	maxMB, err := strconv.ParseInt(getEnv("MAX_UPLOAD_MB", "32"), 10, 64)
	if err != nil || maxMB <= 0 {
		return Config{}, fmt.Errorf("config: MAX_UPLOAD_MB must be a positive integer, got %q", os.Getenv("MAX_UPLOAD_MB"))
	}

	cfg := Config{
		Port:           getEnv("PORT", "3000"),
		Environment:    getEnv("ENV", "development"),
		DBDriver:       strings.ToLower(getEnv("DB_DRIVER", DriverSQLite)),
		DBURL:          getEnv("DB_URL", "freelance.db"),
		UploadDir:      getEnv("UPLOAD_DIR", "uploads"),
		StorageBackend: strings.ToLower(getEnv("STORAGE_BACKEND", BackendDisk)),
		MaxUploadBytes: maxMB << 20,
		StaticDir:      getEnv("STATIC_DIR", ""),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "console"),
		Auth: AuthConfig{
			Password:     getEnv("AUTH_PASSWORD", ""),
			PasswordHash: getEnv("AUTH_PASSWORD_HASH", ""),
			JWTSecret:    getEnv("JWT_SECRET", DefaultJWTSecret),
		},
		CorsConfig: CorsConfig(splitList(getEnv("CORS_ORIGINS", "http://localhost:5173"))),
		R2: R2Config{
			AccountID:       getEnv("R2_ACCOUNT_ID", ""),
			AccessKeyID:     getEnv("R2_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("R2_SECRET_ACCESS_KEY", ""),
			BucketName:      getEnv("R2_BUCKET_NAME", ""),
			Region:          getEnv("R2_REGION", "auto"),
		},
	}

	switch cfg.DBDriver {
	case DriverSQLite, DriverPostgres:
	default:
		return Config{}, fmt.Errorf("config: unsupported DB_DRIVER %q", cfg.DBDriver)
	}
	switch cfg.StorageBackend {
	case BackendDisk:
	case BackendR2:
		if cfg.R2.AccountID == "" || cfg.R2.BucketName == "" {
			return Config{}, fmt.Errorf("config: STORAGE_BACKEND=r2 requires R2_ACCOUNT_ID and R2_BUCKET_NAME")
		}
	default:
		return Config{}, fmt.Errorf("config: unsupported STORAGE_BACKEND %q", cfg.StorageBackend)
	}

	return cfg, nil
}

// Gets the env by key or fallbacks
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func CorsConfig(origins []string) cors.Options {
	return cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}
}
