package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	DB struct {
		Host     string
		Port     string
		User     string
		Password string
		Name     string
		SSLMode  string

		MaxOpenConns    int
		MaxIdleConns    int
		ConnMaxLifetime time.Duration
	}

	Server struct {
		Port           string
		GinMode        string
		Environment    string
		LogLevel       string
		RequestTimeout time.Duration
	}

	Storage struct {
		Type string
	}

	Auth struct {
		JWTSecret   string
		AdminEmails []string
	}

	Hackathon struct {
		MaxIdeasPerEvent int64
	}

	Upload struct {
		MaxFileSize int64
	}

	MinIO struct {
		Endpoint  string
		AccessKey string
		SecretKey string
		Bucket    string
		UseSSL    bool
		PublicURL string
	}

	CORS struct {
		AllowOrigins string
		AllowMethods string
		AllowHeaders string
	}
}

// Load loads configuration from environment variables
func Load() *Config {
	_ = godotenv.Load()

	config := &Config{}

	config.DB.Host = getEnv("DB_HOST", "localhost")
	config.DB.Port = getEnv("DB_PORT", "5432")
	config.DB.User = getEnv("DB_USER", "hackathon")
	config.DB.Password = getEnv("DB_PASSWORD", "hackathon_password")
	config.DB.Name = getEnv("DB_NAME", "hackathon_db")
	config.DB.SSLMode = getEnv("DB_SSLMODE", "disable")
	config.DB.MaxOpenConns = int(getEnvAsInt64("DB_MAX_OPEN_CONNS", 25))
	config.DB.MaxIdleConns = int(getEnvAsInt64("DB_MAX_IDLE_CONNS", 10))
	config.DB.ConnMaxLifetime = getEnvAsDuration("DB_CONN_MAX_LIFETIME", time.Hour)

	config.Server.Port = getEnv("PORT", "8080")
	config.Server.GinMode = getEnv("GIN_MODE", "debug")
	config.Server.Environment = getEnv("ENVIRONMENT", "development")
	config.Server.LogLevel = getEnv("LOG_LEVEL", "info")
	config.Server.RequestTimeout = getEnvAsDuration("REQUEST_TIMEOUT", 10*time.Second)

	config.Storage.Type = getEnv("STORAGE_TYPE", "postgres")

	config.Auth.JWTSecret = getEnv("JWT_SECRET", "")
	config.Auth.AdminEmails = getEnvAsList("ADMIN_EMAILS")

	config.Hackathon.MaxIdeasPerEvent = getEnvAsInt64("MAX_IDEAS_PER_EVENT", 5)

	config.Upload.MaxFileSize = getEnvAsInt64("MAX_FILE_SIZE", 5242880)

	config.MinIO.Endpoint = getEnv("MINIO_ENDPOINT", "")
	config.MinIO.AccessKey = getEnv("MINIO_ACCESS_KEY", "")
	config.MinIO.SecretKey = getEnv("MINIO_SECRET_KEY", "")
	config.MinIO.Bucket = getEnv("MINIO_BUCKET", "idea-images")
	config.MinIO.UseSSL = getEnv("MINIO_USE_SSL", "false") == "true"
	config.MinIO.PublicURL = getEnv("MINIO_PUBLIC_URL", "")

	config.CORS.AllowOrigins = getEnv("CORS_ALLOW_ORIGINS", "http://localhost:3000")
	config.CORS.AllowMethods = getEnv("CORS_ALLOW_METHODS", "GET,POST,PUT,PATCH,DELETE,HEAD,OPTIONS")
	config.CORS.AllowHeaders = getEnv("CORS_ALLOW_HEADERS", "Origin,Content-Length,Content-Type,Authorization")

	return config
}

// GetDatabaseURL returns the database connection URL
func (c *Config) GetDatabaseURL() string {
	return "postgres://" + c.DB.User + ":" + c.DB.Password + "@" + c.DB.Host + ":" + c.DB.Port + "/" + c.DB.Name + "?sslmode=" + c.DB.SSLMode
}

// IsProduction reports whether the service runs in the production environment
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// ObjectStoreEnabled reports whether image uploads have a backing bucket
func (c *Config) ObjectStoreEnabled() bool {
	return c.MinIO.Endpoint != ""
}

// SplitList splits a comma separated config value, dropping empty entries
func SplitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt64 gets an environment variable as int64 or returns a default value
func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil && d > 0 {
			return d
		}
	}
	return defaultValue
}

func getEnvAsList(key string) []string {
	return SplitList(os.Getenv(key))
}
