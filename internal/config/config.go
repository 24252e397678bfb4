package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config carries all environment-driven settings for the server.
type Config struct {
	DatabaseURL string
	Port        int

	JWTSecret            string
	AccessTokenExpireMin int
	RefreshTokenExpireMin int

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	MailFrom     string

	GeminiAPIKey string

	MinioEndpoint    string
	MinioAccessKey   string
	MinioSecretKey   string
	MinioUseSSL      bool
	InvoicePDFBucket string
}

// Load reads configuration from the environment. A .env file is honored
// when present but never required.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		DatabaseURL:           os.Getenv("DATABASE_URL"),
		Port:                  envInt("PORT", 8080),
		JWTSecret:             os.Getenv("JWT_SECRET"),
		AccessTokenExpireMin:  envInt("ACCESS_TOKEN_EXPIRE_MINUTES", 30),
		RefreshTokenExpireMin: envInt("REFRESH_TOKEN_EXPIRE_MINUTES", 60*24*7),
		RedisAddr:             envString("REDIS_ADDR", "localhost:6379"),
		RedisPassword:         os.Getenv("REDIS_PASSWORD"),
		RedisDB:               envInt("REDIS_DB", 0),
		SMTPHost:              envString("SMTP_HOST", "localhost"),
		SMTPPort:              envInt("SMTP_PORT", 587),
		SMTPUsername:          os.Getenv("SMTP_USERNAME"),
		SMTPPassword:          os.Getenv("SMTP_PASSWORD"),
		MailFrom:              envString("MAIL_FROM", "notification@example.com"),
		GeminiAPIKey:          os.Getenv("GEMINI_API_KEY"),
		MinioEndpoint:         envString("MINIO_ENDPOINT", "localhost:9000"),
		MinioAccessKey:        envString("MINIO_ACCESS_KEY", "minioadmin"),
		MinioSecretKey:        envString("MINIO_SECRET_KEY", "minioadmin"),
		MinioUseSSL:           os.Getenv("MINIO_USE_SSL") == "true",
		InvoicePDFBucket:      envString("INVOICE_PDF_BUCKET", "crmhub-invoices"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}

	return cfg, nil
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("Invalid %s value %q, using default %d", key, v, fallback)
		return fallback
	}
	return n
}
