package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Env struct {
	AppAddr     string
	GinMode     string
	DBUser      string
	DBPass      string
	DBHost      string
	DBName      string
	JWTSecret   string
	CORSOrigins []string
}

// LoadEnv reads .env when present, then the process environment, with defaults
// suitable for local development.
func LoadEnv() Env {
	_ = godotenv.Load()

	return Env{
		AppAddr:     envOr("APP_ADDR", ":8080"),
		GinMode:     strings.TrimSpace(os.Getenv("GIN_MODE")),
		DBUser:      envOr("DB_USER", "root"),
		DBPass:      strings.TrimSpace(os.Getenv("DB_PASS")),
		DBHost:      envOr("DB_HOST", "127.0.0.1:3306"),
		DBName:      envOr("DB_NAME", "rental_app"),
		JWTSecret:   envOr("JWT_SECRET", "super-secret-key-change-me"),
		CORSOrigins: splitCSV(os.Getenv("CORS_ALLOWED_ORIGINS")),
	}
}

func envOr(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func splitCSV(raw string) []string {
	out := []string{}
	for _, p := range strings.Split(raw, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
