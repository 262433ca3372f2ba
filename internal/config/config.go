package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          string
	DatabaseURL   string
	SessionSecret string
	CookieName    string
	CorsOrigin    string
	Production    bool
	LogLevel      string

	ImgurClientID string
	ImgurAPIURL   string

	SMTPHost string
	SMTPPort string
	SMTPUser string
	SMTPPass string
	SMTPFrom string
}

// Load reads .env (if present) and the process environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, finding env vars from system")
	}

	cfg := &Config{
		Port:          getEnv("PORT", "4000"),
		DatabaseURL:   getEnv("DATABASE_URL", "host=localhost user=postgres password=postgres dbname=memeboard port=5432 sslmode=disable TimeZone=UTC"),
		SessionSecret: getEnv("SESSION_SECRET", "secret_key_change_me"),
		CookieName:    getEnv("COOKIE_NAME", "qid"),
		CorsOrigin:    getEnv("CORS_ORIGIN", "http://localhost:3000"),
		Production:    getBool("PRODUCTION", false),
		LogLevel:      strings.ToLower(getEnv("LOG_LEVEL", "warn")),
		ImgurClientID: os.Getenv("IMGUR_CLIENT_ID"),
		ImgurAPIURL:   getEnv("IMGUR_API_URL", "https://api.imgur.com/3"),
		SMTPHost:      os.Getenv("SMTP_HOST"),
		SMTPPort:      os.Getenv("SMTP_PORT"),
		SMTPUser:      os.Getenv("SMTP_USER"),
		SMTPPass:      os.Getenv("SMTP_PASS"),
		SMTPFrom:      os.Getenv("SMTP_FROM"),
	}

	if cfg.SessionSecret == "secret_key_change_me" && cfg.Production {
		log.Println("⚠️ SESSION_SECRET is not set, using the development default")
	}
	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("Invalid %s=%q, using %v", key, v, fallback)
		return fallback
	}
	return b
}
