package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Auth holds everything the credential service needs to issue and
// validate tokens and one-time codes.
type Auth struct {
	JWTSecret string
	OTPTTL    time.Duration
	ResetTTL  time.Duration
	TokenTTL  time.Duration
}

// SMTP carries mail provider settings. An empty Host selects the
// logging mock sender.
type SMTP struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

// SMS carries the SMS gateway settings. An empty APIURL selects the
// logging mock sender.
type SMS struct {
	APIURL string
	APIKey string
	Sender string
}

type Config struct {
	MongoURI string
	DBName   string
	BaseURL  string
	Port     string
	Auth     Auth
	SMTP     SMTP
	SMS      SMS
}

// Load reads .env plus the process environment and returns a fully
// constructed Config. Nothing is kept in package-level state.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println(".env not loaded:", err)
	}
	return Config{
		MongoURI: getEnvOrDefault("MONGO_URI", ""),
		DBName:   getEnvOrDefault("DB_NAME", "foodmandu"),
		BaseURL:  getEnvOrDefault("BASE_URL", "http://localhost:5050"),
		Port:     getEnvOrDefault("PORT", "5050"),
		Auth: Auth{
			JWTSecret: getEnvOrDefault("JWT_SECRET", ""),
			OTPTTL:    getDurationEnv("OTP_TTL_MINUTES", 10, time.Minute),
			ResetTTL:  getDurationEnv("RESET_TTL_MINUTES", 60, time.Minute),
			TokenTTL:  getDurationEnv("TOKEN_TTL_DAYS", 1, 24*time.Hour),
		},
		SMTP: SMTP{
			Host:     getEnvOrDefault("SMTP_HOST", ""),
			Port:     getEnvOrDefault("SMTP_PORT", "587"),
			Username: getEnvOrDefault("SMTP_USERNAME", ""),
			Password: getEnvOrDefault("SMTP_PASSWORD", ""),
			From:     getEnvOrDefault("SMTP_FROM", "no-reply@foodmandu.app"),
		},
		SMS: SMS{
			APIURL: getEnvOrDefault("SMS_API_URL", ""),
			APIKey: getEnvOrDefault("SMS_API_KEY", ""),
			Sender: getEnvOrDefault("SMS_SENDER", "FoodMandu"),
		},
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue int, unit time.Duration) time.Duration {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			return time.Duration(parsed) * unit
		}
	}
	return time.Duration(defaultValue) * unit
}
