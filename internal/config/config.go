package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

var AppEnv Config

type Config struct {
	MongoURI    string
	MongoDBName string
	PostgresURI string
	JWTSecret   string
	TokenTTL    time.Duration
	Port        string
}

func Load() {
	if err := godotenv.Load(); err != nil {
		logrus.Println(".env not loaded:", err)
	}
	AppEnv = Config{
		MongoURI:    getEnvOrDefault("MONGO_URI", ""),
		MongoDBName: getEnvOrDefault("DB_NAME", "digital_diner"),
		PostgresURI: getEnvOrDefault("POSTGRES_URI", ""),
		JWTSecret:   getEnvOrDefault("JWT_SECRET", ""),
		TokenTTL:    getDurationEnv("TOKEN_TTL", 24, time.Hour),
		Port:        getEnvOrDefault("PORT", "8080"),
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
