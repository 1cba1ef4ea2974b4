package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	DBDriver      string
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	DBPath        string
	JWTSecret     string
	ServerPort    string
	ImageAPIKey   string
	ImageAPIURL   string
	ImageAPIModel string
}

func Load() *Config {
	// A missing .env is fine, env vars and defaults still apply.
	_ = godotenv.Load()

	return &Config{
		DBDriver:      getEnv("DB_DRIVER", "postgres"),
		DBHost:        getEnv("DB_HOST", "localhost"),
		DBPort:        getEnv("DB_PORT", "5432"),
		DBUser:        getEnv("DB_USER", "postgres"),
		DBPassword:    getEnv("DB_PASSWORD", "postgres"),
		DBName:        getEnv("DB_NAME", "partygame"),
		DBPath:        getEnv("DB_PATH", "partygame.db"),
		JWTSecret:     getEnv("JWT_SECRET", "super-secret-key-change-me"),
		ServerPort:    getEnv("SERVER_PORT", "8080"),
		ImageAPIKey:   getEnv("IMAGE_API_KEY", ""),
		ImageAPIURL:   getEnv("IMAGE_API_URL", "https://api.openai.com/v1/images/generations"),
		ImageAPIModel: getEnv("IMAGE_API_MODEL", "dall-e-3"),
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
