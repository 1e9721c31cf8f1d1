package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        int
	DBDriver    string
	DatabaseURL string
	SecretKey   string
	JWTSecret   string
	LogLevel    string
	StaticDir   string
	Google      *GoogleConfig
	Storage     StorageConfig
}

// Load reads .env (if present) and the process environment.
func Load() Config {
	_ = godotenv.Load()

	port := 8080
	if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			port = p
		}
	}

	driver := getEnv("DB_DRIVER", DriverPostgres)

	return Config{
		Port:        port,
		DBDriver:    driver,
		DatabaseURL: databaseURL(driver),
		SecretKey:   getEnv("SECRET_KEY", "it's a secret"),
		JWTSecret:   getEnv("JWT_SECRET", "it's a secret"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		StaticDir:   getEnv("STATIC_DIR", "static"),
		Google:      NewGoogleConfig(),
		Storage:     GetStorageConfig(),
	}
}

// databaseURL prefers DATABASE_URL and falls back to the DB_* parts.
func databaseURL(driver string) string {
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		return dsn
	}

	switch driver {
	case DriverSQLite:
		return "warbler.db?_foreign_keys=on"
	case DriverMySQL:
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			getEnv("DB_USER", "root"), os.Getenv("DB_PASSWORD"),
			getEnv("DB_HOST", "localhost"), getEnv("DB_PORT", "3306"), getEnv("DB_NAME", "warbler"))
	default:
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			getEnv("DB_HOST", "localhost"), getEnv("DB_USER", "postgres"), os.Getenv("DB_PASSWORD"),
			getEnv("DB_NAME", "warbler"), getEnv("DB_PORT", "5432"))
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
