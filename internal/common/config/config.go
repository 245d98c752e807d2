package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// ============================================================
// Configuration
// ============================================================

type Config struct {
	Port         string
	Environment  string
	ReadTimeout  int
	WriteTimeout int

	DatabaseDriver string
	DatabaseURL    string
	DataDir        string

	AdminLogin    string
	AdminPassword string

	CookieHashKey  string
	CookieBlockKey string
	SessionTTL     int // hours

	CORSOrigins []string
}

// Load читает .env (если есть) и переменные окружения.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("[CONFIG] .env ignored: %v", err)
	}

	dataDir := getEnv("DATA_DIR", "data")
	driver := getEnv("DATABASE_DRIVER", "sqlite3")
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" && driver == "sqlite3" {
		dbURL = filepath.Join(dataDir, "db", "planner.db")
	}

	return &Config{
		Port:           getEnv("PORT", "3000"),
		Environment:    getEnv("ENV", "development"),
		ReadTimeout:    getEnvAsInt("READ_TIMEOUT", 10),
		WriteTimeout:   getEnvAsInt("WRITE_TIMEOUT", 10),
		DatabaseDriver: driver,
		DatabaseURL:    dbURL,
		DataDir:        dataDir,
		AdminLogin:     getEnv("ADMIN_LOGIN", "admin"),
		AdminPassword:  getEnv("ADMIN_PASSWORD", "admin"),
		CookieHashKey:  os.Getenv("COOKIE_HASH_KEY"),
		CookieBlockKey: os.Getenv("COOKIE_BLOCK_KEY"),
		SessionTTL:     getEnvAsInt("SESSION_TTL_HOURS", 24),
		CORSOrigins:    getEnvAsList("CORS_ORIGINS"),
	}
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

// getEnvAsList splits a comma separated variable, dropping empty items.
func getEnvAsList(key string) []string {
	var out []string
	for _, v := range strings.Split(os.Getenv(key), ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}
