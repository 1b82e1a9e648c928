package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/vytor/karrito/internal/logger"
)

type Config struct {
	Addr          string
	DataDir       string
	DBPath        string
	LogLevel      string
	WorkerCount   int
	QueueSize     int
	BusyTimeoutMS int
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
// Empty DataDir and DBPath mean "resolve from the platform default".
func Load() Config {
	// Ignore error so the launcher still starts when .env is absent.
	_ = godotenv.Load()

	return Config{
		Addr:          envOr("ADDR", "127.0.0.1:7878"),
		DataDir:       os.Getenv("LAUNCHER_DATA_DIR"),
		DBPath:        os.Getenv("LAUNCHER_DB_PATH"),
		LogLevel:      envOr("LOG_LEVEL", "INFO"),
		WorkerCount:   envIntOr("WORKER_COUNT", 2),
		QueueSize:     envIntOr("QUEUE_SIZE", 32),
		BusyTimeoutMS: envIntOr("BUSY_TIMEOUT_MS", 5000),
	}
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var problems []string

	if strings.TrimSpace(c.Addr) == "" {
		problems = append(problems, "ADDR cannot be empty")
	}
	if _, ok := logger.LookupLevel(c.LogLevel); !ok {
		problems = append(problems, fmt.Sprintf("LOG_LEVEL must be one of DEBUG, INFO, WARN, ERROR (got %q)", c.LogLevel))
	}
	if c.WorkerCount < 1 {
		problems = append(problems, fmt.Sprintf("WORKER_COUNT must be at least 1 (got %d)", c.WorkerCount))
	}
	if c.QueueSize < 1 {
		problems = append(problems, fmt.Sprintf("QUEUE_SIZE must be at least 1 (got %d)", c.QueueSize))
	}
	if c.BusyTimeoutMS < 0 {
		problems = append(problems, fmt.Sprintf("BUSY_TIMEOUT_MS cannot be negative (got %d)", c.BusyTimeoutMS))
	}

	if len(problems) == 0 {
		return nil
	}
	return errors.New("invalid configuration: " + strings.Join(problems, "; "))
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}
