package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Load reads the .env file specified by SIFT_ENV (or .env by default),
// then loads the corresponding .secret file if it exists.
// All config is flat env vars read via os.Getenv after loading.
func Load() error {
	envFile := os.Getenv("SIFT_ENV")
	if envFile == "" {
		envFile = ".env"
	}

	// Load main env file (ignore error if file doesn't exist)
	_ = godotenv.Load(envFile)

	// Load secret sidecar if it exists
	_ = godotenv.Load(envFile + ".secret")

	return nil
}

func ServerPort() int {
	port, err := strconv.Atoi(os.Getenv("SERVER_PORT"))
	if err != nil {
		return 8080
	}
	return port
}

func ServerAddr() string {
	return fmt.Sprintf(":%d", ServerPort())
}

func DatabaseURL() string {
	return os.Getenv("DATABASE_URL")
}

func MigrationsPath() string {
	p := os.Getenv("MIGRATIONS_PATH")
	if p == "" {
		return "migrations"
	}
	return p
}

// RemoteProvider returns the configured remote client provider.
// Defaults to "mock" so the engine works fully offline out of the box.
// Valid values: http, mock
func RemoteProvider() string {
	p := os.Getenv("REMOTE_PROVIDER")
	if p == "" {
		return "mock"
	}
	return p
}

func RemoteBaseURL() string {
	return os.Getenv("REMOTE_BASE_URL")
}

// RemoteTimeout returns the per-call timeout for remote dispatches.
// Defaults to 10 seconds if not set.
func RemoteTimeout() time.Duration {
	secs, err := strconv.Atoi(os.Getenv("REMOTE_TIMEOUT_SECONDS"))
	if err != nil || secs <= 0 {
		return 10 * time.Second
	}
	return time.Duration(secs) * time.Second
}

// OutboxInterval returns how often the background dispatcher drains the
// outbox. Defaults to 30 seconds if not set.
func OutboxInterval() time.Duration {
	secs, err := strconv.Atoi(os.Getenv("OUTBOX_INTERVAL_SECONDS"))
	if err != nil || secs <= 0 {
		return 30 * time.Second
	}
	return time.Duration(secs) * time.Second
}

// OutboxBatchSize returns the max entries drained per dispatcher pass.
// Defaults to 50 if not set.
func OutboxBatchSize() int {
	n, err := strconv.Atoi(os.Getenv("OUTBOX_BATCH_SIZE"))
	if err != nil || n <= 0 {
		return 50
	}
	return n
}

// OutboxDispatchRPS returns the dispatch rate limit against the remote.
// Defaults to 10 if not set.
func OutboxDispatchRPS() float64 {
	rps, err := strconv.ParseFloat(os.Getenv("OUTBOX_DISPATCH_RPS"), 64)
	if err != nil || rps <= 0 {
		return 10
	}
	return rps
}

// RateLimitRPS returns requests per second limit.
// Defaults to 100 if not set.
func RateLimitRPS() float64 {
	rps, err := strconv.ParseFloat(os.Getenv("RATE_LIMIT_RPS"), 64)
	if err != nil || rps <= 0 {
		return 100
	}
	return rps
}

// RateLimitBurst returns the burst size for rate limiting.
// Defaults to 20 if not set.
func RateLimitBurst() int {
	burst, err := strconv.Atoi(os.Getenv("RATE_LIMIT_BURST"))
	if err != nil || burst <= 0 {
		return 20
	}
	return burst
}

// LogLevel returns the log level (debug, info, warn, error).
// Defaults to "info" if not set.
func LogLevel() string {
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		return "info"
	}
	return level
}
