package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName  string
	HTTPPort     string
	PostgresDSN  string
	BoltPath     string
	KafkaBrokers []string

	MaxRowsPerStructure int
	RateLimitRPS        float64
	RateLimitBurst      int
	CORSAllowedOrigins  []string

	EnableEditJournal  bool
	OutboxPollInterval time.Duration
	OutboxBatchSize    int
}

// Load reads the process environment. When envFile is non-empty it is loaded
// first; variables already set in the environment win.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("load env file %s: %w", envFile, err)
		}
	}

	service := os.Getenv("SERVICE_NAME")
	if service == "" {
		service = "rewardsplit"
	}

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}

	brokers := envList("KAFKA_BROKERS")
	if len(brokers) == 0 {
		brokers = []string{"localhost:9092"}
	}

	origins := envList("CORS_ALLOWED_ORIGINS")
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	maxRows, err := envInt("MAX_ROWS_PER_STRUCTURE", 100)
	if err != nil {
		return Config{}, err
	}
	rps, err := envFloat("RATE_LIMIT_RPS", 20)
	if err != nil {
		return Config{}, err
	}
	burst, err := envInt("RATE_LIMIT_BURST", 40)
	if err != nil {
		return Config{}, err
	}
	batch, err := envInt("OUTBOX_BATCH_SIZE", 100)
	if err != nil {
		return Config{}, err
	}
	poll, err := envDuration("OUTBOX_POLL_INTERVAL", time.Second)
	if err != nil {
		return Config{}, err
	}

	return Config{
		ServiceName:  service,
		HTTPPort:     port,
		PostgresDSN:  os.Getenv("POSTGRES_DSN"),
		BoltPath:     strings.TrimSpace(os.Getenv("BOLT_PATH")),
		KafkaBrokers: brokers,

		MaxRowsPerStructure: maxRows,
		RateLimitRPS:        rps,
		RateLimitBurst:      burst,
		CORSAllowedOrigins:  origins,

		EnableEditJournal:  envBool("ENABLE_EDIT_JOURNAL", true),
		OutboxPollInterval: poll,
		OutboxBatchSize:    batch,
	}, nil
}

func envBool(name string, fallback bool) bool {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return fallback
	}
	switch raw {
	case "1", "true", "t", "yes", "y", "on":
		return true
	case "0", "false", "f", "no", "n", "off":
		return false
	default:
		return fallback
	}
}

func envInt(name string, fallback int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	return value, nil
}

func envFloat(name string, fallback float64) (float64, error) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	return value, nil
}

func envDuration(name string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback, nil
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	return value, nil
}

func envList(name string) []string {
	var items []string
	for _, value := range strings.Split(os.Getenv(name), ",") {
		value = strings.TrimSpace(value)
		if value != "" {
			items = append(items, value)
		}
	}
	return items
}
