package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const defaultConnectionString = "Host=localhost;Port=5432;Database=bank_db;Username=postgres;Password=postgres"

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"

	EventsBrokerNone  = "none"
	EventsBrokerKafka = "kafka"
	EventsBrokerNATS  = "nats"
)

type Config struct {
	HTTPAddr         string
	StorageDriver    string
	DatabaseDSN      string
	MigrationsDir    string
	LockTimeout      time.Duration
	SeedDemoAccounts bool
	ShutdownTimeout  time.Duration

	LogLevel    string
	Environment string

	OTLPEndpoint string

	Redis RedisConfig

	EventsBroker string
	Kafka        KafkaConfig
	NATS         NATSConfig
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

type NATSConfig struct {
	URL     string
	Subject string
}

func (c Config) Development() bool {
	return c.Environment == "development"
}

// Load reads an optional .env file and then the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	lockTimeout, err := durationEnv("LOCK_TIMEOUT", 5*time.Second)
	if err != nil {
		return Config{}, err
	}
	shutdownTimeout, err := durationEnv("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return Config{}, err
	}
	cacheTTL, err := durationEnv("TRANSFER_CACHE_TTL", 30*time.Second)
	if err != nil {
		return Config{}, err
	}
	redisDB, err := intEnv("REDIS_DB", 0)
	if err != nil {
		return Config{}, err
	}
	seed, err := boolEnv("SEED_DEMO_ACCOUNTS", false)
	if err != nil {
		return Config{}, err
	}

	driver := strings.ToLower(stringEnv("STORAGE_DRIVER", StorageDriverPostgres))
	if driver != StorageDriverPostgres && driver != StorageDriverMemory {
		return Config{}, fmt.Errorf("STORAGE_DRIVER: unsupported value %q", driver)
	}

	broker := strings.ToLower(stringEnv("EVENTS_BROKER", EventsBrokerNone))
	switch broker {
	case EventsBrokerNone, EventsBrokerKafka, EventsBrokerNATS:
	default:
		return Config{}, fmt.Errorf("EVENTS_BROKER: unsupported value %q", broker)
	}

	return Config{
		HTTPAddr:         stringEnv("HTTP_ADDR", ":9090"),
		StorageDriver:    driver,
		DatabaseDSN:      normalizeConnectionString(stringEnv("DATABASE_DSN", defaultConnectionString)),
		MigrationsDir:    stringEnv("MIGRATIONS_DIR", "src/migrations"),
		LockTimeout:      lockTimeout,
		SeedDemoAccounts: seed,
		ShutdownTimeout:  shutdownTimeout,
		LogLevel:         stringEnv("LOG_LEVEL", "info"),
		Environment:      stringEnv("ENVIRONMENT", "development"),
		OTLPEndpoint:     stringEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		Redis: RedisConfig{
			Addr:     stringEnv("REDIS_ADDR", ""),
			Password: stringEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
			TTL:      cacheTTL,
		},
		EventsBroker: broker,
		Kafka: KafkaConfig{
			Brokers: splitList(stringEnv("KAFKA_BROKERS", "localhost:9092")),
			Topic:   stringEnv("KAFKA_TOPIC", "bank.transfers.completed"),
		},
		NATS: NATSConfig{
			URL:     stringEnv("NATS_URL", "nats://localhost:4222"),
			Subject: stringEnv("NATS_SUBJECT", "bank.transfers.completed"),
		},
	}, nil
}

func stringEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s: must be positive", key)
	}
	return d, nil
}

func intEnv(key string, fallback int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func boolEnv(key string, fallback bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// normalizeConnectionString turns an ADO-style "Host=…;Database=…" string into a lib/pq DSN.
// Anything that is not semicolon separated key=value pairs passes through untouched.
func normalizeConnectionString(raw string) string {
	if !strings.Contains(raw, ";") && !strings.HasPrefix(strings.ToLower(raw), "host=") {
		return raw
	}

	parts := strings.Split(raw, ";")
	out := make([]string, 0, len(parts))
	hasSSLMode := false

	for _, part := range parts {
		p := strings.TrimSpace(part)
		if p == "" {
			continue
		}

		kv := strings.SplitN(p, "=", 2)
		if len(kv) != 2 {
			continue
		}

		key := strings.ToLower(strings.TrimSpace(kv[0]))
		val := strings.TrimSpace(kv[1])

		switch key {
		case "host", "server":
			out = append(out, "host="+val)
		case "port":
			out = append(out, "port="+val)
		case "database":
			out = append(out, "dbname="+val)
		case "username", "user id":
			out = append(out, "user="+val)
		case "password":
			out = append(out, "password="+val)
		case "timeout", "connect timeout":
			out = append(out, "connect_timeout="+val)
		case "sslmode", "ssl mode":
			hasSSLMode = true
			out = append(out, "sslmode="+strings.ToLower(val))
		default:
			out = append(out, key+"="+val)
		}
	}

	if len(out) == 0 {
		return raw
	}

	if !hasSSLMode {
		out = append(out, "sslmode=disable")
	}

	return strings.Join(out, " ")
}
