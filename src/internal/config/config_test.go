package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"HTTP_ADDR", "STORAGE_DRIVER", "DATABASE_DSN", "LOCK_TIMEOUT", "TRANSFER_CACHE_TTL", "EVENTS_BROKER", "KAFKA_BROKERS", "SEED_DEMO_ACCOUNTS", "ENVIRONMENT"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, StorageDriverPostgres, cfg.StorageDriver)
	assert.Equal(t, "host=localhost port=5432 dbname=bank_db user=postgres password=postgres sslmode=disable", cfg.DatabaseDSN)
	assert.Equal(t, 5*time.Second, cfg.LockTimeout)
	assert.Equal(t, 30*time.Second, cfg.Redis.TTL)
	assert.Equal(t, EventsBrokerNone, cfg.EventsBroker)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
	assert.False(t, cfg.SeedDemoAccounts)
	assert.True(t, cfg.Development())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":8080")
	t.Setenv("STORAGE_DRIVER", "MEMORY")
	t.Setenv("LOCK_TIMEOUT", "250ms")
	t.Setenv("SEED_DEMO_ACCOUNTS", "true")
	t.Setenv("EVENTS_BROKER", "kafka")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("REDIS_DB", "3")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, StorageDriverMemory, cfg.StorageDriver)
	assert.Equal(t, 250*time.Millisecond, cfg.LockTimeout)
	assert.True(t, cfg.SeedDemoAccounts)
	assert.Equal(t, EventsBrokerKafka, cfg.EventsBroker)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 3, cfg.Redis.DB)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string][2]string{
		"bad duration":   {"LOCK_TIMEOUT", "soon"},
		"zero duration":  {"SHUTDOWN_TIMEOUT", "0s"},
		"bad bool":       {"SEED_DEMO_ACCOUNTS", "maybe"},
		"bad int":        {"REDIS_DB", "one"},
		"unknown driver": {"STORAGE_DRIVER", "sqlite"},
		"unknown broker": {"EVENTS_BROKER", "rabbit"},
	}

	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv(kv[0], kv[1])
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), kv[0])
		})
	}
}

func TestNormalizeConnectionString(t *testing.T) {
	assert.Equal(t,
		"host=db port=5433 dbname=bank user=app password=secret connect_timeout=30 sslmode=require",
		normalizeConnectionString("Host=db;Port=5433;Database=bank;Username=app;Password=secret;Timeout=30;SSL Mode=Require"),
	)
	assert.Equal(t,
		"postgres://app:secret@db:5432/bank?sslmode=disable",
		normalizeConnectionString("postgres://app:secret@db:5432/bank?sslmode=disable"),
	)
}
