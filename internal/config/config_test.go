package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfigFile(t, `
database:
  host: db.local
  port: 5432
  user: restaurant
  password: secret
  database: table_service

rabbitmq:
  host: mq.local
  port: 5672
  user: guest
  password: guest

redis:
  host: cache.local
  port: 6379
  menu_cache_ttl_seconds: 120

http:
  port: 8080
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "db.local", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "table_service", cfg.Database.Database)
	assert.Equal(t, "mq.local", cfg.RabbitMQ.Host)
	assert.Equal(t, 120, cfg.Redis.MenuCacheTTLSeconds)
	assert.Equal(t, 8080, cfg.HTTP.Port)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("does-not-exist.yaml")
	assert.Error(t, err)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := writeConfigFile(t, "database: [not a mapping")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadMissingRequiredFields(t *testing.T) {
	path := writeConfigFile(t, `
database:
  port: 5432
rabbitmq:
  host: mq.local
  port: 5672
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database.host")
}

func TestURLBuilders(t *testing.T) {
	cfg := &Config{
		Database: DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", Database: "d"},
		RabbitMQ: RabbitMQConfig{Host: "mq", Port: 5672, User: "guest", Password: "guest"},
		Redis:    RedisConfig{Host: "cache", Port: 6379},
	}

	assert.Equal(t, "postgres://u:p@db:5432/d?sslmode=disable", cfg.DatabaseURL())
	assert.Equal(t, "amqp://guest:guest@mq:5672/", cfg.RabbitMQURL())
	assert.Equal(t, "cache:6379", cfg.RedisAddr())
}
