package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validConfigYAML = `
server:
  host: "127.0.0.1"
  port: 8081
  shutdown_timeout: 5s
log:
  level: debug
  format: console
lifecycle:
  templates_file: "configs/stage_templates.yaml"
  external_poc: "Arctic"
redis:
  enabled: true
  addr: "localhost:6379"
  lock_ttl: 3s
kafka:
  enabled: true
  brokers: ["kafka-1:9092", "kafka-2:9092"]
  topic: "lifecycle.events"
metrics:
  enabled: true
`

func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_FromFile_ValidConfig(t *testing.T) {
	cfg, err := Load(createTempConfigFile(t, validConfigYAML))
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 8081, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, "configs/stage_templates.yaml", cfg.Lifecycle.TemplatesFile)
	assert.Equal(t, 3*time.Second, cfg.Redis.LockTTL)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
	// defaults fill the rest
	assert.Equal(t, DefaultFeePurpose, cfg.Lifecycle.DefaultFeePurpose)
	assert.Equal(t, DefaultMetricsPath, cfg.Metrics.Path)
}

func TestLoad_FromFile_FileNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoad_FromFile_InvalidYAML(t *testing.T) {
	_, err := Load(createTempConfigFile(t, "server: ["))
	assert.Error(t, err)
}

func TestLoad_FromFile_ValidationFailure(t *testing.T) {
	_, err := Load(createTempConfigFile(t, "log:\n  level: loud\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("KEYIP_SERVER_PORT", "9999")
	t.Setenv("KEYIP_LIFECYCLE_EXTERNAL_POC", "Consultant")

	cfg, err := Load(createTempConfigFile(t, validConfigYAML))
	require.NoError(t, err)
	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "Consultant", cfg.Lifecycle.ExternalPOC)
}

func TestLoadFromEnv_NoFile(t *testing.T) {
	t.Setenv("KEYIP_REDIS_ENABLED", "true")
	t.Setenv("KEYIP_REDIS_ADDR", "redis:6380")
	t.Setenv("KEYIP_KAFKA_BROKERS", "a:9092,b:9092")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "redis:6380", cfg.Redis.Addr)
	assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
}

func TestLoadOrDefault_EmptyPathUsesEnv(t *testing.T) {
	cfg, err := LoadOrDefault("")
	require.NoError(t, err)
	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
}

func TestMustLoad_PanicsOnMissingFile(t *testing.T) {
	assert.Panics(t, func() { MustLoad(filepath.Join(t.TempDir(), "nope.yaml")) })
}

func TestWatch_InvokesCallbackOnWrite(t *testing.T) {
	path := createTempConfigFile(t, validConfigYAML)

	changed := make(chan *Config, 1)
	require.NoError(t, Watch(path, func(c *Config) {
		// a truncate may surface as an intermediate empty file
		if c.Log.Level != "warn" {
			return
		}
		select {
		case changed <- c:
		default:
		}
	}, nil))

	updated := []byte("log:\n  level: warn\n")
	require.NoError(t, os.WriteFile(path, updated, 0o644))

	select {
	case cfg := <-changed:
		assert.Equal(t, "warn", cfg.Log.Level)
	case <-time.After(5 * time.Second):
		t.Fatal("config change was not observed")
	}
}

func TestWatch_MissingFile(t *testing.T) {
	err := Watch(filepath.Join(t.TempDir(), "missing.yaml"), func(*Config) {}, nil)
	assert.Error(t, err)
}

//Personal.AI order the ending
