// Package config defines all configuration structures for the KeyIP-Lifecycle
// service.  Loading lives in loader.go and defaults in defaults.go; this file
// holds only plain data types and validation.
package config

import (
	"fmt"
	"strings"
	"time"
)

// ─────────────────────────────────────────────────────────────────────────────
// Sub-configuration structs
// ─────────────────────────────────────────────────────────────────────────────

// ServerConfig holds HTTP server tunables.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxBodySize     int64         `mapstructure:"max_body_size"`
}

// Addr returns host:port for net/http.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LogConfig holds structured-logging parameters.
type LogConfig struct {
	Level       string   `mapstructure:"level"`  // "debug" | "info" | "warn" | "error"
	Format      string   `mapstructure:"format"` // "json" | "console"
	OutputPaths []string `mapstructure:"output_paths"`
}

// LifecycleConfig holds the patent lifecycle engine settings.
type LifecycleConfig struct {
	// TemplatesFile seeds the stage template registry.  Empty means the
	// built-in S1..S20 catalogue.
	TemplatesFile     string `mapstructure:"templates_file"`
	RefIDPrefix       string `mapstructure:"ref_id_prefix"`
	DefaultFeePurpose string `mapstructure:"default_fee_purpose"`
	// ExternalPOC is the point-of-contact literal attributed to the external
	// consultant role.
	ExternalPOC string `mapstructure:"external_poc"`
	Timezone    string `mapstructure:"timezone"`
}

// RedisConfig holds Redis connection and lock parameters.
type RedisConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	Mode           string        `mapstructure:"mode"` // "standalone" | "sentinel" | "cluster"
	Addr           string        `mapstructure:"addr"`
	Addrs          []string      `mapstructure:"addrs"`
	MasterName     string        `mapstructure:"master_name"`
	Password       string        `mapstructure:"password"`
	DB             int           `mapstructure:"db"`
	PoolSize       int           `mapstructure:"pool_size"`
	DialTimeout    time.Duration `mapstructure:"dial_timeout"`
	KeyPrefix      string        `mapstructure:"key_prefix"`
	LockTTL        time.Duration `mapstructure:"lock_ttl"`
	LockRetryCount int           `mapstructure:"lock_retry_count"`
	LockRetryDelay time.Duration `mapstructure:"lock_retry_delay"`
}

// KafkaConfig holds the lifecycle event producer parameters.
type KafkaConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Brokers      []string      `mapstructure:"brokers"`
	Topic        string        `mapstructure:"topic"`
	ClientID     string        `mapstructure:"client_id"`
	BatchSize    int           `mapstructure:"batch_size"`
	BatchTimeout time.Duration `mapstructure:"batch_timeout"`
	RequiredAcks int           `mapstructure:"required_acks"`
	MaxAttempts  int           `mapstructure:"max_attempts"`
	// GroupID is the consumer group used by `keyip events tail`.
	GroupID string `mapstructure:"group_id"`
}

// MetricsConfig holds Prometheus exposition parameters.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
	Path      string `mapstructure:"path"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Root Config
// ─────────────────────────────────────────────────────────────────────────────

// Config is the root configuration structure.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Lifecycle LifecycleConfig `mapstructure:"lifecycle"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Kafka     KafkaConfig     `mapstructure:"kafka"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Validation
// ─────────────────────────────────────────────────────────────────────────────

// Validate performs semantic validation of the fully-populated Config.
// It returns the first error encountered; callers should treat any error as
// fatal and refuse to start.
func (c *Config) Validate() error {
	// Server
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port %d is out of range [1, 65535]", c.Server.Port)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("config: server.shutdown_timeout must be positive")
	}

	// Log
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log.level %q is invalid; expected debug|info|warn|error", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: log.format %q is invalid; expected json|console", c.Log.Format)
	}

	// Lifecycle
	if strings.TrimSpace(c.Lifecycle.ExternalPOC) == "" {
		return fmt.Errorf("config: lifecycle.external_poc is required")
	}
	if strings.TrimSpace(c.Lifecycle.RefIDPrefix) == "" {
		return fmt.Errorf("config: lifecycle.ref_id_prefix is required")
	}
	if _, err := time.LoadLocation(c.Lifecycle.Timezone); err != nil {
		return fmt.Errorf("config: lifecycle.timezone %q is invalid: %w", c.Lifecycle.Timezone, err)
	}

	// Redis
	if c.Redis.Enabled {
		switch c.Redis.Mode {
		case "standalone":
			if c.Redis.Addr == "" {
				return fmt.Errorf("config: redis.addr is required in standalone mode")
			}
		case "sentinel":
			if c.Redis.MasterName == "" || len(c.Redis.Addrs) == 0 {
				return fmt.Errorf("config: redis.master_name and redis.addrs are required in sentinel mode")
			}
		case "cluster":
			if len(c.Redis.Addrs) == 0 {
				return fmt.Errorf("config: redis.addrs is required in cluster mode")
			}
		default:
			return fmt.Errorf("config: redis.mode %q is invalid; expected standalone|sentinel|cluster", c.Redis.Mode)
		}
		if c.Redis.DB < 0 {
			return fmt.Errorf("config: redis.db must be ≥ 0, got %d", c.Redis.DB)
		}
		if c.Redis.LockTTL <= 0 {
			return fmt.Errorf("config: redis.lock_ttl must be positive")
		}
	}

	// Kafka
	if c.Kafka.Enabled {
		if len(c.Kafka.Brokers) == 0 {
			return fmt.Errorf("config: kafka.brokers must contain at least one broker address")
		}
		if c.Kafka.Topic == "" {
			return fmt.Errorf("config: kafka.topic is required")
		}
		switch c.Kafka.RequiredAcks {
		case -1, 0, 1:
		default:
			return fmt.Errorf("config: kafka.required_acks %d is invalid; expected -1|0|1", c.Kafka.RequiredAcks)
		}
	}

	// Metrics
	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		return fmt.Errorf("config: metrics.path %q must start with /", c.Metrics.Path)
	}

	return nil
}

//Personal.AI order the ending
