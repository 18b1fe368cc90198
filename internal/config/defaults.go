package config

import "time"

// ─────────────────────────────────────────────────────────────────────────────
// Default value constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	DefaultServerHost            = "0.0.0.0"
	DefaultServerPort            = 8080
	DefaultServerReadTimeout     = 15 * time.Second
	DefaultServerWriteTimeout    = 15 * time.Second
	DefaultServerIdleTimeout     = 60 * time.Second
	DefaultServerShutdownTimeout = 10 * time.Second
	DefaultServerMaxBodySize     = 1 << 20

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultRefIDPrefix       = "NT-IP"
	DefaultFeePurpose        = "Govt. Fees"
	DefaultExternalPOC       = "Arctic"
	DefaultLifecycleTimezone = "UTC"

	DefaultRedisMode           = "standalone"
	DefaultRedisAddr           = "localhost:6379"
	DefaultRedisPoolSize       = 10
	DefaultRedisDialTimeout    = 5 * time.Second
	DefaultRedisKeyPrefix      = "keyip:lifecycle:"
	DefaultRedisLockTTL        = 10 * time.Second
	DefaultRedisLockRetryCount = 5
	DefaultRedisLockRetryDelay = 100 * time.Millisecond

	DefaultKafkaBroker       = "localhost:9092"
	DefaultKafkaTopic        = "keyip.lifecycle.events"
	DefaultKafkaClientID     = "keyip-lifecycle"
	DefaultKafkaBatchSize    = 100
	DefaultKafkaBatchTimeout = 50 * time.Millisecond
	DefaultKafkaRequiredAcks = -1
	DefaultKafkaMaxAttempts  = 3
	DefaultKafkaGroupID      = "keyip-lifecycle-tail"

	DefaultMetricsNamespace = "keyip"
	DefaultMetricsPath      = "/metrics"
)

// ApplyDefaults fills every zero-value field in cfg with the service default.
// Fields already set by the caller are left unchanged so that explicit
// configuration always wins.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	// ── Server ────────────────────────────────────────────────────────────────
	if cfg.Server.Host == "" {
		cfg.Server.Host = DefaultServerHost
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultServerReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultServerWriteTimeout
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = DefaultServerIdleTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultServerShutdownTimeout
	}
	if cfg.Server.MaxBodySize == 0 {
		cfg.Server.MaxBodySize = DefaultServerMaxBodySize
	}

	// ── Log ───────────────────────────────────────────────────────────────────
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}

	// ── Lifecycle ─────────────────────────────────────────────────────────────
	if cfg.Lifecycle.RefIDPrefix == "" {
		cfg.Lifecycle.RefIDPrefix = DefaultRefIDPrefix
	}
	if cfg.Lifecycle.DefaultFeePurpose == "" {
		cfg.Lifecycle.DefaultFeePurpose = DefaultFeePurpose
	}
	if cfg.Lifecycle.ExternalPOC == "" {
		cfg.Lifecycle.ExternalPOC = DefaultExternalPOC
	}
	if cfg.Lifecycle.Timezone == "" {
		cfg.Lifecycle.Timezone = DefaultLifecycleTimezone
	}

	// ── Redis ─────────────────────────────────────────────────────────────────
	if cfg.Redis.Mode == "" {
		cfg.Redis.Mode = DefaultRedisMode
	}
	if cfg.Redis.Addr == "" && cfg.Redis.Mode == DefaultRedisMode {
		cfg.Redis.Addr = DefaultRedisAddr
	}
	if cfg.Redis.PoolSize == 0 {
		cfg.Redis.PoolSize = DefaultRedisPoolSize
	}
	if cfg.Redis.DialTimeout == 0 {
		cfg.Redis.DialTimeout = DefaultRedisDialTimeout
	}
	if cfg.Redis.KeyPrefix == "" {
		cfg.Redis.KeyPrefix = DefaultRedisKeyPrefix
	}
	if cfg.Redis.LockTTL == 0 {
		cfg.Redis.LockTTL = DefaultRedisLockTTL
	}
	if cfg.Redis.LockRetryCount == 0 {
		cfg.Redis.LockRetryCount = DefaultRedisLockRetryCount
	}
	if cfg.Redis.LockRetryDelay == 0 {
		cfg.Redis.LockRetryDelay = DefaultRedisLockRetryDelay
	}

	// ── Kafka ─────────────────────────────────────────────────────────────────
	if len(cfg.Kafka.Brokers) == 0 {
		cfg.Kafka.Brokers = []string{DefaultKafkaBroker}
	}
	if cfg.Kafka.Topic == "" {
		cfg.Kafka.Topic = DefaultKafkaTopic
	}
	if cfg.Kafka.ClientID == "" {
		cfg.Kafka.ClientID = DefaultKafkaClientID
	}
	if cfg.Kafka.BatchSize == 0 {
		cfg.Kafka.BatchSize = DefaultKafkaBatchSize
	}
	if cfg.Kafka.BatchTimeout == 0 {
		cfg.Kafka.BatchTimeout = DefaultKafkaBatchTimeout
	}
	if cfg.Kafka.RequiredAcks == 0 {
		cfg.Kafka.RequiredAcks = DefaultKafkaRequiredAcks
	}
	if cfg.Kafka.MaxAttempts == 0 {
		cfg.Kafka.MaxAttempts = DefaultKafkaMaxAttempts
	}
	if cfg.Kafka.GroupID == "" {
		cfg.Kafka.GroupID = DefaultKafkaGroupID
	}

	// ── Metrics ───────────────────────────────────────────────────────────────
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = DefaultMetricsPath
	}
}

//Personal.AI order the ending
