package config

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// envPrefix is the environment variable prefix used by all service settings.
const envPrefix = "KEYIP"

// envKeys lists every leaf key so that KEYIP_* overrides are honoured by
// Unmarshal even when the key is absent from the config file.
var envKeys = []string{
	"server.host", "server.port", "server.read_timeout", "server.write_timeout",
	"server.idle_timeout", "server.shutdown_timeout", "server.max_body_size",
	"log.level", "log.format", "log.output_paths",
	"lifecycle.templates_file", "lifecycle.ref_id_prefix", "lifecycle.default_fee_purpose",
	"lifecycle.external_poc", "lifecycle.timezone",
	"redis.enabled", "redis.mode", "redis.addr", "redis.addrs", "redis.master_name",
	"redis.password", "redis.db", "redis.pool_size", "redis.dial_timeout", "redis.key_prefix",
	"redis.lock_ttl", "redis.lock_retry_count", "redis.lock_retry_delay",
	"kafka.enabled", "kafka.brokers", "kafka.topic", "kafka.client_id", "kafka.batch_size",
	"kafka.batch_timeout", "kafka.required_acks", "kafka.max_attempts", "kafka.group_id",
	"metrics.enabled", "metrics.namespace", "metrics.path",
}

// newViper builds a pre-configured Viper instance: YAML file type, KEYIP_ env
// prefix, automatic env binding, and a key replacer that maps "." → "_" so
// that nested keys like "redis.addr" resolve to "KEYIP_REDIS_ADDR".
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, k := range envKeys {
		_ = v.BindEnv(k)
	}
	return v
}

// Load reads the YAML file at configPath, merges any KEYIP_* environment
// variable overrides, applies defaults for unset fields, and validates the
// result.
func Load(configPath string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: failed to read config file %q: %w", configPath, err)
	}

	return unmarshalAndFinalize(v)
}

// LoadFromEnv builds a Config entirely from KEYIP_* environment variables and
// defaults, with no config file required.
//
//	KEYIP_<SECTION>_<FIELD>   e.g.  KEYIP_SERVER_PORT, KEYIP_REDIS_ADDR
func LoadFromEnv() (*Config, error) {
	return unmarshalAndFinalize(newViper())
}

// LoadOrDefault loads configPath when non-empty and falls back to LoadFromEnv.
func LoadOrDefault(configPath string) (*Config, error) {
	if configPath == "" {
		return LoadFromEnv()
	}
	return Load(configPath)
}

func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal configuration: %w", err)
	}

	ApplyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}

	return cfg, nil
}

// Watch monitors configPath and invokes onChange with the newly parsed Config
// whenever the file is written.  Only the log level is meant to be applied at
// runtime; the rest of the Config is informational for the callback.
//
// Invalid intermediate states are reported through onError (may be nil) and
// never reach onChange.
func Watch(configPath string, onChange func(*Config), onError func(error)) error {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("config: failed to read config file %q: %w", configPath, err)
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		cfg, err := unmarshalAndFinalize(v)
		if err != nil {
			if onError != nil {
				onError(err)
			}
			return
		}
		onChange(cfg)
	})
	v.WatchConfig()
	return nil
}

// MustLoad is a convenience wrapper around Load that panics on any error.
func MustLoad(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		panic(fmt.Sprintf("config: MustLoad failed: %v", err))
	}
	return cfg
}

//Personal.AI order the ending
