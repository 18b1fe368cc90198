// Package redis wraps go-redis for the lifecycle service.  Redis holds no
// patent data; it only coordinates writers across API server replicas.
package redis

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/turtacn/KeyIP-Lifecycle/internal/config"
	"github.com/turtacn/KeyIP-Lifecycle/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/KeyIP-Lifecycle/pkg/errors"
)

var (
	ErrClientClosed     = errors.New(errors.ErrCodeInternal, "redis client is closed")
	ErrConnectionFailed = errors.New(errors.ErrCodeServiceUnavailable, "redis connection failed")
)

// pingTimeout bounds the connectivity check in NewClient.
const pingTimeout = 5 * time.Second

// Client is a closable handle on a standalone, sentinel or cluster
// deployment.
type Client struct {
	rdb       redis.UniversalClient
	keyPrefix string
	logger    logging.Logger

	mu     sync.RWMutex
	closed bool
}

// NewClient connects according to cfg and verifies the connection with a
// PING.
func NewClient(cfg config.RedisConfig, log logging.Logger) (*Client, error) {
	if log == nil {
		log = logging.NewNopLogger()
	}
	log = log.Named("redis")

	rdb, err := newUniversalClient(cfg)
	if err != nil {
		return nil, err
	}
	c := &Client{rdb: rdb, keyPrefix: cfg.KeyPrefix, logger: log}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, ErrConnectionFailed.WithCause(err).WithDetail("mode=" + cfg.Mode)
	}

	log.Info("redis client connected",
		logging.String("mode", cfg.Mode),
		logging.String("addr", strings.Join(addrs(cfg), ",")),
	)
	return c, nil
}

// NewClientFromUniversal wraps an existing go-redis client.
func NewClientFromUniversal(rdb redis.UniversalClient, keyPrefix string, log logging.Logger) *Client {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Client{rdb: rdb, keyPrefix: keyPrefix, logger: log.Named("redis")}
}

func newUniversalClient(cfg config.RedisConfig) (redis.UniversalClient, error) {
	switch cfg.Mode {
	case "cluster":
		return redis.NewClusterClient(&redis.ClusterOptions{
			Addrs:       cfg.Addrs,
			Password:    cfg.Password,
			PoolSize:    cfg.PoolSize,
			DialTimeout: cfg.DialTimeout,
		}), nil
	case "sentinel":
		return redis.NewFailoverClient(&redis.FailoverOptions{
			MasterName:    cfg.MasterName,
			SentinelAddrs: cfg.Addrs,
			Password:      cfg.Password,
			DB:            cfg.DB,
			PoolSize:      cfg.PoolSize,
			DialTimeout:   cfg.DialTimeout,
		}), nil
	case "", "standalone":
		return redis.NewClient(&redis.Options{
			Addr:        cfg.Addr,
			Password:    cfg.Password,
			DB:          cfg.DB,
			PoolSize:    cfg.PoolSize,
			DialTimeout: cfg.DialTimeout,
		}), nil
	default:
		return nil, errors.InvalidParam("invalid redis mode").WithDetail("mode=" + cfg.Mode)
	}
}

func addrs(cfg config.RedisConfig) []string {
	if len(cfg.Addrs) > 0 {
		return cfg.Addrs
	}
	return []string{cfg.Addr}
}

// Key prefixes name with the configured namespace.
func (c *Client) Key(parts ...string) string {
	return c.keyPrefix + strings.Join(parts, ":")
}

// Ping checks connectivity; it backs the readiness check.
func (c *Client) Ping(ctx context.Context) error {
	if c.isClosed() {
		return ErrClientClosed
	}
	if err := c.rdb.Ping(ctx).Err(); err != nil {
		return errors.Wrap(err, errors.ErrCodeServiceUnavailable, "redis ping failed")
	}
	return nil
}

// Close releases the connection pool.  It is safe to call more than once.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	if err := c.rdb.Close(); err != nil {
		c.logger.Error("close redis client failed", logging.Err(err))
		return err
	}
	c.logger.Info("redis client closed")
	return nil
}

// Underlying exposes the go-redis client.
func (c *Client) Underlying() redis.UniversalClient { return c.rdb }

func (c *Client) isClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

//Personal.AI order the ending
