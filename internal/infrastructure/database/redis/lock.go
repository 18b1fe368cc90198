package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/turtacn/KeyIP-Lifecycle/internal/config"
	"github.com/turtacn/KeyIP-Lifecycle/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/KeyIP-Lifecycle/pkg/errors"
)

var (
	ErrLockNotAcquired = errors.New(errors.ErrCodeLockNotAcquired, "patent is locked by another writer")
	ErrLockNotHeld     = errors.New(errors.ErrCodeConflict, "lock not held by this owner")
)

// Mutex is a single-owner lock with a TTL.
type Mutex interface {
	Lock(ctx context.Context) error
	TryLock(ctx context.Context) (bool, error)
	Unlock(ctx context.Context) error
	Extend(ctx context.Context, ttl time.Duration) (bool, error)
}

// LockOption configures a Mutex.
type LockOption func(*lockConfig)

// WithLockTTL sets how long a lock survives a crashed owner.
func WithLockTTL(ttl time.Duration) LockOption {
	return func(c *lockConfig) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithRetry sets how often and how far apart Lock retries a held lock.
func WithRetry(count int, delay time.Duration) LockOption {
	return func(c *lockConfig) {
		if count > 0 {
			c.retryCount = count
		}
		if delay > 0 {
			c.retryDelay = delay
		}
	}
}

type lockConfig struct {
	ttl        time.Duration
	retryCount int
	retryDelay time.Duration
}

func defaultLockConfig() lockConfig {
	return lockConfig{
		ttl:        config.DefaultRedisLockTTL,
		retryCount: config.DefaultRedisLockRetryCount,
		retryDelay: config.DefaultRedisLockRetryDelay,
	}
}

// LockFactory creates mutexes under the client's key prefix.
type LockFactory struct {
	client *Client
	opts   []LockOption
	logger logging.Logger
}

// NewLockFactory returns a factory whose mutexes share opts.
func NewLockFactory(client *Client, log logging.Logger, opts ...LockOption) *LockFactory {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &LockFactory{client: client, opts: opts, logger: log.Named("lock")}
}

// NewMutex returns an unlocked mutex for name.
func (f *LockFactory) NewMutex(name string, opts ...LockOption) Mutex {
	cfg := defaultLockConfig()
	for _, opt := range append(append([]LockOption{}, f.opts...), opts...) {
		opt(&cfg)
	}
	return &redisMutex{
		client: f.client,
		key:    f.client.Key("lock", name),
		value:  uuid.NewString(),
		config: cfg,
	}
}

type redisMutex struct {
	client *Client
	key    string
	value  string
	config lockConfig
}

// Deletes or extends the key only while it still holds this owner's token.
var (
	unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)
	extendScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0
`)
)

func (m *redisMutex) TryLock(ctx context.Context) (bool, error) {
	if m.client.isClosed() {
		return false, ErrClientClosed
	}
	ok, err := m.client.rdb.SetNX(ctx, m.key, m.value, m.config.ttl).Result()
	if err != nil {
		return false, errors.Wrap(err, errors.ErrCodeCacheError, "set lock key")
	}
	return ok, nil
}

func (m *redisMutex) Lock(ctx context.Context) error {
	for attempt := 0; ; attempt++ {
		ok, err := m.TryLock(ctx)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		if attempt >= m.config.retryCount {
			return ErrLockNotAcquired.WithDetail(fmt.Sprintf("key=%s attempts=%d", m.key, attempt+1))
		}
		timer := time.NewTimer(m.config.retryDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

func (m *redisMutex) Unlock(ctx context.Context) error {
	n, err := unlockScript.Run(ctx, m.client.rdb, []string{m.key}, m.value).Int64()
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheError, "release lock key")
	}
	if n == 0 {
		return ErrLockNotHeld.WithDetail("key=" + m.key)
	}
	return nil
}

func (m *redisMutex) Extend(ctx context.Context, ttl time.Duration) (bool, error) {
	n, err := extendScript.Run(ctx, m.client.rdb, []string{m.key}, m.value, ttl.Milliseconds()).Int64()
	if err != nil {
		return false, errors.Wrap(err, errors.ErrCodeCacheError, "extend lock key")
	}
	return n == 1, nil
}

// PatentLocker serializes stage updates of one patent across processes.
type PatentLocker struct {
	factory *LockFactory
}

// NewPatentLocker builds a locker with the TTL and retry policy from cfg.
func NewPatentLocker(client *Client, cfg config.RedisConfig, log logging.Logger) *PatentLocker {
	return &PatentLocker{factory: NewLockFactory(client, log,
		WithLockTTL(cfg.LockTTL),
		WithRetry(cfg.LockRetryCount, cfg.LockRetryDelay),
	)}
}

// Acquire blocks until the patent's lock is held or retries run out.
func (l *PatentLocker) Acquire(ctx context.Context, patentID string) (func(context.Context) error, error) {
	m := l.factory.NewMutex("patent:" + patentID)
	if err := m.Lock(ctx); err != nil {
		return nil, err
	}
	l.factory.logger.Debug("patent lock acquired", logging.String(logging.FieldPatentID, patentID))
	return m.Unlock, nil
}

//Personal.AI order the ending
