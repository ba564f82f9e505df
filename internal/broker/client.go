// Package broker is a thin wrapper over Redis exposing exactly the three
// operations the connection handler and registry maintenance need. It is
// deliberately ignorant of Diameter — it moves hex strings and JSON blobs
// and nothing else.
package broker

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Config carries the redis.* section of the process config.
type Config struct {
	Host           string
	Port           int
	UseUnixSocket  bool
	UnixSocketPath string
}

// Client is one connection to the broker. A connection handler needs two
// independent instances (reader, writer) plus one more for the registry's
// snapshotter, because AwaitMessage blocks — New is cheap enough to call
// once per role.
type Client struct {
	rdb *redis.Client
	log *zap.SugaredLogger
}

// New dials (lazily — go-redis connects on first command) a broker client
// per cfg.
func New(cfg Config, log *zap.SugaredLogger) *Client {
	opts := &redis.Options{}
	if cfg.UseUnixSocket {
		opts.Network = "unix"
		opts.Addr = cfg.UnixSocketPath
	} else {
		opts.Network = "tcp"
		opts.Addr = fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	}
	return &Client{rdb: redis.NewClient(opts), log: log}
}

// newFromRedisClient wraps an existing *redis.Client, used by tests against
// miniredis where dialing is already done for us.
func newFromRedisClient(rdb *redis.Client, log *zap.SugaredLogger) *Client {
	return &Client{rdb: rdb, log: log}
}

// SendMessage appends message to queue and refreshes the queue's TTL to
// queueExpiry. Transient broker errors are logged and returned for the
// caller to retry on its next loop iteration — this method never retries
// internally.
func (c *Client) SendMessage(ctx context.Context, queue, message string, queueExpiry time.Duration) error {
	if err := c.rdb.RPush(ctx, queue, message).Err(); err != nil {
		c.log.Warnw("broker sendMessage failed", "queue", queue, "error", err)
		return err
	}
	if err := c.rdb.Expire(ctx, queue, queueExpiry).Err(); err != nil {
		c.log.Warnw("broker sendMessage expire failed", "queue", queue, "error", err)
		return err
	}
	return nil
}

// AwaitMessage blocks until a message is available on queue, or until ctx
// is cancelled — a true blocking pop, not a busy-loop.
func (c *Client) AwaitMessage(ctx context.Context, queue string) (string, string, error) {
	result, err := c.rdb.BLPop(ctx, 0, queue).Result()
	if err != nil {
		return "", "", err
	}
	if len(result) != 2 {
		return "", "", fmt.Errorf("broker: unexpected BLPOP reply shape: %v", result)
	}
	return result[0], result[1], nil
}

// SetValue writes key unconditionally with a TTL of keyExpiry.
func (c *Client) SetValue(ctx context.Context, key, value string, keyExpiry time.Duration) error {
	if err := c.rdb.Set(ctx, key, value, keyExpiry).Err(); err != nil {
		c.log.Warnw("broker setValue failed", "key", key, "error", err)
		return err
	}
	return nil
}

// Close releases the underlying connection pool.
func (c *Client) Close() error {
	return c.rdb.Close()
}
