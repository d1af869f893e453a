package storage

import (
	"context"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// Redis stores the latest rendering under <prefix><name> and keeps a bounded
// history list under <prefix><name>:history.
type Redis struct {
	rdb     *redis.Client
	prefix  string
	history int64
	timeout time.Duration
	name    string
}

// NewRedis creates a Redis backend. history is the number of past renderings
// kept per name; zero disables the history list.
func NewRedis(rdb *redis.Client, prefix string, history int, timeout time.Duration) *Redis {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Redis{
		rdb:     rdb,
		prefix:  prefix,
		history: int64(history),
		timeout: timeout,
		name:    DefaultName,
	}
}

// Scope returns a view saving under name on the same client.
func (r *Redis) Scope(name string) Storage {
	c := *r
	c.name = name
	return &c
}

// Key returns the key holding the latest rendering for name.
func (r *Redis) Key(name string) string {
	return r.prefix + name
}

func (r *Redis) historyKey(name string) string {
	return r.Key(name) + ":history"
}

// Save writes data in a single transaction.
func (r *Redis) Save(data string) error {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	tx := r.rdb.TxPipeline()
	tx.Set(ctx, r.Key(r.name), data, 0)
	if r.history > 0 {
		tx.LPush(ctx, r.historyKey(r.name), data)
		tx.LTrim(ctx, r.historyKey(r.name), 0, r.history-1)
	}
	if _, err := tx.Exec(ctx); err != nil {
		return fmt.Errorf("storage: redis save %s: %w", r.name, err)
	}
	return nil
}

// Latest returns the current rendering stored for name.
func (r *Redis) Latest(ctx context.Context, name string) (string, error) {
	v, err := r.rdb.Get(ctx, r.Key(name)).Result()
	if err != nil {
		return "", fmt.Errorf("storage: redis get %s: %w", name, err)
	}
	return v, nil
}

// Close closes the client. Scoped views share it.
func (r *Redis) Close() error {
	return r.rdb.Close()
}
