package overridestore

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/katalvlaran/gramwalk/override"
)

// Redis is a Store keeping the encoded entries in one Redis list.
type Redis struct {
	rdb *redis.Client
	key string
}

// NewRedis wraps an existing client. Close closes the client.
func NewRedis(rdb *redis.Client, key string) *Redis {
	return &Redis{rdb: rdb, key: key}
}

// DialRedis connects to addr and verifies the connection with a PING.
func DialRedis(ctx context.Context, addr string, db int, key string) (*Redis, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr, DB: db})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("overridestore: redis ping %s: %w", addr, err)
	}

	return NewRedis(rdb, key), nil
}

// Save implements Store. The list is replaced inside MULTI/EXEC.
func (r *Redis) Save(ctx context.Context, entries []override.Entry) error {
	lines := make([]any, len(entries))
	for i, e := range entries {
		lines[i] = override.EncodeEntry(e)
	}
	_, err := r.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Del(ctx, r.key)
		if len(lines) > 0 {
			p.RPush(ctx, r.key, lines...)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("overridestore: redis save %s: %w", r.key, err)
	}

	return nil
}

// Load implements Store. A missing key yields no entries.
func (r *Redis) Load(ctx context.Context) ([]override.Entry, error) {
	lines, err := r.rdb.LRange(ctx, r.key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("overridestore: redis load %s: %w", r.key, err)
	}
	entries := make([]override.Entry, 0, len(lines))
	for _, line := range lines {
		e, err := override.DecodeEntry(line)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	return entries, nil
}

// Close implements Store.
func (r *Redis) Close() error {
	return r.rdb.Close()
}
