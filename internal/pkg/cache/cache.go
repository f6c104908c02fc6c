// Package cache keeps optimization results in Redis, keyed by product and a
// fingerprint of the exact history and configuration they were computed from.
// A changed history produces a new key, so entries never need invalidation.
package cache

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/redis/go-redis/v9"

	"github.com/light-bringer/priceopt-service/internal/app/pricing/domain"
)

// RedisCache implements contracts.ResultCache.
type RedisCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewRedisCache wraps a connected client. A zero ttl keeps entries forever.
func NewRedisCache(client redis.Cmdable, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

// Connect parses url, dials and pings the server.
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	rc := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rc.Ping(pingCtx).Err(); err != nil {
		_ = rc.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return rc, nil
}

// Get decodes the cached JSON value into dst.
func (c *RedisCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	bs, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis get %s: %w", key, err)
	}
	if err := json.Unmarshal(bs, dst); err != nil {
		return false, fmt.Errorf("decode cached %s: %w", key, err)
	}
	return true, nil
}

// Set stores value as JSON.
func (c *RedisCache) Set(ctx context.Context, key string, value any) error {
	bs, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := c.client.Set(ctx, key, bs, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Key joins the key parts with ':'.
func Key(prefix, operation, productID, fingerprint string) string {
	parts := []string{operation, productID, fingerprint}
	if prefix != "" {
		parts = append([]string{prefix}, parts...)
	}
	return strings.Join(parts, ":")
}

// Fingerprint hashes every field the optimizer reads, in (year, month)
// order, together with the optimizer configuration.
func Fingerprint(history []domain.HistoryRecord, cfg domain.OptimizerConfig) string {
	d := xxhash.New()
	var buf [8]byte

	putInt := func(v int64) {
		binary.LittleEndian.PutUint64(buf[:], uint64(v))
		_, _ = d.Write(buf[:])
	}
	putFloat := func(v float64) {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
		_, _ = d.Write(buf[:])
	}

	putInt(int64(cfg.MinSamples))
	putInt(int64(cfg.GridSize))
	putFloat(cfg.PriceBand)
	putFloat(cfg.RidgeAlpha)
	putFloat(cfg.MaxCondition)

	for _, rec := range domain.SortedHistory(history) {
		putInt(int64(rec.Year))
		putInt(int64(rec.Month))
		putFloat(rec.UnitPrice)
		putFloat(rec.Quantity)
		putFloat(rec.FreightPrice)
		putInt(rec.Weekday)
		putInt(rec.Weekend)
		putInt(rec.Holiday)
		if rec.LagPrice != nil {
			putInt(1)
			putFloat(*rec.LagPrice)
		} else {
			putInt(0)
		}
		putInt(int64(len(rec.Competitors)))
		for _, q := range rec.Competitors {
			putFloat(q.Price)
			putFloat(q.Score)
		}
	}
	return strconv.FormatUint(d.Sum64(), 16)
}
