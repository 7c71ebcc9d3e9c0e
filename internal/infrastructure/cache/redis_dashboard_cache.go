// Package cache adaptadores de caché sobre Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/odonto-api/internal/application/dto"
	"github.com/jhoicas/odonto-api/internal/application/ports"
)

var _ ports.DashboardCache = (*RedisDashboardCache)(nil)

// RedisDashboardCache guarda las métricas del dashboard serializadas en JSON.
type RedisDashboardCache struct {
	rdb redis.Cmdable
}

// NewRedisDashboardCache construye el adaptador. Acepta *redis.Client o un pipeline.
func NewRedisDashboardCache(rdb redis.Cmdable) *RedisDashboardCache {
	return &RedisDashboardCache{rdb: rdb}
}

// Get devuelve (nil, nil) si la clave no existe.
func (c *RedisDashboardCache) Get(ctx context.Context, key string) (*dto.DashboardMetrics, error) {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	var m dto.DashboardMetrics
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("decode dashboard cache: %w", err)
	}
	return &m, nil
}

// Set guarda las métricas con expiración ttl.
func (c *RedisDashboardCache) Set(ctx context.Context, key string, m *dto.DashboardMetrics, ttl time.Duration) error {
	raw, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode dashboard cache: %w", err)
	}
	if err := c.rdb.Set(ctx, key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// NewClient abre el cliente y verifica la conexión con PING.
func NewClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}
