package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/frankmutethia/Aurora-sub000/config"
	"github.com/frankmutethia/Aurora-sub000/internal/domain"
	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	client   *redis.Client
	fleetTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, fleetTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:   redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		fleetTTL: fleetTTL,
	}
}

// GetFleet returns the cached fleet snapshot, or (nil, nil) on a miss.
func (c *RedisCache) GetFleet(ctx context.Context) ([]domain.Vehicle, error) {
	data, err := c.client.Get(ctx, fleetKey()).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var vehicles []domain.Vehicle
	if err := json.Unmarshal(data, &vehicles); err != nil {
		return nil, err
	}
	return vehicles, nil
}

func (c *RedisCache) SetFleet(ctx context.Context, vehicles []domain.Vehicle) error {
	payload, err := json.Marshal(vehicles)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, fleetKey(), payload, c.fleetTTL).Err()
}

func (c *RedisCache) InvalidateFleet(ctx context.Context) error {
	return c.client.Del(ctx, fleetKey()).Err()
}

// AcquireVehicleLock serializes concurrent booking attempts on one vehicle.
func (c *RedisCache) AcquireVehicleLock(ctx context.Context, vehicleID string, ttl time.Duration) (bool, error) {
	return c.client.SetNX(ctx, vehicleLockKey(vehicleID), "locked", ttl).Result()
}

func (c *RedisCache) ReleaseVehicleLock(ctx context.Context, vehicleID string) error {
	return c.client.Del(ctx, vehicleLockKey(vehicleID)).Err()
}

func fleetKey() string {
	return "cache:fleet"
}

func vehicleLockKey(vehicleID string) string {
	return fmt.Sprintf("lock:vehicle:%s", vehicleID)
}
