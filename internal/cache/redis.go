package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/carrental/config"
	"github.com/Domenick1991/carrental/internal/domain"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseLock deletes the lock key only while it still holds the caller's token.
var releaseLock = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type RedisCache struct {
	client   *redis.Client
	carsTTL  time.Duration
	newToken func() string
}

func NewRedisCache(cfg config.RedisConfig, carsTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:   redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		carsTTL:  carsTTL,
		newToken: uuid.NewString,
	}
}

// GetCars returns nil, nil on a cache miss.
func (c *RedisCache) GetCars(ctx context.Context) ([]domain.Car, error) {
	data, err := c.client.Get(ctx, carsKey()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var cars []domain.Car
	if err := json.Unmarshal(data, &cars); err != nil {
		return nil, err
	}
	return cars, nil
}

func (c *RedisCache) SetCars(ctx context.Context, cars []domain.Car) error {
	payload, err := json.Marshal(cars)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, carsKey(), payload, c.carsTTL).Err()
}

func (c *RedisCache) InvalidateCars(ctx context.Context) error {
	return c.client.Del(ctx, carsKey()).Err()
}

// AcquireCarLock takes the short booking lock for a car and returns the
// holder's token. The lock only narrows the race window; the database
// transaction is the real guard.
func (c *RedisCache) AcquireCarLock(ctx context.Context, carID int64, ttl time.Duration) (string, bool, error) {
	token := c.newToken()
	ok, err := c.client.SetNX(ctx, carLockKey(carID), token, ttl).Result()
	if err != nil || !ok {
		return "", false, err
	}
	return token, true, nil
}

// ReleaseCarLock is a no-op when the lock expired and was taken by someone else.
func (c *RedisCache) ReleaseCarLock(ctx context.Context, carID int64, token string) error {
	return releaseLock.Run(ctx, c.client, []string{carLockKey(carID)}, token).Err()
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

func carsKey() string {
	return "cache:cars"
}

func carLockKey(carID int64) string {
	return fmt.Sprintf("lock:car:%d:booking", carID)
}
