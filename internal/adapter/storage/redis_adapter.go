package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rl1809/car-rental/internal/core/domain"
)

const (
	carKeyPrefix  = "car:"
	defaultCarTTL = 10 * time.Minute
)

type RedisAdapter struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisAdapter(client *redis.Client, ttl time.Duration) *RedisAdapter {
	if ttl <= 0 {
		ttl = defaultCarTTL
	}
	return &RedisAdapter{client: client, ttl: ttl}
}

func (r *RedisAdapter) GetCar(ctx context.Context, id string) (domain.Car, bool, error) {
	b, err := r.client.Get(ctx, carKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Car{}, false, nil
	}
	if err != nil {
		return domain.Car{}, false, err
	}

	var car domain.Car
	if err := json.Unmarshal(b, &car); err != nil {
		return domain.Car{}, false, fmt.Errorf("decode cached car %s: %w", id, err)
	}
	return car, true, nil
}

func (r *RedisAdapter) SetCar(ctx context.Context, car domain.Car) error {
	b, err := json.Marshal(car)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, carKeyPrefix+car.ID, b, r.ttl).Err()
}
