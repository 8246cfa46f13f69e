package storage

import (
	"context"
	"log/slog"

	"github.com/rl1809/car-rental/internal/core/domain"
	"github.com/rl1809/car-rental/internal/port"
)

// CachedRepository reads through cache before hitting the primary catalog.
// Cache failures degrade to a primary read; they never fail a lookup.
type CachedRepository struct {
	primary port.CarRepository
	cache   port.CarCache
	log     *slog.Logger
}

func NewCachedRepository(primary port.CarRepository, cache port.CarCache, log *slog.Logger) *CachedRepository {
	if log == nil {
		log = slog.Default()
	}
	return &CachedRepository{primary: primary, cache: cache, log: log}
}

func (c *CachedRepository) FindCar(ctx context.Context, id string) (domain.Car, error) {
	car, ok, err := c.cache.GetCar(ctx, id)
	if err != nil {
		c.log.Warn("car cache get failed", "car_id", id, "err", err)
	} else if ok {
		return car, nil
	}

	car, err = c.primary.FindCar(ctx, id)
	if err != nil {
		return domain.Car{}, err
	}

	if err := c.cache.SetCar(ctx, car); err != nil {
		c.log.Warn("car cache set failed", "car_id", id, "err", err)
	}

	return car, nil
}
