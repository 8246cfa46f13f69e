package port

import (
	"context"

	"github.com/rl1809/car-rental/internal/core/domain"
)

type CarCache interface {
	// GetCar reports a miss as (zero, false, nil)
	GetCar(ctx context.Context, id string) (domain.Car, bool, error)

	// SetCar stores a car under its id, replacing any previous entry
	SetCar(ctx context.Context, car domain.Car) error
}
