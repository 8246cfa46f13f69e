package port

import (
	"context"

	"github.com/rl1809/car-rental/internal/core/domain"
)

type CarRepository interface {
	// FindCar returns an error wrapping domain.ErrNotFound when no car has the given id
	FindCar(ctx context.Context, id string) (domain.Car, error)
}
