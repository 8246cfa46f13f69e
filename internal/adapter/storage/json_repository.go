package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rl1809/car-rental/internal/core/domain"
)

// JSONRepository serves cars from a flat JSON document loaded once.
// It is never written after construction, so concurrent reads need no lock.
type JSONRepository struct {
	cars []domain.Car
	byID map[string]domain.Car
}

func NewJSONRepository(path string) (*JSONRepository, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read cars file: %w", err)
	}

	var cars []domain.Car
	if err := json.Unmarshal(b, &cars); err != nil {
		return nil, fmt.Errorf("decode cars file %s: %w", path, err)
	}

	return NewJSONRepositoryFromCars(cars), nil
}

func NewJSONRepositoryFromCars(cars []domain.Car) *JSONRepository {
	r := &JSONRepository{
		cars: make([]domain.Car, len(cars)),
		byID: make(map[string]domain.Car, len(cars)),
	}
	copy(r.cars, cars)
	for _, c := range cars {
		// first record wins on duplicate ids, like a linear scan would
		if _, ok := r.byID[c.ID]; !ok {
			r.byID[c.ID] = c
		}
	}
	return r
}

func (r *JSONRepository) FindCar(ctx context.Context, id string) (domain.Car, error) {
	car, ok := r.byID[id]
	if !ok {
		return domain.Car{}, fmt.Errorf("car %q: %w", id, domain.ErrNotFound)
	}
	return car, nil
}

// Cars returns a copy of the loaded dataset.
func (r *JSONRepository) Cars() []domain.Car {
	out := make([]domain.Car, len(r.cars))
	copy(out, r.cars)
	return out
}
