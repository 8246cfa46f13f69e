package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rl1809/car-rental/internal/core/domain"
)

// SQLAdapter reads the car catalog from MySQL or SQLite. Statements stick to
// the dialect both drivers accept.
type SQLAdapter struct {
	db *sql.DB
}

func NewSQLAdapter(db *sql.DB) *SQLAdapter {
	return &SQLAdapter{db: db}
}

func (m *SQLAdapter) Migrate(ctx context.Context) error {
	_, err := m.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS cars (
			id VARCHAR(64) PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			release_year INTEGER NOT NULL,
			available BOOLEAN NOT NULL,
			gas_available BOOLEAN NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("create cars table: %w", err)
	}
	return nil
}

// ImportCars replaces the rows of the given cars in a single transaction.
func (m *SQLAdapter) ImportCars(ctx context.Context, cars []domain.Car) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, car := range cars {
		if _, err := tx.ExecContext(ctx, `DELETE FROM cars WHERE id = ?`, car.ID); err != nil {
			return fmt.Errorf("delete car %s: %w", car.ID, err)
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO cars (id, name, release_year, available, gas_available)
			VALUES (?, ?, ?, ?, ?)`,
			car.ID, car.Name, car.ReleaseYear, car.Available, car.GasAvailable,
		)
		if err != nil {
			return fmt.Errorf("insert car %s: %w", car.ID, err)
		}
	}

	return tx.Commit()
}

func (m *SQLAdapter) FindCar(ctx context.Context, id string) (domain.Car, error) {
	var car domain.Car
	err := m.db.QueryRowContext(ctx, `
		SELECT id, name, release_year, available, gas_available
		FROM cars WHERE id = ?`, id,
	).Scan(&car.ID, &car.Name, &car.ReleaseYear, &car.Available, &car.GasAvailable)

	if errors.Is(err, sql.ErrNoRows) {
		return domain.Car{}, fmt.Errorf("car %q: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return domain.Car{}, fmt.Errorf("query car: %w", err)
	}

	return car, nil
}
