package service

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rl1809/car-rental/internal/core/domain"
	"github.com/rl1809/car-rental/internal/core/locale"
	"github.com/rl1809/car-rental/internal/port"
)

// IndexPicker returns an index in [0, n). n is always positive.
type IndexPicker interface {
	Pick(n int) int
}

type IndexPickerFunc func(n int) int

func (f IndexPickerFunc) Pick(n int) int { return f(n) }

// UniformPicker draws from the runtime's concurrency-safe generator.
var UniformPicker IndexPicker = IndexPickerFunc(rand.IntN)

type RentalService struct {
	cars      port.CarRepository
	picker    IndexPicker
	now       func() time.Time
	taxes     domain.TaxTable
	formatter *locale.Formatter
}

type Option func(*RentalService)

func WithPicker(p IndexPicker) Option {
	return func(s *RentalService) { s.picker = p }
}

func WithClock(now func() time.Time) Option {
	return func(s *RentalService) { s.now = now }
}

func WithTaxTable(t domain.TaxTable) Option {
	return func(s *RentalService) { s.taxes = t }
}

func WithFormatter(f *locale.Formatter) Option {
	return func(s *RentalService) { s.formatter = f }
}

func NewRentalService(cars port.CarRepository, opts ...Option) *RentalService {
	s := &RentalService{
		cars:      cars,
		picker:    UniformPicker,
		now:       time.Now,
		taxes:     domain.DefaultTaxTable,
		formatter: locale.BrazilianReal(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RentalService) SelectCar(category domain.CarCategory) (string, error) {
	n := len(category.CarIDs)
	if n == 0 {
		return "", fmt.Errorf("%w: category %q has no candidate cars", domain.ErrInvalidInput, category.ID)
	}
	if n == 1 {
		return category.CarIDs[0], nil
	}
	return category.CarIDs[s.picker.Pick(n)], nil
}

func (s *RentalService) GetAvailableCar(ctx context.Context, category domain.CarCategory) (domain.Car, error) {
	carID, err := s.SelectCar(category)
	if err != nil {
		return domain.Car{}, err
	}

	car, err := s.cars.FindCar(ctx, carID)
	if err != nil {
		return domain.Car{}, fmt.Errorf("find car %s: %w", carID, err)
	}

	return car, nil
}

func (s *RentalService) CalculateFinalPrice(req domain.RentalRequest) (string, error) {
	bracket, err := s.validate(req)
	if err != nil {
		return "", err
	}
	return s.price(req, bracket), nil
}

// Rent validates the request before any catalog lookup.
func (s *RentalService) Rent(ctx context.Context, req domain.RentalRequest) (domain.Transaction, error) {
	bracket, err := s.validate(req)
	if err != nil {
		return domain.Transaction{}, err
	}

	car, err := s.GetAvailableCar(ctx, req.CarCategory)
	if err != nil {
		return domain.Transaction{}, err
	}

	dueDate := s.now().AddDate(0, 0, req.NumberOfDays)

	return domain.Transaction{
		Customer: req.Customer,
		Car:      car,
		Amount:   s.price(req, bracket),
		DueDate:  s.formatter.LongDate(dueDate),
	}, nil
}

func (s *RentalService) validate(req domain.RentalRequest) (domain.TaxBracket, error) {
	if req.NumberOfDays <= 0 {
		return domain.TaxBracket{}, fmt.Errorf("%w: numberOfDays must be positive, got %d", domain.ErrInvalidInput, req.NumberOfDays)
	}
	if req.Customer.Age < 0 {
		return domain.TaxBracket{}, fmt.Errorf("%w: negative age %d", domain.ErrInvalidInput, req.Customer.Age)
	}
	if req.CarCategory.Price < 0 {
		return domain.TaxBracket{}, fmt.Errorf("%w: negative price %v", domain.ErrInvalidInput, req.CarCategory.Price)
	}
	return s.taxes.Lookup(req.Customer.Age)
}

func (s *RentalService) price(req domain.RentalRequest, bracket domain.TaxBracket) string {
	amount := decimal.NewFromFloat(bracket.Then).
		Mul(decimal.NewFromFloat(req.CarCategory.Price)).
		Mul(decimal.NewFromInt(int64(req.NumberOfDays)))
	return s.formatter.Currency(amount)
}
