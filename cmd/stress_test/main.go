package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rl1809/car-rental/internal/adapter/storage"
	"github.com/rl1809/car-rental/internal/core/domain"
	"github.com/rl1809/car-rental/internal/core/service"
)

func main() {
	carsFile := flag.String("cars", "database/cars.json", "flat JSON car catalog")
	totalRequests := flag.Int("n", 1000, "concurrent rent requests")
	flag.Parse()

	ctx := context.Background()

	repo, err := storage.NewJSONRepository(*carsFile)
	if err != nil {
		log.Fatalf("failed to load catalog: %v", err)
	}

	cars := repo.Cars()
	if len(cars) == 0 {
		log.Fatalf("catalog %s is empty", *carsFile)
	}

	category := domain.CarCategory{ID: "stress", Name: "all cars", Price: 37.6}
	for _, c := range cars {
		category.CarIDs = append(category.CarIDs, c.ID)
	}

	rentalService := service.NewRentalService(repo)

	// Counters
	var successCount atomic.Int32
	var failCount atomic.Int32
	var foreignCar atomic.Int32

	// Spawn concurrent requests
	var wg sync.WaitGroup
	start := time.Now()

	for i := 0; i < *totalRequests; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()

			tx, err := rentalService.Rent(ctx, domain.RentalRequest{
				Customer:     domain.Customer{ID: fmt.Sprintf("customer-%d", n), Age: 18 + n%83},
				CarCategory:  category,
				NumberOfDays: 1 + n%30,
			})
			if err != nil {
				failCount.Add(1)
				return
			}
			successCount.Add(1)
			if !slices.Contains(category.CarIDs, tx.Car.ID) {
				foreignCar.Add(1)
			}
		}(i)
	}

	wg.Wait()
	elapsed := time.Since(start)

	// Results
	success := successCount.Load()
	fail := failCount.Load()

	fmt.Println("========== STRESS TEST RESULTS ==========")
	fmt.Printf("Catalog Cars:     %d\n", len(cars))
	fmt.Printf("Total Requests:   %d\n", *totalRequests)
	fmt.Printf("Successful:       %d\n", success)
	fmt.Printf("Failed:           %d\n", fail)
	fmt.Printf("Duration:         %v\n", elapsed)
	fmt.Println("==========================================")

	// Assertions
	if success == int32(*totalRequests) && fail == 0 {
		fmt.Printf("PASS: all %d rentals succeeded\n", *totalRequests)
	} else {
		fmt.Printf("FAIL: expected %d successes, got %d (%d failed)\n", *totalRequests, success, fail)
	}

	if foreignCar.Load() == 0 {
		fmt.Println("PASS: every rented car belongs to the category")
	} else {
		fmt.Printf("FAIL: %d rentals returned a car outside the category\n", foreignCar.Load())
	}
}
