package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"
	"google.golang.org/grpc"
	_ "modernc.org/sqlite"

	"github.com/rl1809/car-rental/internal/adapter/handler"
	"github.com/rl1809/car-rental/internal/adapter/storage"
	"github.com/rl1809/car-rental/internal/config"
	"github.com/rl1809/car-rental/internal/core/locale"
	"github.com/rl1809/car-rental/internal/core/service"
	"github.com/rl1809/car-rental/internal/port"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config error", "err", err)
		os.Exit(1)
	}

	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("server exited with error", "err", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Initialize car catalog
	cars, closeCatalog, err := openCatalog(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeCatalog()

	// Initialize Redis cache
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer rdb.Close()

		pingCtx, pingCancel := context.WithTimeout(ctx, 2*time.Second)
		err := rdb.Ping(pingCtx).Err()
		pingCancel()
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		log.Info("connected to redis", "addr", cfg.RedisAddr, "ttl", cfg.CacheTTL)

		cars = storage.NewCachedRepository(cars, storage.NewRedisAdapter(rdb, cfg.CacheTTL), log)
	}

	// Initialize service
	rentalService := service.NewRentalService(cars,
		service.WithFormatter(locale.BrazilianReal(locale.WithLocation(cfg.Location()))),
	)

	// Initialize gRPC server
	var grpcServer *grpc.Server
	if cfg.GRPCAddr != "" {
		lis, err := net.Listen("tcp", cfg.GRPCAddr)
		if err != nil {
			return fmt.Errorf("listen grpc: %w", err)
		}

		grpcServer = grpc.NewServer()
		handler.RegisterRentalServiceServer(grpcServer, handler.NewGRPCHandler(rentalService))

		go func() {
			log.Info("gRPC server listening", "addr", cfg.GRPCAddr)
			if err := grpcServer.Serve(lis); err != nil {
				log.Error("gRPC server error", "err", err)
			}
		}()
	}

	// Initialize HTTP server
	httpHandler := handler.NewHTTPHandler(rentalService, log)
	middlewares := []func(http.Handler) http.Handler{
		handler.RequestID,
		handler.AccessLog(log),
	}
	if cfg.RateRPS > 0 {
		limiter := handler.NewRateLimiter(cfg.RateRPS, cfg.RateBurst)
		limiter.StartJanitor(ctx)
		middlewares = append(middlewares, handler.RateLimit(limiter, time.Second))
	}

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler.Chain(httpHandler.Routes(), middlewares...),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening", "addr", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Graceful shutdown
	select {
	case err := <-serverErr:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP shutdown", "err", err)
	}
	log.Info("HTTP server stopped")

	if grpcServer != nil {
		grpcServer.GracefulStop()
		log.Info("gRPC server stopped")
	}

	return nil
}

// openCatalog builds the car repository selected by CATALOG_BACKEND. SQL
// backends are seeded from CARS_FILE when SEED_CATALOG is set.
func openCatalog(ctx context.Context, cfg config.Config, log *slog.Logger) (port.CarRepository, func(), error) {
	noop := func() {}

	if cfg.CatalogBackend == config.BackendJSON {
		repo, err := storage.NewJSONRepository(cfg.CarsFile)
		if err != nil {
			return nil, noop, err
		}
		log.Info("loaded car catalog", "file", cfg.CarsFile, "cars", len(repo.Cars()))
		return repo, noop, nil
	}

	driver, dsn := "mysql", cfg.MySQLDSN
	if cfg.CatalogBackend == config.BackendSQLite {
		driver, dsn = "sqlite", cfg.SQLitePath
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, noop, fmt.Errorf("open %s: %w", driver, err)
	}
	db.SetMaxOpenConns(50)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)
	closeDB := func() { db.Close() }

	if err := db.PingContext(ctx); err != nil {
		closeDB()
		return nil, noop, fmt.Errorf("ping %s: %w", driver, err)
	}
	log.Info("connected to catalog database", "driver", driver)

	adapter := storage.NewSQLAdapter(db)
	if err := adapter.Migrate(ctx); err != nil {
		closeDB()
		return nil, noop, err
	}

	if cfg.SeedCatalog {
		seed, err := storage.NewJSONRepository(cfg.CarsFile)
		if err != nil {
			closeDB()
			return nil, noop, err
		}
		if err := adapter.ImportCars(ctx, seed.Cars()); err != nil {
			closeDB()
			return nil, noop, fmt.Errorf("seed catalog: %w", err)
		}
		log.Info("seeded car catalog", "file", cfg.CarsFile, "cars", len(seed.Cars()))
	}

	return adapter, closeDB, nil
}
