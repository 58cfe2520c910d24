package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rogerio-castellano/inventory-cli/internal/config"
	"github.com/rogerio-castellano/inventory-cli/internal/db"
	"github.com/rogerio-castellano/inventory-cli/internal/inventory"
	"github.com/rogerio-castellano/inventory-cli/internal/logger"
	"github.com/rogerio-castellano/inventory-cli/internal/redissvc"
	"github.com/rogerio-castellano/inventory-cli/internal/repo"
	"go.uber.org/zap"
)

// app holds everything opened at startup and released on exit.
type app struct {
	cfg     *config.Config
	log     *zap.Logger
	service *inventory.Service
	closers []func() error
}

func newApp(ctx context.Context, configPath string) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	log, err := logger.New(logger.Config{Level: cfg.Log.Level, Environment: cfg.Log.Environment})
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	zap.ReplaceGlobals(log)

	a := &app{cfg: cfg, log: log}
	products, err := a.openProducts(ctx)
	if err != nil {
		_ = a.close()
		return nil, err
	}
	a.service = inventory.NewService(products, log)
	return a, nil
}

func (a *app) openProducts(ctx context.Context) (repo.ProductRepository, error) {
	var products repo.ProductRepository

	driver := a.cfg.Database.Driver
	if driver == db.DriverMemory {
		products = repo.NewInMemoryProductRepository()
	} else {
		database, err := db.Connect(ctx, driver, a.cfg.Database.URL)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, database.Close)
		if err := db.EnsureSchema(ctx, database, driver); err != nil {
			return nil, err
		}
		products = sqlRepository(driver, database)
	}
	a.log.Debug("product store opened", zap.String("driver", driver))

	if a.cfg.Redis.Addr == "" {
		return products, nil
	}
	rdb, err := redissvc.Connect(ctx, &redis.Options{
		Addr:     a.cfg.Redis.Addr,
		Password: a.cfg.Redis.Password,
		DB:       a.cfg.Redis.DB,
	})
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, rdb.Close)
	a.log.Debug("product cache enabled", zap.String("addr", a.cfg.Redis.Addr), zap.Duration("ttl", a.cfg.Redis.TTL))
	return redissvc.NewCachedProductRepository(products, rdb, a.cfg.Redis.TTL, a.log), nil
}

func sqlRepository(driver string, database *sql.DB) repo.ProductRepository {
	if driver == db.DriverPostgres {
		return repo.NewPostgresProductRepository(database)
	}
	return repo.NewSQLiteProductRepository(database)
}

func (a *app) close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	a.closers = nil
	_ = a.log.Sync()
	return errors.Join(errs...)
}
