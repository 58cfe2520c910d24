// Package redissvc caches product lookups in Redis in front of a repository.
package redissvc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rogerio-castellano/inventory-cli/internal/models"
	"github.com/rogerio-castellano/inventory-cli/internal/repo"
	"go.uber.org/zap"
)

const keyPrefix = "inventory:product:"

// Connect builds a client and checks the server answers.
func Connect(ctx context.Context, opts *redis.Options) (*redis.Client, error) {
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("could not connect to Redis at %s: %w", opts.Addr, err)
	}
	return rdb, nil
}

// CachedProductRepository serves GetByID from Redis and drops the cached
// entry whenever the product is written. Redis failures are logged and the
// call falls through to the wrapped repository.
type CachedProductRepository struct {
	next repo.ProductRepository
	rdb  redis.UniversalClient
	ttl  time.Duration
	log  *zap.Logger
}

var _ repo.ProductRepository = (*CachedProductRepository)(nil)

func NewCachedProductRepository(next repo.ProductRepository, rdb redis.UniversalClient, ttl time.Duration, log *zap.Logger) *CachedProductRepository {
	if log == nil {
		log = zap.NewNop()
	}
	return &CachedProductRepository{next: next, rdb: rdb, ttl: ttl, log: log}
}

func productKey(id int) string {
	return keyPrefix + strconv.Itoa(id)
}

func (c *CachedProductRepository) GetByID(ctx context.Context, id int) (models.Product, error) {
	raw, err := c.rdb.Get(ctx, productKey(id)).Bytes()
	switch {
	case err == nil:
		var p models.Product
		if err := json.Unmarshal(raw, &p); err == nil {
			return p, nil
		}
		c.log.Warn("discarding unreadable cached product", zap.Int("id", id))
	case !errors.Is(err, redis.Nil):
		c.log.Warn("product cache read failed", zap.Int("id", id), zap.Error(err))
	}

	p, err := c.next.GetByID(ctx, id)
	if err != nil {
		return models.Product{}, err
	}
	c.store(ctx, p)
	return p, nil
}

func (c *CachedProductRepository) Insert(ctx context.Context, p models.Product) (models.Product, bool, error) {
	stored, inserted, err := c.next.Insert(ctx, p)
	if err == nil && inserted {
		c.invalidate(ctx, stored.ID)
	}
	return stored, inserted, err
}

func (c *CachedProductRepository) Update(ctx context.Context, p models.Product) (models.Product, error) {
	updated, err := c.next.Update(ctx, p)
	c.invalidate(ctx, p.ID)
	return updated, err
}

func (c *CachedProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	return c.next.GetAll(ctx)
}

func (c *CachedProductRepository) GetByName(ctx context.Context, name string) (models.Product, error) {
	return c.next.GetByName(ctx, name)
}

func (c *CachedProductRepository) store(ctx context.Context, p models.Product) {
	data, err := json.Marshal(p)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, productKey(p.ID), data, c.ttl).Err(); err != nil {
		c.log.Warn("product cache write failed", zap.Int("id", p.ID), zap.Error(err))
	}
}

// invalidate also runs after inserts: a reused id (e.g. a wiped database) must not serve a stale entry.
func (c *CachedProductRepository) invalidate(ctx context.Context, id int) {
	if err := c.rdb.Del(ctx, productKey(id)).Err(); err != nil {
		c.log.Warn("product cache invalidation failed", zap.Int("id", id), zap.Error(err))
	}
}
