package service

import (
	"context"
	"fmt"
	"time"

	"checkout-service/internal/models"
	"checkout-service/internal/util"

	"go.uber.org/zap"
)

type productStore interface {
	GetProductByID(ctx context.Context, id string) (*models.Product, error)
	GetProducts(ctx context.Context) ([]models.Product, error)
}

type productCache interface {
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	SetProduct(ctx context.Context, product *models.Product, ttl time.Duration) error
}

// CatalogService reads products through a cache-aside Redis layer. Cache
// failures degrade to database reads, never to request failures.
type CatalogService struct {
	store  productStore
	cache  productCache
	ttl    time.Duration
	logger *zap.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(store productStore, cache productCache, ttl time.Duration) *CatalogService {
	return &CatalogService{
		store:  store,
		cache:  cache,
		ttl:    ttl,
		logger: util.GetLogger(),
	}
}

// GetProductByID retrieves a product, cache first.
// Returns (nil, nil) when the product does not exist.
func (c *CatalogService) GetProductByID(ctx context.Context, id string) (*models.Product, error) {
	if c.cache != nil {
		product, err := c.cache.GetProduct(ctx, id)
		if err != nil {
			c.logger.Warn("Product cache read failed",
				zap.String("product_id", id),
				zap.Error(err))
		} else if product != nil {
			util.CatalogCacheHitsTotal.Inc()
			return product, nil
		}
	}

	util.CatalogCacheMissesTotal.Inc()

	product, err := c.store.GetProductByID(ctx, id)
	if err != nil || product == nil {
		return product, err
	}

	if c.cache != nil {
		if err := c.cache.SetProduct(ctx, product, c.ttl); err != nil {
			c.logger.Warn("Product cache write failed",
				zap.String("product_id", id),
				zap.Error(err))
		}
	}

	return product, nil
}

// WarmCache loads the full catalog into Redis at startup so the first
// checkout requests don't all fall through to the database. Individual
// cache write failures are logged and skipped.
func (c *CatalogService) WarmCache(ctx context.Context) error {
	if c.cache == nil {
		return nil
	}

	products, err := c.store.GetProducts(ctx)
	if err != nil {
		return fmt.Errorf("failed to list products for cache warm: %w", err)
	}

	warmed := 0
	for i := range products {
		if err := c.cache.SetProduct(ctx, &products[i], c.ttl); err != nil {
			c.logger.Warn("Product cache warm write failed",
				zap.String("product_id", products[i].ID),
				zap.Error(err))
			continue
		}
		warmed++
	}

	c.logger.Info("Catalog cache warmed", zap.Int("products", warmed))
	return nil
}
