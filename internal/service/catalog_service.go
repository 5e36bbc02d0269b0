package service

import (
	"context"

	"payin-bridge/internal/models"
	"payin-bridge/internal/redisclient"
	"payin-bridge/internal/store"
	"payin-bridge/internal/util"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CatalogService serves product reads and the admin price update. Reads go
// through a Redis cache with the database as fallback; merchant accounts are
// never cached here, only local catalog data.
type CatalogService struct {
	store  *store.Store
	redis  *redisclient.Client
	logger *zap.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(store *store.Store, redis *redisclient.Client) *CatalogService {
	return &CatalogService{
		store:  store,
		redis:  redis,
		logger: util.GetLogger(),
	}
}

// ListProducts returns all products ordered by id
func (cs *CatalogService) ListProducts(ctx context.Context) ([]models.Product, error) {
	return cs.store.GetProducts(ctx)
}

// GetProduct retrieves a product by id, cache first. Returns
// ErrProductNotFound when the product does not exist.
func (cs *CatalogService) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.GetProduct")
	defer span.End()

	if cs.redis != nil {
		if product, err := cs.redis.GetProduct(ctx, id); err == nil && product != nil {
			return product, nil
		}
	}

	product, err := cs.store.GetProductByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	if cs.redis != nil {
		if err := cs.redis.SetProduct(ctx, product); err != nil {
			cs.logger.Warn("Failed to cache product",
				zap.Int64("product_id", id),
				zap.Error(err))
		}
	}

	return product, nil
}

// GetProductByID satisfies the orchestrator's Catalog interface: it reports
// an absent product as (nil, nil) rather than an error.
func (cs *CatalogService) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	product, err := cs.GetProduct(ctx, id)
	if err == ErrProductNotFound {
		return nil, nil
	}
	return product, err
}

// UpdatePrice updates a product's unit price and invalidates its cache
// entry. Returns ErrProductNotFound when the product does not exist.
func (cs *CatalogService) UpdatePrice(ctx context.Context, id int64, price decimal.Decimal) (*models.Product, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.UpdatePrice")
	defer span.End()

	product, err := cs.store.UpdateProductPrice(ctx, id, price)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	if cs.redis != nil {
		if err := cs.redis.InvalidateProduct(ctx, id); err != nil {
			cs.logger.Warn("Failed to invalidate product cache",
				zap.Int64("product_id", id),
				zap.Error(err))
		}
	}

	cs.logger.Info("Product price updated",
		zap.Int64("product_id", id),
		zap.String("price_usdc", price.String()))

	return product, nil
}
