package usecase

import (
	"context"

	"github.com/fekuna/omnipos-storefront/internal/inventory"
	"github.com/fekuna/omnipos-storefront/internal/model"
	"github.com/fekuna/omnipos-storefront/internal/pkg/logger"
	"go.uber.org/zap"
)

type inventoryUseCase struct {
	repo     inventory.Repository
	reloader inventory.Reloader
	logger   logger.ZapLogger
}

func NewInventoryUseCase(repo inventory.Repository, reloader inventory.Reloader, log logger.ZapLogger) inventory.UseCase {
	return &inventoryUseCase{
		repo:     repo,
		reloader: reloader,
		logger:   log,
	}
}

func (uc *inventoryUseCase) ListLowStock(ctx context.Context) ([]model.LowStockItem, error) {
	return uc.repo.LowStock(ctx)
}

func (uc *inventoryUseCase) Availability(ctx context.Context, skus []string) (map[string]int, error) {
	return uc.repo.Availability(ctx, skus)
}

func (uc *inventoryUseCase) AdjustInventory(ctx context.Context, adj *model.InventoryAdjustment) (*model.InventoryItem, error) {
	item, err := uc.repo.Adjust(ctx, adj)
	if err != nil {
		return nil, err
	}

	uc.logger.Info("inventory adjusted",
		zap.String("sku", adj.SKU),
		zap.Int("delta", adj.QuantityDelta),
		zap.String("reason", adj.Reason),
	)

	// The adjustment already happened; a failed reload only delays visibility.
	if _, err := uc.reloader.Reload(ctx); err != nil {
		uc.logger.Warn("reload after inventory adjust failed", zap.String("sku", adj.SKU), zap.Error(err))
	}
	return item, nil
}
