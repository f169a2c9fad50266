package inventory

import (
	"context"

	"github.com/fekuna/omnipos-storefront/internal/catalog"
	"github.com/fekuna/omnipos-storefront/internal/model"
)

type UseCase interface {
	ListLowStock(ctx context.Context) ([]model.LowStockItem, error)
	Availability(ctx context.Context, skus []string) (map[string]int, error)
	// AdjustInventory applies an admin stock correction and reloads the
	// catalog so the new level is visible.
	AdjustInventory(ctx context.Context, adj *model.InventoryAdjustment) (*model.InventoryItem, error)
}

// Reloader refreshes the joined catalog.
type Reloader interface {
	Reload(ctx context.Context) (*catalog.Snapshot, error)
}
