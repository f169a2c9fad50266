package inventory

import (
	"context"
	"errors"

	"github.com/fekuna/omnipos-storefront/internal/model"
)

var (
	ErrItemNotFound      = errors.New("inventory item not found")
	ErrInsufficientStock = errors.New("insufficient inventory")
)

type Repository interface {
	FindAll(ctx context.Context) ([]model.InventoryItem, error)
	// Availability maps each requested SKU to its available quantity.
	Availability(ctx context.Context, skus []string) (map[string]int, error)
	LowStock(ctx context.Context) ([]model.LowStockItem, error)
	Adjust(ctx context.Context, adj *model.InventoryAdjustment) (*model.InventoryItem, error)
}
