package product

import (
	"context"

	"github.com/fekuna/omnipos-storefront/internal/model"
)

// Repository is the catalog collaborator. Products come back without
// availability; AvailableQty is always zero.
type Repository interface {
	FindAll(ctx context.Context) ([]model.Product, error)
	Update(ctx context.Context, id int64, update *model.ProductUpdate) (*model.Product, error)
}

// InventorySource supplies the stock levels joined into every snapshot.
type InventorySource interface {
	FindAll(ctx context.Context) ([]model.InventoryItem, error)
}
