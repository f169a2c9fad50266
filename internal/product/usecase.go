package product

import (
	"context"
	"errors"

	"github.com/fekuna/omnipos-storefront/internal/catalog"
	"github.com/fekuna/omnipos-storefront/internal/model"
)

var (
	ErrCatalogUnavailable = errors.New("catalog unavailable")
	ErrCatalogNotLoaded   = errors.New("catalog not loaded")
	ErrProductNotFound    = errors.New("product not found")
)

type UseCase interface {
	// Reload fetches products and inventory together and installs the joined
	// snapshot. On failure the previous snapshot stays visible.
	Reload(ctx context.Context) (*catalog.Snapshot, error)
	Snapshot() (*catalog.Snapshot, error)
	Query(q catalog.Query) (catalog.View, error)
	GetProduct(sku string) (model.Product, error)
	UpdateProduct(ctx context.Context, id int64, update *model.ProductUpdate) (*model.Product, error)

	// ApplyStockDecrement lowers the available quantity of sku in the current
	// snapshot, provided it still belongs to generation.
	ApplyStockDecrement(generation uint64, sku string, qty int) bool

	// Subscribe registers fn for every installed snapshot, optimistic
	// revisions included. The returned func unregisters it.
	Subscribe(fn func(*catalog.Snapshot)) func()
	Engine() *catalog.Engine
}
