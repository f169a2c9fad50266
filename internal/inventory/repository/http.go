package repository

import (
	"context"
	"net/url"

	"github.com/fekuna/omnipos-storefront/internal/model"
	"github.com/fekuna/omnipos-storefront/internal/pkg/httpclient"
)

// HTTPRepository talks to the inventory service.
type HTTPRepository struct {
	client *httpclient.Client
}

func NewHTTPRepository(client *httpclient.Client) *HTTPRepository {
	return &HTTPRepository{client: client}
}

func (r *HTTPRepository) FindAll(ctx context.Context) ([]model.InventoryItem, error) {
	items := []model.InventoryItem{}
	if err := r.client.Get(ctx, "/inventory/items", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *HTTPRepository) Availability(ctx context.Context, skus []string) (map[string]int, error) {
	out := map[string]int{}
	if len(skus) == 0 {
		return out, nil
	}
	if err := r.client.Get(ctx, "/inventory/availability", url.Values{"sku": skus}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *HTTPRepository) LowStock(ctx context.Context) ([]model.LowStockItem, error) {
	items := []model.LowStockItem{}
	if err := r.client.Get(ctx, "/inventory/admin/low-stock", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *HTTPRepository) Adjust(ctx context.Context, adj *model.InventoryAdjustment) (*model.InventoryItem, error) {
	var item model.InventoryItem
	if err := r.client.Post(ctx, "/inventory/admin/adjust", adj, &item); err != nil {
		return nil, err
	}
	return &item, nil
}
