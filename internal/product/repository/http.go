package repository

import (
	"context"
	"fmt"

	"github.com/fekuna/omnipos-storefront/internal/model"
	"github.com/fekuna/omnipos-storefront/internal/pkg/httpclient"
)

// HTTPRepository reads the catalog from the catalog service.
type HTTPRepository struct {
	client *httpclient.Client
}

func NewHTTPRepository(client *httpclient.Client) *HTTPRepository {
	return &HTTPRepository{client: client}
}

func (r *HTTPRepository) FindAll(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	if err := r.client.Get(ctx, "/catalog/products", nil, &products); err != nil {
		return nil, err
	}
	for i := range products {
		products[i].AvailableQty = 0
	}
	if products == nil {
		products = []model.Product{}
	}
	return products, nil
}

func (r *HTTPRepository) Update(ctx context.Context, id int64, update *model.ProductUpdate) (*model.Product, error) {
	var p model.Product
	if err := r.client.Patch(ctx, fmt.Sprintf("/catalog/admin/products/%d", id), update, &p); err != nil {
		return nil, err
	}
	return &p, nil
}
