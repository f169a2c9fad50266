package repository

import (
	"context"
	"net/url"

	"github.com/fekuna/omnipos-storefront/internal/model"
	"github.com/fekuna/omnipos-storefront/internal/pkg/httpclient"
)

// HTTPRepository talks to the cart service.
type HTTPRepository struct {
	client *httpclient.Client
}

func NewHTTPRepository(client *httpclient.Client) *HTTPRepository {
	return &HTTPRepository{client: client}
}

func (r *HTTPRepository) List(ctx context.Context, email string) ([]model.CartItem, error) {
	items := []model.CartItem{}
	if err := r.client.Get(ctx, "/cart/"+url.PathEscape(email), nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Upsert may get an empty body back; the caller then synthesizes the line.
func (r *HTTPRepository) Upsert(ctx context.Context, item *model.CartUpsert) (*model.CartItem, error) {
	var saved *model.CartItem
	if err := r.client.Post(ctx, "/cart/items", item, &saved); err != nil {
		return nil, err
	}
	return saved, nil
}

func (r *HTTPRepository) Delete(ctx context.Context, email, sku string) error {
	return r.client.Delete(ctx, "/cart/"+url.PathEscape(email)+"/"+url.PathEscape(sku))
}
