package cart

import (
	"context"

	"github.com/fekuna/omnipos-storefront/internal/model"
)

// Repository is the cart collaborator. Upsert sets the absolute quantity of a
// line and returns the persisted line.
type Repository interface {
	List(ctx context.Context, email string) ([]model.CartItem, error)
	Upsert(ctx context.Context, item *model.CartUpsert) (*model.CartItem, error)
	Delete(ctx context.Context, email, sku string) error
}

const (
	EventItemAdded   = "CartItemAdded"
	EventItemUpdated = "CartItemUpdated"
	EventItemRemoved = "CartItemRemoved"
)

type Event struct {
	EventID   string `json:"event_id"`
	EventType string `json:"event_type"`
	UserEmail string `json:"user_email"`
	SKU       string `json:"sku"`
	Quantity  int    `json:"quantity"`
	// Delta is the change this event made to the line.
	Delta      int   `json:"delta"`
	OccurredAt int64 `json:"occurred_at"`
}

// Publisher announces cart mutations to other services.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}
