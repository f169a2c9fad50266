package cart

import (
	"context"
	"errors"
	"net/http"

	"github.com/fekuna/omnipos-storefront/internal/catalog"
	"github.com/fekuna/omnipos-storefront/internal/model"
	"github.com/shopspring/decimal"
)

var (
	ErrCartLoad     = errors.New("cart could not be loaded")
	ErrCartUpdate   = errors.New("cart could not be updated")
	ErrLineNotFound = errors.New("item is not in the cart")
)

// ValidationError is a precondition failure detected before the cart
// collaborator is called. MessageID names the user facing message.
type ValidationError struct {
	Status    int
	Code      string
	MessageID string
	Data      map[string]any
}

func (e *ValidationError) Error() string {
	return e.Code + ": " + e.MessageID
}

func OutOfStock() *ValidationError {
	return &ValidationError{Status: http.StatusUnprocessableEntity, Code: "OUT_OF_STOCK", MessageID: "out_of_stock"}
}

func AddUpTo(available int) *ValidationError {
	return &ValidationError{
		Status:    http.StatusUnprocessableEntity,
		Code:      "QUANTITY_EXCEEDS_STOCK",
		MessageID: "add_up_to",
		Data:      map[string]any{"Available": available},
	}
}

func CartExceedsStock(available int) *ValidationError {
	return &ValidationError{
		Status:    http.StatusUnprocessableEntity,
		Code:      "CART_EXCEEDS_STOCK",
		MessageID: "cart_exceeds_stock",
		Data:      map[string]any{"Available": available},
	}
}

func LoginAgain() *ValidationError {
	return &ValidationError{Status: http.StatusUnauthorized, Code: "UNAUTHENTICATED", MessageID: "login_again"}
}

func InvalidQuantity() *ValidationError {
	return &ValidationError{Status: http.StatusUnprocessableEntity, Code: "INVALID_QUANTITY", MessageID: "quantity_invalid"}
}

// Catalog is the part of the catalog browse use case the cart needs.
type Catalog interface {
	Snapshot() (*catalog.Snapshot, error)
	ApplyStockDecrement(generation uint64, sku string, qty int) bool
}

// Availability looks up live stock levels.
type Availability interface {
	Availability(ctx context.Context, skus []string) (map[string]int, error)
}

type AddItemInput struct {
	SKU      string `json:"sku" binding:"required"`
	Quantity int    `json:"quantity"`
}

type AddItemResult struct {
	Item *model.CartItem `json:"item"`
	// AvailableQty is the optimistic availability after the add.
	AvailableQty int    `json:"availableQty"`
	Optimistic   bool   `json:"optimistic"`
	Generation   uint64 `json:"generation"`
	Revision     uint64 `json:"revision"`
}

type CartLine struct {
	model.CartItem
	AvailableQty *int            `json:"availableQty"`
	UnitPrice    decimal.Decimal `json:"unitPrice"`
	LineTotal    decimal.Decimal `json:"lineTotal"`
}

type CartView struct {
	Items []CartLine      `json:"items"`
	Total decimal.Decimal `json:"total"`
	// Warning is set when the cart loaded but availability did not.
	Warning string `json:"warning,omitempty"`
}

type UseCase interface {
	// AddItem checks quantity against availability and the existing cart line,
	// then raises the line by Quantity. Success lowers the shown availability
	// without another inventory fetch.
	AddItem(ctx context.Context, input AddItemInput) (*AddItemResult, error)
	GetCart(ctx context.Context) (*CartView, error)
	SetQuantity(ctx context.Context, sku string, quantity int) (*model.CartItem, error)
	RemoveItem(ctx context.Context, sku string) error
}
