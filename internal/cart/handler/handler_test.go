package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fekuna/omnipos-storefront/internal/cart"
	"github.com/fekuna/omnipos-storefront/internal/model"
	"github.com/fekuna/omnipos-storefront/internal/pkg/httpclient"
	"github.com/fekuna/omnipos-storefront/internal/pkg/i18n"
	"github.com/fekuna/omnipos-storefront/internal/pkg/logger"
	"github.com/fekuna/omnipos-storefront/internal/pkg/response"
	"github.com/fekuna/omnipos-storefront/internal/product"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubUseCase struct {
	addErr  error
	viewErr error
	setErr  error
	view    *cart.CartView
	added   cart.AddItemInput
}

func (s *stubUseCase) AddItem(_ context.Context, input cart.AddItemInput) (*cart.AddItemResult, error) {
	s.added = input
	if s.addErr != nil {
		return nil, s.addErr
	}
	return &cart.AddItemResult{
		Item:         &model.CartItem{SKU: input.SKU, ItemName: "Apple", Quantity: input.Quantity},
		AvailableQty: 2,
		Optimistic:   true,
	}, nil
}

func (s *stubUseCase) GetCart(context.Context) (*cart.CartView, error) {
	return s.view, s.viewErr
}

func (s *stubUseCase) SetQuantity(_ context.Context, sku string, quantity int) (*model.CartItem, error) {
	if s.setErr != nil {
		return nil, s.setErr
	}
	return &model.CartItem{SKU: sku, Quantity: quantity}, nil
}

func (s *stubUseCase) RemoveItem(context.Context, string) error {
	return nil
}

func setup(uc cart.UseCase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewCartHandler(uc, i18n.MustTranslator(), logger.NewNop())

	r := gin.New()
	r.GET("/cart", h.GetCart)
	r.POST("/cart/items", h.AddItem)
	r.PUT("/cart/items/:sku", h.SetQuantity)
	r.DELETE("/cart/items/:sku", h.RemoveItem)
	return r
}

func do(r *gin.Engine, method, target, body, lang string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if lang != "" {
		req.Header.Set("Accept-Language", lang)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func errorBody(t *testing.T, w *httptest.ResponseRecorder) response.ErrorBody {
	t.Helper()
	var body response.ErrorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestAddItem_Success(t *testing.T) {
	uc := &stubUseCase{}
	w := do(setup(uc), http.MethodPost, "/cart/items", `{"sku":"A","quantity":3}`, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, cart.AddItemInput{SKU: "A", Quantity: 3}, uc.added)

	var body struct {
		AvailableQty int    `json:"availableQty"`
		Optimistic   bool   `json:"optimistic"`
		Message      string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 2, body.AvailableQty)
	assert.True(t, body.Optimistic)
	assert.Equal(t, "Apple added to cart", body.Message)
}

func TestAddItem_ErrorMapping(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"out of stock", cart.OutOfStock(), http.StatusUnprocessableEntity, "Item is out of stock."},
		{"add up to", cart.AddUpTo(5), http.StatusUnprocessableEntity, "You can add up to 5."},
		{"login", cart.LoginAgain(), http.StatusUnauthorized, "Please login again."},
		{"unknown sku", product.ErrProductNotFound, http.StatusNotFound, "Product not found."},
		{"not loaded", product.ErrCatalogNotLoaded, http.StatusServiceUnavailable, "The catalog is still loading. Try again shortly."},
		{"cart load", fmt.Errorf("%w: %w", cart.ErrCartLoad, errors.New("eof")), http.StatusBadGateway, "Unable to load cart. Try again."},
		{"collaborator message", fmt.Errorf("%w: %w", cart.ErrCartUpdate, &httpclient.APIError{Status: 409, Message: "Reserved by another order"}), http.StatusConflict, "Reserved by another order"},
		{"collaborator silent", fmt.Errorf("%w: %w", cart.ErrCartUpdate, &httpclient.APIError{Status: 500}), http.StatusBadGateway, "Unable to add item to cart."},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := do(setup(&stubUseCase{addErr: tc.err}), http.MethodPost, "/cart/items", `{"sku":"A","quantity":1}`, "")
			assert.Equal(t, tc.status, w.Code)
			assert.Equal(t, tc.message, errorBody(t, w).Message)
		})
	}
}

func TestAddItem_RejectsMissingSKU(t *testing.T) {
	w := do(setup(&stubUseCase{}), http.MethodPost, "/cart/items", `{"quantity":1}`, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_REQUEST", errorBody(t, w).Code)
}

func TestGetCart_LocalizesWarning(t *testing.T) {
	uc := &stubUseCase{view: &cart.CartView{Items: []cart.CartLine{}, Total: decimal.Zero, Warning: "availability_failed"}}
	w := do(setup(uc), http.MethodGet, "/cart", "", "de")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Warning string `json:"warning"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.NotEmpty(t, body.Warning)
	assert.NotEqual(t, "availability_failed", body.Warning)
}

func TestSetQuantityAndRemove(t *testing.T) {
	uc := &stubUseCase{}
	w := do(setup(uc), http.MethodPut, "/cart/items/A", `{"quantity":4}`, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"quantity":4`)

	uc.setErr = cart.ErrLineNotFound
	w = do(setup(uc), http.MethodPut, "/cart/items/Z", `{"quantity":1}`, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(setup(uc), http.MethodDelete, "/cart/items/A", "", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
}
