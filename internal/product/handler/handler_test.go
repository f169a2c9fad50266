package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fekuna/omnipos-storefront/internal/catalog"
	"github.com/fekuna/omnipos-storefront/internal/model"
	"github.com/fekuna/omnipos-storefront/internal/pkg/httpclient"
	"github.com/fekuna/omnipos-storefront/internal/pkg/i18n"
	"github.com/fekuna/omnipos-storefront/internal/pkg/logger"
	"github.com/fekuna/omnipos-storefront/internal/product/usecase"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProducts struct {
	products  []model.Product
	err       error
	updateErr error
}

func (s *stubProducts) FindAll(context.Context) ([]model.Product, error) {
	return s.products, s.err
}

func (s *stubProducts) Update(_ context.Context, id int64, u *model.ProductUpdate) (*model.Product, error) {
	if s.updateErr != nil {
		return nil, s.updateErr
	}
	return &model.Product{ID: id, Name: u.Name, Price: u.Price}, nil
}

type stubInventory struct{ items []model.InventoryItem }

func (s stubInventory) FindAll(context.Context) ([]model.InventoryItem, error) {
	return s.items, nil
}

func setup(t *testing.T, repo *stubProducts, load bool) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	uc := usecase.NewCatalogUseCase(repo, stubInventory{items: []model.InventoryItem{{SKU: "A", AvailableQty: 5}}}, catalog.NewEngine("en"), logger.NewNop())
	if load {
		_, err := uc.Reload(context.Background())
		require.NoError(t, err)
	}
	h := NewProductHandler(uc, i18n.MustTranslator(), logger.NewNop())

	r := gin.New()
	r.GET("/products", h.ListProducts)
	r.GET("/products/:sku", h.GetProduct)
	r.GET("/metadata", h.GetMetadata)
	r.POST("/reload", h.Reload)
	r.PATCH("/admin/products/:id", h.UpdateProduct)
	return r
}

func do(r *gin.Engine, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func catalogProducts() []model.Product {
	return []model.Product{
		{ID: 1, Name: "Apple", SKU: "A", Category: "Fruit", Price: decimal.NewFromInt(2)},
		{ID: 2, Name: "Milk", SKU: "M", Category: "Dairy", Price: decimal.NewFromInt(3)},
	}
}

func TestListProducts(t *testing.T) {
	r := setup(t, &stubProducts{products: catalogProducts()}, true)

	w := do(r, http.MethodGet, "/products?stock=1&sort=bogus&page=-3&size=abc", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Content []struct {
			Name         string `json:"name"`
			AvailableQty int    `json:"availableQty"`
		} `json:"content"`
		TotalElements int            `json:"totalElements"`
		Page          int            `json:"page"`
		Size          int            `json:"size"`
		Sort          string         `json:"sort"`
		Chips         []catalog.Chip `json:"chips"`
		Params        string         `json:"params"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Content, 1)
	assert.Equal(t, "Apple", body.Content[0].Name)
	assert.Equal(t, 5, body.Content[0].AvailableQty)
	assert.Equal(t, 1, body.TotalElements)
	assert.Equal(t, 0, body.Page)
	assert.Equal(t, 12, body.Size)
	assert.Equal(t, "NEWEST", body.Sort)
	assert.Equal(t, []catalog.Chip{{Key: "stock", Label: "In stock only"}}, body.Chips)
	assert.Equal(t, "page=0&size=12&sort=NEWEST&stock=1", body.Params)
}

func TestListProducts_LocalizedChips(t *testing.T) {
	r := setup(t, &stubProducts{products: catalogProducts()}, true)

	req := httptest.NewRequest(http.MethodGet, "/products?max=2.5", nil)
	req.Header.Set("Accept-Language", "de")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Content []model.Product `json:"content"`
		Chips   []catalog.Chip  `json:"chips"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Content, 1)
	require.Len(t, body.Chips, 1)
	assert.Equal(t, "max", body.Chips[0].Key)
	assert.Contains(t, body.Chips[0].Label, "2.5")
	assert.NotEqual(t, "Up to EUR 2.5", body.Chips[0].Label)
}

func TestListProducts_NotLoaded(t *testing.T) {
	r := setup(t, &stubProducts{}, false)

	w := do(r, http.MethodGet, "/products", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "CATALOG_NOT_LOADED")
}

func TestReload_Unavailable(t *testing.T) {
	r := setup(t, &stubProducts{err: errors.New("boom")}, false)

	w := do(r, http.MethodPost, "/reload", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "CATALOG_UNAVAILABLE")
	assert.Contains(t, w.Body.String(), "Unable to load products. Try again.")
}

func TestGetProductAndMetadata(t *testing.T) {
	r := setup(t, &stubProducts{products: catalogProducts()}, true)

	w := do(r, http.MethodGet, "/products/A", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"availableQty":5`)

	w = do(r, http.MethodGet, "/products/ZZ", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(r, http.MethodGet, "/metadata", "")
	require.Equal(t, http.StatusOK, w.Code)
	var meta struct {
		Categories []catalog.CategoryOption `json:"categories"`
		PageSizes  []int                    `json:"pageSizes"`
		Generation uint64                   `json:"generation"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &meta))
	assert.Equal(t, "Dairy", meta.Categories[0].Name)
	assert.Equal(t, []int{8, 12, 24}, meta.PageSizes)
	assert.Equal(t, uint64(1), meta.Generation)
}

func TestUpdateProduct(t *testing.T) {
	repo := &stubProducts{products: catalogProducts()}
	r := setup(t, repo, true)

	w := do(r, http.MethodPatch, "/admin/products/1", `{"name":"Green Apple","price":4,"taxPercent":0,"unit":"pc"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Green Apple")

	w = do(r, http.MethodPatch, "/admin/products/0", `{"name":"x","unit":"pc"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPatch, "/admin/products/1", `{"unit":"pc"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	repo.updateErr = &httpclient.APIError{Status: http.StatusConflict, Code: "DUPLICATE", Message: "Name already used"}
	w = do(r, http.MethodPatch, "/admin/products/1", `{"name":"Milk","unit":"pc"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "Name already used")
}
