package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/fekuna/omnipos-storefront/internal/catalog"
	"github.com/fekuna/omnipos-storefront/internal/category/usecase"
	"github.com/fekuna/omnipos-storefront/internal/model"
	"github.com/fekuna/omnipos-storefront/internal/pkg/i18n"
	"github.com/fekuna/omnipos-storefront/internal/pkg/logger"
	"github.com/fekuna/omnipos-storefront/internal/product"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type source struct{ snap *catalog.Snapshot }

func (s source) Snapshot() (*catalog.Snapshot, error) {
	if s.snap == nil {
		return nil, product.ErrCatalogNotLoaded
	}
	return s.snap, nil
}

func router(src source) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewCategoryHandler(usecase.NewCategoryUseCase(src, logger.NewNop()), i18n.MustTranslator(), logger.NewNop())
	r := gin.New()
	r.GET("/categories", h.ListCategories)
	r.GET("/categories/:id/subcategories", h.ListSubcategories)
	return r
}

func get(r *gin.Engine, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func loaded() source {
	snap := catalog.NewEngine("en").Build(1, []model.Product{
		{ID: 1, SKU: "A", Category: "Fruit", Subcategory: "Fresh"},
		{ID: 2, SKU: "M", Category: "Dairy"},
	}, nil)
	return source{snap: snap}
}

func TestListCategories(t *testing.T) {
	w := get(router(loaded()), "/categories?q=dai")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Items []struct {
			ID           int64  `json:"id"`
			Name         string `json:"name"`
			ProductCount int    `json:"productCount"`
		} `json:"items"`
		Total int `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, 1, body.Total)
	assert.Equal(t, "Dairy", body.Items[0].Name)
	assert.Equal(t, catalog.StableID("Dairy"), body.Items[0].ID)
	assert.Equal(t, 1, body.Items[0].ProductCount)
}

func TestListSubcategories(t *testing.T) {
	r := router(loaded())

	w := get(r, "/categories/"+strconv.FormatInt(catalog.StableID("Fruit"), 10)+"/subcategories")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"Fresh"`)

	assert.Equal(t, http.StatusNotFound, get(r, "/categories/7/subcategories").Code)
	assert.Equal(t, http.StatusBadRequest, get(r, "/categories/abc/subcategories").Code)
	assert.Equal(t, http.StatusBadRequest, get(r, "/categories?stock=maybe").Code)
}

func TestCatalogNotLoaded(t *testing.T) {
	assert.Equal(t, http.StatusServiceUnavailable, get(router(source{}), "/categories").Code)
}
