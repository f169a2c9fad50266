package handler

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/fekuna/omnipos-storefront/internal/catalog"
	"github.com/fekuna/omnipos-storefront/internal/model"
	"github.com/fekuna/omnipos-storefront/internal/pkg/i18n"
	"github.com/fekuna/omnipos-storefront/internal/pkg/logger"
	"github.com/fekuna/omnipos-storefront/internal/session"
	"github.com/fekuna/omnipos-storefront/internal/session/dto"
	"github.com/fekuna/omnipos-storefront/internal/session/repository"
	"github.com/fekuna/omnipos-storefront/internal/session/usecase"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticCatalog struct {
	engine *catalog.Engine
	snap   *catalog.Snapshot
}

func (s staticCatalog) Snapshot() (*catalog.Snapshot, error)       { return s.snap, nil }
func (s staticCatalog) Engine() *catalog.Engine                     { return s.engine }
func (s staticCatalog) Subscribe(func(*catalog.Snapshot)) func() { return func() {} }

func setup(t *testing.T) (*gin.Engine, session.UseCase) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	engine := catalog.NewEngine("en")
	snap := engine.Build(1, []model.Product{
		{ID: 1, Name: "Apple", SKU: "A", Category: "Fruit", Price: decimal.NewFromInt(2)},
		{ID: 2, Name: "Milk", SKU: "M", Category: "Dairy", Price: decimal.NewFromInt(1)},
	}, []model.InventoryItem{{SKU: "A", AvailableQty: 4}})

	uc := usecase.NewSessionUseCase(repository.NewMemoryParamStore(), staticCatalog{engine: engine, snap: snap}, usecase.Config{IdleTTL: time.Minute}, logger.NewNop())
	t.Cleanup(uc.Close)
	h := NewSessionHandler(uc, i18n.MustTranslator(), logger.NewNop())

	r := gin.New()
	g := r.Group("/sessions")
	g.POST("", h.CreateSession)
	g.GET("/:id", h.GetSession)
	g.PUT("/:id/params", h.ApplyParams)
	g.PATCH("/:id/filters", h.EditFilters)
	g.PUT("/:id/sort", h.SetSort)
	g.PUT("/:id/page", h.SetPage)
	g.DELETE("/:id/chips/:key", h.RemoveChip)
	g.POST("/:id/clear", h.ClearFilters)
	g.GET("/:id/events", h.Events)
	g.DELETE("/:id", h.EndSession)
	return r, uc
}

func do(r http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeView(t *testing.T, w *httptest.ResponseRecorder) dto.SessionView {
	t.Helper()
	var out dto.SessionView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func create(t *testing.T, r http.Handler, body string) dto.SessionView {
	t.Helper()
	w := do(r, http.MethodPost, "/sessions", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decodeView(t, w)
}

func TestCreateSession_FromSharedParams(t *testing.T) {
	r, _ := setup(t)
	fruit := strconv.FormatInt(catalog.StableID("Fruit"), 10)

	out := create(t, r, `{"params":"categories=`+fruit+`&stock=1&size=abc"}`)
	assert.NotEmpty(t, out.ID)
	assert.True(t, out.State.Filter.InStockOnly)
	assert.Equal(t, catalog.DefaultPageSize, out.State.Page.Size)
	require.NotNil(t, out.View)
	require.Len(t, out.View.Items, 1)
	assert.Equal(t, "Apple", out.View.Items[0].Name)
	assert.Len(t, out.View.Chips, 2)
}

func TestCreateSession_EmptyBody(t *testing.T) {
	r, _ := setup(t)
	out := create(t, r, "")
	assert.Equal(t, catalog.SortNewest, out.State.Sort)
	assert.Equal(t, "page=0&size=12&sort=NEWEST", out.Params)
}

func TestSessionNavigation(t *testing.T) {
	r, _ := setup(t)
	id := create(t, r, "").ID

	w := do(r, http.MethodPatch, "/sessions/"+id+"/filters", `{"stock":true}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, decodeView(t, w).Params, "stock=1")

	w = do(r, http.MethodPut, "/sessions/"+id+"/sort", `{"sort":"PRICE_ASC"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, catalog.SortPriceAsc, decodeView(t, w).State.Sort)

	w = do(r, http.MethodPut, "/sessions/"+id+"/page", `{"page":3,"size":24}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, catalog.PageState{Index: 3, Size: 24}, decodeView(t, w).State.Page)

	w = do(r, http.MethodDelete, "/sessions/"+id+"/chips/stock", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, decodeView(t, w).State.Filter.InStockOnly)
	assert.Zero(t, decodeView(t, w).State.Page.Index)

	w = do(r, http.MethodDelete, "/sessions/"+id+"/chips/stock", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(r, http.MethodPut, "/sessions/"+id+"/params", `{"params":"max=1.5"}`)
	require.Equal(t, http.StatusOK, w.Code)
	out := decodeView(t, w)
	require.NotNil(t, out.State.Filter.MaxPrice)
	assert.Equal(t, "1.5", out.State.Filter.MaxPrice.String())

	w = do(r, http.MethodPost, "/sessions/"+id+"/clear", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decodeView(t, w).State.Filter.IsZero())

	assert.Equal(t, http.StatusNoContent, do(r, http.MethodDelete, "/sessions/"+id, "").Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/sessions/"+id, "").Code)
}

func TestEvents_StreamsCurrentParams(t *testing.T) {
	r, _ := setup(t)
	id := create(t, r, `{"params":"sort=NAME_ASC"}`).ID

	srv := httptest.NewServer(r)
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/sessions/"+id+"/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	line, err := reader.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "event:params\n", line)
	line, err = reader.ReadString('\n')
	require.NoError(t, err)
	assert.Contains(t, line, "sort=NAME_ASC")
}
