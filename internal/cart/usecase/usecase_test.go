package usecase

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/fekuna/omnipos-storefront/internal/auth"
	"github.com/fekuna/omnipos-storefront/internal/cart"
	"github.com/fekuna/omnipos-storefront/internal/catalog"
	"github.com/fekuna/omnipos-storefront/internal/model"
	"github.com/fekuna/omnipos-storefront/internal/pkg/httpclient"
	"github.com/fekuna/omnipos-storefront/internal/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCatalog struct {
	mu   sync.Mutex
	snap *catalog.Snapshot
}

func newFakeCatalog(inventory map[string]int) *fakeCatalog {
	products := []model.Product{
		{ID: 1, Name: "Apple", SKU: "A", Category: "Fruit", Price: decimal.NewFromInt(2)},
		{ID: 2, Name: "Milk", SKU: "M", Category: "Dairy", Price: decimal.RequireFromString("3.5")},
	}
	items := []model.InventoryItem{}
	for sku, qty := range inventory {
		items = append(items, model.InventoryItem{SKU: sku, AvailableQty: qty})
	}
	return &fakeCatalog{snap: catalog.NewEngine("en").Build(1, products, items)}
}

func (f *fakeCatalog) Snapshot() (*catalog.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snap, nil
}

func (f *fakeCatalog) ApplyStockDecrement(generation uint64, sku string, qty int) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.snap.Generation != generation {
		return false
	}
	next, ok := f.snap.WithStockDecrement(sku, qty)
	f.snap = next
	return ok
}

func (f *fakeCatalog) available(sku string) int {
	snap, _ := f.Snapshot()
	p, _ := snap.Product(sku)
	return p.AvailableQty
}

type fakeRepo struct {
	items     []model.CartItem
	listErr   error
	upsertErr error
	deleteErr error
	upserts   []model.CartUpsert
	onUpsert  func()
}

func (r *fakeRepo) List(context.Context, string) ([]model.CartItem, error) {
	return r.items, r.listErr
}

func (r *fakeRepo) Upsert(_ context.Context, item *model.CartUpsert) (*model.CartItem, error) {
	if r.onUpsert != nil {
		r.onUpsert()
	}
	if r.upsertErr != nil {
		return nil, r.upsertErr
	}
	r.upserts = append(r.upserts, *item)
	return &model.CartItem{ID: 9, UserEmail: item.UserEmail, SKU: item.SKU, ItemName: item.ItemName, Quantity: item.Quantity}, nil
}

func (r *fakeRepo) Delete(context.Context, string, string) error {
	return r.deleteErr
}

type fakeAvailability struct {
	levels map[string]int
	err    error
}

func (f fakeAvailability) Availability(_ context.Context, skus []string) (map[string]int, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := map[string]int{}
	for _, sku := range skus {
		out[sku] = f.levels[sku]
	}
	return out, nil
}

type recordingPublisher struct {
	events []cart.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e cart.Event) error {
	p.events = append(p.events, e)
	return nil
}

func shopper() context.Context {
	return auth.WithIdentity(context.Background(), auth.Identity{Email: "ann@example.com"})
}

func validation(t *testing.T, err error) *cart.ValidationError {
	t.Helper()
	var verr *cart.ValidationError
	require.True(t, errors.As(err, &verr), "want ValidationError, got %v", err)
	return verr
}

func TestAddItem_OptimisticDecrement(t *testing.T) {
	cat := newFakeCatalog(map[string]int{"A": 5})
	repo := &fakeRepo{}
	pub := &recordingPublisher{}
	uc := NewCartUseCase(repo, cat, fakeAvailability{}, pub, logger.NewNop())

	res, err := uc.AddItem(shopper(), cart.AddItemInput{SKU: "A", Quantity: 3})
	require.NoError(t, err)
	assert.True(t, res.Optimistic)
	assert.Equal(t, 2, res.AvailableQty)
	assert.Equal(t, uint64(1), res.Revision)
	assert.Equal(t, 2, cat.available("A"))

	require.Len(t, repo.upserts, 1)
	assert.Equal(t, model.CartUpsert{UserEmail: "ann@example.com", SKU: "A", ItemName: "Apple", Quantity: 3}, repo.upserts[0])

	require.Len(t, pub.events, 1)
	assert.Equal(t, cart.EventItemAdded, pub.events[0].EventType)
	assert.Equal(t, 3, pub.events[0].Delta)
}

func TestAddItem_AddsToExistingLine(t *testing.T) {
	cat := newFakeCatalog(map[string]int{"A": 5})
	repo := &fakeRepo{items: []model.CartItem{{SKU: "A", Quantity: 2}}}
	uc := NewCartUseCase(repo, cat, fakeAvailability{}, &recordingPublisher{}, logger.NewNop())

	_, err := uc.AddItem(shopper(), cart.AddItemInput{SKU: "A", Quantity: 3})
	require.NoError(t, err)
	assert.Equal(t, 5, repo.upserts[0].Quantity)
}

func TestAddItem_Preconditions(t *testing.T) {
	cases := []struct {
		name    string
		ctx     context.Context
		input   cart.AddItemInput
		items   []model.CartItem
		message string
		status  int
		data    map[string]any
	}{
		{"out of stock", shopper(), cart.AddItemInput{SKU: "M", Quantity: 1}, nil, "out_of_stock", http.StatusUnprocessableEntity, nil},
		{"zero quantity", shopper(), cart.AddItemInput{SKU: "A", Quantity: 0}, nil, "add_up_to", http.StatusUnprocessableEntity, map[string]any{"Available": 5}},
		{"above availability", shopper(), cart.AddItemInput{SKU: "A", Quantity: 6}, nil, "add_up_to", http.StatusUnprocessableEntity, map[string]any{"Available": 5}},
		{"anonymous", context.Background(), cart.AddItemInput{SKU: "A", Quantity: 1}, nil, "login_again", http.StatusUnauthorized, nil},
		{"cart would exceed stock", shopper(), cart.AddItemInput{SKU: "A", Quantity: 2}, []model.CartItem{{SKU: "A", Quantity: 4}}, "cart_exceeds_stock", http.StatusUnprocessableEntity, map[string]any{"Available": 5}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cat := newFakeCatalog(map[string]int{"A": 5, "M": 0})
			repo := &fakeRepo{items: tc.items}
			uc := NewCartUseCase(repo, cat, fakeAvailability{}, &recordingPublisher{}, logger.NewNop())

			_, err := uc.AddItem(tc.ctx, tc.input)
			verr := validation(t, err)
			assert.Equal(t, tc.message, verr.MessageID)
			assert.Equal(t, tc.status, verr.Status)
			assert.Equal(t, tc.data, verr.Data)
			assert.Empty(t, repo.upserts)
			assert.Equal(t, 5, cat.available("A"))
		})
	}
}

func TestAddItem_CartLoadFailure(t *testing.T) {
	cat := newFakeCatalog(map[string]int{"A": 5})
	repo := &fakeRepo{listErr: errors.New("timeout")}
	uc := NewCartUseCase(repo, cat, fakeAvailability{}, &recordingPublisher{}, logger.NewNop())

	_, err := uc.AddItem(shopper(), cart.AddItemInput{SKU: "A", Quantity: 1})
	assert.ErrorIs(t, err, cart.ErrCartLoad)
	assert.Empty(t, repo.upserts)
}

func TestAddItem_CollaboratorFailureSkipsOptimisticUpdate(t *testing.T) {
	cat := newFakeCatalog(map[string]int{"A": 5})
	repo := &fakeRepo{upsertErr: &httpclient.APIError{Status: http.StatusConflict, Message: "Only 1 left in the warehouse"}}
	pub := &recordingPublisher{}
	uc := NewCartUseCase(repo, cat, fakeAvailability{}, pub, logger.NewNop())

	_, err := uc.AddItem(shopper(), cart.AddItemInput{SKU: "A", Quantity: 3})
	require.ErrorIs(t, err, cart.ErrCartUpdate)
	assert.Equal(t, "Only 1 left in the warehouse", httpclient.MessageOf(err))
	assert.Equal(t, 5, cat.available("A"))
	assert.Empty(t, pub.events)
}

func TestAddItem_NewerReloadWins(t *testing.T) {
	cat := newFakeCatalog(map[string]int{"A": 5})
	repo := &fakeRepo{}
	repo.onUpsert = func() {
		cat.mu.Lock()
		cat.snap = catalog.NewEngine("en").Build(2, cat.snap.Products, []model.InventoryItem{{SKU: "A", AvailableQty: 9}})
		cat.mu.Unlock()
	}
	uc := NewCartUseCase(repo, cat, fakeAvailability{}, &recordingPublisher{}, logger.NewNop())

	res, err := uc.AddItem(shopper(), cart.AddItemInput{SKU: "A", Quantity: 3})
	require.NoError(t, err)
	assert.False(t, res.Optimistic)
	assert.Equal(t, 9, cat.available("A"))
}

func TestGetCart(t *testing.T) {
	cat := newFakeCatalog(map[string]int{"A": 5})
	repo := &fakeRepo{items: []model.CartItem{{SKU: "A", ItemName: "Apple", Quantity: 2}, {SKU: "M", ItemName: "Milk", Quantity: 1}}}
	uc := NewCartUseCase(repo, cat, fakeAvailability{levels: map[string]int{"A": 4}}, &recordingPublisher{}, logger.NewNop())

	view, err := uc.GetCart(shopper())
	require.NoError(t, err)
	require.Len(t, view.Items, 2)
	assert.Equal(t, 4, *view.Items[0].AvailableQty)
	assert.Equal(t, 0, *view.Items[1].AvailableQty)
	assert.Equal(t, "4", view.Items[0].LineTotal.String())
	assert.Equal(t, "7.5", view.Total.String())
	assert.Empty(t, view.Warning)

	uc = NewCartUseCase(repo, cat, fakeAvailability{err: errors.New("down")}, &recordingPublisher{}, logger.NewNop())
	view, err = uc.GetCart(shopper())
	require.NoError(t, err)
	assert.Equal(t, "availability_failed", view.Warning)
	assert.Nil(t, view.Items[0].AvailableQty)

	_, err = uc.GetCart(context.Background())
	assert.Equal(t, "login_again", validation(t, err).MessageID)
}

func TestSetQuantityAndRemove(t *testing.T) {
	cat := newFakeCatalog(map[string]int{"A": 5})
	repo := &fakeRepo{items: []model.CartItem{{SKU: "A", ItemName: "Apple", Quantity: 2}}}
	pub := &recordingPublisher{}
	uc := NewCartUseCase(repo, cat, fakeAvailability{levels: map[string]int{"A": 3}}, pub, logger.NewNop())

	item, err := uc.SetQuantity(shopper(), "A", 3)
	require.NoError(t, err)
	assert.Equal(t, 3, item.Quantity)

	_, err = uc.SetQuantity(shopper(), "A", 4)
	assert.Equal(t, "add_up_to", validation(t, err).MessageID)

	_, err = uc.SetQuantity(shopper(), "A", 0)
	assert.Equal(t, "quantity_invalid", validation(t, err).MessageID)

	_, err = uc.SetQuantity(shopper(), "Z", 1)
	assert.ErrorIs(t, err, cart.ErrLineNotFound)

	require.NoError(t, uc.RemoveItem(shopper(), "A"))
	repo.deleteErr = errors.New("gone")
	assert.Error(t, uc.RemoveItem(shopper(), "A"))

	require.Len(t, pub.events, 2)
	assert.Equal(t, cart.EventItemUpdated, pub.events[0].EventType)
	assert.Equal(t, cart.EventItemRemoved, pub.events[1].EventType)
}
