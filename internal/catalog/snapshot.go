package catalog

import (
	"time"

	"github.com/fekuna/omnipos-storefront/internal/model"
	"github.com/shopspring/decimal"
)

// Snapshot is an immutable joined catalog. Generation identifies the fetch
// that produced it; Revision counts optimistic stock updates on top of it.
type Snapshot struct {
	Generation   uint64
	Revision     uint64
	LoadedAt     time.Time
	Products     []model.Product
	Metadata     Metadata
	PriceCeiling decimal.Decimal

	bySKU map[string]int
}

func NewSnapshot(generation uint64, products []model.Product, meta Metadata, loadedAt time.Time) *Snapshot {
	s := &Snapshot{
		Generation:   generation,
		LoadedAt:     loadedAt,
		Products:     products,
		Metadata:     meta,
		PriceCeiling: PriceCeiling(products),
	}
	s.index()
	return s
}

func (s *Snapshot) index() {
	s.bySKU = make(map[string]int, len(s.Products))
	for i, p := range s.Products {
		if _, dup := s.bySKU[p.SKU]; !dup {
			s.bySKU[p.SKU] = i
		}
	}
}

func (s *Snapshot) Product(sku string) (model.Product, bool) {
	i, ok := s.bySKU[sku]
	if !ok {
		return model.Product{}, false
	}
	return s.Products[i], true
}

// WithStockDecrement returns a new revision in which the available quantity of
// sku is lowered by qty, floored at zero. The receiver is left untouched.
func (s *Snapshot) WithStockDecrement(sku string, qty int) (*Snapshot, bool) {
	if _, ok := s.bySKU[sku]; !ok {
		return s, false
	}

	products := make([]model.Product, len(s.Products))
	for i, p := range s.Products {
		if p.SKU == sku {
			p.AvailableQty = max(0, p.AvailableQty-qty)
		}
		products[i] = p
	}

	next := &Snapshot{
		Generation:   s.Generation,
		Revision:     s.Revision + 1,
		LoadedAt:     s.LoadedAt,
		Products:     products,
		Metadata:     s.Metadata,
		PriceCeiling: s.PriceCeiling,
		bySKU:        s.bySKU,
	}
	return next, true
}
