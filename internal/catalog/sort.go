package catalog

import (
	"cmp"
	"slices"

	"github.com/fekuna/omnipos-storefront/internal/model"
)

type SortMode string

const (
	SortNewest    SortMode = "NEWEST"
	SortPriceAsc  SortMode = "PRICE_ASC"
	SortPriceDesc SortMode = "PRICE_DESC"
	SortNameAsc   SortMode = "NAME_ASC"
)

// ParseSortMode falls back to SortNewest for anything unrecognized.
func ParseSortMode(s string) SortMode {
	switch mode := SortMode(s); mode {
	case SortNewest, SortPriceAsc, SortPriceDesc, SortNameAsc:
		return mode
	}
	return SortNewest
}

// Sort returns a sorted copy of products. The sort is stable: ties keep their
// input order. SortNewest orders by descending product id.
func Sort(products []model.Product, mode SortMode, coll Collation) []model.Product {
	out := slices.Clone(products)
	if out == nil {
		out = []model.Product{}
	}

	var compare func(a, b model.Product) int
	switch mode {
	case SortPriceAsc:
		compare = func(a, b model.Product) int { return a.Price.Cmp(b.Price) }
	case SortPriceDesc:
		compare = func(a, b model.Product) int { return b.Price.Cmp(a.Price) }
	case SortNameAsc:
		names := coll.Compare()
		compare = func(a, b model.Product) int { return names(a.Name, b.Name) }
	default:
		compare = func(a, b model.Product) int { return cmp.Compare(b.ID, a.ID) }
	}

	slices.SortStableFunc(out, compare)
	return out
}
