package catalog

import (
	"github.com/fekuna/omnipos-storefront/internal/model"
	"github.com/shopspring/decimal"
)

const DefaultPageSize = 12

// PageSizeOptions are the page sizes offered to shoppers.
var PageSizeOptions = []int{8, 12, 24}

type PageState struct {
	Index int `json:"page"`
	Size  int `json:"size"`
}

func (p PageState) Normalize() PageState {
	if p.Index < 0 {
		p.Index = 0
	}
	if p.Size <= 0 {
		p.Size = DefaultPageSize
	}
	return p
}

// Page is one window of a sorted list. TotalElements counts the whole list.
type Page struct {
	Items         []model.Product `json:"content"`
	TotalElements int             `json:"totalElements"`
	Index         int             `json:"page"`
	Size          int             `json:"size"`
}

// Paginate slices products to [Index*Size, Index*Size+Size). A window past
// the end yields an empty page.
func Paginate(products []model.Product, state PageState) Page {
	state = state.Normalize()
	page := Page{
		Items:         []model.Product{},
		TotalElements: len(products),
		Index:         state.Index,
		Size:          state.Size,
	}

	if state.Index > len(products)/state.Size {
		return page
	}
	from := state.Index * state.Size
	if from >= len(products) {
		return page
	}
	to := min(from+state.Size, len(products))
	page.Items = products[from:to]
	return page
}

// PriceCeiling is the upper bound of the price slider: the highest price
// rounded up, never below 1.
func PriceCeiling(products []model.Product) decimal.Decimal {
	ceiling := decimal.NewFromInt(1)
	for _, p := range products {
		if c := p.Price.Ceil(); c.GreaterThan(ceiling) {
			ceiling = c
		}
	}
	return ceiling
}
