package dto

import (
	"github.com/fekuna/omnipos-storefront/internal/catalog"
	"github.com/fekuna/omnipos-storefront/internal/navigation"
	"github.com/shopspring/decimal"
)

type CreateSessionRequest struct {
	// ID restores an earlier session when its parameters are still stored.
	ID     string `json:"id"`
	Params string `json:"params"`
}

type ParamsRequest struct {
	Params string `json:"params"`
}

type FilterRequest struct {
	Categories    []int64          `json:"categories"`
	Subcategories []int64          `json:"subcategories"`
	Max           *decimal.Decimal `json:"max"`
	Stock         bool             `json:"stock"`
}

func (r FilterRequest) FilterState() catalog.FilterState {
	return catalog.FilterState{
		Categories:    r.Categories,
		Subcategories: r.Subcategories,
		MaxPrice:      r.Max,
		InStockOnly:   r.Stock,
	}
}

type SortRequest struct {
	Sort catalog.SortMode `json:"sort" binding:"required"`
}

type PageRequest struct {
	Page int `json:"page"`
	Size int `json:"size"`
}

// SessionView is the session's navigation state together with the catalog
// page it selects.
type SessionView struct {
	ID     string           `json:"id"`
	State  navigation.State `json:"state"`
	Params string           `json:"params"`
	View   *catalog.View    `json:"view,omitempty"`
}
