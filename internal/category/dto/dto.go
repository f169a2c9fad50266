package dto

import "github.com/fekuna/omnipos-storefront/internal/catalog"

type CategoryFilters struct {
	// Search keeps options whose name contains it, ignoring case.
	Search      string `form:"q"`
	InStockOnly bool   `form:"stock"`
}

type Category struct {
	catalog.CategoryOption
	ProductCount int `json:"productCount"`
}

type Subcategory struct {
	catalog.SubcategoryOption
	ProductCount int `json:"productCount"`
}
