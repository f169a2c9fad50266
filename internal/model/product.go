package model

import "github.com/shopspring/decimal"

// Product is a catalog entry as served by the catalog service. AvailableQty is
// not part of the catalog record; it is joined from inventory by SKU.
type Product struct {
	ID              int64               `db:"id" json:"id"`
	Name            string              `db:"name" json:"name"`
	SKU             string              `db:"sku" json:"sku"`
	Category        string              `db:"category" json:"category"`
	Subcategory     string              `db:"subcategory" json:"subcategory"`
	Price           decimal.Decimal     `db:"price" json:"price"`
	DiscountPercent decimal.NullDecimal `db:"discount_percent" json:"discountPercent"`
	TaxPercent      decimal.NullDecimal `db:"tax_percent" json:"taxPercent"`
	Unit            string              `db:"unit" json:"unit"`
	ImageURL        *string             `db:"image_url" json:"imageUrl,omitempty"`
	Description     *string             `db:"description" json:"description,omitempty"`
	AvailableQty    int                 `db:"-" json:"availableQty"`
}

// ProductUpdate is the admin edit payload forwarded to the catalog service.
type ProductUpdate struct {
	Name            string              `json:"name" binding:"required"`
	Price           decimal.Decimal     `json:"price"`
	TaxPercent      decimal.Decimal     `json:"taxPercent"`
	DiscountPercent decimal.NullDecimal `json:"discountPercent"`
	Unit            string              `json:"unit" binding:"required"`
	Description     *string             `json:"description,omitempty"`
	ImageURL        *string             `json:"imageUrl,omitempty"`
}
