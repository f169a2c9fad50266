package dto

import (
	"time"

	"github.com/fekuna/omnipos-storefront/internal/catalog"
	"github.com/shopspring/decimal"
)

// CatalogPage is one filtered, sorted and paged view plus the parameters
// that reproduce it.
type CatalogPage struct {
	catalog.View
	Params string `json:"params"`
}

type MetadataResponse struct {
	catalog.Metadata
	PriceCeiling decimal.Decimal    `json:"priceCeiling"`
	PageSizes    []int              `json:"pageSizes"`
	SortModes    []catalog.SortMode `json:"sortModes"`
	Generation   uint64             `json:"generation"`
	LoadedAt     time.Time          `json:"loadedAt"`
}

type ReloadResponse struct {
	Generation uint64    `json:"generation"`
	Products   int       `json:"products"`
	LoadedAt   time.Time `json:"loadedAt"`
}
