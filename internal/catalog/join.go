package catalog

import "github.com/fekuna/omnipos-storefront/internal/model"

func QuantityBySKU(items []model.InventoryItem) map[string]int {
	out := make(map[string]int, len(items))
	for _, item := range items {
		out[item.SKU] = item.AvailableQty
	}
	return out
}

// JoinInventory copies products with AvailableQty taken from bySKU; SKUs
// missing from the map get 0.
func JoinInventory(products []model.Product, bySKU map[string]int) []model.Product {
	out := make([]model.Product, len(products))
	for i, p := range products {
		p.AvailableQty = bySKU[p.SKU]
		out[i] = p
	}
	return out
}
