package model

type CartItem struct {
	ID        int64  `json:"id"`
	UserEmail string `json:"userEmail"`
	SKU       string `json:"sku"`
	ItemName  string `json:"itemName"`
	Quantity  int    `json:"quantity"`
}

// CartUpsert sets the absolute quantity of one cart line.
type CartUpsert struct {
	UserEmail string `json:"userEmail"`
	SKU       string `json:"sku"`
	ItemName  string `json:"itemName"`
	Quantity  int    `json:"quantity"`
}
