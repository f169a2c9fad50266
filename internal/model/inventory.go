package model

type InventoryItem struct {
	ID               int64  `db:"id" json:"id"`
	SKU              string `db:"sku" json:"sku"`
	ProductName      string `db:"product_name" json:"productName"`
	TotalQty         int    `db:"total_qty" json:"totalQty"`
	ReservedQty      int    `db:"reserved_qty" json:"reservedQty"`
	AvailableQty     int    `db:"available_qty" json:"availableQty"`
	ReorderThreshold int    `db:"reorder_threshold" json:"reorderThreshold"`
}

type LowStockItem struct {
	SKU          string `db:"sku" json:"sku"`
	ProductName  string `db:"product_name" json:"productName"`
	AvailableQty int    `db:"available_qty" json:"availableQty"`
	ThresholdQty int    `db:"threshold_qty" json:"thresholdQty"`
}

type InventoryAdjustment struct {
	SKU              string `json:"sku" binding:"required"`
	QuantityDelta    int    `json:"quantityDelta"`
	Reason           string `json:"reason" binding:"required"`
	ReorderThreshold *int   `json:"reorderThreshold,omitempty"`
}
