package dto

type ProductURI struct {
	ID int64 `uri:"id" binding:"required,min=1"`
}

type SKUURI struct {
	SKU string `uri:"sku" binding:"required"`
}
