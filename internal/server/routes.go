package server

import (
	"github.com/fekuna/omnipos-storefront/internal/auth"
	"github.com/fekuna/omnipos-storefront/internal/pkg/i18n"
	"github.com/gin-gonic/gin"
)

func setupCatalogRoutes(api *gin.RouterGroup, h Handlers) {
	catalog := api.Group("/catalog")
	{
		catalog.GET("/products", h.Product.ListProducts)
		catalog.GET("/products/:sku", h.Product.GetProduct)
		catalog.GET("/metadata", h.Product.GetMetadata)
		catalog.GET("/categories", h.Category.ListCategories)
		catalog.GET("/categories/:id/subcategories", h.Category.ListSubcategories)
		catalog.POST("/reload", h.Product.Reload)
	}
	api.GET("/inventory/availability", h.Inventory.Availability)
}

func setupCartRoutes(api *gin.RouterGroup, h Handlers, tr *i18n.Translator) {
	cart := api.Group("/cart")
	cart.Use(auth.RequireAuth(tr))
	{
		cart.GET("", h.Cart.GetCart)
		cart.POST("/items", h.Cart.AddItem)
		cart.PUT("/items/:sku", h.Cart.SetQuantity)
		cart.DELETE("/items/:sku", h.Cart.RemoveItem)
	}
}

func setupSessionRoutes(api *gin.RouterGroup, h Handlers) {
	sessions := api.Group("/sessions")
	{
		sessions.POST("", h.Session.CreateSession)
		sessions.GET("/:id", h.Session.GetSession)
		sessions.PUT("/:id/params", h.Session.ApplyParams)
		sessions.PATCH("/:id/filters", h.Session.EditFilters)
		sessions.PUT("/:id/sort", h.Session.SetSort)
		sessions.PUT("/:id/page", h.Session.SetPage)
		sessions.DELETE("/:id/chips/:key", h.Session.RemoveChip)
		sessions.POST("/:id/clear", h.Session.ClearFilters)
		sessions.GET("/:id/events", h.Session.Events)
		sessions.DELETE("/:id", h.Session.EndSession)
	}
}

func setupAdminRoutes(api *gin.RouterGroup, h Handlers, tr *i18n.Translator) {
	admin := api.Group("/admin")
	admin.Use(auth.RequireRole(tr, auth.RoleAdmin))
	{
		admin.GET("/inventory/low-stock", h.Inventory.ListLowStock)
		admin.POST("/inventory/adjust", h.Inventory.AdjustInventory)
		admin.PATCH("/products/:id", h.Product.UpdateProduct)
	}
}
