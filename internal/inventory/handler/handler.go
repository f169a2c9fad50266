package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/fekuna/omnipos-storefront/internal/inventory"
	"github.com/fekuna/omnipos-storefront/internal/model"
	"github.com/fekuna/omnipos-storefront/internal/pkg/i18n"
	"github.com/fekuna/omnipos-storefront/internal/pkg/logger"
	"github.com/fekuna/omnipos-storefront/internal/pkg/response"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type InventoryHandler struct {
	uc     inventory.UseCase
	tr     *i18n.Translator
	logger logger.ZapLogger
}

func NewInventoryHandler(uc inventory.UseCase, tr *i18n.Translator, log logger.ZapLogger) *InventoryHandler {
	return &InventoryHandler{
		uc:     uc,
		tr:     tr,
		logger: log,
	}
}

func (h *InventoryHandler) ListLowStock(c *gin.Context) {
	items, err := h.uc.ListLowStock(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to list low stock", zap.Error(err))
		response.Upstream(c, h.tr, err, "inventory_unavailable")
		return
	}
	c.JSON(http.StatusOK, items)
}

// Availability answers live stock levels for the sku query values, given as
// repeated parameters or comma separated.
func (h *InventoryHandler) Availability(c *gin.Context) {
	var skus []string
	for _, raw := range c.QueryArray("sku") {
		for _, sku := range strings.Split(raw, ",") {
			if sku = strings.TrimSpace(sku); sku != "" {
				skus = append(skus, sku)
			}
		}
	}
	if len(skus) == 0 {
		response.Localized(c, h.tr, http.StatusBadRequest, "INVALID_REQUEST", "invalid_request", nil)
		return
	}

	levels, err := h.uc.Availability(c.Request.Context(), skus)
	if err != nil {
		h.logger.Warn("availability lookup failed", zap.Strings("skus", skus), zap.Error(err))
		response.Upstream(c, h.tr, err, "availability_failed")
		return
	}
	c.JSON(http.StatusOK, levels)
}

func (h *InventoryHandler) AdjustInventory(c *gin.Context) {
	var input model.InventoryAdjustment
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", response.Message(c, h.tr, "invalid_request", nil), err.Error())
		return
	}

	item, err := h.uc.AdjustInventory(c.Request.Context(), &input)
	if err != nil {
		h.logger.Error("failed to adjust inventory", zap.String("sku", input.SKU), zap.Error(err))
		switch {
		case errors.Is(err, inventory.ErrItemNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
		case errors.Is(err, inventory.ErrInsufficientStock):
			response.Error(c, http.StatusConflict, "INSUFFICIENT_STOCK", err.Error())
		default:
			response.Upstream(c, h.tr, err, "inventory_unavailable")
		}
		return
	}
	c.JSON(http.StatusOK, item)
}
