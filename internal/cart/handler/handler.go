package handler

import (
	"errors"
	"net/http"

	"github.com/fekuna/omnipos-storefront/internal/cart"
	"github.com/fekuna/omnipos-storefront/internal/pkg/i18n"
	"github.com/fekuna/omnipos-storefront/internal/pkg/logger"
	"github.com/fekuna/omnipos-storefront/internal/pkg/response"
	"github.com/fekuna/omnipos-storefront/internal/product"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CartHandler struct {
	uc     cart.UseCase
	tr     *i18n.Translator
	logger logger.ZapLogger
}

func NewCartHandler(uc cart.UseCase, tr *i18n.Translator, log logger.ZapLogger) *CartHandler {
	return &CartHandler{
		uc:     uc,
		tr:     tr,
		logger: log,
	}
}

type addItemResponse struct {
	*cart.AddItemResult
	Message string `json:"message"`
}

type quantityInput struct {
	Quantity int `json:"quantity"`
}

func (h *CartHandler) GetCart(c *gin.Context) {
	view, err := h.uc.GetCart(c.Request.Context())
	if err != nil {
		h.fail(c, err, "cart_load_failed")
		return
	}
	if view.Warning != "" {
		view.Warning = response.Message(c, h.tr, view.Warning, nil)
	}
	c.JSON(http.StatusOK, view)
}

func (h *CartHandler) AddItem(c *gin.Context) {
	var input cart.AddItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", response.Message(c, h.tr, "invalid_request", nil), err.Error())
		return
	}

	result, err := h.uc.AddItem(c.Request.Context(), input)
	if err != nil {
		h.fail(c, err, "cart_add_failed")
		return
	}
	c.JSON(http.StatusOK, addItemResponse{
		AddItemResult: result,
		Message:       response.Message(c, h.tr, "cart_added", map[string]any{"Name": result.Item.ItemName}),
	})
}

func (h *CartHandler) SetQuantity(c *gin.Context) {
	var input quantityInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", response.Message(c, h.tr, "invalid_request", nil), err.Error())
		return
	}

	item, err := h.uc.SetQuantity(c.Request.Context(), c.Param("sku"), input.Quantity)
	if err != nil {
		h.fail(c, err, "cart_update_failed")
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	if err := h.uc.RemoveItem(c.Request.Context(), c.Param("sku")); err != nil {
		h.fail(c, err, "cart_remove_failed")
		return
	}
	c.Status(http.StatusNoContent)
}

// fail maps cart errors to responses. Collaborator messages are passed
// through verbatim; fallbackID covers collaborator errors without one.
func (h *CartHandler) fail(c *gin.Context, err error, fallbackID string) {
	var verr *cart.ValidationError
	switch {
	case errors.As(err, &verr):
		response.Localized(c, h.tr, verr.Status, verr.Code, verr.MessageID, verr.Data)
	case errors.Is(err, product.ErrCatalogNotLoaded), errors.Is(err, product.ErrCatalogUnavailable):
		response.Localized(c, h.tr, http.StatusServiceUnavailable, "CATALOG_NOT_LOADED", "catalog_not_loaded", nil)
	case errors.Is(err, product.ErrProductNotFound), errors.Is(err, cart.ErrLineNotFound):
		response.Localized(c, h.tr, http.StatusNotFound, "NOT_FOUND", "product_not_found", nil)
	case errors.Is(err, cart.ErrCartLoad):
		h.logger.Warn("cart load failed", zap.Error(err))
		response.Localized(c, h.tr, http.StatusBadGateway, "CART_UNAVAILABLE", "cart_load_failed", nil)
	default:
		h.logger.Warn("cart collaborator failed", zap.Error(err))
		response.Upstream(c, h.tr, err, fallbackID)
	}
}
