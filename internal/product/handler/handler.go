package handler

import (
	"errors"
	"net/http"

	"github.com/fekuna/omnipos-storefront/internal/catalog"
	"github.com/fekuna/omnipos-storefront/internal/model"
	"github.com/fekuna/omnipos-storefront/internal/navigation"
	"github.com/fekuna/omnipos-storefront/internal/pkg/i18n"
	"github.com/fekuna/omnipos-storefront/internal/pkg/logger"
	"github.com/fekuna/omnipos-storefront/internal/pkg/response"
	"github.com/fekuna/omnipos-storefront/internal/product"
	"github.com/fekuna/omnipos-storefront/internal/product/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ProductHandler struct {
	uc     product.UseCase
	tr     *i18n.Translator
	logger logger.ZapLogger
}

func NewProductHandler(uc product.UseCase, tr *i18n.Translator, log logger.ZapLogger) *ProductHandler {
	return &ProductHandler{
		uc:     uc,
		tr:     tr,
		logger: log,
	}
}

// ListProducts serves the view selected by the navigation parameters of the
// request. Malformed parameters fall back to defaults.
func (h *ProductHandler) ListProducts(c *gin.Context) {
	state := navigation.Decode(c.Request.URL.Query())

	view, err := h.uc.Query(state.Query())
	if err != nil {
		h.fail(c, err)
		return
	}

	state.Filter = view.Filter
	view.Chips = LocalizeChips(c, h.tr, view.Chips, view.Filter)
	c.JSON(http.StatusOK, dto.CatalogPage{
		View:   view,
		Params: navigation.Encode(state).Encode(),
	})
}

func (h *ProductHandler) GetProduct(c *gin.Context) {
	var uri dto.SKUURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.Localized(c, h.tr, http.StatusBadRequest, "INVALID_REQUEST", "invalid_request", nil)
		return
	}

	p, err := h.uc.GetProduct(uri.SKU)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ProductHandler) GetMetadata(c *gin.Context) {
	snap, err := h.uc.Snapshot()
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MetadataResponse{
		Metadata:     snap.Metadata,
		PriceCeiling: snap.PriceCeiling,
		PageSizes:    catalog.PageSizeOptions,
		SortModes:    []catalog.SortMode{catalog.SortNewest, catalog.SortPriceAsc, catalog.SortPriceDesc, catalog.SortNameAsc},
		Generation:   snap.Generation,
		LoadedAt:     snap.LoadedAt,
	})
}

func (h *ProductHandler) Reload(c *gin.Context) {
	snap, err := h.uc.Reload(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ReloadResponse{
		Generation: snap.Generation,
		Products:   len(snap.Products),
		LoadedAt:   snap.LoadedAt,
	})
}

func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	var uri dto.ProductURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.Localized(c, h.tr, http.StatusBadRequest, "INVALID_REQUEST", "invalid_request", nil)
		return
	}
	var input model.ProductUpdate
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", response.Message(c, h.tr, "invalid_request", nil), err.Error())
		return
	}

	p, err := h.uc.UpdateProduct(c.Request.Context(), uri.ID, &input)
	if err != nil {
		h.logger.Error("failed to update product", zap.Int64("product_id", uri.ID), zap.Error(err))
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ProductHandler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, product.ErrCatalogNotLoaded):
		response.Localized(c, h.tr, http.StatusServiceUnavailable, "CATALOG_NOT_LOADED", "catalog_not_loaded", nil)
	case errors.Is(err, product.ErrCatalogUnavailable):
		response.Localized(c, h.tr, http.StatusServiceUnavailable, "CATALOG_UNAVAILABLE", "catalog_unavailable", nil)
	case errors.Is(err, product.ErrProductNotFound):
		response.Localized(c, h.tr, http.StatusNotFound, "PRODUCT_NOT_FOUND", "product_not_found", nil)
	default:
		response.Upstream(c, h.tr, err, "catalog_unavailable")
	}
}

// LocalizeChips translates the labels of the price and stock chips. Category
// and subcategory chips carry catalog names and are left alone.
func LocalizeChips(c *gin.Context, tr *i18n.Translator, chips []catalog.Chip, f catalog.FilterState) []catalog.Chip {
	out := make([]catalog.Chip, len(chips))
	for i, chip := range chips {
		switch chip.Key {
		case catalog.ChipStock:
			chip.Label = response.Message(c, tr, "chip_in_stock", nil)
		case catalog.ChipMax:
			if f.MaxPrice != nil {
				chip.Label = response.Message(c, tr, "chip_max_price", map[string]any{"Max": f.MaxPrice.String()})
			}
		}
		out[i] = chip
	}
	return out
}
