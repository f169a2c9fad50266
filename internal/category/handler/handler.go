package handler

import (
	"errors"
	"net/http"

	"github.com/fekuna/omnipos-storefront/internal/category"
	"github.com/fekuna/omnipos-storefront/internal/category/dto"
	"github.com/fekuna/omnipos-storefront/internal/pkg/i18n"
	"github.com/fekuna/omnipos-storefront/internal/pkg/logger"
	"github.com/fekuna/omnipos-storefront/internal/pkg/response"
	"github.com/fekuna/omnipos-storefront/internal/product"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CategoryHandler struct {
	uc     category.UseCase
	tr     *i18n.Translator
	logger logger.ZapLogger
}

func NewCategoryHandler(uc category.UseCase, tr *i18n.Translator, log logger.ZapLogger) *CategoryHandler {
	return &CategoryHandler{
		uc:     uc,
		tr:     tr,
		logger: log,
	}
}

type listResponse[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

func (h *CategoryHandler) ListCategories(c *gin.Context) {
	var filters dto.CategoryFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", response.Message(c, h.tr, "invalid_request", nil), err.Error())
		return
	}

	cats, err := h.uc.ListCategories(&filters)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, listResponse[dto.Category]{Items: cats, Total: len(cats)})
}

func (h *CategoryHandler) ListSubcategories(c *gin.Context) {
	var uri dto.CategoryURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", response.Message(c, h.tr, "invalid_request", nil), err.Error())
		return
	}
	var filters dto.CategoryFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", response.Message(c, h.tr, "invalid_request", nil), err.Error())
		return
	}

	subs, err := h.uc.ListSubcategories(uri.ID, &filters)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, listResponse[dto.Subcategory]{Items: subs, Total: len(subs)})
}

func (h *CategoryHandler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, category.ErrCategoryNotFound):
		response.Localized(c, h.tr, http.StatusNotFound, "CATEGORY_NOT_FOUND", "category_not_found", nil)
	case errors.Is(err, product.ErrCatalogNotLoaded), errors.Is(err, product.ErrCatalogUnavailable):
		response.Localized(c, h.tr, http.StatusServiceUnavailable, "CATALOG_NOT_LOADED", "catalog_not_loaded", nil)
	default:
		h.logger.Error("failed to list categories", zap.Error(err))
		response.Localized(c, h.tr, http.StatusInternalServerError, "INTERNAL", "internal_error", nil)
	}
}
