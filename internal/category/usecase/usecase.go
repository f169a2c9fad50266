package usecase

import (
	"strings"

	"github.com/fekuna/omnipos-storefront/internal/catalog"
	"github.com/fekuna/omnipos-storefront/internal/category"
	"github.com/fekuna/omnipos-storefront/internal/category/dto"
	"github.com/fekuna/omnipos-storefront/internal/pkg/logger"
	"go.uber.org/zap"
)

type categoryUseCase struct {
	source category.SnapshotSource
	logger logger.ZapLogger
}

func NewCategoryUseCase(source category.SnapshotSource, log logger.ZapLogger) category.UseCase {
	return &categoryUseCase{
		source: source,
		logger: log,
	}
}

func (uc *categoryUseCase) ListCategories(filters *dto.CategoryFilters) ([]dto.Category, error) {
	snap, err := uc.source.Snapshot()
	if err != nil {
		return nil, err
	}
	counts := countProducts(snap, filters, func(category, _ string) int64 { return catalog.StableID(category) })

	out := make([]dto.Category, 0, len(snap.Metadata.Categories))
	for _, c := range snap.Metadata.Categories {
		if !matches(c.Name, filters) {
			continue
		}
		out = append(out, dto.Category{CategoryOption: c, ProductCount: counts[c.ID]})
	}
	return out, nil
}

func (uc *categoryUseCase) ListSubcategories(categoryID int64, filters *dto.CategoryFilters) ([]dto.Subcategory, error) {
	snap, err := uc.source.Snapshot()
	if err != nil {
		return nil, err
	}
	if !hasCategory(snap.Metadata, categoryID) {
		uc.logger.Debug("unknown category requested", zap.Int64("category_id", categoryID))
		return nil, category.ErrCategoryNotFound
	}
	counts := countProducts(snap, filters, catalog.SubcategoryID)

	subs := snap.Metadata.SubcategoriesOf(categoryID)
	out := make([]dto.Subcategory, 0, len(subs))
	for _, s := range subs {
		if !matches(s.Name, filters) {
			continue
		}
		out = append(out, dto.Subcategory{SubcategoryOption: s, ProductCount: counts[s.ID]})
	}
	return out, nil
}

func hasCategory(meta catalog.Metadata, id int64) bool {
	for _, c := range meta.Categories {
		if c.ID == id {
			return true
		}
	}
	return false
}

func countProducts(snap *catalog.Snapshot, filters *dto.CategoryFilters, key func(category, subcategory string) int64) map[int64]int {
	counts := make(map[int64]int)
	for _, p := range snap.Products {
		if filters != nil && filters.InStockOnly && p.AvailableQty <= 0 {
			continue
		}
		counts[key(catalog.CategoryName(p.Category), catalog.SubcategoryName(p.Subcategory))]++
	}
	return counts
}

func matches(name string, filters *dto.CategoryFilters) bool {
	if filters == nil || strings.TrimSpace(filters.Search) == "" {
		return true
	}
	return strings.Contains(strings.ToLower(name), strings.ToLower(strings.TrimSpace(filters.Search)))
}
