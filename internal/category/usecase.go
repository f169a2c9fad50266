package category

import (
	"errors"

	"github.com/fekuna/omnipos-storefront/internal/category/dto"
)

var ErrCategoryNotFound = errors.New("category not found")

type UseCase interface {
	ListCategories(filters *dto.CategoryFilters) ([]dto.Category, error)
	// ListSubcategories returns the subcategories of one category, ordered by
	// name.
	ListSubcategories(categoryID int64, filters *dto.CategoryFilters) ([]dto.Subcategory, error)
}
