package catalog

import (
	"slices"
	"strings"
	"unicode/utf16"

	"github.com/fekuna/omnipos-storefront/internal/model"
)

const (
	UnknownCategory    = "Unknown"
	GeneralSubcategory = "General"
)

type CategoryOption struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type SubcategoryOption struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	CategoryID   int64  `json:"categoryId"`
	CategoryName string `json:"categoryName"`
}

// Metadata is the taxonomy derived from a product list. It is never persisted.
type Metadata struct {
	Categories    []CategoryOption    `json:"categories"`
	Subcategories []SubcategoryOption `json:"subcategories"`
}

// StableID hashes s into a positive, non-zero identifier. It is a 32-bit
// polynomial hash over UTF-16 code units, so distinct names can collide.
func StableID(s string) int64 {
	var h int32
	for _, unit := range utf16.Encode([]rune(s)) {
		h = h*31 + int32(unit)
	}
	v := int64(h)
	if v < 0 {
		v = -v
	}
	return v + 1
}

func CategoryName(raw string) string {
	if name := strings.TrimSpace(raw); name != "" {
		return name
	}
	return UnknownCategory
}

func SubcategoryName(raw string) string {
	if name := strings.TrimSpace(raw); name != "" {
		return name
	}
	return GeneralSubcategory
}

func subcategoryKey(category, subcategory string) string {
	return category + "::" + subcategory
}

// SubcategoryID identifies a subcategory within its normalized category.
func SubcategoryID(category, subcategory string) int64 {
	return StableID(subcategoryKey(category, subcategory))
}

// DeriveMetadata builds the deduplicated category and subcategory options of
// products, both ordered by name under coll.
func DeriveMetadata(products []model.Product, coll Collation) Metadata {
	meta := Metadata{
		Categories:    []CategoryOption{},
		Subcategories: []SubcategoryOption{},
	}
	seenCategories := make(map[string]struct{})
	seenSubcategories := make(map[string]struct{})

	for _, p := range products {
		category := CategoryName(p.Category)
		subcategory := SubcategoryName(p.Subcategory)
		categoryID := StableID(category)

		if _, ok := seenCategories[category]; !ok {
			seenCategories[category] = struct{}{}
			meta.Categories = append(meta.Categories, CategoryOption{ID: categoryID, Name: category})
		}

		key := subcategoryKey(category, subcategory)
		if _, ok := seenSubcategories[key]; !ok {
			seenSubcategories[key] = struct{}{}
			meta.Subcategories = append(meta.Subcategories, SubcategoryOption{
				ID:           SubcategoryID(category, subcategory),
				Name:         subcategory,
				CategoryID:   categoryID,
				CategoryName: category,
			})
		}
	}

	cmp := coll.Compare()
	slices.SortStableFunc(meta.Categories, func(a, b CategoryOption) int { return cmp(a.Name, b.Name) })
	slices.SortStableFunc(meta.Subcategories, func(a, b SubcategoryOption) int { return cmp(a.Name, b.Name) })
	return meta
}

func (m Metadata) categoryNames() map[int64]string {
	out := make(map[int64]string, len(m.Categories))
	for _, c := range m.Categories {
		out[c.ID] = c.Name
	}
	return out
}

func (m Metadata) subcategoriesByID() map[int64]SubcategoryOption {
	out := make(map[int64]SubcategoryOption, len(m.Subcategories))
	for _, s := range m.Subcategories {
		out[s.ID] = s
	}
	return out
}

// SubcategoriesOf lists the subcategories whose parent is categoryID.
func (m Metadata) SubcategoriesOf(categoryID int64) []SubcategoryOption {
	out := []SubcategoryOption{}
	for _, s := range m.Subcategories {
		if s.CategoryID == categoryID {
			out = append(out, s)
		}
	}
	return out
}
