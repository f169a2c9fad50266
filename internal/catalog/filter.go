package catalog

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/fekuna/omnipos-storefront/internal/model"
	"github.com/shopspring/decimal"
)

// FilterState is the set of facet selections. A nil MaxPrice means no ceiling.
type FilterState struct {
	Categories    []int64          `json:"categories"`
	Subcategories []int64          `json:"subcategories"`
	MaxPrice      *decimal.Decimal `json:"max"`
	InStockOnly   bool             `json:"stock"`
}

func (f FilterState) Clone() FilterState {
	out := FilterState{
		Categories:    slices.Clone(f.Categories),
		Subcategories: slices.Clone(f.Subcategories),
		InStockOnly:   f.InStockOnly,
	}
	if f.MaxPrice != nil {
		v := *f.MaxPrice
		out.MaxPrice = &v
	}
	return out
}

func (f FilterState) IsZero() bool {
	return len(f.Categories) == 0 && len(f.Subcategories) == 0 && f.MaxPrice == nil && !f.InStockOnly
}

// Equal compares selections as sets.
func (f FilterState) Equal(o FilterState) bool {
	if f.InStockOnly != o.InStockOnly {
		return false
	}
	if (f.MaxPrice == nil) != (o.MaxPrice == nil) {
		return false
	}
	if f.MaxPrice != nil && !f.MaxPrice.Equal(*o.MaxPrice) {
		return false
	}
	return sameSet(f.Categories, o.Categories) && sameSet(f.Subcategories, o.Subcategories)
}

func sameSet(a, b []int64) bool {
	as := slices.Clone(a)
	bs := slices.Clone(b)
	slices.Sort(as)
	slices.Sort(bs)
	return slices.Equal(slices.Compact(as), slices.Compact(bs))
}

// ApplyFilter keeps the products matching every active facet. Selected ids are
// resolved to names through meta; ids that resolve to nothing are ignored.
func ApplyFilter(products []model.Product, f FilterState, meta Metadata) []model.Product {
	categoryNames := make(map[string]struct{})
	if len(f.Categories) > 0 {
		byID := meta.categoryNames()
		for _, id := range f.Categories {
			if name, ok := byID[id]; ok {
				categoryNames[name] = struct{}{}
			}
		}
	}

	subcategoryNames := make(map[string]struct{})
	if len(f.Subcategories) > 0 {
		byID := meta.subcategoriesByID()
		for _, id := range f.Subcategories {
			if sub, ok := byID[id]; ok {
				subcategoryNames[sub.Name] = struct{}{}
			}
		}
	}

	out := make([]model.Product, 0, len(products))
	for _, p := range products {
		if len(categoryNames) > 0 {
			if _, ok := categoryNames[CategoryName(p.Category)]; !ok {
				continue
			}
		}
		if len(subcategoryNames) > 0 {
			if _, ok := subcategoryNames[SubcategoryName(p.Subcategory)]; !ok {
				continue
			}
		}
		if f.MaxPrice != nil && p.Price.GreaterThan(*f.MaxPrice) {
			continue
		}
		if f.InStockOnly && p.AvailableQty <= 0 {
			continue
		}
		out = append(out, p)
	}
	return out
}

// PruneSubcategories drops subcategory selections that do not belong to any
// selected category. Without a category selection every subcategory is valid,
// and so is every selection while no metadata has been derived yet.
func PruneSubcategories(f FilterState, meta Metadata) FilterState {
	if len(f.Categories) == 0 || len(f.Subcategories) == 0 || len(meta.Subcategories) == 0 {
		return f
	}

	selected := make(map[int64]struct{}, len(f.Categories))
	for _, id := range f.Categories {
		selected[id] = struct{}{}
	}
	allowed := make(map[int64]struct{})
	for _, s := range meta.Subcategories {
		if _, ok := selected[s.CategoryID]; ok {
			allowed[s.ID] = struct{}{}
		}
	}

	next := make([]int64, 0, len(f.Subcategories))
	for _, id := range f.Subcategories {
		if _, ok := allowed[id]; ok {
			next = append(next, id)
		}
	}
	if len(next) == len(f.Subcategories) {
		return f
	}
	out := f.Clone()
	out.Subcategories = next
	return out
}

const (
	ChipStock = "stock"
	ChipMax   = "max"
)

// Chip is one removable active filter shown above the product grid.
type Chip struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

func Chips(f FilterState, meta Metadata) []Chip {
	chips := []Chip{}
	categoryNames := meta.categoryNames()
	for _, id := range f.Categories {
		if name, ok := categoryNames[id]; ok {
			chips = append(chips, Chip{Key: fmt.Sprintf("cat:%d", id), Label: name})
		}
	}
	subcategories := meta.subcategoriesByID()
	for _, id := range f.Subcategories {
		if sub, ok := subcategories[id]; ok {
			chips = append(chips, Chip{Key: fmt.Sprintf("sub:%d", id), Label: sub.Name})
		}
	}
	if f.MaxPrice != nil {
		chips = append(chips, Chip{Key: ChipMax, Label: "Up to EUR " + f.MaxPrice.String()})
	}
	if f.InStockOnly {
		chips = append(chips, Chip{Key: ChipStock, Label: "In stock only"})
	}
	return chips
}

// RemoveChip clears the facet selection identified by key. It reports false
// for keys that match nothing.
func (f FilterState) RemoveChip(key string) (FilterState, bool) {
	out := f.Clone()
	switch {
	case key == ChipStock:
		out.InStockOnly = false
		return out, f.InStockOnly
	case key == ChipMax:
		out.MaxPrice = nil
		return out, f.MaxPrice != nil
	case strings.HasPrefix(key, "cat:"):
		id, err := strconv.ParseInt(strings.TrimPrefix(key, "cat:"), 10, 64)
		if err != nil {
			return f, false
		}
		out.Categories = slices.DeleteFunc(out.Categories, func(v int64) bool { return v == id })
		return out, len(out.Categories) != len(f.Categories)
	case strings.HasPrefix(key, "sub:"):
		id, err := strconv.ParseInt(strings.TrimPrefix(key, "sub:"), 10, 64)
		if err != nil {
			return f, false
		}
		out.Subcategories = slices.DeleteFunc(out.Subcategories, func(v int64) bool { return v == id })
		return out, len(out.Subcategories) != len(f.Subcategories)
	}
	return f, false
}

// ClearFilters returns the state with no facet selected.
func ClearFilters() FilterState {
	return FilterState{}
}
