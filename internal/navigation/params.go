package navigation

import (
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/fekuna/omnipos-storefront/internal/catalog"
	"github.com/gorilla/schema"
	"github.com/shopspring/decimal"
)

const (
	ParamCategories    = "categories"
	ParamSubcategories = "subcategories"
	ParamMax           = "max"
	ParamStock         = "stock"
	ParamSort          = "sort"
	ParamPage          = "page"
	ParamSize          = "size"
)

// State is the complete, shareable navigation state of a catalog view.
type State struct {
	Filter catalog.FilterState `json:"filter"`
	Sort   catalog.SortMode    `json:"sort"`
	Page   catalog.PageState   `json:"page"`
}

// DefaultState is the view a shopper lands on with no parameters.
func DefaultState() State {
	return State{
		Filter: catalog.FilterState{},
		Sort:   catalog.SortNewest,
		Page:   catalog.PageState{Index: 0, Size: catalog.DefaultPageSize},
	}
}

func (s State) Query() catalog.Query {
	return catalog.Query{Filter: s.Filter, Sort: s.Sort, Page: s.Page}
}

func (s State) Equal(o State) bool {
	return s.Sort == o.Sort && s.Page == o.Page && s.Filter.Equal(o.Filter)
}

// rawParams is what arrives on the wire, before any validation.
type rawParams struct {
	Categories    []string `schema:"categories"`
	Subcategories []string `schema:"subcategories"`
	Max           string   `schema:"max"`
	Stock         string   `schema:"stock"`
	Sort          string   `schema:"sort"`
	Page          string   `schema:"page"`
	Size          string   `schema:"size"`
}

var decoder = schema.NewDecoder()

func init() {
	decoder.IgnoreUnknownKeys(true)
}

// Encode renders s as navigation parameters. Empty selections are omitted;
// sort, page and size are always present.
func Encode(s State) url.Values {
	v := url.Values{}
	if len(s.Filter.Categories) > 0 {
		v.Set(ParamCategories, joinIDs(s.Filter.Categories))
	}
	if len(s.Filter.Subcategories) > 0 {
		v.Set(ParamSubcategories, joinIDs(s.Filter.Subcategories))
	}
	if s.Filter.MaxPrice != nil {
		v.Set(ParamMax, s.Filter.MaxPrice.String())
	}
	if s.Filter.InStockOnly {
		v.Set(ParamStock, "1")
	}

	page := s.Page.Normalize()
	v.Set(ParamSort, string(catalog.ParseSortMode(string(s.Sort))))
	v.Set(ParamPage, strconv.Itoa(page.Index))
	v.Set(ParamSize, strconv.Itoa(page.Size))
	return v
}

// Decode reads navigation parameters leniently. Malformed values fall back to
// their defaults instead of failing.
func Decode(values url.Values) State {
	var raw rawParams
	if err := decoder.Decode(&raw, values); err != nil {
		return DefaultState()
	}

	state := DefaultState()
	state.Filter.Categories = parseIDs(raw.Categories)
	state.Filter.Subcategories = parseIDs(raw.Subcategories)
	state.Filter.MaxPrice = parseMax(raw.Max)
	state.Filter.InStockOnly = raw.Stock == "1" || strings.EqualFold(raw.Stock, "true")
	state.Sort = catalog.ParseSortMode(raw.Sort)

	if page, err := strconv.Atoi(raw.Page); err == nil && page >= 0 {
		state.Page.Index = page
	}
	if size, err := strconv.Atoi(raw.Size); err == nil && size > 0 {
		state.Page.Size = size
	}
	return state
}

// DecodeQuery decodes a raw query string such as "categories=1,2&page=3".
func DecodeQuery(rawQuery string) State {
	values, err := url.ParseQuery(strings.TrimPrefix(rawQuery, "?"))
	if err != nil && len(values) == 0 {
		return DefaultState()
	}
	return Decode(values)
}

func joinIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ",")
}

// parseIDs accepts comma separated positive integers across any number of
// repeated parameters. Bad tokens and duplicates are dropped.
func parseIDs(values []string) []int64 {
	var out []int64
	for _, value := range values {
		for _, token := range strings.Split(value, ",") {
			id, err := strconv.ParseInt(strings.TrimSpace(token), 10, 64)
			if err != nil || id <= 0 || slices.Contains(out, id) {
				continue
			}
			out = append(out, id)
		}
	}
	return out
}

func parseMax(raw string) *decimal.Decimal {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil
	}
	return &d
}
