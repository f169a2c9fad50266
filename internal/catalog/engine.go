package catalog

import (
	"time"

	"github.com/fekuna/omnipos-storefront/internal/model"
	"github.com/shopspring/decimal"
)

// Query is everything that selects one view of the catalog.
type Query struct {
	Filter FilterState
	Sort   SortMode
	Page   PageState
}

// View is the result of running a Query against a Snapshot.
type View struct {
	Page
	Filter       FilterState     `json:"filter"`
	Sort         SortMode        `json:"sort"`
	Chips        []Chip          `json:"chips"`
	PriceCeiling decimal.Decimal `json:"priceCeiling"`
	Generation   uint64          `json:"generation"`
	Revision     uint64          `json:"revision"`
}

// Engine builds snapshots and evaluates queries against them.
type Engine struct {
	coll Collation
}

func NewEngine(locale string) *Engine {
	return &Engine{coll: NewCollation(locale)}
}

func (e *Engine) Collation() Collation {
	return e.coll
}

// Build joins products with inventory and derives metadata once for
// generation. Revisions of the snapshot share that metadata.
func (e *Engine) Build(generation uint64, products []model.Product, inventory []model.InventoryItem) *Snapshot {
	joined := JoinInventory(products, QuantityBySKU(inventory))
	meta := DeriveMetadata(joined, e.coll)
	return NewSnapshot(generation, joined, meta, time.Now())
}

// Run filters, sorts and pages snap. Stale subcategory selections are pruned
// before filtering.
func (e *Engine) Run(snap *Snapshot, q Query) View {
	filter := PruneSubcategories(q.Filter, snap.Metadata)
	sorted := Sort(ApplyFilter(snap.Products, filter, snap.Metadata), q.Sort, e.coll)

	return View{
		Page:         Paginate(sorted, q.Page),
		Filter:       filter,
		Sort:         ParseSortMode(string(q.Sort)),
		Chips:        Chips(filter, snap.Metadata),
		PriceCeiling: snap.PriceCeiling,
		Generation:   snap.Generation,
		Revision:     snap.Revision,
	}
}
