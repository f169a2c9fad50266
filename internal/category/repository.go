package category

import "github.com/fekuna/omnipos-storefront/internal/catalog"

// SnapshotSource supplies the installed catalog snapshot. Categories have no
// store of their own; they are derived from the products.
type SnapshotSource interface {
	Snapshot() (*catalog.Snapshot, error)
}
