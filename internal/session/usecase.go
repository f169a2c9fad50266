package session

import (
	"context"
	"errors"
	"net/url"
	"time"

	"github.com/fekuna/omnipos-storefront/internal/catalog"
)

var ErrSessionNotFound = errors.New("session not found")

// Catalog is the part of the catalog browse use case sessions need.
type Catalog interface {
	Snapshot() (*catalog.Snapshot, error)
	Engine() *catalog.Engine
	Subscribe(fn func(*catalog.Snapshot)) func()
}

type UseCase interface {
	// Create restores the session restoreID when it is live or its parameters
	// are still stored. Otherwise a new session starts from initial.
	Create(ctx context.Context, restoreID string, initial url.Values) (*Session, error)
	Get(id string) (*Session, error)
	// View runs the session's current navigation state against the catalog.
	View(s *Session) (catalog.View, error)
	End(ctx context.Context, id string) error
	// Sweep ends sessions idle since before now minus the idle TTL.
	Sweep(ctx context.Context, now time.Time) int
	// Run sweeps periodically until ctx is done.
	Run(ctx context.Context)
	Close()
}
