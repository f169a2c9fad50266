package navigation

import (
	"context"
	"maps"
	"net/url"
	"slices"
	"sync"
	"time"

	"github.com/fekuna/omnipos-storefront/internal/catalog"
	"github.com/fekuna/omnipos-storefront/internal/metrics"
	"github.com/fekuna/omnipos-storefront/internal/pkg/logger"
	"go.uber.org/zap"
)

const DefaultDebounce = 300 * time.Millisecond

// Host is where the visible parameter bag lives.
type Host interface {
	Replace(ctx context.Context, params url.Values) error
}

// HostFunc adapts a plain function to Host.
type HostFunc func(ctx context.Context, params url.Values) error

func (f HostFunc) Replace(ctx context.Context, params url.Values) error {
	return f(ctx, params)
}

// MetadataFunc returns the taxonomy used to prune subcategory selections.
type MetadataFunc func() catalog.Metadata

// Synchronizer keeps a navigation State and its parameter bag in step.
// Filter edits reach the host after a debounce window; sort and page changes
// are pushed immediately. Incoming parameters are never written back.
type Synchronizer struct {
	mu       sync.Mutex
	state    State
	applying bool
	lastSent url.Values

	host     Host
	metadata MetadataFunc
	debounce *Debouncer
	logger   logger.ZapLogger

	ctx    context.Context
	cancel context.CancelFunc

	listenersMu sync.Mutex
	listeners   map[int]func(State)
	nextID      int
}

func NewSynchronizer(host Host, metadata MetadataFunc, debounce time.Duration, log logger.ZapLogger) *Synchronizer {
	if metadata == nil {
		metadata = func() catalog.Metadata { return catalog.Metadata{} }
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Synchronizer{
		state:     DefaultState(),
		host:      host,
		metadata:  metadata,
		debounce:  NewDebouncer(debounce),
		logger:    log,
		ctx:       ctx,
		cancel:    cancel,
		listeners: make(map[int]func(State)),
	}
}

func (s *Synchronizer) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneState(s.state)
}

// Params is the parameter bag of the current state.
func (s *Synchronizer) Params() url.Values {
	return Encode(s.State())
}

// OnChange registers fn to run after every state change. The returned func
// unregisters it.
func (s *Synchronizer) OnChange(fn func(State)) func() {
	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	return func() {
		s.listenersMu.Lock()
		delete(s.listeners, id)
		s.listenersMu.Unlock()
	}
}

// ApplyIncoming replaces the state with the decoded values. Nothing is sent
// to the host, including edits made by change listeners while applying.
// Incoming selections are kept as given; queries prune them per snapshot.
func (s *Synchronizer) ApplyIncoming(values url.Values) State {
	state := Decode(values)

	s.mu.Lock()
	s.applying = true
	s.debounce.Cancel()
	s.state = state
	s.lastSent = Encode(state)
	s.mu.Unlock()

	s.notify(state)

	s.mu.Lock()
	s.applying = false
	s.mu.Unlock()
	return cloneState(state)
}

// EditFilter installs a new filter selection, resets the page index and
// schedules a debounced sync.
func (s *Synchronizer) EditFilter(f catalog.FilterState) State {
	f = catalog.PruneSubcategories(f.Clone(), s.metadata())

	s.mu.Lock()
	s.state.Filter = f
	s.state.Page.Index = 0
	state := cloneState(s.state)
	suppressed := s.applying
	s.mu.Unlock()

	if suppressed {
		metrics.NavigationSuppressed.Inc()
	} else {
		s.debounce.Trigger(s.flushDebounced)
	}
	s.notify(state)
	return state
}

// RemoveChip clears the facet behind one active filter chip.
func (s *Synchronizer) RemoveChip(key string) (State, bool) {
	next, ok := s.State().Filter.RemoveChip(key)
	if !ok {
		return s.State(), false
	}
	return s.EditFilter(next), true
}

func (s *Synchronizer) Clear() State {
	return s.EditFilter(catalog.ClearFilters())
}

// SetSort changes the sort mode, resets the page index and syncs at once.
func (s *Synchronizer) SetSort(ctx context.Context, mode catalog.SortMode) (State, error) {
	s.mu.Lock()
	s.state.Sort = catalog.ParseSortMode(string(mode))
	s.state.Page.Index = 0
	s.mu.Unlock()
	return s.immediate(ctx)
}

// SetPage moves to another page window and syncs at once.
func (s *Synchronizer) SetPage(ctx context.Context, index, size int) (State, error) {
	s.mu.Lock()
	s.state.Page = catalog.PageState{Index: index, Size: size}.Normalize()
	s.mu.Unlock()
	return s.immediate(ctx)
}

// Flush pushes a pending debounced update now.
func (s *Synchronizer) Flush(ctx context.Context) error {
	if !s.debounce.Cancel() {
		return nil
	}
	return s.push(ctx, "debounced")
}

// Close drops any pending update and releases the debounce timer.
func (s *Synchronizer) Close() {
	s.debounce.Stop()
	s.cancel()
}

func (s *Synchronizer) immediate(ctx context.Context) (State, error) {
	// The full state is about to be sent, pending filter edits included.
	s.debounce.Cancel()

	s.mu.Lock()
	state := cloneState(s.state)
	suppressed := s.applying
	s.mu.Unlock()

	var err error
	if suppressed {
		metrics.NavigationSuppressed.Inc()
	} else {
		err = s.push(ctx, "immediate")
	}
	s.notify(state)
	return state, err
}

func (s *Synchronizer) flushDebounced() {
	if err := s.push(s.ctx, "debounced"); err != nil {
		s.logger.Warn("debounced navigation sync failed", zap.Error(err))
	}
}

func (s *Synchronizer) push(ctx context.Context, mode string) error {
	s.mu.Lock()
	params := Encode(s.state)
	if equalValues(params, s.lastSent) {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	if err := s.host.Replace(ctx, params); err != nil {
		metrics.NavigationSyncErrors.Inc()
		return err
	}

	s.mu.Lock()
	s.lastSent = params
	s.mu.Unlock()
	metrics.NavigationSyncs.WithLabelValues(mode).Inc()
	return nil
}

func (s *Synchronizer) notify(state State) {
	s.listenersMu.Lock()
	ids := slices.Sorted(maps.Keys(s.listeners))
	fns := make([]func(State), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, s.listeners[id])
	}
	s.listenersMu.Unlock()

	for _, fn := range fns {
		fn(cloneState(state))
	}
}

func cloneState(s State) State {
	s.Filter = s.Filter.Clone()
	return s
}

func equalValues(a, b url.Values) bool {
	return maps.EqualFunc(a, b, slices.Equal[[]string])
}
