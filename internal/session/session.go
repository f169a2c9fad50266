package session

import (
	"context"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fekuna/omnipos-storefront/internal/navigation"
	"github.com/fekuna/omnipos-storefront/internal/pkg/logger"
	"go.uber.org/zap"
)

const (
	// EventParams carries a parameter bag that reached the store.
	EventParams = "params"
	// EventState fires after every navigation state change.
	EventState = "state"
	// EventCatalog fires when a new catalog snapshot or revision is installed.
	EventCatalog = "catalog"
)

type Event struct {
	Type       string `json:"type"`
	Params     string `json:"params,omitempty"`
	Generation uint64 `json:"generation,omitempty"`
	Revision   uint64 `json:"revision,omitempty"`
}

// Session is one shopper's navigation context.
type Session struct {
	ID string

	nav      *navigation.Synchronizer
	lastSeen atomic.Int64

	mu     sync.Mutex
	subs   map[int]chan Event
	nextID int
	closed bool
}

// New creates a session whose synchronized parameters are written to store.
func New(id string, store ParamStore, metadata navigation.MetadataFunc, debounce time.Duration, log logger.ZapLogger) *Session {
	s := &Session{ID: id, subs: make(map[int]chan Event)}
	s.Touch(time.Now())

	host := navigation.HostFunc(func(ctx context.Context, params url.Values) error {
		if err := store.Save(ctx, id, params); err != nil {
			return err
		}
		s.Publish(Event{Type: EventParams, Params: params.Encode()})
		return nil
	})
	s.nav = navigation.NewSynchronizer(host, metadata, debounce, log.With(zap.String("session_id", id)))
	s.nav.OnChange(func(state navigation.State) {
		s.Publish(Event{Type: EventState, Params: navigation.Encode(state).Encode()})
	})
	return s
}

func (s *Session) Navigator() *navigation.Synchronizer {
	return s.nav
}

func (s *Session) Touch(now time.Time) {
	s.lastSeen.Store(now.UnixNano())
}

func (s *Session) LastSeen() time.Time {
	return time.Unix(0, s.lastSeen.Load())
}

// Subscribe returns a channel of session events. Events are dropped for a
// subscriber whose buffer is full. The returned func unsubscribes and closes
// the channel.
func (s *Session) Subscribe(buffer int) (<-chan Event, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan Event, buffer)
	if s.closed {
		close(ch)
		return ch, func() {}
	}
	id := s.nextID
	s.nextID++
	s.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if c, ok := s.subs[id]; ok {
				delete(s.subs, id)
				close(c)
			}
		})
	}
}

func (s *Session) Subscribers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

func (s *Session) Publish(e Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- e:
		default:
		}
	}
}

// Close stops the synchronizer and ends every subscription.
func (s *Session) Close() {
	s.nav.Close()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	for id, ch := range s.subs {
		delete(s.subs, id)
		close(ch)
	}
}
