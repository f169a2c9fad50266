package usecase

import (
	"context"
	"net/url"
	"sync"
	"time"

	"github.com/fekuna/omnipos-storefront/internal/catalog"
	"github.com/fekuna/omnipos-storefront/internal/metrics"
	"github.com/fekuna/omnipos-storefront/internal/pkg/logger"
	"github.com/fekuna/omnipos-storefront/internal/session"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Config struct {
	Debounce time.Duration
	IdleTTL  time.Duration
	// SweepInterval defaults to a quarter of IdleTTL.
	SweepInterval time.Duration
}

type sessionUseCase struct {
	store   session.ParamStore
	catalog session.Catalog
	cfg     Config
	logger  logger.ZapLogger

	mu       sync.RWMutex
	sessions map[string]*session.Session

	unsubscribe func()
}

func NewSessionUseCase(store session.ParamStore, cat session.Catalog, cfg Config, log logger.ZapLogger) session.UseCase {
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = max(cfg.IdleTTL/4, time.Second)
	}
	uc := &sessionUseCase{
		store:    store,
		catalog:  cat,
		cfg:      cfg,
		logger:   log,
		sessions: make(map[string]*session.Session),
	}
	uc.unsubscribe = cat.Subscribe(uc.onSnapshot)
	return uc
}

func (uc *sessionUseCase) Create(ctx context.Context, restoreID string, initial url.Values) (*session.Session, error) {
	if restoreID != "" {
		if s, err := uc.Get(restoreID); err == nil {
			return s, nil
		}
		stored, ok, err := uc.store.Load(ctx, restoreID)
		if err != nil {
			uc.logger.Warn("failed to load session params", zap.String("session_id", restoreID), zap.Error(err))
		}
		if ok {
			s, created := uc.open(restoreID, stored)
			if created {
				uc.logger.Info("session restored", zap.String("session_id", restoreID))
			}
			return s, nil
		}
	}

	s, _ := uc.open(uuid.NewString(), initial)
	if err := uc.store.Save(ctx, s.ID, s.Navigator().Params()); err != nil {
		_ = uc.End(ctx, s.ID)
		return nil, err
	}
	uc.logger.Info("session created", zap.String("session_id", s.ID), zap.String("sort", string(s.Navigator().State().Sort)))
	return s, nil
}

// open builds a session from params and registers it under id. When another
// caller registered id first, the new session is closed and the existing one
// is returned with created set to false.
func (uc *sessionUseCase) open(id string, params url.Values) (s *session.Session, created bool) {
	s = session.New(id, uc.store, uc.metadata, uc.cfg.Debounce, uc.logger)
	s.Navigator().ApplyIncoming(params)

	uc.mu.Lock()
	if existing, ok := uc.sessions[id]; ok {
		uc.mu.Unlock()
		s.Close()
		existing.Touch(time.Now())
		return existing, false
	}
	uc.sessions[id] = s
	metrics.ActiveSessions.Set(float64(len(uc.sessions)))
	uc.mu.Unlock()
	return s, true
}

func (uc *sessionUseCase) metadata() catalog.Metadata {
	snap, err := uc.catalog.Snapshot()
	if err != nil {
		return catalog.Metadata{}
	}
	return snap.Metadata
}

func (uc *sessionUseCase) Get(id string) (*session.Session, error) {
	uc.mu.RLock()
	s, ok := uc.sessions[id]
	uc.mu.RUnlock()
	if !ok {
		return nil, session.ErrSessionNotFound
	}
	s.Touch(time.Now())
	return s, nil
}

func (uc *sessionUseCase) View(s *session.Session) (catalog.View, error) {
	snap, err := uc.catalog.Snapshot()
	if err != nil {
		return catalog.View{}, err
	}
	metrics.CatalogQueries.Inc()
	return uc.catalog.Engine().Run(snap, s.Navigator().State().Query()), nil
}

func (uc *sessionUseCase) End(ctx context.Context, id string) error {
	uc.mu.Lock()
	s, ok := uc.sessions[id]
	delete(uc.sessions, id)
	metrics.ActiveSessions.Set(float64(len(uc.sessions)))
	uc.mu.Unlock()
	if !ok {
		return session.ErrSessionNotFound
	}

	s.Close()
	if err := uc.store.Delete(ctx, id); err != nil {
		uc.logger.Warn("failed to delete session params", zap.String("session_id", id), zap.Error(err))
	}
	return nil
}

// Sweep closes idle sessions but leaves their stored parameters to expire, so
// they can still be restored.
func (uc *sessionUseCase) Sweep(ctx context.Context, now time.Time) int {
	cutoff := now.Add(-uc.cfg.IdleTTL)

	uc.mu.Lock()
	var idle []*session.Session
	for id, s := range uc.sessions {
		if s.LastSeen().Before(cutoff) && s.Subscribers() == 0 {
			idle = append(idle, s)
			delete(uc.sessions, id)
		}
	}
	metrics.ActiveSessions.Set(float64(len(uc.sessions)))
	uc.mu.Unlock()

	for _, s := range idle {
		if err := s.Navigator().Flush(ctx); err != nil {
			uc.logger.Warn("failed to flush idle session", zap.String("session_id", s.ID), zap.Error(err))
		}
		s.Close()
	}
	if len(idle) > 0 {
		uc.logger.Debug("idle sessions swept", zap.Int("count", len(idle)))
	}
	return len(idle)
}

func (uc *sessionUseCase) Run(ctx context.Context) {
	ticker := time.NewTicker(uc.cfg.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			uc.Sweep(ctx, now)
		}
	}
}

func (uc *sessionUseCase) Close() {
	uc.unsubscribe()

	uc.mu.Lock()
	sessions := uc.sessions
	uc.sessions = make(map[string]*session.Session)
	metrics.ActiveSessions.Set(0)
	uc.mu.Unlock()

	for _, s := range sessions {
		s.Close()
	}
}

func (uc *sessionUseCase) onSnapshot(snap *catalog.Snapshot) {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	for _, s := range uc.sessions {
		s.Publish(session.Event{Type: session.EventCatalog, Generation: snap.Generation, Revision: snap.Revision})
	}
}
