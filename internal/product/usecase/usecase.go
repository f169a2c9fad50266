package usecase

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fekuna/omnipos-storefront/internal/catalog"
	"github.com/fekuna/omnipos-storefront/internal/metrics"
	"github.com/fekuna/omnipos-storefront/internal/model"
	"github.com/fekuna/omnipos-storefront/internal/pkg/logger"
	"github.com/fekuna/omnipos-storefront/internal/product"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type catalogUseCase struct {
	repo      product.Repository
	inventory product.InventorySource
	engine    *catalog.Engine
	logger    logger.ZapLogger

	generation atomic.Uint64

	mu      sync.RWMutex
	current *catalog.Snapshot

	subsMu sync.Mutex
	subs   map[uint64]func(*catalog.Snapshot)
	nextID uint64
}

func NewCatalogUseCase(repo product.Repository, inventory product.InventorySource, engine *catalog.Engine, log logger.ZapLogger) product.UseCase {
	return &catalogUseCase{
		repo:      repo,
		inventory: inventory,
		engine:    engine,
		logger:    log,
		subs:      make(map[uint64]func(*catalog.Snapshot)),
	}
}

func (uc *catalogUseCase) Engine() *catalog.Engine {
	return uc.engine
}

func (uc *catalogUseCase) Reload(ctx context.Context) (*catalog.Snapshot, error) {
	gen := uc.generation.Add(1)
	start := time.Now()

	var (
		products []model.Product
		items    []model.InventoryItem
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		products, err = uc.repo.FindAll(gctx)
		if err != nil {
			return fmt.Errorf("fetch products: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		items, err = uc.inventory.FindAll(gctx)
		if err != nil {
			return fmt.Errorf("fetch inventory: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		metrics.CatalogReloads.WithLabelValues("failed").Inc()
		uc.logger.Error("catalog reload failed", zap.Uint64("generation", gen), zap.Error(err))
		return nil, fmt.Errorf("%w (generation %d): %w", product.ErrCatalogUnavailable, gen, err)
	}

	snap := uc.engine.Build(gen, products, items)
	metrics.CatalogReloadSeconds.Observe(time.Since(start).Seconds())

	uc.mu.Lock()
	if uc.current != nil && uc.current.Generation > gen {
		current := uc.current
		uc.mu.Unlock()
		metrics.CatalogReloads.WithLabelValues("stale").Inc()
		uc.logger.Debug("discarding stale catalog reload",
			zap.Uint64("generation", gen),
			zap.Uint64("current", current.Generation),
		)
		return current, nil
	}
	uc.current = snap
	uc.mu.Unlock()

	metrics.CatalogReloads.WithLabelValues("ok").Inc()
	metrics.CatalogProducts.Set(float64(len(snap.Products)))
	metrics.CatalogGeneration.Set(float64(gen))
	uc.logger.Info("catalog reloaded",
		zap.Uint64("generation", gen),
		zap.Int("products", len(snap.Products)),
		zap.Int("inventory_items", len(items)),
	)

	uc.publish(snap)
	return snap, nil
}

func (uc *catalogUseCase) Snapshot() (*catalog.Snapshot, error) {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	if uc.current == nil {
		return nil, product.ErrCatalogNotLoaded
	}
	return uc.current, nil
}

func (uc *catalogUseCase) Query(q catalog.Query) (catalog.View, error) {
	snap, err := uc.Snapshot()
	if err != nil {
		return catalog.View{}, err
	}
	metrics.CatalogQueries.Inc()
	return uc.engine.Run(snap, q), nil
}

func (uc *catalogUseCase) GetProduct(sku string) (model.Product, error) {
	snap, err := uc.Snapshot()
	if err != nil {
		return model.Product{}, err
	}
	p, ok := snap.Product(sku)
	if !ok {
		return model.Product{}, product.ErrProductNotFound
	}
	return p, nil
}

func (uc *catalogUseCase) UpdateProduct(ctx context.Context, id int64, update *model.ProductUpdate) (*model.Product, error) {
	p, err := uc.repo.Update(ctx, id, update)
	if err != nil {
		return nil, err
	}

	if _, err := uc.Reload(ctx); err != nil {
		uc.logger.Warn("reload after product update failed", zap.Int64("product_id", id), zap.Error(err))
	}
	return p, nil
}

func (uc *catalogUseCase) ApplyStockDecrement(generation uint64, sku string, qty int) bool {
	uc.mu.Lock()
	if uc.current == nil || uc.current.Generation != generation {
		uc.mu.Unlock()
		metrics.OptimisticUpdates.WithLabelValues("skipped").Inc()
		return false
	}
	next, ok := uc.current.WithStockDecrement(sku, qty)
	if !ok {
		uc.mu.Unlock()
		metrics.OptimisticUpdates.WithLabelValues("skipped").Inc()
		return false
	}
	uc.current = next
	uc.mu.Unlock()

	metrics.OptimisticUpdates.WithLabelValues("applied").Inc()
	uc.publish(next)
	return true
}

func (uc *catalogUseCase) Subscribe(fn func(*catalog.Snapshot)) func() {
	uc.subsMu.Lock()
	defer uc.subsMu.Unlock()
	id := uc.nextID
	uc.nextID++
	uc.subs[id] = fn
	return func() {
		uc.subsMu.Lock()
		delete(uc.subs, id)
		uc.subsMu.Unlock()
	}
}

func (uc *catalogUseCase) publish(snap *catalog.Snapshot) {
	uc.subsMu.Lock()
	fns := make([]func(*catalog.Snapshot), 0, len(uc.subs))
	for _, fn := range uc.subs {
		fns = append(fns, fn)
	}
	uc.subsMu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}
