package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CatalogReloads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_catalog_reloads_total",
		Help: "Catalog reloads by outcome (ok, failed, stale)",
	}, []string{"outcome"})
	CatalogReloadSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "storefront_catalog_reload_seconds",
		Help:    "Time spent fetching and joining the catalog",
		Buckets: prometheus.DefBuckets,
	})
	CatalogProducts = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "storefront_catalog_products",
		Help: "Products in the current catalog snapshot",
	})
	CatalogGeneration = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "storefront_catalog_generation",
		Help: "Generation of the current catalog snapshot",
	})
	CatalogQueries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_catalog_queries_total",
		Help: "The total number of filtered catalog views served",
	})

	NavigationSyncs = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_navigation_syncs_total",
		Help: "Outbound navigation parameter updates by mode (immediate, debounced)",
	}, []string{"mode"})
	NavigationSyncErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_navigation_sync_errors_total",
		Help: "Outbound navigation updates the host rejected",
	})
	NavigationSuppressed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_navigation_suppressed_total",
		Help: "Outbound updates skipped while applying incoming parameters",
	})

	CartAdds = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_cart_adds_total",
		Help: "Add-to-cart attempts by outcome (ok, rejected, failed)",
	}, []string{"outcome"})
	OptimisticUpdates = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_optimistic_updates_total",
		Help: "Optimistic stock decrements by outcome (applied, skipped)",
	}, []string{"outcome"})

	InventoryEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_inventory_events_total",
		Help: "Inventory events consumed by type",
	}, []string{"type"})

	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "storefront_sessions_active",
		Help: "Shopper sessions currently held in memory",
	})
)
