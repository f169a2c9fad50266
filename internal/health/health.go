package health

import (
	"sync/atomic"

	"github.com/fekuna/omnipos-storefront/internal/catalog"
	"github.com/fekuna/omnipos-storefront/internal/pkg/logger"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	grpchealth "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// CatalogService is the health service name that turns SERVING once a
// catalog snapshot is installed.
const CatalogService = "storefront.catalog"

type Subscriber interface {
	Subscribe(fn func(*catalog.Snapshot)) func()
}

// Checker tracks process liveness and catalog readiness for both the gRPC
// health service and the HTTP probe.
type Checker struct {
	server *grpchealth.Server
	ready  atomic.Bool
	gen    atomic.Uint64
	logger logger.ZapLogger

	unsubscribe func()
}

func NewChecker(source Subscriber, log logger.ZapLogger) *Checker {
	c := &Checker{server: grpchealth.NewServer(), logger: log}
	c.server.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	c.server.SetServingStatus(CatalogService, healthpb.HealthCheckResponse_NOT_SERVING)
	c.unsubscribe = source.Subscribe(c.observe)
	return c
}

func (c *Checker) observe(snap *catalog.Snapshot) {
	c.gen.Store(snap.Generation)
	if c.ready.CompareAndSwap(false, true) {
		c.server.SetServingStatus(CatalogService, healthpb.HealthCheckResponse_SERVING)
		c.logger.Info("catalog ready", zap.Uint64("generation", snap.Generation))
	}
}

func (c *Checker) Ready() bool {
	return c.ready.Load()
}

func (c *Checker) Generation() uint64 {
	return c.gen.Load()
}

func (c *Checker) Register(s *grpc.Server) {
	healthpb.RegisterHealthServer(s, c.server)
}

// Shutdown reports NOT_SERVING for every service and stops observing the
// catalog.
func (c *Checker) Shutdown() {
	c.unsubscribe()
	c.server.Shutdown()
}
