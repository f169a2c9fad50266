package server

import (
	"net/http"
	"time"

	"github.com/fekuna/omnipos-storefront/internal/auth"
	carthandler "github.com/fekuna/omnipos-storefront/internal/cart/handler"
	categoryhandler "github.com/fekuna/omnipos-storefront/internal/category/handler"
	"github.com/fekuna/omnipos-storefront/internal/health"
	inventoryhandler "github.com/fekuna/omnipos-storefront/internal/inventory/handler"
	"github.com/fekuna/omnipos-storefront/internal/pkg/i18n"
	"github.com/fekuna/omnipos-storefront/internal/pkg/logger"
	producthandler "github.com/fekuna/omnipos-storefront/internal/product/handler"
	sessionhandler "github.com/fekuna/omnipos-storefront/internal/session/handler"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Handlers struct {
	Product   *producthandler.ProductHandler
	Category  *categoryhandler.CategoryHandler
	Inventory *inventoryhandler.InventoryHandler
	Cart      *carthandler.CartHandler
	Session   *sessionhandler.SessionHandler
}

type Options struct {
	AllowedOrigins []string
	Verifier       *auth.Verifier
	Translator     *i18n.Translator
	Health         *health.Checker
	Logger         logger.ZapLogger
}

func NewRouter(opts Options, h Handlers) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger(opts.Logger))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     opts.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Accept-Language", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/healthz", healthz(opts.Health))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	api.Use(auth.Middleware(opts.Verifier, opts.Logger))

	setupCatalogRoutes(api, h)
	setupCartRoutes(api, h, opts.Translator)
	setupSessionRoutes(api, h)
	setupAdminRoutes(api, h, opts.Translator)

	return router
}

type healthResponse struct {
	Status     string `json:"status"`
	Catalog    string `json:"catalog"`
	Generation uint64 `json:"generation"`
}

// healthz answers 200 once a catalog is installed and 503 before.
func healthz(checker *health.Checker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !checker.Ready() {
			c.JSON(http.StatusServiceUnavailable, healthResponse{Status: "ok", Catalog: "loading"})
			return
		}
		c.JSON(http.StatusOK, healthResponse{Status: "ok", Catalog: "ready", Generation: checker.Generation()})
	}
}
