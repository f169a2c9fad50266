package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fekuna/omnipos-storefront/config"
	"github.com/fekuna/omnipos-storefront/internal/auth"
	"github.com/fekuna/omnipos-storefront/internal/cart"
	"github.com/fekuna/omnipos-storefront/internal/catalog"
	"github.com/fekuna/omnipos-storefront/internal/health"
	"github.com/fekuna/omnipos-storefront/internal/inventory"
	"github.com/fekuna/omnipos-storefront/internal/pkg/broker"
	"github.com/fekuna/omnipos-storefront/internal/pkg/cache"
	"github.com/fekuna/omnipos-storefront/internal/pkg/database/postgres"
	"github.com/fekuna/omnipos-storefront/internal/pkg/httpclient"
	"github.com/fekuna/omnipos-storefront/internal/pkg/i18n"
	"github.com/fekuna/omnipos-storefront/internal/pkg/logger"
	"github.com/fekuna/omnipos-storefront/internal/product"
	"github.com/fekuna/omnipos-storefront/internal/server"
	"github.com/fekuna/omnipos-storefront/internal/session"

	cartH "github.com/fekuna/omnipos-storefront/internal/cart/handler"
	cartPubPkg "github.com/fekuna/omnipos-storefront/internal/cart/publisher"
	cartRepoPkg "github.com/fekuna/omnipos-storefront/internal/cart/repository"
	cartUCPkg "github.com/fekuna/omnipos-storefront/internal/cart/usecase"

	catH "github.com/fekuna/omnipos-storefront/internal/category/handler"
	catUCPkg "github.com/fekuna/omnipos-storefront/internal/category/usecase"

	invH "github.com/fekuna/omnipos-storefront/internal/inventory/handler"
	invListenerPkg "github.com/fekuna/omnipos-storefront/internal/inventory/listener"
	invRepoPkg "github.com/fekuna/omnipos-storefront/internal/inventory/repository"
	invUCPkg "github.com/fekuna/omnipos-storefront/internal/inventory/usecase"

	prodH "github.com/fekuna/omnipos-storefront/internal/product/handler"
	prodRepoPkg "github.com/fekuna/omnipos-storefront/internal/product/repository"
	prodUCPkg "github.com/fekuna/omnipos-storefront/internal/product/usecase"

	sessH "github.com/fekuna/omnipos-storefront/internal/session/handler"
	sessRepoPkg "github.com/fekuna/omnipos-storefront/internal/session/repository"
	sessUCPkg "github.com/fekuna/omnipos-storefront/internal/session/usecase"

	"github.com/gin-gonic/gin"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/reflection"
)

func main() {
	// 1. Load Configuration
	cfg := config.LoadEnv()
	decimal.MarshalJSONWithoutQuotes = true

	// 2. Initialize Logger
	logConfig := &logger.ZapLoggerConfig{
		IsDevelopment:     false,
		Encoding:          "json",
		Level:             cfg.Logger.Level,
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	}
	if cfg.Server.AppEnv == "development" {
		logConfig.IsDevelopment = true
		logConfig.Encoding = "console"
		logConfig.Level = "debug"
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	appLogger := logger.NewZapLogger(logConfig)
	defer appLogger.Sync()

	tr, err := i18n.NewTranslator()
	if err != nil {
		appLogger.Fatal("Could not load message files", zap.Error(err))
	}

	// 3. Collaborator clients forward the shopper's bearer token
	forwardToken := httpclient.WithTokenSource(auth.GetToken)
	catalogClient := httpclient.New(cfg.Services.CatalogURL, cfg.Services.Timeout, forwardToken)
	inventoryClient := httpclient.New(cfg.Services.InventoryURL, cfg.Services.Timeout, forwardToken)
	cartClient := httpclient.New(cfg.Services.CartURL, cfg.Services.Timeout, forwardToken)

	// 4. Initialize Repositories
	var (
		prodRepo product.Repository   = prodRepoPkg.NewHTTPRepository(catalogClient)
		invRepo  inventory.Repository = invRepoPkg.NewHTTPRepository(inventoryClient)
		cartRepo cart.Repository      = cartRepoPkg.NewHTTPRepository(cartClient)
		store    session.ParamStore   = sessRepoPkg.NewMemoryParamStore()
		pub      cart.Publisher       = cartPubPkg.Nop{}
	)

	if cfg.Catalog.Source == config.SourcePostgres {
		db, err := postgres.NewPostgres(&postgres.Config{
			Host:            cfg.Postgres.Host,
			Port:            cfg.Postgres.Port,
			User:            cfg.Postgres.User,
			Password:        cfg.Postgres.Password,
			DBName:          cfg.Postgres.DBName,
			SSLMode:         cfg.Postgres.SSLMode,
			MaxOpenConns:    cfg.Postgres.MaxOpenConns,
			MaxIdleConns:    cfg.Postgres.MaxIdleConns,
			ConnMaxLifetime: time.Duration(cfg.Postgres.ConnMaxLifetime) * time.Second,
			ConnMaxIdleTime: time.Duration(cfg.Postgres.ConnMaxIdleTime) * time.Second,
		})
		if err != nil {
			appLogger.Fatal("Could not connect to database", zap.Error(err))
		}
		defer db.Close()
		appLogger.Info("Connected to PostgreSQL database", zap.String("db_name", cfg.Postgres.DBName))

		prodRepo = prodRepoPkg.NewPGRepository(db)
		invRepo = invRepoPkg.NewPGRepository(db)
	}

	// 5. Initialize Redis
	if cfg.Redis.Addr != "" {
		redisClient, err := cache.NewRedisClient(&cache.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			appLogger.Fatal("Could not connect to Redis", zap.Error(err))
		}
		defer redisClient.Close()
		store = sessRepoPkg.NewRedisParamStore(redisClient.Client, cfg.Catalog.SessionIdleTTL)
		appLogger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))
	}

	// 5.5 Initialize AMQP publisher
	if cfg.AMQP.URL != "" {
		conn, err := amqp.Dial(cfg.AMQP.URL)
		if err != nil {
			appLogger.Fatal("Could not connect to AMQP broker", zap.Error(err))
		}
		defer conn.Close()
		amqpPub, err := cartPubPkg.NewAMQPPublisher(conn, cfg.AMQP.ExchangePrefix)
		if err != nil {
			appLogger.Fatal("Could not declare cart exchange", zap.Error(err))
		}
		pub = amqpPub
		appLogger.Info("Connected to AMQP broker", zap.String("exchange_prefix", cfg.AMQP.ExchangePrefix))
	}

	// 6. Initialize UseCases
	engine := catalog.NewEngine(cfg.Catalog.Locale)
	appLogger.Info("Catalog engine ready", zap.String("collation", engine.Collation().Tag().String()))
	catalogUC := prodUCPkg.NewCatalogUseCase(prodRepo, invRepo, engine, appLogger)
	invUC := invUCPkg.NewInventoryUseCase(invRepo, catalogUC, appLogger)
	cartUC := cartUCPkg.NewCartUseCase(cartRepo, catalogUC, invUC, pub, appLogger)
	catUC := catUCPkg.NewCategoryUseCase(catalogUC, appLogger)
	sessUC := sessUCPkg.NewSessionUseCase(store, catalogUC, sessUCPkg.Config{
		Debounce: cfg.Catalog.SyncDebounce,
		IdleTTL:  cfg.Catalog.SessionIdleTTL,
	}, appLogger)
	defer sessUC.Close()

	checker := health.NewChecker(catalogUC, appLogger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if _, err := catalogUC.Reload(ctx); err != nil {
		appLogger.Error("Initial catalog load failed; serving 503 until a reload succeeds", zap.Error(err))
	}
	go sessUC.Run(ctx)

	// 6.5 Initialize Listeners
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaConsumer := broker.NewConsumer(&broker.Config{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.Topic,
			GroupID: cfg.Kafka.GroupID,
		})
		defer kafkaConsumer.Close()
		appLogger.Info("Connected to Kafka Consumer", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))

		invListener := invListenerPkg.NewInventoryListener(kafkaConsumer, catalogUC, cfg.Catalog.ReloadDebounce, appLogger)
		go invListener.Start(ctx)
	}

	// 7. Initialize Handlers
	router := server.NewRouter(server.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Verifier:       auth.NewVerifier(cfg.JWT.SecretKey),
		Translator:     tr,
		Health:         checker,
		Logger:         appLogger,
	}, server.Handlers{
		Product:   prodH.NewProductHandler(catalogUC, tr, appLogger),
		Category:  catH.NewCategoryHandler(catUC, tr, appLogger),
		Inventory: invH.NewInventoryHandler(invUC, tr, appLogger),
		Cart:      cartH.NewCartHandler(cartUC, tr, appLogger),
		Session:   sessH.NewSessionHandler(sessUC, tr, appLogger),
	})

	httpServer := &http.Server{
		Addr:              normalizePort(cfg.Server.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// 8. Start gRPC Server
	lis, err := net.Listen("tcp", normalizePort(cfg.Server.GRPCPort))
	if err != nil {
		log.Fatalf("failed to listen: %v", err)
	}
	grpcServer := grpc.NewServer()
	checker.Register(grpcServer)
	reflection.Register(grpcServer)

	appLogger.Info("Starting HTTP server", zap.String("addr", httpServer.Addr))
	appLogger.Info("Starting gRPC server", zap.String("addr", lis.Addr().String()))

	// Graceful Shutdown
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("failed to serve http", zap.Error(err))
		}
	}()
	go func() {
		if err := grpcServer.Serve(lis); err != nil {
			appLogger.Fatal("failed to serve grpc", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	checker.Shutdown()
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("HTTP shutdown failed", zap.Error(err))
	}
	grpcServer.GracefulStop()
	appLogger.Info("Server stopped")
}

func normalizePort(port string) string {
	if !strings.HasPrefix(port, ":") && !strings.Contains(port, ":") {
		return ":" + port
	}
	return port
}
