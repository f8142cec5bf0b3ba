package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"

	"github.com/slicehaven/storefront-backend/api/routes"
	"github.com/slicehaven/storefront-backend/internal/assets"
	cartsvc "github.com/slicehaven/storefront-backend/internal/cart"
	"github.com/slicehaven/storefront-backend/internal/catalog"
	ordersvc "github.com/slicehaven/storefront-backend/internal/orders"
	"github.com/slicehaven/storefront-backend/internal/pricing"
	"github.com/slicehaven/storefront-backend/internal/session"
	"github.com/slicehaven/storefront-backend/internal/shipping"
	"github.com/slicehaven/storefront-backend/pkg/config"
	"github.com/slicehaven/storefront-backend/pkg/db"
	"github.com/slicehaven/storefront-backend/pkg/logger"
	"github.com/slicehaven/storefront-backend/pkg/metrics"
	"github.com/slicehaven/storefront-backend/pkg/migrate"
	"github.com/slicehaven/storefront-backend/pkg/redis"
	"github.com/slicehaven/storefront-backend/pkg/security"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "storefront"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "storefront",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	if cfg.FeatureFlags.UseSQLite {
		cfg.DB.Driver = "sqlite"
	}

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}

	sessions, err := session.NewManager(redisClient, cfg.Checkout.SessionTTL())
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	nonceIssuer, err := security.NewNonceIssuer(cfg.Nonce)
	if err != nil {
		logg.Error(context.Background(), "failed to create nonce issuer", err)
		os.Exit(1)
	}

	assetResolver, err := assets.NewResolver(cfg.Assets.ManifestPath, cfg.Assets.PublicBaseURL)
	if err != nil {
		logg.Error(context.Background(), "failed to create asset resolver", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	checkoutMetrics := metrics.NewCheckoutMetrics(registry)

	catalogRepo := catalog.NewRepository(dbClient.DB())
	cartRepo := cartsvc.NewRepository(dbClient.DB())
	orderRepo := ordersvc.NewRepository(dbClient.DB())

	recalc := pricing.NewRecalculator(pricing.FeeRuleFromConfig(cfg.Checkout))
	rateSource := shipping.NewStaticSource(nil)

	cartService, err := cartsvc.NewService(
		cartRepo,
		dbClient,
		catalogRepo,
		sessions,
		rateSource,
		recalc,
		cfg.Checkout.CheckoutURL,
		cfg.Checkout.MaxLinesPerSubmission,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	orderService, err := ordersvc.NewService(orderRepo, cartRepo, dbClient, sessions, recalc)
	if err != nil {
		logg.Error(context.Background(), "failed to create order service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting storefront server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:          cfg,
			Logger:          logg,
			DB:              dbClient,
			Redis:           redisClient,
			Catalog:         catalogRepo,
			CartService:     cartService,
			OrderService:    orderService,
			NonceIssuer:     nonceIssuer,
			AssetResolver:   assetResolver,
			CheckoutMetrics: checkoutMetrics,
			Gatherer:        registry,
		}),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "storefront server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-sigCh:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}

	closeErr := multierr.Combine(redisClient.Close(), dbClient.Close())
	if closeErr != nil {
		logg.Error(ctx, "error closing resources", closeErr)
		os.Exit(1)
	}
}
