package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mhmall/mall-api/configs"
	"github.com/mhmall/mall-api/internal/app"
	"github.com/mhmall/mall-api/internal/auth"
	"github.com/mhmall/mall-api/internal/clock"
	"github.com/mhmall/mall-api/internal/logging"
	"github.com/mhmall/mall-api/internal/metrics"
	"github.com/mhmall/mall-api/internal/payment"
	"github.com/mhmall/mall-api/internal/storage/postgres"
	transporthttp "github.com/mhmall/mall-api/internal/transport/http"
	"github.com/mhmall/mall-api/migrations"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	configDir := os.Getenv("CONFIG_DIR")
	if configDir == "" {
		configDir = "./configs"
	}
	envName := os.Getenv("APP_ENV")
	if envName == "" {
		envName = "local"
	}

	cfg, err := configs.Load(configDir, envName)
	if err != nil {
		logging.Base().Error("load config", "err", err)
		os.Exit(1)
	}

	logger := logging.Init(cfg.App.Name, cfg.App.LogFile)

	startupCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	poolCfg, err := pgxpool.ParseConfig(cfg.Postgres.URL)
	if err != nil {
		logger.Error("parse postgres url", "err", err)
		os.Exit(1)
	}
	if cfg.Postgres.MaxConns > 0 {
		poolCfg.MaxConns = cfg.Postgres.MaxConns
	}
	pool, err := pgxpool.NewWithConfig(startupCtx, poolCfg)
	if err != nil {
		logger.Error("connect to db", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := pool.Ping(startupCtx); err != nil {
		logger.Error("db ping", "err", err)
		os.Exit(1)
	}
	if err := migrations.Apply(startupCtx, pool); err != nil {
		logger.Error("apply migrations", "err", err)
		os.Exit(1)
	}

	orderMetrics := metrics.NewOrderMetrics(prometheus.DefaultRegisterer)
	httpMetrics := metrics.NewHTTPMetrics(prometheus.DefaultRegisterer)

	optionRepo := postgres.NewOptionRepository(pool)
	orderSvc := app.NewOrderService(app.OrderServiceDeps{
		Tx:       postgres.NewTransactor(pool),
		Options:  optionRepo,
		Orders:   postgres.NewOrderRepository(pool),
		Lines:    postgres.NewOrderLineRepository(pool),
		Guests:   postgres.NewGuestRepository(pool),
		Hasher:   auth.NewBcryptHasher(),
		Payments: payment.NewVirtualAccountAllocator(cfg.Payment.BankName),
		Clock:    clock.NewSystem(),
		Metrics:  orderMetrics,
	})
	catalogSvc := app.NewCatalogService(optionRepo, clock.NewSystem())

	verifier := auth.NewTokenVerifier(cfg.Security.JWTSecret, cfg.Security.Issuer, cfg.Security.Audience)
	requireMember := func(h http.Handler) http.Handler {
		return transporthttp.RequireMember(verifier, h)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", transporthttp.HealthHandler)
	mux.Handle("/metrics", metrics.Handler())
	mux.Handle("/orders/guest", transporthttp.HandleGuestOrders(orderSvc))
	mux.Handle("/orders/guest/view", transporthttp.HandleGuestOrderView(orderSvc))
	mux.Handle("/orders/guest/cancel/", transporthttp.HandleGuestOrderCancel(orderSvc))
	mux.Handle("/orders/member", requireMember(transporthttp.HandleMemberOrders(orderSvc)))
	mux.Handle("/orders/member/view", requireMember(transporthttp.HandleMemberOrderView(orderSvc)))
	mux.Handle("/orders/member/list", requireMember(transporthttp.HandleMemberOrderList(orderSvc)))
	mux.Handle("/orders/member/cancel/", requireMember(transporthttp.HandleMemberOrderCancel(orderSvc)))
	mux.Handle("/admin/options", transporthttp.HandleAdminOptions(catalogSvc))
	mux.Handle("/admin/options/", transporthttp.HandleAdminOptionStock(catalogSvc))
	mux.Handle("/", transporthttp.NotFoundHandler())

	handler := transporthttp.RequestLogger(
		transporthttp.Instrument(
			transporthttp.CORS(cfg.HTTP.CORSOrigins, mux),
			httpMetrics,
		),
		logger,
	)

	server := &http.Server{
		Addr:         cfg.App.HTTPAddr,
		Handler:      handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	logger.Info("api listening", "addr", cfg.App.HTTPAddr)

	srvErr := make(chan error, 1)
	go func() {
		srvErr <- server.ListenAndServe()
	}()

	stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "err", err)
		}
	case <-stopCtx.Done():
		logger.Info("shutdown signal received, stopping server")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server shutdown error", "err", err)
	}
	logger.Info("server stopped")
}
