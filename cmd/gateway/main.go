package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"

	"github.com/sparklegiftshop/gateway/api/controllers"
	"github.com/sparklegiftshop/gateway/api/routes"
	"github.com/sparklegiftshop/gateway/internal/backend"
	"github.com/sparklegiftshop/gateway/internal/checkout"
	"github.com/sparklegiftshop/gateway/internal/dashboard"
	"github.com/sparklegiftshop/gateway/internal/localstore"
	"github.com/sparklegiftshop/gateway/internal/pricing"
	"github.com/sparklegiftshop/gateway/internal/session"
	"github.com/sparklegiftshop/gateway/pkg/config"
	"github.com/sparklegiftshop/gateway/pkg/logger"
	"github.com/sparklegiftshop/gateway/pkg/metrics"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "gateway"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "gateway",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	store, err := localstore.Open(cfg.Store.Path)
	if err != nil {
		logg.Error(context.Background(), "failed to open local store", err)
		os.Exit(1)
	}

	sessions := session.NewManager(store)

	backendMetrics := metrics.NewBackendMetrics(prometheus.DefaultRegisterer)
	client, err := backend.NewClient(cfg.Backend.BaseURL,
		backend.WithTokenSource(sessions),
		backend.WithMetrics(backendMetrics),
		backend.WithTimeout(cfg.Backend.Timeout),
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create backend client", err)
		os.Exit(1)
	}

	policy := pricing.PolicyFromConfig(cfg.Delivery)
	checkoutSvc := checkout.NewService(client, policy, logg)

	board := dashboard.NewBoard()
	toggler := dashboard.NewToggler(board, client, logg)
	poller := dashboard.NewPoller(board, client, cfg.Dashboard.PollInterval, logg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pollerDone := make(chan struct{})
	go func() {
		defer close(pollerDone)
		if err := poller.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logg.Warn(ctx, "order poller finished with errors")
		}
	}()

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	startCtx := logg.WithFields(context.Background(), map[string]any{
		"env":     cfg.App.Env,
		"addr":    addr,
		"backend": cfg.Backend.BaseURL,
	})
	logg.Info(startCtx, "starting storefront gateway")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:    cfg,
			Logger:    logg,
			Backend:   client,
			Store:     store,
			Sessions:  sessions,
			CartState: controllers.NewCartState(),
			Checkout:  checkoutSvc,
			Board:     board,
			Toggler:   toggler,
		}),
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(startCtx, "gateway stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logg.Info(startCtx, "shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		var errs error
		if err := server.Shutdown(shutdownCtx); err != nil {
			errs = multierr.Append(errs, err)
		}
		<-pollerDone

		if errs != nil {
			logg.Error(startCtx, "shutdown finished with errors", errs)
			os.Exit(1)
		}
	}
}
