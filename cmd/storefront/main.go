// Package main запускает HTTP-сервер витрины Levenuts.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/levenuts/storefront/internal/admin"
	"github.com/levenuts/storefront/internal/cart"
	"github.com/levenuts/storefront/internal/catalog"
	"github.com/levenuts/storefront/internal/checkout"
	"github.com/levenuts/storefront/internal/config"
	"github.com/levenuts/storefront/internal/handler"
	"github.com/levenuts/storefront/internal/middleware"
	"github.com/levenuts/storefront/internal/order"
	"github.com/levenuts/storefront/internal/pix"
	"github.com/levenuts/storefront/internal/storage"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	sugar := logger.Sugar()

	cfg, err := config.Parse()
	if err != nil {
		sugar.Fatalw("configuration error", "error", err.Error())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := storage.Open(ctx, cfg.DatabaseURI)
	if err != nil {
		sugar.Fatalw("store initialization error", "error", err.Error())
	}
	defer store.Close()

	migrated, err := storage.MigrateLegacyOrders(ctx, store)
	if err != nil {
		sugar.Fatalw("legacy orders migration error", "error", err.Error())
	}
	if migrated > 0 {
		sugar.Infow("legacy orders migrated", "count", migrated)
	}

	carts := cart.NewService(store)
	orders := order.NewRepository(store)

	services := handler.Services{
		Carts: carts,
		Checkout: checkout.NewService(carts, orders, checkout.Options{
			CardDelay: cfg.CardProcessingTime,
			PixDelay:  cfg.PixProcessingTime,
		}),
		Admin: admin.NewGate(store, orders, nil),
		Pix:   pix.NewClient(cfg.QRServiceAddress, cfg.PixKey),
	}

	if cfg.CatalogPath != "" {
		c, err := catalog.Load(cfg.CatalogPath)
		if err != nil {
			sugar.Fatalw("catalog loading error", "error", err.Error())
		}
		services.Catalog = c
		sugar.Infow("catalog loaded", "products", len(c.Products()))
	}

	if cfg.CookieSecret == "" {
		sugar.Warn("COOKIE_SECRET is not set, visitor carts will not survive a restart")
	}

	h := handler.NewHandler(services, logger, middleware.NewProfileMiddleware(cfg.CookieSecret))

	server := &http.Server{
		Addr:              cfg.RunAddress,
		Handler:           h.SetupRouter(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		sugar.Infow("starting storefront server", "addr", cfg.RunAddress)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown при отмене контекста (сигнал или ошибка в другой горутине)
	g.Go(func() error {
		<-ctx.Done()
		sugar.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		sugar.Info("server stopped gracefully")
		return nil
	})

	if err := g.Wait(); err != nil {
		sugar.Fatalw("application terminated with error", "error", err)
	}
}
