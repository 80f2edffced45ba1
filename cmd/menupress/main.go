// Package main is the entry point for the MenuPress server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"menupress/internal/broadcast"
	"menupress/internal/cache"
	"menupress/internal/config"
	"menupress/internal/database"
	"menupress/internal/handlers"
	"menupress/internal/menustate"
	"menupress/internal/middleware"
	"menupress/internal/render"
	"menupress/internal/router"
	"menupress/internal/session"
	"menupress/internal/shortlink"
	"menupress/internal/store"
	menusync "menupress/internal/sync"
)

func main() {
	// Structured logger — outputs JSON in production, text in development.
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
	)

	// Connect to PostgreSQL.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run pending migrations.
	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	// Connect to Valkey (Redis-compatible cache + session store).
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	// Initialize session store backed by Valkey.
	// In non-development environments, mark session cookies as Secure (HTTPS-only).
	secureCookies := !cfg.IsDev()
	sessionStore := session.NewStore(valkeyClient, secureCookies)

	// Initialize data stores.
	userStore := store.NewUserStore(db)
	restaurantStore := store.NewRestaurantStore(db)
	menuStore := store.NewMenuStore(db)
	optionStore := store.NewOptionStore(db)
	linkStore := store.NewLinkStore(db)
	userThemeStore := store.NewUserThemeStore(db)
	subscriptionStore := store.NewSubscriptionStore(db)
	syncLogStore := store.NewSyncLogStore(db)

	// Live editing state: optimistic snapshots synced to the database in
	// the background, with change notifications fanned out per restaurant.
	emitter := menusync.NewEmitter()
	persister := menustate.NewStorePersister(db)
	manager := menustate.NewManager(persister, emitter)

	// Tiered menu reader: live state, then Valkey, then the database.
	menuCache := cache.NewMenuCache(manager, valkeyClient, cfg.MenuCacheTTL, menuStore.FullMenu)
	pageCache := cache.NewPageCache(valkeyClient, cache.DefaultPageTTL)

	// Cross-instance invalidation hints over Valkey pub/sub.
	broadcaster := broadcast.New(valkeyClient)

	listenCtx, stopListen := context.WithCancel(context.Background())
	defer stopListen()
	go func() {
		err := broadcaster.Listen(listenCtx, func(hint broadcast.Hint) {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			menuCache.Invalidate(ctx, hint.RestaurantID)
			if restaurant, err := restaurantStore.FindByID(hint.RestaurantID); err == nil && restaurant != nil {
				pageCache.Invalidate(ctx, restaurant.Slug)
			}

			// Menu hints never drop the live store: it may hold optimistic
			// edits mid-sync. Settings and publish changes bypass it, so
			// those reload from the database on next access.
			if hint.Type != broadcast.HintMenuUpdated {
				manager.Invalidate(hint.RestaurantID)
			}
		})
		if err != nil && err != context.Canceled {
			slog.Error("broadcast listener stopped", "error", err)
		}
	}()

	// Short links: deterministic hash + menu id, verified before sharing.
	resolver := shortlink.NewResolver(linkStore)

	// Public page renderer.
	renderer := render.New()

	// Create handler groups with their dependencies.
	authHandlers := handlers.NewAuthHandler(userStore, sessionStore)
	adminHandlers := handlers.NewAdminHandler(handlers.AdminDeps{
		Restaurants:   restaurantStore,
		Subscriptions: subscriptionStore,
		UserThemes:    userThemeStore,
		Links:         linkStore,
		Options:       optionStore,
		SyncLog:       syncLogStore,
		Manager:       manager,
		Emitter:       emitter,
		MenuCache:     menuCache,
		PageCache:     pageCache,
		Broadcaster:   broadcaster,
		Resolver:      resolver,
		BaseURL:       cfg.PublicBaseURL,
	})
	publicHandlers := handlers.NewPublicHandler(restaurantStore, linkStore, menuCache, pageCache, renderer)

	// Login attempts: 10 per minute per IP.
	loginLimiter := middleware.NewRateLimiter(10, time.Minute)
	defer loginLimiter.Stop()

	// Set up the Chi router with all middleware and routes.
	r := router.New(sessionStore, loginLimiter, authHandlers, adminHandlers, publicHandlers)

	// Create the HTTP server with sensible timeouts.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	// Give active requests up to 30 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
