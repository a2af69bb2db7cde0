package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/GoArmGo/AssetHub/internal/config"
	"github.com/GoArmGo/AssetHub/internal/core/ports"
	"github.com/GoArmGo/AssetHub/internal/domain"
	"github.com/GoArmGo/AssetHub/internal/handler"
	"github.com/GoArmGo/AssetHub/internal/usecase"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const shutdownTimeout = 30 * time.Second

// ServerDeps это всё, что нужно HTTP-серверу.
type ServerDeps struct {
	Assets      usecase.AssetUseCase
	Moderation  usecase.ModerationUseCase
	History     usecase.HistoryUseCase
	Saved       usecase.SavedAssetUseCase
	Catalog     usecase.CatalogUseCase
	Users       usecase.UserUseCase
	Notifier    *usecase.Notifier
	RateLimiter ports.RateLimiter
}

// runServer запускает HTTP сервер и ждёт отмены ctx
func runServer(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	health func(context.Context) error,
	deps *ServerDeps,
) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	serverAddr := fmt.Sprintf(":%s", cfg.ServerPort)
	server := &http.Server{
		Addr:              serverAddr,
		Handler:           newRouter(cfg, logger, health, deps, reg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server started", "addr", serverAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("ошибка при запуске сервера: %w", err)
		}
	case <-ctx.Done():
	}
	logger.Info("shutdown signal received, stopping http server")

	ctxServer, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctxServer); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	deps.Notifier.Wait()

	logger.Info("http server stopped")
	return nil
}

func newRouter(
	cfg *config.Config,
	logger *slog.Logger,
	health func(context.Context) error,
	deps *ServerDeps,
	reg *prometheus.Registry,
) http.Handler {
	assetHandler := handler.NewAssetHandler(deps.Assets, deps.Moderation, deps.History, logger)
	userHandler := handler.NewUserHandler(deps.Users, deps.Saved, logger)
	catalogHandler := handler.NewCatalogHandler(deps.Catalog, logger)
	metrics := handler.NewMetrics(reg)

	signedIn := handler.RequireRole(logger)
	admin := handler.RequireRole(logger, domain.RoleAdmin)
	uploader := handler.RequireRole(logger, domain.RoleContributor, domain.RoleAdmin)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	if cfg.TrustProxyHeaders {
		r.Use(middleware.RealIP)
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(handler.RequestLogger(logger))
	r.Use(metrics.Middleware)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", handler.Health(health, logger))
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(cfg.RequestTimeout))
		r.Use(handler.RateLimit(deps.RateLimiter, cfg.RateLimitPerMinute, logger))
		r.Use(handler.Region(cfg.RegionHeader, cfg.RestrictedRegions))
		r.Use(handler.Authenticate([]byte(cfg.IdentityJWTSecret), deps.Users, logger))

		r.Route("/asset", func(r chi.Router) {
			r.Get("/search", assetHandler.Search)
			r.With(uploader).Post("/upload", assetHandler.Upload)
			r.With(admin).Get("/approval-queue", assetHandler.ApprovalQueue)
			r.With(signedIn).Post("/history", assetHandler.RecordHistory)
			r.With(signedIn).Get("/history", assetHandler.ListHistory)
			r.Get("/{id}", assetHandler.GetAsset)
			r.With(admin).Delete("/{id}", assetHandler.Delete)
			r.With(admin).Post("/{id}/approve", assetHandler.Approve)
			r.With(admin).Post("/{id}/deny", assetHandler.Deny)
		})

		r.Route("/user", func(r chi.Router) {
			r.Use(signedIn)
			r.Get("/me", userHandler.Me)
			r.Patch("/me", userHandler.UpdateMe)
			r.Get("/saved-assets", userHandler.ListSaved)
			r.Post("/saved-assets/{id}", userHandler.Save)
			r.Delete("/saved-assets/{id}", userHandler.Unsave)
		})

		r.Route("/game", func(r chi.Router) {
			r.Get("/all", catalogHandler.ListGames)
			r.Get("/{slug}", catalogHandler.GetGame)
			r.With(admin).Post("/", catalogHandler.CreateGame)
			r.With(admin).Patch("/{id}", catalogHandler.UpdateGame)
			r.With(admin).Post("/{id}/category/{categoryId}", catalogHandler.LinkGameCategory)
		})

		r.Route("/category", func(r chi.Router) {
			r.Get("/all", catalogHandler.ListCategories)
			r.Get("/{slug}", catalogHandler.GetCategory)
			r.With(admin).Post("/", catalogHandler.CreateCategory)
		})

		r.Route("/tag", func(r chi.Router) {
			r.Get("/all", catalogHandler.ListTags)
			r.With(admin).Post("/", catalogHandler.CreateTag)
		})
	})

	return r
}
