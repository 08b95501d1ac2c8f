package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/movielobby/catalog/internal/api/handler"
	"github.com/movielobby/catalog/internal/api/middleware"
	"github.com/movielobby/catalog/internal/auth"
	"github.com/movielobby/catalog/internal/config"
	"github.com/movielobby/catalog/internal/domain/repository"
	"github.com/movielobby/catalog/internal/infrastructure/cache"
	"github.com/movielobby/catalog/internal/infrastructure/postgres"
	"github.com/movielobby/catalog/internal/infrastructure/queue"
	"github.com/movielobby/catalog/internal/usecase"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	ctx := context.Background()

	pg, err := postgres.NewClient(ctx, postgres.DefaultClientConfig(cfg.Database.DSN()))
	if err != nil {
		return fmt.Errorf("failed to connect to postgres: %w", err)
	}
	defer pg.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr: cfg.Redis.Addr(),
		DB:   cfg.Redis.DB,
	})
	defer redisClient.Close()

	var events repository.EventPublisher = queue.NewNoopPublisher()
	if cfg.RabbitMQ.Enabled {
		rmq, err := queue.NewClient(ctx, queue.DefaultClientConfig(cfg.RabbitMQ.URL()))
		if err != nil {
			return fmt.Errorf("failed to connect to rabbitmq: %w", err)
		}
		events = rmq
	}
	defer events.Close()

	// Assemble the dependency graph explicitly: repository, base
	// service, then the caching decorator the handlers talk to.
	movieRepo := postgres.NewMovieRepository(pg.Pool())
	catalogCache := cache.NewRedisCatalogCache(redisClient)
	movieSvc := usecase.NewCachedMovieService(
		usecase.NewMovieService(movieRepo, events),
		catalogCache,
		usecase.CachedMovieServiceConfig{CacheTTL: cfg.Cache.TTL},
	)

	verifier := auth.NewJWTVerifier(cfg.Auth.JWTSecret)
	movieHandler := handler.NewMovieHandler(movieSvc)

	r := setupRouter(logger, movieHandler, verifier)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("server error: %w", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info("shutting down server", slog.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	logger.Info("server stopped")
	return nil
}

func setupRouter(logger *slog.Logger, movies *handler.MovieHandler, verifier auth.TokenVerifier) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))

	r.Get("/health", handler.Health)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/movies", func(r chi.Router) {
		r.Get("/", movies.List)
		r.Get("/search", movies.Search)

		// Only mutating routes pass through the access guard.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(verifier))
			r.Post("/", movies.Create)
			r.Put("/{id}", movies.Update)
			r.Delete("/{id}", movies.Delete)
		})
	})

	return r
}
