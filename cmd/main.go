package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/andrewsflike/officemessenger/internal/cache"
	"github.com/andrewsflike/officemessenger/internal/config"
	"github.com/andrewsflike/officemessenger/internal/handler"
	"github.com/andrewsflike/officemessenger/internal/hub"
	"github.com/andrewsflike/officemessenger/internal/ident"
	"github.com/andrewsflike/officemessenger/internal/registry"
	"github.com/andrewsflike/officemessenger/internal/repository"
	"github.com/andrewsflike/officemessenger/internal/service"
	"github.com/andrewsflike/officemessenger/pkg/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log.Init(cfg.Log)
	logger := log.L()
	logger.Info().Str("host", cfg.Server.Host).Int("port", cfg.Server.Port).Msg("starting office messenger")

	ctx := context.Background()

	// Durable history store.
	var repo repository.MessageRepository
	switch cfg.Store.Backend {
	case config.StoreMemory:
		repo = repository.NewMemoryMessageRepository()
		logger.Warn().Msg("using in-memory store, history will not survive a restart")
	default:
		mongoRepo, err := repository.NewMongoMessageRepository(ctx, cfg.Mongo)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to initialize mongo repository")
		}
		repo = mongoRepo
		logger.Info().Str("uri", cfg.Mongo.URI).Str("database", cfg.Mongo.Database).Msg("connected to mongo")
	}
	defer repo.Close(ctx)

	// Optional history read cache.
	var historyCache cache.HistoryCache = cache.NewNoopHistoryCache()
	if cfg.Redis.Address != "" {
		redisCache, err := cache.NewRedisHistoryCache(cfg.Redis)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to initialize redis cache")
		}
		historyCache = redisCache
		logger.Info().Str("address", cfg.Redis.Address).Msg("connected to redis")
	}
	defer historyCache.Close()

	// Live-session identity registry. In memory on purpose: a fresh process
	// has no live sockets, so it must not inherit presence rows.
	reg := registry.NewMemoryRegistry(ident.NewParticipantIDGenerator())

	wsHub := hub.NewHub()

	messageSvc := service.NewMessageService(repo, historyCache, reg, wsHub, ident.NewUUIDGenerator(), *logger)
	presenceSvc := service.NewPresenceService(reg, messageSvc, wsHub, *logger)

	wsHandler := handler.NewWSHandler(wsHub, presenceSvc, messageSvc, cfg.WebSocket)
	httpHandler := handler.NewHTTPHandler(cfg.Server.WebDir)

	mux := http.NewServeMux()
	wsHandler.RegisterRoutes(mux)
	httpHandler.RegisterRoutes(mux)

	server := &http.Server{
		Addr:        fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:     log.HTTPMiddleware(*logger)(mux),
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", server.Addr).Msg("listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("forced shutdown")
	}

	logger.Info().Msg("stopped")
}
