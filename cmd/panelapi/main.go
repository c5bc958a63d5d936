package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"panelkit/internal/config"
	httpx "panelkit/internal/http"
	middlewarex "panelkit/internal/http/middleware"
	"panelkit/internal/services/data"
	"panelkit/internal/store/memory"
	"panelkit/internal/store/postgres"
	"panelkit/internal/store/repositories"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.MustLoad()
	config.InitLogger(cfg.App.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		notifications repositories.NotificationRepository
		events        repositories.EventRepository
	)
	if cfg.DB.DSN != "" {
		pool := postgres.MustOpen(ctx, cfg.DB.DSN)
		defer pool.Close()
		if err := postgres.Migrate(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("db migrate fail")
		}
		notifications = postgres.NewNotificationRepository(pool)
		events = postgres.NewEventRepository(pool)
	} else {
		log.Warn().Msg("DB_DSN not set, serving in-memory demo data")
		notifications, events = memory.Demo(time.Now().UTC())
	}

	deps := httpx.RouterDependencies{
		Config:      cfg,
		DataService: data.NewService(notifications, events, cfg.List.PageSize, cfg.List.MaxPageSize),
	}
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis unreachable, rate limiting fails open")
		}
		deps.Limiter = middlewarex.NewRedisCounter(rdb)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      httpx.NewRouter(deps),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info().Msgf("panel API listening on :%s", cfg.App.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	cancel()
	ctx2, cancel2 := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	log.Info().Msg("server stopped")
}
