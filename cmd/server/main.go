package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"

	"github.com/d60-Lab/polaroad/config"
	"github.com/d60-Lab/polaroad/internal/api"
	"github.com/d60-Lab/polaroad/internal/api/handler"
	"github.com/d60-Lab/polaroad/internal/repository"
	"github.com/d60-Lab/polaroad/internal/service"
	"github.com/d60-Lab/polaroad/pkg/cache"
	"github.com/d60-Lab/polaroad/pkg/database"
	"github.com/d60-Lab/polaroad/pkg/logger"
	"github.com/d60-Lab/polaroad/pkg/tracing"
)

// @title PolaRoad API
// @version 1.0
// @description 旅行照片分享社区的内容服务
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.Server.Mode); err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.Sentry.DSN}); err != nil {
			logger.Warn("init sentry", zap.Error(err))
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	ctx := context.Background()
	if cfg.Otel.Enabled {
		shutdown, err := tracing.Init(ctx, cfg)
		if err != nil {
			logger.Warn("init tracing", zap.Error(err))
		} else {
			defer func() { _ = shutdown(ctx) }()
		}
	}

	db, err := database.InitDB(cfg)
	if err != nil {
		logger.Error("init database", zap.Error(err))
		os.Exit(1)
	}
	rdb, err := cache.InitRedis(cfg)
	if err != nil {
		logger.Error("init redis", zap.Error(err))
		os.Exit(1)
	}

	hashtagRepo := repository.NewHashtagRepository(db)
	searchRepo := repository.NewPostSearchRepository(db)
	postRepo := repository.NewPostRepository(db, hashtagRepo)
	cardRepo := repository.NewCardRepository(db)
	followRepo := repository.NewFollowRepository(db)
	memberRepo := repository.NewMemberRepository(db)

	views := service.NewViewCounter(rdb)
	cardSvc := service.NewCardService(cardRepo, hashtagRepo, memberRepo)
	postSvc := service.NewPostService(searchRepo, postRepo, cardRepo, hashtagRepo, followRepo, memberRepo,
		views, cardSvc, service.ThumbnailFallbackFirst)
	memberSvc := service.NewMemberService(followRepo)

	h := handler.New(postSvc, cardSvc, memberSvc)
	r := api.NewRouter(cfg, h)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r,
	}

	go func() {
		logger.Info("server listening", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("listen", zap.Error(err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
}
