package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/urosevicvuk/raf-event-booker/internal/config"
	"github.com/urosevicvuk/raf-event-booker/internal/infrastructure/postgres"
	redisinfra "github.com/urosevicvuk/raf-event-booker/internal/infrastructure/redis"
	"github.com/urosevicvuk/raf-event-booker/internal/pkg/logger"
	"github.com/urosevicvuk/raf-event-booker/internal/pkg/metrics"
	"github.com/urosevicvuk/raf-event-booker/internal/server"
)

func main() {
	cfg := config.Load()

	// ロガー
	log := logger.NewLogger(cfg.App.Env)
	logger.Set(log)
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// DB接続とマイグレーション
	db, err := postgres.Open(ctx, &cfg.Database)
	if err != nil {
		logger.Fatal("データベース接続エラー", zap.Error(err))
	}
	defer db.Close()

	if _, err := postgres.Migrate(db.DB, cfg.App.MigrationsPath); err != nil {
		logger.Fatal("マイグレーションエラー", zap.Error(err))
	}

	// Redis接続。メモリストア構成では接続できなくても起動する
	pingCtx, cancel := context.WithTimeout(ctx, cfg.Redis.DialTimeout)
	rdb, err := redisinfra.Open(pingCtx, &cfg.Redis)
	cancel()
	switch {
	case err == nil:
		defer rdb.Close()
	case cfg.Session.Store == config.SessionStoreMemory:
		logger.Warn("Redisに接続できません。キャッシュなしで起動します", zap.Error(err))
	default:
		logger.Fatal("Redis接続エラー", zap.Error(err))
	}

	srv, err := server.New(ctx, server.Deps{
		Config:  cfg,
		DB:      db,
		Redis:   rdb,
		Metrics: metrics.New(),
	})
	if err != nil {
		logger.Fatal("サーバー構成エラー", zap.Error(err))
	}

	if srv.Sweeper != nil {
		go srv.Sweeper.Start(ctx)
	}

	e := srv.Echo
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("サーバー起動", zap.String("addr", addr), zap.String("env", cfg.App.Env))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("サーバー起動エラー", zap.Error(err))
		}
	}()

	// シグナル待機
	<-ctx.Done()
	logger.Info("サーバーをシャットダウンしています...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("サーバーシャットダウンエラー", zap.Error(err))
	}
	if srv.Sweeper != nil {
		srv.Sweeper.Stop()
	}

	logger.Info("サーバーが正常にシャットダウンしました")
}
