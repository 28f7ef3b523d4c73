// Package server はリポジトリ・サービス・ハンドラーを組み立てて Echo サーバーを構成する
package server

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/urosevicvuk/raf-event-booker/internal/api"
	"github.com/urosevicvuk/raf-event-booker/internal/api/handler"
	"github.com/urosevicvuk/raf-event-booker/internal/api/middleware"
	"github.com/urosevicvuk/raf-event-booker/internal/api/router"
	"github.com/urosevicvuk/raf-event-booker/internal/application"
	"github.com/urosevicvuk/raf-event-booker/internal/config"
	"github.com/urosevicvuk/raf-event-booker/internal/domain/engagement"
	"github.com/urosevicvuk/raf-event-booker/internal/domain/lock"
	"github.com/urosevicvuk/raf-event-booker/internal/domain/rsvp"
	"github.com/urosevicvuk/raf-event-booker/internal/infrastructure/memory"
	"github.com/urosevicvuk/raf-event-booker/internal/infrastructure/postgres"
	redisinfra "github.com/urosevicvuk/raf-event-booker/internal/infrastructure/redis"
	"github.com/urosevicvuk/raf-event-booker/internal/pkg/logger"
	"github.com/urosevicvuk/raf-event-booker/internal/pkg/metrics"
	"github.com/urosevicvuk/raf-event-booker/internal/pkg/token"
	"github.com/urosevicvuk/raf-event-booker/internal/worker"
)

var ErrRedisRequired = errors.New("SESSION_STORE=redis には Redis 接続が必要です")

// Deps はサーバーの外部依存
type Deps struct {
	Config  *config.Config
	DB      *sqlx.DB
	Redis   *redis.Client // SESSION_STORE=memory の場合は nil でよい
	Metrics *metrics.Metrics
}

// Server は構成済みの Echo と、メモリストア使用時のスイーパー
type Server struct {
	Echo    *echo.Echo
	Sweeper *worker.ExpiredSessionSweeper
}

// New はサーバーを構成する。初期管理者の作成もここで行う
func New(ctx context.Context, d Deps) (*Server, error) {
	cfg := d.Config

	tokens, err := newTokenService(&cfg.Auth)
	if err != nil {
		return nil, err
	}

	// リポジトリ
	userRepo := postgres.NewUserRepository(d.DB)
	eventRepo := postgres.NewEventRepository(d.DB)
	categoryRepo := postgres.NewCategoryRepository(d.DB)
	tagRepo := postgres.NewTagRepository(d.DB)
	commentRepo := postgres.NewCommentRepository(d.DB)
	rsvpRepo := postgres.NewRSVPRepository(d.DB)
	counterRepo := postgres.NewCounterRepository(d.DB)
	txManager := postgres.NewTxManager(d.DB)

	// セッションストア・ロック・キャッシュ
	var (
		sessions engagement.SessionStore
		locker   lock.Locker
		cache    rsvp.CountCache
		sweeper  *worker.ExpiredSessionSweeper
	)
	switch cfg.Session.Store {
	case config.SessionStoreMemory:
		store := memory.NewSessionStore(cfg.Session.TTL)
		sessions = store
		locker = memory.NewKeyedLocker()
		sweeper = worker.NewExpiredSessionSweeper(store, cfg.Session.SweepInterval)
		if d.Redis != nil {
			cache = redisinfra.NewRosterCache(d.Redis, cfg.RSVP.CacheTTL)
		}
	default:
		if d.Redis == nil {
			return nil, ErrRedisRequired
		}
		sessions = redisinfra.NewSessionStore(d.Redis, cfg.Session.TTL)
		locker = redisinfra.NewLockManager(d.Redis, redisinfra.LockOptions{
			TTL:        cfg.RSVP.LockTTL,
			MaxRetries: cfg.RSVP.LockRetries,
			RetryDelay: cfg.RSVP.LockRetryDelay,
		}, d.Metrics)
		cache = redisinfra.NewRosterCache(d.Redis, cfg.RSVP.CacheTTL)
	}

	// サービス
	authService := application.NewAuthService(userRepo, tokens)
	userService := application.NewUserService(userRepo)
	eventService := application.NewEventService(eventRepo, categoryRepo, tagRepo)
	categoryService := application.NewCategoryService(categoryRepo, eventRepo)
	tagService := application.NewTagService(tagRepo, eventRepo)
	commentService := application.NewCommentService(commentRepo, eventRepo)
	engagementService := application.NewEngagementService(sessions, counterRepo, locker, d.Metrics)
	rsvpService := application.NewRSVPService(txManager, rsvpRepo, eventRepo, locker, cache, d.Metrics)

	if err := authService.BootstrapAdmin(ctx, cfg.App.AdminEmail, cfg.App.AdminPassword); err != nil {
		return nil, fmt.Errorf("初期管理者の作成に失敗しました: %w", err)
	}

	// Echo
	e := echo.New()
	e.HideBanner = true
	e.Validator = api.NewValidator()
	e.HTTPErrorHandler = api.CustomHTTPErrorHandler
	middleware.SetupMiddleware(e, middleware.Options{
		AllowOrigins: cfg.Server.AllowOrigins,
		Metrics:      d.Metrics,
	})

	if d.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(promhttp.Handler()), middleware.MetricsBasicAuth(cfg.Metrics))
	}

	router.Register(e, router.Handlers{
		Health:     handler.NewHealthHandler(healthChecks(d)),
		User:       handler.NewUserHandler(userService, authService),
		Event:      handler.NewEventHandler(eventService),
		Engagement: handler.NewEngagementHandler(engagementService),
		Category:   handler.NewCategoryHandler(categoryService),
		Tag:        handler.NewTagHandler(tagService),
		Comment:    handler.NewCommentHandler(commentService),
		RSVP:       handler.NewRSVPHandler(rsvpService),
	},
		middleware.AuthGate(authService, d.Metrics),
		middleware.SessionIdentity(middleware.SessionConfig{
			CookieName: cfg.Session.CookieName,
			Secure:     cfg.App.Env == "production",
			Secret:     []byte(sessionSecret(cfg)),
		}),
	)

	logger.Info("サーバーを構成しました",
		zap.String("session_store", cfg.Session.Store),
		zap.Bool("roster_cache", cache != nil),
		zap.Bool("metrics_auth", cfg.Metrics.Enabled()),
	)

	return &Server{Echo: e, Sweeper: sweeper}, nil
}

// newTokenService は署名鍵の設定からトークンサービスを作成する
// 署名鍵が未設定なら起動できない
func newTokenService(cfg *config.AuthConfig) (*token.Service, error) {
	previous := make([]token.Key, 0, len(cfg.PreviousKeys))
	for kid, secret := range cfg.PreviousKeys {
		previous = append(previous, token.Key{ID: kid, Secret: []byte(secret)})
	}
	tokens, err := token.NewService(
		token.Key{ID: cfg.SigningKeyID, Secret: []byte(cfg.SigningKey)},
		previous,
		token.WithTTL(cfg.TokenTTL),
		token.WithIssuer(cfg.Issuer),
	)
	if err != nil {
		return nil, fmt.Errorf("トークンサービスの初期化に失敗しました: %w", err)
	}
	return tokens, nil
}

func healthChecks(d Deps) map[string]handler.HealthCheck {
	checks := map[string]handler.HealthCheck{
		"postgres": func(ctx context.Context) error { return postgres.Ping(ctx, d.DB) },
	}
	if d.Redis != nil {
		checks["redis"] = func(ctx context.Context) error { return redisinfra.Ping(ctx, d.Redis) }
	}
	return checks
}

// sessionSecret は SESSION_SECRET が無ければ JWT の署名鍵で代用する
func sessionSecret(cfg *config.Config) string {
	if cfg.Session.Secret != "" {
		return cfg.Session.Secret
	}
	return cfg.Auth.SigningKey
}
