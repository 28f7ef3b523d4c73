package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/urosevicvuk/raf-event-booker/internal/pkg/metrics"
)

// Options は共通ミドルウェアの設定
type Options struct {
	// AllowOrigins が空なら全オリジンを許可する
	AllowOrigins []string
	// Metrics が nil の場合はHTTPメトリクスを収集しない
	Metrics *metrics.Metrics
}

// SetupMiddleware は全ルートに共通のミドルウェアを登録する
// 順序: リクエストID → ログ → リカバリー → メトリクス → CORS
func SetupMiddleware(e *echo.Echo, opts Options) {
	e.Use(middleware.RequestID())
	e.Use(RequestLogger())
	e.Use(middleware.Recover())

	if opts.Metrics != nil {
		e.Use(PrometheusMiddleware(opts.Metrics))
	}

	origins := opts.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: origins,
		AllowMethods: []string{http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		// エンゲージメント用セッション Cookie をブラウザから送らせる
		AllowCredentials: !contains(origins, "*"),
		ExposeHeaders:    []string{echo.HeaderXRequestID},
	}))
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
