package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/urosevicvuk/raf-event-booker/internal/domain/user"
	"github.com/urosevicvuk/raf-event-booker/internal/pkg/logger"
	"github.com/urosevicvuk/raf-event-booker/internal/pkg/metrics"
	"github.com/urosevicvuk/raf-event-booker/internal/pkg/token"
)

// APIPrefix は公開APIのパスプレフィックス
const APIPrefix = "/api"

// Access はルートが要求するアクセスレベル
type Access int

const (
	AccessPublic Access = iota
	AccessAuthenticated
	AccessAdmin
)

func (a Access) String() string {
	switch a {
	case AccessAuthenticated:
		return "authenticated"
	case AccessAdmin:
		return "admin"
	default:
		return "public"
	}
}

// RequiredAccess はメソッドとルートテンプレートから必要なアクセスレベルを返す
//
//	ログイン              : 常に公開
//	/users 配下           : 管理者のみ
//	/events, /categories : 書き込みは認証必須（閲覧・リアクションも含む）、読み取りは公開
//	その他                : 公開
func RequiredAccess(method, route string) Access {
	route = strings.TrimPrefix(route, APIPrefix)

	if strings.HasSuffix(route, "/login") {
		return AccessPublic
	}
	if underResource(route, "/users") {
		return AccessAdmin
	}
	if underResource(route, "/events") || underResource(route, "/categories") {
		if !isWrite(method) {
			return AccessPublic
		}
		return AccessAuthenticated
	}
	return AccessPublic
}

func underResource(route, resource string) bool {
	return route == resource || strings.HasPrefix(route, resource+"/")
}

func isWrite(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

// Authenticator はベアラートークンから主体を解決する
type Authenticator interface {
	Authenticate(ctx context.Context, raw string) (*user.User, error)
}

type rejection struct {
	status  int
	reason  string
	message string
}

func (r *rejection) httpError() *echo.HTTPError {
	return echo.NewHTTPError(r.status, r.message)
}

var (
	rejectMissing  = &rejection{http.StatusUnauthorized, "missing_token", "認証が必要です"}
	rejectInvalid  = &rejection{http.StatusUnauthorized, "invalid_token", "認証に失敗しました"}
	rejectExpired  = &rejection{http.StatusUnauthorized, "expired_token", "トークンの有効期限が切れています"}
	rejectInternal = &rejection{http.StatusUnauthorized, "internal", "認証に失敗しました"}
	rejectInactive = &rejection{http.StatusForbidden, "inactive", "アカウントが無効化されています"}
	rejectNotAdmin = &rejection{http.StatusForbidden, "admin_required", "管理者権限が必要です"}
)

// AuthGate はルートごとのアクセスポリシーに従ってリクエストを許可・拒否する
// 認証処理中の想定外の失敗は 500 にせず、すべて 401 として扱う
func AuthGate(auth Authenticator, m *metrics.Metrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			access := RequiredAccess(req.Method, routeOf(c))
			if access == AccessPublic {
				return next(c)
			}

			principal, rej := authorize(c, auth, access)
			if rej != nil {
				m.RecordAuthRejection(rej.reason)
				logger.FromContext(req.Context()).Warn("リクエストを拒否しました",
					zap.String("reason", rej.reason),
					zap.String("method", req.Method),
					zap.String("route", routeOf(c)),
					zap.String("required", access.String()),
				)
				return rej.httpError()
			}

			ctx := ContextWithPrincipal(req.Context(), principal)
			c.SetRequest(req.WithContext(ctx))
			return next(c)
		}
	}
}

func authorize(c echo.Context, auth Authenticator, access Access) (principal *user.User, rej *rejection) {
	defer func() {
		if r := recover(); r != nil {
			logger.FromContext(c.Request().Context()).Error("認可処理でpanicが発生しました", zap.Any("panic", r))
			principal, rej = nil, rejectInternal
		}
	}()

	raw := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
	if raw == "" {
		return nil, rejectMissing
	}

	u, err := auth.Authenticate(c.Request().Context(), raw)
	if err != nil {
		if errors.Is(err, token.ErrExpired) {
			return nil, rejectExpired
		}
		return nil, rejectInvalid
	}
	if u == nil {
		return nil, rejectInternal
	}
	if !u.IsActive() {
		return nil, rejectInactive
	}
	if access == AccessAdmin && !u.IsAdmin() {
		return nil, rejectNotAdmin
	}
	return u, nil
}

// bearerToken は "Bearer " プレフィックスがあれば取り除く
func bearerToken(header string) string {
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}

// routeOf はマッチしたルートテンプレートを返す。未マッチならリクエストパス
func routeOf(c echo.Context) string {
	if p := c.Path(); p != "" {
		return p
	}
	return c.Request().URL.Path
}

type principalKey struct{}

// ContextWithPrincipal は認証済みの主体を context に格納する
func ContextWithPrincipal(ctx context.Context, u *user.User) context.Context {
	return context.WithValue(ctx, principalKey{}, u)
}

// PrincipalFromContext は context から認証済みの主体を取り出す
func PrincipalFromContext(ctx context.Context) (*user.User, bool) {
	u, ok := ctx.Value(principalKey{}).(*user.User)
	return u, ok && u != nil
}

// WithPrincipal は認証済みの主体を引数として渡すハンドラーに変換する
// AuthGate を通っていないルートで使うと 401 を返す
func WithPrincipal(fn func(c echo.Context, principal *user.User) error) echo.HandlerFunc {
	return func(c echo.Context) error {
		u, ok := PrincipalFromContext(c.Request().Context())
		if !ok {
			return rejectMissing.httpError()
		}
		return fn(c, u)
	}
}
