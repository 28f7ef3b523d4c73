package middleware

import (
	"context"
	"crypto/rand"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// SessionConfig はエンゲージメント用セッションクッキーの設定
type SessionConfig struct {
	CookieName string
	Secure     bool
	// Secret はクッキーの署名鍵。空ならプロセスごとにランダム生成する
	Secret []byte
}

type sessionKey struct{}

// SessionIdentity はセッションIDを解決し、無ければ新しく発行してクッキーに設定する
// セッションIDは認証とは無関係で、閲覧・リアクションの重複排除にのみ使う
// クッキーはサーバーが署名した値だけを受け付け、改ざん・偽造されたものは発行し直す
func SessionIdentity(cfg SessionConfig) echo.MiddlewareFunc {
	name := cfg.CookieName
	if name == "" {
		name = "eb_session"
	}
	secret := cfg.Secret
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			panic("セッション署名鍵の生成に失敗しました: " + err.Error())
		}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var sessionID string
			if ck, err := c.Cookie(name); err == nil {
				sessionID = parseSessionCookie(secret, ck.Value)
			}
			if sessionID == "" {
				sessionID = uuid.NewString()
				value, err := signSessionCookie(secret, sessionID)
				if err != nil {
					return err
				}
				c.SetCookie(&http.Cookie{
					Name:     name,
					Value:    value,
					Path:     "/",
					HttpOnly: true,
					Secure:   cfg.Secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx := context.WithValue(c.Request().Context(), sessionKey{}, sessionID)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// signSessionCookie はセッションIDを HS256 で署名したクッキー値にする
func signSessionCookie(secret []byte, sessionID string) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{ID: sessionID}).SignedString(secret)
}

// parseSessionCookie は署名を検証してセッションIDを取り出す。不正なら空文字
func parseSessionCookie(secret []byte, value string) string {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(value, &claims, func(*jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return ""
	}
	id, err := uuid.Parse(claims.ID)
	if err != nil {
		return ""
	}
	return id.String()
}

// SessionIDFromContext は context からセッションIDを取り出す。無ければ空文字
func SessionIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(sessionKey{}).(string)
	return id
}

// WithSession はセッションIDを引数として渡すハンドラーに変換する
func WithSession(fn func(c echo.Context, sessionID string) error) echo.HandlerFunc {
	return func(c echo.Context) error {
		return fn(c, SessionIDFromContext(c.Request().Context()))
	}
}
