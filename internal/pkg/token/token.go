package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrMalformed        = errors.New("トークンの形式が不正です")
	ErrInvalidSignature = errors.New("トークンの署名が一致しません")
	ErrExpired          = errors.New("トークンの有効期限が切れています")
	ErrNoSigningKey     = errors.New("署名鍵が設定されていません")
)

// DefaultTTL はトークンの有効期間
const DefaultTTL = 24 * time.Hour

const signingMethod = "HS256"

// Key は署名鍵。ID は JWT ヘッダの kid に入る
type Key struct {
	ID     string
	Secret []byte
}

// Claims は検証済みトークンから取り出した情報
type Claims struct {
	Identity  string
	Role      string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type roleClaims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

// Service は署名付き・期限付きのベアラートークンを発行・検証する
// 状態を持たず、失効リストも持たない。有効性は署名と期限のみで決まる
type Service struct {
	active Key
	keys   map[string][]byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// Option は Service の設定を変更する
type Option func(*Service)

// WithClock は現在時刻の取得関数を差し替える
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithTTL は有効期間を変更する
func WithTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithIssuer は iss クレームを設定する
func WithIssuer(issuer string) Option {
	return func(s *Service) { s.issuer = issuer }
}

// NewService は Service を作成する
// active で署名し、active と previous のいずれでも検証する（鍵ローテーション用）
func NewService(active Key, previous []Key, opts ...Option) (*Service, error) {
	if len(active.Secret) == 0 {
		return nil, ErrNoSigningKey
	}
	if active.ID == "" {
		active.ID = "primary"
	}
	s := &Service{
		active: active,
		keys:   map[string][]byte{active.ID: active.Secret},
		ttl:    DefaultTTL,
		now:    time.Now,
	}
	for _, k := range previous {
		if k.ID == "" || len(k.Secret) == 0 || k.ID == active.ID {
			continue
		}
		s.keys[k.ID] = k.Secret
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Issue は identity を subject、role をクレームに持つトークンを発行する
func (s *Service) Issue(identity, role string) (string, error) {
	issuedAt := s.now()
	c := roleClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.ttl)),
			ID:        uuid.NewString(),
		},
		Role: role,
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	t.Header["kid"] = s.active.ID

	signed, err := t.SignedString(s.active.Secret)
	if err != nil {
		return "", fmt.Errorf("トークン署名に失敗: %w", err)
	}
	return signed, nil
}

// Verify はトークンの署名と期限を検証し、identity と role を返す
// プリンシパルの現在の状態は確認しない
func (s *Service) Verify(raw string) (*Claims, error) {
	if raw == "" {
		return nil, ErrMalformed
	}

	var c roleClaims
	_, err := jwt.ParseWithClaims(raw, &c, s.keyFunc,
		jwt.WithValidMethods([]string{signingMethod}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, mapJWTError(err)
	}
	if c.Subject == "" {
		return nil, ErrMalformed
	}

	claims := &Claims{Identity: c.Subject, Role: c.Role}
	if c.IssuedAt != nil {
		claims.IssuedAt = c.IssuedAt.Time
	}
	if c.ExpiresAt != nil {
		claims.ExpiresAt = c.ExpiresAt.Time
	}
	return claims, nil
}

func (s *Service) keyFunc(t *jwt.Token) (any, error) {
	kid, _ := t.Header["kid"].(string)
	if kid == "" {
		kid = s.active.ID
	}
	secret, ok := s.keys[kid]
	if !ok {
		return nil, ErrInvalidSignature
	}
	return secret, nil
}

func mapJWTError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ErrMalformed
	case errors.Is(err, jwt.ErrTokenSignatureInvalid),
		errors.Is(err, jwt.ErrTokenUnverifiable),
		errors.Is(err, ErrInvalidSignature):
		return ErrInvalidSignature
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	default:
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
}
