package application

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/urosevicvuk/raf-event-booker/internal/domain/user"
	"github.com/urosevicvuk/raf-event-booker/internal/pkg/logger"
	"github.com/urosevicvuk/raf-event-booker/internal/pkg/password"
	"github.com/urosevicvuk/raf-event-booker/internal/pkg/token"
)

// ErrUnauthenticated はトークンが無い・検証できない・主体が存在しないことを表す
var ErrUnauthenticated = errors.New("認証に失敗しました")

// TokenService はベアラートークンの発行・検証
type TokenService interface {
	Issue(identity, role string) (string, error)
	Verify(raw string) (*token.Claims, error)
}

type AuthService struct {
	userRepo user.Repository
	tokens   TokenService
}

func NewAuthService(userRepo user.Repository, tokens TokenService) *AuthService {
	return &AuthService{userRepo: userRepo, tokens: tokens}
}

// Login はメールアドレスとパスワードを検証してトークンを発行する
// 無効化されたアカウントにも発行するが、そのトークンは認可ゲートで 403 になる
func (s *AuthService) Login(ctx context.Context, email, plain string) (string, error) {
	u, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return "", user.ErrInvalidCredentials
		}
		return "", fmt.Errorf("ユーザー取得に失敗: %w", err)
	}
	if err := password.Compare(u.PasswordHash, plain); err != nil {
		if errors.Is(err, password.ErrMismatch) {
			return "", user.ErrInvalidCredentials
		}
		return "", err
	}
	return s.tokens.Issue(u.Email, string(u.Role))
}

// Authenticate はベアラートークンを検証し、現在の主体を返す
// 失敗はすべて ErrUnauthenticated を包んで返す。アカウント状態の確認は呼び出し側で行う
func (s *AuthService) Authenticate(ctx context.Context, raw string) (*user.User, error) {
	if raw == "" {
		return nil, ErrUnauthenticated
	}
	claims, err := s.tokens.Verify(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	}
	u, err := s.userRepo.GetByEmail(ctx, claims.Identity)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	}
	return u, nil
}

// BootstrapAdmin は初期管理者が存在しなければ作成する
// email / plain のどちらかが空なら何もしない
func (s *AuthService) BootstrapAdmin(ctx context.Context, email, plain string) error {
	if email == "" || plain == "" {
		return nil
	}
	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	hash, err := password.Hash(plain)
	if err != nil {
		return err
	}
	admin := user.NewUser(email, "System", "Administrator", user.RoleAdmin, user.StatusActive, hash)
	if err := admin.Validate(); err != nil {
		return err
	}
	if err := s.userRepo.Create(ctx, admin); err != nil {
		if errors.Is(err, user.ErrEmailAlreadyExists) {
			return nil
		}
		return fmt.Errorf("初期管理者の作成に失敗: %w", err)
	}
	logger.Info("初期管理者を作成しました", zap.String("email", admin.Email))
	return nil
}
