package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/urosevicvuk/raf-event-booker/internal/domain/user"
	"github.com/urosevicvuk/raf-event-booker/internal/pkg/password"
)

type UserService struct {
	userRepo user.Repository
}

func NewUserService(userRepo user.Repository) *UserService {
	return &UserService{userRepo: userRepo}
}

type CreateUserInput struct {
	Email     string
	FirstName string
	LastName  string
	Role      user.Role
	Status    user.Status
	Password  string
}

func (s *UserService) CreateUser(ctx context.Context, input CreateUserInput) (*user.User, error) {
	if input.Password == "" {
		return nil, user.ErrPasswordRequired
	}
	hash, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	u := user.NewUser(input.Email, input.FirstName, input.LastName, input.Role, input.Status, hash)
	if err := u.Validate(); err != nil {
		return nil, err
	}
	if err := s.userRepo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *UserService) GetUser(ctx context.Context, id string) (*user.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *UserService) GetUserByEmail(ctx context.Context, email string) (*user.User, error) {
	return s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
}

// ListUsers はユーザー一覧を返す。role が空なら全件
func (s *UserService) ListUsers(ctx context.Context, role user.Role, limit, offset int) ([]*user.User, error) {
	if role != "" && !role.IsValid() {
		return nil, user.ErrInvalidRole
	}
	limit, offset = normalizePage(limit, offset)
	return s.userRepo.List(ctx, role, limit, offset)
}

type UpdateUserInput struct {
	ID        string
	Email     string
	FirstName string
	LastName  string
	Role      user.Role
	Status    user.Status
}

// UpdateUser はプロフィール・権限・状態を更新する
// 管理者を無効化・降格する更新は ErrAdminProtected
func (s *UserService) UpdateUser(ctx context.Context, input UpdateUserInput) (*user.User, error) {
	u, err := s.userRepo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if input.Status == user.StatusInactive && u.IsActive() {
		if err := u.Deactivate(); err != nil {
			return nil, err
		}
	}
	if input.Email != "" {
		u.Email = strings.ToLower(strings.TrimSpace(input.Email))
	}
	if err := u.ChangeRole(input.Role); err != nil {
		return nil, err
	}
	u.FirstName = input.FirstName
	u.LastName = input.LastName
	if input.Status != "" {
		u.Status = input.Status
	}
	if err := u.Validate(); err != nil {
		return nil, err
	}
	if err := s.userRepo.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *UserService) ActivateUser(ctx context.Context, id string) (*user.User, error) {
	u, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	u.Activate()
	if err := s.userRepo.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// DeactivateUser はアカウントを無効化する。管理者は ErrAdminProtected
func (s *UserService) DeactivateUser(ctx context.Context, id string) (*user.User, error) {
	u, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := u.Deactivate(); err != nil {
		return nil, err
	}
	if err := s.userRepo.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *UserService) ChangePassword(ctx context.Context, id, plain string) error {
	if _, err := s.userRepo.GetByID(ctx, id); err != nil {
		return err
	}
	hash, err := password.Hash(plain)
	if err != nil {
		if errors.Is(err, password.ErrEmpty) {
			return user.ErrPasswordRequired
		}
		return err
	}
	if err := s.userRepo.UpdatePassword(ctx, id, hash); err != nil {
		return fmt.Errorf("パスワード変更に失敗: %w", err)
	}
	return nil
}

// DeleteUser はユーザーを削除する。管理者は呼び出し元の権限に関わらず削除できない
func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	u, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := u.CanBeDeleted(); err != nil {
		return err
	}
	return s.userRepo.Delete(ctx, id)
}
