package user

import (
	"strings"
	"time"
)

// Role はユーザーの権限を表す
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleCreator Role = "creator"
)

// IsValid は既知の権限かを返す
func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleCreator
}

// Status はアカウントの状態を表す
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// User は認証主体（プリンシパル）を表す
type User struct {
	ID           string
	Email        string
	FirstName    string
	LastName     string
	Role         Role
	Status       Status
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewUser は新しいユーザーを作成する（パスワードはハッシュ済みで渡す）
func NewUser(email, firstName, lastName string, role Role, status Status, passwordHash string) *User {
	now := time.Now()
	if status == "" {
		status = StatusActive
	}
	return &User{
		Email:        strings.ToLower(strings.TrimSpace(email)),
		FirstName:    firstName,
		LastName:     lastName,
		Role:         role,
		Status:       status,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// IsAdmin は管理者かを返す
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsActive はアカウントが有効かを返す
func (u *User) IsActive() bool {
	return u.Status == StatusActive
}

// Activate はアカウントを有効化する
func (u *User) Activate() {
	u.Status = StatusActive
	u.UpdatedAt = time.Now()
}

// Deactivate はアカウントを無効化する。管理者は無効化できない
func (u *User) Deactivate() error {
	if u.IsAdmin() {
		return ErrAdminProtected
	}
	u.Status = StatusInactive
	u.UpdatedAt = time.Now()
	return nil
}

// ChangeRole は権限を変更する。管理者を別の権限へ降格することはできない
func (u *User) ChangeRole(r Role) error {
	if u.IsAdmin() && r != RoleAdmin {
		return ErrAdminProtected
	}
	u.Role = r
	return nil
}

// CanBeDeleted は削除可能かを返す
func (u *User) CanBeDeleted() error {
	if u.IsAdmin() {
		return ErrAdminProtected
	}
	return nil
}

// Validate はユーザーの検証を行う
func (u *User) Validate() error {
	if u.Email == "" || !strings.Contains(u.Email, "@") {
		return ErrInvalidEmail
	}
	if u.FirstName == "" || u.LastName == "" {
		return ErrNameRequired
	}
	if !u.Role.IsValid() {
		return ErrInvalidRole
	}
	if u.Status != StatusActive && u.Status != StatusInactive {
		return ErrInvalidStatus
	}
	if u.PasswordHash == "" {
		return ErrPasswordRequired
	}
	return nil
}
