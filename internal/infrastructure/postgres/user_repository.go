package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/urosevicvuk/raf-event-booker/internal/domain/user"
)

const userColumns = `id, email, first_name, last_name, role, status, password_hash, created_at, updated_at`

type userRow struct {
	ID           string    `db:"id"`
	Email        string    `db:"email"`
	FirstName    string    `db:"first_name"`
	LastName     string    `db:"last_name"`
	Role         string    `db:"role"`
	Status       string    `db:"status"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (r *userRow) toEntity() *user.User {
	return &user.User{
		ID:           r.ID,
		Email:        r.Email,
		FirstName:    r.FirstName,
		LastName:     r.LastName,
		Role:         user.Role(r.Role),
		Status:       user.Status(r.Status),
		PasswordHash: r.PasswordHash,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

// UserRepository はユーザーリポジトリのPostgreSQL実装
type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	query := `
		INSERT INTO users (email, first_name, last_name, role, status, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query,
		u.Email, u.FirstName, u.LastName, string(u.Role), string(u.Status), u.PasswordHash, u.CreatedAt, u.UpdatedAt,
	).Scan(&u.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return user.ErrEmailAlreadyExists
		}
		return fmt.Errorf("ユーザー作成に失敗しました: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*user.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

// GetByEmail はメールアドレス（小文字）でユーザーを取得する
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = LOWER($1)`, email)
}

func (r *UserRepository) getOne(ctx context.Context, query string, arg string) (*user.User, error) {
	var row userRow
	if err := r.db.GetContext(ctx, &row, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) || isInvalidText(err) {
			return nil, user.ErrUserNotFound
		}
		return nil, fmt.Errorf("ユーザー取得に失敗しました: %w", err)
	}
	return row.toEntity(), nil
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	if err := r.db.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM users WHERE email = LOWER($1))`, email); err != nil {
		return false, fmt.Errorf("ユーザー存在確認に失敗しました: %w", err)
	}
	return exists, nil
}

// List はユーザー一覧を作成日時の新しい順に返す
func (r *UserRepository) List(ctx context.Context, role user.Role, limit, offset int) ([]*user.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE ($1::text = '' OR role = $1::text)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	var rows []userRow
	if err := r.db.SelectContext(ctx, &rows, query, string(role), limit, offset); err != nil {
		return nil, fmt.Errorf("ユーザー一覧取得に失敗しました: %w", err)
	}

	users := make([]*user.User, len(rows))
	for i := range rows {
		users[i] = rows[i].toEntity()
	}
	return users, nil
}

// Update はプロフィール・権限・状態を更新する（パスワードは UpdatePassword で更新する）
func (r *UserRepository) Update(ctx context.Context, u *user.User) error {
	query := `
		UPDATE users
		SET email = $1, first_name = $2, last_name = $3, role = $4, status = $5, updated_at = $6
		WHERE id = $7
	`
	u.UpdatedAt = time.Now()
	result, err := r.db.ExecContext(ctx, query,
		u.Email, u.FirstName, u.LastName, string(u.Role), string(u.Status), u.UpdatedAt, u.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return user.ErrEmailAlreadyExists
		}
		if isInvalidText(err) {
			return user.ErrUserNotFound
		}
		return fmt.Errorf("ユーザー更新に失敗しました: %w", err)
	}
	return expectAffected(result, user.ErrUserNotFound)
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE users SET password_hash = $1, updated_at = $2 WHERE id = $3`,
		passwordHash, time.Now(), id,
	)
	if err != nil {
		if isInvalidText(err) {
			return user.ErrUserNotFound
		}
		return fmt.Errorf("パスワード更新に失敗しました: %w", err)
	}
	return expectAffected(result, user.ErrUserNotFound)
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		if isInvalidText(err) {
			return user.ErrUserNotFound
		}
		return fmt.Errorf("ユーザー削除に失敗しました: %w", err)
	}
	return expectAffected(result, user.ErrUserNotFound)
}

// expectAffected は更新件数が0なら notFound を返す
func expectAffected(result sql.Result, notFound error) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("更新結果の確認に失敗しました: %w", err)
	}
	if rowsAffected == 0 {
		return notFound
	}
	return nil
}

var _ user.Repository = (*UserRepository)(nil)
