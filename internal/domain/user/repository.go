package user

import "context"

// Repository はユーザーリポジトリのインターフェース
type Repository interface {
	// Create は新しいユーザーを作成する（メールアドレス重複時は ErrEmailAlreadyExists）
	Create(ctx context.Context, user *User) error

	// GetByID はIDからユーザーを取得する
	GetByID(ctx context.Context, id string) (*User, error)

	// GetByEmail はメールアドレスからユーザーを取得する
	GetByEmail(ctx context.Context, email string) (*User, error)

	// ExistsByEmail はメールアドレスが登録済みかを返す
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// List はユーザー一覧を取得する（role が空なら全件）
	List(ctx context.Context, role Role, limit, offset int) ([]*User, error)

	// Update はユーザーを更新する
	Update(ctx context.Context, user *User) error

	// UpdatePassword はパスワードハッシュのみを更新する
	UpdatePassword(ctx context.Context, id, passwordHash string) error

	// Delete はユーザーを削除する
	Delete(ctx context.Context, id string) error
}
