package user

import "errors"

// User ドメインのエラー定義
var (
	ErrUserNotFound       = errors.New("ユーザーが見つかりません")
	ErrEmailAlreadyExists = errors.New("メールアドレスは既に登録されています")
	ErrInvalidEmail       = errors.New("メールアドレスの形式が不正です")
	ErrNameRequired       = errors.New("氏名は必須です")
	ErrInvalidRole        = errors.New("権限は admin または creator である必要があります")
	ErrInvalidStatus      = errors.New("状態は active または inactive である必要があります")
	ErrPasswordRequired   = errors.New("パスワードは必須です")
	ErrAdminProtected     = errors.New("管理者ユーザーは削除や無効化、降格ができません")
	ErrInvalidCredentials = errors.New("認証情報が一致しません")
)
