package rsvp

import "errors"

// RSVP ドメインのエラー定義
var (
	ErrAlreadyRegistered      = errors.New("このイベントには既に登録されています")
	ErrCapacityExceeded       = errors.New("イベントは満員です（定員に達しました）")
	ErrEventIDRequired        = errors.New("イベントIDは必須です")
	ErrUserIdentifierRequired = errors.New("ユーザー識別子は必須です")
)
