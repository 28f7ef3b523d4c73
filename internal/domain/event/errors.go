package event

import "errors"

// Event ドメインのエラー定義
var (
	ErrEventNotFound       = errors.New("イベントが見つかりません")
	ErrTitleRequired       = errors.New("タイトルは必須です")
	ErrDescriptionRequired = errors.New("説明は必須です")
	ErrLocationRequired    = errors.New("開催場所は必須です")
	ErrEventDateRequired   = errors.New("開催日時は必須です")
	ErrCategoryRequired    = errors.New("カテゴリは必須です")
	ErrInvalidCapacity     = errors.New("定員は0以上である必要があります")
	ErrSearchTermRequired  = errors.New("検索キーワードは必須です")
)
