package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmpty    = errors.New("パスワードは必須です")
	ErrMismatch = errors.New("パスワードが一致しません")
)

// Hash はパスワードを bcrypt でハッシュ化する
func Hash(plain string) (string, error) {
	if plain == "" {
		return "", ErrEmpty
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("パスワードのハッシュ化に失敗: %w", err)
	}
	return string(hash), nil
}

// Compare はハッシュと平文が一致するかを検証する
func Compare(hash, plain string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrMismatch
		}
		return fmt.Errorf("パスワード検証に失敗: %w", err)
	}
	return nil
}
