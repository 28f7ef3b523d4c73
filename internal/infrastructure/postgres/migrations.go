package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"

	"github.com/urosevicvuk/raf-event-booker/internal/pkg/logger"
)

// ErrDirtyMigration は前回のマイグレーションが途中で失敗したまま残っている状態
var ErrDirtyMigration = errors.New("マイグレーションが dirty 状態です。手動で修復してください")

// Migrate は dir 配下の SQL を最新まで適用し、適用後のバージョンを返す
func Migrate(db *sql.DB, dir string) (uint, error) {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return 0, fmt.Errorf("マイグレーションドライバー作成エラー: %w", err)
	}
	m, err := migrate.NewWithDatabaseInstance("file://"+dir, "postgres", driver)
	if err != nil {
		return 0, fmt.Errorf("マイグレーションソース読み込みエラー: %w", err)
	}

	if _, dirty, err := m.Version(); err == nil && dirty {
		return 0, ErrDirtyMigration
	}

	err = m.Up()
	switch {
	case errors.Is(err, migrate.ErrNoChange):
	case err != nil:
		return 0, fmt.Errorf("マイグレーション実行エラー: %w", err)
	}

	version, _, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("マイグレーションバージョン取得エラー: %w", err)
	}
	logger.Info("マイグレーション適用済み", zap.Uint("version", version))
	return version, nil
}
