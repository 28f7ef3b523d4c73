package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/urosevicvuk/raf-event-booker/internal/config"
	"github.com/urosevicvuk/raf-event-booker/internal/pkg/logger"
)

// PostgreSQL のエラーコード
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeInvalidText         = "22P02"
)

const connectRetryDelay = time.Second

// Open は PostgreSQL に接続し、プール設定を適用する
// 接続できるまで cfg.ConnectRetries 回まで試行する
func Open(ctx context.Context, cfg *config.DatabaseConfig) (*sqlx.DB, error) {
	attempts := cfg.ConnectRetries
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for i := 1; i <= attempts; i++ {
		db, err := sqlx.ConnectContext(ctx, "postgres", cfg.DSN())
		if err == nil {
			db.SetMaxOpenConns(cfg.MaxOpenConns)
			db.SetMaxIdleConns(cfg.MaxIdleConns)
			db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
			logger.Info("データベースに接続しました",
				zap.String("host", cfg.Host),
				zap.String("db", cfg.DBName),
				zap.Int("attempt", i),
			)
			return db, nil
		}
		lastErr = err
		if i == attempts {
			break
		}
		logger.Warn("データベース接続を再試行します", zap.Int("attempt", i), zap.Error(err))
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(connectRetryDelay):
		}
	}
	return nil, fmt.Errorf("データベース接続に失敗しました: %w", lastErr)
}

// Ping はヘルスチェック用
func Ping(ctx context.Context, db *sqlx.DB) error {
	return db.PingContext(ctx)
}

func pgCode(err error) string {
	var pgErr *pq.Error
	if errors.As(err, &pgErr) {
		return string(pgErr.Code)
	}
	return ""
}

func isUniqueViolation(err error) bool { return pgCode(err) == codeUniqueViolation }

func isForeignKeyViolation(err error) bool { return pgCode(err) == codeForeignKeyViolation }

// isInvalidText は UUID 列に不正な文字列を渡した場合のエラー。呼び出し側では「存在しない」として扱う
func isInvalidText(err error) bool { return pgCode(err) == codeInvalidText }
