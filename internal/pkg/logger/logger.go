// Package logger はアプリケーション全体で共有する zap ロガーを提供する
//
// リクエスト処理中は FromContext でリクエストIDなどが付いたロガーを取り出す。
// それ以外（起動処理やワーカー）はパッケージ関数で共有ロガーに書く。
package logger

import (
	"context"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	serviceName = "raf-event-booker"
	envProd     = "production"
)

type ctxKey struct{}

var log = NewLogger("development")

// NewLogger は実行環境に応じたロガーを生成する
// 本番は JSON、それ以外はカラー付きのコンソール出力。LOG_LEVEL があればそれを優先する
func NewLogger(env string) *zap.Logger {
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	if env == envProd {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "timestamp"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	if lvl, ok := levelFromEnv(); ok {
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}

	built, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return built.With(zap.String("service", serviceName), zap.String("env", env))
}

func levelFromEnv() (zapcore.Level, bool) {
	raw := os.Getenv("LOG_LEVEL")
	if raw == "" {
		return zapcore.InfoLevel, false
	}
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(raw)); err != nil {
		return zapcore.InfoLevel, false
	}
	return lvl, true
}

func Get() *zap.Logger { return log }

// Set は共有ロガーを差し替える。main とテストから呼ぶ
func Set(l *zap.Logger) { log = l }

// WithContext はリクエストスコープのロガーを context に格納する
func WithContext(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext は context に格納されたロガーを返す。無ければ共有ロガーを返す
func FromContext(ctx context.Context) *zap.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(ctxKey{}).(*zap.Logger); ok && l != nil {
			return l
		}
	}
	return log
}

func Info(msg string, fields ...zap.Field)  { log.Info(msg, fields...) }
func Warn(msg string, fields ...zap.Field)  { log.Warn(msg, fields...) }
func Error(msg string, fields ...zap.Field) { log.Error(msg, fields...) }
func Fatal(msg string, fields ...zap.Field) { log.Fatal(msg, fields...) }

func Sync() error { return log.Sync() }
