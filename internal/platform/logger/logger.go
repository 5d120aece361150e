// Package logger は slog による構造化ログの初期化を提供します。
package logger

import (
	"context"
	"log/slog"
	"os"
)

type requestIDKey struct{}

// New は JSON 形式の構造化ロガーを生成します。
func New() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}

// WithRequestID はリクエスト ID を格納したコンテキストを返します。
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// RequestIDFromContext はコンテキストからリクエスト ID を取り出します。
func RequestIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(requestIDKey{}).(string); ok {
		return v
	}
	return ""
}

// FromContext はコンテキストの属性を付与したロガーを返します。
func FromContext(ctx context.Context, base *slog.Logger) *slog.Logger {
	if reqID := RequestIDFromContext(ctx); reqID != "" {
		return base.With("request_id", reqID)
	}
	return base
}
