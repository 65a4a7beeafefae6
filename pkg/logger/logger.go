// Package logger は slog の既定ロガーを環境変数から組み立てます。
package logger

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	slogmulti "github.com/samber/slog-multi"
)

var ErrUnknownLevel = errors.New("logger: unknown level")

func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("%w: %q", ErrUnknownLevel, s)
}

// NewHandler は format が "json" なら JSON、それ以外はテキストのハンドラを返します。
func NewHandler(w io.Writer, level slog.Level, format string) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(format, "json") {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

// New は base と extra の全てに書き出すロガーを返します。nil の extra は無視します。
func New(base slog.Handler, extra ...slog.Handler) *slog.Logger {
	handlers := []slog.Handler{base}
	for _, h := range extra {
		if h != nil {
			handlers = append(handlers, h)
		}
	}
	if len(handlers) == 1 {
		return slog.New(base)
	}
	return slog.New(slogmulti.Fanout(handlers...))
}
