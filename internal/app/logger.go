package app

import (
	"io"
	"log/slog"
	"strings"

	"github.com/cmlabs-hris/wfh-attendance-go/internal/config"
	"github.com/go-chi/httplog/v3"
)

// NewLogger returns the ECS formatted JSON logger shared by the HTTP request
// log and application logs.
func NewLogger(w io.Writer, cfg config.AppConfig) *slog.Logger {
	logFormat := httplog.SchemaECS.Concise(cfg.Env == "production")

	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:       parseLevel(cfg.LogLevel),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "wfh-attendance"),
		slog.String("version", cfg.Version),
		slog.String("env", cfg.Env),
	)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
