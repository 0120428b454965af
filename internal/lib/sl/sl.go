// Package sl содержит вспомогательные функции для работы с логгером slog.
package sl

import (
	"io"
	"log/slog"
)

// Err возвращает slog.Attr с ключом "error" и текстом ошибки.
//
// Пример:
//
//	log.Error("failed to create subscription", sl.Err(err))
func Err(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "<nil>")
	}
	return slog.Attr{
		Key:   "error",
		Value: slog.StringValue(err.Error()),
	}
}

// NewLogger создаёт текстовый логгер в зависимости от окружения.
// В local и development выводятся debug-сообщения, в остальных окружениях только info и выше.
func NewLogger(env string, w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	switch env {
	case EnvLocal, EnvDevelopment:
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// NewDiscardLogger возвращает логгер, который ничего не пишет.
func NewDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Окружения, влияющие на уровень логирования.
const (
	EnvLocal       = "local"
	EnvDevelopment = "development"
	EnvProduction  = "production"
)
