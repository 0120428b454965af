// Package apperr описывает бизнес-ошибки сервиса.
//
// Каждая ошибка несёт Kind (категорию) и человеко-читаемое сообщение,
// которое можно безопасно вернуть клиенту. HTTP-слой сопоставляет Kind
// со статусом ответа, а сервисный слой создаёт ошибки рядом с местом обнаружения.
package apperr

import (
	"errors"
	"fmt"
)

// Kind категория бизнес-ошибки.
type Kind int

const (
	// Internal: непредвиденная ошибка (хранилище, сеть и пр.).
	Internal Kind = iota
	// Unauthenticated: нет токена, токен невалиден/просрочен или пользователь удалён.
	Unauthenticated
	// Invalid: некорректные входные данные или неверный промокод.
	Invalid
	// NotFound: запрошенная сущность не найдена.
	NotFound
	// Conflict: нарушение уникальности (email, подписка).
	Conflict
)

func (k Kind) String() string {
	switch k {
	case Unauthenticated:
		return "unauthenticated"
	case Invalid:
		return "invalid"
	case NotFound:
		return "not_found"
	case Conflict:
		return "conflict"
	default:
		return "internal"
	}
}

// Error бизнес-ошибка с категорией и сообщением для клиента.
type Error struct {
	Kind    Kind
	Message string
	Err     error // исходная причина, наружу не отдаётся
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New создаёт ошибку заданной категории.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Wrap создаёт ошибку заданной категории, сохраняя причину.
func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

// KindOf возвращает категорию ошибки; для ошибок вне пакета Internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// MessageOf возвращает сообщение для клиента либо fallback,
// если ошибка не является бизнес-ошибкой.
func MessageOf(err error, fallback string) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != Internal {
		return e.Message
	}
	return fallback
}

// Is сообщает, относится ли err к категории kind.
func Is(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
