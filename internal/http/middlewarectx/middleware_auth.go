// Package middlewarectx содержит HTTP middleware для разрешения сессии и ограничения частоты запросов.
//
// SessionMiddleware извлекает токен из cookie token или заголовка
// Authorization: Bearer, разрешает его в пользователя и кладёт пользователя
// в контекст запроса. При ошибке возвращает 401 с сообщением о причине.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/course-hub/internal/http/cookie"
	"github.com/magabrotheeeer/course-hub/internal/http/response"
	"github.com/magabrotheeeer/course-hub/internal/lib/apperr"
	"github.com/magabrotheeeer/course-hub/internal/models"
	"github.com/magabrotheeeer/course-hub/internal/services/auth"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

// User ключ пользователя сессии в контексте.
const User Key = "user"

// SessionResolver разрешает токен в пользователя.
type SessionResolver interface {
	ResolveToken(ctx context.Context, token string) (*models.User, error)
}

// ExtractToken возвращает токен запроса: cookie имеет приоритет над заголовком.
func ExtractToken(r *http.Request) string {
	if c, err := r.Cookie(cookie.Name); err == nil && c.Value != "" {
		return c.Value
	}
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	}
	return ""
}

// WithUser возвращает контекст с пользователем сессии.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, User, user)
}

// UserFromContext возвращает пользователя сессии, если он есть.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(User).(*models.User)
	return user, ok && user != nil
}

// SessionMiddleware пропускает запрос дальше только с действительной сессией.
func SessionMiddleware(log *slog.Logger, resolver SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.SessionMiddleware"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			token := ExtractToken(r)
			if token == "" {
				response.WriteError(w, r, log, apperr.New(apperr.Unauthenticated, auth.MsgNoToken))
				return
			}

			user, err := resolver.ResolveToken(r.Context(), token)
			if err != nil {
				response.WriteError(w, r, log, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// OptionalSessionMiddleware кладёт пользователя в контекст, если сессия
// действительна, и в любом случае пропускает запрос дальше.
func OptionalSessionMiddleware(log *slog.Logger, resolver SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ExtractToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			user, err := resolver.ResolveToken(r.Context(), token)
			if err != nil {
				log.Debug("continuing without session",
					slog.String("request_id", middleware.GetReqID(r.Context())),
					slog.String("reason", apperr.MessageOf(err, err.Error())))
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}
