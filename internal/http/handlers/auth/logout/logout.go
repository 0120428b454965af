// Package logout реализует HTTP-обработчик выхода: cookie с токеном сбрасывается.
package logout

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/course-hub/internal/http/cookie"
	"github.com/magabrotheeeer/course-hub/internal/http/middlewarectx"
	"github.com/magabrotheeeer/course-hub/internal/http/response"
)

// Handler обрабатывает POST /api/auth/logout.
type Handler struct {
	log    *slog.Logger
	cookie cookie.Options
}

// New создает новый Handler.
func New(log *slog.Logger, cookieOpts cookie.Options) *Handler {
	return &Handler{log: log, cookie: cookieOpts}
}

// ServeHTTP godoc
// @Summary Выход
// @Tags Auth
// @Produce  json
// @Success 200 {object} map[string]any
// @Failure 401 {object} response.ErrorResponse
// @Router /api/auth/logout [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.logout"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
	if user, ok := middlewarectx.UserFromContext(r.Context()); ok {
		log.Info("user logged out", slog.String("user_uid", user.UUID))
	}

	cookie.Clear(w, h.cookie)
	render.JSON(w, r, response.OK(map[string]any{
		"message": "Logged out successfully",
	}))
}
