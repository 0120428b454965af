// Package verify реализует HTTP-обработчик проверки сессии.
package verify

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/course-hub/internal/http/middlewarectx"
	"github.com/magabrotheeeer/course-hub/internal/http/response"
	"github.com/magabrotheeeer/course-hub/internal/lib/apperr"
	"github.com/magabrotheeeer/course-hub/internal/services/auth"
)

// Handler обрабатывает GET /api/auth/verify. Работает только за SessionMiddleware.
type Handler struct {
	log *slog.Logger
}

// New создает новый Handler.
func New(log *slog.Logger) *Handler {
	return &Handler{log: log}
}

// ServeHTTP godoc
// @Summary Проверка сессии
// @Tags Auth
// @Produce  json
// @Success 200 {object} map[string]any
// @Failure 401 {object} response.ErrorResponse
// @Router /api/auth/verify [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	user, ok := middlewarectx.UserFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, h.log, apperr.New(apperr.Unauthenticated, auth.MsgNoToken))
		return
	}
	render.JSON(w, r, response.OK(map[string]any{
		"isAuthenticated": true,
		"user":            user.Public(),
	}))
}
