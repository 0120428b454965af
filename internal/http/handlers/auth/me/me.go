// Package me реализует HTTP-обработчик профиля текущего пользователя.
//
// Профиль перечитывается из хранилища, а не берётся из сессии.
package me

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/course-hub/internal/http/middlewarectx"
	"github.com/magabrotheeeer/course-hub/internal/http/response"
	"github.com/magabrotheeeer/course-hub/internal/lib/apperr"
	"github.com/magabrotheeeer/course-hub/internal/models"
	"github.com/magabrotheeeer/course-hub/internal/services/auth"
)

// Service возвращает пользователя по идентификатору.
type Service interface {
	GetUser(ctx context.Context, userUID string) (*models.User, error)
}

// Handler обрабатывает GET /api/auth/me.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Текущий пользователь
// @Tags Auth
// @Produce  json
// @Success 200 {object} map[string]any
// @Failure 401 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /api/auth/me [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.me"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	session, ok := middlewarectx.UserFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, log, apperr.New(apperr.Unauthenticated, auth.MsgNoToken))
		return
	}

	user, err := h.service.GetUser(r.Context(), session.UUID)
	if err != nil {
		response.WriteError(w, r, log, err)
		return
	}
	render.JSON(w, r, response.OK(map[string]any{
		"user": user.Public(),
	}))
}
