// Package status реализует HTTP-обработчик проверки подписки на курс.
package status

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/course-hub/internal/http/middlewarectx"
	"github.com/magabrotheeeer/course-hub/internal/http/response"
	"github.com/magabrotheeeer/course-hub/internal/lib/apperr"
	"github.com/magabrotheeeer/course-hub/internal/models"
	"github.com/magabrotheeeer/course-hub/internal/services/auth"
)

// Service возвращает подписку пользователя на курс или nil.
type Service interface {
	Status(ctx context.Context, userUID, courseID string) (*models.Subscription, error)
}

// Handler обрабатывает GET /api/subscription-status/{courseId}.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Статус подписки на курс
// @Tags Enrollment
// @Produce  json
// @Param courseId path string true "Идентификатор курса"
// @Success 200 {object} map[string]any
// @Failure 401 {object} response.ErrorResponse
// @Router /api/subscription-status/{courseId} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.enrollment.status"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	user, ok := middlewarectx.UserFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, log, apperr.New(apperr.Unauthenticated, auth.MsgNoToken))
		return
	}

	sub, err := h.service.Status(r.Context(), user.UUID, chi.URLParam(r, "courseId"))
	if err != nil {
		response.WriteError(w, r, log, err)
		return
	}

	var subscription any
	if sub != nil {
		subscription = map[string]any{
			"id":           sub.ID,
			"pricePaid":    sub.PricePaid,
			"subscribedAt": sub.SubscribedAt,
		}
	}
	render.JSON(w, r, response.OK(map[string]any{
		"isSubscribed": sub != nil,
		"subscription": subscription,
	}))
}
