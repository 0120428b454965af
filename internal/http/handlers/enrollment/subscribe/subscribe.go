// Package subscribe реализует HTTP-обработчик подписки на курс.
package subscribe

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

// Request тело запроса подписки. PromoCode обязателен только для платных курсов.
type Request struct {
	CourseID  string `json:"courseId"`
	PromoCode string `json:"promoCode"`
}

// Service оформляет подписку.
type Service interface {
	Subscribe(ctx context.Context, user *models.User, courseID, promoCode string) (*models.SubscriptionWithCourse, error)
}

// Handler обрабатывает POST /api/subscribe.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Подписка на курс
// @Tags Enrollment
// @Accept  json
// @Produce  json
// @Param request body Request true "Курс и промокод"
// @Success 201 {object} map[string]any
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /api/subscribe [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.enrollment.subscribe"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	user, ok := middlewarectx.UserFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, log, apperr.New(apperr.Unauthenticated, auth.MsgNoToken))
		return
	}

	var req Request
	if !response.Decode(w, r, log, &req) {
		return
	}

	sub, err := h.service.Subscribe(r.Context(), user, req.CourseID, req.PromoCode)
	if err != nil {
		response.WriteError(w, r, log, err)
		return
	}

	log.Info("subscription created",
		slog.String("user_uid", user.UUID),
		slog.String("course_id", sub.CourseID),
		slog.Float64("price_paid", sub.PricePaid))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.OK(map[string]any{
		"message": "Successfully subscribed to course",
		"subscription": map[string]any{
			"id":              sub.ID,
			"course":          sub.Course,
			"pricePaid":       sub.PricePaid,
			"originalPrice":   sub.OriginalPrice,
			"discountApplied": sub.DiscountApplied,
			"promoCodeUsed":   sub.PromoCodeUsed,
			"subscribedAt":    sub.SubscribedAt,
		},
	}))
}
