// Package mycourses реализует HTTP-обработчик списка курсов пользователя.
package mycourses

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/course-hub/internal/http/middlewarectx"
	"github.com/magabrotheeeer/course-hub/internal/http/response"
	"github.com/magabrotheeeer/course-hub/internal/lib/apperr"
	"github.com/magabrotheeeer/course-hub/internal/models"
	"github.com/magabrotheeeer/course-hub/internal/services/auth"
)

// Service возвращает подписки пользователя.
type Service interface {
	MyCourses(ctx context.Context, userUID string) ([]*models.SubscriptionWithCourse, error)
}

// Item элемент списка курсов пользователя.
type Item struct {
	SubscriptionID  string        `json:"subscriptionId"`
	Course          models.Course `json:"course"`
	PricePaid       float64       `json:"pricePaid"`
	OriginalPrice   float64       `json:"originalPrice"`
	DiscountApplied float64       `json:"discountApplied"`
	PromoCodeUsed   *string       `json:"promoCodeUsed"`
	SubscribedAt    time.Time     `json:"subscribedAt"`
}

// Handler обрабатывает GET /api/my-courses.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Курсы пользователя
// @Tags Enrollment
// @Produce  json
// @Success 200 {object} map[string]any
// @Failure 401 {object} response.ErrorResponse
// @Router /api/my-courses [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.enrollment.mycourses"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	user, ok := middlewarectx.UserFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, log, apperr.New(apperr.Unauthenticated, auth.MsgNoToken))
		return
	}

	subs, err := h.service.MyCourses(r.Context(), user.UUID)
	if err != nil {
		response.WriteError(w, r, log, err)
		return
	}

	items := make([]Item, 0, len(subs))
	for _, sub := range subs {
		items = append(items, Item{
			SubscriptionID:  sub.ID,
			Course:          sub.Course,
			PricePaid:       sub.PricePaid,
			OriginalPrice:   sub.OriginalPrice,
			DiscountApplied: sub.DiscountApplied,
			PromoCodeUsed:   sub.PromoCodeUsed,
			SubscribedAt:    sub.SubscribedAt,
		})
	}
	render.JSON(w, r, response.OK(map[string]any{
		"count":   len(items),
		"courses": items,
	}))
}
