// Package validatepromo реализует HTTP-обработчик проверки промокода.
//
// Неверный промокод не является ошибкой запроса: ответ 200 с isValid=false.
package validatepromo

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/course-hub/internal/http/middlewarectx"
	"github.com/magabrotheeeer/course-hub/internal/http/response"
	"github.com/magabrotheeeer/course-hub/internal/services/enrollment"
)

// Request тело запроса проверки промокода.
type Request struct {
	PromoCode string `json:"promoCode"`
	CourseID  string `json:"courseId"`
}

// Service проверяет промокод.
type Service interface {
	ValidatePromo(ctx context.Context, promoCode, courseID string) (*enrollment.PromoResult, error)
}

// Handler обрабатывает POST /api/validate-promo.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Проверка промокода
// @Tags Enrollment
// @Accept  json
// @Produce  json
// @Param request body Request true "Промокод и необязательный курс"
// @Success 200 {object} map[string]any
// @Failure 400 {object} response.ErrorResponse
// @Router /api/validate-promo [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.enrollment.validatepromo"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
	if user, ok := middlewarectx.UserFromContext(r.Context()); ok {
		log = log.With(slog.String("user_uid", user.UUID))
	}

	var req Request
	if !response.Decode(w, r, log, &req) {
		return
	}

	result, err := h.service.ValidatePromo(r.Context(), req.PromoCode, req.CourseID)
	if err != nil {
		response.WriteError(w, r, log, err)
		return
	}

	log.Info("promo code checked", slog.Bool("valid", result.IsValid))
	if !result.IsValid {
		render.JSON(w, r, response.OK(map[string]any{
			"isValid": false,
			"message": result.Message,
		}))
		return
	}
	render.JSON(w, r, response.OK(map[string]any{
		"isValid":         true,
		"message":         result.Message,
		"discount":        result.Discount,
		"originalPrice":   result.OriginalPrice,
		"discountedPrice": result.DiscountedPrice,
	}))
}
