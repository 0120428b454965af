// Package read реализует HTTP-обработчик получения курса по идентификатору.
//
// Неактивный курс для клиента не отличается от отсутствующего.
package read

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/course-hub/internal/http/response"
	"github.com/magabrotheeeer/course-hub/internal/models"
)

// Service возвращает активный курс по идентификатору.
type Service interface {
	GetActive(ctx context.Context, courseID string) (*models.Course, error)
}

// Handler обрабатывает GET /api/courses/{id}.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Курс по идентификатору
// @Tags Courses
// @Produce  json
// @Param id path string true "Идентификатор курса"
// @Success 200 {object} map[string]any
// @Failure 404 {object} response.ErrorResponse
// @Router /api/courses/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.course.read"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	course, err := h.service.GetActive(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, r, log, err)
		return
	}
	render.JSON(w, r, response.OK(map[string]any{
		"course": course,
	}))
}
