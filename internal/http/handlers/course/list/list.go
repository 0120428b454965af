// Package list реализует HTTP-обработчик каталога активных курсов.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/course-hub/internal/http/response"
	"github.com/magabrotheeeer/course-hub/internal/models"
)

// Service возвращает активные курсы, новые первыми.
type Service interface {
	List(ctx context.Context) ([]*models.Course, error)
}

// Handler обрабатывает GET /api/courses.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Каталог курсов
// @Tags Courses
// @Produce  json
// @Success 200 {object} map[string]any
// @Router /api/courses [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.course.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	courses, err := h.service.List(r.Context())
	if err != nil {
		response.WriteError(w, r, log, err)
		return
	}

	log.Debug("courses listed", slog.Int("count", len(courses)))
	render.JSON(w, r, response.OK(map[string]any{
		"count":   len(courses),
		"courses": courses,
	}))
}
