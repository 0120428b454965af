// Package health реализует проверки живости сервиса.
package health

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/course-hub/internal/http/response"
	"github.com/magabrotheeeer/course-hub/internal/lib/sl"
)

// Pinger проверяет доступность зависимости.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler отдаёт состояние процесса.
type Handler struct {
	log     *slog.Logger
	env     string
	started time.Time
	db      Pinger
	cache   Pinger
	now     func() time.Time
}

// New создает Handler. db и cache могут быть nil, тогда /healthz их не проверяет.
func New(log *slog.Logger, env string, db, cache Pinger) *Handler {
	return &Handler{
		log:     log,
		env:     env,
		started: time.Now(),
		db:      db,
		cache:   cache,
		now:     time.Now,
	}
}

// Liveness обрабатывает GET /healthz.
// Недоступная база даёт 503, недоступный кэш только помечает сервис как degraded.
func (h *Handler) Liveness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if h.db != nil {
		if err := h.db.Ping(ctx); err != nil {
			h.log.Error("database is unreachable", sl.Err(err))
			render.Status(r, http.StatusServiceUnavailable)
			render.JSON(w, r, map[string]any{"status": "unavailable"})
			return
		}
	}
	if h.cache != nil {
		if err := h.cache.Ping(ctx); err != nil {
			h.log.Warn("cache is unreachable", sl.Err(err))
			render.JSON(w, r, map[string]any{"status": "degraded", "cache": "unavailable"})
			return
		}
	}
	render.JSON(w, r, map[string]any{"status": "ok"})
}

// API обрабатывает GET /api/health.
func (h *Handler) API(w http.ResponseWriter, r *http.Request) {
	now := h.now()
	render.JSON(w, r, response.OK(map[string]any{
		"message":     "CyberWarFare Labs API is running",
		"timestamp":   now.UTC().Format(time.RFC3339),
		"environment": h.env,
		"uptime":      now.Sub(h.started).Seconds(),
	}))
}
