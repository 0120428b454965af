// Package login реализует HTTP-обработчик входа пользователя по email и паролю.
//
// При успешной аутентификации возвращается токен в теле ответа и в cookie token.
package login

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/course-hub/internal/http/cookie"
	"github.com/magabrotheeeer/course-hub/internal/http/response"
	"github.com/magabrotheeeer/course-hub/internal/models"
	"github.com/magabrotheeeer/course-hub/internal/services/auth"
)

// Request структура входных данных для авторизации.
type Request struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Service описывает вход пользователя.
type Service interface {
	Login(ctx context.Context, email, password string) (*models.User, string, error)
}

// Handler обрабатывает POST /api/auth/login.
type Handler struct {
	log     *slog.Logger
	service Service
	cookie  cookie.Options
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service, cookieOpts cookie.Options) *Handler {
	return &Handler{
		log:     log,
		service: service,
		cookie:  cookieOpts,
	}
}

// ServeHTTP godoc
// @Summary Авторизация пользователя
// @Description Аутентифицирует пользователя по email и паролю.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Учетные данные пользователя"
// @Success 200 {object} map[string]any "Успешная авторизация"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Неверные учетные данные"
// @Router /api/auth/login [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.login"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if !response.Decode(w, r, log, &req) {
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error(auth.MsgLoginFieldsRequired))
		return
	}

	user, token, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		response.WriteError(w, r, log, err)
		return
	}

	log.Info("login success", slog.String("user_uid", user.UUID))
	cookie.Set(w, token, h.cookie)
	render.JSON(w, r, response.OK(map[string]any{
		"message": "Login successful",
		"token":   token,
		"user":    user.Public(),
	}))
}
