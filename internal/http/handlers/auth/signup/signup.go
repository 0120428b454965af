// Package signup реализует HTTP-обработчик регистрации пользователя.
//
// При успехе пользователь получает токен в теле ответа и в cookie token.
package signup

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/course-hub/internal/http/cookie"
	"github.com/magabrotheeeer/course-hub/internal/http/response"
	"github.com/magabrotheeeer/course-hub/internal/lib/sl"
	"github.com/magabrotheeeer/course-hub/internal/models"
	"github.com/magabrotheeeer/course-hub/internal/services/auth"
)

// Request входные данные для регистрации.
type Request struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,password"`
}

// Service описывает регистрацию пользователя.
type Service interface {
	Signup(ctx context.Context, name, email, password string) (*models.User, string, error)
}

// Handler обрабатывает POST /api/auth/signup.
type Handler struct {
	log      *slog.Logger
	service  Service
	cookie   cookie.Options
	validate *validator.Validate
}

// New создает новый Handler.
func New(log *slog.Logger, service Service, cookieOpts cookie.Options) *Handler {
	v := validator.New()
	response.RegisterPasswordRule(v)
	return &Handler{
		log:      log,
		service:  service,
		cookie:   cookieOpts,
		validate: v,
	}
}

// ServeHTTP godoc
// @Summary Регистрация пользователя
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Имя, email и пароль"
// @Success 201 {object} map[string]any
// @Failure 400 {object} response.ErrorResponse
// @Router /api/auth/signup [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.signup"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if !response.Decode(w, r, log, &req) {
		return
	}

	if err := h.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			response.WriteError(w, r, log, err)
			return
		}
		log.Info("validation failed", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		if response.HasTag(verrs, "required") {
			render.JSON(w, r, response.Error(auth.MsgSignupFieldsRequired))
			return
		}
		render.JSON(w, r, response.ValidationError(verrs))
		return
	}

	user, token, err := h.service.Signup(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		response.WriteError(w, r, log, err)
		return
	}

	log.Info("user registered", slog.String("user_uid", user.UUID))
	cookie.Set(w, token, h.cookie)
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.OK(map[string]any{
		"message": "User registered successfully",
		"token":   token,
		"user":    user.Public(),
	}))
}
