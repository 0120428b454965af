// Package response содержит вспомогательные функции для формирования
// унифицированных JSON‑ответов HTTP‑обработчиков.
//
// Каждый ответ содержит поле success; ответ с ошибкой дополнительно содержит message.
package response

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/course-hub/internal/lib/apperr"
	"github.com/magabrotheeeer/course-hub/internal/lib/password"
	"github.com/magabrotheeeer/course-hub/internal/lib/sl"
)

// MsgInternal сообщение для любой непредусмотренной ошибки.
const MsgInternal = "internal server error"

// MsgInvalidBody сообщение для тела запроса, которое не удалось декодировать.
const MsgInvalidBody = "invalid request body"

// ErrorResponse описывает JSON‑ответ с ошибкой.
type ErrorResponse struct {
	Success bool   `json:"success" example:"false"`
	Message string `json:"message" example:"Course not found"`
}

// Error возвращает ErrorResponse с переданным сообщением.
func Error(msg string) ErrorResponse {
	return ErrorResponse{Success: false, Message: msg}
}

// OK возвращает успешный ответ: success=true и переданные поля верхнего уровня.
func OK(fields map[string]any) map[string]any {
	body := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		body[k] = v
	}
	body["success"] = true
	return body
}

// StatusFor переводит категорию бизнес-ошибки в HTTP статус.
// Повторная подписка и занятый email отдаются как 400.
func StatusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.Unauthenticated:
		return http.StatusUnauthorized
	case apperr.Invalid, apperr.Conflict:
		return http.StatusBadRequest
	case apperr.NotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// WriteError пишет ответ для ошибки сервисного слоя. Внутренние ошибки
// логируются целиком, клиенту уходит только общее сообщение.
func WriteError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	kind := apperr.KindOf(err)
	status := StatusFor(kind)
	if status == http.StatusInternalServerError {
		log.Error("request failed", sl.Err(err))
		render.Status(r, status)
		render.JSON(w, r, Error(MsgInternal))
		return
	}

	log.Info("request rejected", slog.String("kind", kind.String()), sl.Err(err))
	render.Status(r, status)
	render.JSON(w, r, Error(apperr.MessageOf(err, MsgInternal)))
}

// Decode читает JSON тело запроса в dst. При ошибке пишет 400 и возвращает false.
func Decode(w http.ResponseWriter, r *http.Request, log *slog.Logger, dst any) bool {
	if err := render.DecodeJSON(r.Body, dst); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		status := http.StatusBadRequest
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			status = http.StatusRequestEntityTooLarge
		}
		render.Status(r, status)
		render.JSON(w, r, Error(MsgInvalidBody))
		return false
	}
	return true
}

// ValidationError формирует ответ на основе ошибок валидации.
// Каждое нарушение превращается в человеко‑читаемый текст, объединённый через запятую.
func ValidationError(errs validator.ValidationErrors) ErrorResponse {
	var errsMsgs []string

	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is a required field", err.Field()))
		case "email":
			errsMsgs = append(errsMsgs, "Please provide a valid email address")
		case "uuid":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s can contain only uuid", err.Field()))
		case "max":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be at most %s characters long", err.Field(), err.Param()))
		case "password":
			value, _ := err.Value().(string)
			if strengthErr := password.CheckStrength(value); strengthErr != nil {
				errsMsgs = append(errsMsgs, strengthErr.Error())
			} else {
				errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is not a valid", err.Field()))
			}
		default:
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is not a valid", err.Field()))
		}
	}
	return Error(strings.Join(errsMsgs, ", "))
}

// HasTag сообщает, есть ли среди ошибок валидации нарушение правила tag.
func HasTag(errs validator.ValidationErrors, tag string) bool {
	for _, err := range errs {
		if err.ActualTag() == tag {
			return true
		}
	}
	return false
}

// RegisterPasswordRule добавляет в валидатор правило password,
// проверяющее сложность пароля.
func RegisterPasswordRule(v *validator.Validate) {
	_ = v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		return password.CheckStrength(fl.Field().String()) == nil
	})
}
