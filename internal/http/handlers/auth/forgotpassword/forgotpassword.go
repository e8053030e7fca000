// Package forgotpassword реализует запрос на восстановление пароля.
package forgotpassword

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/retail-auth/internal/http/response"
	"github.com/magabrotheeeer/retail-auth/internal/lib/sl"
	resetservice "github.com/magabrotheeeer/retail-auth/internal/services/reset"
)

// Request данные запроса восстановления пароля.
type Request struct {
	Email string `validate:"required,email"`
}

// Requester описывает сервис выпуска токена восстановления.
type Requester interface {
	RequestReset(ctx context.Context, email string) error
}

// New возвращает обработчик POST /auth/forgot-password.
//
// Ответ одинаков для существующей и несуществующей почты,
// чтобы нельзя было перебирать зарегистрированные адреса.
func New(log *slog.Logger, requester Requester) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.forgotpassword.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		req := Request{
			Email: r.FormValue("email"),
		}

		if err := validator.New().Struct(req); err != nil {
			validateErr := err.(validator.ValidationErrors)
			log.Error("invalid request", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.ValidationError(validateErr))

			return
		}

		if err := requester.RequestReset(r.Context(), req.Email); err != nil {
			log.Error("failed to request password reset", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("internal server error"))

			return
		}

		render.JSON(w, r, map[string]string{
			"message": resetservice.ResetMessage,
		})
	}
}
