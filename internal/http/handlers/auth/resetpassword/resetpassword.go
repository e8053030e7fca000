// Package resetpassword реализует сброс пароля по токену восстановления.
package resetpassword

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/retail-auth/internal/http/response"
	"github.com/magabrotheeeer/retail-auth/internal/lib/sl"
	resetservice "github.com/magabrotheeeer/retail-auth/internal/services/reset"
)

// Request данные сброса пароля.
type Request struct {
	Email       string `validate:"required,email"`
	Token       string `validate:"required"`
	NewPassword string `validate:"required"`
}

// Reseter описывает сервис сброса пароля по токену.
type Reseter interface {
	ResetPassword(ctx context.Context, email, token, newPassword string) error
}

// New возвращает обработчик POST /auth/reset-password.
func New(log *slog.Logger, reseter Reseter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.resetpassword.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		req := Request{
			Email:       r.FormValue("email"),
			Token:       r.FormValue("token"),
			NewPassword: r.FormValue("new_password"),
		}

		if err := validator.New().Struct(req); err != nil {
			validateErr := err.(validator.ValidationErrors)
			log.Error("invalid request", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.ValidationError(validateErr))

			return
		}

		err := reseter.ResetPassword(r.Context(), req.Email, req.Token, req.NewPassword)
		if err != nil {
			switch {
			case errors.Is(err, resetservice.ErrInvalidToken):
				log.Error("invalid reset token", sl.Err(err))
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.Error("Invalid or expired token."))
			case errors.Is(err, resetservice.ErrTokenExpired):
				log.Error("expired reset token", sl.Err(err))
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.Error("Token expired."))
			default:
				log.Error("failed to reset password", sl.Err(err))
				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.Error("internal server error"))
			}

			return
		}

		log.Info("password reset", slog.String("email", req.Email))
		render.JSON(w, r, map[string]string{
			"message": "Password has been reset successfully.",
		})
	}
}
