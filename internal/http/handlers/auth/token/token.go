// Package token реализует выдачу токена доступа по паре логин/пароль.
package token

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
	authservice "github.com/magabrotheeeer/retail-auth/internal/services/auth"
)

// Request данные формы аутентификации.
type Request struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
}

// Response тело успешного ответа с токеном доступа.
type Response struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Loginer описывает сервис, проверяющий учётные данные и выпускающий токен.
type Loginer interface {
	Login(ctx context.Context, username, rawPassword string) (string, error)
}

// New возвращает обработчик POST /auth/token.
func New(log *slog.Logger, loginer Loginer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.token.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		if err := r.ParseForm(); err != nil {
			log.Error("failed to parse form", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("failed to parse form"))

			return
		}

		req := Request{
			Username: r.PostFormValue("username"),
			Password: r.PostFormValue("password"),
		}

		if err := validator.New().Struct(req); err != nil {
			validateErr := err.(validator.ValidationErrors)
			log.Error("invalid request", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.ValidationError(validateErr))

			return
		}

		token, err := loginer.Login(r.Context(), req.Username, req.Password)
		if err != nil {
			if errors.Is(err, authservice.ErrInvalidCredentials) {
				log.Error("incorrect username or password", sl.Err(err))
				w.Header().Set("WWW-Authenticate", "Bearer")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("Incorrect username or password"))

				return
			}
			log.Error("failed to login user", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("internal server error"))

			return
		}

		log.Info("token issued", slog.String("username", req.Username))
		render.JSON(w, r, Response{
			AccessToken: token,
			TokenType:   "bearer",
		})
	}
}
