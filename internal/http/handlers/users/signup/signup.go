// Package signup реализует публичную регистрацию пользователей подсистемы OOS.
package signup

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
	userservice "github.com/magabrotheeeer/retail-auth/internal/services/user"
)

// Request данные формы регистрации OOS.
type Request struct {
	FirstName   string `validate:"required"`
	MiddleName  string
	LastName    string `validate:"required"`
	Suffix      string
	Username    string `validate:"required"`
	Password    string `validate:"required"`
	Email       string `validate:"required,email"`
	PhoneNumber string `validate:"required"`
}

// Signuper описывает сервис регистрации пользователя OOS.
type Signuper interface {
	SignupOOS(ctx context.Context, params userservice.CreateUserParams) error
}

// New возвращает обработчик POST /users/signup-oos.
// Роль и подсистема фиксированы: "user" / "OOS".
func New(log *slog.Logger, signuper Signuper) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.signup.New"

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
			FirstName:   r.PostFormValue("firstName"),
			MiddleName:  r.PostFormValue("middleName"),
			LastName:    r.PostFormValue("lastName"),
			Suffix:      r.PostFormValue("suffix"),
			Username:    r.PostFormValue("username"),
			Password:    r.PostFormValue("password"),
			Email:       r.PostFormValue("email"),
			PhoneNumber: r.PostFormValue("phoneNumber"),
		}

		if err := validator.New().Struct(req); err != nil {
			validateErr := err.(validator.ValidationErrors)
			log.Error("invalid request", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.ValidationError(validateErr))

			return
		}

		err := signuper.SignupOOS(r.Context(), userservice.CreateUserParams{
			FirstName:   req.FirstName,
			MiddleName:  req.MiddleName,
			LastName:    req.LastName,
			Suffix:      req.Suffix,
			Username:    req.Username,
			Password:    req.Password,
			Email:       req.Email,
			PhoneNumber: req.PhoneNumber,
		})
		if err != nil {
			switch {
			case errors.Is(err, userservice.ErrUsernameTaken):
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.Error("Username is already taken"))
			case errors.Is(err, userservice.ErrEmailTaken):
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.Error("Email is already used"))
			case errors.Is(err, userservice.ErrEmptyPassword), errors.Is(err, userservice.ErrEmptyUsername):
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.Error("Username and Password are required"))
			default:
				log.Error("failed to signup user", sl.Err(err))
				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.Error("An internal server error occurred during signup."))
			}

			return
		}

		log.Info("oos user created", slog.String("username", req.Username))
		render.JSON(w, r, map[string]string{
			"message": "OOS user account created successfully!",
		})
	}
}
