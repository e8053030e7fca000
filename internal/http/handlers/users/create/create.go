// Package create реализует создание учётной записи администратором.
package create

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/retail-auth/internal/http/response"
	"github.com/magabrotheeeer/retail-auth/internal/lib/sl"
	userservice "github.com/magabrotheeeer/retail-auth/internal/services/user"
)

// Request данные формы создания пользователя.
type Request struct {
	FirstName   string `validate:"required"`
	MiddleName  string
	LastName    string `validate:"required"`
	Suffix      string
	Username    string `validate:"required"`
	Password    string `validate:"required"`
	Email       string `validate:"required,email"`
	PhoneNumber string
	UserRole    string `validate:"required"`
	System      string `validate:"required"`
}

// Creater описывает сервис создания пользователя.
type Creater interface {
	Create(ctx context.Context, params userservice.CreateUserParams) (string, error)
}

// New возвращает обработчик POST /users/create.
func New(log *slog.Logger, creater Creater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.create.New"

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
			UserRole:    r.PostFormValue("userRole"),
			System:      r.PostFormValue("system"),
		}

		if err := validator.New().Struct(req); err != nil {
			validateErr := err.(validator.ValidationErrors)
			log.Error("invalid request", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.ValidationError(validateErr))

			return
		}

		role, err := creater.Create(r.Context(), userservice.CreateUserParams{
			FirstName:   req.FirstName,
			MiddleName:  req.MiddleName,
			LastName:    req.LastName,
			Suffix:      req.Suffix,
			Username:    req.Username,
			Password:    req.Password,
			Email:       req.Email,
			PhoneNumber: req.PhoneNumber,
			Role:        req.UserRole,
			System:      req.System,
		})
		if err != nil {
			switch {
			case errors.Is(err, userservice.ErrInvalidRole):
				log.Error("invalid role", slog.String("role", req.UserRole))
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.Error("Invalid role"))
			case errors.Is(err, userservice.ErrInvalidSystem):
				log.Error("invalid system", slog.String("system", req.System))
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.Error("Invalid system"))
			case errors.Is(err, userservice.ErrEmptyPassword):
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.Error("Password is required"))
			case errors.Is(err, userservice.ErrEmptyUsername):
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.Error("Username is required"))
			case errors.Is(err, userservice.ErrEmailTaken):
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.Error("Email is already used"))
			case errors.Is(err, userservice.ErrUsernameTaken):
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.Error(fmt.Sprintf("Username '%s' is already taken.", req.Username)))
			default:
				log.Error("failed to create user", sl.Err(err))
				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.Error("An internal server error occurred during user creation."))
			}

			return
		}

		log.Info("user created", slog.String("username", req.Username), slog.String("role", role))
		render.JSON(w, r, map[string]string{
			"message": fmt.Sprintf("%s created successfully!", capitalize(role)),
		})
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
