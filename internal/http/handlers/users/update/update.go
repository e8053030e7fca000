// Package update реализует частичное обновление учётной записи.
package update

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/retail-auth/internal/http/response"
	"github.com/magabrotheeeer/retail-auth/internal/lib/sl"
	userservice "github.com/magabrotheeeer/retail-auth/internal/services/user"
)

// Updater описывает сервис частичного обновления пользователя.
type Updater interface {
	Update(ctx context.Context, id int64, params userservice.UpdateUserParams) error
}

// New возвращает обработчик PUT /users/update/{user_id}.
//
// Каждое поле формы применяется только если оно передано: отсутствующее
// поле не трогает хранимое значение.
func New(log *slog.Logger, updater Updater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.update.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		userID, err := strconv.ParseInt(chi.URLParam(r, "user_id"), 10, 64)
		if err != nil {
			log.Error("invalid user id", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid user id"))

			return
		}

		if err := r.ParseForm(); err != nil {
			log.Error("failed to parse form", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("failed to parse form"))

			return
		}

		params := userservice.UpdateUserParams{
			FirstName:   formField(r, "firstName"),
			MiddleName:  formField(r, "middleName"),
			LastName:    formField(r, "lastName"),
			Suffix:      formField(r, "suffix"),
			Username:    formField(r, "username"),
			Password:    formField(r, "password"),
			Email:       formField(r, "email"),
			PhoneNumber: formField(r, "phoneNumber"),
		}

		if err := updater.Update(r.Context(), userID, params); err != nil {
			switch {
			case errors.Is(err, userservice.ErrUserNotFound):
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.Error("User not found"))
			case errors.Is(err, userservice.ErrEmailTaken):
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.Error("Email is already used by another user"))
			default:
				log.Error("failed to update user", sl.Err(err))
				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.Error("An internal server error occurred during user update."))
			}

			return
		}

		log.Info("user updated", slog.Int64("user_id", userID))
		render.JSON(w, r, map[string]string{
			"message": "User updated successfully",
		})
	}
}

// formField возвращает указатель на значение поля формы,
// либо nil, если поле не было передано вовсе.
func formField(r *http.Request, name string) *string {
	values, ok := r.PostForm[name]
	if !ok || len(values) == 0 {
		return nil
	}
	return &values[0]
}
