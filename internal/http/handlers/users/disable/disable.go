// Package disable реализует одностороннее отключение учётной записи.
package disable

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

// Disabler описывает сервис отключения пользователя.
type Disabler interface {
	Disable(ctx context.Context, id int64) error
}

// New возвращает обработчик PUT /users/disable/{user_id}.
// Повторное отключение той же записи — NotFound.
func New(log *slog.Logger, disabler Disabler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.disable.New"

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

		if err := disabler.Disable(r.Context(), userID); err != nil {
			if errors.Is(err, userservice.ErrUserNotFound) {
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.Error("User not found or already disabled."))

				return
			}
			log.Error("failed to disable user", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("An internal server error occurred during user deletion."))

			return
		}

		log.Info("user disabled", slog.Int64("user_id", userID))
		render.JSON(w, r, map[string]string{
			"message": "User disabled successfully",
		})
	}
}
