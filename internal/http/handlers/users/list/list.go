// Package list реализует выдачу списка всех учётных записей.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/retail-auth/internal/http/response"
	"github.com/magabrotheeeer/retail-auth/internal/lib/sl"
	userservice "github.com/magabrotheeeer/retail-auth/internal/services/user"
)

// Lister описывает сервис, формирующий список пользователей.
type Lister interface {
	List(ctx context.Context) ([]userservice.UserSummary, error)
}

// New возвращает обработчик GET /users/list-users.
// В выдачу попадают и отключённые записи.
func New(log *slog.Logger, lister Lister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.list.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		users, err := lister.List(r.Context())
		if err != nil {
			log.Error("failed to list users", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("Failed to retrieve user list."))

			return
		}

		render.JSON(w, r, users)
	}
}
