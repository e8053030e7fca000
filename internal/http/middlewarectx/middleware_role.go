package middlewarectx

import (
	"log/slog"
	"net/http"
	"slices"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/retail-auth/internal/http/response"
)

// RoleMiddleware возвращает middleware, пропускающее только пользователей
// с ролью из списка allowedRoles. Требует, чтобы выше по цепочке отработал
// JWTMiddleware и положил пользователя в контекст.
func RoleMiddleware(log *slog.Logger, allowedRoles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.RoleMiddleware"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			user, ok := UserFromContext(r.Context())
			if !ok {
				log.Error("user identification missing")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("user identification missing"))

				return
			}

			if !slices.Contains(allowedRoles, user.Role) {
				log.Error("access denied", slog.String("role", user.Role))
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, response.Error("access denied"))

				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
