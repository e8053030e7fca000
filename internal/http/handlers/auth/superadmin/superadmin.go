// Package superadmin реализует служебный маршрут, доступный только superadmin.
package superadmin

import (
	"net/http"

	"github.com/go-chi/render"
)

// New возвращает обработчик GET /auth/superadmin-only.
func New() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, map[string]string{
			"message": "This is restricted to super admin only",
		})
	}
}
