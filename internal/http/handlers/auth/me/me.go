// Package me реализует выдачу сведений о текущем пользователе.
package me

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/retail-auth/internal/http/middlewarectx"
	"github.com/magabrotheeeer/retail-auth/internal/http/response"
)

// Response сведения о текущем пользователе.
type Response struct {
	Username string `json:"username"`
	UserRole string `json:"userRole"`
	System   string `json:"system"`
	Disabled bool   `json:"disabled"`
}

// New возвращает обработчик GET /auth/users/me.
func New(log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.me.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		user, ok := middlewarectx.UserFromContext(r.Context())
		if !ok {
			log.Error("user identification missing")
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.Error("user identification missing"))

			return
		}

		render.JSON(w, r, Response{
			Username: user.Username,
			UserRole: user.Role,
			System:   user.System,
			Disabled: user.IsDisabled,
		})
	}
}
