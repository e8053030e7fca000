// Package authservice предоставляет маршруты сервиса аутентификации.
package authservice

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/retail-auth/internal/http/handlers/auth/forgotpassword"
	"github.com/magabrotheeeer/retail-auth/internal/http/handlers/auth/me"
	"github.com/magabrotheeeer/retail-auth/internal/http/handlers/auth/resetpassword"
	"github.com/magabrotheeeer/retail-auth/internal/http/handlers/auth/superadmin"
	"github.com/magabrotheeeer/retail-auth/internal/http/handlers/auth/token"
	"github.com/magabrotheeeer/retail-auth/internal/http/handlers/users/create"
	"github.com/magabrotheeeer/retail-auth/internal/http/handlers/users/disable"
	"github.com/magabrotheeeer/retail-auth/internal/http/handlers/users/list"
	"github.com/magabrotheeeer/retail-auth/internal/http/handlers/users/signup"
	"github.com/magabrotheeeer/retail-auth/internal/http/handlers/users/update"
	"github.com/magabrotheeeer/retail-auth/internal/http/middlewarectx"
	authsvc "github.com/magabrotheeeer/retail-auth/internal/services/auth"
	resetsvc "github.com/magabrotheeeer/retail-auth/internal/services/reset"
	usersvc "github.com/magabrotheeeer/retail-auth/internal/services/user"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, authService *authsvc.AuthService,
	userService *usersvc.UserService, resetService *resetsvc.ResetService) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/auth", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/token", token.New(logger, authService))
		r.Post("/forgot-password", forgotpassword.New(logger, resetService))
		r.Post("/reset-password", resetpassword.New(logger, resetService))

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(authService, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Get("/users/me", me.New(logger))

			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.RoleMiddleware(logger, "superadmin"))
				r.Get("/superadmin-only", superadmin.New())
			})
		})
	})

	r.Route("/users", func(r chi.Router) {
		// Публичная регистрация OOS
		r.Post("/signup-oos", signup.New(logger, userService))

		// Административные конечные точки, только superadmin
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(authService, logger))
			r.Use(middlewarectx.RoleMiddleware(logger, "superadmin"))
			r.Post("/create", create.New(logger, userService))
			r.Get("/list-users", list.New(logger, userService))
			r.Put("/update/{user_id}", update.New(logger, userService))
			r.Put("/disable/{user_id}", disable.New(logger, userService))
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
