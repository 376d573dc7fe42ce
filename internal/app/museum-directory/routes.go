// Package museumdirectory предоставляет маршруты для основного приложения.
package museumdirectory

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	articlecreate "github.com/magabrotheeeer/museum-directory/internal/http/handlers/article/create"
	articlelist "github.com/magabrotheeeer/museum-directory/internal/http/handlers/article/list"
	articleread "github.com/magabrotheeeer/museum-directory/internal/http/handlers/article/read"
	articleremove "github.com/magabrotheeeer/museum-directory/internal/http/handlers/article/remove"
	articleupdate "github.com/magabrotheeeer/museum-directory/internal/http/handlers/article/update"
	"github.com/magabrotheeeer/museum-directory/internal/http/handlers/auth/forgotpassword"
	"github.com/magabrotheeeer/museum-directory/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/museum-directory/internal/http/handlers/auth/profile"
	"github.com/magabrotheeeer/museum-directory/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/museum-directory/internal/http/handlers/auth/resetpassword"
	"github.com/magabrotheeeer/museum-directory/internal/http/handlers/auth/updateprofile"
	museumcreate "github.com/magabrotheeeer/museum-directory/internal/http/handlers/museum/create"
	museumlist "github.com/magabrotheeeer/museum-directory/internal/http/handlers/museum/list"
	museumread "github.com/magabrotheeeer/museum-directory/internal/http/handlers/museum/read"
	museumremove "github.com/magabrotheeeer/museum-directory/internal/http/handlers/museum/remove"
	museumsearch "github.com/magabrotheeeer/museum-directory/internal/http/handlers/museum/search"
	museumupdate "github.com/magabrotheeeer/museum-directory/internal/http/handlers/museum/update"
	"github.com/magabrotheeeer/museum-directory/internal/http/middlewarectx"
	"github.com/magabrotheeeer/museum-directory/internal/lib/jwt"
	articleservice "github.com/magabrotheeeer/museum-directory/internal/services/article"
	authservice "github.com/magabrotheeeer/museum-directory/internal/services/auth"
	museumservice "github.com/magabrotheeeer/museum-directory/internal/services/museum"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, jwtMaker jwt.Maker,
	authSvc *authservice.AuthService, museumSvc *museumservice.MuseumService,
	articleSvc *articleservice.ArticleService, exposeResetTokens bool) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
		middlewarectx.MetricsMiddleware,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/auth/register", register.New(logger, authSvc).ServeHTTP)
		r.Post("/auth/login", login.New(logger, authSvc).ServeHTTP)
		r.Post("/auth/forgot-password", forgotpassword.New(logger, authSvc, exposeResetTokens).ServeHTTP)
		r.Post("/auth/reset-password", resetpassword.New(logger, authSvc).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(jwtMaker, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))

			r.Get("/auth", profile.New(logger, authSvc).ServeHTTP)
			r.Put("/auth/profile", updateprofile.New(logger, authSvc).ServeHTTP)

			r.Get("/museums", museumlist.New(logger, museumSvc).ServeHTTP)
			r.Get("/museums/search", museumsearch.New(logger, museumSvc).ServeHTTP)
			r.Get("/museums/{uid}", museumread.New(logger, museumSvc).ServeHTTP)

			r.Get("/articles", articlelist.New(logger, articleSvc).ServeHTTP)
			r.Get("/articles/{uid}", articleread.New(logger, articleSvc).ServeHTTP)

			// Мутации каталога — только для администратора
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.RequireRole("admin", logger))

				r.Post("/museums", museumcreate.New(logger, museumSvc).ServeHTTP)
				r.Put("/museums/{uid}", museumupdate.New(logger, museumSvc).ServeHTTP)
				r.Delete("/museums/{uid}", museumremove.New(logger, museumSvc).ServeHTTP)

				r.Post("/articles", articlecreate.New(logger, articleSvc).ServeHTTP)
				r.Put("/articles/{uid}", articleupdate.New(logger, articleSvc).ServeHTTP)
				r.Delete("/articles/{uid}", articleremove.New(logger, articleSvc).ServeHTTP)
			})
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
