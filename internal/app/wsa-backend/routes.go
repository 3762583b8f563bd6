// Package wsabackend предоставляет маршруты для основного приложения.
package wsabackend

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/naluwan/wsa-backend/internal/http/handlers/entry/entryresolve"
	"github.com/naluwan/wsa-backend/internal/http/handlers/entry/entrywatch"
	"github.com/naluwan/wsa-backend/internal/http/handlers/health"
	"github.com/naluwan/wsa-backend/internal/http/handlers/order/ordercancel"
	"github.com/naluwan/wsa-backend/internal/http/handlers/order/ordercreate"
	"github.com/naluwan/wsa-backend/internal/http/handlers/order/orderpay"
	"github.com/naluwan/wsa-backend/internal/http/handlers/progress/leaderboard"
	"github.com/naluwan/wsa-backend/internal/http/handlers/progress/progresssummary"
	"github.com/naluwan/wsa-backend/internal/http/handlers/progress/unitaccess"
	"github.com/naluwan/wsa-backend/internal/http/handlers/progress/unitcomplete"
	"github.com/naluwan/wsa-backend/internal/http/middlewarectx"
	entryservice "github.com/naluwan/wsa-backend/internal/services/entry"
	orderservice "github.com/naluwan/wsa-backend/internal/services/order"
	progressionservice "github.com/naluwan/wsa-backend/internal/services/progression"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, tokenParser middlewarectx.TokenParser, orderService *orderservice.Service, progressionService *progressionservice.Service, entryService *entryservice.Service) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Get("/leaderboard", leaderboard.New(logger, progressionService).ServeHTTP)

		// Проверка доступа работает и для анонимов: бесплатные
		// превью-уроки доступны без токена.
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.OptionalJWTMiddleware(tokenParser, logger))
			r.Get("/units/{unitID}/access", unitaccess.New(logger, progressionService).ServeHTTP)
		})

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(tokenParser, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Post("/orders", ordercreate.New(logger, orderService).ServeHTTP)
			r.Post("/orders/{orderNo}/pay", orderpay.New(logger, orderService).ServeHTTP)
			r.Post("/orders/{orderNo}/cancel", ordercancel.New(logger, orderService).ServeHTTP)
			r.Get("/courses/{courseCode}/entry", entryresolve.New(logger, entryService).ServeHTTP)
			r.Post("/courses/{courseCode}/watch", entrywatch.New(logger, entryService).ServeHTTP)
			r.Post("/units/{unitID}/complete", unitcomplete.New(logger, progressionService).ServeHTTP)
			r.Get("/progress/summary", progresssummary.New(logger, progressionService).ServeHTTP)
		})
	})

	r.Get("/health", health.New(logger).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
