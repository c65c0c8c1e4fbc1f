package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/shopspire/backend/internal/config"
	"github.com/shopspire/backend/internal/delivery/http/handler"
	"github.com/shopspire/backend/internal/delivery/http/middleware"
	"github.com/shopspire/backend/internal/delivery/http/response"
	"github.com/shopspire/backend/internal/pkg/logger"
)

// Router holds HTTP handlers and router configuration
type Router struct {
	productHandler *handler.ProductHandler
	reviewHandler  *handler.ReviewHandler
	logger         *logger.Logger
	cfg            *config.Config
}

// NewRouter creates a new HTTP router
func NewRouter(
	productHandler *handler.ProductHandler,
	reviewHandler *handler.ReviewHandler,
	cfg *config.Config,
	log *logger.Logger,
) *Router {
	return &Router{
		productHandler: productHandler,
		reviewHandler:  reviewHandler,
		logger:         log,
		cfg:            cfg,
	}
}

// Setup configures and returns the HTTP router
func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logger(rt.logger))
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   rt.cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", rt.healthCheck)
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Post("/", rt.productHandler.Create)
			r.Get("/", rt.productHandler.List)
			r.Get("/{model}", rt.productHandler.GetByModel)
			r.Delete("/{model}", rt.productHandler.Delete)

			r.Route("/{model}/reviews", func(r chi.Router) {
				r.Post("/", rt.reviewHandler.Create)
				r.Get("/", rt.reviewHandler.GetByModel)
				r.Delete("/", rt.reviewHandler.DeleteByModel)
				r.Delete("/{user}", rt.reviewHandler.Delete)
			})
		})

		r.Route("/reviews", func(r chi.Router) {
			r.Use(middleware.AdminOnly(rt.cfg.Auth.JWTSecret, rt.logger))
			r.Delete("/", rt.reviewHandler.DeleteAll)
		})
	})

	return r
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}
