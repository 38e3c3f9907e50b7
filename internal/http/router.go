package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/rogerio-castellano/catalog-manager/docs"
	"github.com/rogerio-castellano/catalog-manager/internal/http/handlers"
)

func NewRouter() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	if trustProxy {
		r.Use(middleware.RealIP)
	}
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)

	r.NotFound(NotFoundHandler)
	r.MethodNotAllowed(MethodNotAllowedHandler)

	r.Get("/healthz", HealthHandler)
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	r.Get("/categories", handlers.ListCategoriesHandler)
	r.Get("/categories/{id}", handlers.GetCategoryHandler)

	r.Group(func(r chi.Router) {
		r.Use(RateLimitMiddleware)
		r.Post("/login", handlers.LoginHandler)
		r.Post("/register", handlers.RegisterHandler)
	})

	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware)

		r.Post("/logout", handlers.LogoutHandler)
		r.Post("/categories", handlers.CreateCategoryHandler)

		r.Get("/products", handlers.ListProductsHandler)
		r.Post("/products", handlers.CreateProductHandler)
		r.Delete("/products", handlers.DeleteProductsHandler)
		r.Post("/products/import", handlers.ImportProductsHandler)
		r.Get("/products/{product}", handlers.GetProductHandler)
		r.Put("/products/{product}", handlers.UpdateProductHandler)
		r.Post("/products/{product}/stock", handlers.AdjustStockHandler)
		r.Get("/products-export", handlers.ExportProductsHandler)

		r.Get("/metrics/dashboard", handlers.GetDashboardMetricsHandler)
	})

	return r
}
