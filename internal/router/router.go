package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	appMiddleware "github.com/FACorreiaa/go-city-counter/app/middleware"
	_ "github.com/FACorreiaa/go-city-counter/docs"
	"github.com/FACorreiaa/go-city-counter/internal/api"
	"github.com/FACorreiaa/go-city-counter/internal/api/city"
)

// Config contains dependencies needed for the router setup
type Config struct {
	CityHandler   *city.Handler
	EnableSwagger bool
}

// SetupRouter initializes and configures the main application router.
// Server-wide middleware (like logger, requestID, recoverer) are expected
// to be applied *before* mounting this router in main.go.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	// Preflights pass through so the city routes answer them with their own
	// fixed header set and a 204.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:     []string{"*"},
		AllowedMethods:     []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders:     []string{"Content-Type"},
		MaxAge:             300,
		OptionsPassthrough: true,
	}))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		api.ErrorResponse(w, r, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		api.ErrorResponse(w, r, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	})

	if cfg.EnableSwagger {
		r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
	}

	r.Route("/cities", func(r chi.Router) {
		r.Use(appMiddleware.AllowCrossOrigin)

		r.Get("/count", cfg.CityHandler.CountCities)
		r.Options("/count", cfg.CityHandler.Preflight)
	})

	return r
}
