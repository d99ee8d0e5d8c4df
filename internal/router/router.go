package router

import (
	"encoding/json"
	"net/http"

	"order-fulfilment/internal/handler"
	"order-fulfilment/internal/middleware"
	"order-fulfilment/internal/model"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// New creates a new HTTP router with all routes and middleware configured.
// Authentication is only enforced when apiKey is not empty.
func New(
	orderHandler *handler.OrderHandler,
	productHandler *handler.ProductHandler,
	healthHandler *handler.HealthHandler,
	apiKey string,
	logger zerolog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Middleware order: RequestID -> RealIP -> Logging -> Recovery -> CORS -> APIKeyAuth
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging(logger))
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.CORS)
	if apiKey != "" {
		r.Use(middleware.APIKeyAuth(apiKey, logger))
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeRouteError(w, r, http.StatusNotFound, "NOT_FOUND", "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeRouteError(w, r, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
	})

	r.Get("/health", healthHandler.Check)

	r.Route("/orders/{orderId}", func(r chi.Router) {
		r.Get("/", orderHandler.GetByID)
		r.Post("/processOrder", orderHandler.Process)
	})

	r.Route("/products", func(r chi.Router) {
		r.Get("/", productHandler.GetAll)
		r.Get("/{productId}", productHandler.GetByID)
	})

	return otelhttp.NewHandler(r, "http.server",
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return "HTTP " + r.Method
		}),
	)
}

func writeRouteError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.ErrorResponse{
		Error:         code,
		Message:       message,
		CorrelationID: chimiddleware.GetReqID(r.Context()),
	})
}
