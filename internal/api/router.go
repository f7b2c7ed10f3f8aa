package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/cors"

	"github.com/antigravity/gridrail/internal/engine"
	"github.com/antigravity/gridrail/internal/metrics"
)

// requestID marks each request with a fresh correlation ID, in case nothing
// upstream (a load balancer, an API gateway) already set one, and echoes it
// back in the X-Request-Id response header. The ID is not stored in the
// request context, so middleware.Logger does not print it.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-Id")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", id)
		next.ServeHTTP(w, r)
	})
}

// NewRouter builds the chi router: logging/recovery/timeout middleware,
// permissive CORS, the Prometheus request middleware, and /api/v1/routes
// mounted on a Handler for e.
func NewRouter(e *engine.Engine, requestTimeout time.Duration) http.Handler {
	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(metrics.Middleware)

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	})
	r.Use(c.Handler)

	h := NewHandler(e)

	r.Get("/", Health)
	r.Get("/health", Health)
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/routes", h.GetRoutes)
	})

	return r
}
