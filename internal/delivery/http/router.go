package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"eventboard/internal/delivery/http/controllers"
	h "eventboard/internal/delivery/http/helpers"
	"eventboard/internal/delivery/http/middleware"
)

// RouterDeps holds everything NewRouter wires together.
type RouterDeps struct {
	Logger         *slog.Logger
	Users          *controllers.UserController
	Events         *controllers.EventController
	Auth           middleware.Authenticator
	AllowedOrigins []string
	// Gatherer and Registerer back /metrics; nil means the default Prometheus registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter initializes the HTTP router with all application routes
func NewRouter(d RouterDeps) http.Handler {
	reg, gatherer := d.Registerer, d.Gatherer
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	metrics := middleware.NewMetrics(reg, d.Logger)
	requireSession := middleware.RequireSession(d.Auth, d.Logger)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(func(next http.Handler) http.Handler { return middleware.LoggingMiddleware(d.Logger, next) })
	r.Use(chimw.Recoverer)
	r.Use(func(next http.Handler) http.Handler { return middleware.CORS(d.AllowedOrigins, next) })
	r.Use(metrics.Handler)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		h.WriteJSONSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	r.Route("/api", func(r chi.Router) {
		r.Route("/users", func(r chi.Router) {
			r.Post("/register", d.Users.Register)
			r.Post("/login", d.Users.Login)
			r.Post("/logout", d.Users.Logout)
			r.Get("/list", requireSession(d.Users.List))
			r.Get("/get-auth", requireSession(d.Users.GetAuth))
		})
		r.Route("/events", func(r chi.Router) {
			r.Post("/create", requireSession(d.Events.Create))
			r.Get("/list", requireSession(d.Events.List))
			r.Get("/{id}", requireSession(d.Events.Get))
			r.Put("/{id}", requireSession(d.Events.Update))
			r.Delete("/{id}", requireSession(d.Events.Delete))
			r.Post("/{id}/attend", requireSession(d.Events.Attend))
			r.Post("/{id}/unattend", requireSession(d.Events.Unattend))
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		h.WriteJSONError(w, http.StatusMethodNotAllowed, h.ErrCodeBadRequest, "method not allowed")
	})

	return r
}
