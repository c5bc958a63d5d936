package httpx

import (
	"encoding/json"
	"net/http"

	"panelkit/internal/config"
	"panelkit/internal/http/handlers"
	middlewarex "panelkit/internal/http/middleware"
	"panelkit/internal/services/data"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// RouterDependencies holds all dependencies for the HTTP router
type RouterDependencies struct {
	Config      config.Cfg
	DataService *data.Service
	Limiter     middlewarex.Counter
}

// NewRouter creates the HTTP router for the panel collection endpoints
func NewRouter(deps RouterDependencies) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.RequestID)
	if deps.Config.Sec.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(middlewarex.RequestLogger)
	r.Use(chimw.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status": "ok",
			"env":    deps.Config.App.Env,
		})
	})

	base := deps.Config.App.BaseURL
	headerName := deps.Config.Sec.CSRFHeaderName
	if headerName == "" {
		headerName = "X-CSRFToken"
	}

	r.Route("/api/panel", func(r chi.Router) {
		r.Use(middlewarex.RateLimit(deps.Limiter, deps.Config.Sec.RateLimitPerMin))
		r.Use(middlewarex.CSRF(deps.Config.Sec.CSRFCookieName, headerName))

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", handlers.ListNotifications(deps.DataService, base))
			r.Post("/set-all-read/", handlers.SetAllNotificationsRead(deps.DataService))
			r.Patch("/{id}/", handlers.UpdateNotification(deps.DataService))
			r.Post("/{id}/set-read/", handlers.SetNotificationRead(deps.DataService))
		})

		r.Route("/events", func(r chi.Router) {
			r.Get("/", handlers.ListEvents(deps.DataService, base))
			r.Patch("/{id}/", handlers.UpdateEvent(deps.DataService))
		})
	})

	return r
}
