package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/wolfman30/autocare-booking/internal/catalog"
	httpmiddleware "github.com/wolfman30/autocare-booking/internal/http/middleware"
	"github.com/wolfman30/autocare-booking/internal/live"
	"github.com/wolfman30/autocare-booking/internal/observability/metrics"
	"github.com/wolfman30/autocare-booking/internal/session"
	"github.com/wolfman30/autocare-booking/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	Metrics            *metrics.WidgetMetrics
	MetricsHandler     http.Handler
	CatalogHandler     *catalog.Handler
	SessionHandler     *session.Handler
	LiveHub            *live.Hub
	Tokens             httpmiddleware.TokenParser
	RateLimiter        *httpmiddleware.RateLimiter
	CORSAllowedOrigins []string
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(httpmiddleware.RequestLogger(cfg.Logger, cfg.Metrics))
	r.Use(middleware.Recoverer)
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}

	r.Get("/health", health)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Group(func(api chi.Router) {
		if cfg.RateLimiter != nil {
			api.Use(cfg.RateLimiter.Middleware)
		}
		api.Use(middleware.Compress(5, "application/json"))

		if cfg.CatalogHandler != nil {
			api.Get("/catalog", cfg.CatalogHandler.Get)
		}
		if cfg.SessionHandler == nil {
			return
		}
		h := cfg.SessionHandler
		api.Post("/sessions", h.Create)

		api.Route("/session", func(s chi.Router) {
			s.Use(httpmiddleware.SessionToken(cfg.Tokens))
			s.Get("/", h.Get)
			s.Delete("/", h.End)
			s.Post("/nav", h.Navigate)

			s.Post("/catalog/open", h.OpenCategory)
			s.Post("/catalog/close", h.CloseCategory)

			s.Post("/cart/items", h.AddToCart)
			s.Delete("/cart/items/{itemID}", h.RemoveFromCart)
			s.Post("/cart/open", h.OpenCart)
			s.Post("/cart/close", h.CloseCart)

			s.Route("/vehicle", func(v chi.Router) {
				v.Post("/open", h.OpenVehicle)
				v.Post("/close", h.CloseVehicle)
				v.Post("/brand", h.SelectBrand)
				v.Post("/model", h.SelectModel)
				v.Post("/manual", h.EnterManual)
				v.Post("/fuel", h.ToggleFuel)
				v.Post("/resolve", h.ResolveVehicle)
			})

			s.Patch("/booking", h.UpdateBooking)
			s.Post("/booking/submit", h.SubmitBooking)

			s.Post("/faq/{index}/toggle", h.ToggleFAQ)
			s.Post("/book-now/open", h.OpenBookNow)
			s.Post("/book-now/close", h.CloseBookNow)
		})
	})

	// Websocket upgrades must not pass through Compress.
	if cfg.LiveHub != nil && cfg.SessionHandler != nil {
		r.With(httpmiddleware.SessionToken(cfg.Tokens)).Get("/session/events", cfg.LiveHub.HandleWebSocket)
	}

	return r
}

func health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
