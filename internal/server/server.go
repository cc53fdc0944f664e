package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"

	"flashsale-dashboard/internal/config"
	apperrors "flashsale-dashboard/internal/errors"
	"flashsale-dashboard/internal/handlers"
	"flashsale-dashboard/internal/observability"
	"flashsale-dashboard/internal/services"
)

type Server struct {
	analytics    *services.Analytics
	router       chi.Router
	logger       *slog.Logger
	apiHandlers  *handlers.APIHandlers
	sseHandlers  *handlers.SSEHandlers
	pageHandlers *handlers.PageHandlers
}

func NewServer(analytics *services.Analytics, logger *slog.Logger, security config.SecurityConfig) *Server {
	s := &Server{
		analytics:    analytics,
		router:       chi.NewRouter(),
		logger:       logger,
		apiHandlers:  handlers.NewAPIHandlers(analytics, logger),
		sseHandlers:  handlers.NewSSEHandlers(analytics, logger),
		pageHandlers: handlers.NewPageHandlers(analytics, logger),
	}
	s.setupRoutes(security)
	return s
}

func (s *Server) setupRoutes(security config.SecurityConfig) {
	r := s.router

	r.NotFound(s.writeError(apperrors.CodeNotFound, "route not found"))
	r.MethodNotAllowed(s.writeError(apperrors.CodeMethodNotAllow, "method not allowed"))

	// Dashboard routes
	r.Get("/", s.pageHandlers.HandleDashboard)
	r.Get("/health", s.apiHandlers.HandleHealth)

	r.Route("/admin", func(r chi.Router) {
		if security.EnableRateLimit && security.AdminRateLimit > 0 {
			r.Use(httprate.Limit(security.AdminRateLimit, time.Minute,
				httprate.WithKeyFuncs(httprate.KeyByIP),
				httprate.WithLimitHandler(s.writeError(apperrors.CodeRateLimit, "admin rate limit exceeded")),
			))
		}
		r.Get("/stats", s.apiHandlers.HandleStats)
	})

	// REST API endpoints
	r.Route("/api", func(r chi.Router) {
		r.Get("/options", s.apiHandlers.HandleOptions)
		r.Get("/dashboard", s.apiHandlers.HandleDashboard)
		r.Get("/kpis", s.apiHandlers.HandleKPIs)
		r.Get("/revenue-by-date", s.apiHandlers.HandleRevenueByDate)
		r.Get("/revenue-by-promo", s.apiHandlers.HandleRevenueByPromo)
		r.Get("/fulfillment-heatmap", s.apiHandlers.HandleFulfillmentHeatmap)
	})

	// Datastar SSE endpoints
	r.Get("/sse/dashboard", s.sseHandlers.HandleDashboard)
}

func (s *Server) writeError(code apperrors.ErrorCode, message string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		apperrors.WriteError(r.Context(), w, s.logger, apperrors.New(code, message), observability.GetRequestID(r.Context()))
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
