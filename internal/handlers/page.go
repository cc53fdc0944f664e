package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	apperrors "flashsale-dashboard/internal/errors"
	"flashsale-dashboard/internal/models"
	"flashsale-dashboard/internal/observability"
	"flashsale-dashboard/internal/services"
	"flashsale-dashboard/internal/ui/templates"
)

const renderTimeout = 10 * time.Second

type PageHandlers struct {
	analytics *services.Analytics
	logger    *slog.Logger
}

func NewPageHandlers(analytics *services.Analytics, logger *slog.Logger) *PageHandlers {
	return &PageHandlers{
		analytics: analytics,
		logger:    logger,
	}
}

// HandleDashboard renders the page with every filter cleared.
func (h *PageHandlers) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), renderTimeout)
	defer cancel()
	r = r.WithContext(ctx)

	opts, err := h.analytics.Options()
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	dash, err := dashboard(r, h.analytics, h.logger, models.Selection{})
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	chartSVG, err := renderCharts(dash)
	if err != nil {
		requestID := observability.GetRequestID(ctx)
		apperrors.WriteError(ctx, w, h.logger, apperrors.InternalWrap(err, "Failed to render charts"), requestID)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	view := templates.PageView{Options: opts, Dashboard: dash, Charts: chartSVG}
	if err := templates.Dashboard(view).Render(ctx, w); err != nil {
		observability.LoggerFrom(ctx, h.logger).Error("render dashboard page", "error", err)
	}
}
