package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/starfederation/datastar-go/datastar"

	apperrors "flashsale-dashboard/internal/errors"
	"flashsale-dashboard/internal/models"
	"flashsale-dashboard/internal/observability"
	"flashsale-dashboard/internal/services"
	"flashsale-dashboard/internal/ui/templates"
)

// dashboardSignals are the filter signals the page binds its checkboxes to.
type dashboardSignals struct {
	Categories []string `json:"categories"`
	Promos     []string `json:"promos"`
	Segments   []string `json:"segments"`
}

func (s dashboardSignals) selection() models.Selection {
	return models.Selection{
		Categories: s.Categories,
		Promos:     s.Promos,
		Segments:   s.Segments,
	}
}

type SSEHandlers struct {
	analytics *services.Analytics
	logger    *slog.Logger
}

func NewSSEHandlers(analytics *services.Analytics, logger *slog.Logger) *SSEHandlers {
	return &SSEHandlers{
		analytics: analytics,
		logger:    logger,
	}
}

// HandleDashboard recomputes the dashboard for the current filter signals and
// patches the KPI cards, the three charts and the rowCount signal.
func (h *SSEHandlers) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	requestID := observability.GetRequestID(r.Context())

	var signals dashboardSignals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		apperrors.WriteError(r.Context(), w, h.logger, apperrors.BadRequestWrap(err, "Malformed filter signals"), requestID)
		return
	}

	dash, err := dashboard(r, h.analytics, h.logger, signals.selection())
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	chartSVG, err := renderCharts(dash)
	if err != nil {
		apperrors.WriteError(r.Context(), w, h.logger, apperrors.InternalWrap(err, "Failed to render charts"), requestID)
		return
	}

	rowCount, err := json.Marshal(map[string]int{"rowCount": dash.RowCount})
	if err != nil {
		apperrors.WriteError(r.Context(), w, h.logger, apperrors.InternalWrap(err, "Failed to encode signals"), requestID)
		return
	}

	logger := observability.LoggerFrom(r.Context(), h.logger)
	sse := datastar.NewSSE(w, r)

	if err := sse.PatchElementTempl(templates.KPICards(dash)); err != nil {
		logger.Error("patch kpi cards", "error", err)
		return
	}
	for _, panel := range templates.Panels(chartSVG) {
		if err := sse.PatchElementTempl(panel); err != nil {
			logger.Error("patch chart panel", "error", err)
			return
		}
	}
	if err := sse.PatchSignals(rowCount); err != nil {
		logger.Error("patch signals", "error", err)
		return
	}

	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}
