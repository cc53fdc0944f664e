package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	apperrors "flashsale-dashboard/internal/errors"
	"flashsale-dashboard/internal/models"
	"flashsale-dashboard/internal/observability"
	"flashsale-dashboard/internal/services"
)

const (
	cacheMaxAge = "public, max-age=300"
	version     = "1.0.0"
)

type APIHandlers struct {
	analytics *services.Analytics
	logger    *slog.Logger
}

func NewAPIHandlers(analytics *services.Analytics, logger *slog.Logger) *APIHandlers {
	return &APIHandlers{
		analytics: analytics,
		logger:    logger,
	}
}

func (h *APIHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	apperrors.WriteSuccess(w, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   version,
	})
}

func (h *APIHandlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	apperrors.WriteSuccess(w, h.analytics.Stats())
}

func (h *APIHandlers) HandleOptions(w http.ResponseWriter, r *http.Request) {
	opts, err := h.analytics.Options()
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	apperrors.WriteSuccessWithHeaders(w, opts, map[string]string{"Cache-Control": cacheMaxAge})
}

func (h *APIHandlers) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	h.serveDashboard(w, r, func(d models.Dashboard) any { return d })
}

func (h *APIHandlers) HandleKPIs(w http.ResponseWriter, r *http.Request) {
	h.serveDashboard(w, r, func(d models.Dashboard) any { return d.KPIs })
}

func (h *APIHandlers) HandleRevenueByDate(w http.ResponseWriter, r *http.Request) {
	h.serveDashboard(w, r, func(d models.Dashboard) any { return d.RevenueByDate })
}

func (h *APIHandlers) HandleRevenueByPromo(w http.ResponseWriter, r *http.Request) {
	h.serveDashboard(w, r, func(d models.Dashboard) any { return d.RevenueByPromo })
}

func (h *APIHandlers) HandleFulfillmentHeatmap(w http.ResponseWriter, r *http.Request) {
	h.serveDashboard(w, r, func(d models.Dashboard) any { return d.Heatmap })
}

func (h *APIHandlers) serveDashboard(w http.ResponseWriter, r *http.Request, pick func(models.Dashboard) any) {
	dash, err := dashboard(r, h.analytics, h.logger, selectionFromQuery(r.URL.Query()))
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	apperrors.WriteSuccessWithHeaders(w, pick(dash), map[string]string{"Cache-Control": cacheMaxAge})
}

// selectionFromQuery reads repeated category, promo and segment parameters.
func selectionFromQuery(q url.Values) models.Selection {
	return models.Selection{
		Categories: q["category"],
		Promos:     q["promo"],
		Segments:   q["segment"],
	}
}

// dashboard runs the pipeline for sel inside a child span of the request.
func dashboard(r *http.Request, analytics *services.Analytics, logger *slog.Logger, sel models.Selection) (models.Dashboard, error) {
	ctx, span := observability.StartSpan(r.Context(), "dashboard")
	defer span.Finish(logger)

	dash, err := analytics.Dashboard(ctx, sel)
	if err != nil {
		span.SetError(err)
		return dash, err
	}
	span.SetTag("rows", strconv.Itoa(dash.RowCount))
	return dash, nil
}

// writeServiceError maps service failures onto API error codes.
func writeServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var appErr *apperrors.AppError
	switch {
	case errors.Is(err, services.ErrNoDataset):
		appErr = apperrors.ServiceUnavailableWrap(err, "Dataset is not loaded")
	case errors.Is(err, services.ErrInvalidSelection):
		appErr = apperrors.ValidationWrap(err, "Invalid filter selection").WithDetails(err.Error())
	default:
		appErr = apperrors.InternalWrap(err, "Failed to compute dashboard")
	}
	apperrors.WriteError(r.Context(), w, logger, appErr, observability.GetRequestID(r.Context()))
}
