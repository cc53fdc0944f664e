package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"flashsale-dashboard/internal/services"
)

func TestPageHandlers_HandleDashboard(t *testing.T) {
	handlers := NewPageHandlers(createTestAnalytics(), testLogger())

	w := httptest.NewRecorder()
	handlers.HandleDashboard(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Errorf("content-type = %q", ct)
	}

	body := w.Body.String()
	expected := []string{
		"<!DOCTYPE html>",
		`value="Skincare"`,
		`value="Discount"`,
		`value="Returning"`,
		`id="kpi-cards"`,
		"$60.00",
		"<svg",
		`id="fulfillment-heatmap"`,
	}
	for _, want := range expected {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %q", want)
		}
	}
}

func TestPageHandlers_NoDataset(t *testing.T) {
	handlers := NewPageHandlers(services.NewAnalytics(testLogger(), nil), testLogger())

	w := httptest.NewRecorder()
	handlers.HandleDashboard(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status 503, got %d", w.Code)
	}
}
