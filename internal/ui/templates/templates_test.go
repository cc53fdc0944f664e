package templates

import (
	"context"
	"html/template"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"flashsale-dashboard/internal/models"
)

func sampleDashboard() models.Dashboard {
	return models.Dashboard{
		RowCount: 4,
		KPIs: models.KPISnapshot{
			TotalRevenue:     decimal.RequireFromString("1234.5"),
			TotalOrders:      2,
			ConversionRate:   50,
			AvgOrderValue:    decimal.NewFromInt(30),
			InventorySoldPct: 7.6923,
		},
	}
}

func TestDashboardPage(t *testing.T) {
	var b strings.Builder
	err := Dashboard(PageView{
		Options: models.FilterOptions{
			Categories: []string{"Skincare", "Makeup"},
			Promos:     []string{"BOGO"},
			Segments:   []string{"New", "<VIP>"},
		},
		Dashboard: sampleDashboard(),
		Charts: Charts{
			RevenueOverTime:    template.HTML(`<svg id="line"></svg>`),
			PromoPerformance:   template.HTML(`<svg id="bars"></svg>`),
			FulfillmentHeatmap: template.HTML(`<svg id="heat"></svg>`),
		},
	}).Render(context.Background(), &b)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	html := b.String()

	expected := []string{
		"<!DOCTYPE html>",
		"Flash Sale Campaign Dashboard",
		DatastarScript,
		`data-bind="categories" value="Skincare"`,
		`data-bind="segments" value="&lt;VIP&gt;"`,
		"@get('/sse/dashboard')",
		`id="kpi-cards"`,
		"$1,234.50",
		"50.00%",
		"7.7%",
		`<svg id="line"></svg>`,
		`id="promo-performance"`,
		`id="fulfillment-heatmap"`,
		"rowCount",
	}
	for _, want := range expected {
		if !strings.Contains(html, want) {
			t.Errorf("page missing %q", want)
		}
	}
}

func TestKPICards(t *testing.T) {
	var b strings.Builder
	if err := KPICards(sampleDashboard()).Render(context.Background(), &b); err != nil {
		t.Fatal(err)
	}
	html := b.String()

	if !strings.HasPrefix(html, `<div id="kpi-cards"`) {
		t.Errorf("fragment should start with the patch target, got %q", html[:min(len(html), 40)])
	}
	for _, want := range []string{"$1,234.50", "$30.00", "Total orders", "<strong>2</strong>"} {
		if !strings.Contains(html, want) {
			t.Errorf("KPI cards missing %q", want)
		}
	}
}

func TestPanels(t *testing.T) {
	ids := []string{RevenueOverTimeID, PromoPerformanceID, FulfillmentHeatmapID}
	for i, c := range Panels(Charts{RevenueOverTime: "<svg></svg>"}) {
		var b strings.Builder
		if err := c.Render(context.Background(), &b); err != nil {
			t.Fatal(err)
		}
		if !strings.HasPrefix(b.String(), `<div id="`+ids[i]+`"`) {
			t.Errorf("panel %d = %q", i, b.String())
		}
	}
}

func TestChartPanel(t *testing.T) {
	var b strings.Builder
	err := ChartPanel("custom-panel", "Orders & returns", template.HTML(`<svg id="custom"></svg>`)).Render(context.Background(), &b)
	if err != nil {
		t.Fatal(err)
	}
	html := b.String()

	if !strings.HasPrefix(html, `<div id="custom-panel"`) {
		t.Errorf("panel should start with its id, got %q", html)
	}
	if !strings.Contains(html, "Orders &amp; returns") {
		t.Errorf("title should be escaped, got %q", html)
	}
	if !strings.Contains(html, `<svg id="custom"></svg>`) {
		t.Errorf("svg should be embedded verbatim, got %q", html)
	}
}
