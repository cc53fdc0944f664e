// Package templates renders the web dashboard page and the fragments the SSE
// endpoint patches into it.
package templates

import (
	"context"
	"html/template"
	"io"

	"github.com/a-h/templ"

	"flashsale-dashboard/internal/format"
	"flashsale-dashboard/internal/models"
)

// Element ids shared by the page and the SSE patches.
const (
	KPICardsID           = "kpi-cards"
	RevenueOverTimeID    = "revenue-over-time"
	PromoPerformanceID   = "promo-performance"
	FulfillmentHeatmapID = "fulfillment-heatmap"
)

// DatastarScript is the client bundle the page loads.
const DatastarScript = "https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0/bundles/datastar.js"

// Charts holds the rendered SVG for one dashboard state.
type Charts struct {
	RevenueOverTime    template.HTML
	PromoPerformance   template.HTML
	FulfillmentHeatmap template.HTML
}

// PageView is everything the full page needs.
type PageView struct {
	Title     string
	Options   models.FilterOptions
	Dashboard models.Dashboard
	Charts    Charts
}

type kpiView struct {
	ID       string
	KPIs     models.KPISnapshot
	RowCount int
}

type panelView struct {
	ID    string
	Title string
	SVG   template.HTML
}

type pageData struct {
	Title   string
	Script  string
	Options models.FilterOptions
	Signals string
	KPIs    kpiView
	Panels  []panelView
}

var tmpl = template.Must(template.New("dashboard").Funcs(template.FuncMap{
	"currency": format.Currency,
	"percent":  format.Percent,
	"rate":     format.Rate,
	"count":    format.Count,
}).Parse(layoutHTML))

func execute(name string, data any) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return tmpl.ExecuteTemplate(w, name, data)
	})
}

// Dashboard renders the whole page with the initial dashboard state.
func Dashboard(view PageView) templ.Component {
	if view.Title == "" {
		view.Title = "Flash Sale Campaign Dashboard"
	}
	return execute("page", pageData{
		Title:   view.Title,
		Script:  DatastarScript,
		Options: view.Options,
		Signals: initialSignals(view.Dashboard.RowCount),
		KPIs:    newKPIView(view.Dashboard),
		Panels:  panels(view.Charts),
	})
}

// KPICards renders the five KPI cards for dash.
func KPICards(dash models.Dashboard) templ.Component {
	return execute("kpis", newKPIView(dash))
}

// ChartPanel wraps a rendered chart in a titled panel with a stable id.
func ChartPanel(id, title string, svg template.HTML) templ.Component {
	return execute("panel", panelView{ID: id, Title: title, SVG: svg})
}

// Panels returns the three chart panels in page order.
func Panels(charts Charts) []templ.Component {
	views := panels(charts)
	out := make([]templ.Component, len(views))
	for i, v := range views {
		out[i] = ChartPanel(v.ID, v.Title, v.SVG)
	}
	return out
}

func newKPIView(dash models.Dashboard) kpiView {
	return kpiView{ID: KPICardsID, KPIs: dash.KPIs, RowCount: dash.RowCount}
}

func panels(charts Charts) []panelView {
	return []panelView{
		{ID: RevenueOverTimeID, Title: "Revenue over time", SVG: charts.RevenueOverTime},
		{ID: PromoPerformanceID, Title: "Revenue by promo type", SVG: charts.PromoPerformance},
		{ID: FulfillmentHeatmapID, Title: "Fulfillment status by category", SVG: charts.FulfillmentHeatmap},
	}
}
