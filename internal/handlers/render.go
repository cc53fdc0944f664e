package handlers

import (
	"flashsale-dashboard/internal/charts"
	"flashsale-dashboard/internal/models"
	"flashsale-dashboard/internal/ui/templates"
)

func renderCharts(dash models.Dashboard) (templates.Charts, error) {
	line, err := charts.RevenueLine(dash.RevenueByDate)
	if err != nil {
		return templates.Charts{}, err
	}
	bars, err := charts.PromoBars(dash.RevenueByPromo)
	if err != nil {
		return templates.Charts{}, err
	}
	return templates.Charts{
		RevenueOverTime:    line,
		PromoPerformance:   bars,
		FulfillmentHeatmap: charts.FulfillmentHeatmap(dash.Heatmap),
	}, nil
}
