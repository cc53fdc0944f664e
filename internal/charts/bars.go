package charts

import (
	"html/template"

	chart "github.com/wcharczuk/go-chart/v2"

	"flashsale-dashboard/internal/models"
)

// PromoBars draws one bar per promo type in the order given.
func PromoBars(rows []models.PromoRevenue) (template.HTML, error) {
	if len(rows) == 0 {
		return Placeholder(DefaultWidth, DefaultHeight, EmptyMessage), nil
	}

	bars := make([]chart.Value, len(rows))
	maxY := 0.0
	for i, r := range rows {
		v, _ := r.Revenue.Float64()
		maxY = max(maxY, v)
		bars[i] = chart.Value{
			Label: r.PromoType,
			Value: v,
			Style: chart.Style{FillColor: barColor, StrokeColor: accent, StrokeWidth: 1},
		}
	}

	yRange, yTicks := revenueTicks(maxY)

	graph := chart.BarChart{
		Width:      DefaultWidth,
		Height:     DefaultHeight,
		BarWidth:   barWidth(len(rows)),
		Background: chart.Style{Padding: chart.Box{Top: 24, Left: 16, Right: 16, Bottom: 16}},
		XAxis:      chart.Style{FontColor: axisColor, StrokeColor: axisColor},
		YAxis: chart.YAxis{
			Range: yRange,
			Ticks: yTicks,
			Style: chart.Style{FontColor: axisColor, StrokeColor: axisColor},
		},
		Bars: bars,
	}

	return render(graph)
}

// barWidth shrinks bars as their number grows so they fit the canvas.
func barWidth(n int) int {
	w := (DefaultWidth - 120) / (n * 2)
	return min(max(w, 6), 80)
}
