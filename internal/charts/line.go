package charts

import (
	"html/template"

	chart "github.com/wcharczuk/go-chart/v2"

	"flashsale-dashboard/internal/models"
)

// RevenueLine plots revenue per calendar date. points are expected in
// ascending date order.
func RevenueLine(points []models.DateRevenue) (template.HTML, error) {
	if len(points) == 0 {
		return Placeholder(DefaultWidth, DefaultHeight, EmptyMessage), nil
	}

	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	maxY := 0.0
	for i, p := range points {
		xs[i] = float64(i)
		ys[i], _ = p.Revenue.Float64()
		maxY = max(maxY, ys[i])
	}

	step := (len(points) + maxXTicks - 1) / maxXTicks
	var xTicks []chart.Tick
	for i := 0; i < len(points); i += step {
		xTicks = append(xTicks, chart.Tick{Value: xs[i], Label: points[i].Date.Format("Jan 2")})
	}

	yRange, yTicks := revenueTicks(maxY)

	graph := chart.Chart{
		Width:      DefaultWidth,
		Height:     DefaultHeight,
		Background: chart.Style{Padding: chart.Box{Top: 20, Left: 16, Right: 24, Bottom: 16}},
		XAxis: chart.XAxis{
			Ticks: xTicks,
			Range: &chart.ContinuousRange{Min: -0.5, Max: float64(len(points)) - 0.5},
			Style: chart.Style{FontColor: axisColor, StrokeColor: axisColor},
		},
		YAxis: chart.YAxis{
			Range: yRange,
			Ticks: yTicks,
			Style: chart.Style{FontColor: axisColor, StrokeColor: axisColor},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "Revenue",
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeColor: accent,
					StrokeWidth: 2,
					FillColor:   accentFill,
					DotColor:    accent,
					DotWidth:    3,
				},
			},
		},
	}

	return render(graph)
}
