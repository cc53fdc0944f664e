// Package charts renders the dashboard figures as inline SVG.
package charts

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"math"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"flashsale-dashboard/internal/format"
)

const (
	DefaultWidth  = 720
	DefaultHeight = 280
	yTickCount    = 5
	maxXTicks     = 8
)

// EmptyMessage is shown in place of a chart with no rows to plot.
const EmptyMessage = "No data for the current filters"

var (
	accent     = drawing.ColorFromHex("7c3aed")
	accentFill = drawing.ColorFromHex("7c3aed").WithAlpha(48)
	barColor   = drawing.ColorFromHex("a855f7")
	axisColor  = drawing.ColorFromHex("475569")
)

// Placeholder renders a blank panel carrying msg.
func Placeholder(width, height int, msg string) template.HTML {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	return template.HTML(fmt.Sprintf(
		`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" role="img" class="chart-empty">`+
			`<rect width="%d" height="%d" fill="#faf5ff" rx="8"></rect>`+
			`<text x="%d" y="%d" fill="#6b7280" font-size="14" text-anchor="middle">%s</text></svg>`,
		width, height, width, height, width/2, height/2, template.HTMLEscapeString(msg)))
}

type renderer interface {
	Render(rp chart.RendererProvider, w io.Writer) error
}

func render(c renderer) (template.HTML, error) {
	var buf bytes.Buffer
	if err := c.Render(chart.SVG, &buf); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

// revenueTicks returns a zero-based axis range with evenly spaced currency
// ticks covering max.
func revenueTicks(max float64) (*chart.ContinuousRange, []chart.Tick) {
	top := niceCeil(max)
	step := top / yTickCount
	ticks := make([]chart.Tick, 0, yTickCount+1)
	for i := 0; i <= yTickCount; i++ {
		v := step * float64(i)
		ticks = append(ticks, chart.Tick{Value: v, Label: format.CompactCurrency(v)})
	}
	return &chart.ContinuousRange{Min: 0, Max: top}, ticks
}

// niceCeil rounds v up to 1, 2, 2.5 or 5 times a power of ten. Values below 1
// round to 1 so the axis never collapses.
func niceCeil(v float64) float64 {
	if v <= 1 {
		return 1
	}
	exp := math.Pow(10, math.Floor(math.Log10(v)))
	for _, m := range []float64{1, 2, 2.5, 5, 10} {
		if v <= m*exp {
			return m * exp
		}
	}
	return 10 * exp
}
