package charts

import (
	"fmt"
	"html/template"
	"strings"

	"flashsale-dashboard/internal/metrics"
	"flashsale-dashboard/internal/models"
)

const (
	heatCell     = 56.0
	heatLabelW   = 120.0
	heatHeaderH  = 28.0
	heatPadding  = 12.0
	heatTextSize = 11
)

// Purple scale endpoints; a cell's fill is interpolated by count / max.
var (
	heatLow  = [3]float64{0xf3, 0xe8, 0xff}
	heatHigh = [3]float64{0x58, 0x1c, 0x87}
)

// FulfillmentHeatmap draws fulfillment status (rows) against product
// category (columns). Pairs absent from cells render as zero.
func FulfillmentHeatmap(cells []models.HeatmapCell) template.HTML {
	if len(cells) == 0 {
		return Placeholder(DefaultWidth, DefaultHeight, EmptyMessage)
	}

	grid := metrics.DenseHeatmap(cells)
	width := heatLabelW + heatCell*float64(len(grid.Categories)) + 2*heatPadding
	height := heatHeaderH + heatCell*float64(len(grid.Statuses)) + 2*heatPadding

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.0f %.0f" role="img" aria-label="Fulfillment status by product category">`, width, height)

	for j, category := range grid.Categories {
		x := heatPadding + heatLabelW + heatCell*float64(j) + heatCell/2
		fmt.Fprintf(&b, `<text x="%.1f" y="%.1f" fill="#475569" font-size="%d" text-anchor="middle">%s</text>`,
			x, heatPadding+heatHeaderH/2, heatTextSize, template.HTMLEscapeString(category))
	}

	for i, status := range grid.Statuses {
		y := heatPadding + heatHeaderH + heatCell*float64(i)
		fmt.Fprintf(&b, `<text x="%.1f" y="%.1f" fill="#475569" font-size="%d" text-anchor="end">%s</text>`,
			heatPadding+heatLabelW-8, y+heatCell/2+4, heatTextSize, template.HTMLEscapeString(status))

		for j, count := range grid.Counts[i] {
			x := heatPadding + heatLabelW + heatCell*float64(j)
			ratio := 0.0
			if grid.Max > 0 {
				ratio = float64(count) / float64(grid.Max)
			}
			textColor := "#1f2937"
			if ratio > 0.55 {
				textColor = "#ffffff"
			}
			fmt.Fprintf(&b, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s" stroke="#ffffff" stroke-width="2"><title>%s / %s: %d</title></rect>`,
				x, y, heatCell, heatCell, heatColor(ratio),
				template.HTMLEscapeString(grid.Categories[j]), template.HTMLEscapeString(status), count)
			fmt.Fprintf(&b, `<text x="%.1f" y="%.1f" fill="%s" font-size="%d" text-anchor="middle">%d</text>`,
				x+heatCell/2, y+heatCell/2+4, textColor, heatTextSize, count)
		}
	}

	b.WriteString("</svg>")
	return template.HTML(b.String())
}

func heatColor(ratio float64) string {
	ratio = min(max(ratio, 0), 1)
	var rgb [3]int
	for i := range rgb {
		rgb[i] = int(heatLow[i] + (heatHigh[i]-heatLow[i])*ratio + 0.5)
	}
	return fmt.Sprintf("#%02x%02x%02x", rgb[0], rgb[1], rgb[2])
}
