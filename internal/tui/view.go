package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"flashsale-dashboard/internal/format"
	"flashsale-dashboard/internal/metrics"
	"flashsale-dashboard/internal/models"
)

const (
	barWidth     = 30
	labelWidth   = 14
	heatCellWide = 10
	emptyMessage = "No data for the current filters"
)

func (m Model) View() string {
	sections := []string{
		m.theme.Title.Render("Flash Sale Campaign Dashboard"),
		m.renderFilters(),
		m.renderKPIs(),
	}

	if m.err != nil {
		sections = append(sections, m.theme.Error.Render("Error: "+m.err.Error()))
	}

	charts := lipgloss.JoinHorizontal(lipgloss.Top,
		m.renderRevenueByDate(),
		"  ",
		m.renderRevenueByPromo(),
	)
	sections = append(sections, charts, m.renderHeatmap(), m.help.View(m.keys))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderFilters() string {
	cols := make([]string, 0, columnCount)
	for i, col := range m.columns {
		style := m.theme.Column
		if i == m.active {
			style = m.theme.ActiveCol
		}

		lines := []string{m.theme.Subtitle.Render(col.title)}
		if len(col.values) == 0 {
			lines = append(lines, m.theme.Muted.Render("(none)"))
		}
		for j, v := range col.values {
			box := "[ ]"
			if col.selected[v] {
				box = m.theme.Checked.Render("[x]")
			}
			line := box + " " + v
			if i == m.active && j == col.cursor {
				line = m.theme.Cursor.Render(line)
			}
			lines = append(lines, line)
		}
		if len(col.selected) == 0 {
			lines = append(lines, m.theme.Muted.Render("all"))
		}
		cols = append(cols, style.Render(strings.Join(lines, "\n")))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cols...)
}

func (m Model) renderKPIs() string {
	k := m.dash.KPIs
	cards := []struct {
		label, value string
	}{
		{"Total Revenue", format.Currency(k.TotalRevenue)},
		{"Conversion Rate", format.Rate(k.ConversionRate)},
		{"Avg Order Value", format.Currency(k.AvgOrderValue)},
		{"Total Orders", format.Count(k.TotalOrders)},
		{"Inventory Sold", format.Percent(k.InventorySoldPct)},
	}

	rendered := make([]string, 0, len(cards))
	for _, c := range cards {
		rendered = append(rendered, m.theme.Card.Render(
			m.theme.CardLabel.Render(c.label)+"\n"+m.theme.CardValue.Render(c.value),
		))
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, rendered...),
		m.theme.Muted.Render(fmt.Sprintf("%s matching rows", format.Count(m.dash.RowCount))),
	)
}

type barRow struct {
	label string
	value float64
}

func (m Model) renderBars(title string, rows []barRow) string {
	lines := []string{m.theme.Subtitle.Render(title)}
	if len(rows) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, append(lines, m.theme.Muted.Render(emptyMessage))...)
	}

	maxValue := 0.0
	for _, r := range rows {
		maxValue = max(maxValue, r.value)
	}

	for _, r := range rows {
		n := 0
		if maxValue > 0 {
			n = min(max(int(r.value/maxValue*barWidth), 0), barWidth)
		}
		lines = append(lines, fmt.Sprintf("%-*s %s %s",
			labelWidth, truncate(r.label, labelWidth),
			m.theme.Bar.Render(strings.Repeat("█", n)+strings.Repeat(" ", barWidth-n)),
			format.CompactCurrency(r.value),
		))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) renderRevenueByDate() string {
	rows := make([]barRow, 0, len(m.dash.RevenueByDate))
	for _, d := range m.dash.RevenueByDate {
		rows = append(rows, barRow{label: d.Date.Format("2006-01-02"), value: d.Revenue.InexactFloat64()})
	}
	return m.renderBars("Revenue Over Time", rows)
}

func (m Model) renderRevenueByPromo() string {
	rows := make([]barRow, 0, len(m.dash.RevenueByPromo))
	for _, p := range m.dash.RevenueByPromo {
		rows = append(rows, barRow{label: p.PromoType, value: p.Revenue.InexactFloat64()})
	}
	return m.renderBars("Promo Performance", rows)
}

func (m Model) renderHeatmap() string {
	title := m.theme.Subtitle.Render("Fulfillment Status by Category")
	if len(m.dash.Heatmap) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, title, m.theme.Muted.Render(emptyMessage))
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, heatmapGrid(m.theme, m.dash.Heatmap))
}

func heatmapGrid(theme Theme, cells []models.HeatmapCell) string {
	grid := metrics.DenseHeatmap(cells)

	var b strings.Builder
	b.WriteString(strings.Repeat(" ", labelWidth+1))
	for _, status := range grid.Statuses {
		b.WriteString(fmt.Sprintf("%*s", heatCellWide, truncate(status, heatCellWide-1)))
	}
	b.WriteByte('\n')

	for i, category := range grid.Categories {
		b.WriteString(fmt.Sprintf("%-*s ", labelWidth, truncate(category, labelWidth)))
		for j := range grid.Statuses {
			count := grid.Counts[j][i]
			style := theme.HeatLevels[heatLevel(count, grid.Max, len(theme.HeatLevels))]
			b.WriteString(style.Render(fmt.Sprintf("%*d", heatCellWide, count)))
		}
		if i < len(grid.Categories)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// heatLevel buckets count into one of levels styles. Zero is always level 0.
func heatLevel(count, maxCount, levels int) int {
	if count <= 0 || maxCount <= 0 || levels < 2 {
		return 0
	}
	level := 1 + (count*(levels-1)-1)/maxCount
	return min(level, levels-1)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
