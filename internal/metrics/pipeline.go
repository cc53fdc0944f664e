// Package metrics implements the filter -> KPI -> aggregate pipeline shared by
// every dashboard front-end. All functions are pure and never modify their
// input.
package metrics

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"flashsale-dashboard/internal/models"
)

var hundred = decimal.NewFromInt(100)

// Filter returns the records matching every restricted dimension of sel, in
// their original order. The result is a new slice.
func Filter(records []models.SaleRecord, sel models.Selection) []models.SaleRecord {
	categories := toSet(sel.Categories)
	promos := toSet(sel.Promos)
	segments := toSet(sel.Segments)

	subset := make([]models.SaleRecord, 0, len(records))
	for _, r := range records {
		if !allowed(categories, r.ProductCategory) ||
			!allowed(promos, r.PromoType) ||
			!allowed(segments, r.UserSegment) {
			continue
		}
		subset = append(subset, r)
	}
	return subset
}

// ComputeKPIs derives the five summary metrics of a subset. Ratios whose
// denominator is zero are reported as zero.
func ComputeKPIs(subset []models.SaleRecord) models.KPISnapshot {
	totalRevenue := decimal.Zero
	totalOrders := 0
	inventory := 0

	for _, r := range subset {
		totalRevenue = totalRevenue.Add(r.Revenue)
		if r.Conversion {
			totalOrders++
		}
		inventory += r.InventoryRemaining
	}

	kpis := models.KPISnapshot{
		TotalRevenue:  totalRevenue,
		TotalOrders:   totalOrders,
		AvgOrderValue: decimal.Zero,
	}

	if len(subset) > 0 {
		kpis.ConversionRate = float64(totalOrders) / float64(len(subset)) * 100
	}
	if totalOrders > 0 {
		kpis.AvgOrderValue = totalRevenue.Div(decimal.NewFromInt(int64(totalOrders)))
	}
	kpis.InventorySoldPct = sellThrough(inventory, totalOrders)

	return kpis
}

// sellThrough is the share of available units consumed by orders. Nothing
// on hand and nothing sold yields 0.
func sellThrough(remaining, sold int) float64 {
	available := remaining + sold
	if available == 0 {
		return 0
	}
	return 100 * (1 - float64(remaining)/float64(available))
}

// RevenueByDate sums revenue per calendar date, ascending.
func RevenueByDate(subset []models.SaleRecord) []models.DateRevenue {
	index := make(map[time.Time]int)
	points := make([]models.DateRevenue, 0)

	for _, r := range subset {
		day := CalendarDate(r.Date)
		i, ok := index[day]
		if !ok {
			i = len(points)
			index[day] = i
			points = append(points, models.DateRevenue{Date: day, Revenue: decimal.Zero})
		}
		points[i].Revenue = points[i].Revenue.Add(r.Revenue)
	}

	slices.SortFunc(points, func(a, b models.DateRevenue) int {
		return a.Date.Compare(b.Date)
	})
	return points
}

// RevenueByPromo sums revenue per promo type in first-seen order.
func RevenueByPromo(subset []models.SaleRecord) []models.PromoRevenue {
	index := make(map[string]int)
	rows := make([]models.PromoRevenue, 0)

	for _, r := range subset {
		i, ok := index[r.PromoType]
		if !ok {
			i = len(rows)
			index[r.PromoType] = i
			rows = append(rows, models.PromoRevenue{PromoType: r.PromoType, Revenue: decimal.Zero})
		}
		rows[i].Revenue = rows[i].Revenue.Add(r.Revenue)
	}
	return rows
}

type heatmapKey struct {
	category string
	status   string
}

// FulfillmentHeatmap counts rows per (category, fulfillment status) pair.
// Only observed pairs are returned, in first-seen order.
func FulfillmentHeatmap(subset []models.SaleRecord) []models.HeatmapCell {
	index := make(map[heatmapKey]int)
	cells := make([]models.HeatmapCell, 0)

	for _, r := range subset {
		key := heatmapKey{category: r.ProductCategory, status: r.FulfillmentStatus}
		i, ok := index[key]
		if !ok {
			i = len(cells)
			index[key] = i
			cells = append(cells, models.HeatmapCell{
				ProductCategory:   r.ProductCategory,
				FulfillmentStatus: r.FulfillmentStatus,
			})
		}
		cells[i].Count++
	}
	return cells
}

// Build runs the whole pipeline for one selection.
func Build(records []models.SaleRecord, sel models.Selection) models.Dashboard {
	subset := Filter(records, sel)
	return models.Dashboard{
		Selection:      sel,
		RowCount:       len(subset),
		KPIs:           ComputeKPIs(subset),
		RevenueByDate:  RevenueByDate(subset),
		RevenueByPromo: RevenueByPromo(subset),
		Heatmap:        FulfillmentHeatmap(subset),
	}
}

// CalendarDate truncates t to midnight UTC of its own calendar day.
func CalendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func toSet(values []string) map[string]struct{} {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

func allowed(set map[string]struct{}, value string) bool {
	if set == nil {
		return true
	}
	_, ok := set[value]
	return ok
}
