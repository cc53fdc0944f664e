package metrics

import (
	"strings"

	"flashsale-dashboard/internal/models"
)

// Options lists the distinct values of each filter dimension in first-seen
// order. Blank values are not offered since a selection cannot hold them.
func Options(records []models.SaleRecord) models.FilterOptions {
	opts := models.FilterOptions{
		Categories: make([]string, 0),
		Promos:     make([]string, 0),
		Segments:   make([]string, 0),
	}
	seenCategory := make(map[string]struct{})
	seenPromo := make(map[string]struct{})
	seenSegment := make(map[string]struct{})

	for _, r := range records {
		opts.Categories = appendUnique(opts.Categories, seenCategory, r.ProductCategory)
		opts.Promos = appendUnique(opts.Promos, seenPromo, r.PromoType)
		opts.Segments = appendUnique(opts.Segments, seenSegment, r.UserSegment)
	}
	return opts
}

// HeatmapGrid is a dense (category x status) matrix built from sparse cells.
type HeatmapGrid struct {
	Categories []string
	Statuses   []string
	// Counts is indexed [status][category].
	Counts [][]int
	Max    int
}

// DenseHeatmap fills the (category, status) combinations that were not
// observed with zero. Row and column order follow first appearance.
func DenseHeatmap(cells []models.HeatmapCell) HeatmapGrid {
	var grid HeatmapGrid
	catIndex := make(map[string]int)
	statusIndex := make(map[string]int)

	for _, c := range cells {
		if _, ok := catIndex[c.ProductCategory]; !ok {
			catIndex[c.ProductCategory] = len(grid.Categories)
			grid.Categories = append(grid.Categories, c.ProductCategory)
		}
		if _, ok := statusIndex[c.FulfillmentStatus]; !ok {
			statusIndex[c.FulfillmentStatus] = len(grid.Statuses)
			grid.Statuses = append(grid.Statuses, c.FulfillmentStatus)
		}
	}

	grid.Counts = make([][]int, len(grid.Statuses))
	for i := range grid.Counts {
		grid.Counts[i] = make([]int, len(grid.Categories))
	}
	for _, c := range cells {
		row := statusIndex[c.FulfillmentStatus]
		col := catIndex[c.ProductCategory]
		grid.Counts[row][col] += c.Count
		if grid.Counts[row][col] > grid.Max {
			grid.Max = grid.Counts[row][col]
		}
	}
	return grid
}

func appendUnique(dst []string, seen map[string]struct{}, value string) []string {
	if _, ok := seen[value]; ok || strings.TrimSpace(value) == "" {
		return dst
	}
	seen[value] = struct{}{}
	return append(dst, value)
}
