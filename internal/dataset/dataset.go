// Package dataset owns the immutable sale records loaded from the campaign
// export.
package dataset

import (
	"fmt"
	"slices"
	"time"

	"flashsale-dashboard/internal/metrics"
	"flashsale-dashboard/internal/models"
)

// Dataset is a read-only handle over the loaded records. It is safe for
// concurrent use; nothing hands out its backing slice.
type Dataset struct {
	records  []models.SaleRecord
	options  models.FilterOptions
	source   string
	loadedAt time.Time
	// modTime of the source file, zero for in-memory datasets.
	modTime time.Time
}

// New copies records into a Dataset.
func New(records []models.SaleRecord, source string) *Dataset {
	owned := slices.Clone(records)
	return &Dataset{
		records:  owned,
		options:  metrics.Options(owned),
		source:   source,
		loadedAt: time.Now(),
	}
}

func (d *Dataset) Len() int {
	return len(d.records)
}

func (d *Dataset) Source() string {
	return d.source
}

func (d *Dataset) LoadedAt() time.Time {
	return d.loadedAt
}

// Records returns a copy of every record.
func (d *Dataset) Records() []models.SaleRecord {
	return slices.Clone(d.records)
}

// Options returns the distinct filter values of the dataset.
func (d *Dataset) Options() models.FilterOptions {
	return models.FilterOptions{
		Categories: slices.Clone(d.options.Categories),
		Promos:     slices.Clone(d.options.Promos),
		Segments:   slices.Clone(d.options.Segments),
	}
}

// Dashboard runs the metrics pipeline for sel over the full dataset.
func (d *Dataset) Dashboard(sel models.Selection) models.Dashboard {
	return metrics.Build(d.records, sel)
}

// Fingerprint identifies the dataset contents for cache keys. Datasets read
// from the same unmodified file share a fingerprint across restarts.
func (d *Dataset) Fingerprint() string {
	stamp := d.loadedAt
	if !d.modTime.IsZero() {
		stamp = d.modTime
	}
	return fmt.Sprintf("%d-%d", stamp.UnixNano(), len(d.records))
}
