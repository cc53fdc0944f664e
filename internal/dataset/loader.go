package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"flashsale-dashboard/internal/metrics"
	"flashsale-dashboard/internal/models"
)

const (
	defaultBatchSize = 5000
	defaultWorkers   = 8
)

var (
	ErrEmptyFile     = errors.New("empty file")
	ErrMissingColumn = errors.New("missing column")
	ErrMalformedRow  = errors.New("malformed row")
	ErrNoRecords     = errors.New("no records found")
)

const (
	colTimestamp   = "timestamp"
	colDate        = "date"
	colCategory    = "product_category"
	colPromo       = "promo_type"
	colSegment     = "user_segment"
	colRevenue     = "revenue"
	colConversion  = "conversion"
	colInventory   = "inventory_remaining"
	colFulfillment = "fulfillment_status"
)

var requiredColumns = []string{
	colTimestamp,
	colCategory,
	colPromo,
	colSegment,
	colRevenue,
	colConversion,
	colInventory,
	colFulfillment,
}

var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// LoadOptions tunes how a CSV export is read.
type LoadOptions struct {
	// Workers bounds concurrent row parsing.
	Workers   int
	BatchSize int
	// SnapshotDir holds gob snapshots of parsed files. Empty disables them.
	SnapshotDir string
	// Progress receives a byte progress bar while the file is read.
	Progress io.Writer
	Logger   *slog.Logger
}

func (o LoadOptions) withDefaults() LoadOptions {
	if o.Workers <= 0 {
		o.Workers = defaultWorkers
	}
	if o.BatchSize <= 0 {
		o.BatchSize = defaultBatchSize
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// Load reads the CSV export at path. Any structural problem with the file is
// returned as an error; nothing is skipped.
func Load(ctx context.Context, path string, opts LoadOptions) (*Dataset, error) {
	opts = opts.withDefaults()

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat csv: %w", err)
	}

	if opts.SnapshotDir != "" {
		if ds, err := loadSnapshot(opts.SnapshotDir, path, info.ModTime()); err == nil {
			opts.Logger.Info("loaded dataset snapshot", "source", path, "records", ds.Len())
			return ds, nil
		}
	}

	start := time.Now()
	opts.Logger.Info("processing CSV file", "filename", path, "bytes", info.Size())

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer file.Close()

	var src io.Reader = file
	var bar *progressbar.ProgressBar
	if opts.Progress != nil {
		bar = progressbar.NewOptions64(info.Size(),
			progressbar.OptionSetWriter(opts.Progress),
			progressbar.OptionShowBytes(true),
			progressbar.OptionSetDescription("loading "+filepath.Base(path)),
		)
		reader := progressbar.NewReader(file, bar)
		src = &reader
	}

	records, err := Parse(ctx, src, opts)
	if err != nil {
		return nil, err
	}
	if bar != nil {
		_ = bar.Finish()
	}

	ds := New(records, path)
	ds.modTime = info.ModTime()

	if opts.SnapshotDir != "" {
		if err := saveSnapshot(opts.SnapshotDir, ds); err != nil {
			opts.Logger.Warn("failed to save dataset snapshot", "error", err)
		}
	}

	duration := time.Since(start)
	opts.Logger.Info("csv processing complete",
		"records", ds.Len(),
		"duration", duration,
		"rate", fmt.Sprintf("%.0f records/sec", float64(ds.Len())/duration.Seconds()))

	return ds, nil
}

type rawRow struct {
	line   int
	fields []string
}

// Parse decodes a CSV export with a header row. Rows are parsed in batches on
// a bounded worker pool; the output keeps file order.
func Parse(ctx context.Context, r io.Reader, opts LoadOptions) ([]models.SaleRecord, error) {
	opts = opts.withDefaults()

	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyFile
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols, err := resolveColumns(header)
	if err != nil {
		return nil, err
	}

	var rows []rawRow
	for {
		if len(rows)%opts.BatchSize == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedRow, err)
		}
		line, _ := reader.FieldPos(0)
		rows = append(rows, rawRow{line: line, fields: fields})
	}

	if len(rows) == 0 {
		return nil, ErrNoRecords
	}

	records := make([]models.SaleRecord, len(rows))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)

	for start := 0; start < len(rows); start += opts.BatchSize {
		end := min(start+opts.BatchSize, len(rows))
		g.Go(func() error {
			for i := start; i < end; i++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				rec, err := cols.parse(rows[i].fields)
				if err != nil {
					return fmt.Errorf("line %d: %w", rows[i].line, err)
				}
				records[i] = rec
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return records, nil
}

// columns maps each field to its position in the header. date is -1 when
// the export has no date column.
type columns struct {
	timestamp, date, category, promo, segment int
	revenue, conversion, inventory, status    int
}

func resolveColumns(header []string) (columns, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		index[name] = i
	}

	var missing []string
	for _, name := range requiredColumns {
		if _, ok := index[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return columns{}, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}

	date, ok := index[colDate]
	if !ok {
		date = -1
	}

	return columns{
		timestamp:  index[colTimestamp],
		date:       date,
		category:   index[colCategory],
		promo:      index[colPromo],
		segment:    index[colSegment],
		revenue:    index[colRevenue],
		conversion: index[colConversion],
		inventory:  index[colInventory],
		status:     index[colFulfillment],
	}, nil
}

func (c columns) parse(fields []string) (models.SaleRecord, error) {
	field := func(i int) string {
		if i < 0 || i >= len(fields) {
			return ""
		}
		return strings.TrimSpace(fields[i])
	}

	ts, err := parseTimestamp(field(c.timestamp))
	if err != nil {
		return models.SaleRecord{}, malformed(colTimestamp, err)
	}

	date := metrics.CalendarDate(ts)
	if c.date >= 0 && field(c.date) != "" {
		d, err := parseTimestamp(field(c.date))
		if err != nil {
			return models.SaleRecord{}, malformed(colDate, err)
		}
		date = metrics.CalendarDate(d)
	}

	revenue, err := decimal.NewFromString(field(c.revenue))
	if err != nil {
		return models.SaleRecord{}, malformed(colRevenue, err)
	}
	if revenue.IsNegative() {
		return models.SaleRecord{}, malformed(colRevenue, fmt.Errorf("negative value %q", field(c.revenue)))
	}

	conversion, err := parseConversion(field(c.conversion))
	if err != nil {
		return models.SaleRecord{}, malformed(colConversion, err)
	}

	inventory, err := parseCount(field(c.inventory))
	if err != nil {
		return models.SaleRecord{}, malformed(colInventory, err)
	}
	if inventory < 0 {
		return models.SaleRecord{}, malformed(colInventory, fmt.Errorf("negative value %q", field(c.inventory)))
	}

	return models.SaleRecord{
		Timestamp:          ts,
		Date:               date,
		ProductCategory:    field(c.category),
		PromoType:          field(c.promo),
		UserSegment:        field(c.segment),
		Revenue:            revenue,
		Conversion:         conversion,
		InventoryRemaining: inventory,
		FulfillmentStatus:  field(c.status),
	}, nil
}

func malformed(column string, err error) error {
	return fmt.Errorf("%w: column %q: %v", ErrMalformedRow, column, err)
}

func parseTimestamp(value string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised datetime %q", value)
}

func parseConversion(value string) (bool, error) {
	switch strings.ToLower(value) {
	case "1", "1.0", "true", "yes":
		return true, nil
	case "0", "0.0", "false", "no":
		return false, nil
	}
	return false, fmt.Errorf("expected 0 or 1, got %q", value)
}

// parseCount accepts integers written either plainly or as whole floats
// ("12.0"), which spreadsheet exports produce.
func parseCount(value string) (int, error) {
	if n, err := strconv.Atoi(value); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, err
	}
	if f != float64(int(f)) {
		return 0, fmt.Errorf("expected whole number, got %q", value)
	}
	return int(f), nil
}
