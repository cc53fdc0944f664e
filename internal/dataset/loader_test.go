package dataset

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flashsale-dashboard/internal/models"
)

const validCSV = `timestamp,date,product_category,promo_type,user_segment,revenue,conversion,inventory_remaining,fulfillment_status
2024-11-01 09:15:00,2024-11-01,Skincare,BOGO,New,20.00,1,45,Delivered
2024-11-01 10:02:13,2024-11-01,Makeup,Discount,Returning,10.50,0,80,Pending
2024-11-02 18:44:09,2024-11-02,Skincare,BOGO,Returning,20.00,1,44,Shipped
`

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "campaign.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_ValidFile(t *testing.T) {
	path := writeCSV(t, validCSV)

	ds, err := Load(context.Background(), path, LoadOptions{Logger: quietLogger()})
	require.NoError(t, err)
	require.Equal(t, 3, ds.Len())
	assert.Equal(t, path, ds.Source())

	records := ds.Records()
	first := records[0]
	assert.Equal(t, time.Date(2024, 11, 1, 9, 15, 0, 0, time.UTC), first.Timestamp)
	assert.Equal(t, time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC), first.Date)
	assert.Equal(t, "Skincare", first.ProductCategory)
	assert.Equal(t, "BOGO", first.PromoType)
	assert.Equal(t, "New", first.UserSegment)
	assert.True(t, first.Revenue.Equal(decimal.RequireFromString("20")))
	assert.True(t, first.Conversion)
	assert.Equal(t, 45, first.InventoryRemaining)
	assert.Equal(t, "Delivered", first.FulfillmentStatus)

	assert.False(t, records[1].Conversion)
	assert.Equal(t, "Shipped", records[2].FulfillmentStatus)

	opts := ds.Options()
	assert.Equal(t, []string{"Skincare", "Makeup"}, opts.Categories)
}

func TestLoad_DerivesDateFromTimestamp(t *testing.T) {
	csv := "timestamp,product_category,promo_type,user_segment,revenue,conversion,inventory_remaining,fulfillment_status\n" +
		"2024-11-03T23:10:00Z,Haircare,Flash,VIP,12.5,true,3,Delivered\n"

	records, err := Parse(context.Background(), strings.NewReader(csv), LoadOptions{})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, time.Date(2024, 11, 3, 0, 0, 0, 0, time.UTC), records[0].Date)
	assert.True(t, records[0].Conversion)
}

func TestParse_HeaderCaseAndOrder(t *testing.T) {
	csv := "Fulfillment_Status,Revenue,Timestamp,Product_Category,Promo_Type,User_Segment,Conversion,Inventory_Remaining\n" +
		"Delivered,5,2024-11-01,Makeup,BOGO,New,0,12.0\n"

	records, err := Parse(context.Background(), strings.NewReader(csv), LoadOptions{})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Makeup", records[0].ProductCategory)
	assert.Equal(t, 12, records[0].InventoryRemaining)
}

func TestParse_Errors(t *testing.T) {
	header := "timestamp,date,product_category,promo_type,user_segment,revenue,conversion,inventory_remaining,fulfillment_status\n"

	tests := []struct {
		name    string
		csv     string
		wantErr error
		wantMsg string
	}{
		{
			name:    "empty file",
			csv:     "",
			wantErr: ErrEmptyFile,
		},
		{
			name:    "header only",
			csv:     header,
			wantErr: ErrNoRecords,
		},
		{
			name:    "missing columns",
			csv:     "timestamp,product_category,revenue\n2024-11-01,Makeup,1\n",
			wantErr: ErrMissingColumn,
			wantMsg: "promo_type, user_segment, conversion, inventory_remaining, fulfillment_status",
		},
		{
			name:    "invalid revenue",
			csv:     header + "2024-11-01 09:00:00,2024-11-01,Makeup,BOGO,New,abc,1,3,Delivered\n",
			wantErr: ErrMalformedRow,
			wantMsg: `line 2: malformed row: column "revenue"`,
		},
		{
			name:    "negative revenue",
			csv:     header + "2024-11-01 09:00:00,2024-11-01,Makeup,BOGO,New,-5.00,1,3,Delivered\n",
			wantErr: ErrMalformedRow,
			wantMsg: `line 2: malformed row: column "revenue": negative value "-5.00"`,
		},
		{
			name: "invalid timestamp on third line",
			csv: header +
				"2024-11-01 09:00:00,2024-11-01,Makeup,BOGO,New,1,1,3,Delivered\n" +
				"yesterday,2024-11-01,Makeup,BOGO,New,1,1,3,Delivered\n",
			wantErr: ErrMalformedRow,
			wantMsg: `line 3: malformed row: column "timestamp"`,
		},
		{
			name:    "invalid conversion",
			csv:     header + "2024-11-01 09:00:00,2024-11-01,Makeup,BOGO,New,1,maybe,3,Delivered\n",
			wantErr: ErrMalformedRow,
			wantMsg: `column "conversion"`,
		},
		{
			name:    "fractional inventory",
			csv:     header + "2024-11-01 09:00:00,2024-11-01,Makeup,BOGO,New,1,1,3.5,Delivered\n",
			wantErr: ErrMalformedRow,
			wantMsg: `column "inventory_remaining"`,
		},
		{
			name:    "negative inventory",
			csv:     header + "2024-11-01 09:00:00,2024-11-01,Makeup,BOGO,New,1,1,-2,Delivered\n",
			wantErr: ErrMalformedRow,
			wantMsg: `column "inventory_remaining": negative value "-2"`,
		},
		{
			name:    "wrong field count",
			csv:     header + "2024-11-01 09:00:00,Makeup,BOGO\n",
			wantErr: ErrMalformedRow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(context.Background(), strings.NewReader(tt.csv), LoadOptions{})
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestParse_PreservesOrderAcrossBatches(t *testing.T) {
	var b strings.Builder
	b.WriteString("timestamp,product_category,promo_type,user_segment,revenue,conversion,inventory_remaining,fulfillment_status\n")
	for i := 0; i < 257; i++ {
		b.WriteString("2024-11-01 09:00:00,Cat,Promo,Seg,")
		b.WriteString(decimal.NewFromInt(int64(i)).String())
		b.WriteString(",0,1,Delivered\n")
	}

	records, err := Parse(context.Background(), strings.NewReader(b.String()), LoadOptions{BatchSize: 10, Workers: 4})
	require.NoError(t, err)
	require.Len(t, records, 257)
	for i, r := range records {
		assert.True(t, r.Revenue.Equal(decimal.NewFromInt(int64(i))), "record %d out of order", i)
	}
}

func TestParse_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Parse(ctx, strings.NewReader(validCSV), LoadOptions{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "nope.csv"), LoadOptions{Logger: quietLogger()})
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_ReportsProgress(t *testing.T) {
	path := writeCSV(t, validCSV)
	var progress bytes.Buffer

	ds, err := Load(context.Background(), path, LoadOptions{Logger: quietLogger(), Progress: &progress})
	require.NoError(t, err)
	assert.Equal(t, 3, ds.Len())
	assert.Contains(t, progress.String(), "loading campaign.csv")
}

func TestLoad_Snapshot(t *testing.T) {
	path := writeCSV(t, validCSV)
	dir := t.TempDir()
	opts := LoadOptions{Logger: quietLogger(), SnapshotDir: dir}

	first, err := Load(context.Background(), path, opts)
	require.NoError(t, err)

	_, err = os.Stat(snapshotFilename(dir, path))
	require.NoError(t, err, "snapshot should be written")

	second, err := Load(context.Background(), path, opts)
	require.NoError(t, err)
	require.Equal(t, first.Len(), second.Len())
	assert.Equal(t, first.Fingerprint(), second.Fingerprint())
	for i, want := range first.Records() {
		got := second.Records()[i]
		assert.True(t, want.Timestamp.Equal(got.Timestamp))
		assert.True(t, want.Revenue.Equal(got.Revenue))
		assert.Equal(t, want.ProductCategory, got.ProductCategory)
	}

	// A newer CSV invalidates the snapshot.
	later := time.Now().Add(time.Hour)
	require.NoError(t, os.WriteFile(path, []byte(validCSV+"2024-11-03 08:00:00,2024-11-03,Makeup,BOGO,New,1,1,2,Delivered\n"), 0o644))
	require.NoError(t, os.Chtimes(path, later, later))

	third, err := Load(context.Background(), path, opts)
	require.NoError(t, err)
	assert.Equal(t, 4, third.Len())

	// So does an older one: reuse needs the exact modification time.
	earlier := later.Add(-48 * time.Hour)
	require.NoError(t, os.WriteFile(path, []byte(validCSV), 0o644))
	require.NoError(t, os.Chtimes(path, earlier, earlier))

	fourth, err := Load(context.Background(), path, opts)
	require.NoError(t, err)
	assert.Equal(t, first.Len(), fourth.Len())
}

func TestDataset_RecordsIsCopy(t *testing.T) {
	ds := New([]models.SaleRecord{{ProductCategory: "Skincare"}}, "memory")
	records := ds.Records()
	records[0].ProductCategory = "Makeup"

	assert.Equal(t, "Skincare", ds.Records()[0].ProductCategory)

	opts := ds.Options()
	opts.Categories[0] = "Makeup"
	assert.Equal(t, []string{"Skincare"}, ds.Options().Categories)
}

func TestDataset_Dashboard(t *testing.T) {
	path := writeCSV(t, validCSV)
	ds, err := Load(context.Background(), path, LoadOptions{Logger: quietLogger()})
	require.NoError(t, err)

	dash := ds.Dashboard(models.Selection{Categories: []string{"Skincare"}})
	assert.Equal(t, 2, dash.RowCount)
	assert.True(t, dash.KPIs.TotalRevenue.Equal(decimal.NewFromInt(40)))
	assert.Equal(t, 2, dash.KPIs.TotalOrders)
}
