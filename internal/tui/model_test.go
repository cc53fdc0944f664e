package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flashsale-dashboard/internal/dataset"
	"flashsale-dashboard/internal/models"
	"flashsale-dashboard/internal/services"
)

func testSource(t *testing.T) *services.Analytics {
	t.Helper()
	day := time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC)
	row := func(category, promo, segment string, revenue int64, converted bool, status string) models.SaleRecord {
		return models.SaleRecord{
			Timestamp:          day,
			Date:               day,
			ProductCategory:    category,
			PromoType:          promo,
			UserSegment:        segment,
			Revenue:            decimal.NewFromInt(revenue),
			Conversion:         converted,
			InventoryRemaining: 5,
			FulfillmentStatus:  status,
		}
	}

	a := services.NewAnalytics(nil, nil)
	a.SetDataset(dataset.New([]models.SaleRecord{
		row("Skincare", "BOGO", "New", 20, true, "Delivered"),
		row("Makeup", "Discount", "Returning", 10, false, "Pending"),
		row("Skincare", "BOGO", "Returning", 20, true, "Delivered"),
		row("Makeup", "Discount", "New", 10, false, "Shipped"),
	}, "test"))
	return a
}

func newTestModel(t *testing.T) Model {
	t.Helper()
	m, err := New(context.Background(), testSource(t), Config{Width: 120, Height: 40})
	require.NoError(t, err)
	return m
}

func press(t *testing.T, m Model, msgs ...tea.KeyMsg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		var ok bool
		m, ok = next.(Model)
		require.True(t, ok)
	}
	return m
}

var (
	keyTab      = tea.KeyMsg{Type: tea.KeyTab}
	keyShiftTab = tea.KeyMsg{Type: tea.KeyShiftTab}
	keyDown     = tea.KeyMsg{Type: tea.KeyDown}
	keyToggle   = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")}
	keyClear    = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("c")}
	keyReset    = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")}
	keyHelp     = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("?")}
	keyQuit     = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")}
)

func TestNew_StartsUnfiltered(t *testing.T) {
	m := newTestModel(t)

	assert.Equal(t, 4, m.Dashboard().RowCount)
	assert.True(t, m.Selection().Normalize().IsUnrestricted())
	assert.Equal(t, []string{"Skincare", "Makeup"}, m.columns[columnCategory].values)
}

func TestModel_ToggleFiltersDashboard(t *testing.T) {
	m := newTestModel(t)

	m = press(t, m, keyToggle)
	assert.Equal(t, []string{"Skincare"}, m.Selection().Categories)
	assert.Equal(t, 2, m.Dashboard().RowCount)
	assert.True(t, m.Dashboard().KPIs.TotalRevenue.Equal(decimal.NewFromInt(40)))

	m = press(t, m, keyToggle)
	assert.Empty(t, m.Selection().Categories)
	assert.Equal(t, 4, m.Dashboard().RowCount)
}

func TestModel_ColumnsCombine(t *testing.T) {
	m := newTestModel(t)

	// Skincare, then the second promo (Discount): no rows match both.
	m = press(t, m, keyToggle, keyTab, keyDown, keyToggle)
	assert.Equal(t, []string{"Discount"}, m.Selection().Promos)
	assert.Equal(t, 0, m.Dashboard().RowCount)
	assert.Empty(t, m.Dashboard().RevenueByPromo)
	assert.Contains(t, m.View(), emptyMessage)

	m = press(t, m, keyClear)
	assert.Empty(t, m.Selection().Promos)
	assert.Equal(t, 2, m.Dashboard().RowCount)
}

func TestModel_Navigation(t *testing.T) {
	m := newTestModel(t)

	m = press(t, m, keyShiftTab)
	assert.Equal(t, columnSegment, m.active)
	m = press(t, m, keyTab)
	assert.Equal(t, columnCategory, m.active)

	m = press(t, m, keyDown, keyDown, keyDown)
	assert.Equal(t, 1, m.columns[columnCategory].cursor, "cursor stops at the last value")
}

func TestModel_Reset(t *testing.T) {
	m := newTestModel(t)

	m = press(t, m, keyToggle, keyTab, keyToggle, keyReset)
	assert.True(t, m.Selection().Normalize().IsUnrestricted())
	assert.Equal(t, 4, m.Dashboard().RowCount)
}

func TestModel_UpdateDoesNotMutatePrevious(t *testing.T) {
	before := newTestModel(t)
	after := press(t, before, keyToggle)

	assert.Empty(t, before.Selection().Categories)
	assert.Equal(t, []string{"Skincare"}, after.Selection().Categories)
}

func TestModel_HelpAndQuit(t *testing.T) {
	m := newTestModel(t)

	m = press(t, m, keyHelp)
	assert.True(t, m.help.ShowAll)

	_, cmd := m.Update(keyQuit)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestModel_View(t *testing.T) {
	m := newTestModel(t)
	view := m.View()

	for _, want := range []string{
		"Flash Sale Campaign Dashboard",
		"Product category",
		"Total Revenue",
		"$60.00",
		"50.00%",
		"Promo Performance",
		"Delivered",
	} {
		assert.Contains(t, view, want)
	}
}

func TestModel_ViewWithRefundDay(t *testing.T) {
	day := time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC)
	row := func(date time.Time, revenue int64) models.SaleRecord {
		return models.SaleRecord{
			Timestamp:         date,
			Date:              date,
			ProductCategory:   "Skincare",
			PromoType:         "BOGO",
			UserSegment:       "New",
			Revenue:           decimal.NewFromInt(revenue),
			FulfillmentStatus: "Delivered",
		}
	}

	a := services.NewAnalytics(nil, nil)
	a.SetDataset(dataset.New([]models.SaleRecord{
		row(day, 20),
		row(day.AddDate(0, 0, 1), -5),
	}, "test"))

	m, err := New(context.Background(), a, Config{Width: 120, Height: 40})
	require.NoError(t, err)

	var view string
	require.NotPanics(t, func() { view = m.View() })
	assert.Contains(t, view, "2024-11-01")
	assert.Contains(t, view, "2024-11-02")
}

type failingSource struct {
	*services.Analytics
	fail bool
}

func (f *failingSource) Dashboard(ctx context.Context, sel models.Selection) (models.Dashboard, error) {
	if f.fail {
		return models.Dashboard{}, errors.New("boom")
	}
	return f.Analytics.Dashboard(ctx, sel)
}

func TestModel_ErrorKeepsLastDashboard(t *testing.T) {
	src := &failingSource{Analytics: testSource(t)}
	m, err := New(context.Background(), src, Config{})
	require.NoError(t, err)

	src.fail = true
	m = press(t, m, keyToggle)

	assert.Equal(t, 4, m.Dashboard().RowCount)
	assert.Contains(t, m.View(), "boom")
}

func TestHeatLevel(t *testing.T) {
	assert.Equal(t, 0, heatLevel(0, 10, 5))
	assert.Equal(t, 1, heatLevel(1, 10, 5))
	assert.Equal(t, 4, heatLevel(10, 10, 5))
	assert.Equal(t, 0, heatLevel(3, 0, 5))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "Skincare", truncate("Skincare", 10))
	assert.Equal(t, "Skin…", truncate("Skincare", 5))
}
