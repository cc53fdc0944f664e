package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleRecord is one row of the flash sale export.
type SaleRecord struct {
	Timestamp          time.Time
	Date               time.Time
	ProductCategory    string
	PromoType          string
	UserSegment        string
	Revenue            decimal.Decimal
	Conversion         bool
	InventoryRemaining int
	FulfillmentStatus  string
}

// Selection restricts a dataset by category, promo type and user segment.
// An empty slice leaves that dimension unrestricted.
type Selection struct {
	Categories []string `json:"categories" validate:"max=64,dive,max=128"`
	Promos     []string `json:"promos" validate:"max=64,dive,max=128"`
	Segments   []string `json:"segments" validate:"max=64,dive,max=128"`
}

type KPISnapshot struct {
	TotalRevenue     decimal.Decimal `json:"total_revenue"`
	TotalOrders      int             `json:"total_orders"`
	ConversionRate   float64         `json:"conversion_rate"`
	AvgOrderValue    decimal.Decimal `json:"avg_order_value"`
	InventorySoldPct float64         `json:"inventory_sold_pct"`
}

type DateRevenue struct {
	Date    time.Time       `json:"date"`
	Revenue decimal.Decimal `json:"revenue"`
}

type PromoRevenue struct {
	PromoType string          `json:"promo_type"`
	Revenue   decimal.Decimal `json:"revenue"`
}

type HeatmapCell struct {
	ProductCategory   string `json:"product_category"`
	FulfillmentStatus string `json:"fulfillment_status"`
	Count             int    `json:"count"`
}

// FilterOptions lists the distinct values of each filter dimension in the
// order they first appear in the dataset.
type FilterOptions struct {
	Categories []string `json:"categories"`
	Promos     []string `json:"promos"`
	Segments   []string `json:"segments"`
}

// Dashboard is everything a front-end needs to render one filter state.
type Dashboard struct {
	Selection      Selection      `json:"selection"`
	RowCount       int            `json:"row_count"`
	KPIs           KPISnapshot    `json:"kpis"`
	RevenueByDate  []DateRevenue  `json:"revenue_by_date"`
	RevenueByPromo []PromoRevenue `json:"revenue_by_promo"`
	Heatmap        []HeatmapCell  `json:"fulfillment_heatmap"`
}
