package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"flashsale-dashboard/internal/format"
	"flashsale-dashboard/internal/models"
)

func (c *cli) summaryCmd() *cobra.Command {
	var (
		sel    models.Selection
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print the KPIs and aggregates for a filter selection",
		Example: `  flashsale summary --category Skincare --promo BOGO,Discount
  flashsale summary --segment VIP --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			analytics, err := c.loadAnalytics(cmd.Context(), nil, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			dash, err := analytics.Dashboard(cmd.Context(), sel)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(dash)
			}
			return writeSummary(cmd.OutOrStdout(), dash)
		},
	}

	cmd.Flags().StringSliceVar(&sel.Categories, "category", nil, "product categories to include (default all)")
	cmd.Flags().StringSliceVar(&sel.Promos, "promo", nil, "promo types to include (default all)")
	cmd.Flags().StringSliceVar(&sel.Segments, "segment", nil, "user segments to include (default all)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the dashboard as JSON")
	return cmd
}

var headingStyle = lipgloss.NewStyle().Bold(true).MarginTop(1)

func writeSummary(w io.Writer, dash models.Dashboard) error {
	k := dash.KPIs

	var b strings.Builder
	fmt.Fprintf(&b, "Filters: %s\n", describeSelection(dash.Selection))
	fmt.Fprintf(&b, "Matching rows: %s\n", format.Count(dash.RowCount))

	b.WriteString(newTable("KPI", "Value").
		Row("Total Revenue", format.Currency(k.TotalRevenue)).
		Row("Conversion Rate", format.Rate(k.ConversionRate)).
		Row("Avg Order Value", format.Currency(k.AvgOrderValue)).
		Row("Total Orders", format.Count(k.TotalOrders)).
		Row("Inventory Sold", format.Percent(k.InventorySoldPct)).
		String())
	b.WriteByte('\n')

	b.WriteString(headingStyle.Render("Revenue over time") + "\n")
	dates := newTable("Date", "Revenue")
	for _, d := range dash.RevenueByDate {
		dates.Row(d.Date.Format("2006-01-02"), format.Currency(d.Revenue))
	}
	b.WriteString(dates.String() + "\n")

	b.WriteString(headingStyle.Render("Promo performance") + "\n")
	promos := newTable("Promo", "Revenue")
	for _, p := range dash.RevenueByPromo {
		promos.Row(p.PromoType, format.Currency(p.Revenue))
	}
	b.WriteString(promos.String() + "\n")

	b.WriteString(headingStyle.Render("Fulfillment status by category") + "\n")
	heat := newTable("Category", "Status", "Count")
	for _, cell := range dash.Heatmap {
		heat.Row(cell.ProductCategory, cell.FulfillmentStatus, format.Count(cell.Count))
	}
	b.WriteString(heat.String() + "\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...)
}

func describeSelection(sel models.Selection) string {
	parts := make([]string, 0, 3)
	add := func(name string, values []string) {
		if len(values) > 0 {
			parts = append(parts, name+"="+strings.Join(values, ","))
		}
	}
	add("category", sel.Categories)
	add("promo", sel.Promos)
	add("segment", sel.Segments)
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, " ")
}
