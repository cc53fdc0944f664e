package templates

import "encoding/json"

func initialSignals(rowCount int) string {
	raw, _ := json.Marshal(map[string]any{
		"categories": []string{},
		"promos":     []string{},
		"segments":   []string{},
		"rowCount":   rowCount,
	})
	return string(raw)
}

const layoutHTML = `
{{define "page"}}<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<script type="module" src="{{.Script}}"></script>
<style>
body{margin:0;font-family:system-ui,-apple-system,sans-serif;background:#faf5ff;color:#1f2937}
header{padding:1.25rem 2rem;background:#581c87;color:#fff}
header h1{margin:0;font-size:1.4rem}
main{display:grid;grid-template-columns:260px 1fr;gap:1.5rem;padding:1.5rem 2rem}
aside fieldset{border:1px solid #e9d5ff;border-radius:8px;background:#fff;margin:0 0 1rem;padding:.75rem 1rem}
aside legend{font-weight:600;color:#6b21a8}
aside label{display:block;padding:.15rem 0}
.kpis{display:grid;grid-template-columns:repeat(5,1fr);gap:1rem;margin-bottom:1.5rem}
.kpi{background:#fff;border-radius:8px;padding:1rem;box-shadow:0 1px 3px rgba(0,0,0,.08)}
.kpi span{display:block;font-size:.8rem;color:#6b7280;text-transform:uppercase}
.kpi strong{font-size:1.5rem;color:#581c87}
.panel{background:#fff;border-radius:8px;padding:1rem;margin-bottom:1.5rem;box-shadow:0 1px 3px rgba(0,0,0,.08)}
.panel h2{margin:0 0 .5rem;font-size:1rem}
.panel svg{width:100%;height:auto}
.rows{color:#6b7280;font-size:.85rem}
</style>
</head>
<body data-signals="{{.Signals}}">
<header><h1>{{.Title}}</h1></header>
<main>
<aside data-on:change="@get('/sse/dashboard')">
<fieldset><legend>Product category</legend>
{{range .Options.Categories}}<label><input type="checkbox" data-bind="categories" value="{{.}}"> {{.}}</label>
{{end}}</fieldset>
<fieldset><legend>Promo type</legend>
{{range .Options.Promos}}<label><input type="checkbox" data-bind="promos" value="{{.}}"> {{.}}</label>
{{end}}</fieldset>
<fieldset><legend>User segment</legend>
{{range .Options.Segments}}<label><input type="checkbox" data-bind="segments" value="{{.}}"> {{.}}</label>
{{end}}</fieldset>
<p class="rows"><span data-text="$rowCount">{{.KPIs.RowCount}}</span> matching rows</p>
</aside>
<section>
{{template "kpis" .KPIs}}
{{range .Panels}}{{template "panel" .}}
{{end}}</section>
</main>
</body>
</html>
{{end}}

{{define "kpis"}}<div id="{{.ID}}" class="kpis">
<div class="kpi"><span>Total revenue</span><strong>{{currency .KPIs.TotalRevenue}}</strong></div>
<div class="kpi"><span>Total orders</span><strong>{{count .KPIs.TotalOrders}}</strong></div>
<div class="kpi"><span>Conversion rate</span><strong>{{rate .KPIs.ConversionRate}}</strong></div>
<div class="kpi"><span>Avg order value</span><strong>{{currency .KPIs.AvgOrderValue}}</strong></div>
<div class="kpi"><span>Inventory sold</span><strong>{{percent .KPIs.InventorySoldPct}}</strong></div>
</div>{{end}}

{{define "panel"}}<div id="{{.ID}}" class="panel">
<h2>{{.Title}}</h2>
{{.SVG}}
</div>{{end}}
`
