package web

import (
	"fmt"
	"html/template"
	"time"
)

var pageTmpl = template.Must(template.New("page").Funcs(template.FuncMap{
	"price": func(v float64) string { return fmt.Sprintf("%.2f", v) },
	"day":   func(t time.Time) string { return t.Format("2006-01-02") },
}).Parse(pageHTML))

const pageHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
{{if .Loading}}<meta http-equiv="refresh" content="2">{{end}}
<style>
body{margin:0;font-family:system-ui,sans-serif;background:#111827;color:#E5E7EB;display:flex}
aside{width:180px;padding:16px;border-right:1px solid #374151;height:100vh;overflow-y:auto}
aside a{display:block;padding:6px 8px;color:#9CA3AF;text-decoration:none;border-radius:4px}
aside a.active{background:#F59E0B;color:#111827;font-weight:600}
main{flex:1;padding:24px}
.error{color:#EF4444;margin:12px 0}
.loading{color:#F59E0B;margin:12px 0}
table{border-collapse:collapse;margin-top:16px}
td{padding:4px 12px;border-bottom:1px solid #374151}
</style>
</head>
<body>
<aside>
{{range .Entries}}<a href="/select/{{.Ticker}}"{{if .Active}} class="active"{{end}}>{{.Ticker}}</a>
{{end}}</aside>
<main>
<form method="post" action="/predict">
<input name="ticker" placeholder="Enter ticker, e.g. AAPL" autocomplete="off">
<button type="submit">Predict</button>
</form>
{{if .ErrorMessage}}<div class="error">{{.ErrorMessage}}</div>{{end}}
{{if .Loading}}<div class="loading">Loading…</div>{{end}}
{{if .ChartVisible}}
<h2>{{.Title}}</h2>
<img src="/chart.svg?id={{.ChartID}}" alt="{{.Title}}">
{{with .Summary}}
<table>
<tr><td>Last close ({{day .LastDate}})</td><td>{{price .LastClose}}</td></tr>
<tr><td>Forecast ({{day .FinalDate}})</td><td>{{price .FinalForecast}}</td></tr>
<tr><td>Change</td><td>{{price .Change}} ({{price .ChangePct}}%)</td></tr>
<tr><td>Forecast range</td><td>{{price .ForecastLow}} to {{price .ForecastHigh}}</td></tr>
</table>
{{end}}
{{end}}
</main>
</body>
</html>
`
