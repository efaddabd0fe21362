package handlers

import (
	"html/template"
	"net/http"
	"strings"

	"github.com/wonny/marketboard/internal/stocks"
	"github.com/wonny/marketboard/pkg/logger"
)

var pageTemplate = template.Must(template.New("index").Funcs(template.FuncMap{
	"tone": tone,
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Market Board</title>
<style>
body { font-family: system-ui, sans-serif; margin: 2rem; }
table { border-collapse: collapse; }
th, td { padding: .35rem .8rem; border-bottom: 1px solid #ddd; text-align: right; }
th:first-child, td:first-child { text-align: left; }
.up { color: #0a7d32; } .down { color: #c62828; }
</style>
</head>
<body>
<h1>Market Board</h1>
<p>Generated {{.GeneratedAt}} &middot; {{.Count}} stocks</p>
{{if .Error}}<p class="down">{{.Error}}</p>{{end}}
<table>
<thead><tr><th>Name</th><th>1D</th><th>1W</th><th>1M</th><th>5D</th></tr></thead>
<tbody>
{{range .Stocks}}<tr>
<td>{{.Name}}</td>
<td class="{{tone .DayReturn}}">{{.DayReturn}}</td>
<td class="{{tone .WeeklyReturn}}">{{.WeeklyReturn}}</td>
<td class="{{tone .MonthlyReturn}}">{{.MonthlyReturn}}</td>
<td>{{range $i, $v := .FiveDay}}{{if $i}}, {{end}}{{printf "%.2f" $v}}{{end}}</td>
</tr>{{end}}
</tbody>
</table>
<p>
<a href="/api/stocks">/api/stocks</a> &middot;
<a href="/api/market_overview">/api/market_overview</a> &middot;
<a href="/api/fiidii">/api/fiidii</a> &middot;
<a href="/api/watchlist">/api/watchlist</a>
</p>
</body>
</html>
`))

// PageHandler renders the HTML board
type PageHandler struct {
	store   *stocks.Store
	builder *stocks.Builder
	logger  *logger.Logger
}

// NewPageHandler creates a new page handler
func NewPageHandler(store *stocks.Store, builder *stocks.Builder, log *logger.Logger) *PageHandler {
	return &PageHandler{store: store, builder: builder, logger: log}
}

// Index renders the stocks table; accepts the same tickers and n parameters as /api/stocks
// GET /
func (h *PageHandler) Index(w http.ResponseWriter, r *http.Request) {
	snap := h.store.Current()
	payload := h.builder.Build(snap.Dataset, snap.Source, stocks.Query{
		Tickers: r.URL.Query().Get("tickers"),
		Limit:   parseLimit(r.URL.Query().Get("n")),
	})

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(w, payload); err != nil {
		h.logger.WithError(err).Error("Failed to render board page")
	}
}

func tone(pct string) string {
	switch {
	case strings.HasPrefix(pct, "-"):
		return "down"
	case pct == "" || stocks.ParseReturn(pct) == 0:
		return ""
	default:
		return "up"
	}
}
