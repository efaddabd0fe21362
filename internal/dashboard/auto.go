package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/wonny/marketboard/internal/stocks"
	"github.com/wonny/marketboard/pkg/httputil"
	"github.com/wonny/marketboard/pkg/logger"
)

// listKeys are probed in order when the upstream wraps its rows in an object
var listKeys = []string{"data", "items", "results", "rows", "symbols"}

// StaticAutoData is the auto-sector table served when no upstream is usable
func StaticAutoData() []interface{} {
	rows := []map[string]interface{}{
		{"Ticker": "MARUTI", "Price": "16,401.00", "OneMoReturn": "3.8%", "ThreeMoReturn": "31.5%"},
		{"Ticker": "M&M", "Price": "3,647.20", "OneMoReturn": "0.39%", "ThreeMoReturn": "14.2%"},
		{"Ticker": "TATAMOTORS", "Price": "396.60", "OneMoReturn": "-8.9%", "ThreeMoReturn": "-3.9%"},
		{"Ticker": "BAJAJ.AUTO", "Price": "9,150.50", "OneMoReturn": "0.73%", "ThreeMoReturn": "9.9%"},
		{"Ticker": "HYUNDAI", "Price": "2,346.80", "OneMoReturn": "-11.5%", "ThreeMoReturn": "9.9%"},
		{"Ticker": "EICHERMOT", "Price": "7,042.50", "OneMoReturn": "2.2%", "ThreeMoReturn": "24.7%"},
		{"Ticker": "TVSMOTOR", "Price": "3,654.00", "OneMoReturn": "4.4%", "ThreeMoReturn": "26.9%"},
		{"Ticker": "HEROMOTOCO", "Price": "5,592.50", "OneMoReturn": "4.5%", "ThreeMoReturn": "25.9%"},
		{"Ticker": "MOTHERSON", "Price": "104.70", "OneMoReturn": "-4.2%", "ThreeMoReturn": "2.1%"},
		{"Ticker": "ASHOKLEY", "Price": "134.51", "OneMoReturn": "-1.7%", "ThreeMoReturn": "8.7%"},
		{"Ticker": "BMW", "Price": "43.07", "OneMoReturn": "-9.8%", "ThreeMoReturn": "-18.9%"},
	}

	out := make([]interface{}, len(rows))
	for i, r := range rows {
		out[i] = r
	}
	return out
}

// ExtractRows pulls the row list out of a decoded JSON payload.
// Objects are searched under listKeys, then for any list value, and are
// otherwise wrapped as a single row. Anything else yields nil.
func ExtractRows(payload interface{}) []interface{} {
	switch v := payload.(type) {
	case []interface{}:
		return v
	case map[string]interface{}:
		for _, k := range listKeys {
			if list, ok := v[k].([]interface{}); ok && len(list) > 0 {
				return list
			}
		}
		for _, val := range v {
			if list, ok := val.([]interface{}); ok && len(list) > 0 {
				return list
			}
		}
		return []interface{}{v}
	default:
		return nil
	}
}

// WithAverage appends an "Average" row holding the mean one and three month
// returns, unless a row already carries that ticker
func WithAverage(rows []interface{}) []interface{} {
	var oneSum, threeSum float64
	var oneN, threeN int

	for _, r := range rows {
		row, ok := r.(map[string]interface{})
		if !ok {
			continue
		}
		if strings.EqualFold(fmt.Sprint(row["Ticker"]), "average") {
			return rows
		}
		if v, ok := row["OneMoReturn"]; ok {
			oneSum += stocks.ParseReturn(fmt.Sprint(v))
			oneN++
		}
		if v, ok := row["ThreeMoReturn"]; ok {
			threeSum += stocks.ParseReturn(fmt.Sprint(v))
			threeN++
		}
	}

	avg := map[string]interface{}{
		"Ticker":        "Average",
		"Price":         "",
		"OneMoReturn":   formatMean(oneSum, oneN),
		"ThreeMoReturn": formatMean(threeSum, threeN),
	}
	return append(rows, avg)
}

func formatMean(sum float64, n int) string {
	if n == 0 {
		return ""
	}
	return fmt.Sprintf("%.2f%%", sum/float64(n))
}

// AutoFeed serves the auto-sector table from an optional upstream API
type AutoFeed struct {
	client *httputil.Client
	url    string
	apiKey string
	logger *logger.Logger
}

// NewAutoFeed creates a feed. An empty endpoint always serves the static table.
func NewAutoFeed(client *httputil.Client, endpoint, apiKey string, log *logger.Logger) *AutoFeed {
	return &AutoFeed{
		client: client,
		url:    endpoint,
		apiKey: apiKey,
		logger: log.WithComponent("auto_feed"),
	}
}

// Rows returns upstream rows when they can be used, else the static table.
// Upstream failures are logged and never returned.
func (f *AutoFeed) Rows(ctx context.Context, query url.Values) []interface{} {
	if f.url == "" {
		return StaticAutoData()
	}

	rows, err := f.fetch(ctx, query)
	if err != nil {
		f.logger.WithError(err).Warn("External auto data failed, serving static table")
		return StaticAutoData()
	}
	if len(rows) == 0 {
		return StaticAutoData()
	}
	return WithAverage(rows)
}

func (f *AutoFeed) fetch(ctx context.Context, query url.Values) ([]interface{}, error) {
	headers := http.Header{}
	if f.apiKey != "" {
		headers.Set("Authorization", "Bearer "+f.apiKey)
	}

	resp, err := f.client.GetWithParams(ctx, f.url, query, headers)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("upstream status %d", resp.StatusCode)
	}
	if !strings.Contains(resp.Header.Get("Content-Type"), "application/json") {
		return nil, fmt.Errorf("upstream content type %q is not JSON", resp.Header.Get("Content-Type"))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read upstream body: %w", err)
	}

	var payload interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode upstream body: %w", err)
	}
	return ExtractRows(payload), nil
}
