package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/wonny/marketboard/pkg/httputil"
	"github.com/wonny/marketboard/pkg/logger"
)

// Bar is one daily OHLCV candle, dated in the exchange's local calendar
type Bar struct {
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume int64
}

// Client talks to the Yahoo Finance chart API
// ⭐ SSOT: Yahoo chart API 호출은 이 클라이언트에서만
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
}

// NewClient creates a new Yahoo chart client
func NewClient(httpClient *httputil.Client, baseURL string, log *logger.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     log.WithComponent("yahoo"),
		baseURL:    baseURL,
	}
}

// chartResponse mirrors /v8/finance/chart. Pointer fields are null for
// sessions without trades.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol    string `json:"symbol"`
				GMTOffset int    `json:"gmtoffset"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// FetchDaily returns daily bars for symbol in [from, to), oldest first
func (c *Client) FetchDaily(ctx context.Context, symbol string, from, to time.Time) ([]Bar, error) {
	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s", c.baseURL, url.PathEscape(symbol))
	params := url.Values{
		"period1":  {strconv.FormatInt(from.Unix(), 10)},
		"period2":  {strconv.FormatInt(to.Unix(), 10)},
		"interval": {"1d"},
	}

	resp, err := c.httpClient.GetWithParams(ctx, endpoint, params, nil)
	if err != nil {
		return nil, fmt.Errorf("yahoo fetch %s: %w", symbol, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("yahoo read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo %s: status %d", symbol, resp.StatusCode)
	}

	bars, err := parseChart(body)
	if err != nil {
		return nil, fmt.Errorf("yahoo %s: %w", symbol, err)
	}

	c.logger.WithFields(map[string]interface{}{
		"symbol": symbol,
		"bars":   len(bars),
	}).Debug("Fetched daily bars")
	return bars, nil
}

func parseChart(body []byte) ([]Bar, error) {
	var chart chartResponse
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("decode chart: %w", err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("api error: %s", chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 {
		return nil, fmt.Errorf("no chart result")
	}

	result := chart.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return []Bar{}, nil
	}
	quote := result.Indicators.Quote[0]
	loc := time.FixedZone("exchange", result.Meta.GMTOffset)

	bars := make([]Bar, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		o, h, l, cl := at(quote.Open, i), at(quote.High, i), at(quote.Low, i), at(quote.Close, i)
		if o == nil || h == nil || l == nil || cl == nil {
			continue
		}

		local := time.Unix(ts, 0).In(loc)
		bar := Bar{
			Date:  time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC),
			Open:  *o,
			High:  *h,
			Low:   *l,
			Close: *cl,
		}
		if v := at(quote.Volume, i); v != nil {
			bar.Volume = int64(*v)
		}
		bars = append(bars, bar)
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })
	return bars, nil
}

func at(values []*float64, i int) *float64 {
	if i >= len(values) {
		return nil
	}
	return values[i]
}
