package fiidii

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/shopspring/decimal"

	"github.com/wonny/marketboard/pkg/httputil"
	"github.com/wonny/marketboard/pkg/logger"
)

// Flow is one trading day of institutional cash-market activity (crore INR)
type Flow struct {
	Date         time.Time       `json:"date"`
	FIIGrossBuy  decimal.Decimal `json:"fii_gross_purchase"`
	FIIGrossSell decimal.Decimal `json:"fii_gross_sales"`
	FIINet       decimal.Decimal `json:"fii_net"`
	DIIGrossBuy  decimal.Decimal `json:"dii_gross_purchase"`
	DIIGrossSell decimal.Decimal `json:"dii_gross_sales"`
	DIINet       decimal.Decimal `json:"dii_net"`
}

// Client scrapes the FII/DII activity page
// ⭐ SSOT: FII/DII 페이지 호출은 이 클라이언트에서만
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	pageURL    string
}

// NewClient creates a new FII/DII client
func NewClient(httpClient *httputil.Client, pageURL string, log *logger.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     log.WithComponent("fiidii"),
		pageURL:    pageURL,
	}
}

// Source identifies the page the flows come from
func (c *Client) Source() string {
	return c.pageURL
}

// FetchFlows downloads and parses the activity table, newest day first
func (c *Client) FetchFlows(ctx context.Context) ([]Flow, error) {
	resp, err := c.httpClient.Get(ctx, c.pageURL)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	flows, err := ParseFlows(string(body))
	if err != nil {
		return nil, err
	}

	c.logger.WithField("count", len(flows)).Debug("Fetched FII/DII flows")
	return flows, nil
}

// dateLayouts are the day formats seen in the first column
var dateLayouts = []string{
	"02-Jan-2006",
	"2-Jan-2006",
	"02 Jan 2006",
	"Jan 02, 2006",
	"Jan 2, 2006",
	"2006-01-02",
	"02/01/2006",
}

// ParseFlows extracts flows from the first table that yields any dated row.
// Columns: Date | FII Gross Purchase | FII Gross Sales | FII Net | DII Gross Purchase | DII Gross Sales | DII Net
func ParseFlows(html string) ([]Flow, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	var flows []Flow
	doc.Find("table").EachWithBreak(func(_ int, table *goquery.Selection) bool {
		flows = parseTable(table)
		return len(flows) == 0
	})

	if len(flows) == 0 {
		return nil, fmt.Errorf("no FII/DII rows found")
	}
	return flows, nil
}

func parseTable(table *goquery.Selection) []Flow {
	var flows []Flow

	table.Find("tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 7 {
			return
		}

		date, ok := parseDate(cells.Eq(0).Text())
		if !ok {
			return
		}

		amounts := make([]decimal.Decimal, 6)
		for i := range amounts {
			amounts[i] = parseAmount(cells.Eq(i + 1).Text())
		}

		flows = append(flows, Flow{
			Date:         date,
			FIIGrossBuy:  amounts[0],
			FIIGrossSell: amounts[1],
			FIINet:       amounts[2],
			DIIGrossBuy:  amounts[3],
			DIIGrossSell: amounts[4],
			DIINet:       amounts[5],
		})
	})

	return flows
}

func parseDate(raw string) (time.Time, bool) {
	s := strings.Join(strings.Fields(raw), " ")
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseAmount reads "1,234.56" style cells; blanks and dashes are zero
func parseAmount(raw string) decimal.Decimal {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimPrefix(s, "+")
	if s == "" || s == "-" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
