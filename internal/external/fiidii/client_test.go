package fiidii

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wonny/marketboard/pkg/httputil"
	"github.com/wonny/marketboard/pkg/logger"
)

const sampleHTML = `
<html>
<body>
<table class="nav"><tr><td>Home</td></tr></table>
<table class="mctable1">
	<tr><th>Date</th><th>FII Gross Purchase</th><th>FII Gross Sales</th><th>FII Net</th>
	    <th>DII Gross Purchase</th><th>DII Gross Sales</th><th>DII Net</th></tr>
	<tr>
		<td>21-Oct-2024</td>
		<td>12,345.67</td><td>14,000.00</td><td>-1,654.33</td>
		<td>11,000.50</td><td>9,500.25</td><td>1,500.25</td>
	</tr>
	<tr>
		<td>18 Oct 2024</td>
		<td>10,000</td><td>9,000</td><td>+1,000</td>
		<td>-</td><td></td><td>0</td>
	</tr>
	<tr>
		<td>Month till date</td>
		<td>1</td><td>2</td><td>3</td><td>4</td><td>5</td><td>6</td>
	</tr>
	<tr><td>short</td></tr>
</table>
</body>
</html>
`

func TestParseFlows(t *testing.T) {
	flows, err := ParseFlows(sampleHTML)
	if err != nil {
		t.Fatalf("ParseFlows() error = %v", err)
	}

	if len(flows) != 2 {
		t.Fatalf("ParseFlows() got %d rows, want 2", len(flows))
	}

	first := flows[0]
	if want := time.Date(2024, 10, 21, 0, 0, 0, 0, time.UTC); !first.Date.Equal(want) {
		t.Errorf("Date = %v, want %v", first.Date, want)
	}
	if !first.FIINet.Equal(decimal.RequireFromString("-1654.33")) {
		t.Errorf("FIINet = %s, want -1654.33", first.FIINet)
	}
	if !first.DIIGrossSell.Equal(decimal.RequireFromString("9500.25")) {
		t.Errorf("DIIGrossSell = %s, want 9500.25", first.DIIGrossSell)
	}

	second := flows[1]
	if !second.FIINet.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("FIINet = %s, want 1000", second.FIINet)
	}
	if !second.DIIGrossBuy.IsZero() || !second.DIIGrossSell.IsZero() {
		t.Errorf("blank cells should parse as zero, got %s / %s", second.DIIGrossBuy, second.DIIGrossSell)
	}
}

func TestParseFlows_NoTable(t *testing.T) {
	if _, err := ParseFlows("<html><body><p>maintenance</p></body></html>"); err == nil {
		t.Error("ParseFlows() expected error for page without rows")
	}
}

func TestFetchFlows(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sampleHTML))
	}))
	defer server.Close()

	c := NewClient(httputil.New(logger.Nop()).DisableRetry(), server.URL, logger.Nop())
	flows, err := c.FetchFlows(context.Background())
	if err != nil {
		t.Fatalf("FetchFlows() error = %v", err)
	}
	if len(flows) != 2 {
		t.Errorf("FetchFlows() got %d rows, want 2", len(flows))
	}
	if c.Source() != server.URL {
		t.Errorf("Source() = %s, want %s", c.Source(), server.URL)
	}
}

func TestFetchFlows_BadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	c := NewClient(httputil.New(logger.Nop()).DisableRetry(), server.URL, logger.Nop())
	if _, err := c.FetchFlows(context.Background()); err == nil {
		t.Error("FetchFlows() expected error on 403")
	}
}
