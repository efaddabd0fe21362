package dashboard

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Metric is one headline tile
type Metric struct {
	Title       string `json:"title"`
	Value       string `json:"value"`
	DChange     string `json:"d_change"`
	PrevValue   string `json:"prev_value,omitempty"`
	Unit        string `json:"unit,omitempty"`
	LastUpdated string `json:"last_updated,omitempty"`
}

// Point is a named chart value
type Point struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// TrendPoint is a named line-chart value
type TrendPoint struct {
	Name string `json:"name"`
	UV   int    `json:"uv"`
}

type SalesPoint struct {
	Name  string `json:"name"`
	Sales int    `json:"sales"`
}

type Invoice struct {
	ID     string `json:"id"`
	Amount int    `json:"amount"`
	Status string `json:"status"`
	Date   string `json:"date"`
}

// MetricsPayload is the body of /api/metrics
type MetricsPayload struct {
	Metrics    []Metric     `json:"metrics"`
	Timeseries []TrendPoint `json:"timeseries"`
	Pie        []Point      `json:"pie"`
}

// OverviewPayload is the body of /api/market_overview
type OverviewPayload struct {
	GeneratedAt string   `json:"generated_at"`
	Metrics     []Metric `json:"metrics"`
}

// WeeklyPayload is the body of /api/weekly
type WeeklyPayload struct {
	Bar      []Point      `json:"bar"`
	Line     []TrendPoint `json:"line"`
	Pie      []Point      `json:"pie"`
	Sales    []SalesPoint `json:"sales"`
	Invoices []Invoice    `json:"invoices"`
}

type DayValue struct {
	Date  string `json:"date"`
	Value int    `json:"value"`
}

// SeriesStats summarises a random series
type SeriesStats struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stddev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

type TimeseriesPayload struct {
	Series []DayValue   `json:"series"`
	Stats  SeriesStats `json:"stats"`
}

const isoLayout = "2006-01-02T15:04:05.000000"

// Samples generates the demo dashboard datasets.
// The random source is not goroutine safe, so draws are serialised.
type Samples struct {
	now func() time.Time

	mu  sync.Mutex
	rng *rand.Rand
}

// NewSamples creates a generator seeded from the wall clock
func NewSamples() *Samples {
	return NewSamplesWith(time.Now, rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewSamplesWith creates a generator with a fixed clock and random source
func NewSamplesWith(now func() time.Time, rng *rand.Rand) *Samples {
	return &Samples{now: now, rng: rng}
}

// between returns a random int in [lo, hi]
func (s *Samples) between(lo, hi int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return lo + s.rng.Intn(hi-lo+1)
}

// Metrics returns the headline tiles with a timeseries and a completion pie
func (s *Samples) Metrics() *MetricsPayload {
	stamp := s.now().UTC().Format(isoLayout)

	metrics := []Metric{
		{Title: "Nifty50", Value: "34,150", DChange: "-0.67%", PrevValue: "34,378", Unit: "points"},
		{Title: "Sensex", Value: "15,256", DChange: "+0.12%", PrevValue: "15,237", Unit: "points"},
		{Title: "Market Cap", Value: "31,250", DChange: "+0.5%", PrevValue: "31,095", Unit: "T INR"},
		{Title: "Visitors", Value: "15,803", DChange: "+2.3%", PrevValue: "15,453", Unit: "visitors"},
		{Title: "Active Users", Value: "8,432", DChange: "-1.1%", PrevValue: "8,525", Unit: "users"},
		{Title: "New Signups", Value: "1,245", DChange: "+4.8%", PrevValue: "1,188", Unit: "signups"},
	}
	for i := range metrics {
		metrics[i].LastUpdated = stamp
	}

	return &MetricsPayload{
		Metrics: metrics,
		Timeseries: []TrendPoint{
			{Name: "Week 1", UV: 200},
			{Name: "Week 2", UV: 300},
			{Name: "Week 3", UV: 500},
			{Name: "Week 4", UV: 700},
			{Name: "Week 5", UV: 650},
			{Name: "Week 6", UV: 720},
		},
		Pie: []Point{
			{Name: "Completed", Value: 71},
			{Name: "Remaining", Value: 29},
		},
	}
}

// MarketOverview returns the index tiles shown above the stocks grid
func (s *Samples) MarketOverview() *OverviewPayload {
	return &OverviewPayload{
		GeneratedAt: s.now().UTC().Format(isoLayout),
		Metrics: []Metric{
			{Title: "Nifty50", Value: "34,150", DChange: "-0.67%"},
			{Title: "Sensex", Value: "15,256", DChange: "+0.12%"},
			{Title: "Midcap", Value: "31,250", DChange: "+0.5%"},
			{Title: "SmallCap", Value: "15,803", DChange: "+2.3%"},
			{Title: "Microcap", Value: "8,432", DChange: "-1.1%"},
			{Title: "CrudeOil", Value: "45,123", DChange: "+0.9%"},
			{Title: "Dollar", Value: "22,456", DChange: "-0.4%"},
			{Title: "VIX", Value: "12,345", DChange: "+1.2%"},
		},
	}
}

// Weekly returns the weekly chart bundle
func (s *Samples) Weekly() *WeeklyPayload {
	now := s.now().UTC()

	line := make([]TrendPoint, 12)
	for i := range line {
		line[i] = TrendPoint{Name: fmt.Sprintf("Week %d", i+1), UV: s.between(100, 900)}
	}

	// six points four weeks apart, oldest first
	sales := make([]SalesPoint, 6)
	for i := range sales {
		month := now.Add(-time.Duration(4*(5-i)) * 7 * 24 * time.Hour)
		sales[i] = SalesPoint{Name: month.Format("Jan 2006"), Sales: s.between(1000, 5000)}
	}

	return &WeeklyPayload{
		Bar: []Point{
			{Name: "Mon", Value: 12},
			{Name: "Tue", Value: 18},
			{Name: "Wed", Value: 9},
			{Name: "Thu", Value: 14},
			{Name: "Fri", Value: 21},
			{Name: "Sat", Value: 7},
			{Name: "Sun", Value: 5},
		},
		Line: line,
		Pie: []Point{
			{Name: "Completed", Value: 58},
			{Name: "Pending", Value: 22},
			{Name: "Cancelled", Value: 12},
			{Name: "Refunded", Value: 8},
		},
		Sales: sales,
		Invoices: []Invoice{
			{ID: "INV-1001", Amount: 230, Status: "paid", Date: "2025-10-01"},
			{ID: "INV-1002", Amount: 540, Status: "pending", Date: "2025-10-03"},
			{ID: "INV-1003", Amount: 410, Status: "paid", Date: "2025-10-04"},
			{ID: "INV-1004", Amount: 290, Status: "overdue", Date: "2025-10-06"},
		},
	}
}

// RandomTimeseries returns 30 daily values ending today (UTC)
func (s *Samples) RandomTimeseries() *TimeseriesPayload {
	const days = 30
	today := s.now().UTC().Truncate(24 * time.Hour)

	series := make([]DayValue, days)
	values := make([]float64, days)
	for i := 0; i < days; i++ {
		v := s.between(50, 200)
		series[i] = DayValue{
			Date:  today.AddDate(0, 0, -(days - 1 - i)).Format("2006-01-02"),
			Value: v,
		}
		values[i] = float64(v)
	}

	return &TimeseriesPayload{Series: series, Stats: summarize(values)}
}

func summarize(values []float64) SeriesStats {
	if len(values) == 0 {
		return SeriesStats{}
	}
	mean, std := stat.MeanStdDev(values, nil)
	return SeriesStats{Mean: mean, StdDev: std, Min: floats.Min(values), Max: floats.Max(values)}
}
