package stocks

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// generatedAtLayout matches an ISO-8601 UTC timestamp with microseconds and a Z suffix
const generatedAtLayout = "2006-01-02T15:04:05.000000Z"

// seriesWindow is the number of trailing daily changes kept per symbol
const seriesWindow = 5

// StockSummary is one ranked entry of the /api/stocks payload
type StockSummary struct {
	Name          string    `json:"name"`
	DayReturn     string    `json:"day_return"`
	WeeklyReturn  string    `json:"weekly_return"`
	MonthlyReturn string    `json:"monthly_return"`
	FiveDay       []float64 `json:"5d_return"`
}

// Payload is the JSON body returned by the builder
type Payload struct {
	GeneratedAt string         `json:"generated_at"`
	Count       int            `json:"count"`
	Stocks      []StockSummary `json:"stocks"`
	Error       string         `json:"error,omitempty"`
}

// Query narrows the dataset before summarization
type Query struct {
	Tickers string // comma-separated, case-insensitive
	Limit   int    // <= 0 means no limit
}

// Builder turns a raw dataset snapshot into ranked stock summaries.
// It never mutates the dataset and keeps no state between calls.
// ⭐ SSOT: 종목 요약 로직은 여기서만
type Builder struct {
	now func() time.Time
}

// NewBuilder creates a builder stamping payloads with the wall clock
func NewBuilder() *Builder {
	return &Builder{now: time.Now}
}

// NewBuilderWithClock creates a builder with a fixed clock (tests, replays)
func NewBuilderWithClock(now func() time.Time) *Builder {
	return &Builder{now: now}
}

// Build summarizes ds. An empty dataset is not a failure: the payload carries
// an error message naming source and an empty stock list.
func (b *Builder) Build(ds *Dataset, source string, q Query) *Payload {
	if ds.Empty() {
		return &Payload{
			GeneratedAt: b.stamp(),
			Count:       0,
			Stocks:      []StockSummary{},
			Error:       fmt.Sprintf("No CSV loaded at %s", source),
		}
	}

	cols := ResolveColumns(ds.Columns)

	rows := filterRows(ds.Rows, cols, q.Tickers)
	if q.Limit > 0 && len(rows) > q.Limit {
		rows = rows[:q.Limit]
	}

	var fallback map[string][]float64
	if !cols.Bound(RoleSeries5D) && cols.Bound(RoleName) && cols.Bound(RoleDailyChange) {
		fallback = trailingChanges(rows, cols.Name, cols.DailyChange, seriesWindow)
	}

	summaries := make([]StockSummary, 0, len(rows))
	for _, row := range rows {
		summaries = append(summaries, summarize(row, cols, fallback))
	}

	Rank(summaries)

	return &Payload{
		GeneratedAt: b.stamp(),
		Count:       len(summaries),
		Stocks:      summaries,
	}
}

func (b *Builder) stamp() string {
	return b.now().UTC().Format(generatedAtLayout)
}

// filterRows keeps rows whose name, BSE code or NSE code equals one of the tickers.
// The returned slice is a fresh copy; ds.Rows is never reordered.
// A non-empty tickers value with no usable token (",") matches nothing.
func filterRows(rows []RawRow, cols ColumnMap, tickers string) []RawRow {
	if tickers == "" {
		out := make([]RawRow, len(rows))
		copy(out, rows)
		return out
	}

	wanted := parseTickers(tickers)
	if len(wanted) == 0 {
		return []RawRow{}
	}

	out := make([]RawRow, 0, len(rows))
	for _, row := range rows {
		candidates := []string{
			value(row, cols.Name),
			value(row, cols.BSECode),
			value(row, cols.NSECode),
		}
		if matchesAny(candidates, wanted) {
			out = append(out, row)
		}
	}
	return out
}

func parseTickers(tickers string) map[string]struct{} {
	wanted := make(map[string]struct{})
	for _, t := range strings.Split(tickers, ",") {
		if t = strings.ToUpper(strings.TrimSpace(t)); t != "" {
			wanted[t] = struct{}{}
		}
	}
	return wanted
}

func matchesAny(candidates []string, wanted map[string]struct{}) bool {
	for _, c := range candidates {
		c = strings.ToUpper(c)
		if c == "" {
			continue
		}
		if _, ok := wanted[c]; ok {
			return true
		}
	}
	return false
}

// trailingChanges groups rows by name and keeps the last n daily changes of each group, in file order
func trailingChanges(rows []RawRow, nameCol, changeCol string, n int) map[string][]float64 {
	grouped := make(map[string][]string)
	for _, row := range rows {
		name := row[nameCol]
		grouped[name] = append(grouped[name], row[changeCol])
	}

	out := make(map[string][]float64, len(grouped))
	for name, changes := range grouped {
		if len(changes) > n {
			changes = changes[len(changes)-n:]
		}
		out[name] = ParseSeries(changes)
	}
	return out
}

func summarize(row RawRow, cols ColumnMap, fallback map[string][]float64) StockSummary {
	s := StockSummary{
		Name: value(row, cols.Name),
	}
	if cols.Return1D != "" {
		s.DayReturn = FormatPct(row[cols.Return1D])
	}
	if cols.Return1W != "" {
		s.WeeklyReturn = FormatPct(row[cols.Return1W])
	}
	if cols.Return1M != "" {
		s.MonthlyReturn = FormatPct(row[cols.Return1M])
	}

	if raw := value(row, cols.Series5D); raw != "" {
		s.FiveDay = ExtractSeries(raw)
	} else if series, ok := fallback[s.Name]; ok {
		// rows sharing a name share the slice; copy so callers can't alias each other
		s.FiveDay = append([]float64(nil), series...)
	}
	if s.FiveDay == nil {
		s.FiveDay = []float64{}
	}
	return s
}

// Rank orders summaries by fewest negative periods first, then by highest total return.
// The sort is stable. If ranking panics the original order is restored.
func Rank(summaries []StockSummary) {
	original := make([]StockSummary, len(summaries))
	copy(original, summaries)

	defer func() {
		if recover() != nil {
			copy(summaries, original)
		}
	}()

	type key struct {
		negatives int
		total     float64
	}
	keys := make([]key, len(summaries))
	idx := make([]int, len(summaries))
	for i, s := range summaries {
		idx[i] = i
		neg, total := rankKey(s)
		keys[i] = key{negatives: neg, total: total}
	}

	sort.SliceStable(idx, func(a, b int) bool {
		ka, kb := keys[idx[a]], keys[idx[b]]
		if ka.negatives != kb.negatives {
			return ka.negatives < kb.negatives
		}
		return ka.total > kb.total
	})

	for i, j := range idx {
		summaries[i] = original[j]
	}
}

// rankKey returns the number of negative periods and the summed return
func rankKey(s StockSummary) (int, float64) {
	negatives := 0
	total := 0.0
	for _, raw := range []string{s.DayReturn, s.WeeklyReturn, s.MonthlyReturn} {
		v := ParseReturn(raw)
		if v < 0 {
			negatives++
		}
		total += v
	}
	return negatives, total
}
