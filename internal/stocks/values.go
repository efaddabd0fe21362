package stocks

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var seriesNumberRe = regexp.MustCompile(`-?\d+(?:\.\d+)?`)

// ParseReturn converts a return-like cell ("+1.23%", "1,234.5", " -0.4 ") to a number.
// Anything that cannot be read as a finite number becomes 0.
func ParseReturn(raw string) float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0
	}

	s = strings.ReplaceAll(s, "%", "")
	s = strings.ReplaceAll(s, "+", "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)

	v, ok := parseFinite(s)
	if !ok {
		return 0
	}
	return v
}

// FormatPct renders a return cell as a signed two-decimal percentage.
// Values already ending in '%' pass through trimmed; unparseable values pass through raw.
func FormatPct(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if strings.HasSuffix(trimmed, "%") {
		return trimmed
	}

	v, ok := parseFinite(trimmed)
	if !ok {
		return raw
	}
	return fmt.Sprintf("%+.2f%%", v)
}

// ExtractSeries pulls every signed decimal out of a field such as "[-1.85, -0.84]".
// A field with no embedded numbers is tried as a single number, otherwise it yields nothing.
func ExtractSeries(raw string) []float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return []float64{}
	}

	matches := seriesNumberRe.FindAllString(s, -1)
	if len(matches) > 0 {
		out := make([]float64, 0, len(matches))
		for _, m := range matches {
			v, _ := parseFinite(m) // overflowing digit runs become 0
			out = append(out, v)
		}
		return out
	}

	if v, ok := parseFinite(s); ok {
		return []float64{v}
	}
	return []float64{}
}

// ParseSeries is the sequence form of ExtractSeries: every element goes through ParseReturn.
func ParseSeries(values []string) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		out = append(out, ParseReturn(v))
	}
	return out
}

// parseFinite parses s as a decimal float, rejecting NaN, ±Inf and hex literals
func parseFinite(s string) (float64, bool) {
	digits := strings.TrimLeft(s, "+-")
	if strings.HasPrefix(digits, "0x") || strings.HasPrefix(digits, "0X") {
		return 0, false
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
