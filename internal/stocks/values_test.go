package stocks

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseReturn(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{"1,234.5", 1234.5},
		{"+5", 5},
		{"-0.40%", -0.40},
		{"  +1.23% ", 1.23},
		{"0%", 0},
		{"", 0},
		{"   ", 0},
		{"n/a", 0},
		{"abc%", 0},
		{"NaN", 0},
		{"inf", 0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.InDelta(t, tt.want, ParseReturn(tt.input), 1e-9)
		})
	}
}

func TestFormatPct(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"positive number", "1.234", "+1.23%"},
		{"negative number", "-0.4", "-0.40%"},
		{"zero", "0", "+0.00%"},
		{"already formatted", " +1.23% ", "+1.23%"},
		{"percent without sign", "3.8%", "3.8%"},
		{"thousands separator is not numeric", "1,234", "1,234"},
		{"text passes through", "n/a", "n/a"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatPct(tt.input))
		})
	}
}

func TestFormatPct_Idempotent(t *testing.T) {
	for _, s := range []string{"+1.23%", "-0.40%", "0%", "12.5", "-7"} {
		once := FormatPct(s)
		assert.Equal(t, once, FormatPct(once), "input %q", s)
	}
}

func TestExtractSeries(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []float64
	}{
		{"bracketed list", "[-1.85, -0.84]", []float64{-1.85, -0.84}},
		{"plain list", "0.1 0.2 -0.3", []float64{0.1, 0.2, -0.3}},
		{"integers", "[1, 2, 3]", []float64{1, 2, 3}},
		{"single number", "2.5", []float64{2.5}},
		{"empty", "", []float64{}},
		{"no numbers", "[]", []float64{}},
		{"text", "n/a", []float64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractSeries(tt.input))
		})
	}
}

func TestParseSeries(t *testing.T) {
	assert.Equal(t, []float64{0.1, -2, 0, 1000}, ParseSeries([]string{"0.1", "-2%", "bad", "1,000"}))
	assert.Equal(t, []float64{}, ParseSeries(nil))
}

func TestValueRules_NonFiniteAndHex(t *testing.T) {
	overflow := strings.Repeat("9", 400)

	// exponents are not part of the series grammar: "1e999" reads as 1 and 999
	assert.Equal(t, []float64{1, 999}, ExtractSeries("[1e999]"))
	assert.Equal(t, []float64{0, -2.5}, ExtractSeries("["+overflow+", -2.5]"))
	assert.Equal(t, []float64{}, ExtractSeries("inf"))

	assert.Equal(t, "1e999", FormatPct("1e999"))
	assert.Equal(t, "0x10", FormatPct("0x10"))
	assert.Equal(t, "-0X1p4", FormatPct("-0X1p4"))
	assert.Equal(t, "nan", FormatPct("nan"))

	assert.Equal(t, 0.0, ParseReturn("1e999"))
	assert.Equal(t, 0.0, ParseReturn(overflow))
	assert.Equal(t, 0.0, ParseReturn("0x10"))
	assert.Equal(t, 0.0, ParseReturn("+0x10%"))
}
