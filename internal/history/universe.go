package history

import (
	"fmt"
	"os"
	"strings"

	"github.com/creasty/defaults"
	"gopkg.in/yaml.v3"
)

// nifty50 is the default download universe
var nifty50 = []string{
	"ADANIENT", "ADANIPORTS", "APOLLOHOSP", "ASIANPAINT", "AXISBANK", "BAJAJ-AUTO", "BAJFINANCE",
	"BAJAJFINSV", "BEL", "BHARTIARTL", "CIPLA", "COALINDIA", "DRREDDY", "EICHERMOT", "ETERNAL",
	"GRASIM", "HCLTECH", "HDFCBANK", "HDFCLIFE", "HINDUNILVR", "HINDALCO", "ICICIBANK", "INFY",
	"INDIGO", "ITC", "JIOFIN", "JSWSTEEL", "KOTAKBANK", "LT", "M&M", "MARUTI", "MAXHEALTH",
	"NESTLEIND", "NTPC", "ONGC", "POWERGRID", "RELIANCE", "SBIN", "SBILIFE", "SHRIRAMFIN",
	"SUNPHARMA", "TATACONSUM", "TATAMOTORS", "TATASTEEL", "TCS", "TECHM", "TITAN", "TRENT",
	"ULTRACEMCO", "WIPRO",
}

// Universe is the set of tickers to download
type Universe struct {
	Tickers []string `yaml:"tickers"`
	Suffix  string   `yaml:"suffix" default:".NS"`
}

// DefaultUniverse returns the NIFTY 50 on NSE
func DefaultUniverse() *Universe {
	u := &Universe{Tickers: append([]string(nil), nifty50...)}
	defaults.MustSet(u)
	return u
}

// LoadUniverse reads a YAML universe file. An empty path gives DefaultUniverse.
func LoadUniverse(path string) (*Universe, error) {
	if path == "" {
		return DefaultUniverse(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read universe file: %w", err)
	}

	u := &Universe{}
	if err := yaml.Unmarshal(data, u); err != nil {
		return nil, fmt.Errorf("parse universe file %s: %w", path, err)
	}
	if err := defaults.Set(u); err != nil {
		return nil, fmt.Errorf("apply universe defaults: %w", err)
	}
	if len(u.Tickers) == 0 {
		return nil, fmt.Errorf("universe file %s lists no tickers", path)
	}
	return u, nil
}

// Symbols returns the exchange symbols to request, in file order
func (u *Universe) Symbols() []string {
	out := make([]string, 0, len(u.Tickers))
	for _, t := range u.Tickers {
		if s := ExchangeSymbol(t, u.Suffix); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// ExchangeSymbol upper-cases a ticker and adds suffix unless it already
// names an NSE or BSE listing
func ExchangeSymbol(ticker, suffix string) string {
	t := strings.ToUpper(strings.TrimSpace(ticker))
	if t == "" {
		return ""
	}
	if strings.HasSuffix(t, ".NS") || strings.HasSuffix(t, ".BO") {
		return t
	}
	return t + suffix
}

// DisplaySymbol strips the exchange suffix
func DisplaySymbol(symbol string) string {
	s := strings.TrimSuffix(symbol, ".NS")
	return strings.TrimSuffix(s, ".BO")
}
