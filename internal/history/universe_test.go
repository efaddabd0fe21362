package history

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultUniverse(t *testing.T) {
	u := DefaultUniverse()

	assert.Len(t, u.Tickers, 50)
	assert.Equal(t, ".NS", u.Suffix)

	symbols := u.Symbols()
	assert.Equal(t, "ADANIENT.NS", symbols[0])
	assert.Contains(t, symbols, "M&M.NS")
	assert.Contains(t, symbols, "BAJAJ-AUTO.NS")
}

func TestLoadUniverse(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "universe.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tickers:\n  - tcs\n  - RELIANCE.BO\n  - ' '\n"), 0o644))

	u, err := LoadUniverse(path)
	require.NoError(t, err)
	assert.Equal(t, ".NS", u.Suffix)
	assert.Equal(t, []string{"TCS.NS", "RELIANCE.BO"}, u.Symbols())

	bse := filepath.Join(dir, "bse.yaml")
	require.NoError(t, os.WriteFile(bse, []byte("suffix: .BO\ntickers: [INFY]\n"), 0o644))

	u, err = LoadUniverse(bse)
	require.NoError(t, err)
	assert.Equal(t, []string{"INFY.BO"}, u.Symbols())
}

func TestLoadUniverse_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadUniverse(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	empty := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("tickers: []\n"), 0o644))
	_, err = LoadUniverse(empty)
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("tickers: [unterminated\n"), 0o644))
	_, err = LoadUniverse(bad)
	assert.Error(t, err)

	u, err := LoadUniverse("")
	require.NoError(t, err)
	assert.Len(t, u.Tickers, 50)
}

func TestSymbols(t *testing.T) {
	assert.Equal(t, "TCS.NS", ExchangeSymbol(" tcs ", ".NS"))
	assert.Equal(t, "TCS.BO", ExchangeSymbol("TCS.BO", ".NS"))
	assert.Equal(t, "", ExchangeSymbol("", ".NS"))

	assert.Equal(t, "TCS", DisplaySymbol("TCS.NS"))
	assert.Equal(t, "TCS", DisplaySymbol("TCS.BO"))
	assert.Equal(t, "M&M", DisplaySymbol("M&M"))
}
