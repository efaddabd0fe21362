package watchlist

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore(filepath.Join(t.TempDir(), "nested", "watchlist.json"))

	tick := time.Date(2025, 10, 21, 9, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	s.now = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		tick = tick.Add(time.Second)
		return tick
	}
	return s
}

func TestStore_EmptyWhenMissing(t *testing.T) {
	items, err := newTestStore(t).List()
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestStore_AddListRemove(t *testing.T) {
	s := newTestStore(t)

	tcs, err := s.Add(" tcs ", " long term ")
	require.NoError(t, err)
	assert.Equal(t, "TCS", tcs.Symbol)
	assert.Equal(t, "long term", tcs.Note)
	assert.NotEmpty(t, tcs.ID)

	_, err = s.Add("INFY", "")
	require.NoError(t, err)

	items, err := s.List()
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "TCS", items[0].Symbol)
	assert.Equal(t, "INFY", items[1].Symbol)

	require.NoError(t, s.Remove("tcs"))

	items, err = s.List()
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "INFY", items[0].Symbol)
}

func TestStore_Errors(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Add("  ", "")
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = s.Add("TCS", "")
	require.NoError(t, err)
	_, err = s.Add("tcs", "")
	assert.ErrorIs(t, err, ErrDuplicate)

	assert.ErrorIs(t, s.Remove("WIPRO"), ErrNotFound)
}

func TestStore_PersistsAcrossInstances(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Add("TCS", "")
	require.NoError(t, err)

	items, err := NewStore(s.path).List()
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "TCS", items[0].Symbol)
}

func TestStore_CorruptFile(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(s.path), 0o755))
	require.NoError(t, os.WriteFile(s.path, []byte("{not json"), 0o644))

	_, err := s.List()
	assert.Error(t, err)
}

func TestStore_ConcurrentAdds(t *testing.T) {
	s := newTestStore(t)
	symbols := []string{"TCS", "INFY", "WIPRO", "HCLTECH", "TECHM", "LT", "ITC", "SBIN"}

	var wg sync.WaitGroup
	for _, sym := range symbols {
		wg.Add(1)
		go func(sym string) {
			defer wg.Done()
			_, err := s.Add(sym, "")
			assert.NoError(t, err)
		}(sym)
	}
	wg.Wait()

	items, err := s.List()
	require.NoError(t, err)
	assert.Len(t, items, len(symbols))
}
