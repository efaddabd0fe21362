package stocks

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/marketboard/pkg/logger"
)

func TestReadCSV(t *testing.T) {
	content := "\ufeff Name , NSE Code ,1d\n" +
		"TCS,TCS,1.5\n" +
		"\n" +
		"INFY,INFY\n" +
		"WIPRO,WIPRO,-0.3,extra\n"

	ds, err := ReadCSV(strings.NewReader(content))
	require.NoError(t, err)

	assert.Equal(t, []string{"Name", "NSE Code", "1d"}, ds.Columns)
	require.Equal(t, 3, ds.Len())
	assert.Equal(t, RawRow{"Name": "TCS", "NSE Code": "TCS", "1d": "1.5"}, ds.Rows[0])
	assert.Equal(t, "", ds.Rows[1]["1d"], "short rows are padded")
	assert.Equal(t, "-0.3", ds.Rows[2]["1d"])
	assert.Len(t, ds.Rows[2], 3, "extra cells are dropped")
}

func TestReadCSV_Empty(t *testing.T) {
	ds, err := ReadCSV(strings.NewReader(""))
	require.NoError(t, err)
	assert.True(t, ds.Empty())
}

func TestReadCSV_HeaderOnly(t *testing.T) {
	ds, err := ReadCSV(strings.NewReader("Name,1d\n"))
	require.NoError(t, err)
	assert.True(t, ds.Empty())
	assert.Equal(t, []string{"Name", "1d"}, ds.Columns)
}

func TestLoadCSV_MissingFile(t *testing.T) {
	_, err := LoadCSV(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}

func TestStore_Reload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stocks.csv")
	require.NoError(t, os.WriteFile(path, []byte("Name,1d\nTCS,1\n"), 0o644))

	store := NewStore(path, logger.Nop())

	// before the first load the snapshot is empty, not nil
	require.NotNil(t, store.Current())
	assert.True(t, store.Current().Dataset.Empty())
	assert.Equal(t, path, store.Current().Source)

	require.NoError(t, store.Reload(context.Background()))
	first := store.Current()
	assert.Equal(t, 1, first.Dataset.Len())
	assert.False(t, first.LoadedAt.IsZero())

	require.NoError(t, os.WriteFile(path, []byte("Name,1d\nTCS,1\nINFY,2\n"), 0o644))
	require.NoError(t, store.Reload(context.Background()))

	assert.Equal(t, 2, store.Current().Dataset.Len())
	assert.Equal(t, 1, first.Dataset.Len(), "old snapshot is untouched")
}

func TestStore_ReloadFailureKeepsSnapshot(t *testing.T) {
	calls := 0
	load := func(path string) (*Dataset, error) {
		calls++
		if calls == 1 {
			return &Dataset{Columns: []string{"Name"}, Rows: []RawRow{{"Name": "TCS"}}}, nil
		}
		return nil, errors.New("disk gone")
	}

	store := NewStoreWithLoader("stocks.csv", load, logger.Nop())
	require.NoError(t, store.Reload(context.Background()))
	assert.Error(t, store.Reload(context.Background()))

	assert.Equal(t, 1, store.Current().Dataset.Len())
	assert.Equal(t, "stocks.csv", store.Source())
}

func TestStore_ReloadCancelled(t *testing.T) {
	store := NewStoreWithLoader("x.csv", func(string) (*Dataset, error) {
		t.Fatal("loader must not run")
		return nil, nil
	}, logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, store.Reload(ctx), context.Canceled)
}

func TestStore_ConcurrentReadersSeeWholeSnapshots(t *testing.T) {
	var mu sync.Mutex
	size := 1
	load := func(string) (*Dataset, error) {
		mu.Lock()
		defer mu.Unlock()
		ds := &Dataset{Columns: []string{"Name"}}
		for i := 0; i < size; i++ {
			ds.Rows = append(ds.Rows, RawRow{"Name": "X"})
		}
		size++
		return ds, nil
	}

	store := NewStoreWithLoader("x.csv", load, logger.Nop())
	builder := NewBuilder()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = store.Reload(context.Background())
		}()
		go func() {
			defer wg.Done()
			snap := store.Current()
			p := builder.Build(snap.Dataset, snap.Source, Query{})
			assert.Equal(t, snap.Dataset.Len(), p.Count)
		}()
	}
	wg.Wait()
}
