package history

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/marketboard/pkg/config"
	"github.com/wonny/marketboard/pkg/database"
)

func TestRepository_SaveBars(t *testing.T) {
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := database.New(ctx, config.DatabaseConfig{URL: url, MaxConns: 2})
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db.Pool)
	require.NoError(t, repo.EnsureSchema(ctx))

	symbol := "ZZTEST" + time.Now().Format("150405")
	rows := []Row{
		{Date: day(21), Symbol: symbol, Open: 1, High: 2, Low: 0.5, Close: 1.5, Volume: 10},
		{Date: day(22), Symbol: symbol, Open: 1.5, High: 2.5, Low: 1, Close: 2, Volume: 20},
	}
	require.NoError(t, repo.SaveBars(ctx, rows))

	// second save is an update, not a duplicate
	require.NoError(t, repo.SaveBars(ctx, rows))

	n, err := repo.CountBars(ctx, symbol)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = db.Pool.Exec(ctx, `DELETE FROM market.daily_bars WHERE symbol = $1`, symbol)
	require.NoError(t, err)
}
