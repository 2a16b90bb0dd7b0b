package journal

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/signalcopy/pkg/id"
)

func readAll(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestCSVJournal(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	ordersPath := filepath.Join(dir, "orders.csv")
	updatesPath := filepath.Join(dir, "updates.csv")

	j, err := NewCSV(ordersPath, updatesPath)
	require.NoError(t, err)

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, j.RecordOrder(OrderRecord{
		ID:         id.New(),
		Ticket:     1001,
		Symbol:     "XAUUSD",
		Side:       "short",
		Kind:       "sell_stop",
		Volume:     0.01,
		EntryPrice: 1880,
		StopLoss:   1890,
		TakeProfit: 1830,
		Expiration: now.Add(4 * time.Hour),
		CreatedAt:  now,
	}))
	require.NoError(t, j.RecordSLUpdate(SLUpdateRecord{
		ID:          id.New(),
		Symbol:      "XAUUSD",
		NewStopLoss: 1885,
		Modified:    1,
		Time:        now,
	}))
	require.NoError(t, j.Close())

	orders := readAll(t, ordersPath)
	require.Len(t, orders, 2)
	assert.Equal(t, "ticket", orders[0][1])
	assert.Equal(t, "1001", orders[1][1])
	assert.Equal(t, "sell_stop", orders[1][4])
	assert.Equal(t, "1880", orders[1][6])
	assert.Equal(t, now.Format(time.RFC3339), orders[1][10])

	updates := readAll(t, updatesPath)
	require.Len(t, updates, 2)
	assert.Equal(t, "1885", updates[1][2])
	assert.Equal(t, "1", updates[1][3])
	assert.Equal(t, "0", updates[1][4])
}

func TestCSVJournalBadPath(t *testing.T) {
	t.Parallel()

	_, err := NewCSV(filepath.Join(t.TempDir(), "missing", "orders.csv"), "updates.csv")
	assert.Error(t, err)
}
