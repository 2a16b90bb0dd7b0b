package journal

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/signalcopy/pkg/id"
)

func newTestSQLite(t *testing.T) *SQLite {
	t.Helper()
	j, err := NewSQLite(filepath.Join(t.TempDir(), "journal.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { j.Close() })
	return j
}

func TestSQLiteSchema(t *testing.T) {
	t.Parallel()

	j := newTestSQLite(t)

	rows, err := j.db.Query(`SELECT name FROM sqlite_master WHERE type = 'table'`)
	require.NoError(t, err)
	defer rows.Close()

	tables := map[string]bool{}
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		tables[name] = true
	}
	require.NoError(t, rows.Err())

	assert.True(t, tables["orders"])
	assert.True(t, tables["sl_updates"])
}

func TestSQLiteRecordOrder(t *testing.T) {
	t.Parallel()

	j := newTestSQLite(t)

	now := time.Now().UTC().Truncate(time.Second)
	rec := OrderRecord{
		ID:         id.New(),
		Ticket:     1001,
		Symbol:     "XAUUSD",
		Side:       "long",
		Kind:       "buy_limit",
		Volume:     0.01,
		EntryPrice: 1900,
		StopLoss:   1890,
		TakeProfit: 1950,
		Expiration: now.Add(4 * time.Hour),
		CreatedAt:  now,
		RawText:    "GOLD BUY @1900 SL 1890",
	}
	require.NoError(t, j.RecordOrder(rec))

	var (
		ticket     int64
		kind, text string
		entry      float64
	)
	err := j.db.QueryRow(`SELECT ticket, kind, entry_price, raw_text FROM orders WHERE id = ?`, rec.ID).
		Scan(&ticket, &kind, &entry, &text)
	require.NoError(t, err)
	assert.Equal(t, int64(1001), ticket)
	assert.Equal(t, "buy_limit", kind)
	assert.Equal(t, 1900.0, entry)
	assert.Equal(t, rec.RawText, text)
}

func TestSQLiteRecordSLUpdate(t *testing.T) {
	t.Parallel()

	j := newTestSQLite(t)

	rec := SLUpdateRecord{
		ID:          id.New(),
		Symbol:      "XAUUSD",
		NewStopLoss: 1885,
		Modified:    2,
		Failed:      1,
		Time:        time.Now().UTC(),
	}
	require.NoError(t, j.RecordSLUpdate(rec))

	var (
		sl               float64
		modified, failed int
	)
	err := j.db.QueryRow(`SELECT new_stop_loss, modified, failed FROM sl_updates WHERE id = ?`, rec.ID).
		Scan(&sl, &modified, &failed)
	require.NoError(t, err)
	assert.Equal(t, 1885.0, sl)
	assert.Equal(t, 2, modified)
	assert.Equal(t, 1, failed)
}

func TestSQLiteDuplicateID(t *testing.T) {
	t.Parallel()

	j := newTestSQLite(t)

	rec := OrderRecord{ID: id.New(), Ticket: 1, Symbol: "XAUUSD"}
	require.NoError(t, j.RecordOrder(rec))
	assert.Error(t, j.RecordOrder(rec))
}
