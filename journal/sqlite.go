package journal

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLite{db: db}, nil
}

func (j *SQLite) RecordOrder(r OrderRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO orders
		(id, ticket, symbol, side, kind, volume, entry_price, stop_loss, take_profit, expiration, created_at, raw_text)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Ticket, r.Symbol, r.Side, r.Kind, r.Volume,
		r.EntryPrice, r.StopLoss, r.TakeProfit, r.Expiration, r.CreatedAt, r.RawText,
	)
	return err
}

func (j *SQLite) RecordSLUpdate(r SLUpdateRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO sl_updates
		(id, symbol, new_stop_loss, modified, failed, time)
		VALUES (?, ?, ?, ?, ?, ?)`,
		r.ID, r.Symbol, r.NewStopLoss, r.Modified, r.Failed, r.Time,
	)
	return err
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
