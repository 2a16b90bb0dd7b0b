package journal

const Schema = `
CREATE TABLE IF NOT EXISTS orders (
	id TEXT PRIMARY KEY,
	ticket INTEGER NOT NULL,
	symbol TEXT NOT NULL,
	side TEXT NOT NULL,
	kind TEXT NOT NULL,
	volume REAL NOT NULL,
	entry_price REAL NOT NULL,
	stop_loss REAL NOT NULL,
	take_profit REAL NOT NULL,
	expiration DATETIME NOT NULL,
	created_at DATETIME NOT NULL,
	raw_text TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS sl_updates (
	id TEXT PRIMARY KEY,
	symbol TEXT NOT NULL,
	new_stop_loss REAL NOT NULL,
	modified INTEGER NOT NULL,
	failed INTEGER NOT NULL,
	time DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_orders_created ON orders(created_at);
CREATE INDEX IF NOT EXISTS idx_sl_updates_time ON sl_updates(time);
`
