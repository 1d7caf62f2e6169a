package store

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of schema migrations.
// Each migration's version must be sequential starting from 1.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS airdrop_types (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	name          TEXT NOT NULL UNIQUE,
	default_tasks TEXT NOT NULL DEFAULT '[]',
	created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS airdrops (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	name            TEXT NOT NULL,
	url             TEXT NOT NULL DEFAULT '',
	airdrop_type_id INTEGER REFERENCES airdrop_types(id) ON DELETE SET NULL,
	chain           TEXT,
	wallet_address  TEXT,
	position        INTEGER NOT NULL DEFAULT 0,
	notes           TEXT,
	active          INTEGER NOT NULL DEFAULT 1 CHECK(active IN (0, 1)),
	created_at      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS airdrop_daily_tasks (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	airdrop_id INTEGER NOT NULL REFERENCES airdrops(id) ON DELETE CASCADE,
	title      TEXT NOT NULL,
	"order"    INTEGER NOT NULL DEFAULT 0,
	done_dates TEXT NOT NULL DEFAULT '[]',
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_airdrops_position ON airdrops(position);
CREATE INDEX IF NOT EXISTS idx_airdrop_daily_tasks_airdrop_id ON airdrop_daily_tasks(airdrop_id);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
	{
		// Rows written before positions were maintained may share a
		// position; renumber them densely in display order.
		version: 2,
		sql: `
UPDATE airdrops SET position = (
	SELECT r.rn FROM (
		SELECT id, ROW_NUMBER() OVER (ORDER BY position ASC, created_at ASC, id ASC) - 1 AS rn
		FROM airdrops
	) r
	WHERE r.id = airdrops.id
);

INSERT INTO schema_version (version) VALUES (2);
`,
	},
}
