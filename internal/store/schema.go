package store

import "github.com/rshade/ecoquest/internal/migration"

// Migrations returns the schema history in any order; the migrator sorts it.
func Migrations() []migration.Migration {
	return []migration.Migration{
		{
			Version:     "1.0.0",
			Description: "users, categories and activities",
			SQL: `
CREATE TABLE IF NOT EXISTS users (
	id TEXT PRIMARY KEY,
	email TEXT NOT NULL DEFAULT '',
	username TEXT NOT NULL DEFAULT '',
	total_carbon_kg REAL NOT NULL DEFAULT 0,
	total_points INTEGER NOT NULL DEFAULT 0,
	daily_target_kg REAL NOT NULL DEFAULT 10,
	created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS categories (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL UNIQUE COLLATE NOCASE
);

CREATE TABLE IF NOT EXISTS activities (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	category_id INTEGER NOT NULL REFERENCES categories(id),
	activity_type TEXT NOT NULL,
	activity_date TEXT NOT NULL,
	carbon_kg REAL NOT NULL,
	points INTEGER NOT NULL,
	details_json TEXT NOT NULL DEFAULT '{}',
	created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_activities_user_date ON activities(user_id, activity_date);
`,
		},
		{
			Version:     "1.1.0",
			Description: "seed default categories",
			SQL: `
INSERT OR IGNORE INTO categories (id, name) VALUES
	(1, 'Transportation'),
	(2, 'Food'),
	(3, 'Home Energy'),
	(4, 'Shopping');
`,
		},
	}
}
