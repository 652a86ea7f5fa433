package main

import "database/sql"

// dbVersion is the persistence format version. Clients store it next to
// their local snapshot; a mismatch on startup makes them refetch the server
// copy. Bump it whenever a migration changes the meaning of stored fields.
const dbVersion = 1

func ensureSchema(db *sql.DB) error {

	// 1️⃣ users table
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			user_id TEXT PRIMARY KEY,
			username TEXT NOT NULL DEFAULT '',
			score BIGINT NOT NULL DEFAULT 0,
			level INT NOT NULL DEFAULT 0,
			currency BIGINT NOT NULL DEFAULT 0,
			active_skin TEXT NOT NULL DEFAULT 'stardust_emblem',
			has_free_chest BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
	`)
	if err != nil {
		return err
	}

	// 2️⃣ owned upgrade levels
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS user_upgrades (
			user_id TEXT NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			level INT NOT NULL DEFAULT 0,
			PRIMARY KEY (user_id, name)
		);
	`)
	if err != nil {
		return err
	}

	// 3️⃣ owned skins
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS user_skins (
			user_id TEXT NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			PRIMARY KEY (user_id, name)
		);
	`)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_users_score ON users (score DESC);
	`)
	return err
}
