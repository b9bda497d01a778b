package infractions

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// Init opens the moderation database and ensures all necessary tables exist.
func Init(dbPath string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	infractionsSchema := `CREATE TABLE IF NOT EXISTS infractions (
	          infraction_id TEXT NOT NULL PRIMARY KEY,
	          guild_id TEXT NOT NULL,
	          user_id TEXT NOT NULL,
	          moderator_id TEXT NOT NULL,
	          type TEXT NOT NULL,
	          reason TEXT NOT NULL,
	          timestamp INTEGER NOT NULL
	      );`
	if _, err = db.Exec(infractionsSchema); err != nil {
		return nil, fmt.Errorf("failed to create infractions table: %w", err)
	}

	mutesSchema := `CREATE TABLE IF NOT EXISTS mutes (
	          infraction_id TEXT NOT NULL PRIMARY KEY,
	          guild_id TEXT NOT NULL,
	          user_id TEXT NOT NULL,
	          expires_at INTEGER NOT NULL,
	          active INTEGER NOT NULL DEFAULT 1
	      );`
	if _, err = db.Exec(mutesSchema); err != nil {
		return nil, fmt.Errorf("failed to create mutes table: %w", err)
	}

	guildConfigSchema := `CREATE TABLE IF NOT EXISTS guild_config (
	          guild_id TEXT NOT NULL,
	          property TEXT NOT NULL,
	          value TEXT NOT NULL,
	          PRIMARY KEY (guild_id, property)
	      );`
	if _, err = db.Exec(guildConfigSchema); err != nil {
		return nil, fmt.Errorf("failed to create guild_config table: %w", err)
	}

	return db, nil
}
