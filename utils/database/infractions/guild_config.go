package infractions

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

// SetGuildConfig stores one property row for a guild, replacing any previous value.
func SetGuildConfig(db *sqlx.DB, guildID, property, value string) error {
	query := "REPLACE INTO guild_config (guild_id, property, value) VALUES (?, ?, ?)"
	if _, err := db.Exec(query, guildID, property, value); err != nil {
		return classify("set guild config "+property, err)
	}
	return nil
}

// GetGuildConfig retrieves one property value for a guild. A missing row
// comes back as an empty string, not an error; only storage failure errors.
func GetGuildConfig(db *sqlx.DB, guildID, property string) (string, error) {
	var value string
	query := "SELECT value FROM guild_config WHERE guild_id = ? AND property = ?"
	err := db.Get(&value, query, guildID, property)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", classify("get guild config "+property, err)
	}
	return value, nil
}
