package moderation

import (
	infractions_db "sentinel-bot/utils/database/infractions"

	"github.com/jmoiron/sqlx"
)

// StoreConfig reads per-guild configuration properties from the guild_config
// table. The moderation core only reads; the administration commands own the
// writes.
type StoreConfig struct {
	DB *sqlx.DB
}

func (c *StoreConfig) GetConfig(guildID, property string) (string, error) {
	return infractions_db.GetGuildConfig(c.DB, guildID, property)
}
