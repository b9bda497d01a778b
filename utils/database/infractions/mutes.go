package infractions

import (
	"sentinel-bot/model"

	"github.com/jmoiron/sqlx"
)

// UpsertMute inserts or replaces the mute record for an infraction.
func UpsertMute(db *sqlx.DB, record model.MuteRecord) error {
	query := `REPLACE INTO mutes (infraction_id, guild_id, user_id, expires_at, active)
			  VALUES (:infraction_id, :guild_id, :user_id, :expires_at, :active)`

	if _, err := db.NamedExec(query, record); err != nil {
		return classify("upsert mute "+record.InfractionID, err)
	}
	return nil
}

// GetMute retrieves the mute record for an infraction.
func GetMute(db *sqlx.DB, infractionID string) (*model.MuteRecord, error) {
	var record model.MuteRecord
	query := "SELECT * FROM mutes WHERE infraction_id = ?"
	if err := db.Get(&record, query, infractionID); err != nil {
		return nil, classify("get mute "+infractionID, err)
	}
	return &record, nil
}

// GetActiveMuteByUser retrieves the active mute record for a user in a guild,
// or ErrNotFound when none exists.
func GetActiveMuteByUser(db *sqlx.DB, guildID, userID string) (*model.MuteRecord, error) {
	var record model.MuteRecord
	query := "SELECT * FROM mutes WHERE guild_id = ? AND user_id = ? AND active = 1"
	if err := db.Get(&record, query, guildID, userID); err != nil {
		return nil, classify("get active mute for user "+userID, err)
	}
	return &record, nil
}

// GetActiveMutes retrieves every active mute record. The scheduler rebuilds
// its timer set from this at startup.
func GetActiveMutes(db *sqlx.DB) ([]model.MuteRecord, error) {
	var records []model.MuteRecord
	query := "SELECT * FROM mutes WHERE active = 1"
	if err := db.Select(&records, query); err != nil {
		return nil, classify("get active mutes", err)
	}
	return records, nil
}

// DeactivateMute clears the active flag on a mute record. The conditional
// update is the single-writer gate between a scheduled expiry and an early
// unmute: only the caller that observes the flag set wins the transition,
// everyone else gets false and must treat the mute as already handled.
func DeactivateMute(db *sqlx.DB, infractionID string) (bool, error) {
	result, err := db.Exec("UPDATE mutes SET active = 0 WHERE infraction_id = ? AND active = 1", infractionID)
	if err != nil {
		return false, classify("deactivate mute "+infractionID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, classify("deactivate mute "+infractionID, err)
	}
	return rowsAffected > 0, nil
}

// DeactivateMutesByUser clears every active mute for a user in a guild and
// returns the records that were deactivated so their timers can be cancelled.
func DeactivateMutesByUser(db *sqlx.DB, guildID, userID string) ([]model.MuteRecord, error) {
	var records []model.MuteRecord
	query := "SELECT * FROM mutes WHERE guild_id = ? AND user_id = ? AND active = 1"
	if err := db.Select(&records, query, guildID, userID); err != nil {
		return nil, classify("get active mutes for user "+userID, err)
	}

	deactivated := make([]model.MuteRecord, 0, len(records))
	for _, record := range records {
		won, err := DeactivateMute(db, record.InfractionID)
		if err != nil {
			return deactivated, err
		}
		if won {
			deactivated = append(deactivated, record)
		}
	}
	return deactivated, nil
}
