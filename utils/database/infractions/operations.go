package infractions

import (
	"time"

	"sentinel-bot/model"

	"github.com/jmoiron/sqlx"
)

// AddInfraction inserts a new infraction record. The primary key constraint
// on infraction_id is the authoritative collision guard: a duplicate ID
// fails with ErrConflict and nothing is written.
func AddInfraction(db *sqlx.DB, record model.Infraction) error {
	query := `INSERT INTO infractions (infraction_id, guild_id, user_id, moderator_id, type, reason, timestamp)
			  VALUES (:infraction_id, :guild_id, :user_id, :moderator_id, :type, :reason, :timestamp)`

	_, err := db.NamedExec(query, record)
	if err != nil {
		return classify("insert infraction "+record.InfractionID, err)
	}
	return nil
}

// GetInfraction retrieves a single infraction by its ID within a guild.
func GetInfraction(db *sqlx.DB, guildID, infractionID string) (*model.Infraction, error) {
	var record model.Infraction
	query := "SELECT * FROM infractions WHERE guild_id = ? AND infraction_id = ?"
	if err := db.Get(&record, query, guildID, infractionID); err != nil {
		return nil, classify("get infraction "+infractionID, err)
	}
	return &record, nil
}

// InfractionExists reports whether an infraction ID is already taken in a guild.
func InfractionExists(db *sqlx.DB, guildID, infractionID string) (bool, error) {
	var count int
	query := "SELECT COUNT(*) FROM infractions WHERE guild_id = ? AND infraction_id = ?"
	if err := db.Get(&count, query, guildID, infractionID); err != nil {
		return false, classify("check infraction "+infractionID, err)
	}
	return count > 0, nil
}

// DeleteInfraction removes an infraction record. Returns false without error
// if no such record existed.
func DeleteInfraction(db *sqlx.DB, guildID, infractionID string) (bool, error) {
	result, err := db.Exec("DELETE FROM infractions WHERE guild_id = ? AND infraction_id = ?", guildID, infractionID)
	if err != nil {
		return false, classify("delete infraction "+infractionID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, classify("delete infraction "+infractionID, err)
	}
	return rowsAffected > 0, nil
}

// GetGuildInfractions retrieves all infraction records for a guild, unordered.
func GetGuildInfractions(db *sqlx.DB, guildID string) ([]model.Infraction, error) {
	var records []model.Infraction
	query := "SELECT * FROM infractions WHERE guild_id = ?"
	if err := db.Select(&records, query, guildID); err != nil {
		return nil, classify("get infractions for guild "+guildID, err)
	}
	return records, nil
}

// GetUserInfractions retrieves all infractions recorded against a user in a guild.
func GetUserInfractions(db *sqlx.DB, guildID, userID string) ([]model.Infraction, error) {
	var records []model.Infraction
	query := "SELECT * FROM infractions WHERE guild_id = ? AND user_id = ?"
	if err := db.Select(&records, query, guildID, userID); err != nil {
		return nil, classify("get infractions for user "+userID, err)
	}
	return records, nil
}

// GetModeratorInfractions retrieves all infractions issued by a moderator in a guild.
func GetModeratorInfractions(db *sqlx.DB, guildID, moderatorID string) ([]model.Infraction, error) {
	var records []model.Infraction
	query := "SELECT * FROM infractions WHERE guild_id = ? AND moderator_id = ?"
	if err := db.Select(&records, query, guildID, moderatorID); err != nil {
		return nil, classify("get infractions for moderator "+moderatorID, err)
	}
	return records, nil
}

// GetModeratorStats retrieves the infraction count per moderator within a time range.
func GetModeratorStats(db *sqlx.DB, guildID string, since time.Time) (map[string]int, error) {
	query := `SELECT moderator_id, COUNT(*) as count FROM infractions
			  WHERE guild_id = ? AND timestamp >= ? GROUP BY moderator_id`
	rows, err := db.Query(query, guildID, since.Unix())
	if err != nil {
		return nil, classify("get moderator stats for guild "+guildID, err)
	}
	defer rows.Close()

	stats := make(map[string]int)
	for rows.Next() {
		var moderatorID string
		var count int
		if err := rows.Scan(&moderatorID, &count); err != nil {
			return nil, classify("scan moderator stats row", err)
		}
		stats[moderatorID] = count
	}
	return stats, nil
}

// GetInfractionCount retrieves the total number of infractions within a time range.
func GetInfractionCount(db *sqlx.DB, guildID string, since time.Time) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM infractions WHERE guild_id = ? AND timestamp >= ?`
	if err := db.Get(&count, query, guildID, since.Unix()); err != nil {
		return 0, classify("get infraction count for guild "+guildID, err)
	}
	return count, nil
}
