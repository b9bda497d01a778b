package model

// MuteRecord represents an active timed mute in the database, keyed by the
// infraction that created it. The database table is named 'mutes'.
// At most one active record exists per user per guild; registering a new
// timed mute supersedes any previous one.
type MuteRecord struct {
	InfractionID string `db:"infraction_id"` // Primary key
	GuildID      string `db:"guild_id"`
	UserID       string `db:"user_id"`
	ExpiresAt    int64  `db:"expires_at"` // Unix seconds; the absolute unmute deadline
	Active       bool   `db:"active"`
}

// Guild config property names read by the moderation core. The rows live in
// the guild_config table and are written by the administration commands.
const (
	ConfigMuteRole      = "mute-role"
	ConfigInfractionLog = "infraction-log"
)

// GuildConfigEntry is one property row of a guild's configuration.
type GuildConfigEntry struct {
	GuildID  string `db:"guild_id"`
	Property string `db:"property"`
	Value    string `db:"value"`
}
