package model

// Infraction types. The automated system actor records the same types as a
// human moderator.
const (
	InfractionWarn = "warn"
	InfractionKick = "kick"
	InfractionBan  = "ban"
	InfractionMute = "mute"
)

// MaxReasonLength bounds the stored reason text.
const MaxReasonLength = 1024

// DefaultReason is recorded when a moderator supplies no reason.
const DefaultReason = "No Reason Specified"

// Infraction represents a single disciplinary record in the database.
// The database table is named 'infractions'. Records are immutable after
// creation; only an explicit administrator delete removes one.
type Infraction struct {
	InfractionID string `db:"infraction_id"` // Primary key, generated token
	GuildID      string `db:"guild_id"`
	UserID       string `db:"user_id"`
	ModeratorID  string `db:"moderator_id"`
	Type         string `db:"type"` // warn, kick, ban, mute
	Reason       string `db:"reason"`
	Timestamp    int64  `db:"timestamp"` // Unix seconds
}

// NewInfraction builds an infraction record, applying the reason bounds.
func NewInfraction(id, guildID, userID, moderatorID, infractionType, reason string, timestamp int64) Infraction {
	return Infraction{
		InfractionID: id,
		GuildID:      guildID,
		UserID:       userID,
		ModeratorID:  moderatorID,
		Type:         infractionType,
		Reason:       TruncateReason(reason),
		Timestamp:    timestamp,
	}
}

// TruncateReason bounds reason text to MaxReasonLength runes and substitutes
// the default when empty.
func TruncateReason(reason string) string {
	if reason == "" {
		return DefaultReason
	}
	runes := []rune(reason)
	if len(runes) > MaxReasonLength {
		return string(runes[:MaxReasonLength])
	}
	return reason
}

// ValidInfractionType reports whether t is one of the known infraction types.
func ValidInfractionType(t string) bool {
	switch t {
	case InfractionWarn, InfractionKick, InfractionBan, InfractionMute:
		return true
	}
	return false
}
