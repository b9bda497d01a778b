package moderation

import "context"

// Identity is a resolved account reference.
type Identity struct {
	UserID   string
	Username string
	IsMember bool
}

// IdentityResolver turns a raw mention or ID string into a resolved account.
// A reference that parses but matches no known account resolves to nil.
type IdentityResolver interface {
	Resolve(ctx context.Context, guildID, ref string) (*Identity, error)
}

// RankProvider reports an account's highest role position within a guild.
// Accounts that are not members, or members with no roles, rank zero.
type RankProvider interface {
	HighestRank(ctx context.Context, guildID, userID string) (int, error)
}

// Enforcer performs the platform-side effect of a moderation action. Every
// method returns nil on success or an *EnforcementError.
type Enforcer interface {
	Kick(ctx context.Context, guildID, userID, reason string) error
	Ban(ctx context.Context, guildID, userID, reason string) error
	Unban(ctx context.Context, guildID, userID string) error
	AddRole(ctx context.Context, guildID, userID, roleID string) error
	RemoveRole(ctx context.Context, guildID, userID, roleID string) error
}

// Notifier delivers best-effort notices about a recorded infraction. All
// failures are handled inside the implementation; the engine never blocks an
// action on a notification.
type Notifier interface {
	// LogInfraction announces the infraction in the guild's configured log channel.
	LogInfraction(ctx context.Context, guildID string, inf InfractionNotice)
	// NotifySubject sends the subject a direct notice about the infraction.
	NotifySubject(ctx context.Context, guildID string, inf InfractionNotice)
}

// InfractionNotice carries what the notifier needs to render a notice.
type InfractionNotice struct {
	InfractionID string
	UserID       string
	ModeratorID  string
	Type         string
	Reason       string
	Duration     int64 // mute seconds, 0 otherwise
}

// ConfigSource exposes read access to per-guild configuration properties.
type ConfigSource interface {
	GetConfig(guildID, property string) (string, error)
}
