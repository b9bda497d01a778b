package discord

import (
	"context"
	"errors"
	"net/http"

	"sentinel-bot/moderation"

	"github.com/bwmarrin/discordgo"
)

// SessionEnforcer performs the platform effects of moderation actions.
type SessionEnforcer struct {
	Session *discordgo.Session
}

// classify wraps a platform error as a typed enforcement failure.
func classify(err error) error {
	if err == nil {
		return nil
	}
	kind := moderation.EnforceTransport
	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) && restErr.Response != nil {
		switch restErr.Response.StatusCode {
		case http.StatusForbidden:
			kind = moderation.EnforceForbidden
		case http.StatusNotFound:
			kind = moderation.EnforceNotFound
		}
	}
	return &moderation.EnforcementError{Kind: kind, Err: err}
}

func (e *SessionEnforcer) Kick(ctx context.Context, guildID, userID, reason string) error {
	return classify(e.Session.GuildMemberDeleteWithReason(guildID, userID, reason, discordgo.WithContext(ctx)))
}

func (e *SessionEnforcer) Ban(ctx context.Context, guildID, userID, reason string) error {
	return classify(e.Session.GuildBanCreateWithReason(guildID, userID, reason, 0, discordgo.WithContext(ctx)))
}

func (e *SessionEnforcer) Unban(ctx context.Context, guildID, userID string) error {
	return classify(e.Session.GuildBanDelete(guildID, userID, discordgo.WithContext(ctx)))
}

func (e *SessionEnforcer) AddRole(ctx context.Context, guildID, userID, roleID string) error {
	return classify(e.Session.GuildMemberRoleAdd(guildID, userID, roleID, discordgo.WithContext(ctx)))
}

func (e *SessionEnforcer) RemoveRole(ctx context.Context, guildID, userID, roleID string) error {
	return classify(e.Session.GuildMemberRoleRemove(guildID, userID, roleID, discordgo.WithContext(ctx)))
}
