// Package discord implements the moderation collaborator interfaces on top
// of a discordgo session.
package discord

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"sentinel-bot/moderation"

	"github.com/bwmarrin/discordgo"
)

// ParseUserRef strips mention decoration from a raw user reference and
// returns the bare snowflake, or false if the reference is not an ID at all.
func ParseUserRef(ref string) (string, bool) {
	id := strings.Trim(ref, "<@!>")
	if id == "" {
		return "", false
	}
	for _, r := range id {
		if r < '0' || r > '9' {
			return "", false
		}
	}
	return id, true
}

func isNotFound(err error) bool {
	var restErr *discordgo.RESTError
	return errors.As(err, &restErr) && restErr.Response != nil && restErr.Response.StatusCode == http.StatusNotFound
}

// SessionResolver resolves user references against the live guild and the
// global user directory.
type SessionResolver struct {
	Session *discordgo.Session
}

// Resolve looks the reference up as a guild member first, then as a bare
// user for accounts that are not in the guild. Unknown accounts resolve to
// nil without error.
func (r *SessionResolver) Resolve(ctx context.Context, guildID, ref string) (*moderation.Identity, error) {
	userID, ok := ParseUserRef(ref)
	if !ok {
		return nil, nil
	}

	member, err := r.Session.GuildMember(guildID, userID, discordgo.WithContext(ctx))
	if err == nil {
		return &moderation.Identity{UserID: member.User.ID, Username: member.User.Username, IsMember: true}, nil
	}
	if !isNotFound(err) {
		return nil, fmt.Errorf("failed to fetch member %s: %w", userID, err)
	}

	user, err := r.Session.User(userID, discordgo.WithContext(ctx))
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch user %s: %w", userID, err)
	}
	return &moderation.Identity{UserID: user.ID, Username: user.Username, IsMember: false}, nil
}
