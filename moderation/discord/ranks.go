package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// SessionRanks derives an account's rank from its most senior role position.
type SessionRanks struct {
	Session *discordgo.Session
}

// HighestRank returns the highest role position held by the member, or zero
// for members with no roles and for accounts that are not members.
func (r *SessionRanks) HighestRank(ctx context.Context, guildID, userID string) (int, error) {
	member, err := r.Session.GuildMember(guildID, userID, discordgo.WithContext(ctx))
	if err != nil {
		if isNotFound(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to fetch member %s: %w", userID, err)
	}

	roles, err := r.Session.GuildRoles(guildID, discordgo.WithContext(ctx))
	if err != nil {
		return 0, fmt.Errorf("failed to fetch roles for guild %s: %w", guildID, err)
	}

	positions := make(map[string]int, len(roles))
	for _, role := range roles {
		positions[role.ID] = role.Position
	}

	highest := 0
	for _, roleID := range member.Roles {
		if pos, ok := positions[roleID]; ok && pos > highest {
			highest = pos
		}
	}
	return highest, nil
}
