package tasks

import (
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"sentinel-bot/model"
	infractions_db "sentinel-bot/utils/database/infractions"

	"github.com/bwmarrin/discordgo"
	"github.com/jmoiron/sqlx"
)

// GenerateInfractionStatsEmbed builds the per-moderator infraction leaderboard
// for the given window.
func GenerateInfractionStatsEmbed(db *sqlx.DB, targetGuildID string, duration time.Duration) (*discordgo.MessageEmbed, error) {
	since := time.Now().Add(-duration)
	stats, err := infractions_db.GetModeratorStats(db, targetGuildID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to get moderator stats for guild %s: %w", targetGuildID, err)
	}

	total, err := infractions_db.GetInfractionCount(db, targetGuildID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to get infraction count for guild %s: %w", targetGuildID, err)
	}

	sortedModerators := make([]string, 0, len(stats))
	for moderatorID := range stats {
		sortedModerators = append(sortedModerators, moderatorID)
	}
	sort.Slice(sortedModerators, func(i, j int) bool {
		return stats[sortedModerators[i]] > stats[sortedModerators[j]]
	})

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("### Infractions in the last %s\n", duration.String()))
	builder.WriteString(fmt.Sprintf("**Total: %d**\n\n", total))
	builder.WriteString("**By moderator:**\n")
	for i, moderatorID := range sortedModerators {
		builder.WriteString(fmt.Sprintf("%d. <@%s>: %d\n", i+1, moderatorID, stats[moderatorID]))
	}

	return &discordgo.MessageEmbed{
		Title:       "Infraction Statistics",
		Description: builder.String(),
		Timestamp:   time.Now().Format(time.RFC3339),
		Color:       0x00ff00,
	}, nil
}

// UpdateInfractionStats sends or edits the stats message for one configured
// channel.
func UpdateInfractionStats(b model.Bot, config model.StatsChannel, duration time.Duration) {
	s := b.GetSession()
	embed, err := GenerateInfractionStatsEmbed(b.GetDB(), config.TargetGuildID, duration)
	if err != nil {
		log.Printf("Failed to generate infraction stats embed: %v", err)
		return
	}

	if config.MessageID == "" {
		if _, err := s.ChannelMessageSendEmbed(config.ChannelID, embed); err != nil {
			log.Printf("Failed to send infraction stats message to channel %s: %v", config.ChannelID, err)
		}
		return
	}
	if _, err := s.ChannelMessageEditEmbed(config.ChannelID, config.MessageID, embed); err != nil {
		log.Printf("Failed to edit infraction stats message %s in channel %s: %v", config.MessageID, config.ChannelID, err)
	}
}
