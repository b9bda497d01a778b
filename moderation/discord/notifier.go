package discord

import (
	"context"
	"fmt"
	"log"
	"time"

	"sentinel-bot/model"
	"sentinel-bot/moderation"

	"github.com/bwmarrin/discordgo"
)

const embedColor = 0x758cff

// SessionNotifier posts infraction notices to the guild's configured log
// channel and to the subject's DMs. Both deliveries are best-effort:
// failures are logged and swallowed, never propagated.
type SessionNotifier struct {
	Session *discordgo.Session
	Config  moderation.ConfigSource
}

func durationField(secs int64) string {
	if secs <= 0 {
		return ""
	}
	return (time.Duration(secs) * time.Second).String()
}

// LogInfraction sends the infraction embed to the guild's infraction-log
// channel, if one is configured.
func (n *SessionNotifier) LogInfraction(ctx context.Context, guildID string, inf moderation.InfractionNotice) {
	channelID, err := n.Config.GetConfig(guildID, model.ConfigInfractionLog)
	if err != nil {
		log.Printf("Error reading infraction log channel for guild %s: %v", guildID, err)
		return
	}
	if channelID == "" {
		return
	}

	embed := &discordgo.MessageEmbed{
		Title:       "Sentinel",
		Description: fmt.Sprintf("New infraction for <@%s>:", inf.UserID),
		Color:       embedColor,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Infraction ID", Value: inf.InfractionID},
			{Name: "Moderator", Value: fmt.Sprintf("<@%s>", inf.ModeratorID)},
			{Name: "User", Value: fmt.Sprintf("<@%s>", inf.UserID)},
			{Name: "Type", Value: inf.Type},
			{Name: "Reason", Value: inf.Reason},
		},
		Timestamp: time.Now().Format(time.RFC3339),
	}
	if d := durationField(inf.Duration); d != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Duration", Value: d})
	}

	if _, err := n.Session.ChannelMessageSendEmbed(channelID, embed, discordgo.WithContext(ctx)); err != nil {
		log.Printf("Error sending infraction log to channel %s: %v", channelID, err)
	}
}

// NotifySubject DMs the subject about their infraction. Users with DMs
// closed simply do not get the notice.
func (n *SessionNotifier) NotifySubject(ctx context.Context, guildID string, inf moderation.InfractionNotice) {
	guildName := guildID
	if guild, err := n.Session.Guild(guildID, discordgo.WithContext(ctx)); err == nil {
		guildName = guild.Name
	}

	embed := &discordgo.MessageEmbed{
		Title:       "Sentinel",
		Description: fmt.Sprintf("Your punishment in %s has been updated:", guildName),
		Color:       embedColor,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Infraction ID", Value: inf.InfractionID},
			{Name: "Type", Value: inf.Type},
			{Name: "Reason", Value: inf.Reason},
		},
		Timestamp: time.Now().Format(time.RFC3339),
	}
	if d := durationField(inf.Duration); d != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Duration", Value: d})
	}

	channel, err := n.Session.UserChannelCreate(inf.UserID, discordgo.WithContext(ctx))
	if err != nil {
		log.Printf("Error creating private channel with user %s: %v", inf.UserID, err)
		return
	}
	if _, err := n.Session.ChannelMessageSendEmbed(channel.ID, embed, discordgo.WithContext(ctx)); err != nil {
		log.Printf("Error sending infraction DM to user %s: %v", inf.UserID, err)
	}
}
