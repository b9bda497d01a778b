package moderation

import (
	"errors"
	"fmt"
	"log"
	"time"

	"sentinel-bot/bot"
	"sentinel-bot/utils"
	infractions_db "sentinel-bot/utils/database/infractions"

	"sentinel-bot/model"

	"github.com/bwmarrin/discordgo"
)

const embedColor = 0x758cff
const deleteEmbedColor = 0xd62d20

func isAdministrator(i *discordgo.InteractionCreate) bool {
	return i.Member != nil && i.Member.Permissions&discordgo.PermissionAdministrator != 0
}

func infractionEmbed(title string, color int, record *model.Infraction) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       title,
		Description: fmt.Sprintf("Infraction for <@%s>:", record.UserID),
		Color:       color,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Infraction ID", Value: record.InfractionID},
			{Name: "Moderator", Value: fmt.Sprintf("<@%s>", record.ModeratorID)},
			{Name: "Type", Value: record.Type},
			{Name: "Reason", Value: record.Reason},
		},
		Timestamp: time.Unix(record.Timestamp, 0).UTC().Format(time.RFC3339),
	}
}

// HandleInfractionDetails processes the /infraction-details command.
func HandleInfractionDetails(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	if err := utils.DeferResponse(s, i, false); err != nil {
		log.Printf("Failed to defer interaction: %v", err)
		return
	}
	opts := optionMap(i)

	record, err := infractions_db.GetInfraction(b.GetDB(), i.GuildID, stringOption(opts, "id"))
	if err != nil {
		if errors.Is(err, infractions_db.ErrNotFound) {
			utils.SendFollowUpError(s, i.Interaction, "Infraction ID does not exist")
		} else {
			utils.SendFollowUpError(s, i.Interaction, "Database error, please try again later")
		}
		return
	}
	utils.SendFollowUpEmbed(s, i.Interaction, infractionEmbed("Infraction Search", embedColor, record), nil)
}

// HandleDeleteInfraction processes the /delete-infraction command. Deleting
// history is the one mutation allowed on infractions and is restricted to
// administrators.
func HandleDeleteInfraction(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	if !isAdministrator(i) {
		utils.SendErrorResponse(s, i, "Insufficient permissions")
		return
	}
	if err := utils.DeferResponse(s, i, false); err != nil {
		log.Printf("Failed to defer interaction: %v", err)
		return
	}
	opts := optionMap(i)
	infractionID := stringOption(opts, "id")

	record, err := infractions_db.GetInfraction(b.GetDB(), i.GuildID, infractionID)
	if err != nil {
		if errors.Is(err, infractions_db.ErrNotFound) {
			utils.SendFollowUpError(s, i.Interaction, "Infraction ID does not exist")
		} else {
			utils.SendFollowUpError(s, i.Interaction, "Database error, please try again later")
		}
		return
	}

	deleted, err := infractions_db.DeleteInfraction(b.GetDB(), i.GuildID, infractionID)
	if err != nil {
		utils.SendFollowUpError(s, i.Interaction, "Database error, please try again later")
		return
	}
	if !deleted {
		utils.SendFollowUpError(s, i.Interaction, "Infraction ID does not exist")
		return
	}
	utils.SendFollowUpEmbed(s, i.Interaction, infractionEmbed("Infraction Deleted", deleteEmbedColor, record), nil)
}

// HandleSetMuteRole processes the /set-mute-role command.
func HandleSetMuteRole(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	if !isAdministrator(i) {
		utils.SendErrorResponse(s, i, "Insufficient permissions")
		return
	}
	opts := optionMap(i)
	roleID := opts["role"].RoleValue(nil, "").ID

	if err := infractions_db.SetGuildConfig(b.GetDB(), i.GuildID, model.ConfigMuteRole, roleID); err != nil {
		log.Printf("Error setting mute role for guild %s: %v", i.GuildID, err)
		utils.SendErrorResponse(s, i, "Database error, please try again later")
		return
	}
	utils.SendPublicResponse(s, i, fmt.Sprintf("Mute role set to <@&%s>", roleID))
}

// HandleSetInfractionLog processes the /set-infraction-log command.
func HandleSetInfractionLog(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	if !isAdministrator(i) {
		utils.SendErrorResponse(s, i, "Insufficient permissions")
		return
	}
	opts := optionMap(i)
	// State is disabled, so resolve the channel through the API to verify
	// it belongs to this guild.
	channel, err := s.Channel(opts["channel"].ChannelValue(nil).ID)
	if err != nil || channel == nil {
		utils.SendErrorResponse(s, i, "Channel is not a valid channel")
		return
	}
	if channel.GuildID != i.GuildID {
		utils.SendErrorResponse(s, i, "Channel is not in guild")
		return
	}

	if err := infractions_db.SetGuildConfig(b.GetDB(), i.GuildID, model.ConfigInfractionLog, channel.ID); err != nil {
		log.Printf("Error setting infraction log for guild %s: %v", i.GuildID, err)
		utils.SendErrorResponse(s, i, "Database error, please try again later")
		return
	}
	utils.SendPublicResponse(s, i, fmt.Sprintf("Infraction log set to <#%s>", channel.ID))
}
