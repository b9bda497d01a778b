package moderation

import (
	"context"
	"errors"
	"fmt"
	"log"

	"sentinel-bot/bot"
	"sentinel-bot/moderation"
	"sentinel-bot/utils"
	infractions_db "sentinel-bot/utils/database/infractions"

	"github.com/bwmarrin/discordgo"
)

// optionMap indexes the interaction's options by name.
func optionMap(i *discordgo.InteractionCreate) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	options := i.ApplicationCommandData().Options
	m := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(options))
	for _, opt := range options {
		m[opt.Name] = opt
	}
	return m
}

func stringOption(opts map[string]*discordgo.ApplicationCommandInteractionDataOption, name string) string {
	if opt, ok := opts[name]; ok {
		return opt.StringValue()
	}
	return ""
}

// errorMessage maps the moderation error taxonomy onto user-facing text.
func errorMessage(action string, err error) string {
	var unauthorized *moderation.UnauthorizedError
	var enforcement *moderation.EnforcementError
	switch {
	case errors.Is(err, moderation.ErrTargetInvalid):
		return "Invalid user"
	case errors.Is(err, moderation.ErrTargetAbsent):
		return "User is not in this guild"
	case errors.Is(err, moderation.ErrConfigMissing):
		return "No mute role is configured, run /set-mute-role first"
	case errors.Is(err, moderation.ErrNotBanned):
		return "This user is not banned"
	case errors.As(err, &unauthorized):
		if unauthorized.Reason == moderation.DenySelfTarget {
			return fmt.Sprintf("You cannot %s yourself", action)
		}
		return fmt.Sprintf("Cannot %s a user with the same or higher role as yourself", action)
	case errors.As(err, &enforcement):
		switch enforcement.Kind {
		case moderation.EnforceForbidden:
			return fmt.Sprintf("The bot does not have permission to %s this user (the infraction was still recorded)", action)
		case moderation.EnforceNotFound:
			return "This user does not exist"
		}
		return "The platform request failed, the infraction was still recorded"
	case errors.Is(err, infractions_db.ErrStoreUnavailable):
		return "Database error, please try again later"
	}
	return "Something went wrong, please try again later"
}

// HandleWarn processes the /warn command.
func HandleWarn(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	if err := utils.DeferResponse(s, i, false); err != nil {
		log.Printf("Failed to defer interaction: %v", err)
		return
	}
	opts := optionMap(i)

	result, err := b.Engine.Warn(context.Background(), moderation.ActionRequest{
		GuildID:   i.GuildID,
		ActorID:   i.Member.User.ID,
		TargetRef: stringOption(opts, "user"),
		Reason:    stringOption(opts, "reason"),
	})
	if err != nil {
		utils.SendFollowUpError(s, i.Interaction, errorMessage("warn", err))
		return
	}
	utils.SendFollowUp(s, i.Interaction, fmt.Sprintf("Warned <@%s> for %s (infraction %s)", result.Target.UserID, result.Reason, result.InfractionID))
}

// HandleKick processes the /kick command.
func HandleKick(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	if err := utils.DeferResponse(s, i, false); err != nil {
		log.Printf("Failed to defer interaction: %v", err)
		return
	}
	opts := optionMap(i)

	result, err := b.Engine.Kick(context.Background(), moderation.ActionRequest{
		GuildID:   i.GuildID,
		ActorID:   i.Member.User.ID,
		TargetRef: stringOption(opts, "user"),
		Reason:    stringOption(opts, "reason"),
	})
	if err != nil {
		utils.SendFollowUpError(s, i.Interaction, errorMessage("kick", err))
		return
	}
	utils.SendFollowUp(s, i.Interaction, fmt.Sprintf("Kicked <@%s> for %s (infraction %s)", result.Target.UserID, result.Reason, result.InfractionID))
}

// HandleBan processes the /ban command.
func HandleBan(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	if err := utils.DeferResponse(s, i, false); err != nil {
		log.Printf("Failed to defer interaction: %v", err)
		return
	}
	opts := optionMap(i)

	result, err := b.Engine.Ban(context.Background(), moderation.ActionRequest{
		GuildID:   i.GuildID,
		ActorID:   i.Member.User.ID,
		TargetRef: stringOption(opts, "user"),
		Reason:    stringOption(opts, "reason"),
	})
	if err != nil {
		utils.SendFollowUpError(s, i.Interaction, errorMessage("ban", err))
		return
	}
	utils.SendFollowUp(s, i.Interaction, fmt.Sprintf("Banned <@%s> for %s (infraction %s)", result.Target.UserID, result.Reason, result.InfractionID))
}

// HandleUnban processes the /unban command.
func HandleUnban(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	if err := utils.DeferResponse(s, i, false); err != nil {
		log.Printf("Failed to defer interaction: %v", err)
		return
	}
	opts := optionMap(i)

	target, err := b.Engine.Unban(context.Background(), i.GuildID, stringOption(opts, "user"))
	if err != nil {
		utils.SendFollowUpError(s, i.Interaction, errorMessage("unban", err))
		return
	}
	utils.SendFollowUp(s, i.Interaction, fmt.Sprintf("Unbanned <@%s>", target.UserID))
}

// HandleMute processes the /mute command.
func HandleMute(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	if err := utils.DeferResponse(s, i, false); err != nil {
		log.Printf("Failed to defer interaction: %v", err)
		return
	}
	opts := optionMap(i)
	durationSecs := utils.ParseMuteDuration(stringOption(opts, "duration"))

	result, err := b.Engine.Mute(context.Background(), moderation.ActionRequest{
		GuildID:   i.GuildID,
		ActorID:   i.Member.User.ID,
		TargetRef: stringOption(opts, "user"),
		Reason:    stringOption(opts, "reason"),
	}, durationSecs)
	if err != nil {
		utils.SendFollowUpError(s, i.Interaction, errorMessage("mute", err))
		return
	}

	if result.MuteSeconds > 0 {
		utils.SendFollowUp(s, i.Interaction, fmt.Sprintf("Muted <@%s> for %ds for %s (infraction %s)", result.Target.UserID, result.MuteSeconds, result.Reason, result.InfractionID))
	} else {
		utils.SendFollowUp(s, i.Interaction, fmt.Sprintf("Muted <@%s> for %s (infraction %s)", result.Target.UserID, result.Reason, result.InfractionID))
	}
}

// HandleUnmute processes the /unmute command.
func HandleUnmute(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	if err := utils.DeferResponse(s, i, false); err != nil {
		log.Printf("Failed to defer interaction: %v", err)
		return
	}
	opts := optionMap(i)

	target, err := b.Engine.Unmute(context.Background(), i.GuildID, stringOption(opts, "user"))
	if err != nil {
		utils.SendFollowUpError(s, i.Interaction, errorMessage("unmute", err))
		return
	}
	utils.SendFollowUp(s, i.Interaction, fmt.Sprintf("Unmuted <@%s>", target.UserID))
}
