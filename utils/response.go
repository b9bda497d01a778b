package utils

import (
	"log"

	"github.com/bwmarrin/discordgo"
)

// SendErrorResponse sends an ephemeral error message.
func SendErrorResponse(s *discordgo.Session, i *discordgo.InteractionCreate, message string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: "❌ " + message,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Printf("Error sending error response: %v", err)
	}
}

// SendPublicResponse sends a plain channel-visible response.
func SendPublicResponse(s *discordgo.Session, i *discordgo.InteractionCreate, message string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: message,
		},
	})
	if err != nil {
		log.Printf("Error sending public response: %v", err)
	}
}

// DeferResponse defers an interaction response, optionally making it ephemeral.
func DeferResponse(s *discordgo.Session, i *discordgo.InteractionCreate, ephemeral bool) error {
	response := &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	}
	if ephemeral {
		response.Data = &discordgo.InteractionResponseData{
			Flags: discordgo.MessageFlagsEphemeral,
		}
	}
	return s.InteractionRespond(i.Interaction, response)
}

// SendFollowUp replaces a deferred response with the final message text.
func SendFollowUp(s *discordgo.Session, i *discordgo.Interaction, message string) {
	_, err := s.InteractionResponseEdit(i, &discordgo.WebhookEdit{
		Content: &message,
	})
	if err != nil {
		log.Printf("Error sending follow-up message: %v", err)
	}
}

// SendFollowUpError replaces a deferred response with an error message.
func SendFollowUpError(s *discordgo.Session, i *discordgo.Interaction, message string) {
	errorMsg := "❌ " + message
	_, err := s.InteractionResponseEdit(i, &discordgo.WebhookEdit{
		Content: &errorMsg,
	})
	if err != nil {
		log.Printf("Error sending follow-up error message: %v", err)
	}
}

// SendFollowUpEmbed replaces a deferred response with an embed, optionally
// with message components attached.
func SendFollowUpEmbed(s *discordgo.Session, i *discordgo.Interaction, embed *discordgo.MessageEmbed, components []discordgo.MessageComponent) {
	embeds := []*discordgo.MessageEmbed{embed}
	edit := &discordgo.WebhookEdit{Embeds: &embeds}
	if components != nil {
		edit.Components = &components
	}
	if _, err := s.InteractionResponseEdit(i, edit); err != nil {
		log.Printf("Error sending follow-up embed: %v", err)
	}
}
