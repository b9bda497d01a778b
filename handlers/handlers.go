package handlers

import (
	"log"
	"strings"

	"sentinel-bot/bot"
	modhandlers "sentinel-bot/handlers/moderation"

	"github.com/bwmarrin/discordgo"
)

// Register wires the command handler table and the gateway event handlers.
func Register(b *bot.Bot) {
	b.CommandHandlers = commandHandlers(b)
	addHandlers(b)
}

func commandHandlers(b *bot.Bot) map[string]func(s *discordgo.Session, i *discordgo.InteractionCreate) {
	return map[string]func(s *discordgo.Session, i *discordgo.InteractionCreate){
		"warn": func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			modhandlers.HandleWarn(s, i, b)
		},
		"kick": func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			modhandlers.HandleKick(s, i, b)
		},
		"ban": func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			modhandlers.HandleBan(s, i, b)
		},
		"unban": func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			modhandlers.HandleUnban(s, i, b)
		},
		"mute": func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			modhandlers.HandleMute(s, i, b)
		},
		"unmute": func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			modhandlers.HandleUnmute(s, i, b)
		},
		"search-infractions": func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			modhandlers.HandleSearch(s, i, b)
		},
		"infraction-details": func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			modhandlers.HandleInfractionDetails(s, i, b)
		},
		"delete-infraction": func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			modhandlers.HandleDeleteInfraction(s, i, b)
		},
		"set-mute-role": func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			modhandlers.HandleSetMuteRole(s, i, b)
		},
		"set-infraction-log": func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			modhandlers.HandleSetInfractionLog(s, i, b)
		},
		"system-info": func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			SystemInfoHandler(s, i, b)
		},
	}
}

func addHandlers(b *bot.Bot) {
	b.Session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		log.Printf("Logged in as: %v#%v", r.User.Username, r.User.Discriminator)
	})
	b.Session.AddHandler(func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		handleInteractionCreate(s, i, b)
	})
}

func handleInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		if h, ok := b.CommandHandlers[i.ApplicationCommandData().Name]; ok {
			h(s, i)
		}
	case discordgo.InteractionMessageComponent:
		customID := i.MessageComponentData().CustomID
		if strings.HasPrefix(customID, modhandlers.SearchCustomIDPrefix+":") {
			modhandlers.HandleSearchPage(s, i, b)
		}
	}
}
