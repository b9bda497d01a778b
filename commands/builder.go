package commands

import (
	"sentinel-bot/commands/defs"

	"github.com/bwmarrin/discordgo"
)

// Generate returns the full slash-command set registered per guild.
func Generate() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		defs.Warn,
		defs.Kick,
		defs.Ban,
		defs.Unban,
		defs.Mute,
		defs.Unmute,
		defs.SearchInfractions,
		defs.InfractionDetails,
		defs.DeleteInfraction,
		defs.SetMuteRole,
		defs.SetInfractionLog,
		defs.SystemInfo,
	}
}
