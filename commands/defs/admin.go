package defs

import "github.com/bwmarrin/discordgo"

var SetMuteRole = &discordgo.ApplicationCommand{
	Name:        "set-mute-role",
	Description: "Set the role applied by mutes in this guild",
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionRole,
			Name:        "role",
			Description: "The mute role",
			Required:    true,
		},
	},
}

var SetInfractionLog = &discordgo.ApplicationCommand{
	Name:        "set-infraction-log",
	Description: "Set the channel that receives infraction log messages",
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionChannel,
			Name:        "channel",
			Description: "The log channel",
			Required:    true,
			ChannelTypes: []discordgo.ChannelType{
				discordgo.ChannelTypeGuildText,
			},
		},
	},
}

var SystemInfo = &discordgo.ApplicationCommand{
	Name:        "system-info",
	Description: "Display bot and system status information",
}
