package defs

import "github.com/bwmarrin/discordgo"

// User targets are plain strings (mention or raw ID) rather than user
// options so bans and unbans keep working on accounts that already left
// the guild.

var Warn = &discordgo.ApplicationCommand{
	Name:        "warn",
	Description: "Warn a user",
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "user",
			Description: "User mention or ID",
			Required:    true,
		},
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "reason",
			Description: "Reason for the warning",
			Required:    false,
		},
	},
}

var Kick = &discordgo.ApplicationCommand{
	Name:        "kick",
	Description: "Kick a user from the guild",
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "user",
			Description: "User mention or ID",
			Required:    true,
		},
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "reason",
			Description: "Reason for the kick",
			Required:    false,
		},
	},
}

var Ban = &discordgo.ApplicationCommand{
	Name:        "ban",
	Description: "Ban a user",
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "user",
			Description: "User mention or ID",
			Required:    true,
		},
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "reason",
			Description: "Reason for the ban",
			Required:    false,
		},
	},
}

var Unban = &discordgo.ApplicationCommand{
	Name:        "unban",
	Description: "Unban a user",
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "user",
			Description: "User mention or ID",
			Required:    true,
		},
	},
}

var Mute = &discordgo.ApplicationCommand{
	Name:        "mute",
	Description: "Mute a user, permanently unless a duration is given",
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "user",
			Description: "User mention or ID",
			Required:    true,
		},
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "duration",
			Description: "Mute duration, e.g. 30s, 10m, 2h (no unit = seconds)",
			Required:    false,
		},
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "reason",
			Description: "Reason for the mute",
			Required:    false,
		},
	},
}

var Unmute = &discordgo.ApplicationCommand{
	Name:        "unmute",
	Description: "Unmute a user",
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "user",
			Description: "User mention or ID",
			Required:    true,
		},
	},
}

var SearchInfractions = &discordgo.ApplicationCommand{
	Name:        "search-infractions",
	Description: "Search a user's or moderator's infraction history",
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "user",
			Description: "Filter by punished user (mention or ID)",
			Required:    false,
		},
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "moderator",
			Description: "Filter by responsible moderator (mention or ID)",
			Required:    false,
		},
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "type",
			Description: "Filter by infraction type",
			Required:    false,
			Choices: []*discordgo.ApplicationCommandOptionChoice{
				{Name: "warn", Value: "warn"},
				{Name: "kick", Value: "kick"},
				{Name: "ban", Value: "ban"},
				{Name: "mute", Value: "mute"},
			},
		},
		{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "page",
			Description: "Result page",
			Required:    false,
		},
		{
			Type:        discordgo.ApplicationCommandOptionBoolean,
			Name:        "no-automod",
			Description: "Hide automated infractions",
			Required:    false,
		},
	},
}

var InfractionDetails = &discordgo.ApplicationCommand{
	Name:        "infraction-details",
	Description: "Show the details of one infraction",
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "id",
			Description: "Infraction ID",
			Required:    true,
		},
	},
}

var DeleteInfraction = &discordgo.ApplicationCommand{
	Name:        "delete-infraction",
	Description: "Delete an infraction by ID (administrator only)",
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "id",
			Description: "Infraction ID",
			Required:    true,
		},
	},
}
