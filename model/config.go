package model

// StatsChannel configures one periodic infraction statistics message.
type StatsChannel struct {
	TargetGuildID string `mapstructure:"target_guild_id" json:"target_guild_id"`
	ChannelID     string `mapstructure:"channel_id" json:"channel_id"`
	MessageID     string `mapstructure:"message_id" json:"message_id"`
}

// Config stores the application configuration. It is an immutable snapshot;
// reload builds a new value and swaps it in, never mutates in place.
type Config struct {
	BotToken         string
	AppID            string
	DBPath           string
	LogChannelID     string
	DeveloperUserIDs []string
	GuildIDs         []string
	StatsChannels    []StatsChannel
	StatsIntervalMin int // minutes between stats refreshes, 0 disables
	MuteResyncSecs   int // seconds between mute reconciliation sweeps
}
