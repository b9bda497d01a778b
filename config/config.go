package config

import (
	"fmt"
	"log"
	"strings"

	"sentinel-bot/model"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load builds the configuration snapshot from the environment and the
// optional config.yaml. The result is immutable; callers swap in a fresh
// snapshot to reload.
func Load() (*model.Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: .env file not found, relying on environment variables")
	}

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("DB_PATH", "data/sentinel.db")
	v.SetDefault("STATS_INTERVAL_MIN", 60)
	v.SetDefault("MUTE_RESYNC_SECS", 300)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("data")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		log.Println("Info: no config.yaml found, using environment only")
	}

	token := v.GetString("BOT_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("BOT_TOKEN environment variable not set")
	}
	appID := v.GetString("APP_ID")
	if appID == "" {
		return nil, fmt.Errorf("APP_ID environment variable not set")
	}

	logChannelID := v.GetString("LOG_CHANNEL_ID")
	if logChannelID == "" {
		log.Println("Warning: LOG_CHANNEL_ID not set, startup logging will be disabled")
	}

	cfg := &model.Config{
		BotToken:         token,
		AppID:            appID,
		DBPath:           v.GetString("DB_PATH"),
		LogChannelID:     logChannelID,
		DeveloperUserIDs: splitList(v.GetString("DEVELOPER_USER_IDS")),
		GuildIDs:         splitList(v.GetString("GUILD_IDS")),
		StatsIntervalMin: v.GetInt("STATS_INTERVAL_MIN"),
		MuteResyncSecs:   v.GetInt("MUTE_RESYNC_SECS"),
	}

	if err := v.UnmarshalKey("stats_channels", &cfg.StatsChannels); err != nil {
		return nil, fmt.Errorf("failed to parse stats_channels: %w", err)
	}

	return cfg, nil
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
