package bot

import (
	"log"
	"sync/atomic"

	"sentinel-bot/commands"
	"sentinel-bot/config"
	"sentinel-bot/model"
	"sentinel-bot/moderation"
	moddiscord "sentinel-bot/moderation/discord"

	"github.com/bwmarrin/discordgo"
	"github.com/jmoiron/sqlx"
)

// Bot ties the Discord session to the moderation core: the action engine,
// the mute scheduler, and the record store.
type Bot struct {
	Session            *discordgo.Session
	RegisteredCommands []*discordgo.ApplicationCommand
	CommandHandlers    map[string]func(s *discordgo.Session, i *discordgo.InteractionCreate)
	DB                 *sqlx.DB
	Engine             *moderation.Engine
	MuteScheduler      *moderation.MuteScheduler
	config             atomic.Value // *model.Config
	scheduler          *Scheduler
	done               chan struct{}
}

func (b *Bot) GetConfig() *model.Config {
	return b.config.Load().(*model.Config)
}

func (b *Bot) GetDB() *sqlx.DB {
	return b.DB
}

func (b *Bot) GetSession() *discordgo.Session {
	return b.Session
}

// New creates the bot, the session, and the moderation core wired over it.
func New(cfg *model.Config, db *sqlx.DB) (*Bot, error) {
	dg, err := discordgo.New("Bot " + cfg.BotToken)
	if err != nil {
		return nil, err
	}
	dg.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMembers | discordgo.IntentGuildModeration
	dg.StateEnabled = false

	configSource := &moderation.StoreConfig{DB: db}
	enforcer := &moddiscord.SessionEnforcer{Session: dg}
	muteScheduler := moderation.NewMuteScheduler(db, enforcer, configSource)
	engine := moderation.NewEngine(
		db,
		&moddiscord.SessionResolver{Session: dg},
		&moddiscord.SessionRanks{Session: dg},
		enforcer,
		&moddiscord.SessionNotifier{Session: dg, Config: configSource},
		configSource,
		muteScheduler,
		cfg.AppID,
	)

	b := &Bot{
		Session:       dg,
		DB:            db,
		Engine:        engine,
		MuteScheduler: muteScheduler,
		done:          make(chan struct{}),
	}
	b.config.Store(cfg)
	b.scheduler = NewScheduler(b)
	return b, nil
}

// Close shuts down the background scheduler, the live timer set, and the session.
func (b *Bot) Close() {
	log.Println("Gracefully shutting down.")
	close(b.done)
	b.scheduler.Stop()
	b.MuteScheduler.Stop()
	b.Session.Close()
}

// RefreshCommands overwrites the registered slash commands for one guild.
func (b *Bot) RefreshCommands(guildID string) {
	cmds := commands.Generate()
	log.Printf("Registering %d commands for guild %s...", len(cmds), guildID)
	registeredCmds, err := b.Session.ApplicationCommandBulkOverwrite(b.GetConfig().AppID, guildID, cmds)
	if err != nil {
		log.Printf("cannot update commands for guild '%s': %v", guildID, err)
		return
	}
	b.RegisteredCommands = append(b.RegisteredCommands, registeredCmds...)
}

// ReloadConfig builds a fresh configuration snapshot and swaps it in.
// Components always read through GetConfig, so a reload is never visible
// mid-operation.
func (b *Bot) ReloadConfig() error {
	log.Println("Reloading configuration...")
	newCfg, err := config.Load()
	if err != nil {
		log.Printf("Error reloading config: %v", err)
		return err
	}

	b.config.Store(newCfg)
	log.Println("Configuration reloaded successfully.")

	for _, guildID := range newCfg.GuildIDs {
		go b.RefreshCommands(guildID)
	}
	return nil
}
