package bot

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
)

// Run opens the gateway connection, registers commands, restores the mute
// timer set from the database, and blocks until the process is signalled.
func (b *Bot) Run() {
	if err := b.Session.Open(); err != nil {
		log.Fatalf("Error opening connection: %v", err)
	}

	log.Println("Registering commands for configured guilds...")
	b.RegisteredCommands = b.RegisteredCommands[:0]
	for _, guildID := range b.GetConfig().GuildIDs {
		b.RefreshCommands(guildID)
	}

	// Outstanding mutes survive restarts in the database; rebuild their
	// timers before accepting new work so past-due expiries fire right away.
	if err := b.MuteScheduler.Restore(); err != nil {
		log.Printf("Error restoring mute timers: %v", err)
	}

	b.scheduler.Start()

	fmt.Println("Bot is now running. Press CTRL-C to exit.")
	if logChannel := b.GetConfig().LogChannelID; logChannel != "" {
		if _, err := b.Session.ChannelMessageSend(logChannel, "Sentinel started."); err != nil {
			log.Printf("Error sending startup notice: %v", err)
		}
	}

	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc
}
