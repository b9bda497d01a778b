package bot

import (
	"log"
	"sync"
	"time"

	"sentinel-bot/tasks"
)

// Scheduler manages the bot's periodic background tasks: the mute
// reconciliation sweep and the infraction statistics refresh.
type Scheduler struct {
	bot  *Bot
	done chan struct{}
	wg   sync.WaitGroup
}

// NewScheduler creates a new scheduler.
func NewScheduler(bot *Bot) *Scheduler {
	return &Scheduler{
		bot:  bot,
		done: make(chan struct{}),
	}
}

// Start begins all scheduled tasks.
func (s *Scheduler) Start() {
	s.wg.Add(2)
	go s.runMuteResync()
	go s.runStatsUpdates()
}

// Stop terminates all scheduled tasks gracefully.
func (s *Scheduler) Stop() {
	log.Println("Stopping scheduler...")
	close(s.done)
	s.wg.Wait()
	log.Println("Scheduler stopped.")
}

// runMuteResync periodically re-schedules any active mute record that lost
// its timer. Restore at startup already covers the normal path; this sweep
// is the safety net behind it.
func (s *Scheduler) runMuteResync() {
	defer s.wg.Done()

	interval := time.Duration(s.bot.GetConfig().MuteResyncSecs) * time.Second
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := s.bot.MuteScheduler.Resync(); err != nil {
				log.Printf("Error during mute resync: %v", err)
			}
		case <-s.done:
			return
		}
	}
}

// runStatsUpdates refreshes the configured infraction statistics messages.
func (s *Scheduler) runStatsUpdates() {
	defer s.wg.Done()

	interval := time.Duration(s.bot.GetConfig().StatsIntervalMin) * time.Minute
	if interval <= 0 || len(s.bot.GetConfig().StatsChannels) == 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			log.Println("Updating infraction stats...")
			for _, channelConfig := range s.bot.GetConfig().StatsChannels {
				go tasks.UpdateInfractionStats(s.bot, channelConfig, interval)
			}
		case <-s.done:
			return
		}
	}
}
