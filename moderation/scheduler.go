package moderation

import (
	"context"
	"log"
	"sync"
	"time"

	"sentinel-bot/model"
	infractions_db "sentinel-bot/utils/database/infractions"

	"github.com/jmoiron/sqlx"
)

// MuteScheduler owns the live timers for active timed mutes. The timer set
// is a derived cache: the mutes table is the source of truth, and Restore
// rebuilds the set from it after a process restart. Each active mute has at
// most one live timer; scheduling again for the same infraction replaces the
// pending timer instead of duplicating it.
type MuteScheduler struct {
	db       *sqlx.DB
	enforcer Enforcer
	config   ConfigSource

	mu      sync.Mutex
	timers  map[string]*time.Timer
	stopped bool
	now     func() time.Time
}

// NewMuteScheduler creates a scheduler over the given store and collaborators.
func NewMuteScheduler(db *sqlx.DB, enforcer Enforcer, config ConfigSource) *MuteScheduler {
	return &MuteScheduler{
		db:       db,
		enforcer: enforcer,
		config:   config,
		timers:   make(map[string]*time.Timer),
		now:      time.Now,
	}
}

// Restore rebuilds the timer set from the store's active mute records.
// Records whose deadline passed while the process was down fire immediately.
func (ms *MuteScheduler) Restore() error {
	records, err := infractions_db.GetActiveMutes(ms.db)
	if err != nil {
		return err
	}
	for _, record := range records {
		ms.Schedule(record)
	}
	if len(records) > 0 {
		log.Printf("Restored %d active mute timer(s) from the database", len(records))
	}
	return nil
}

// Schedule registers a timer that unmutes the record's user at its deadline.
// A deadline at or before now fires immediately. A pending timer for the
// same infraction is replaced.
func (ms *MuteScheduler) Schedule(record model.MuteRecord) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	if ms.stopped {
		return
	}

	if existing, ok := ms.timers[record.InfractionID]; ok {
		existing.Stop()
		delete(ms.timers, record.InfractionID)
	}

	delay := time.Unix(record.ExpiresAt, 0).Sub(ms.now())
	if delay < 0 {
		delay = 0
	}
	ms.timers[record.InfractionID] = time.AfterFunc(delay, func() {
		ms.fire(record)
	})
}

// CancelEarly drops the pending timer for an infraction. Cancelling twice,
// or cancelling a mute that already fired, is a no-op: the active flag in
// the store decides the real winner, this only prevents a future fire.
func (ms *MuteScheduler) CancelEarly(infractionID string) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	if timer, ok := ms.timers[infractionID]; ok {
		timer.Stop()
		delete(ms.timers, infractionID)
	}
}

// HasTimer reports whether a live timer exists for an infraction. The
// periodic reconciliation sweep uses this to find active records whose
// timer was lost.
func (ms *MuteScheduler) HasTimer(infractionID string) bool {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	_, ok := ms.timers[infractionID]
	return ok
}

// Resync re-schedules any active mute record that has no live timer. It is a
// safety net behind Restore; under normal operation it finds nothing.
func (ms *MuteScheduler) Resync() error {
	records, err := infractions_db.GetActiveMutes(ms.db)
	if err != nil {
		return err
	}
	for _, record := range records {
		if !ms.HasTimer(record.InfractionID) {
			log.Printf("Mute %s for user %s had no live timer, re-scheduling", record.InfractionID, record.UserID)
			ms.Schedule(record)
		}
	}
	return nil
}

// Stop halts every pending timer. In-flight fires are not retracted; they
// resolve through the store's active flag like any other race.
func (ms *MuteScheduler) Stop() {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.stopped = true
	for id, timer := range ms.timers {
		timer.Stop()
		delete(ms.timers, id)
	}
}

// fire runs when a mute's deadline arrives. The conditional deactivation in
// the store is the single-writer gate: if an early unmute already flipped
// the flag this fire loses the race and does nothing, so the role removal
// happens at most once per mute.
func (ms *MuteScheduler) fire(record model.MuteRecord) {
	ms.mu.Lock()
	delete(ms.timers, record.InfractionID)
	ms.mu.Unlock()

	won, err := infractions_db.DeactivateMute(ms.db, record.InfractionID)
	if err != nil {
		log.Printf("Failed to deactivate mute %s: %v", record.InfractionID, err)
		return
	}
	if !won {
		return
	}

	muteRole, err := ms.config.GetConfig(record.GuildID, model.ConfigMuteRole)
	if err != nil || muteRole == "" {
		log.Printf("Warning: mute %s expired but no mute role is configured for guild %s", record.InfractionID, record.GuildID)
		return
	}

	// Role removal at expiry is best-effort: the mute is already marked
	// deactivated and a failure here is surfaced as a warning only.
	if err := ms.enforcer.RemoveRole(context.Background(), record.GuildID, record.UserID, muteRole); err != nil {
		log.Printf("Warning: failed to remove mute role from user %s in guild %s: %v", record.UserID, record.GuildID, err)
		return
	}
	log.Printf("Mute %s for user %s expired and was lifted", record.InfractionID, record.UserID)
}
