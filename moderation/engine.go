package moderation

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"sentinel-bot/model"
	infractions_db "sentinel-bot/utils/database/infractions"

	"github.com/jmoiron/sqlx"
)

// Durations at or above this are treated as "no time unit supplied" and the
// mute becomes permanent.
const maxMuteSeconds = 60 * 60 * 256

// ActionRequest describes one moderation action invocation.
type ActionRequest struct {
	GuildID   string
	ActorID   string // ignored when Automated is set
	TargetRef string // raw mention or ID string from the command surface
	Reason    string
	Automated bool // the bot itself is the actor
}

// ActionResult reports a completed action back to the command surface.
type ActionResult struct {
	InfractionID string
	Target       Identity
	Reason       string
	MuteSeconds  int64 // 0 for permanent or non-mute actions
}

// Engine orchestrates moderation actions: target resolution, authorization,
// durable infraction recording, platform enforcement, and — for timed mutes —
// handoff to the scheduler. The infraction insert is the durability point:
// everything after it can fail without rolling the record back.
type Engine struct {
	db        *sqlx.DB
	resolver  IdentityResolver
	ranks     RankProvider
	enforcer  Enforcer
	notifier  Notifier
	config    ConfigSource
	scheduler *MuteScheduler
	botUserID string
	now       func() time.Time
}

// NewEngine wires an engine over the store and its collaborators.
func NewEngine(db *sqlx.DB, resolver IdentityResolver, ranks RankProvider, enforcer Enforcer, notifier Notifier, config ConfigSource, scheduler *MuteScheduler, botUserID string) *Engine {
	return &Engine{
		db:        db,
		resolver:  resolver,
		ranks:     ranks,
		enforcer:  enforcer,
		notifier:  notifier,
		config:    config,
		scheduler: scheduler,
		botUserID: botUserID,
		now:       time.Now,
	}
}

// resolveAndAuthorize runs the validation half of the pipeline: resolve the
// target reference, then gate on the rank ordering. requireMember rejects
// non-member targets before anything is recorded.
func (e *Engine) resolveAndAuthorize(ctx context.Context, req ActionRequest, requireMember bool) (Identity, string, error) {
	target, err := e.resolver.Resolve(ctx, req.GuildID, req.TargetRef)
	if err != nil {
		return Identity{}, "", fmt.Errorf("failed to resolve target %q: %w", req.TargetRef, err)
	}
	if target == nil {
		return Identity{}, "", ErrTargetInvalid
	}
	if requireMember && !target.IsMember {
		return *target, "", ErrTargetAbsent
	}

	actorID := req.ActorID
	if req.Automated {
		actorID = e.botUserID
	}

	// The bot is never a valid target, and nobody disciplines themselves.
	if target.UserID == e.botUserID {
		return *target, actorID, &UnauthorizedError{Reason: DenySelfTarget}
	}

	actorRank, err := e.ranks.HighestRank(ctx, req.GuildID, actorID)
	if err != nil {
		return *target, actorID, fmt.Errorf("failed to get rank for actor %s: %w", actorID, err)
	}
	targetRank := 0
	if target.IsMember {
		targetRank, err = e.ranks.HighestRank(ctx, req.GuildID, target.UserID)
		if err != nil {
			return *target, actorID, fmt.Errorf("failed to get rank for target %s: %w", target.UserID, err)
		}
	}

	// The automated actor outranks everyone except the guard above.
	if !req.Automated {
		if decision := MayAct(actorRank, actorID, targetRank, target.UserID, target.IsMember); !decision.Allowed {
			return *target, actorID, &UnauthorizedError{Reason: decision.Reason}
		}
	} else if target.UserID == actorID {
		return *target, actorID, &UnauthorizedError{Reason: DenySelfTarget}
	}

	return *target, actorID, nil
}

// recordInfraction allocates a collision-free ID and durably inserts the
// infraction. An ID conflict on insert is resolved internally by
// re-allocating; the caller never sees it.
func (e *Engine) recordInfraction(guildID, userID, moderatorID, infractionType, reason string) (model.Infraction, error) {
	exists := func(id string) (bool, error) {
		return infractions_db.InfractionExists(e.db, guildID, id)
	}
	for {
		id, err := AllocateInfractionID(exists)
		if err != nil {
			return model.Infraction{}, err
		}
		record := model.NewInfraction(id, guildID, userID, moderatorID, infractionType, reason, e.now().Unix())
		err = infractions_db.AddInfraction(e.db, record)
		if err == nil {
			return record, nil
		}
		if errors.Is(err, infractions_db.ErrConflict) {
			log.Printf("Infraction ID %s collided on insert, re-allocating", id)
			continue
		}
		return model.Infraction{}, err
	}
}

func (e *Engine) notify(ctx context.Context, guildID string, notice InfractionNotice) {
	e.notifier.NotifySubject(ctx, guildID, notice)
	e.notifier.LogInfraction(ctx, guildID, notice)
}

// Warn records a warning infraction. Warnings work on any resolvable
// account, member or not; there is no platform effect to enforce.
func (e *Engine) Warn(ctx context.Context, req ActionRequest) (*ActionResult, error) {
	target, actorID, err := e.resolveAndAuthorize(ctx, req, false)
	if err != nil {
		return nil, err
	}

	record, err := e.recordInfraction(req.GuildID, target.UserID, actorID, model.InfractionWarn, req.Reason)
	if err != nil {
		return nil, err
	}

	e.notify(ctx, req.GuildID, InfractionNotice{
		InfractionID: record.InfractionID,
		UserID:       record.UserID,
		ModeratorID:  record.ModeratorID,
		Type:         record.Type,
		Reason:       record.Reason,
	})
	return &ActionResult{InfractionID: record.InfractionID, Target: target, Reason: record.Reason}, nil
}

// Kick records a kick infraction and removes the member from the guild. The
// subject is notified before the kick lands, while DMing them is still
// possible. An enforcement failure leaves the infraction in place.
func (e *Engine) Kick(ctx context.Context, req ActionRequest) (*ActionResult, error) {
	target, actorID, err := e.resolveAndAuthorize(ctx, req, true)
	if err != nil {
		return nil, err
	}

	record, err := e.recordInfraction(req.GuildID, target.UserID, actorID, model.InfractionKick, req.Reason)
	if err != nil {
		return nil, err
	}

	notice := InfractionNotice{
		InfractionID: record.InfractionID,
		UserID:       record.UserID,
		ModeratorID:  record.ModeratorID,
		Type:         record.Type,
		Reason:       record.Reason,
	}
	e.notifier.NotifySubject(ctx, req.GuildID, notice)

	result := &ActionResult{InfractionID: record.InfractionID, Target: target, Reason: record.Reason}
	if err := e.enforcer.Kick(ctx, req.GuildID, target.UserID, record.Reason); err != nil {
		return result, err
	}
	e.notifier.LogInfraction(ctx, req.GuildID, notice)
	return result, nil
}

// Ban records a ban infraction and bans the account. Bans work by raw ID on
// accounts that already left the guild; the rank gate only applies to
// members.
func (e *Engine) Ban(ctx context.Context, req ActionRequest) (*ActionResult, error) {
	target, actorID, err := e.resolveAndAuthorize(ctx, req, false)
	if err != nil {
		return nil, err
	}

	record, err := e.recordInfraction(req.GuildID, target.UserID, actorID, model.InfractionBan, req.Reason)
	if err != nil {
		return nil, err
	}

	notice := InfractionNotice{
		InfractionID: record.InfractionID,
		UserID:       record.UserID,
		ModeratorID:  record.ModeratorID,
		Type:         record.Type,
		Reason:       record.Reason,
	}
	if target.IsMember {
		e.notifier.NotifySubject(ctx, req.GuildID, notice)
	}

	result := &ActionResult{InfractionID: record.InfractionID, Target: target, Reason: record.Reason}
	if err := e.enforcer.Ban(ctx, req.GuildID, target.UserID, record.Reason); err != nil {
		return result, err
	}
	e.notifier.LogInfraction(ctx, req.GuildID, notice)
	return result, nil
}

// Unban lifts a ban. No infraction is recorded; the original ban stays in
// the history.
func (e *Engine) Unban(ctx context.Context, guildID, targetRef string) (*Identity, error) {
	target, err := e.resolver.Resolve(ctx, guildID, targetRef)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve target %q: %w", targetRef, err)
	}
	if target == nil {
		return nil, ErrTargetInvalid
	}

	if err := e.enforcer.Unban(ctx, guildID, target.UserID); err != nil {
		var enfErr *EnforcementError
		if errors.As(err, &enfErr) && enfErr.Kind == EnforceNotFound {
			return target, ErrNotBanned
		}
		return target, err
	}
	return target, nil
}

// Mute records a mute infraction, applies the guild's mute role, and — for a
// positive duration — registers a mute record and hands it to the scheduler.
// A zero duration is a permanent mute: the role is applied and the
// infraction recorded, but no expiry is ever scheduled. Durations of 256
// hours or more collapse to permanent.
func (e *Engine) Mute(ctx context.Context, req ActionRequest, durationSecs int64) (*ActionResult, error) {
	if durationSecs < 0 || durationSecs >= maxMuteSeconds {
		durationSecs = 0
	}

	target, actorID, err := e.resolveAndAuthorize(ctx, req, true)
	if err != nil {
		return nil, err
	}

	muteRole, err := e.config.GetConfig(req.GuildID, model.ConfigMuteRole)
	if err != nil {
		return nil, fmt.Errorf("failed to read mute role for guild %s: %w", req.GuildID, err)
	}
	if muteRole == "" {
		return nil, ErrConfigMissing
	}

	record, err := e.recordInfraction(req.GuildID, target.UserID, actorID, model.InfractionMute, req.Reason)
	if err != nil {
		return nil, err
	}

	result := &ActionResult{InfractionID: record.InfractionID, Target: target, Reason: record.Reason, MuteSeconds: durationSecs}
	if err := e.enforcer.AddRole(ctx, req.GuildID, target.UserID, muteRole); err != nil {
		return result, err
	}

	if durationSecs > 0 {
		// A re-mute supersedes any active mute for the same user: the old
		// record deactivates and its timer is cancelled, so there is never
		// more than one active mute per subject.
		superseded, err := infractions_db.DeactivateMutesByUser(e.db, req.GuildID, target.UserID)
		if err != nil {
			return result, err
		}
		for _, old := range superseded {
			e.scheduler.CancelEarly(old.InfractionID)
		}

		muteRecord := model.MuteRecord{
			InfractionID: record.InfractionID,
			GuildID:      req.GuildID,
			UserID:       target.UserID,
			ExpiresAt:    e.now().Unix() + durationSecs,
			Active:       true,
		}
		if err := infractions_db.UpsertMute(e.db, muteRecord); err != nil {
			return result, err
		}
		e.scheduler.Schedule(muteRecord)
	}

	e.notify(ctx, req.GuildID, InfractionNotice{
		InfractionID: record.InfractionID,
		UserID:       record.UserID,
		ModeratorID:  record.ModeratorID,
		Type:         record.Type,
		Reason:       record.Reason,
		Duration:     durationSecs,
	})
	return result, nil
}

// Unmute lifts a mute early: any active mute records for the subject
// deactivate, their timers cancel, and the mute role comes off. Racing a
// scheduled expiry is safe — whichever side flips the active flag first
// wins and the other is a no-op.
func (e *Engine) Unmute(ctx context.Context, guildID, targetRef string) (*Identity, error) {
	target, err := e.resolver.Resolve(ctx, guildID, targetRef)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve target %q: %w", targetRef, err)
	}
	if target == nil {
		return nil, ErrTargetInvalid
	}
	if !target.IsMember {
		return target, ErrTargetAbsent
	}

	deactivated, err := infractions_db.DeactivateMutesByUser(e.db, guildID, target.UserID)
	if err != nil {
		return target, err
	}
	for _, record := range deactivated {
		e.scheduler.CancelEarly(record.InfractionID)
	}

	muteRole, err := e.config.GetConfig(guildID, model.ConfigMuteRole)
	if err != nil {
		return target, fmt.Errorf("failed to read mute role for guild %s: %w", guildID, err)
	}
	if muteRole == "" {
		return target, ErrConfigMissing
	}

	if err := e.enforcer.RemoveRole(ctx, guildID, target.UserID, muteRole); err != nil {
		return target, err
	}
	return target, nil
}
