package moderation

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"sentinel-bot/model"
	infractions_db "sentinel-bot/utils/database/infractions"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testGuild = "guild-1"
	testBotID = "bot-1"
)

type engineFixture struct {
	*Engine
	enforcer  *fakeEnforcer
	notifier  *fakeNotifier
	scheduler *MuteScheduler
}

func newEngineFixture(t *testing.T) *engineFixture {
	t.Helper()
	db := newTestDB(t)
	resolver := &fakeResolver{identities: map[string]*Identity{
		"junior":   {UserID: "junior", Username: "Junior", IsMember: true},
		"peer":     {UserID: "peer", Username: "Peer", IsMember: true},
		"senior":   {UserID: "senior", Username: "Senior", IsMember: true},
		"mod":      {UserID: "mod", Username: "Mod", IsMember: true},
		"outsider": {UserID: "outsider", Username: "Outsider", IsMember: false},
		testBotID:  {UserID: testBotID, Username: "Bot", IsMember: true},
	}}
	ranks := &fakeRanks{ranks: map[string]int{
		"junior": 1,
		"peer":   5,
		"senior": 9,
		"mod":    5,
	}}
	enforcer := &fakeEnforcer{}
	notifier := &fakeNotifier{}
	config := &fakeConfig{values: map[string]string{
		testGuild + "/" + model.ConfigMuteRole: "role-muted",
	}}
	scheduler := NewMuteScheduler(db, enforcer, config)
	t.Cleanup(scheduler.Stop)

	engine := NewEngine(db, resolver, ranks, enforcer, notifier, config, scheduler, testBotID)
	engine.now = func() time.Time { return time.Unix(1_700_000_000, 0) }
	return &engineFixture{Engine: engine, enforcer: enforcer, notifier: notifier, scheduler: scheduler}
}

func request(target, reason string) ActionRequest {
	return ActionRequest{GuildID: testGuild, ActorID: "mod", TargetRef: target, Reason: reason}
}

func TestWarnRecordsInfraction(t *testing.T) {
	f := newEngineFixture(t)

	result, err := f.Warn(context.Background(), request("junior", "spamming"))
	require.NoError(t, err)
	assert.Len(t, result.InfractionID, idLength)
	assert.Equal(t, "junior", result.Target.UserID)

	stored, err := infractions_db.GetInfraction(f.db, testGuild, result.InfractionID)
	require.NoError(t, err)
	assert.Equal(t, model.InfractionWarn, stored.Type)
	assert.Equal(t, "mod", stored.ModeratorID)
	assert.Equal(t, "spamming", stored.Reason)
	assert.Equal(t, int64(1_700_000_000), stored.Timestamp)

	require.Len(t, f.notifier.logged, 1)
	require.Len(t, f.notifier.dmed, 1)
	assert.Equal(t, result.InfractionID, f.notifier.logged[0].InfractionID)
}

func TestWarnDefaultsEmptyReason(t *testing.T) {
	f := newEngineFixture(t)

	result, err := f.Warn(context.Background(), request("junior", ""))
	require.NoError(t, err)
	assert.Equal(t, model.DefaultReason, result.Reason)
}

func TestWarnTruncatesLongReason(t *testing.T) {
	f := newEngineFixture(t)

	result, err := f.Warn(context.Background(), request("junior", strings.Repeat("a", 3000)))
	require.NoError(t, err)
	assert.Len(t, result.Reason, model.MaxReasonLength)
}

func TestWarnWorksOnNonMember(t *testing.T) {
	f := newEngineFixture(t)

	result, err := f.Warn(context.Background(), request("outsider", "evading"))
	require.NoError(t, err)
	assert.False(t, result.Target.IsMember)
}

func TestWarnDeniesUnknownTarget(t *testing.T) {
	f := newEngineFixture(t)

	_, err := f.Warn(context.Background(), request("nobody", "x"))
	assert.ErrorIs(t, err, ErrTargetInvalid)
}

func TestWarnRankGate(t *testing.T) {
	f := newEngineFixture(t)

	for _, target := range []string{"peer", "senior"} {
		_, err := f.Warn(context.Background(), request(target, "x"))
		var unauth *UnauthorizedError
		require.ErrorAs(t, err, &unauth, "target %s", target)
		assert.Equal(t, DenyInsufficientRank, unauth.Reason)
	}

	count, err := infractions_db.GetInfractionCount(f.db, testGuild, time.Unix(0, 0))
	require.NoError(t, err)
	assert.Zero(t, count, "denied actions must record nothing")
}

func TestWarnDeniesSelfTarget(t *testing.T) {
	f := newEngineFixture(t)

	_, err := f.Warn(context.Background(), request("mod", "x"))
	var unauth *UnauthorizedError
	require.ErrorAs(t, err, &unauth)
	assert.Equal(t, DenySelfTarget, unauth.Reason)
}

func TestWarnDeniesBotTarget(t *testing.T) {
	f := newEngineFixture(t)

	_, err := f.Warn(context.Background(), request(testBotID, "x"))
	var unauth *UnauthorizedError
	require.ErrorAs(t, err, &unauth)
	assert.Equal(t, DenySelfTarget, unauth.Reason)
}

func TestAutomatedWarnBypassesRank(t *testing.T) {
	f := newEngineFixture(t)

	result, err := f.Warn(context.Background(), ActionRequest{
		GuildID:   testGuild,
		TargetRef: "senior",
		Reason:    "[AUTOMOD] banned phrase",
		Automated: true,
	})
	require.NoError(t, err)

	stored, err := infractions_db.GetInfraction(f.db, testGuild, result.InfractionID)
	require.NoError(t, err)
	assert.Equal(t, testBotID, stored.ModeratorID)
}

func TestKickRequiresMember(t *testing.T) {
	f := newEngineFixture(t)

	_, err := f.Kick(context.Background(), request("outsider", "x"))
	assert.ErrorIs(t, err, ErrTargetAbsent)
	assert.Empty(t, f.enforcer.callLog())
}

func TestKickNotifiesBeforeRemoval(t *testing.T) {
	f := newEngineFixture(t)

	result, err := f.Kick(context.Background(), request("junior", "trolling"))
	require.NoError(t, err)

	assert.Equal(t, []string{"kick:junior"}, f.enforcer.callLog())
	require.Len(t, f.notifier.dmed, 1)
	assert.Equal(t, result.InfractionID, f.notifier.dmed[0].InfractionID)
}

func TestKickEnforcementFailureKeepsRecord(t *testing.T) {
	f := newEngineFixture(t)
	f.enforcer.fail = map[string]error{"kick": &EnforcementError{Kind: EnforceForbidden, Err: errors.New("missing permissions")}}

	result, err := f.Kick(context.Background(), request("junior", "x"))
	var enfErr *EnforcementError
	require.ErrorAs(t, err, &enfErr)
	assert.Equal(t, EnforceForbidden, enfErr.Kind)

	require.NotNil(t, result)
	_, err = infractions_db.GetInfraction(f.db, testGuild, result.InfractionID)
	assert.NoError(t, err, "the record is the durability point and survives enforcement failure")
	assert.Empty(t, f.notifier.logged)
}

func TestBanWorksOnNonMemberWithoutDM(t *testing.T) {
	f := newEngineFixture(t)

	result, err := f.Ban(context.Background(), request("outsider", "raid account"))
	require.NoError(t, err)
	assert.Equal(t, []string{"ban:outsider"}, f.enforcer.callLog())
	assert.Empty(t, f.notifier.dmed, "non-members are unreachable by DM")
	require.Len(t, f.notifier.logged, 1)
	assert.Equal(t, result.InfractionID, f.notifier.logged[0].InfractionID)
}

func TestBanDMsMemberTargets(t *testing.T) {
	f := newEngineFixture(t)

	_, err := f.Ban(context.Background(), request("junior", "x"))
	require.NoError(t, err)
	assert.Len(t, f.notifier.dmed, 1)
}

func TestUnbanNotBanned(t *testing.T) {
	f := newEngineFixture(t)
	f.enforcer.fail = map[string]error{"unban": &EnforcementError{Kind: EnforceNotFound, Err: errors.New("unknown ban")}}

	_, err := f.Unban(context.Background(), testGuild, "outsider")
	assert.ErrorIs(t, err, ErrNotBanned)
}

func TestUnbanRecordsNoInfraction(t *testing.T) {
	f := newEngineFixture(t)

	target, err := f.Unban(context.Background(), testGuild, "outsider")
	require.NoError(t, err)
	assert.Equal(t, "outsider", target.UserID)

	count, err := infractions_db.GetInfractionCount(f.db, testGuild, time.Unix(0, 0))
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestMuteWithoutRoleConfigured(t *testing.T) {
	f := newEngineFixture(t)
	f.config.(*fakeConfig).values = map[string]string{}

	_, err := f.Mute(context.Background(), request("junior", "x"), 600)
	assert.ErrorIs(t, err, ErrConfigMissing)

	count, countErr := infractions_db.GetInfractionCount(f.db, testGuild, time.Unix(0, 0))
	require.NoError(t, countErr)
	assert.Zero(t, count, "config failure is detected before anything is recorded")
}

func TestTimedMute(t *testing.T) {
	f := newEngineFixture(t)

	result, err := f.Mute(context.Background(), request("junior", "flooding"), 3600)
	require.NoError(t, err)
	assert.Equal(t, int64(3600), result.MuteSeconds)
	assert.Equal(t, []string{"addrole:junior:role-muted"}, f.enforcer.callLog())

	record, err := infractions_db.GetMute(f.db, result.InfractionID)
	require.NoError(t, err)
	assert.True(t, record.Active)
	assert.Equal(t, int64(1_700_000_000+3600), record.ExpiresAt)
	assert.True(t, f.scheduler.HasTimer(result.InfractionID))
}

func TestPermanentMuteSchedulesNothing(t *testing.T) {
	f := newEngineFixture(t)

	result, err := f.Mute(context.Background(), request("junior", "x"), 0)
	require.NoError(t, err)
	assert.Zero(t, result.MuteSeconds)
	assert.False(t, f.scheduler.HasTimer(result.InfractionID))

	_, err = infractions_db.GetMute(f.db, result.InfractionID)
	assert.ErrorIs(t, err, infractions_db.ErrNotFound, "permanent mutes have no expiry record")
}

func TestOverlongMuteCollapsesToPermanent(t *testing.T) {
	f := newEngineFixture(t)

	result, err := f.Mute(context.Background(), request("junior", "x"), 60*60*256)
	require.NoError(t, err)
	assert.Zero(t, result.MuteSeconds)
	assert.False(t, f.scheduler.HasTimer(result.InfractionID))
}

func TestRemuteSupersedesActiveMute(t *testing.T) {
	f := newEngineFixture(t)

	first, err := f.Mute(context.Background(), request("junior", "first"), 3600)
	require.NoError(t, err)
	second, err := f.Mute(context.Background(), request("junior", "second"), 7200)
	require.NoError(t, err)

	assert.False(t, f.scheduler.HasTimer(first.InfractionID))
	assert.True(t, f.scheduler.HasTimer(second.InfractionID))

	old, err := infractions_db.GetMute(f.db, first.InfractionID)
	require.NoError(t, err)
	assert.False(t, old.Active)

	active, err := infractions_db.GetActiveMuteByUser(f.db, testGuild, "junior")
	require.NoError(t, err)
	assert.Equal(t, second.InfractionID, active.InfractionID)
}

func TestUnmuteLiftsActiveMute(t *testing.T) {
	f := newEngineFixture(t)

	muted, err := f.Mute(context.Background(), request("junior", "x"), 3600)
	require.NoError(t, err)

	_, err = f.Unmute(context.Background(), testGuild, "junior")
	require.NoError(t, err)

	assert.False(t, f.scheduler.HasTimer(muted.InfractionID))
	record, err := infractions_db.GetMute(f.db, muted.InfractionID)
	require.NoError(t, err)
	assert.False(t, record.Active)
	assert.Contains(t, f.enforcer.callLog(), "removerole:junior:role-muted")
}

func TestUnmuteRequiresMember(t *testing.T) {
	f := newEngineFixture(t)

	_, err := f.Unmute(context.Background(), testGuild, "outsider")
	assert.ErrorIs(t, err, ErrTargetAbsent)
}
