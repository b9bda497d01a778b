package infractions

import (
	"path/filepath"
	"testing"
	"time"

	"sentinel-bot/model"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := Init(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func sample(id string) model.Infraction {
	return model.Infraction{
		InfractionID: id,
		GuildID:      "guild-1",
		UserID:       "user-1",
		ModeratorID:  "mod-1",
		Type:         model.InfractionWarn,
		Reason:       "testing",
		Timestamp:    1000,
	}
}

func TestAddAndGetInfraction(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, AddInfraction(db, sample("IDAAAAAAAA")))

	got, err := GetInfraction(db, "guild-1", "IDAAAAAAAA")
	require.NoError(t, err)
	assert.Equal(t, sample("IDAAAAAAAA"), *got)
}

func TestAddInfractionDuplicateIDConflicts(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, AddInfraction(db, sample("IDAAAAAAAA")))
	err := AddInfraction(db, sample("IDAAAAAAAA"))
	assert.ErrorIs(t, err, ErrConflict)
}

func TestGetInfractionMissing(t *testing.T) {
	db := openTestDB(t)

	_, err := GetInfraction(db, "guild-1", "IDMISSINGX")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInfractionExists(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, AddInfraction(db, sample("IDAAAAAAAA")))

	taken, err := InfractionExists(db, "guild-1", "IDAAAAAAAA")
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = InfractionExists(db, "guild-1", "IDBBBBBBBB")
	require.NoError(t, err)
	assert.False(t, taken)

	// IDs are scoped per guild.
	taken, err = InfractionExists(db, "guild-2", "IDAAAAAAAA")
	require.NoError(t, err)
	assert.False(t, taken)
}

func TestDeleteInfraction(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, AddInfraction(db, sample("IDAAAAAAAA")))

	deleted, err := DeleteInfraction(db, "guild-1", "IDAAAAAAAA")
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = DeleteInfraction(db, "guild-1", "IDAAAAAAAA")
	require.NoError(t, err)
	assert.False(t, deleted, "deleting a missing record is not an error")
}

func TestQueryScopes(t *testing.T) {
	db := openTestDB(t)
	records := []model.Infraction{
		{InfractionID: "IDAAAAAAAA", GuildID: "guild-1", UserID: "user-1", ModeratorID: "mod-1", Type: model.InfractionWarn, Reason: "a", Timestamp: 100},
		{InfractionID: "IDBBBBBBBB", GuildID: "guild-1", UserID: "user-2", ModeratorID: "mod-1", Type: model.InfractionBan, Reason: "b", Timestamp: 200},
		{InfractionID: "IDCCCCCCCC", GuildID: "guild-1", UserID: "user-1", ModeratorID: "mod-2", Type: model.InfractionMute, Reason: "c", Timestamp: 300},
		{InfractionID: "IDDDDDDDDD", GuildID: "guild-2", UserID: "user-1", ModeratorID: "mod-1", Type: model.InfractionWarn, Reason: "d", Timestamp: 400},
	}
	for _, record := range records {
		require.NoError(t, AddInfraction(db, record))
	}

	guildRecords, err := GetGuildInfractions(db, "guild-1")
	require.NoError(t, err)
	assert.Len(t, guildRecords, 3)

	userRecords, err := GetUserInfractions(db, "guild-1", "user-1")
	require.NoError(t, err)
	assert.Len(t, userRecords, 2)

	modRecords, err := GetModeratorInfractions(db, "guild-1", "mod-1")
	require.NoError(t, err)
	assert.Len(t, modRecords, 2)
}

func TestModeratorStats(t *testing.T) {
	db := openTestDB(t)
	records := []model.Infraction{
		{InfractionID: "IDAAAAAAAA", GuildID: "guild-1", UserID: "user-1", ModeratorID: "mod-1", Type: model.InfractionWarn, Reason: "a", Timestamp: 100},
		{InfractionID: "IDBBBBBBBB", GuildID: "guild-1", UserID: "user-2", ModeratorID: "mod-1", Type: model.InfractionWarn, Reason: "b", Timestamp: 200},
		{InfractionID: "IDCCCCCCCC", GuildID: "guild-1", UserID: "user-3", ModeratorID: "mod-2", Type: model.InfractionWarn, Reason: "c", Timestamp: 300},
	}
	for _, record := range records {
		require.NoError(t, AddInfraction(db, record))
	}

	stats, err := GetModeratorStats(db, "guild-1", time.Unix(0, 0))
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"mod-1": 2, "mod-2": 1}, stats)

	// The time window excludes older records.
	stats, err = GetModeratorStats(db, "guild-1", time.Unix(150, 0))
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"mod-1": 1, "mod-2": 1}, stats)

	count, err := GetInfractionCount(db, "guild-1", time.Unix(0, 0))
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestMuteLifecycle(t *testing.T) {
	db := openTestDB(t)
	record := model.MuteRecord{
		InfractionID: "IDAAAAAAAA",
		GuildID:      "guild-1",
		UserID:       "user-1",
		ExpiresAt:    5000,
		Active:       true,
	}
	require.NoError(t, UpsertMute(db, record))

	got, err := GetMute(db, "IDAAAAAAAA")
	require.NoError(t, err)
	assert.Equal(t, record, *got)

	active, err := GetActiveMuteByUser(db, "guild-1", "user-1")
	require.NoError(t, err)
	assert.Equal(t, "IDAAAAAAAA", active.InfractionID)

	all, err := GetActiveMutes(db)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	won, err := DeactivateMute(db, "IDAAAAAAAA")
	require.NoError(t, err)
	assert.True(t, won)

	// Only the first deactivation wins; the second observes the flag cleared.
	won, err = DeactivateMute(db, "IDAAAAAAAA")
	require.NoError(t, err)
	assert.False(t, won)

	_, err = GetActiveMuteByUser(db, "guild-1", "user-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeactivateMutesByUser(t *testing.T) {
	db := openTestDB(t)
	for _, record := range []model.MuteRecord{
		{InfractionID: "IDAAAAAAAA", GuildID: "guild-1", UserID: "user-1", ExpiresAt: 5000, Active: true},
		{InfractionID: "IDBBBBBBBB", GuildID: "guild-1", UserID: "user-1", ExpiresAt: 6000, Active: true},
		{InfractionID: "IDCCCCCCCC", GuildID: "guild-1", UserID: "user-2", ExpiresAt: 7000, Active: true},
	} {
		require.NoError(t, UpsertMute(db, record))
	}

	deactivated, err := DeactivateMutesByUser(db, "guild-1", "user-1")
	require.NoError(t, err)
	assert.Len(t, deactivated, 2)

	remaining, err := GetActiveMutes(db)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "user-2", remaining[0].UserID)

	// No active records left for the user; a second call is empty, not an error.
	deactivated, err = DeactivateMutesByUser(db, "guild-1", "user-1")
	require.NoError(t, err)
	assert.Empty(t, deactivated)
}

func TestGuildConfig(t *testing.T) {
	db := openTestDB(t)

	value, err := GetGuildConfig(db, "guild-1", model.ConfigMuteRole)
	require.NoError(t, err)
	assert.Empty(t, value, "a missing property reads as empty")

	require.NoError(t, SetGuildConfig(db, "guild-1", model.ConfigMuteRole, "role-1"))
	require.NoError(t, SetGuildConfig(db, "guild-1", model.ConfigInfractionLog, "chan-1"))

	value, err = GetGuildConfig(db, "guild-1", model.ConfigMuteRole)
	require.NoError(t, err)
	assert.Equal(t, "role-1", value)

	// Overwrites replace in place.
	require.NoError(t, SetGuildConfig(db, "guild-1", model.ConfigMuteRole, "role-2"))
	value, err = GetGuildConfig(db, "guild-1", model.ConfigMuteRole)
	require.NoError(t, err)
	assert.Equal(t, "role-2", value)

	// Properties are per guild.
	value, err = GetGuildConfig(db, "guild-2", model.ConfigMuteRole)
	require.NoError(t, err)
	assert.Empty(t, value)
}
