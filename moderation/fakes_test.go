package moderation

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	infractions_db "sentinel-bot/utils/database/infractions"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := infractions_db.Init(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

// fakeResolver resolves references out of a fixed table. Unknown references
// resolve to nil, matching an account that does not exist.
type fakeResolver struct {
	identities map[string]*Identity
}

func (f *fakeResolver) Resolve(_ context.Context, _, ref string) (*Identity, error) {
	return f.identities[ref], nil
}

type fakeRanks struct {
	ranks map[string]int
}

func (f *fakeRanks) HighestRank(_ context.Context, _, userID string) (int, error) {
	return f.ranks[userID], nil
}

// fakeEnforcer records every platform effect as "op:userID" and can be told
// to fail specific operations.
type fakeEnforcer struct {
	mu    sync.Mutex
	calls []string
	fail  map[string]error
}

func (f *fakeEnforcer) do(op, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, op+":"+userID)
	if f.fail != nil {
		return f.fail[op]
	}
	return nil
}

func (f *fakeEnforcer) Kick(_ context.Context, _, userID, _ string) error {
	return f.do("kick", userID)
}

func (f *fakeEnforcer) Ban(_ context.Context, _, userID, _ string) error {
	return f.do("ban", userID)
}

func (f *fakeEnforcer) Unban(_ context.Context, _, userID string) error {
	return f.do("unban", userID)
}

func (f *fakeEnforcer) AddRole(_ context.Context, _, userID, roleID string) error {
	return f.do("addrole", userID+":"+roleID)
}

func (f *fakeEnforcer) RemoveRole(_ context.Context, _, userID, roleID string) error {
	return f.do("removerole", userID+":"+roleID)
}

func (f *fakeEnforcer) callLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

type fakeNotifier struct {
	mu     sync.Mutex
	logged []InfractionNotice
	dmed   []InfractionNotice
}

func (f *fakeNotifier) LogInfraction(_ context.Context, _ string, inf InfractionNotice) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logged = append(f.logged, inf)
}

func (f *fakeNotifier) NotifySubject(_ context.Context, _ string, inf InfractionNotice) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dmed = append(f.dmed, inf)
}

type fakeConfig struct {
	values map[string]string
}

func (f *fakeConfig) GetConfig(guildID, property string) (string, error) {
	return f.values[fmt.Sprintf("%s/%s", guildID, property)], nil
}
