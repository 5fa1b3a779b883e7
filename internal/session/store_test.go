package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/types"
)

func testIdentity() types.Identity {
	return types.Identity{ID: 42, Username: "asha", Email: "asha@example.com", LoyaltyPoints: 120}
}

func TestLoginPersistsAndRehydrates(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(dir)
	require.NoError(t, err)
	assert.False(t, s.SignedIn(), "fresh store should be logged out")

	_, ok := s.Current()
	assert.False(t, ok, "fresh store should be logged out")

	require.NoError(t, s.Login(testIdentity(), "tok-abc"))
	assert.Equal(t, "tok-abc", s.Token())
	assert.True(t, s.SignedIn())

	// A second store over the same dir sees the session.
	s2, err := Open(dir)
	require.NoError(t, err)
	id, ok := s2.Current()
	require.True(t, ok)
	assert.Equal(t, int64(42), id.ID)
	assert.Equal(t, "asha", id.Username)
	assert.Equal(t, "tok-abc", s2.Token())
}

func TestMalformedSessionTreatedAsLoggedOut(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	s, err := Open(dir)
	require.NoError(t, err)

	_, ok := s.Current()
	assert.False(t, ok)
	assert.Empty(t, s.Token())

	// The broken file is removed, not retried forever.
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestUpdateMergesAndRepersists(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, s.Login(testIdentity(), "tok"))

	require.NoError(t, s.Update(types.Identity{LoyaltyPoints: 920}))

	id, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, 920, id.LoyaltyPoints)
	assert.Equal(t, "asha", id.Username, "untouched fields survive the merge")

	s2, err := Open(dir)
	require.NoError(t, err)
	id2, _ := s2.Current()
	assert.Equal(t, 920, id2.LoyaltyPoints)
}

func TestUpdateWithoutSessionFails(t *testing.T) {
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	assert.Error(t, s.Update(types.Identity{LoyaltyPoints: 10}))
}

func TestLogoutClearsStateAndRunsHooks(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, s.Login(testIdentity(), "tok"))

	hookRan := false
	s.AddLogoutHook(func() { hookRan = true })

	s.Logout()

	_, ok := s.Current()
	assert.False(t, ok)
	assert.Empty(t, s.Token())
	assert.True(t, hookRan)

	_, statErr := os.Stat(filepath.Join(dir, "session.json"))
	assert.True(t, os.IsNotExist(statErr))
}
