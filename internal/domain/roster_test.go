package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoster_Add(t *testing.T) {
	t.Run("first joiner becomes host and is implicitly ready", func(t *testing.T) {
		roster := NewRoster()

		alice := NewPlayer("1", "alice", KindPlayer)
		require.NoError(t, roster.Add(alice))

		assert.True(t, alice.IsHost)
		assert.True(t, alice.IsReady)
	})

	t.Run("later joiners are neither host nor ready", func(t *testing.T) {
		roster := NewRoster()
		require.NoError(t, roster.Add(NewPlayer("1", "alice", KindPlayer)))

		bob := NewPlayer("2", "bob", KindPlayer)
		require.NoError(t, roster.Add(bob))

		assert.False(t, bob.IsHost)
		assert.False(t, bob.IsReady)
	})

	t.Run("duplicate display names are rejected", func(t *testing.T) {
		roster := NewRoster()
		require.NoError(t, roster.Add(NewPlayer("1", "alice", KindPlayer)))

		err := roster.Add(NewPlayer("2", "alice", KindPlayer))

		assert.ErrorIs(t, err, ErrDuplicateName)
		assert.Equal(t, 1, roster.Len())
	})

	t.Run("name matching is case-sensitive", func(t *testing.T) {
		roster := NewRoster()
		require.NoError(t, roster.Add(NewPlayer("1", "alice", KindPlayer)))

		assert.NoError(t, roster.Add(NewPlayer("2", "Alice", KindPlayer)))
	})

	t.Run("a departed player frees their name", func(t *testing.T) {
		roster := NewRoster()
		require.NoError(t, roster.Add(NewPlayer("1", "alice", KindPlayer)))
		_, removed := roster.Remove("1")
		require.True(t, removed)

		assert.NoError(t, roster.Add(NewPlayer("2", "alice", KindPlayer)))
	})
}

func TestRoster_PromoteNextHost(t *testing.T) {
	t.Run("first remaining entry in join order becomes host and ready", func(t *testing.T) {
		// Given: alice (host), bob, carol
		roster := NewRoster()
		require.NoError(t, roster.Add(NewPlayer("1", "alice", KindPlayer)))
		require.NoError(t, roster.Add(NewPlayer("2", "bob", KindPlayer)))
		require.NoError(t, roster.Add(NewPlayer("3", "carol", KindPlayer)))

		// When: the host leaves and a new one is promoted
		roster.Remove("1")
		hostID, ok := roster.PromoteNextHost()

		// Then: bob, the first remaining joiner, is host and ready
		require.True(t, ok)
		assert.Equal(t, "2", hostID)
		bob, _ := roster.Get("2")
		assert.True(t, bob.IsHost)
		assert.True(t, bob.IsReady)
	})

	t.Run("empty roster promotes nobody", func(t *testing.T) {
		roster := NewRoster()

		_, ok := roster.PromoteNextHost()

		assert.False(t, ok)
	})
}

func TestRoster_Actives(t *testing.T) {
	t.Run("spectators are excluded from active counts and readiness", func(t *testing.T) {
		roster := NewRoster()
		require.NoError(t, roster.Add(NewPlayer("1", "alice", KindPlayer)))
		require.NoError(t, roster.Add(NewPlayer("2", "bob", KindPlayer)))
		require.NoError(t, roster.Add(NewPlayer("3", "watcher", KindSpectator)))

		bob, _ := roster.Get("2")
		bob.IsReady = true

		assert.Equal(t, 2, roster.ActiveCount())
		assert.Len(t, roster.Actives(), 2)
		assert.True(t, roster.AllReady())
	})

	t.Run("PromoteSpectators makes watchers eligible but unready", func(t *testing.T) {
		roster := NewRoster()
		require.NoError(t, roster.Add(NewPlayer("1", "alice", KindPlayer)))
		require.NoError(t, roster.Add(NewPlayer("2", "watcher", KindSpectator)))

		roster.PromoteSpectators()

		watcher, _ := roster.Get("2")
		assert.Equal(t, KindPlayer, watcher.Kind)
		assert.False(t, watcher.IsReady)
		assert.False(t, roster.AllReady())
	})
}
