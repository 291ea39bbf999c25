package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KevinNickolai/wolfbot/internal/game"
	"github.com/KevinNickolai/wolfbot/internal/words"
)

var (
	pairBears  = words.Pair{MajorityWord: "polar bear", MinorityWord: "grizzly bear"}
	pairMetals = words.Pair{MajorityWord: "iron", MinorityWord: "copper"}
)

func TestBankWordPairRejectsUnplayedDuplicate(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	fresh, err := m.BankWordPair(ctx, "u1", pairBears, false)
	require.NoError(t, err)
	assert.True(t, fresh)

	dup, err := m.BankWordPair(ctx, "u1", words.Pair{MajorityWord: "Polar Bear", MinorityWord: "GRIZZLY BEAR"}, false)
	require.NoError(t, err)
	assert.False(t, dup, "case-insensitive duplicate of an unplayed pair")

	other, err := m.BankWordPair(ctx, "u2", pairBears, false)
	require.NoError(t, err)
	assert.True(t, other, "duplicates are scoped per participant")
}

func TestBankWordPairAllowsReplayedPair(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	_, err := m.BankWordPair(ctx, "u1", pairBears, false)
	require.NoError(t, err)

	// Playing the pair frees the slot for a resubmission.
	_, ok, err := m.FetchOwnWordPair(ctx, "u1", "game-1")
	require.NoError(t, err)
	require.True(t, ok)

	fresh, err := m.BankWordPair(ctx, "u1", pairBears, false)
	require.NoError(t, err)
	assert.True(t, fresh)
}

func TestFetchOwnWordPairPrefersHouseUsable(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	_, err := m.BankWordPair(ctx, "u1", pairBears, false)
	require.NoError(t, err)
	_, err = m.BankWordPair(ctx, "u1", pairMetals, true)
	require.NoError(t, err)

	pair, ok, err := m.FetchOwnWordPair(ctx, "u1", "game-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, pairMetals, pair)

	// The draw bound the pair, so only the private one remains.
	pair, ok, err = m.FetchOwnWordPair(ctx, "u1", "game-2")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, pairBears, pair)

	_, ok, err = m.FetchOwnWordPair(ctx, "u1", "game-3")
	require.NoError(t, err)
	assert.False(t, ok, "bank exhausted")
}

func TestFetchHouseWordPairExcludesRoster(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	_, err := m.BankWordPair(ctx, "u1", pairBears, true)
	require.NoError(t, err)
	_, err = m.BankWordPair(ctx, "u2", pairMetals, false)
	require.NoError(t, err)

	_, ok, err := m.FetchHouseWordPair(ctx, []string{"u1"}, "game-1")
	require.NoError(t, err)
	assert.False(t, ok, "contributor in the roster and the other pair is private")

	pair, ok, err := m.FetchHouseWordPair(ctx, []string{"u2"}, "game-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, pairBears, pair)
}

func TestStatsAndHistory(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	gameID, err := m.CreateGame(ctx, "guild-1", "gm", false)
	require.NoError(t, err)
	require.NoError(t, m.SetRoleAssignments(ctx, gameID, map[string]game.Role{
		"p1": game.RoleMajority,
		"p2": game.RoleMajority,
		"p3": game.RoleMinority,
	}))
	require.NoError(t, m.BindSpontaneousWordPair(ctx, "gm", pairBears, gameID))
	require.NoError(t, m.RecordOutcome(ctx, gameID, []string{"p1", "p2"}))

	st, err := m.Stats(ctx, "p1", false)
	require.NoError(t, err)
	assert.Equal(t, RoleStats{Wins: 1, GamesPlayed: 1}, st.Majority)
	assert.Equal(t, RoleStats{Wins: 1, GamesPlayed: 1}, st.All)
	assert.Zero(t, st.Minority.GamesPlayed)
	assert.Zero(t, st.GamesGM)

	st, err = m.Stats(ctx, "p3", false)
	require.NoError(t, err)
	assert.Equal(t, RoleStats{Wins: 0, GamesPlayed: 1}, st.Minority)
	assert.InDelta(t, 0.0, st.Minority.WinPercentage(), 1e-9)

	st, err = m.Stats(ctx, "gm", false)
	require.NoError(t, err)
	assert.Equal(t, 1, st.GamesGM)
	assert.Equal(t, 1, st.WordPairsSubmitted)
	assert.Zero(t, st.All.GamesPlayed, "the GM does not play")

	history, err := m.History(ctx, "p3", HistoryGameCount, false)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "gm", history[0].GameMasterID)
	assert.Equal(t, 3, history[0].PlayerCount)
	assert.Equal(t, pairBears, history[0].Pair)
	assert.Equal(t, game.RoleMinority, history[0].Role)
	assert.False(t, history[0].Win)
}

func TestStatsSkipsSpoofedGames(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	gameID, err := m.CreateGame(ctx, "guild-1", "gm", true)
	require.NoError(t, err)
	require.NoError(t, m.SetRoleAssignments(ctx, gameID, map[string]game.Role{"p1": game.RoleMajority}))
	require.NoError(t, m.RecordOutcome(ctx, gameID, []string{"p1"}))

	st, err := m.Stats(ctx, "p1", false)
	require.NoError(t, err)
	assert.Zero(t, st.All.GamesPlayed)

	st, err = m.Stats(ctx, "p1", true)
	require.NoError(t, err)
	assert.Equal(t, 1, st.All.GamesPlayed)

	history, err := m.History(ctx, "p1", HistoryGameCount, false)
	require.NoError(t, err)
	assert.Empty(t, history)

	history, err = m.History(ctx, "p1", HistoryGameCount, true)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestHistoryLimitAndUnfinishedGames(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	for i := 0; i < HistoryGameCount+2; i++ {
		gameID, err := m.CreateGame(ctx, "guild-1", "gm", false)
		require.NoError(t, err)
		require.NoError(t, m.SetRoleAssignments(ctx, gameID, map[string]game.Role{"p1": game.RoleMajority}))
		require.NoError(t, m.RecordOutcome(ctx, gameID, []string{"p1"}))
	}

	// A game without a recorded outcome never shows up.
	pending, err := m.CreateGame(ctx, "guild-1", "gm", false)
	require.NoError(t, err)
	require.NoError(t, m.SetRoleAssignments(ctx, pending, map[string]game.Role{"p1": game.RoleMajority}))

	history, err := m.History(ctx, "p1", HistoryGameCount, false)
	require.NoError(t, err)
	assert.Len(t, history, HistoryGameCount)
}
