package bot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/KevinNickolai/wolfbot/internal/game"
	"github.com/KevinNickolai/wolfbot/internal/store"
	"github.com/KevinNickolai/wolfbot/internal/words"
)

var statsFixture = store.Stats{
	All:                store.RoleStats{Wins: 4, GamesPlayed: 7},
	Majority:           store.RoleStats{Wins: 3, GamesPlayed: 5},
	Minority:           store.RoleStats{Wins: 1, GamesPlayed: 2},
	GamesGM:            2,
	WordPairsSubmitted: 6,
}

func TestFormatStatsPlain(t *testing.T) {
	want := "```wolfgang Stats:\n" +
		"[WORDPAIR]: GMGP: 2\tSubmitted: 6\n" +
		"[MAJORITY]: Wins: 3\tGP: 5\tWin%: 60%\n" +
		"[MINORITY]: Wins: 1\tGP: 2\tWin%: 50%\n" +
		"[ALLROLES]: Wins: 4\tGP: 7\tWin%: 57%\n" +
		"```"
	assert.Equal(t, want, formatStats("wolfgang", statsFixture, false))
}

func TestFormatStatsTabular(t *testing.T) {
	want := "```wolfgang Stats:\n" +
		"[WORDPAIR]: GMGP: 2\tSubmitted: 6\n" +
		"[CATEGORY]: Wins\tGP\tWin%\n" +
		"[MAJORITY]: 3   \t5 \t60  \n" +
		"[MINORITY]: 1   \t2 \t50  \n" +
		"[ALLROLES]: 4   \t7 \t57  \n" +
		"```"
	assert.Equal(t, want, formatStats("wolfgang", statsFixture, true))
}

func TestFormatStatsZeroGames(t *testing.T) {
	got := formatStats("newcomer", store.Stats{}, false)
	assert.Contains(t, got, "[ALLROLES]: Wins: 0\tGP: 0\tWin%: 0%")
}

func TestFormatHistory(t *testing.T) {
	playedOn := time.Date(2026, time.March, 14, 18, 0, 0, 0, time.UTC)
	records := []store.GameRecord{{
		GameMasterID: "gm-id",
		PlayerCount:  4,
		Pair:         words.Pair{MajorityWord: "polar bear", MinorityWord: "grizzly bear"},
		Role:         game.RoleMinority,
		Win:          true,
		PlayedOn:     playedOn,
	}}

	want := "Game History for <@u1>:\n" +
		"GM: <@gm-id> of 4 players on Sat Mar 14 2026.\n" +
		"Words: ||polar bear|| | ||grizzly bear||. Role: minority, Win\n"
	assert.Equal(t, want, formatHistory("u1", records))
}

func TestFormatHistoryEmpty(t *testing.T) {
	assert.Equal(t, "Game History for <@u1>:\n", formatHistory("u1", nil))
}

func TestFormatWords(t *testing.T) {
	createdAt := time.Date(2026, time.March, 14, 18, 0, 0, 0, time.UTC)
	records := []store.WordRecord{
		{Pair: words.Pair{MajorityWord: "iron", MinorityWord: "copper"}, CreatedAt: createdAt},
		{Pair: words.Pair{MajorityWord: "cat", MinorityWord: "dog"}, GameID: "game-1", CreatedAt: createdAt},
	}

	want := "Your word pairs:\n" +
		"(iron | copper), Sat Mar 14 2026\n" +
		"(cat | dog), Sat Mar 14 2026, Played\n"
	assert.Equal(t, want, formatWords(records))
}
