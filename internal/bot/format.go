package bot

import (
	"fmt"
	"sort"
	"strings"

	"github.com/KevinNickolai/wolfbot/internal/store"
)

// dateLayout matches the short date style the chat surface has always shown.
const dateLayout = "Mon Jan 02 2006"

// formatStats renders a participant's aggregate record inside a code block.
// The tabular variant aligns wins, games played, and win percentage into
// padded columns; the plain variant labels every figure inline.
func formatStats(name string, st store.Stats, tabular bool) string {
	winPct := func(rs store.RoleStats) int {
		return int(rs.WinPercentage() * 100)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "```%s Stats:\n", name)
	fmt.Fprintf(&b, "[WORDPAIR]: GMGP: %d\tSubmitted: %d\n", st.GamesGM, st.WordPairsSubmitted)

	if tabular {
		// All-roles totals are never shorter than either bracket, so they
		// size the columns.
		winsWidth := max(len("Wins"), digits(st.All.Wins))
		gpWidth := max(len("GP"), digits(st.All.GamesPlayed))
		const pctWidth = len("Win%")

		row := func(label string, rs store.RoleStats) {
			fmt.Fprintf(&b, "[%s]: %-*d\t%-*d\t%-*d\n",
				label, winsWidth, rs.Wins, gpWidth, rs.GamesPlayed, pctWidth, winPct(rs))
		}
		fmt.Fprintf(&b, "[CATEGORY]: %-*s\t%-*s\tWin%%\n", winsWidth, "Wins", gpWidth, "GP")
		row("MAJORITY", st.Majority)
		row("MINORITY", st.Minority)
		row("ALLROLES", st.All)
	} else {
		row := func(label string, rs store.RoleStats) {
			fmt.Fprintf(&b, "[%s]: Wins: %d\tGP: %d\tWin%%: %d%%\n",
				label, rs.Wins, rs.GamesPlayed, winPct(rs))
		}
		row("MAJORITY", st.Majority)
		row("MINORITY", st.Minority)
		row("ALLROLES", st.All)
	}

	b.WriteString("```")
	return b.String()
}

// formatHistory renders recent games, newest first, with the words behind
// spoiler tags so scrollback never leaks an unseen pair.
func formatHistory(participantID string, records []store.GameRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Game History for <@%s>:\n", participantID)
	for _, rec := range records {
		outcome := "Loss"
		if rec.Win {
			outcome = "Win"
		}
		fmt.Fprintf(&b, "GM: <@%s> of %d players on %s.\n",
			rec.GameMasterID, rec.PlayerCount, rec.PlayedOn.Format(dateLayout))
		fmt.Fprintf(&b, "Words: ||%s|| | ||%s||. Role: %s, %s\n",
			rec.Pair.MajorityWord, rec.Pair.MinorityWord, rec.Role, outcome)
	}
	return b.String()
}

// formatWords renders a participant's banked pairs for a direct message.
func formatWords(records []store.WordRecord) string {
	var b strings.Builder
	b.WriteString("Your word pairs:\n")
	for _, rec := range records {
		played := ""
		if rec.GameID != "" {
			played = ", Played"
		}
		fmt.Fprintf(&b, "(%s | %s), %s%s\n",
			rec.Pair.MajorityWord, rec.Pair.MinorityWord, rec.CreatedAt.Format(dateLayout), played)
	}
	return b.String()
}

func sortStrings(ss []string) { sort.Strings(ss) }

func digits(n int) int { return len(fmt.Sprint(n)) }
