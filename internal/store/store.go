package store

import (
	"context"
	"errors"
	"time"

	"github.com/KevinNickolai/wolfbot/internal/game"
	"github.com/KevinNickolai/wolfbot/internal/words"
)

// HistoryGameCount is how many recent games the history view shows.
const HistoryGameCount = 5

var ErrDatabase = errors.New("unexpected database error")

// Store is the full storage collaborator: the game-side surface consumed by
// sessions plus the read side the command front end renders.
type Store interface {
	game.Store

	// BankWordPair saves a pair for future games. It reports false when the
	// participant already banked the same unplayed pair.
	BankWordPair(ctx context.Context, participantID string, pair words.Pair, usableByHouse bool) (bool, error)
	ViewWordPairs(ctx context.Context, participantID string) ([]WordRecord, error)
	Stats(ctx context.Context, participantID string, includeSpoofed bool) (Stats, error)
	History(ctx context.Context, participantID string, limit int, includeSpoofed bool) ([]GameRecord, error)
}

// WordRecord is one banked pair as shown by the words command.
type WordRecord struct {
	Pair          words.Pair
	GameID        string // empty while unplayed
	UsableByHouse bool
	CreatedAt     time.Time
}

// RoleStats aggregates wins over games played in one role bracket.
type RoleStats struct {
	Wins        int
	GamesPlayed int
}

// WinPercentage is in [0, 1]; zero games played counts as zero.
func (rs RoleStats) WinPercentage() float64 {
	if rs.GamesPlayed == 0 {
		return 0
	}
	return float64(rs.Wins) / float64(rs.GamesPlayed)
}

// Stats is a participant's aggregate record.
type Stats struct {
	All                RoleStats
	Majority           RoleStats
	Minority           RoleStats
	GamesGM            int
	WordPairsSubmitted int
}

// GameRecord is one line of a participant's game history.
type GameRecord struct {
	GameMasterID string
	PlayerCount  int
	Pair         words.Pair
	Role         game.Role
	Win          bool
	PlayedOn     time.Time
}
