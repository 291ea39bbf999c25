package store

import (
	"context"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/KevinNickolai/wolfbot/internal/game"
	"github.com/KevinNickolai/wolfbot/internal/words"
)

// Memory is an in-process Store for tests and database-less runs.
type Memory struct {
	mu    sync.Mutex
	rng   *rand.Rand
	games map[string]*memGame
	pairs []*memPair
}

type memGame struct {
	id        string
	groupID   string
	gmID      string
	spoofed   bool
	createdAt time.Time
	roles     map[string]game.Role
	wins      map[string]bool // absent until the outcome is recorded
}

type memPair struct {
	userID        string
	pair          words.Pair
	gameID        string
	usableByHouse bool
	createdAt     time.Time
}

func NewMemory() *Memory {
	return &Memory{
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
		games: make(map[string]*memGame),
	}
}

func (m *Memory) CreateGame(_ context.Context, groupID, gameMasterID string, spoofed bool) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := uuid.NewString()
	m.games[id] = &memGame{
		id:        id,
		groupID:   groupID,
		gmID:      gameMasterID,
		spoofed:   spoofed,
		createdAt: time.Now().UTC(),
		roles:     make(map[string]game.Role),
	}
	return id, nil
}

func (m *Memory) SetRoleAssignments(_ context.Context, gameID string, roles map[string]game.Role) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.games[gameID]
	if !ok {
		return ErrDatabase
	}
	for id, role := range roles {
		g.roles[id] = role
	}
	return nil
}

func (m *Memory) BankWordPair(_ context.Context, participantID string, pair words.Pair, usableByHouse bool) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.pairs {
		if p.userID == participantID && p.gameID == "" && samePair(p.pair, pair) {
			return false, nil
		}
	}
	m.pairs = append(m.pairs, &memPair{
		userID:        participantID,
		pair:          pair,
		usableByHouse: usableByHouse,
		createdAt:     time.Now().UTC(),
	})
	return true, nil
}

func (m *Memory) BindSpontaneousWordPair(_ context.Context, participantID string, pair words.Pair, gameID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pairs = append(m.pairs, &memPair{
		userID:    participantID,
		pair:      pair,
		gameID:    gameID,
		createdAt: time.Now().UTC(),
	})
	return nil
}

func (m *Memory) FetchOwnWordPair(_ context.Context, participantID, gameID string) (words.Pair, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	candidates := m.unplayed(func(p *memPair) bool { return p.userID == participantID })
	if len(candidates) == 0 {
		return words.Pair{}, false, nil
	}
	// House-usable entries take priority over the rest of the bank.
	if housed := filterPairs(candidates, func(p *memPair) bool { return p.usableByHouse }); len(housed) > 0 {
		candidates = housed
	}
	chosen := candidates[m.rng.Intn(len(candidates))]
	chosen.gameID = gameID
	return chosen.pair, true, nil
}

func (m *Memory) FetchHouseWordPair(_ context.Context, excludeParticipantIDs []string, gameID string) (words.Pair, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	excluded := make(map[string]struct{}, len(excludeParticipantIDs))
	for _, id := range excludeParticipantIDs {
		excluded[id] = struct{}{}
	}
	candidates := m.unplayed(func(p *memPair) bool {
		_, skip := excluded[p.userID]
		return p.usableByHouse && !skip
	})
	if len(candidates) == 0 {
		return words.Pair{}, false, nil
	}
	chosen := candidates[m.rng.Intn(len(candidates))]
	chosen.gameID = gameID
	return chosen.pair, true, nil
}

func (m *Memory) RecordOutcome(_ context.Context, gameID string, winnerIDs []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.games[gameID]
	if !ok {
		return ErrDatabase
	}
	winners := make(map[string]struct{}, len(winnerIDs))
	for _, id := range winnerIDs {
		winners[id] = struct{}{}
	}
	g.wins = make(map[string]bool, len(g.roles))
	for id := range g.roles {
		_, won := winners[id]
		g.wins[id] = won
	}
	return nil
}

func (m *Memory) ViewWordPairs(_ context.Context, participantID string) ([]WordRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []WordRecord
	for _, p := range m.pairs {
		if p.userID != participantID {
			continue
		}
		out = append(out, WordRecord{
			Pair:          p.pair,
			GameID:        p.gameID,
			UsableByHouse: p.usableByHouse,
			CreatedAt:     p.createdAt,
		})
	}
	return out, nil
}

func (m *Memory) Stats(_ context.Context, participantID string, includeSpoofed bool) (Stats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var st Stats
	for _, g := range m.games {
		if g.spoofed && !includeSpoofed {
			continue
		}
		if g.gmID == participantID {
			st.GamesGM++
		}
		role, played := g.roles[participantID]
		if !played || g.wins == nil {
			continue
		}
		won := g.wins[participantID]
		bump(&st.All, won)
		if role == game.RoleMinority {
			bump(&st.Minority, won)
		} else {
			bump(&st.Majority, won)
		}
	}
	for _, p := range m.pairs {
		if p.userID == participantID {
			st.WordPairsSubmitted++
		}
	}
	return st, nil
}

func (m *Memory) History(_ context.Context, participantID string, limit int, includeSpoofed bool) ([]GameRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var played []*memGame
	for _, g := range m.games {
		if g.spoofed && !includeSpoofed {
			continue
		}
		if _, ok := g.roles[participantID]; ok && g.wins != nil {
			played = append(played, g)
		}
	}
	sort.Slice(played, func(i, j int) bool { return played[i].createdAt.After(played[j].createdAt) })
	if len(played) > limit {
		played = played[:limit]
	}

	records := make([]GameRecord, 0, len(played))
	for _, g := range played {
		rec := GameRecord{
			GameMasterID: g.gmID,
			PlayerCount:  len(g.roles),
			Role:         g.roles[participantID],
			Win:          g.wins[participantID],
			PlayedOn:     g.createdAt,
		}
		for _, p := range m.pairs {
			if p.gameID == g.id {
				rec.Pair = p.pair
				break
			}
		}
		records = append(records, rec)
	}
	return records, nil
}

func (m *Memory) unplayed(keep func(*memPair) bool) []*memPair {
	return filterPairs(m.pairs, func(p *memPair) bool { return p.gameID == "" && keep(p) })
}

func filterPairs(ps []*memPair, keep func(*memPair) bool) []*memPair {
	var out []*memPair
	for _, p := range ps {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}

func bump(rs *RoleStats, won bool) {
	rs.GamesPlayed++
	if won {
		rs.Wins++
	}
}

func samePair(a, b words.Pair) bool {
	return strings.EqualFold(a.MajorityWord, b.MajorityWord) &&
		strings.EqualFold(a.MinorityWord, b.MinorityWord)
}
