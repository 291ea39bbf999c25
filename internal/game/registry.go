package game

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/KevinNickolai/wolfbot/internal/words"
)

// Registry owns the per-group lobbies and sessions plus the process-wide busy
// set. At most one session runs per group; a participant flagged busy blocks
// their lobby from starting until their session resolves.
type Registry struct {
	house    Participant
	msgr     Messenger
	store    Store
	selector *words.Selector
	timeouts Timeouts
	log      zerolog.Logger

	mu       sync.Mutex
	rng      *rand.Rand
	lobbies  map[string]*Lobby
	sessions map[string]*Session
	busy     map[string]struct{}
}

type RegistryOption func(*Registry)

func WithTimeouts(t Timeouts) RegistryOption {
	return func(r *Registry) { r.timeouts = t }
}

func WithSelector(s *words.Selector) RegistryOption {
	return func(r *Registry) { r.selector = s }
}

func WithLogger(log zerolog.Logger) RegistryOption {
	return func(r *Registry) { r.log = log }
}

func WithRand(rng *rand.Rand) RegistryOption {
	return func(r *Registry) { r.rng = rng }
}

func NewRegistry(house Participant, msgr Messenger, store Store, opts ...RegistryOption) *Registry {
	r := &Registry{
		house:    house,
		msgr:     msgr,
		store:    store,
		selector: words.NewSelector(),
		timeouts: DefaultTimeouts(),
		log:      zerolog.Nop(),
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		lobbies:  make(map[string]*Lobby),
		sessions: make(map[string]*Session),
		busy:     make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// House is the bot's own identity, used as GM when no human volunteers.
func (r *Registry) House() Participant { return r.house }

// Lobby returns the group's lobby, creating it on first use.
func (r *Registry) Lobby(groupID string) *Lobby {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lobby(groupID)
}

func (r *Registry) lobby(groupID string) *Lobby {
	l, ok := r.lobbies[groupID]
	if !ok {
		l = NewLobby(r.house)
		r.lobbies[groupID] = l
	}
	return l
}

// Session returns the group's active session, if any.
func (r *Registry) Session(groupID string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[groupID]
	return s, ok
}

// ActiveSessions reports how many games are currently running.
func (r *Registry) ActiveSessions() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Busy reports whether the participant is mid-flow in an active session.
func (r *Registry) Busy(participantID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.busy[participantID]
	return ok
}

// StartGame promotes the group's lobby into a running session. It refuses when
// a game is already running, when the start-eligibility threshold is unmet, or
// when a queued participant is still busy elsewhere. On success the lobby is
// cleared, every roster member (and a human GM) is flagged busy, and the
// session runs on its own goroutine.
func (r *Registry) StartGame(ctx context.Context, groupID string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, running := r.sessions[groupID]; running {
		return nil, ErrGameInProgress
	}

	lobby := r.lobby(groupID)
	gms, players := lobby.Counts()
	count := players
	if gms > 0 {
		count = gms - 1 + players
	}
	if !((gms > 0 && count > 2) || players > 2) {
		return nil, NotEnoughPlayersError{Count: count}
	}

	// One snapshot serves both the busy check and the roster, so nobody can
	// slip into the roster unchecked between the two reads.
	queued := lobby.Participants()
	for _, p := range queued {
		if _, busy := r.busy[p.ID]; busy {
			return nil, ErrPlayersBusy
		}
	}

	gm := lobby.DecideGameMaster(r.rng)
	roster := make([]Participant, 0, len(queued))
	for _, p := range queued {
		if p.ID != gm.ID {
			roster = append(roster, p)
		}
	}
	lobby.Clear()

	for _, p := range roster {
		r.busy[p.ID] = struct{}{}
	}
	if gm.ID != r.house.ID {
		r.busy[gm.ID] = struct{}{}
	}

	rng := rand.New(rand.NewSource(r.rng.Int63()))
	s := newSession(groupID, gm, r.house, roster, r.msgr, r.store, r.selector, r.timeouts, rng, r.log, r.release)
	r.sessions[groupID] = s
	go s.Run(ctx)
	return s, nil
}

// ResetLobby empties the group's queues.
func (r *Registry) ResetLobby(groupID string) {
	r.Lobby(groupID).Clear()
}

// release drops the session and frees its roster's busy flags. Runs under the
// registry mutex so a concurrent StartGame eligibility check sees either all
// flags set or all cleared.
func (r *Registry) release(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, s.groupID)
	for _, p := range s.allPlayers {
		delete(r.busy, p.ID)
	}
	delete(r.busy, s.gm.ID)
}
