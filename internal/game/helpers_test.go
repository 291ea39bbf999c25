package game

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/KevinNickolai/wolfbot/internal/words"
)

// fakeMessenger plays back per-participant reply scripts. A waiting call
// consumes the participant's front reply once the predicate accepts it; with no
// acceptable reply queued the call blocks until its context ends, which is how
// a silent participant looks to the game.
type fakeMessenger struct {
	mu      sync.Mutex
	sent    map[string][]string
	scripts map[string][]string
}

func newFakeMessenger() *fakeMessenger {
	return &fakeMessenger{
		sent:    make(map[string][]string),
		scripts: make(map[string][]string),
	}
}

func (f *fakeMessenger) script(participantID string, replies ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scripts[participantID] = append(f.scripts[participantID], replies...)
}

func (f *fakeMessenger) SendPrivate(_ context.Context, p Participant, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent[p.ID] = append(f.sent[p.ID], text)
	return nil
}

func (f *fakeMessenger) AwaitPrivate(ctx context.Context, p Participant, match func(string) bool) (string, error) {
	ticker := time.NewTicker(time.Millisecond)
	defer ticker.Stop()
	for {
		f.mu.Lock()
		if q := f.scripts[p.ID]; len(q) > 0 && match(q[0]) {
			text := q[0]
			f.scripts[p.ID] = q[1:]
			f.mu.Unlock()
			return text, nil
		}
		f.mu.Unlock()

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-ticker.C:
		}
	}
}

func (f *fakeMessenger) sentTo(participantID string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.sent[participantID]...)
}

func (f *fakeMessenger) received(participantID, substring string) bool {
	for _, text := range f.sentTo(participantID) {
		if strings.Contains(text, substring) {
			return true
		}
	}
	return false
}

// fakeStore records the calls a session makes. Pairs are dealt from the
// configured banks front-first.
type fakeStore struct {
	mu         sync.Mutex
	createErr  error
	bank       map[string][]words.Pair
	housePairs []words.Pair
	roles      map[string]Role
	bound      []words.Pair
	outcomes   [][]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{bank: make(map[string][]words.Pair)}
}

func (f *fakeStore) CreateGame(context.Context, string, string, bool) (string, error) {
	if f.createErr != nil {
		return "", f.createErr
	}
	return "game-1", nil
}

func (f *fakeStore) SetRoleAssignments(_ context.Context, _ string, roles map[string]Role) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.roles = roles
	return nil
}

func (f *fakeStore) BindSpontaneousWordPair(_ context.Context, _ string, pair words.Pair, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bound = append(f.bound, pair)
	return nil
}

func (f *fakeStore) FetchOwnWordPair(_ context.Context, participantID, _ string) (words.Pair, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	q := f.bank[participantID]
	if len(q) == 0 {
		return words.Pair{}, false, nil
	}
	f.bank[participantID] = q[1:]
	return q[0], true, nil
}

func (f *fakeStore) FetchHouseWordPair(_ context.Context, _ []string, _ string) (words.Pair, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.housePairs) == 0 {
		return words.Pair{}, false, nil
	}
	pair := f.housePairs[0]
	f.housePairs = f.housePairs[1:]
	return pair, true, nil
}

func (f *fakeStore) RecordOutcome(_ context.Context, _ string, winnerIDs []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.outcomes = append(f.outcomes, append([]string(nil), winnerIDs...))
	return nil
}

func (f *fakeStore) recordedOutcomes() [][]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]string(nil), f.outcomes...)
}

func (f *fakeStore) recordedRoles() map[string]Role {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.roles
}

// testTimeouts keep silent-participant waits short enough for tests.
func testTimeouts() Timeouts {
	return Timeouts{
		WordSubmission:    150 * time.Millisecond,
		MinorityPrompt:    150 * time.Millisecond,
		MinorityPick:      150 * time.Millisecond,
		Discussion:        50 * time.Millisecond,
		Vote:              150 * time.Millisecond,
		GMAdjudication:    150 * time.Millisecond,
		HouseAdjudication: 150 * time.Millisecond,
	}
}

var testHouse = Participant{ID: "house", Name: "wolfbot"}

func participant(id string) Participant {
	return Participant{ID: id, Name: "user-" + id}
}

func participants(ids ...string) []Participant {
	out := make([]Participant, len(ids))
	for i, id := range ids {
		out[i] = participant(id)
	}
	return out
}
