package game

import (
	"math/rand"
	"sync"
)

// Lobby queues intending game masters and players for one group. A participant
// sits in at most one queue at a time; joining one silently leaves the other.
type Lobby struct {
	mu          sync.Mutex
	house       Participant
	gmQueue     []Participant
	playerQueue []Participant
}

func NewLobby(house Participant) *Lobby {
	return &Lobby{house: house}
}

// Join adds p to the player queue. No-op if already queued as a player.
func (l *Lobby) Join(p Participant) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if contains(l.playerQueue, p.ID) {
		return
	}
	l.gmQueue = remove(l.gmQueue, p.ID)
	l.playerQueue = append(l.playerQueue, p)
}

// JoinAsGM adds p to the game-master queue. No-op if already queued as a GM.
func (l *Lobby) JoinAsGM(p Participant) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if contains(l.gmQueue, p.ID) {
		return
	}
	l.playerQueue = remove(l.playerQueue, p.ID)
	l.gmQueue = append(l.gmQueue, p)
}

// Leave removes p from whichever queue holds it.
func (l *Lobby) Leave(p Participant) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.gmQueue = remove(l.gmQueue, p.ID)
	l.playerQueue = remove(l.playerQueue, p.ID)
}

// Clear empties both queues.
func (l *Lobby) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.gmQueue = nil
	l.playerQueue = nil
}

// Counts returns the current queue sizes.
func (l *Lobby) Counts() (gms, players int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.gmQueue), len(l.playerQueue)
}

// Participants returns everyone in either queue, GM queue first.
func (l *Lobby) Participants() []Participant {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Participant, 0, len(l.gmQueue)+len(l.playerQueue))
	out = append(out, l.gmQueue...)
	return append(out, l.playerQueue...)
}

// DecideGameMaster removes and returns a uniformly random member of the GM
// queue. With an empty GM queue the house identity GMs and the player queue is
// left untouched. A human GM is not moved to the player queue; whoever remains
// in the GM queue plays as a regular player.
func (l *Lobby) DecideGameMaster(rng *rand.Rand) Participant {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.gmQueue) == 0 {
		return l.house
	}
	gm := l.gmQueue[rng.Intn(len(l.gmQueue))]
	l.gmQueue = remove(l.gmQueue, gm.ID)
	return gm
}

func contains(ps []Participant, id string) bool {
	for _, p := range ps {
		if p.ID == id {
			return true
		}
	}
	return false
}

func remove(ps []Participant, id string) []Participant {
	for i, p := range ps {
		if p.ID == id {
			return append(ps[:i:i], ps[i+1:]...)
		}
	}
	return ps
}
