package game

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/KevinNickolai/wolfbot/internal/words"
)

// Session drives one game from a lobby roster to a recorded outcome. Every
// wait it performs is deadline-scoped with a fallback, so a session always
// terminates.
type Session struct {
	groupID string
	gm      Participant
	house   Participant

	msgr      Messenger
	store     Store
	collector *Collector
	selector  *words.Selector
	timeouts  Timeouts
	rng       *rand.Rand
	log       zerolog.Logger
	onDone    func(*Session)

	mu         sync.Mutex
	phase      Phase
	allPlayers []Participant
	players    []Participant
	minority   Participant
	hasMinor   bool
	pair       words.Pair
	hasPair    bool

	done chan struct{}
}

func newSession(groupID string, gm, house Participant, roster []Participant, msgr Messenger, store Store, selector *words.Selector, timeouts Timeouts, rng *rand.Rand, log zerolog.Logger, onDone func(*Session)) *Session {
	return &Session{
		groupID:    groupID,
		gm:         gm,
		house:      house,
		msgr:       msgr,
		store:      store,
		collector:  NewCollector(msgr, log),
		selector:   selector,
		timeouts:   timeouts,
		rng:        rng,
		log:        log.With().Str("group", groupID).Logger(),
		onDone:     onDone,
		phase:      PhaseForming,
		allPlayers: roster,
		players:    append([]Participant(nil), roster...),
		done:       make(chan struct{}),
	}
}

// Run executes the full lifecycle. It blocks until resolution completes and is
// meant to be launched on its own goroutine, one per group.
func (s *Session) Run(ctx context.Context) {
	defer close(s.done)
	defer s.onDone(s)

	s.broadcastForming(ctx)

	gameID, err := s.store.CreateGame(ctx, s.groupID, s.gm.ID, false)
	if err != nil {
		gameID = uuid.NewString()
		s.log.Error().Err(err).Str("game", gameID).Msg("game record not persisted, continuing with local id")
	}
	log := s.log.With().Str("game", gameID).Logger()

	s.setPhase(PhaseWordAcquisition)
	s.acquireWords(ctx, gameID)

	s.setPhase(PhaseMinoritySelection)
	s.selectMinority(ctx)

	s.setPhase(PhaseRoleAssignment)
	s.assignRoles(ctx, gameID)

	s.setPhase(PhaseDiscussion)
	s.discuss(ctx)

	s.setPhase(PhaseResolution)
	s.resolve(ctx, gameID)

	s.setPhase(PhaseDone)
	log.Info().Msg("game resolved")
}

// Done is closed once resolution has completed and busy flags are released.
func (s *Session) Done() <-chan struct{} { return s.done }

func (s *Session) GroupID() string { return s.groupID }
func (s *Session) GM() Participant { return s.gm }

func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Roster returns the fixed all-players snapshot.
func (s *Session) Roster() []Participant {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Participant(nil), s.allPlayers...)
}

// Minority reports the dissenting player once one has been assigned.
func (s *Session) Minority() (Participant, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.minority, s.hasMinor
}

// Words reports the pair once word acquisition has resolved.
func (s *Session) Words() (words.Pair, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pair, s.hasPair
}

func (s *Session) isHouseGM() bool { return s.gm.ID == s.house.ID }

func (s *Session) setPhase(p Phase) {
	s.mu.Lock()
	s.phase = p
	s.mu.Unlock()
}

// broadcastForming tells every player who the GM is and who is playing.
func (s *Session) broadcastForming(ctx context.Context) {
	roster := renderRoster(s.allPlayers)
	text := fmt.Sprintf("You're a player! The GM is %s.\nAwaiting their selection of words...\nPlayers: %s", s.gm.Name, roster)
	s.broadcast(ctx, s.allPlayers, text)
}

// acquireWords resolves the game's word pair and binds it to the game record.
func (s *Session) acquireWords(ctx context.Context, gameID string) {
	var pair words.Pair
	if s.isHouseGM() {
		fetched, ok, err := s.store.FetchHouseWordPair(ctx, participantIDs(s.allPlayers), gameID)
		if err != nil {
			s.log.Warn().Err(err).Msg("house word pair lookup failed")
		}
		if ok {
			pair = fetched
		} else {
			pair = s.selector.RandomWords(true, true)
		}
	} else {
		pair = s.collectGMWords(ctx, gameID)
	}

	s.mu.Lock()
	s.pair = pair
	s.hasPair = true
	s.mu.Unlock()

	if err := s.store.BindSpontaneousWordPair(ctx, s.gm.ID, pair, gameID); err != nil {
		s.log.Warn().Err(err).Msg("word pair not persisted")
	}
}

const gmWordPrompt = "You're the GM! Please respond one of the following:\n" +
	"'Majority Word | Minority Word'\n" +
	"'-m' to pick from your pool of words randomly\n" +
	"'-r' to pick from similar words randomly\n" +
	"'-ra' to pick two random words from the same word category\n" +
	"(2 minutes)"

func (s *Session) collectGMWords(ctx context.Context, gameID string) words.Pair {
	reply := s.collector.CollectOne(ctx, s.gm, gmWordPrompt, matchWordSubmission, s.timeouts.WordSubmission)
	if !reply.OK() {
		s.send(ctx, s.gm, "Timeout limit reached: Selecting random words...")
		return s.selector.RandomWords(true, true)
	}

	switch flag := strings.ToLower(strings.TrimSpace(reply.Text)); flag {
	case "-m":
		pair, ok, err := s.store.FetchOwnWordPair(ctx, s.gm.ID, gameID)
		if err != nil {
			s.log.Warn().Err(err).Msg("banked word pair lookup failed")
		}
		if ok {
			return pair
		}
		// Empty bank: one re-prompt cycle for an explicit pair, then random.
		resub := s.collector.CollectOne(ctx, s.gm,
			"You have no submitted words! Please give me 2 words formatted as: 'Majority Word | Minority Word'. (2 minutes)",
			words.Validate, s.timeouts.WordSubmission)
		if !resub.OK() {
			s.send(ctx, s.gm, "Timeout limit reached: Selecting random words...")
			return s.selector.RandomWords(true, true)
		}
		pair, _ = words.ExtractWords(resub.Text)
		return pair
	case "-r":
		return s.selector.RandomWords(true, true)
	case "-ra":
		return s.selector.RandomWords(true, false)
	default:
		pair, _ := words.ExtractWords(reply.Text)
		return pair
	}
}

// selectMinority picks the dissenting player, by the GM's hand or at random,
// and removes them from the majority working set.
func (s *Session) selectMinority(ctx context.Context) {
	n := len(s.players)
	index := s.rng.Intn(n)

	if !s.isHouseGM() {
		choice := s.collector.CollectOne(ctx, s.gm, "Select Minority? (Y/N), (1 minute)", matchYesNo, s.timeouts.MinorityPrompt)
		if choice.OK() && choice.Text == "Y" {
			pick := s.collector.CollectOne(ctx, s.gm, renderRoster(s.players)+"\n(1 minute)", matchIndex(n), s.timeouts.MinorityPick)
			if pick.OK() {
				index, _ = strconv.Atoi(strings.TrimSpace(pick.Text))
				index--
			}
		}
	}

	s.mu.Lock()
	s.minority = s.players[index]
	s.hasMinor = true
	s.players = append(s.players[:index:index], s.players[index+1:]...)
	s.mu.Unlock()
}

// assignRoles privately delivers each word, persists the role map, and arms a
// human GM with the reveal and the early-end instruction.
func (s *Session) assignRoles(ctx context.Context, gameID string) {
	roles := make(map[string]Role, len(s.allPlayers))
	for _, p := range s.players {
		roles[p.ID] = RoleMajority
	}
	roles[s.minority.ID] = RoleMinority

	s.broadcast(ctx, s.players, fmt.Sprintf("Your word is %s.", s.pair.MajorityWord))
	s.send(ctx, s.minority, fmt.Sprintf("Your word is %s.", s.pair.MinorityWord))

	if err := s.store.SetRoleAssignments(ctx, gameID, roles); err != nil {
		s.log.Warn().Err(err).Msg("role assignments not persisted")
	}

	if !s.isHouseGM() {
		s.send(ctx, s.gm, fmt.Sprintf(
			"The minority player is %s with %s. The majority word is %s. Starting 10 minute clock... (Stop the clock and end the game by typing 'end')",
			s.minority.Name, s.pair.MinorityWord, s.pair.MajorityWord))
	}
}

// discuss waits out the discussion window. The window timer and a human GM's
// 'end' signal race; whichever fires first wins and the loser is made inert
// before this returns, so resolution runs exactly once.
func (s *Session) discuss(ctx context.Context) {
	timer := time.NewTimer(s.timeouts.Discussion)
	defer timer.Stop()

	if s.isHouseGM() {
		select {
		case <-timer.C:
		case <-ctx.Done():
		}
		return
	}

	listenCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	earlyEnd := make(chan struct{})
	go func() {
		if _, err := s.msgr.AwaitPrivate(listenCtx, s.gm, matchEnd); err == nil {
			close(earlyEnd)
		}
	}()

	select {
	case <-timer.C:
	case <-earlyEnd:
	case <-ctx.Done():
	}
}

// resolve collects one vote per roster member, decides the winners, runs the
// redemption branch when the minority was caught, and records the outcome.
func (s *Session) resolve(ctx context.Context, gameID string) {
	if !s.isHouseGM() {
		s.send(ctx, s.gm, "Game Time is up! Notify the players.")
	}

	tally := s.collectVotes(ctx)
	majorityWin := tally[s.minority.ID] > len(s.allPlayers)/2

	var b strings.Builder
	for _, p := range s.allPlayers {
		fmt.Fprintf(&b, "%s: %d vote(s).\n", p.Name, tally[p.ID])
	}
	if majorityWin {
		fmt.Fprintf(&b, "%s the minority has been discovered!\nInput if they guess the correct majority word. (Y/N)", s.minority.Name)
	} else {
		fmt.Fprintf(&b, "%s the minority has won!", s.minority.Name)
	}
	votedMsg := b.String()

	if !s.isHouseGM() {
		if majorityWin {
			// The GM adjudicates the minority's guess; a timeout counts as a
			// wrong guess and the majority keeps the win.
			verdict := s.collector.CollectOne(ctx, s.gm, votedMsg+", (5 minutes)", matchYesNo, s.timeouts.GMAdjudication)
			majorityWin = !(verdict.OK() && verdict.Text == "Y")
		} else {
			s.send(ctx, s.gm, votedMsg)
		}
	} else if majorityWin {
		// No human adjudicator: the majority needs a quorum of players
		// confirming the guess was wrong. Timeouts are not confirmations.
		replies := s.collector.Collect(ctx, s.players, votedMsg+", (2 minutes)", matchYesNo, s.timeouts.HouseAdjudication)
		wrongGuess := 0
		for _, r := range replies {
			if r.OK() && r.Text == "N" {
				wrongGuess++
			}
		}
		majorityWin = wrongGuess >= len(s.players)/2
	} else {
		s.broadcast(ctx, s.players, votedMsg)
	}

	winners := []string{s.minority.ID}
	if majorityWin {
		winners = participantIDs(s.players)
	}
	if err := s.store.RecordOutcome(ctx, gameID, winners); err != nil {
		s.log.Error().Err(err).Msg("outcome not persisted")
	}
}

// collectVotes gathers exactly one vote per roster member. A timed-out or
// cancelled slot becomes a uniformly random vote, so the tally always sums to
// the roster size.
func (s *Session) collectVotes(ctx context.Context) map[string]int {
	n := len(s.allPlayers)
	prompt := "Vote for your selection for the minority (3 minutes) :\n" + renderRoster(s.allPlayers)
	replies := s.collector.Collect(ctx, s.allPlayers, prompt, matchIndex(n), s.timeouts.Vote)

	tally := make(map[string]int, n)
	for _, p := range s.allPlayers {
		tally[p.ID] = 0
	}
	for _, p := range s.allPlayers {
		target := s.rng.Intn(n)
		if r := replies[p.ID]; r.OK() {
			idx, _ := strconv.Atoi(strings.TrimSpace(r.Text))
			target = idx - 1
		}
		tally[s.allPlayers[target].ID]++
	}
	return tally
}

func (s *Session) send(ctx context.Context, p Participant, text string) {
	if err := s.msgr.SendPrivate(ctx, p, text); err != nil {
		s.log.Warn().Err(err).Str("participant", p.ID).Msg("private message delivery failed")
	}
}

func (s *Session) broadcast(ctx context.Context, ps []Participant, text string) {
	var wg sync.WaitGroup
	for _, p := range ps {
		wg.Add(1)
		go func(p Participant) {
			defer wg.Done()
			s.send(ctx, p, text)
		}(p)
	}
	wg.Wait()
}

// renderRoster lists participants 1-based, the numbering vote and pick indices
// are matched against.
func renderRoster(ps []Participant) string {
	var b strings.Builder
	for i, p := range ps {
		fmt.Fprintf(&b, "%d: %s, ", i+1, p.Name)
	}
	return b.String()
}

func participantIDs(ps []Participant) []string {
	ids := make([]string, len(ps))
	for i, p := range ps {
		ids[i] = p.ID
	}
	return ids
}

func matchWordSubmission(text string) bool {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "-r", "-ra", "-m":
		return true
	}
	return words.Validate(text)
}

func matchYesNo(text string) bool {
	return text == "Y" || text == "N"
}

func matchEnd(text string) bool {
	return strings.ToLower(text) == "end"
}

// matchIndex accepts 1-based roster indices; anything out of range keeps the
// wait open rather than erroring.
func matchIndex(n int) func(string) bool {
	return func(text string) bool {
		i, err := strconv.Atoi(strings.TrimSpace(text))
		return err == nil && i >= 1 && i <= n
	}
}
