package game

import (
	"context"
	"time"

	"github.com/KevinNickolai/wolfbot/internal/words"
)

// Participant is a chat-platform identity. The game references participants by
// their stable id; it never owns their lifecycle.
type Participant struct {
	ID   string
	Name string
}

// Role is a participant's side for one game.
type Role string

const (
	RoleMajority Role = "majority"
	RoleMinority Role = "minority"
)

// Phase tags a session's position in its lifecycle.
type Phase string

const (
	PhaseForming           Phase = "Forming"
	PhaseWordAcquisition   Phase = "WordAcquisition"
	PhaseMinoritySelection Phase = "MinoritySelection"
	PhaseRoleAssignment    Phase = "RoleAssignment"
	PhaseDiscussion        Phase = "Discussion"
	PhaseResolution        Phase = "Resolution"
	PhaseDone              Phase = "Done"
)

// Messenger is the chat collaborator as consumed by the core. SendPrivate is
// fire-and-forget: a delivery failure is reported but never retried here.
//
// AwaitPrivate blocks until the participant's first private message satisfying
// match, or until ctx ends. A reply recorded before the cancellation is
// observed must still be returned (reply wins); afterwards ctx.Err() wins.
// Each call resolves exactly once.
type Messenger interface {
	SendPrivate(ctx context.Context, p Participant, text string) error
	AwaitPrivate(ctx context.Context, p Participant, match func(string) bool) (string, error)
}

// Store is the slice of the storage collaborator the session drives.
type Store interface {
	CreateGame(ctx context.Context, groupID, gameMasterID string, spoofed bool) (string, error)
	SetRoleAssignments(ctx context.Context, gameID string, roles map[string]Role) error
	BindSpontaneousWordPair(ctx context.Context, participantID string, pair words.Pair, gameID string) error
	// FetchOwnWordPair draws one of participantID's unplayed banked pairs,
	// usable-by-house entries first, and binds it to gameID. ok is false when
	// the bank is empty.
	FetchOwnWordPair(ctx context.Context, participantID, gameID string) (pair words.Pair, ok bool, err error)
	// FetchHouseWordPair draws a random unplayed house-usable pair not
	// contributed by any excluded participant and binds it to gameID.
	FetchHouseWordPair(ctx context.Context, excludeParticipantIDs []string, gameID string) (pair words.Pair, ok bool, err error)
	RecordOutcome(ctx context.Context, gameID string, winnerIDs []string) error
}

// Timeouts are the per-step response deadlines of a session.
type Timeouts struct {
	WordSubmission    time.Duration
	MinorityPrompt    time.Duration
	MinorityPick      time.Duration
	Discussion        time.Duration
	Vote              time.Duration
	GMAdjudication    time.Duration
	HouseAdjudication time.Duration
}

func DefaultTimeouts() Timeouts {
	return Timeouts{
		WordSubmission:    2 * time.Minute,
		MinorityPrompt:    time.Minute,
		MinorityPick:      time.Minute,
		Discussion:        10 * time.Minute,
		Vote:              3 * time.Minute,
		GMAdjudication:    5 * time.Minute,
		HouseAdjudication: 2 * time.Minute,
	}
}
