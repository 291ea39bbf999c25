package game

import (
	"errors"
	"fmt"
)

var (
	ErrGameInProgress = errors.New("a game is already running in this group")
	ErrPlayersBusy    = errors.New("queued players are busy in another active flow")
)

// NotEnoughPlayersError reports a refused start with the count the group
// currently has.
type NotEnoughPlayersError struct {
	Count int
}

func (e NotEnoughPlayersError) Error() string {
	return fmt.Sprintf("not enough players to start: current player count is %d", e.Count)
}
