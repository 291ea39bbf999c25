package game

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Reply is the outcome of one recipient's slot in a collection. Exactly one of
// the three shapes occurs: a matched reply, a timeout, or a cancellation.
type Reply struct {
	Text     string
	TimedOut bool
	Err      error
}

// OK reports whether a real reply was recorded.
func (r Reply) OK() bool {
	return !r.TimedOut && r.Err == nil
}

// Collector prompts recipients privately and gathers their first qualifying
// replies under a shared deadline. Recipients are fully independent: slots are
// filled in parallel and one recipient timing out never delays another.
type Collector struct {
	msgr Messenger
	log  zerolog.Logger
}

func NewCollector(m Messenger, log zerolog.Logger) *Collector {
	return &Collector{msgr: m, log: log}
}

// Collect fans prompt out to every recipient and waits up to timeout for a
// reply matching match from each. The result always holds one entry per
// recipient id.
func (c *Collector) Collect(ctx context.Context, recipients []Participant, prompt string, match func(string) bool, timeout time.Duration) map[string]Reply {
	replies := make([]Reply, len(recipients))
	var wg sync.WaitGroup
	for i, p := range recipients {
		wg.Add(1)
		go func(i int, p Participant) {
			defer wg.Done()
			replies[i] = c.CollectOne(ctx, p, prompt, match, timeout)
		}(i, p)
	}
	wg.Wait()

	out := make(map[string]Reply, len(recipients))
	for i, p := range recipients {
		out[p.ID] = replies[i]
	}
	return out
}

// CollectOne prompts a single recipient and waits for one qualifying reply.
// Non-matching messages are ignored, not errors; the wait continues until the
// deadline. Send failures are logged and the wait proceeds regardless.
func (c *Collector) CollectOne(ctx context.Context, p Participant, prompt string, match func(string) bool, timeout time.Duration) Reply {
	if err := c.msgr.SendPrivate(ctx, p, prompt); err != nil {
		c.log.Warn().Err(err).Str("participant", p.ID).Msg("prompt delivery failed")
	}

	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	text, err := c.msgr.AwaitPrivate(waitCtx, p, match)
	switch {
	case err == nil:
		return Reply{Text: text}
	case errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil:
		return Reply{TimedOut: true}
	default:
		return Reply{Err: err}
	}
}
