package game

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectOneReply(t *testing.T) {
	msgr := newFakeMessenger()
	msgr.script("a", "Y")
	c := NewCollector(msgr, zerolog.Nop())

	reply := c.CollectOne(context.Background(), participant("a"), "confirm?", matchYesNo, time.Second)
	require.True(t, reply.OK())
	assert.Equal(t, "Y", reply.Text)
	assert.Equal(t, []string{"confirm?"}, msgr.sentTo("a"))
}

func TestCollectOneTimeout(t *testing.T) {
	msgr := newFakeMessenger()
	c := NewCollector(msgr, zerolog.Nop())

	reply := c.CollectOne(context.Background(), participant("a"), "confirm?", matchYesNo, 30*time.Millisecond)
	assert.False(t, reply.OK())
	assert.True(t, reply.TimedOut)
	assert.NoError(t, reply.Err)
}

func TestCollectOneIgnoresNonMatching(t *testing.T) {
	msgr := newFakeMessenger()
	msgr.script("a", "maybe?")
	c := NewCollector(msgr, zerolog.Nop())

	// The queued reply never qualifies, so the wait runs out the clock.
	reply := c.CollectOne(context.Background(), participant("a"), "confirm?", matchYesNo, 30*time.Millisecond)
	assert.True(t, reply.TimedOut)
}

func TestCollectOneCancelled(t *testing.T) {
	msgr := newFakeMessenger()
	c := NewCollector(msgr, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	reply := c.CollectOne(ctx, participant("a"), "confirm?", matchYesNo, time.Second)
	assert.False(t, reply.OK())
	assert.False(t, reply.TimedOut, "cancellation is not a timeout")
	assert.ErrorIs(t, reply.Err, context.Canceled)
}

func TestCollectIndependentSlots(t *testing.T) {
	msgr := newFakeMessenger()
	msgr.script("fast", "Y")
	c := NewCollector(msgr, zerolog.Nop())

	start := time.Now()
	replies := c.Collect(context.Background(), participants("fast", "silent", "mute"), "confirm?", matchYesNo, 60*time.Millisecond)
	elapsed := time.Since(start)

	require.Len(t, replies, 3)
	assert.True(t, replies["fast"].OK())
	assert.Equal(t, "Y", replies["fast"].Text)
	assert.True(t, replies["silent"].TimedOut)
	assert.True(t, replies["mute"].TimedOut)

	// Silent recipients wait in parallel, not back to back.
	assert.Less(t, elapsed, 500*time.Millisecond)
}
