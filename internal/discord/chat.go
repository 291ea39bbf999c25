package discord

import (
	"context"
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"

	"github.com/KevinNickolai/wolfbot/internal/game"
)

// Chat adapts a discordgo session to the chat collaborator the game consumes.
// Inbound messages are routed to registered waiters; a message no waiter wants
// is dropped.
type Chat struct {
	session *discordgo.Session
	inbox   mailbox
	log     zerolog.Logger
}

func New(session *discordgo.Session, log zerolog.Logger) *Chat {
	c := &Chat{
		session: session,
		inbox:   mailbox{waiters: make(map[string][]*waiter)},
		log:     log,
	}
	session.AddHandler(c.onMessage)
	return c
}

// SendPrivate delivers text to the participant's DM channel. Fire-and-forget:
// the caller treats failures as best-effort.
func (c *Chat) SendPrivate(ctx context.Context, p game.Participant, text string) error {
	channel, err := c.session.UserChannelCreate(p.ID, discordgo.WithContext(ctx))
	if err != nil {
		return err
	}
	_, err = c.session.ChannelMessageSend(channel.ID, text, discordgo.WithContext(ctx))
	return err
}

// AwaitPrivate blocks until the participant's next DM satisfying match, or
// until ctx ends. A reply that was recorded before cancellation was observed
// wins over the cancellation.
func (c *Chat) AwaitPrivate(ctx context.Context, p game.Participant, match func(string) bool) (string, error) {
	return c.await(ctx, dmScope(p.ID), match)
}

// AwaitChannel is AwaitPrivate for a guild channel, filtered to one author.
func (c *Chat) AwaitChannel(ctx context.Context, channelID, authorID string, match func(string) bool) (string, error) {
	return c.await(ctx, channelScope(channelID, authorID), match)
}

func (c *Chat) await(ctx context.Context, scope string, match func(string) bool) (string, error) {
	w := &waiter{match: match, ch: make(chan string, 1)}
	c.inbox.add(scope, w)
	defer c.inbox.remove(scope, w)

	select {
	case text := <-w.ch:
		return text, nil
	case <-ctx.Done():
		select {
		case text := <-w.ch:
			return text, nil
		default:
			return "", ctx.Err()
		}
	}
}

// GuildMembers lists the guild's human members as participants.
func (c *Chat) GuildMembers(ctx context.Context, guildID string) ([]game.Participant, error) {
	members, err := c.session.GuildMembers(guildID, "", 1000, discordgo.WithContext(ctx))
	if err != nil {
		return nil, err
	}
	out := make([]game.Participant, 0, len(members))
	for _, m := range members {
		if m.User == nil || m.User.Bot {
			continue
		}
		out = append(out, game.Participant{ID: m.User.ID, Name: m.User.Username})
	}
	return out, nil
}

func (c *Chat) onMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}
	scope := dmScope(m.Author.ID)
	if m.GuildID != "" {
		scope = channelScope(m.ChannelID, m.Author.ID)
	}
	if !c.inbox.dispatch(scope, m.Content) && m.GuildID == "" {
		c.log.Debug().Str("author", m.Author.ID).Msg("unsolicited dm dropped")
	}
}

func dmScope(userID string) string { return "dm:" + userID }

func channelScope(channelID, userID string) string { return "ch:" + channelID + ":" + userID }

type waiter struct {
	match func(string) bool
	ch    chan string
}

// mailbox routes a scoped message to the first registered waiter whose
// predicate accepts it. The buffered waiter channel makes the first writer
// win: a slot is filled at most once.
type mailbox struct {
	mu      sync.Mutex
	waiters map[string][]*waiter
}

func (mb *mailbox) add(scope string, w *waiter) {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	mb.waiters[scope] = append(mb.waiters[scope], w)
}

func (mb *mailbox) remove(scope string, w *waiter) {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	ws := mb.waiters[scope]
	for i, candidate := range ws {
		if candidate == w {
			mb.waiters[scope] = append(ws[:i:i], ws[i+1:]...)
			return
		}
	}
}

func (mb *mailbox) dispatch(scope, text string) bool {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	ws := mb.waiters[scope]
	for i, w := range ws {
		if !w.match(text) {
			continue
		}
		select {
		case w.ch <- text:
			mb.waiters[scope] = append(ws[:i:i], ws[i+1:]...)
			return true
		default:
			// Slot already filled; the waiter is on its way out.
		}
	}
	return false
}
