package bot

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/KevinNickolai/wolfbot/internal/discord"
	"github.com/KevinNickolai/wolfbot/internal/game"
	"github.com/KevinNickolai/wolfbot/internal/store"
	"github.com/KevinNickolai/wolfbot/internal/words"
)

// Bot is the prefix-command front end. It parses guild messages into commands
// and drives the lobby, session registry and storage through them.
type Bot struct {
	prefix   string
	registry *game.Registry
	store    store.Store
	chat     *discord.Chat
	selector *words.Selector
	log      zerolog.Logger
	runCtx   context.Context
	rng      *rand.Rand

	commands map[string]*command

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

type command struct {
	name        string
	aliases     []string
	description string
	guildOnly   bool
	run         func(ctx context.Context, req *request)
}

// request carries one invocation's context to a command handler.
type request struct {
	session *discordgo.Session
	message *discordgo.MessageCreate
	args    []string
}

func (r *request) author() game.Participant {
	return game.Participant{ID: r.message.Author.ID, Name: r.message.Author.Username}
}

func New(prefix string, registry *game.Registry, st store.Store, chat *discord.Chat, selector *words.Selector, runCtx context.Context, log zerolog.Logger) *Bot {
	b := &Bot{
		prefix:   prefix,
		registry: registry,
		store:    st,
		chat:     chat,
		selector: selector,
		log:      log,
		runCtx:   runCtx,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		commands: make(map[string]*command),
		limiters: make(map[string]*rate.Limiter),
	}
	b.register()
	return b
}

func (b *Bot) register() {
	for _, cmd := range []*command{
		{name: "join", aliases: []string{"j"}, description: "Join a game of Wolf ('join gm' to queue as Game Master).", guildOnly: true, run: b.join},
		{name: "leave", aliases: []string{"l"}, description: "Leave a Wolf lobby.", guildOnly: true, run: b.leave},
		{name: "start", aliases: []string{"s"}, description: "Start a game of Wolf.", guildOnly: true, run: b.start},
		{name: "reset", aliases: []string{"r"}, description: "Reset a Wolf lobby.", guildOnly: true, run: b.reset},
		{name: "submit", description: "Submit two words for the bot to GM with (-g to share with the house, -r for a random pair).", run: b.submit},
		{name: "spectate", description: "Spectate a running Wolf game.", guildOnly: true, run: b.spectate},
		{name: "stats", description: "View your Word Wolf stats (-t tabular, -s include spoofed).", run: b.stats},
		{name: "history", description: "View your recent Word Wolf games (-s include spoofed).", run: b.history},
		{name: "words", description: "View your submitted words.", run: b.words},
		{name: "spoof", description: "Spoof a Word Wolf game (-w to play in it yourself).", guildOnly: true, run: b.spoof},
		{name: "help", description: "List commands.", run: b.help},
	} {
		b.commands[cmd.name] = cmd
		for _, alias := range cmd.aliases {
			b.commands[alias] = cmd
		}
	}
}

// HandleMessage is registered on the discordgo session.
func (b *Bot) HandleMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot || !strings.HasPrefix(m.Content, b.prefix) {
		return
	}
	if !b.allow(m.Author.ID) {
		b.log.Debug().Str("author", m.Author.ID).Msg("command rate limited")
		return
	}

	name, args := parseCommand(strings.TrimPrefix(m.Content, b.prefix))
	if name == "" {
		return
	}
	cmd, ok := b.commands[name]
	if !ok {
		b.reply(s, m, "Command "+name+" does not exist.")
		return
	}
	if cmd.guildOnly && m.GuildID == "" {
		b.reply(s, m, name+" is a Discord server command only. Please use "+name+" in a server with the bot user.")
		return
	}

	defer func() {
		if r := recover(); r != nil {
			b.log.Error().Interface("panic", r).Str("command", cmd.name).Msg("command handler panicked")
			b.reply(s, m, "Error processing command "+cmd.name)
		}
	}()
	cmd.run(b.runCtx, &request{session: s, message: m, args: args})
}

// parseCommand splits "name arg arg" on whitespace.
func parseCommand(text string) (string, []string) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return "", nil
	}
	return strings.ToLower(fields[0]), fields[1:]
}

// allow enforces a per-user token bucket over all commands.
func (b *Bot) allow(userID string) bool {
	b.mu.Lock()
	limiter, ok := b.limiters[userID]
	if !ok {
		limiter = rate.NewLimiter(1, 5)
		b.limiters[userID] = limiter
	}
	b.mu.Unlock()
	return limiter.Allow()
}

func (b *Bot) reply(s *discordgo.Session, m *discordgo.MessageCreate, text string) {
	if _, err := s.ChannelMessageSendReply(m.ChannelID, text, m.Reference()); err != nil {
		b.log.Warn().Err(err).Str("channel", m.ChannelID).Msg("reply delivery failed")
	}
}

func (b *Bot) react(s *discordgo.Session, m *discordgo.MessageCreate, emoji string) {
	if err := s.MessageReactionAdd(m.ChannelID, m.ID, emoji); err != nil {
		b.log.Warn().Err(err).Str("channel", m.ChannelID).Msg("reaction failed")
	}
}

func (b *Bot) dm(ctx context.Context, p game.Participant, text string) {
	if err := b.chat.SendPrivate(ctx, p, text); err != nil {
		b.log.Warn().Err(err).Str("participant", p.ID).Msg("dm delivery failed")
	}
}

func hasFlag(args []string, flag string) bool {
	for _, a := range args {
		if strings.EqualFold(a, flag) {
			return true
		}
	}
	return false
}
