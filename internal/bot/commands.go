package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/KevinNickolai/wolfbot/internal/game"
	"github.com/KevinNickolai/wolfbot/internal/store"
	"github.com/KevinNickolai/wolfbot/internal/words"
)

const submitReplyWindow = 2 * time.Minute

func (b *Bot) join(_ context.Context, req *request) {
	lobby := b.registry.Lobby(req.message.GuildID)
	if len(req.args) > 0 && strings.EqualFold(req.args[0], "gm") {
		lobby.JoinAsGM(req.author())
		b.react(req.session, req.message, "🎲")
		return
	}
	lobby.Join(req.author())
	b.react(req.session, req.message, "🐺")
}

func (b *Bot) leave(_ context.Context, req *request) {
	b.registry.Lobby(req.message.GuildID).Leave(req.author())
}

func (b *Bot) start(ctx context.Context, req *request) {
	_, err := b.registry.StartGame(ctx, req.message.GuildID)
	switch {
	case err == nil:
		b.log.Info().Str("group", req.message.GuildID).Msg("game started")
	case errors.Is(err, game.ErrGameInProgress):
		// A start during a running game is silently ignored.
	default:
		b.reply(req.session, req.message, capitalize(err.Error()))
	}
}

func (b *Bot) reset(_ context.Context, req *request) {
	b.registry.ResetLobby(req.message.GuildID)
}

func (b *Bot) submit(ctx context.Context, req *request) {
	usableByHouse := hasFlag(req.args, "-g")

	if hasFlag(req.args, "-r") {
		b.bankPair(ctx, req, b.selector.RandomWords(true, true), usableByHouse)
		return
	}

	b.reply(req.session, req.message, "Please give me 2 words formatted as: 'Majority Word | Minority Word'")

	waitCtx, cancel := context.WithTimeout(ctx, submitReplyWindow)
	defer cancel()
	var (
		text string
		err  error
	)
	if req.message.GuildID == "" {
		text, err = b.chat.AwaitPrivate(waitCtx, req.author(), words.Validate)
	} else {
		text, err = b.chat.AwaitChannel(waitCtx, req.message.ChannelID, req.message.Author.ID, words.Validate)
	}
	if err != nil {
		return
	}
	pair, _ := words.ExtractWords(text)
	b.bankPair(ctx, req, pair, usableByHouse)
}

func (b *Bot) bankPair(ctx context.Context, req *request, pair words.Pair, usableByHouse bool) {
	accepted, err := b.store.BankWordPair(ctx, req.message.Author.ID, pair, usableByHouse)
	if err != nil {
		b.log.Warn().Err(err).Msg("word pair submission failed")
		accepted = false
	}
	if accepted {
		b.reply(req.session, req.message, "Valid word submission accepted!")
	} else {
		b.reply(req.session, req.message, "Invalid word submission.")
	}
}

func (b *Bot) spectate(ctx context.Context, req *request) {
	session, ok := b.registry.Session(req.message.GuildID)
	if !ok {
		return
	}
	for _, p := range session.Roster() {
		if p.ID == req.message.Author.ID {
			return
		}
	}

	names := make([]string, 0, len(session.Roster()))
	for _, p := range session.Roster() {
		names = append(names, p.Name)
	}
	pair, _ := session.Words()
	minorityName := "undecided"
	if minority, chosen := session.Minority(); chosen {
		minorityName = minority.Name
	}
	b.dm(ctx, req.author(), fmt.Sprintf(
		"GM: %s\nPlayers: %s\nMajority Word: ||%s||\nMinority Word: ||%s||\nMinority: ||%s||",
		session.GM().Name, strings.Join(names, ", "), pair.MajorityWord, pair.MinorityWord, minorityName))
}

func (b *Bot) stats(ctx context.Context, req *request) {
	target := req.author()
	if len(req.message.Mentions) > 0 {
		target = game.Participant{ID: req.message.Mentions[0].ID, Name: req.message.Mentions[0].Username}
	}
	st, err := b.store.Stats(ctx, target.ID, hasFlag(req.args, "-s"))
	if err != nil {
		b.log.Warn().Err(err).Msg("stats lookup failed")
		return
	}
	b.reply(req.session, req.message, formatStats(target.Name, st, hasFlag(req.args, "-t")))
}

func (b *Bot) history(ctx context.Context, req *request) {
	records, err := b.store.History(ctx, req.message.Author.ID, store.HistoryGameCount, hasFlag(req.args, "-s"))
	if err != nil {
		b.log.Warn().Err(err).Msg("history lookup failed")
		return
	}
	b.reply(req.session, req.message, formatHistory(req.message.Author.ID, records))
}

func (b *Bot) words(ctx context.Context, req *request) {
	records, err := b.store.ViewWordPairs(ctx, req.message.Author.ID)
	if err != nil {
		b.log.Warn().Err(err).Msg("word pair lookup failed")
		return
	}
	b.dm(ctx, req.author(), formatWords(records))
}

// spoof synthesizes an already-played game against random guild members. With
// -w the caller plays in it and the guild owner GMs.
func (b *Bot) spoof(ctx context.Context, req *request) {
	will := hasFlag(req.args, "-w")

	gmID := req.message.Author.ID
	if will {
		guild, err := req.session.State.Guild(req.message.GuildID)
		if err != nil {
			b.log.Warn().Err(err).Msg("guild lookup failed")
			return
		}
		gmID = guild.OwnerID
	}

	gameID, err := b.store.CreateGame(ctx, req.message.GuildID, gmID, true)
	if err != nil {
		b.log.Warn().Err(err).Msg("spoofed game not created")
		return
	}

	_, ok, err := b.store.FetchHouseWordPair(ctx, nil, gameID)
	if err != nil {
		b.log.Warn().Err(err).Msg("house word pair lookup failed")
	}
	if !ok {
		_, ok, err = b.store.FetchOwnWordPair(ctx, gmID, gameID)
		if err != nil {
			b.log.Warn().Err(err).Msg("banked word pair lookup failed")
		}
	}
	if !ok {
		b.reply(req.session, req.message, "There aren't any available words to play with!")
		return
	}

	members, err := b.chat.GuildMembers(ctx, req.message.GuildID)
	if err != nil {
		b.log.Warn().Err(err).Msg("guild member listing failed")
		return
	}
	pool := make([]game.Participant, 0, len(members))
	for _, m := range members {
		if m.ID != gmID && m.ID != req.message.Author.ID {
			pool = append(pool, m)
		}
	}

	roster := make([]game.Participant, 0, 8)
	if will {
		roster = append(roster, req.author())
	}
	count := b.rng.Intn(4) + 3
	if will {
		count--
	}
	for i := 0; i < count && len(pool) > 0; i++ {
		pick := b.rng.Intn(len(pool))
		roster = append(roster, pool[pick])
		pool = append(pool[:pick], pool[pick+1:]...)
	}

	if len(roster) == 0 {
		b.reply(req.session, req.message, "Not enough members to spoof a game with!")
		return
	}

	minority := b.rng.Intn(len(roster))
	roles := make(map[string]game.Role, len(roster))
	for i, p := range roster {
		if i == minority {
			roles[p.ID] = game.RoleMinority
		} else {
			roles[p.ID] = game.RoleMajority
		}
	}
	if err := b.store.SetRoleAssignments(ctx, gameID, roles); err != nil {
		b.log.Warn().Err(err).Msg("spoofed roles not persisted")
		return
	}

	winningRole := game.RoleMinority
	if b.rng.Intn(2) == 1 {
		winningRole = game.RoleMajority
	}
	var winners []string
	for id, role := range roles {
		if role == winningRole {
			winners = append(winners, id)
		}
	}
	if err := b.store.RecordOutcome(ctx, gameID, winners); err != nil {
		b.log.Warn().Err(err).Msg("spoofed outcome not persisted")
		return
	}
	b.reply(req.session, req.message, "Game spoofed! WOW that was a lot of fun!")
}

func (b *Bot) help(_ context.Context, req *request) {
	seen := make(map[string]struct{}, len(b.commands))
	var lines []string
	for _, cmd := range b.commands {
		if _, dup := seen[cmd.name]; dup {
			continue
		}
		seen[cmd.name] = struct{}{}
		lines = append(lines, fmt.Sprintf("%s%s: %s", b.prefix, cmd.name, cmd.description))
	}
	sortStrings(lines)
	b.reply(req.session, req.message, strings.Join(lines, "\n"))
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
