package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/KevinNickolai/wolfbot/internal/game"
	"github.com/KevinNickolai/wolfbot/internal/words"
)

// uniqueViolation is the PostgreSQL error code for unique_violation.
const uniqueViolation = "23505"

// Postgres is the pgx-backed Store.
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(ctx context.Context, connString string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: %w", ErrDatabase, err)
	}
	return &Postgres{pool: pool}, nil
}

func (pg *Postgres) Close() {
	pg.pool.Close()
}

func (pg *Postgres) CreateGame(ctx context.Context, groupID, gameMasterID string, spoofed bool) (string, error) {
	id := uuid.NewString()
	_, err := pg.pool.Exec(ctx,
		`INSERT INTO games (game_id, guild_id, game_master_id, spoofed) VALUES ($1, $2, $3, $4)`,
		id, groupID, gameMasterID, spoofed)
	if err != nil {
		return "", wrap(err)
	}
	return id, nil
}

func (pg *Postgres) SetRoleAssignments(ctx context.Context, gameID string, roles map[string]game.Role) error {
	batch := &pgx.Batch{}
	for userID, role := range roles {
		batch.Queue(`INSERT INTO game_users (user_id, game_id, role) VALUES ($1, $2, $3)`, userID, gameID, string(role))
	}
	if err := pg.pool.SendBatch(ctx, batch).Close(); err != nil {
		return wrap(err)
	}
	return nil
}

func (pg *Postgres) BankWordPair(ctx context.Context, participantID string, pair words.Pair, usableByHouse bool) (bool, error) {
	_, err := pg.pool.Exec(ctx,
		`INSERT INTO word_pairings (user_id, majority_word, minority_word, allow_for_bot_use) VALUES ($1, $2, $3, $4)`,
		participantID, pair.MajorityWord, pair.MinorityWord, usableByHouse)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return false, nil
		}
		return false, wrap(err)
	}
	return true, nil
}

func (pg *Postgres) BindSpontaneousWordPair(ctx context.Context, participantID string, pair words.Pair, gameID string) error {
	_, err := pg.pool.Exec(ctx,
		`INSERT INTO word_pairings (user_id, majority_word, minority_word, game_id) VALUES ($1, $2, $3, $4)`,
		participantID, pair.MajorityWord, pair.MinorityWord, gameID)
	if err != nil {
		return wrap(err)
	}
	return nil
}

func (pg *Postgres) FetchOwnWordPair(ctx context.Context, participantID, gameID string) (words.Pair, bool, error) {
	row := pg.pool.QueryRow(ctx,
		`UPDATE word_pairings SET game_id = $2
		 WHERE ctid = (
		     SELECT ctid FROM word_pairings
		     WHERE user_id = $1 AND game_id IS NULL
		     ORDER BY allow_for_bot_use DESC, random()
		     LIMIT 1
		 )
		 RETURNING majority_word, minority_word`,
		participantID, gameID)
	return scanPair(row)
}

func (pg *Postgres) FetchHouseWordPair(ctx context.Context, excludeParticipantIDs []string, gameID string) (words.Pair, bool, error) {
	row := pg.pool.QueryRow(ctx,
		`UPDATE word_pairings SET game_id = $2
		 WHERE ctid = (
		     SELECT ctid FROM word_pairings
		     WHERE game_id IS NULL AND allow_for_bot_use
		       AND NOT (user_id = ANY(COALESCE($1::text[], '{}')))
		     ORDER BY random()
		     LIMIT 1
		 )
		 RETURNING majority_word, minority_word`,
		excludeParticipantIDs, gameID)
	return scanPair(row)
}

func (pg *Postgres) RecordOutcome(ctx context.Context, gameID string, winnerIDs []string) error {
	_, err := pg.pool.Exec(ctx,
		`UPDATE game_users SET win = (user_id = ANY($2)) WHERE game_id = $1`,
		gameID, winnerIDs)
	if err != nil {
		return wrap(err)
	}
	return nil
}

func (pg *Postgres) ViewWordPairs(ctx context.Context, participantID string) ([]WordRecord, error) {
	rows, err := pg.pool.Query(ctx,
		`SELECT majority_word, minority_word, COALESCE(game_id::text, ''), allow_for_bot_use, created_at
		 FROM word_pairings WHERE user_id = $1 ORDER BY created_at`,
		participantID)
	if err != nil {
		return nil, wrap(err)
	}
	defer rows.Close()

	var out []WordRecord
	for rows.Next() {
		var rec WordRecord
		if err := rows.Scan(&rec.Pair.MajorityWord, &rec.Pair.MinorityWord, &rec.GameID, &rec.UsableByHouse, &rec.CreatedAt); err != nil {
			return nil, wrap(err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (pg *Postgres) Stats(ctx context.Context, participantID string, includeSpoofed bool) (Stats, error) {
	var st Stats

	rows, err := pg.pool.Query(ctx,
		`SELECT gu.role, gu.win, count(*)
		 FROM game_users gu JOIN games g ON g.game_id = gu.game_id
		 WHERE gu.user_id = $1 AND gu.win IS NOT NULL AND ($2 OR NOT g.spoofed)
		 GROUP BY gu.role, gu.win`,
		participantID, includeSpoofed)
	if err != nil {
		return Stats{}, wrap(err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			role  string
			win   bool
			count int
		)
		if err := rows.Scan(&role, &win, &count); err != nil {
			return Stats{}, wrap(err)
		}
		bucket := &st.Majority
		if game.Role(role) == game.RoleMinority {
			bucket = &st.Minority
		}
		bucket.GamesPlayed += count
		st.All.GamesPlayed += count
		if win {
			bucket.Wins += count
			st.All.Wins += count
		}
	}
	if err := rows.Err(); err != nil {
		return Stats{}, wrap(err)
	}

	err = pg.pool.QueryRow(ctx,
		`SELECT count(*) FROM games WHERE game_master_id = $1 AND ($2 OR NOT spoofed)`,
		participantID, includeSpoofed).Scan(&st.GamesGM)
	if err != nil {
		return Stats{}, wrap(err)
	}
	err = pg.pool.QueryRow(ctx,
		`SELECT count(*) FROM word_pairings WHERE user_id = $1`,
		participantID).Scan(&st.WordPairsSubmitted)
	if err != nil {
		return Stats{}, wrap(err)
	}
	return st, nil
}

func (pg *Postgres) History(ctx context.Context, participantID string, limit int, includeSpoofed bool) ([]GameRecord, error) {
	rows, err := pg.pool.Query(ctx,
		`SELECT g.game_master_id, g.created_at, gu.role, gu.win,
		        COALESCE(wp.majority_word, ''), COALESCE(wp.minority_word, ''),
		        (SELECT count(*) FROM game_users x WHERE x.game_id = g.game_id)
		 FROM game_users gu
		 JOIN games g ON g.game_id = gu.game_id
		 LEFT JOIN word_pairings wp ON wp.game_id = g.game_id
		 WHERE gu.user_id = $1 AND gu.win IS NOT NULL AND ($3 OR NOT g.spoofed)
		 ORDER BY g.created_at DESC
		 LIMIT $2`,
		participantID, limit, includeSpoofed)
	if err != nil {
		return nil, wrap(err)
	}
	defer rows.Close()

	var out []GameRecord
	for rows.Next() {
		var (
			rec  GameRecord
			role string
		)
		if err := rows.Scan(&rec.GameMasterID, &rec.PlayedOn, &role, &rec.Win,
			&rec.Pair.MajorityWord, &rec.Pair.MinorityWord, &rec.PlayerCount); err != nil {
			return nil, wrap(err)
		}
		rec.Role = game.Role(role)
		out = append(out, rec)
	}
	return out, rows.Err()
}

func scanPair(row pgx.Row) (words.Pair, bool, error) {
	var pair words.Pair
	err := row.Scan(&pair.MajorityWord, &pair.MinorityWord)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return words.Pair{}, false, nil
	case err != nil:
		return words.Pair{}, false, wrap(err)
	}
	return pair, true, nil
}

func wrap(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrDatabase, err)
}
