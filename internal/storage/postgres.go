// Package storage archives finished games in Postgres.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/scythe504/sketchroom/internal"
)

var ErrUnexpectedDatabase = errors.New("unexpected database error")

type PostgresArchive struct {
	pool *pgxpool.Pool
}

func NewPostgresArchive(ctx context.Context, connString string) (*PostgresArchive, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping archive database: %w", err)
	}
	return &PostgresArchive{pool: pool}, nil
}

func (a *PostgresArchive) Close() {
	a.pool.Close()
}

// SaveGame writes the game row and its scoreboard in one transaction.
func (a *PostgresArchive) SaveGame(ctx context.Context, result internal.GameResult) error {
	gameID := uuid.New()

	var winner *string
	if result.Winner != nil {
		winner = &result.Winner.Name
	}

	err := pgx.BeginFunc(ctx, a.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx,
			`INSERT INTO games (id, room_id, winner_name, rounds, started_at, ended_at)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			gameID, result.RoomID, winner, result.Rounds, result.StartedAt, result.EndedAt)
		if err != nil {
			return err
		}

		batch := &pgx.Batch{}
		for rank, p := range result.Players {
			batch.Queue(
				`INSERT INTO game_players (game_id, player_id, name, score, rank, correct_guesses, times_drawn)
				 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
				gameID, p.ID, p.Name, p.Score, rank+1, p.CorrectGuesses, p.TimesDrawn)
		}
		return tx.SendBatch(ctx, batch).Close()
	})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return fmt.Errorf("%w: %w", ErrUnexpectedDatabase, err)
	}
	return nil
}

// RecentGames lists the latest finished games, newest first, with scoreboards.
func (a *PostgresArchive) RecentGames(ctx context.Context, limit int) ([]internal.GameResult, error) {
	rows, err := a.pool.Query(ctx,
		`SELECT g.id, g.room_id, g.rounds, g.started_at, g.ended_at,
		        p.player_id, p.name, p.score, p.correct_guesses, p.times_drawn
		   FROM (SELECT * FROM games ORDER BY ended_at DESC LIMIT $1) g
		   JOIN game_players p ON p.game_id = g.id
		  ORDER BY g.ended_at DESC, p.rank ASC`, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnexpectedDatabase, err)
	}
	defer rows.Close()

	var results []internal.GameResult
	index := make(map[uuid.UUID]int)

	for rows.Next() {
		var (
			id     uuid.UUID
			game   internal.GameResult
			player internal.PlayerSnapshot
		)
		if err := rows.Scan(&id, &game.RoomID, &game.Rounds, &game.StartedAt, &game.EndedAt,
			&player.ID, &player.Name, &player.Score, &player.CorrectGuesses, &player.TimesDrawn); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrUnexpectedDatabase, err)
		}

		i, seen := index[id]
		if !seen {
			i = len(results)
			index[id] = i
			results = append(results, game)
		}
		results[i].Players = append(results[i].Players, player)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnexpectedDatabase, err)
	}

	for i := range results {
		if len(results[i].Players) > 0 {
			w := results[i].Players[0]
			results[i].Winner = &w
		}
	}
	return results, nil
}
