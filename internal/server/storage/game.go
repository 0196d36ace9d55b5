package storage

import (
	"database/sql"
	"fmt"
)

// RecordNewGame queues the games row
func (s *Store) RecordNewGame(record GameRecord) {
	s.enqueue("game", func(tx *sql.Tx) error {
		_, err := tx.Exec(`INSERT INTO games (
			game_id, initial_position, red_player_id, black_player_id, start_time_utc
		) VALUES (?, ?, ?, ?, ?)`,
			record.GameID, record.InitialPosition,
			record.RedPlayerID, record.BlackPlayerID, record.StartTimeUTC,
		)
		return err
	})
}

func (s *Store) RecordMove(record MoveRecord) {
	s.enqueue("move", func(tx *sql.Tx) error {
		_, err := tx.Exec(`INSERT INTO moves (
			game_id, move_number, move_notation, position_after_move, player_color, move_time_utc
		) VALUES (?, ?, ?, ?, ?, ?)`,
			record.GameID, record.MoveNumber, record.MoveNotation,
			record.PositionAfterMove, record.PlayerColor, record.MoveTimeUTC,
		)
		return err
	})
}

// DeleteUndoneMoves removes moves numbered above afterMoveNumber so the
// move numbers stay unique when play resumes after an undo
func (s *Store) DeleteUndoneMoves(gameID string, afterMoveNumber int) {
	s.enqueue("undo", func(tx *sql.Tx) error {
		_, err := tx.Exec(`DELETE FROM moves WHERE game_id = ? AND move_number > ?`, gameID, afterMoveNumber)
		return err
	})
}

// QueryGames lists games, newest first. Empty or "*" filters match everything.
func (s *Store) QueryGames(gameID, playerID string) ([]GameRecord, error) {
	query := `SELECT game_id, initial_position, red_player_id, black_player_id, start_time_utc
	FROM games WHERE 1=1`
	var args []any

	if gameID != "" && gameID != "*" {
		query += " AND game_id = ?"
		args = append(args, gameID)
	}
	if playerID != "" && playerID != "*" {
		query += " AND (red_player_id = ? OR black_player_id = ?)"
		args = append(args, playerID, playerID)
	}
	query += " ORDER BY start_time_utc DESC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query games: %w", err)
	}
	defer rows.Close()

	var games []GameRecord
	for rows.Next() {
		var g GameRecord
		if err := rows.Scan(&g.GameID, &g.InitialPosition, &g.RedPlayerID, &g.BlackPlayerID, &g.StartTimeUTC); err != nil {
			return nil, fmt.Errorf("scan game: %w", err)
		}
		games = append(games, g)
	}
	return games, rows.Err()
}

// QueryMoves returns the recorded moves of a game in play order
func (s *Store) QueryMoves(gameID string) ([]MoveRecord, error) {
	rows, err := s.db.Query(`SELECT move_id, game_id, move_number, move_notation,
		position_after_move, player_color, move_time_utc
	FROM moves WHERE game_id = ? ORDER BY move_number`, gameID)
	if err != nil {
		return nil, fmt.Errorf("query moves: %w", err)
	}
	defer rows.Close()

	var moves []MoveRecord
	for rows.Next() {
		var m MoveRecord
		err := rows.Scan(&m.MoveID, &m.GameID, &m.MoveNumber, &m.MoveNotation,
			&m.PositionAfterMove, &m.PlayerColor, &m.MoveTimeUTC)
		if err != nil {
			return nil, fmt.Errorf("scan move: %w", err)
		}
		moves = append(moves, m)
	}
	return moves, rows.Err()
}
