package storage

import (
	"database/sql"
	"fmt"
	"time"
)

// ScoreEntry is one finished run.
type ScoreEntry struct {
	ID        int64
	GameID    string
	Player    string
	Score     int
	Depth     int
	CreatedAt time.Time
}

// GameStats aggregates every run recorded for a game.
type GameStats struct {
	GameID     string
	GamesCount int
	HighScore  int
	AvgScore   float64
	TotalScore int64
	MaxDepth   int
	LastPlayed time.Time
}

const scoreColumns = "id, game_id, player, score, depth, created_at"

// SaveScore records a run and returns its ID. Depth is at least 1.
func (s *Store) SaveScore(e ScoreEntry) (int64, error) {
	res, err := s.db.Exec(
		"INSERT INTO scores (game_id, player, score, depth) VALUES (?, ?, ?, ?)",
		e.GameID, e.Player, e.Score, max(1, e.Depth),
	)
	if err != nil {
		return 0, fmt.Errorf("storage: save score for %s: %w", e.GameID, err)
	}
	return res.LastInsertId()
}

// TopScores returns the best limit runs of a game, highest score first and
// deeper runs first among equal scores. A non-positive limit means 10.
func (s *Store) TopScores(gameID string, limit int) ([]ScoreEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.queryScores(
		"SELECT "+scoreColumns+" FROM scores WHERE game_id = ? ORDER BY score DESC, depth DESC LIMIT ?",
		gameID, limit)
}

// AllScores returns every run of a game in TopScores order.
func (s *Store) AllScores(gameID string) ([]ScoreEntry, error) {
	return s.queryScores(
		"SELECT "+scoreColumns+" FROM scores WHERE game_id = ? ORDER BY score DESC, depth DESC",
		gameID)
}

func (s *Store) queryScores(query string, args ...any) ([]ScoreEntry, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: query scores: %w", err)
	}
	defer rows.Close()

	var out []ScoreEntry
	for rows.Next() {
		var (
			e  ScoreEntry
			at any
		)
		if err := rows.Scan(&e.ID, &e.GameID, &e.Player, &e.Score, &e.Depth, &at); err != nil {
			return nil, fmt.Errorf("storage: scan score: %w", err)
		}
		e.CreatedAt = scanTime(at)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: query scores: %w", err)
	}
	return out, nil
}

// HighScore returns a game's best score, 0 when it has none.
func (s *Store) HighScore(gameID string) (int, error) {
	var best sql.NullInt64
	if err := s.db.QueryRow("SELECT MAX(score) FROM scores WHERE game_id = ?", gameID).Scan(&best); err != nil {
		return 0, fmt.Errorf("storage: high score for %s: %w", gameID, err)
	}
	return int(best.Int64), nil
}

// ClearScores deletes every run of a game.
func (s *Store) ClearScores(gameID string) error {
	if _, err := s.db.Exec("DELETE FROM scores WHERE game_id = ?", gameID); err != nil {
		return fmt.Errorf("storage: clear scores for %s: %w", gameID, err)
	}
	return nil
}

// GetGameStats aggregates a game's runs. A game with no runs gets zero
// stats, not an error.
func (s *Store) GetGameStats(gameID string) (*GameStats, error) {
	st := &GameStats{GameID: gameID}
	var last any
	err := s.db.QueryRow(`
		SELECT COUNT(*), COALESCE(MAX(score), 0), COALESCE(AVG(score), 0),
		       COALESCE(SUM(score), 0), COALESCE(MAX(depth), 0), MAX(created_at)
		FROM scores WHERE game_id = ?`, gameID,
	).Scan(&st.GamesCount, &st.HighScore, &st.AvgScore, &st.TotalScore, &st.MaxDepth, &last)
	if err != nil {
		return nil, fmt.Errorf("storage: stats for %s: %w", gameID, err)
	}
	st.LastPlayed = scanTime(last)
	return st, nil
}
