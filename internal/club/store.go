package club

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// New creates a new ClubStore.
func New(db *sql.DB) ClubStore {
	return &store{
		db: db,
	}
}

const playerColumns = "id, name, rating, matches_played, division_id, slack_user_id, language, updated_at"

// UpsertPlayer inserts a player or refreshes their name. Ratings are only ever
// written by ApplyRatingChanges, so an existing rating is left untouched.
func (s *store) UpsertPlayer(player Player) error {
	return s.UpsertPlayers([]Player{player})
}

func (s *store) UpsertPlayers(players []Player) error {
	if len(players) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare(`
		INSERT INTO players (id, name, rating, division_id, language, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = CASE WHEN excluded.name != '' THEN excluded.name ELSE players.name END,
			language = CASE WHEN excluded.language != '' THEN excluded.language ELSE players.language END;
	`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	now := time.Now().Unix()
	for _, p := range players {
		divisionID := p.DivisionID
		if divisionID == 0 {
			divisionID = 1
		}
		if _, err := stmt.Exec(p.ID, p.Name, p.Rating, divisionID, p.Language, now); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to upsert player %s: %w", p.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	log.Debug("Upserted players", "count", len(players))
	return nil
}

// GetPlayer returns a single player or ErrPlayerNotFound.
func (s *store) GetPlayer(playerID string) (*Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRow("SELECT "+playerColumns+" FROM players WHERE id = ?", playerID)
	p, err := scanPlayer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrPlayerNotFound, playerID)
	}
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return p, nil
}

// GetPlayers returns the known players among playerIDs, in no particular order.
func (s *store) GetPlayers(playerIDs []string) ([]Player, error) {
	if len(playerIDs) == 0 {
		return []Player{}, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(playerIDs)), ",")
	rows, err := s.db.Query("SELECT "+playerColumns+" FROM players WHERE id IN ("+placeholders+")", ToAnySlice(playerIDs)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPlayers(rows)
}

// GetLeaderboard returns players ordered by rating. A limit of zero returns everyone.
func (s *store) GetLeaderboard(limit int) ([]Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := "SELECT " + playerColumns + " FROM players ORDER BY rating DESC, matches_played DESC, name ASC"
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.Query(query, args...)
	if err != nil {
		log.Error("Failed to query leaderboard", "error", err)
		return nil, err
	}
	defer rows.Close()
	return scanPlayers(rows)
}

func (s *store) IsKnownPlayer(playerID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var exists bool
	err := s.db.QueryRow("SELECT EXISTS(SELECT 1 FROM players WHERE id = ?)", playerID).Scan(&exists)
	if err != nil {
		log.Error("Failed to check if player exists", "error", err, "playerID", playerID)
		return false
	}
	return exists
}

// LinkSlackUser stores the Slack member that receives a player's notifications.
func (s *store) LinkSlackUser(playerID, slackUserID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec("UPDATE players SET slack_user_id = ? WHERE id = ?", slackUserID, playerID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrPlayerNotFound, playerID)
	}
	return nil
}

func (s *store) IsMatchRated(matchID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var exists bool
	err := s.db.QueryRow("SELECT EXISTS(SELECT 1 FROM rated_matches WHERE id = ?)", matchID).Scan(&exists)
	return exists, err
}

// ApplyRatingChanges records the match, writes every player's new rating and
// appends the history rows in one transaction. Applying the same match twice
// returns ErrMatchAlreadyRated and changes nothing. Each update only applies
// while the stored rating still equals OldRating; otherwise the transaction is
// rolled back with ErrStaleRating.
func (s *store) ApplyRatingChanges(match RatedMatch, updates []RatingUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}

	var exists bool
	if err := tx.QueryRow("SELECT EXISTS(SELECT 1 FROM rated_matches WHERE id = ?)", match.ID).Scan(&exists); err != nil {
		tx.Rollback()
		return err
	}
	if exists {
		tx.Rollback()
		return fmt.Errorf("%w: %s", ErrMatchAlreadyRated, match.ID)
	}

	if match.RatedAt == 0 {
		match.RatedAt = time.Now().Unix()
	}
	_, err = tx.Exec(`
		INSERT INTO rated_matches (id, source, score, team1_won, team1_player1, team1_player2, team2_player1, team2_player2, team1_delta, team2_delta, played_at, rated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		match.ID, match.Source, match.Score, match.Team1Won,
		match.Team1[0], match.Team1[1], match.Team2[0], match.Team2[1],
		match.Team1Delta, match.Team2Delta, match.PlayedAt, match.RatedAt,
	)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to insert rated match: %w", err)
	}

	for _, u := range updates {
		res, err := tx.Exec(`
			UPDATE players SET rating = ?, division_id = ?, matches_played = matches_played + 1, updated_at = ?
			WHERE id = ? AND rating = ?`, u.NewRating, u.DivisionID, match.RatedAt, u.PlayerID, u.OldRating)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to update rating of %s: %w", u.PlayerID, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			var known bool
			err := tx.QueryRow("SELECT EXISTS(SELECT 1 FROM players WHERE id = ?)", u.PlayerID).Scan(&known)
			tx.Rollback()
			if err != nil {
				return err
			}
			if !known {
				return fmt.Errorf("%w: %s", ErrPlayerNotFound, u.PlayerID)
			}
			return fmt.Errorf("%w: %s", ErrStaleRating, u.PlayerID)
		}
		_, err = tx.Exec(`
			INSERT INTO rating_history (id, match_id, player_id, old_rating, new_rating, delta, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			uuid.NewString(), match.ID, u.PlayerID, u.OldRating, u.NewRating, u.Delta, match.RatedAt)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record rating history of %s: %w", u.PlayerID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	log.Info("Applied rating changes", "matchID", match.ID, "players", len(updates))
	return nil
}

// GetRatedMatches returns the most recently rated matches first.
func (s *store) GetRatedMatches(limit int) ([]RatedMatch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, source, score, team1_won, team1_player1, team1_player2, team2_player1, team2_player2, team1_delta, team2_delta, played_at, rated_at
		FROM rated_matches ORDER BY rated_at DESC, id`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var matches []RatedMatch
	for rows.Next() {
		var m RatedMatch
		if err := rows.Scan(&m.ID, &m.Source, &m.Score, &m.Team1Won,
			&m.Team1[0], &m.Team1[1], &m.Team2[0], &m.Team2[1],
			&m.Team1Delta, &m.Team2Delta, &m.PlayedAt, &m.RatedAt); err != nil {
			log.Error("Failed to scan rated match row", "error", err)
			continue
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

// GetRatingHistory returns a player's rating changes, newest first.
func (s *store) GetRatingHistory(playerID string, limit int) ([]HistoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT h.id, h.match_id, h.player_id, h.old_rating, h.new_rating, h.delta, h.created_at
		FROM rating_history h
		JOIN rated_matches m ON m.id = h.match_id
		WHERE h.player_id = ?
		ORDER BY h.created_at DESC, m.rated_at DESC`
	args := []any{playerID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	history := []HistoryEntry{}
	for rows.Next() {
		var h HistoryEntry
		if err := rows.Scan(&h.ID, &h.MatchID, &h.PlayerID, &h.OldRating, &h.NewRating, &h.Delta, &h.CreatedAt); err != nil {
			return nil, err
		}
		history = append(history, h)
	}
	return history, rows.Err()
}

func (s *store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		log.Error("Failed to begin transaction for clearing store", "error", err)
		return
	}
	for _, table := range []string{"rating_history", "rated_matches", "players"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			log.Error("Failed to clear table", "table", table, "error", err)
			tx.Rollback()
			return
		}
	}
	if err := tx.Commit(); err != nil {
		log.Error("Failed to commit transaction for clearing store", "error", err)
	}
}

func scanPlayer(scanner interface{ Scan(...any) error }) (*Player, error) {
	var p Player
	var slackUserID sql.NullString
	if err := scanner.Scan(&p.ID, &p.Name, &p.Rating, &p.MatchesPlayed, &p.DivisionID, &slackUserID, &p.Language, &p.UpdatedAt); err != nil {
		return nil, err
	}
	if slackUserID.Valid {
		p.SlackUserID = &slackUserID.String
	}
	return &p, nil
}

func scanPlayers(rows *sql.Rows) ([]Player, error) {
	players := []Player{}
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			log.Error("Failed to scan player row", "error", err)
			continue
		}
		players = append(players, *p)
	}
	return players, rows.Err()
}

func ToAnySlice[T any](s []T) []any {
	a := make([]any, len(s))
	for i, v := range s {
		a[i] = v
	}
	return a
}
