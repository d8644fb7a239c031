package club

import (
	"database/sql"
	"errors"
	"sync"
)

var (
	// ErrPlayerNotFound is returned when a player ID is unknown.
	ErrPlayerNotFound = errors.New("player not found")
	// ErrMatchAlreadyRated is returned when a match ID has already been applied.
	ErrMatchAlreadyRated = errors.New("match already rated")
	// ErrStaleRating is returned when a player's rating moved after it was read.
	ErrStaleRating = errors.New("rating changed since it was read")
)

// store handles all database operations for the club.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Player represents a club member and their current rating.
type Player struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Rating        float64 `json:"rating"`
	MatchesPlayed int     `json:"matches_played"`
	DivisionID    int     `json:"division_id"`
	SlackUserID   *string `json:"slack_user_id,omitempty"`
	Language      string  `json:"language,omitempty"`
	UpdatedAt     int64   `json:"updated_at"`
}

// RatedMatch is a match whose result has been applied to the players' ratings.
type RatedMatch struct {
	ID         string    `json:"id"`
	Source     string    `json:"source"`
	Score      string    `json:"score"`
	Team1Won   bool      `json:"team1_won"`
	Team1      [2]string `json:"team1"`
	Team2      [2]string `json:"team2"`
	Team1Delta int       `json:"team1_delta"`
	Team2Delta int       `json:"team2_delta"`
	PlayedAt   int64     `json:"played_at"`
	RatedAt    int64     `json:"rated_at"`
}

// RatingUpdate is the new state of one player after a match.
type RatingUpdate struct {
	PlayerID   string
	OldRating  float64
	NewRating  float64
	Delta      int
	DivisionID int
}

// HistoryEntry is one rating change of a player.
type HistoryEntry struct {
	ID        string  `json:"id"`
	MatchID   string  `json:"match_id"`
	PlayerID  string  `json:"player_id"`
	OldRating float64 `json:"old_rating"`
	NewRating float64 `json:"new_rating"`
	Delta     int     `json:"delta"`
	CreatedAt int64   `json:"created_at"`
}
