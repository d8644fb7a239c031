package processor

import (
	"github.com/mauv0809/padel-ladder/internal/club"
	"github.com/mauv0809/padel-ladder/internal/notifier"
)

// Store defines the database operations required by the processor.
type Store interface {
	GetPlayers(playerIDs []string) ([]club.Player, error)
	UpsertPlayers(players []club.Player) error
	IsMatchRated(matchID string) (bool, error)
	ApplyRatingChanges(match club.RatedMatch, updates []club.RatingUpdate) error
}

// Notifier defines the notification operations required by the processor.
type Notifier interface {
	notifier.Notifier
}
