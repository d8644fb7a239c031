package processor

import (
	"errors"
	"sync"

	"github.com/mauv0809/padel-ladder/internal/club"
	"github.com/mauv0809/padel-ladder/internal/metrics"
	"github.com/mauv0809/padel-ladder/internal/notifier"
	"github.com/mauv0809/padel-ladder/internal/playtomic"
	"github.com/mauv0809/padel-ladder/internal/pubsub"
	"github.com/mauv0809/padel-ladder/internal/ranking"
)

// ErrPlaytomicDisabled is returned by imports when no Playtomic tenant is configured.
var ErrPlaytomicDisabled = errors.New("playtomic import is not configured")

// maxStaleRetries bounds how often RateMatch re-reads ratings that another
// writer changed underneath it.
const maxStaleRetries = 3

const (
	SourceManual    = "manual"
	SourcePlaytomic = "playtomic"
)

// Processor turns match results into persisted rating changes.
type Processor struct {
	store    Store
	engine   *ranking.Engine
	pubsub   pubsub.PubSubClient
	notifier Notifier
	metrics  metrics.Metrics
	cfg      Config

	// mu serialises rating from load to apply.
	mu sync.Mutex
}

// Config holds the processor settings that do not come from collaborators.
type Config struct {
	InitialRating   float64
	DefaultLanguage ranking.Language
	TenantID        string
	Playtomic       playtomic.PlaytomicClient
}

// MatchPlayer identifies one participant of a submitted match.
type MatchPlayer struct {
	ID   string `json:"id" msgpack:"id"`
	Name string `json:"name,omitempty" msgpack:"name"`
}

// MatchResult is a finished doubles match waiting to be rated.
type MatchResult struct {
	MatchID  string        `json:"match_id,omitempty" msgpack:"match_id"`
	Source   string        `json:"source,omitempty" msgpack:"source"`
	Team1    []MatchPlayer `json:"team1" msgpack:"team1"`
	Team2    []MatchPlayer `json:"team2" msgpack:"team2"`
	Score    string        `json:"score" msgpack:"score"`
	Team1Won bool          `json:"team1_won" msgpack:"team1_won"`
	PlayedAt int64         `json:"played_at,omitempty" msgpack:"played_at"`
}

// RatedMatch is what rating a match produced.
type RatedMatch struct {
	Match         club.RatedMatch         `json:"match"`
	Result        *ranking.Result         `json:"result"`
	Notifications []notifier.Notification `json:"notifications,omitempty"`
	DryRun        bool                    `json:"dry_run"`
}

// MatchRatedEvent is published once a match has been applied.
type MatchRatedEvent struct {
	MatchID  string                `msgpack:"match_id"`
	Source   string                `msgpack:"source"`
	Score    string                `msgpack:"score"`
	Team1Won bool                  `msgpack:"team1_won"`
	Deltas   []ranking.RatingDelta `msgpack:"deltas"`
	RatedAt  int64                 `msgpack:"rated_at"`
}

// DivisionChangedEvent is published for every promotion or relegation.
type DivisionChangedEvent struct {
	MatchID     string  `msgpack:"match_id"`
	PlayerID    string  `msgpack:"player_id"`
	OldDivision int     `msgpack:"old_division"`
	NewDivision int     `msgpack:"new_division"`
	IsPromotion bool    `msgpack:"is_promotion"`
	NewRating   float64 `msgpack:"new_rating"`
}

// ImportReport summarises one Playtomic import run.
type ImportReport struct {
	Fetched int      `json:"fetched"`
	Rated   int      `json:"rated"`
	Skipped int      `json:"skipped"`
	Failed  int      `json:"failed"`
	Matches []string `json:"matches,omitempty"`
}
