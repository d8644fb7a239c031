package playtomic

import "errors"

var (
	// ErrNotRateable is returned when a match cannot feed the rating engine.
	ErrNotRateable = errors.New("match is not rateable")
)

// SearchMatchesParams defines the parameters for searching for matches.
type SearchMatchesParams struct {
	SportID       string
	HasPlayers    bool
	Sort          string
	TenantIDs     []string
	FromStartDate string
}

// MatchSummary contains the essential details of a match from a search result.
type MatchSummary struct {
	MatchID string
	OwnerID *string
}

// PadelMatch is a played match with everything needed to rate it.
type PadelMatch struct {
	MatchID       string
	Start         int64
	End           int64
	GameStatus    GameStatus
	ResultsStatus ResultsStatus
	Teams         []Team
	Results       []SetResult
	ResourceName  string
	TenantID      string
}

// GameStatus defines the status of a game.
type GameStatus string

const (
	GameStatusPending    GameStatus = "PENDING"
	GameStatusPlayed     GameStatus = "PLAYED"
	GameStatusUnknown    GameStatus = "UNKNOWN"
	GameStatusCanceled   GameStatus = "CANCELED"
	GameStatusWaitingFor GameStatus = "WAITING_FOR"
	GameStatusExpired    GameStatus = "EXPIRED"
	GameStatusInProgress GameStatus = "IN_PROGRESS"
)

// ResultsStatus defines the status of the match results.
type ResultsStatus string

const (
	ResultsStatusPending    ResultsStatus = "PENDING"
	ResultsStatusConfirmed  ResultsStatus = "CONFIRMED"
	ResultsStatusInvalid    ResultsStatus = "INVALID"
	ResultsStatusNotAllowed ResultsStatus = "NOT_ALLOWED"
	ResultsStatusExpired    ResultsStatus = "EXPIRED"
	ResultsStatusCanceled   ResultsStatus = "CANCELED"
	ResultsStatusWaitingFor ResultsStatus = "WAITING_FOR"
	ResultsStatusValidating ResultsStatus = "VALIDATING"
)

// Team represents a team in a match.
type Team struct {
	ID         string
	Players    []Player
	TeamResult string
}

// Player represents a player in a match.
type Player struct {
	UserID string
	Name   string
}

// SetResult represents the result of a single set, keyed by team ID.
type SetResult struct {
	Name   string
	Scores map[string]int
}

// playtomicMatchResponse defines the structure for the JSON response from the Playtomic API for a single match.
type playtomicMatchResponse struct {
	StartDate     string                  `json:"start_date"`
	EndDate       string                  `json:"end_date"`
	GameStatus    string                  `json:"game_status"`
	Teams         []playtomicTeamResponse `json:"teams"`
	Results       []playtomicResult       `json:"results"`
	ResultsStatus string                  `json:"results_status"`
	ResourceName  string                  `json:"resource_name"`
	Tenant        playtomicTenant         `json:"tenant"`
}

type playtomicResult struct {
	Name   string               `json:"name"`
	Scores []playtomicTeamScore `json:"scores"`
}

type playtomicTeamScore struct {
	TeamID string `json:"team_id"`
	Score  int    `json:"score"`
}

type playtomicTenant struct {
	ID string `json:"tenant_id"`
}

type playtomicTeamResponse struct {
	TeamID     string                    `json:"team_id"`
	Players    []playtomicPlayerResponse `json:"players"`
	TeamResult *string                   `json:"team_result"`
}

type playtomicPlayerResponse struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
}
