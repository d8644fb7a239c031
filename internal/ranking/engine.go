// Package ranking computes doubles rating updates and division placement.
//
// Everything here is a pure function of its arguments: callers load players,
// hand them to an Engine and persist what comes back. An Engine is safe for
// concurrent use.
package ranking

import (
	"fmt"
	"math"
)

// PlayerRatingInput is the snapshot of one participant before the match.
type PlayerRatingInput struct {
	ID              string  `json:"id"`
	Rating          float64 `json:"rating"`
	ExperienceCount int     `json:"experience_count"`
	// DivisionLevel feeds level-keyed policies. Zero means classify Rating
	// against the engine's table.
	DivisionLevel int `json:"division_level,omitempty"`
}

// RatingDelta is the outcome for one player.
type RatingDelta struct {
	PlayerID     string  `json:"player_id"`
	OldRating    float64 `json:"old_rating"`
	PointsChange int     `json:"points_change"`
	NewRating    float64 `json:"new_rating"`
}

// SideBreakdown records how one team's coefficient was built.
type SideBreakdown struct {
	AverageRating  float64 `json:"average_rating"`
	Expected       float64 `json:"expected"`
	Actual         float64 `json:"actual"`
	KFactor        float64 `json:"k_factor"`
	ScoreFactor    float64 `json:"score_factor"`
	SurpriseFactor float64 `json:"surprise_factor"`
	GapBonus       float64 `json:"gap_bonus"`
	Coefficient    float64 `json:"coefficient"`
	Delta          int     `json:"delta"`
}

// Result is the full output of rating one match.
type Result struct {
	Score             MatchScore       `json:"score"`
	GamesLostByWinner int              `json:"games_lost_by_winner"`
	Team1             SideBreakdown    `json:"team1"`
	Team2             SideBreakdown    `json:"team2"`
	Deltas            []RatingDelta    `json:"deltas"`
	DivisionChanges   []DivisionChange `json:"division_changes,omitempty"`
}

// Option configures an Engine.
type Option func(*Engine)

// WithPolicy replaces the default coefficient policy.
func WithPolicy(p Policy) Option {
	return func(e *Engine) {
		e.policy = p
	}
}

// WithStrictScores makes Rate reject scores that are not finished padel matches.
func WithStrictScores() Option {
	return func(e *Engine) {
		e.strict = true
	}
}

// Engine rates finished doubles matches against a division table.
type Engine struct {
	divisions *Table
	policy    Policy
	strict    bool
}

// NewEngine builds an Engine. A nil table selects DefaultTable.
func NewEngine(divisions *Table, opts ...Option) *Engine {
	if divisions == nil {
		divisions = DefaultTable()
	}
	e := &Engine{
		divisions: divisions,
		policy:    DefaultPolicy(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Divisions returns the table the engine classifies against.
func (e *Engine) Divisions() *Table {
	return e.divisions
}

// ComputeRatingDeltas rates a match and returns the four player deltas, team 1
// first. See Rate for the full breakdown.
func (e *Engine) ComputeRatingDeltas(team1, team2 []PlayerRatingInput, score string, team1Won bool) ([]RatingDelta, error) {
	res, err := e.Rate(team1, team2, score, team1Won)
	if err != nil {
		return nil, err
	}
	return res.Deltas, nil
}

// Rate computes each team's delta from its own perspective. Both sides share
// the score factor, gap bonus and K, but the expected probability and the
// surprise factor belong to each side, so the two deltas are opposite in sign
// without being exact negations of each other. The losing side's surprise
// factor is 1+(1-P_loser)*1.5 from its own probability, not the winner's.
func (e *Engine) Rate(team1, team2 []PlayerRatingInput, score string, team1Won bool) (*Result, error) {
	if err := validateTeams(team1, team2); err != nil {
		return nil, err
	}

	ms := ParseScore(score)
	if e.strict {
		if err := ms.Validate(team1Won); err != nil {
			return nil, err
		}
	}
	gamesLost := ms.GamesLostByWinner(team1Won)

	avg1 := teamAverage(team1)
	avg2 := teamAverage(team2)
	expected1 := ExpectedWinProbability(avg1, avg2)

	shared := SideBreakdown{
		KFactor:     e.policy.MatchKFactor(averageExperience(team1, team2), e.averageLevel(team1, team2)),
		ScoreFactor: e.policy.ScoreFactor(gamesLost),
		GapBonus:    e.policy.GapBonus(avg1 - avg2),
	}

	side1 := e.side(shared, avg1, expected1, team1Won)
	side2 := e.side(shared, avg2, 1-expected1, !team1Won)

	res := &Result{
		Score:             ms,
		GamesLostByWinner: gamesLost,
		Team1:             side1,
		Team2:             side2,
		Deltas:            make([]RatingDelta, 0, 4),
	}
	for _, t := range []struct {
		players []PlayerRatingInput
		delta   int
	}{{team1, side1.Delta}, {team2, side2.Delta}} {
		for _, p := range t.players {
			d := applyDelta(p, t.delta)
			res.Deltas = append(res.Deltas, d)
			if change, ok := e.divisions.DetectChange(p.ID, d.OldRating, d.NewRating); ok {
				res.DivisionChanges = append(res.DivisionChanges, change)
			}
		}
	}
	return res, nil
}

func (e *Engine) side(shared SideBreakdown, avg, expected float64, won bool) SideBreakdown {
	s := shared
	s.AverageRating = avg
	s.Expected = expected
	if won {
		s.Actual = 1
	}
	s.SurpriseFactor = e.policy.SurpriseFactor(expected)
	s.Coefficient = s.KFactor * s.ScoreFactor * s.SurpriseFactor * s.GapBonus
	s.Delta = int(math.Round(s.Coefficient * (s.Actual - s.Expected)))
	return s
}

func applyDelta(p PlayerRatingInput, delta int) RatingDelta {
	return RatingDelta{
		PlayerID:     p.ID,
		OldRating:    p.Rating,
		PointsChange: delta,
		NewRating:    math.Max(0, p.Rating+float64(delta)),
	}
}

func validateTeams(team1, team2 []PlayerRatingInput) error {
	if len(team1) != 2 {
		return fmt.Errorf("%w: team 1 has %d", ErrInvalidTeam, len(team1))
	}
	if len(team2) != 2 {
		return fmt.Errorf("%w: team 2 has %d", ErrInvalidTeam, len(team2))
	}
	seen := make(map[string]struct{}, 4)
	for _, p := range append(append([]PlayerRatingInput{}, team1...), team2...) {
		if _, ok := seen[p.ID]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicatePlayer, p.ID)
		}
		seen[p.ID] = struct{}{}
	}
	return nil
}

func teamAverage(team []PlayerRatingInput) float64 {
	return (team[0].Rating + team[1].Rating) / 2
}

func (e *Engine) averageLevel(team1, team2 []PlayerRatingInput) float64 {
	total := 0
	for _, team := range [][]PlayerRatingInput{team1, team2} {
		for _, p := range team {
			level := p.DivisionLevel
			if level <= 0 {
				level = e.divisions.Classify(p.Rating).Level
			}
			total += level
		}
	}
	return float64(total) / 4
}

func averageExperience(team1, team2 []PlayerRatingInput) float64 {
	total := 0
	for _, p := range team1 {
		total += p.ExperienceCount
	}
	for _, p := range team2 {
		total += p.ExperienceCount
	}
	return float64(total) / 4
}
