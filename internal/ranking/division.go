package ranking

import (
	"fmt"
	"math"
	"sort"
)

// Division is a named band of rating points.
type Division struct {
	ID        int     `json:"id"`
	Name      string  `json:"name"`
	Level     int     `json:"level"`
	PointsMin float64 `json:"points_min"`
	PointsMax float64 `json:"points_max"`
}

// Contains reports whether rating falls inside the band, bounds included.
func (d Division) Contains(rating float64) bool {
	return rating >= d.PointsMin && rating <= d.PointsMax
}

// DivisionChange is emitted when a rating update moves a player to another division.
type DivisionChange struct {
	PlayerID    string   `json:"player_id"`
	OldDivision Division `json:"old_division"`
	NewDivision Division `json:"new_division"`
	IsPromotion bool     `json:"is_promotion"`
}

// Table is an immutable, ordered set of divisions. The zero value is not usable;
// build one with NewTable or DefaultTable.
type Table struct {
	divisions []Division
}

// DefaultDivisions returns the club's standard division bands. The top band is
// treated as unbounded.
func DefaultDivisions() []Division {
	return []Division{
		{ID: 1, Name: "Padelino Starter", Level: 1, PointsMin: 0, PointsMax: 99},
		{ID: 2, Name: "Rookie Padel", Level: 2, PointsMin: 100, PointsMax: 249},
		{ID: 3, Name: "Court Beginner", Level: 3, PointsMin: 250, PointsMax: 499},
		{ID: 4, Name: "Rising Star", Level: 4, PointsMin: 500, PointsMax: 799},
		{ID: 5, Name: "Fast Breaker", Level: 5, PointsMin: 800, PointsMax: 1199},
		{ID: 6, Name: "Court Warrior", Level: 6, PointsMin: 1200, PointsMax: 1699},
		{ID: 7, Name: "Baseline Master", Level: 7, PointsMin: 1700, PointsMax: 2299},
		{ID: 8, Name: "Net Strategist", Level: 8, PointsMin: 2300, PointsMax: 2999},
		{ID: 9, Name: "Smash Specialist", Level: 9, PointsMin: 3000, PointsMax: 3799},
		{ID: 10, Name: "Elite Padel", Level: 10, PointsMin: 3800, PointsMax: 4699},
		{ID: 11, Name: "Challenger Pro", Level: 11, PointsMin: 4700, PointsMax: 5699},
		{ID: 12, Name: "Padel Ace", Level: 12, PointsMin: 5700, PointsMax: 6799},
		{ID: 13, Name: "Pro Circuit", Level: 13, PointsMin: 6800, PointsMax: 7999},
		{ID: 14, Name: "Master Padel", Level: 14, PointsMin: 8000, PointsMax: 9499},
		{ID: 15, Name: "Grand Slam Legend", Level: 15, PointsMin: 9500, PointsMax: 99999},
	}
}

// DefaultTable returns a Table built from DefaultDivisions.
func DefaultTable() *Table {
	t, err := NewTable(DefaultDivisions())
	if err != nil {
		// The built-in table is static; failing here is a programming error.
		panic(err)
	}
	return t
}

// NewTable copies divisions, orders them by PointsMin and rejects empty or
// overlapping tables. Gaps between bands are allowed: Classify falls back to the
// highest band for ratings that land in none.
func NewTable(divisions []Division) (*Table, error) {
	if len(divisions) == 0 {
		return nil, ErrEmptyDivisionTable
	}
	sorted := make([]Division, len(divisions))
	copy(sorted, divisions)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].PointsMin < sorted[j].PointsMin
	})
	for i := 1; i < len(sorted); i++ {
		if sorted[i].PointsMin <= sorted[i-1].PointsMax {
			return nil, fmt.Errorf("%w: %q and %q", ErrOverlappingDivisions, sorted[i-1].Name, sorted[i].Name)
		}
	}
	return &Table{divisions: sorted}, nil
}

// Divisions returns a copy of the ordered bands.
func (t *Table) Divisions() []Division {
	out := make([]Division, len(t.divisions))
	copy(out, t.divisions)
	return out
}

// Classify maps a rating to its division. Negative ratings are treated as zero
// and a rating matching no band resolves to the highest one.
//
// Bands written with integer bounds (0-99, 100-249) also own the fractional
// points up to the next band, so 99.5 stays in the first band.
func (t *Table) Classify(rating float64) Division {
	if rating < 0 || math.IsNaN(rating) {
		rating = 0
	}
	for i, d := range t.divisions {
		if d.Contains(rating) {
			return d
		}
		if i+1 < len(t.divisions) {
			next := t.divisions[i+1]
			if rating > d.PointsMax && rating < next.PointsMin && next.PointsMin-d.PointsMax <= 1 {
				return d
			}
		}
	}
	return t.divisions[len(t.divisions)-1]
}

// DetectChange classifies both ratings and returns the change, if any.
func (t *Table) DetectChange(playerID string, oldRating, newRating float64) (DivisionChange, bool) {
	oldDiv := t.Classify(oldRating)
	newDiv := t.Classify(newRating)
	if oldDiv.ID == newDiv.ID {
		return DivisionChange{}, false
	}
	return DivisionChange{
		PlayerID:    playerID,
		OldDivision: oldDiv,
		NewDivision: newDiv,
		IsPromotion: newDiv.Level > oldDiv.Level,
	}, true
}

// PointsToNext returns how many points separate rating from the next division.
// It returns false when rating already sits in the highest band.
func (t *Table) PointsToNext(rating float64) (float64, bool) {
	current := t.Classify(rating)
	for i, d := range t.divisions {
		if d.ID != current.ID || i == len(t.divisions)-1 {
			continue
		}
		missing := t.divisions[i+1].PointsMin - math.Max(rating, 0)
		return math.Max(missing, 0), true
	}
	return 0, false
}
