package playtomic

import (
	"fmt"
	"strings"
)

// CheckRateable reports why a match cannot be rated, or nil when it can:
// played, confirmed results, two teams of two and at least one set.
func (m PadelMatch) CheckRateable() error {
	if m.GameStatus != GameStatusPlayed {
		return fmt.Errorf("%w: game status %s", ErrNotRateable, m.GameStatus)
	}
	if m.ResultsStatus != ResultsStatusConfirmed {
		return fmt.Errorf("%w: results status %s", ErrNotRateable, m.ResultsStatus)
	}
	if len(m.Teams) != 2 {
		return fmt.Errorf("%w: %d teams", ErrNotRateable, len(m.Teams))
	}
	for _, t := range m.Teams {
		if len(t.Players) != 2 {
			return fmt.Errorf("%w: team %s has %d players", ErrNotRateable, t.ID, len(t.Players))
		}
	}
	if len(m.Results) == 0 {
		return fmt.Errorf("%w: no set results", ErrNotRateable)
	}
	return nil
}

// ScoreLine renders the set results as "a-b, c-d" from the first team's side.
func (m PadelMatch) ScoreLine() string {
	if len(m.Teams) < 2 {
		return ""
	}
	t1, t2 := m.Teams[0].ID, m.Teams[1].ID
	sets := make([]string, 0, len(m.Results))
	for _, r := range m.Results {
		sets = append(sets, fmt.Sprintf("%d-%d", r.Scores[t1], r.Scores[t2]))
	}
	return strings.Join(sets, ", ")
}

// Team1Won decides the winner from the team results, falling back to sets won.
func (m PadelMatch) Team1Won() (bool, error) {
	if len(m.Teams) < 2 {
		return false, fmt.Errorf("%w: %d teams", ErrNotRateable, len(m.Teams))
	}
	switch {
	case m.Teams[0].TeamResult == "WON":
		return true, nil
	case m.Teams[1].TeamResult == "WON":
		return false, nil
	}

	t1, t2 := m.Teams[0].ID, m.Teams[1].ID
	var sets1, sets2 int
	for _, r := range m.Results {
		switch {
		case r.Scores[t1] > r.Scores[t2]:
			sets1++
		case r.Scores[t2] > r.Scores[t1]:
			sets2++
		}
	}
	if sets1 == sets2 {
		return false, fmt.Errorf("%w: no winner", ErrNotRateable)
	}
	return sets1 > sets2, nil
}
