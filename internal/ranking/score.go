package ranking

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var setPattern = regexp.MustCompile(`^(\d+)-(\d+)$`)

// SetScore holds the games won by each team in one set.
type SetScore struct {
	Team1 int `json:"team1"`
	Team2 int `json:"team2"`
}

// MatchScore is the ordered list of sets of a match.
type MatchScore struct {
	Sets []SetScore `json:"sets"`
}

// ParseScore reads a score such as "6-4, 3-6, 7-6". Segments that do not look
// like "<games>-<games>" are skipped rather than rejected, so a garbled score
// still rates the match.
func ParseScore(score string) MatchScore {
	var ms MatchScore
	for _, part := range strings.Split(score, ",") {
		m := setPattern.FindStringSubmatch(strings.TrimSpace(part))
		if m == nil {
			continue
		}
		t1, err1 := strconv.Atoi(m[1])
		t2, err2 := strconv.Atoi(m[2])
		if err1 != nil || err2 != nil {
			continue
		}
		ms.Sets = append(ms.Sets, SetScore{Team1: t1, Team2: t2})
	}
	return ms
}

// String formats the score the way ParseScore reads it.
func (ms MatchScore) String() string {
	parts := make([]string, 0, len(ms.Sets))
	for _, s := range ms.Sets {
		parts = append(parts, fmt.Sprintf("%d-%d", s.Team1, s.Team2))
	}
	return strings.Join(parts, ", ")
}

// GamesLost returns the games conceded by team 1 or team 2 over all sets.
func (ms MatchScore) GamesLost(team1 bool) int {
	total := 0
	for _, s := range ms.Sets {
		if team1 {
			total += s.Team2
		} else {
			total += s.Team1
		}
	}
	return total
}

// GamesLostByWinner returns the games conceded by the winning side.
func (ms MatchScore) GamesLostByWinner(team1Won bool) int {
	return ms.GamesLost(team1Won)
}

// SetsWon counts the sets taken by each team.
func (ms MatchScore) SetsWon() (team1, team2 int) {
	for _, s := range ms.Sets {
		switch {
		case s.Team1 > s.Team2:
			team1++
		case s.Team2 > s.Team1:
			team2++
		}
	}
	return team1, team2
}

// Complete reports whether the set ended on a terminal padel score: six games
// with a two game margin, or 7-5 / 7-6.
func (s SetScore) Complete() bool {
	hi, lo := s.Team1, s.Team2
	if lo > hi {
		hi, lo = lo, hi
	}
	switch {
	case lo < 0:
		return false
	case hi == 6:
		return hi-lo >= 2
	case hi == 7:
		return lo == 5 || lo == 6
	}
	return false
}

// Validate applies the strict rules: one to three sets, every set complete, and
// the declared winner taking more sets than the loser.
func (ms MatchScore) Validate(team1Won bool) error {
	if len(ms.Sets) == 0 || len(ms.Sets) > 3 {
		return fmt.Errorf("%w: expected 1 to 3 sets, got %d", ErrInvalidScore, len(ms.Sets))
	}
	for i, s := range ms.Sets {
		if !s.Complete() {
			return fmt.Errorf("%w: set %d (%d-%d) is not a finished set", ErrInvalidScore, i+1, s.Team1, s.Team2)
		}
	}
	won1, won2 := ms.SetsWon()
	if team1Won && won1 <= won2 || !team1Won && won2 <= won1 {
		return fmt.Errorf("%w: winner does not match sets %d-%d", ErrInvalidScore, won1, won2)
	}
	return nil
}
