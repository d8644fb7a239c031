package ranking

import "errors"

var (
	// ErrInvalidTeam is returned when a team does not hold exactly two players.
	ErrInvalidTeam = errors.New("each team must have exactly two players")
	// ErrDuplicatePlayer is returned when the same player appears twice in a match.
	ErrDuplicatePlayer = errors.New("player appears more than once in the match")
	// ErrEmptyDivisionTable is returned when a division table has no bands.
	ErrEmptyDivisionTable = errors.New("division table is empty")
	// ErrOverlappingDivisions is returned when two bands share points.
	ErrOverlappingDivisions = errors.New("division bands overlap")
	// ErrInvalidScore is returned by strict score validation.
	ErrInvalidScore = errors.New("invalid match score")
)
