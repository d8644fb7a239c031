package club

// ClubStore defines the interface for interacting with the club's players and rated matches.
type ClubStore interface {
	UpsertPlayer(player Player) error
	UpsertPlayers(players []Player) error
	GetPlayer(playerID string) (*Player, error)
	GetPlayers(playerIDs []string) ([]Player, error)
	GetLeaderboard(limit int) ([]Player, error)
	IsKnownPlayer(playerID string) bool
	LinkSlackUser(playerID, slackUserID string) error
	IsMatchRated(matchID string) (bool, error)
	ApplyRatingChanges(match RatedMatch, updates []RatingUpdate) error
	GetRatedMatches(limit int) ([]RatedMatch, error)
	GetRatingHistory(playerID string, limit int) ([]HistoryEntry, error)
	Clear()
}
