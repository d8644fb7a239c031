package club

import "sync"

// MockStore is a mock implementation of the ClubStore interface for testing.
// It is safe for concurrent use.
type MockStore struct {
	mu sync.Mutex

	// Spies for method calls
	UpsertPlayerFunc       func(player Player) error
	UpsertPlayersFunc      func(players []Player) error
	GetPlayerFunc          func(playerID string) (*Player, error)
	GetPlayersFunc         func(playerIDs []string) ([]Player, error)
	GetLeaderboardFunc     func(limit int) ([]Player, error)
	IsKnownPlayerFunc      func(playerID string) bool
	LinkSlackUserFunc      func(playerID, slackUserID string) error
	IsMatchRatedFunc       func(matchID string) (bool, error)
	ApplyRatingChangesFunc func(match RatedMatch, updates []RatingUpdate) error
	GetRatedMatchesFunc    func(limit int) ([]RatedMatch, error)
	GetRatingHistoryFunc   func(playerID string, limit int) ([]HistoryEntry, error)
	ClearFunc              func()

	// Call records
	UpsertPlayersCalls      [][]Player
	GetPlayersCalls         [][]string
	ApplyRatingChangesCalls []ApplyRatingChangesCall
	ClearCalls              int
}

// ApplyRatingChangesCall holds the arguments for a call to ApplyRatingChanges.
type ApplyRatingChangesCall struct {
	Match   RatedMatch
	Updates []RatingUpdate
}

// NewMock creates a new mock instance.
func NewMock() *MockStore {
	return &MockStore{}
}

// Reset clears all call records.
func (m *MockStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpsertPlayersCalls = nil
	m.GetPlayersCalls = nil
	m.ApplyRatingChangesCalls = nil
	m.ClearCalls = 0
}

func (m *MockStore) UpsertPlayer(player Player) error {
	m.mu.Lock()
	fn := m.UpsertPlayerFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(player)
	}
	return m.UpsertPlayers([]Player{player})
}

func (m *MockStore) UpsertPlayers(players []Player) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpsertPlayersCalls = append(m.UpsertPlayersCalls, players)
	if m.UpsertPlayersFunc != nil {
		return m.UpsertPlayersFunc(players)
	}
	return nil
}

func (m *MockStore) GetPlayer(playerID string) (*Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetPlayerFunc != nil {
		return m.GetPlayerFunc(playerID)
	}
	return nil, ErrPlayerNotFound
}

func (m *MockStore) GetPlayers(playerIDs []string) ([]Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetPlayersCalls = append(m.GetPlayersCalls, playerIDs)
	if m.GetPlayersFunc != nil {
		return m.GetPlayersFunc(playerIDs)
	}
	return []Player{}, nil
}

func (m *MockStore) GetLeaderboard(limit int) ([]Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetLeaderboardFunc != nil {
		return m.GetLeaderboardFunc(limit)
	}
	return []Player{}, nil
}

func (m *MockStore) IsKnownPlayer(playerID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.IsKnownPlayerFunc != nil {
		return m.IsKnownPlayerFunc(playerID)
	}
	return false
}

func (m *MockStore) LinkSlackUser(playerID, slackUserID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LinkSlackUserFunc != nil {
		return m.LinkSlackUserFunc(playerID, slackUserID)
	}
	return nil
}

func (m *MockStore) IsMatchRated(matchID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.IsMatchRatedFunc != nil {
		return m.IsMatchRatedFunc(matchID)
	}
	return false, nil
}

func (m *MockStore) ApplyRatingChanges(match RatedMatch, updates []RatingUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ApplyRatingChangesCalls = append(m.ApplyRatingChangesCalls, ApplyRatingChangesCall{Match: match, Updates: updates})
	if m.ApplyRatingChangesFunc != nil {
		return m.ApplyRatingChangesFunc(match, updates)
	}
	return nil
}

func (m *MockStore) GetRatedMatches(limit int) ([]RatedMatch, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetRatedMatchesFunc != nil {
		return m.GetRatedMatchesFunc(limit)
	}
	return []RatedMatch{}, nil
}

func (m *MockStore) GetRatingHistory(playerID string, limit int) ([]HistoryEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetRatingHistoryFunc != nil {
		return m.GetRatingHistoryFunc(playerID, limit)
	}
	return []HistoryEntry{}, nil
}

func (m *MockStore) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ClearCalls++
	if m.ClearFunc != nil {
		m.ClearFunc()
	}
}
