package league

import "sync"

// MockStore is a mock implementation of the LeagueStore interface for
// testing. It is safe for concurrent use.
type MockStore struct {
	mu sync.Mutex

	// Spies for method calls
	CreatePlayerFunc      func(name string) (*Player, error)
	CreatePlayersBulkFunc func(names []string) (*BulkPlayersResult, error)
	ListPlayersFunc       func(sortBy string) ([]*Player, error)
	PlayerStatsFunc       func() ([]PlayerStats, error)
	PlayerStatsByNameFunc func(name string) (*PlayerStats, error)
	TopThreeFunc          func() ([]PodiumEntry, error)
	RecordMatchFunc       func(winners []Winner, name string) (*Match, error)
	RecordMatchesBulkFunc func(entries []MatchEntry) (*BulkMatchesResult, error)
	ListMatchesFunc       func() ([]*Match, error)
	DeleteMatchByNameFunc func(name string) error
	ResetFunc             func() error

	// Call records
	CreatePlayerCalls      []string
	CreatePlayersBulkCalls [][]string
	RecordMatchCalls       []struct {
		Winners []Winner
		Name    string
	}
	RecordMatchesBulkCalls [][]MatchEntry
	DeleteMatchByNameCalls []string
	ResetCalls             int
}

// NewMock creates a new mock instance.
func NewMock() *MockStore {
	return &MockStore{}
}

func (m *MockStore) CreatePlayer(name string) (*Player, error) {
	m.mu.Lock()
	m.CreatePlayerCalls = append(m.CreatePlayerCalls, name)
	m.mu.Unlock()
	if m.CreatePlayerFunc != nil {
		return m.CreatePlayerFunc(name)
	}
	return &Player{Name: name, MatchHistory: []HistoryEntry{}}, nil
}

func (m *MockStore) CreatePlayersBulk(names []string) (*BulkPlayersResult, error) {
	m.mu.Lock()
	m.CreatePlayersBulkCalls = append(m.CreatePlayersBulkCalls, names)
	m.mu.Unlock()
	if m.CreatePlayersBulkFunc != nil {
		return m.CreatePlayersBulkFunc(names)
	}
	return &BulkPlayersResult{}, nil
}

func (m *MockStore) ListPlayers(sortBy string) ([]*Player, error) {
	if m.ListPlayersFunc != nil {
		return m.ListPlayersFunc(sortBy)
	}
	return []*Player{}, nil
}

func (m *MockStore) PlayerStats() ([]PlayerStats, error) {
	if m.PlayerStatsFunc != nil {
		return m.PlayerStatsFunc()
	}
	return []PlayerStats{}, nil
}

func (m *MockStore) PlayerStatsByName(name string) (*PlayerStats, error) {
	if m.PlayerStatsByNameFunc != nil {
		return m.PlayerStatsByNameFunc(name)
	}
	return &PlayerStats{Name: name}, nil
}

func (m *MockStore) TopThree() ([]PodiumEntry, error) {
	if m.TopThreeFunc != nil {
		return m.TopThreeFunc()
	}
	return []PodiumEntry{}, nil
}

func (m *MockStore) RecordMatch(winners []Winner, name string) (*Match, error) {
	m.mu.Lock()
	m.RecordMatchCalls = append(m.RecordMatchCalls, struct {
		Winners []Winner
		Name    string
	}{winners, name})
	m.mu.Unlock()
	if m.RecordMatchFunc != nil {
		return m.RecordMatchFunc(winners, name)
	}
	return &Match{Name: name, Winners: []MatchWinner{}}, nil
}

func (m *MockStore) RecordMatchesBulk(entries []MatchEntry) (*BulkMatchesResult, error) {
	m.mu.Lock()
	m.RecordMatchesBulkCalls = append(m.RecordMatchesBulkCalls, entries)
	m.mu.Unlock()
	if m.RecordMatchesBulkFunc != nil {
		return m.RecordMatchesBulkFunc(entries)
	}
	return &BulkMatchesResult{Matches: []*Match{}}, nil
}

func (m *MockStore) ListMatches() ([]*Match, error) {
	if m.ListMatchesFunc != nil {
		return m.ListMatchesFunc()
	}
	return []*Match{}, nil
}

func (m *MockStore) DeleteMatchByName(name string) error {
	m.mu.Lock()
	m.DeleteMatchByNameCalls = append(m.DeleteMatchByNameCalls, name)
	m.mu.Unlock()
	if m.DeleteMatchByNameFunc != nil {
		return m.DeleteMatchByNameFunc(name)
	}
	return nil
}

func (m *MockStore) Reset() error {
	m.mu.Lock()
	m.ResetCalls++
	m.mu.Unlock()
	if m.ResetFunc != nil {
		return m.ResetFunc()
	}
	return nil
}
