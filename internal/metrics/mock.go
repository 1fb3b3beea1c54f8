package metrics

import "sync"

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu              sync.Mutex
	playersCreated  int
	matchesRecorded int
	matchesDeleted  int
	storeResets     int
	refoldDurations []float64
	startupTime     float64
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		refoldDurations: make([]float64, 0),
	}
}

func (m *Mock) AddPlayersCreated(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playersCreated += n
}

func (m *Mock) IncMatchesRecorded() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matchesRecorded++
}

func (m *Mock) IncMatchesDeleted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matchesDeleted++
}

func (m *Mock) IncStoreResets() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.storeResets++
}

func (m *Mock) ObserveRefoldDuration(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refoldDurations = append(m.refoldDurations, duration)
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = duration
}

// PlayersCreated returns the accumulated player creation count.
func (m *Mock) PlayersCreated() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.playersCreated
}

// MatchesRecorded returns the number of times IncMatchesRecorded was called.
func (m *Mock) MatchesRecorded() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matchesRecorded
}

// MatchesDeleted returns the number of times IncMatchesDeleted was called.
func (m *Mock) MatchesDeleted() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matchesDeleted
}

// StoreResets returns the number of times IncStoreResets was called.
func (m *Mock) StoreResets() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.storeResets
}
