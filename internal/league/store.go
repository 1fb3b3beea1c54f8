package league

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/fantasynight/tracker/internal/rules"
)

// New creates a new LeagueStore.
func New(db *sql.DB) LeagueStore {
	return &store{
		db: db,
	}
}

// CreatePlayer adds a single player with a fresh, empty aggregate.
func (s *store) CreatePlayer(name string) (*Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("player name is required: %w", ErrValidation)
	}

	var exists bool
	if err := s.db.QueryRow("SELECT EXISTS(SELECT 1 FROM players WHERE name = ?)", name).Scan(&exists); err != nil {
		return nil, fmt.Errorf("failed to check player name: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("player %q: %w", name, ErrPlayerConflict)
	}

	p := &Player{
		ID:           uuid.New().String(),
		Name:         name,
		MatchHistory: []HistoryEntry{},
		CreatedAt:    time.Now().Unix(),
	}
	_, err := s.db.Exec(
		"INSERT INTO players (id, name, history_json, created_at) VALUES (?, ?, '[]', ?)",
		p.ID, p.Name, p.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert player: %w", err)
	}
	log.Info("Created player", "playerID", p.ID, "name", p.Name)
	return p, nil
}

// CreatePlayersBulk creates several players at once. Duplicate names inside
// the input reject the whole batch; names that already exist as players are
// skipped and reported, and the call fails only when nothing new remains.
func (s *store) CreatePlayersBulk(names []string) (*BulkPlayersResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(names) == 0 {
		return nil, fmt.Errorf("players must be a non-empty list of names: %w", ErrValidation)
	}

	seen := make(map[string]bool, len(names))
	cleaned := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("player name is required: %w", ErrValidation)
		}
		if seen[name] {
			return nil, fmt.Errorf("duplicate player name %q in input: %w", name, ErrValidation)
		}
		seen[name] = true
		cleaned = append(cleaned, name)
	}

	rows, err := s.db.Query(
		"SELECT name FROM players WHERE name IN ("+placeholders(len(cleaned))+")",
		ToAnySlice(cleaned)...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query existing players: %w", err)
	}
	defer rows.Close()

	existing := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan player name: %w", err)
		}
		existing[name] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read existing players: %w", err)
	}

	result := &BulkPlayersResult{Created: []*Player{}, Existing: []string{}}
	var fresh []string
	for _, name := range cleaned {
		if existing[name] {
			result.Existing = append(result.Existing, name)
			continue
		}
		fresh = append(fresh, name)
	}
	result.Skipped = len(result.Existing)

	if len(fresh) == 0 {
		return nil, fmt.Errorf("all players already exist: %w", ErrPlayerConflict)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	now := time.Now().Unix()
	for _, name := range fresh {
		p := &Player{
			ID:           uuid.New().String(),
			Name:         name,
			MatchHistory: []HistoryEntry{},
			CreatedAt:    now,
		}
		if _, err := tx.Exec(
			"INSERT INTO players (id, name, history_json, created_at) VALUES (?, ?, '[]', ?)",
			p.ID, p.Name, p.CreatedAt,
		); err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("failed to insert player %q: %w", name, err)
		}
		result.Created = append(result.Created, p)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit player batch: %w", err)
	}

	log.Info("Created players in bulk", "created", len(result.Created), "skipped", result.Skipped)
	return result, nil
}

// playerSortColumns whitelists the accepted sort options for ListPlayers.
var playerSortColumns = map[string]string{
	"":               "total_earnings DESC",
	"totalEarnings":  "total_earnings DESC",
	"name":           "name ASC",
	"wins":           "wins DESC",
	"averageEarning": "average_earning DESC",
}

// ListPlayers returns every player with its full aggregate and history,
// ordered by total earnings descending unless another sort is requested.
func (s *store) ListPlayers(sortBy string) ([]*Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	order, ok := playerSortColumns[sortBy]
	if !ok {
		return nil, fmt.Errorf("unknown sort option %q: %w", sortBy, ErrValidation)
	}

	rows, err := s.db.Query(`
		SELECT id, name, total_earnings, wins, top_three_finishes, last_place_finishes, average_earning, history_json, created_at
		FROM players ORDER BY ` + order)
	if err != nil {
		return nil, fmt.Errorf("failed to query players: %w", err)
	}
	defer rows.Close()

	players := []*Player{}
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, err
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

// PlayerStats returns the leaderboard projection, ordered by total
// earnings descending.
func (s *store) PlayerStats() ([]PlayerStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT name, wins, top_three_finishes, last_place_finishes, average_earning
		FROM players ORDER BY total_earnings DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query player stats: %w", err)
	}
	defer rows.Close()

	stats := []PlayerStats{}
	for rows.Next() {
		var st PlayerStats
		if err := rows.Scan(&st.Name, &st.Wins, &st.TopThreeFinishes, &st.LastPlaceFinishes, &st.AverageEarning); err != nil {
			return nil, fmt.Errorf("failed to scan player stats: %w", err)
		}
		stats = append(stats, st)
	}
	return stats, rows.Err()
}

// PlayerStatsByName returns the stats projection for a single player,
// matched case-insensitively.
func (s *store) PlayerStatsByName(name string) (*PlayerStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var st PlayerStats
	err := s.db.QueryRow(`
		SELECT name, wins, top_three_finishes, last_place_finishes, average_earning
		FROM players WHERE name = ? COLLATE NOCASE LIMIT 1`, name).
		Scan(&st.Name, &st.Wins, &st.TopThreeFinishes, &st.LastPlaceFinishes, &st.AverageEarning)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("player %q: %w", name, ErrPlayerNotFound)
		}
		return nil, fmt.Errorf("failed to query player stats: %w", err)
	}
	return &st, nil
}

// TopThree returns the podium: the three highest total earners. Ties are
// broken by name so the podium ordering is stable.
func (s *store) TopThree() ([]PodiumEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT name, total_earnings FROM players
		ORDER BY total_earnings DESC, name ASC LIMIT 3`)
	if err != nil {
		return nil, fmt.Errorf("failed to query podium: %w", err)
	}
	defer rows.Close()

	podium := []PodiumEntry{}
	for rows.Next() {
		var entry PodiumEntry
		if err := rows.Scan(&entry.Name, &entry.TotalEarnings); err != nil {
			return nil, fmt.Errorf("failed to scan podium entry: %w", err)
		}
		podium = append(podium, entry)
	}
	return podium, rows.Err()
}

// scanPlayer reads a full player row including the JSON history column.
func scanPlayer(scanner interface{ Scan(...any) error }) (*Player, error) {
	var p Player
	var historyJSON sql.NullString
	err := scanner.Scan(
		&p.ID, &p.Name, &p.TotalEarnings, &p.Wins, &p.TopThreeFinishes,
		&p.LastPlaceFinishes, &p.AverageEarning, &historyJSON, &p.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan player row: %w", err)
	}
	p.MatchHistory = []HistoryEntry{}
	if historyJSON.Valid && historyJSON.String != "" {
		if err := json.Unmarshal([]byte(historyJSON.String), &p.MatchHistory); err != nil {
			return nil, fmt.Errorf("failed to unmarshal history_json for player %s: %w", p.ID, err)
		}
	}
	return &p, nil
}

// refoldPlayerTx rewrites a player's aggregate columns and history from
// the in-memory history, inside the caller's transaction. The aggregate is
// always recomputed from the full history, never adjusted incrementally.
func refoldPlayerTx(tx *sql.Tx, p *Player) error {
	events := make([]rules.Event, len(p.MatchHistory))
	for i, h := range p.MatchHistory {
		events[i] = rules.Event{Earnings: h.Earnings, Position: h.Position}
	}
	agg := rules.Fold(events)

	p.TotalEarnings = agg.TotalEarnings
	p.Wins = agg.Wins
	p.TopThreeFinishes = agg.TopThreeFinishes
	p.LastPlaceFinishes = agg.LastPlaceFinishes
	p.AverageEarning = agg.AverageEarning

	historyJSON, err := json.Marshal(p.MatchHistory)
	if err != nil {
		return fmt.Errorf("failed to marshal history for player %s: %w", p.ID, err)
	}
	_, err = tx.Exec(`
		UPDATE players
		SET total_earnings = ?, wins = ?, top_three_finishes = ?, last_place_finishes = ?, average_earning = ?, history_json = ?
		WHERE id = ?`,
		p.TotalEarnings, p.Wins, p.TopThreeFinishes, p.LastPlaceFinishes, p.AverageEarning, string(historyJSON), p.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update aggregate for player %s: %w", p.ID, err)
	}
	return nil
}

// placeholders returns n comma-joined SQL placeholders.
func placeholders(n int) string {
	if n == 0 {
		return ""
	}
	return strings.Repeat("?, ", n-1) + "?"
}

func ToAnySlice[T any](s []T) []any {
	a := make([]any, len(s))
	for i, v := range s {
		a[i] = v
	}
	return a
}
