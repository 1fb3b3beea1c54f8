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

// RecordMatch appends one match to the ledger and refolds every winner's
// aggregate from its updated history, as one transaction.
func (s *store) RecordMatch(winners []Winner, name string) (*Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	cache := make(map[string]*Player)
	match, err := recordMatchTx(tx, winners, name, 0, cache)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	for _, p := range cache {
		if err := refoldPlayerTx(tx, p); err != nil {
			tx.Rollback()
			return nil, err
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit match: %w", err)
	}

	log.Info("Recorded match", "matchID", match.ID, "matchNumber", match.MatchNumber, "winners", len(match.Winners))
	return match, nil
}

// RecordMatchesBulk appends a batch of matches with contiguous numbering.
// Aggregate refolds for players appearing in several matches of the batch
// are coalesced into one update per player. The batch is atomic: the first
// failing entry aborts everything already applied.
func (s *store) RecordMatchesBulk(entries []MatchEntry) (*BulkMatchesResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(entries) == 0 {
		return nil, fmt.Errorf("matches must be a non-empty list: %w", ErrValidation)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	next, err := nextMatchNumberTx(tx)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	result := &BulkMatchesResult{Matches: []*Match{}}
	cache := make(map[string]*Player)
	for i, entry := range entries {
		match, err := recordMatchTx(tx, entry.Winners, entry.Name, next+i, cache)
		if err != nil {
			tx.Rollback()
			return nil, &BulkEntryError{Index: i, Err: err}
		}
		result.Matches = append(result.Matches, match)
	}
	for _, p := range cache {
		if err := refoldPlayerTx(tx, p); err != nil {
			tx.Rollback()
			return nil, err
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit match batch: %w", err)
	}

	result.MatchesCreated = len(result.Matches)
	result.PlayersUpdated = len(cache)
	log.Info("Recorded matches in bulk", "matches", result.MatchesCreated, "playersUpdated", result.PlayersUpdated)
	return result, nil
}

// ListMatches returns every match, newest match number first, with winners
// resolved to player names.
func (s *store) ListMatches() ([]*Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names, err := s.playerNames()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`
		SELECT id, match_number, name, winners_json, created_at
		FROM matches ORDER BY match_number DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches: %w", err)
	}
	defer rows.Close()

	matches := []*Match{}
	for rows.Next() {
		match, err := scanMatch(rows, names)
		if err != nil {
			return nil, err
		}
		matches = append(matches, match)
	}
	return matches, rows.Err()
}

// DeleteMatchByName removes one match from the ledger and refolds every
// affected player from its remaining history, in the same transaction as
// the deletion. There is no incremental subtraction: the aggregate is
// rebuilt from what is left.
func (s *store) DeleteMatchByName(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	var matchID string
	var winnersJSON string
	err = tx.QueryRow("SELECT id, winners_json FROM matches WHERE name = ?", name).Scan(&matchID, &winnersJSON)
	if err != nil {
		tx.Rollback()
		if err == sql.ErrNoRows {
			return fmt.Errorf("match %q: %w", name, ErrMatchNotFound)
		}
		return fmt.Errorf("failed to look up match %q: %w", name, err)
	}

	if _, err := tx.Exec("DELETE FROM matches WHERE id = ?", matchID); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to delete match %s: %w", matchID, err)
	}

	var winners []Winner
	if err := json.Unmarshal([]byte(winnersJSON), &winners); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to unmarshal winners for match %s: %w", matchID, err)
	}

	affected := make(map[string]bool)
	for _, w := range winners {
		affected[w.PlayerID] = true
	}
	for playerID := range affected {
		p, err := loadPlayerTx(tx, playerID)
		if err != nil {
			tx.Rollback()
			return err
		}
		remaining := p.MatchHistory[:0]
		for _, h := range p.MatchHistory {
			if h.MatchID != matchID {
				remaining = append(remaining, h)
			}
		}
		p.MatchHistory = remaining
		if err := refoldPlayerTx(tx, p); err != nil {
			tx.Rollback()
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit match deletion: %w", err)
	}
	log.Info("Deleted match", "matchID", matchID, "name", name, "playersRefolded", len(affected))
	return nil
}

// Reset clears the ledger and zeroes every player's aggregate and history.
func (s *store) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM matches"); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to clear matches: %w", err)
	}
	if _, err := tx.Exec(`
		UPDATE players
		SET total_earnings = 0, wins = 0, top_three_finishes = 0, last_place_finishes = 0, average_earning = 0, history_json = '[]'`); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to reset player aggregates: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit reset: %w", err)
	}
	log.Info("Reset league store")
	return nil
}

// recordMatchTx validates and appends one match inside the caller's
// transaction. Players already loaded by a previous entry of the same
// batch are taken from the cache so their history keeps accumulating;
// refolding is the caller's responsibility. A number of 0 means "assign
// the next free match number".
func recordMatchTx(tx *sql.Tx, winners []Winner, name string, number int, cache map[string]*Player) (*Match, error) {
	if winners == nil {
		return nil, fmt.Errorf("winners must be a list: %w", ErrValidation)
	}

	var unknown []string
	for _, w := range winners {
		if w.PlayerID == "" {
			return nil, fmt.Errorf("winner is missing a playerId: %w", ErrValidation)
		}
		if _, ok := cache[w.PlayerID]; ok {
			continue
		}
		p, err := loadPlayerTx(tx, w.PlayerID)
		if err != nil {
			if err == sql.ErrNoRows {
				unknown = append(unknown, w.PlayerID)
				continue
			}
			return nil, err
		}
		cache[w.PlayerID] = p
	}
	if len(unknown) > 0 {
		return nil, &UnknownPlayersError{PlayerIDs: unknown}
	}

	if number == 0 {
		var err error
		number, err = nextMatchNumberTx(tx)
		if err != nil {
			return nil, err
		}
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = fmt.Sprintf("Match %d", number)
	}
	var nameTaken bool
	if err := tx.QueryRow("SELECT EXISTS(SELECT 1 FROM matches WHERE name = ?)", name).Scan(&nameTaken); err != nil {
		return nil, fmt.Errorf("failed to check match name: %w", err)
	}
	if nameTaken {
		return nil, fmt.Errorf("match %q: %w", name, ErrMatchConflict)
	}

	match := &Match{
		ID:          uuid.New().String(),
		MatchNumber: number,
		Name:        name,
		Winners:     []MatchWinner{},
		CreatedAt:   time.Now().Unix(),
	}
	stored := make([]Winner, 0, len(winners))
	for _, w := range winners {
		c := rules.Classify(w.Earnings)
		p := cache[w.PlayerID]
		stored = append(stored, Winner{PlayerID: w.PlayerID, Earnings: w.Earnings, Position: c.Position})
		match.Winners = append(match.Winners, MatchWinner{
			PlayerID:   w.PlayerID,
			PlayerName: p.Name,
			Earnings:   w.Earnings,
			Position:   c.Position,
		})
		p.MatchHistory = append(p.MatchHistory, HistoryEntry{
			MatchID:  match.ID,
			Earnings: w.Earnings,
			Position: c.Position,
		})
	}

	winnersJSON, err := json.Marshal(stored)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal winners: %w", err)
	}
	if _, err := tx.Exec(
		"INSERT INTO matches (id, match_number, name, winners_json, created_at) VALUES (?, ?, ?, ?, ?)",
		match.ID, match.MatchNumber, match.Name, string(winnersJSON), match.CreatedAt,
	); err != nil {
		return nil, fmt.Errorf("failed to insert match: %w", err)
	}
	return match, nil
}

// nextMatchNumberTx assigns the next sequential match number inside the
// current transaction, so concurrent inserts cannot hand out duplicates.
func nextMatchNumberTx(tx *sql.Tx) (int, error) {
	var next int
	if err := tx.QueryRow("SELECT COALESCE(MAX(match_number), 0) + 1 FROM matches").Scan(&next); err != nil {
		return 0, fmt.Errorf("failed to compute next match number: %w", err)
	}
	return next, nil
}

// loadPlayerTx reads a full player row inside the caller's transaction.
// Returns sql.ErrNoRows untouched so callers can map it to their own
// not-found semantics.
func loadPlayerTx(tx *sql.Tx, playerID string) (*Player, error) {
	var p Player
	var historyJSON sql.NullString
	err := tx.QueryRow(`
		SELECT id, name, total_earnings, wins, top_three_finishes, last_place_finishes, average_earning, history_json, created_at
		FROM players WHERE id = ?`, playerID).
		Scan(&p.ID, &p.Name, &p.TotalEarnings, &p.Wins, &p.TopThreeFinishes,
			&p.LastPlaceFinishes, &p.AverageEarning, &historyJSON, &p.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to load player %s: %w", playerID, err)
	}
	p.MatchHistory = []HistoryEntry{}
	if historyJSON.Valid && historyJSON.String != "" {
		if err := json.Unmarshal([]byte(historyJSON.String), &p.MatchHistory); err != nil {
			return nil, fmt.Errorf("failed to unmarshal history_json for player %s: %w", p.ID, err)
		}
	}
	return &p, nil
}

// scanMatch reads one match row and resolves winner names from the given
// id-to-name map.
func scanMatch(scanner interface{ Scan(...any) error }, names map[string]string) (*Match, error) {
	var m Match
	var winnersJSON sql.NullString
	if err := scanner.Scan(&m.ID, &m.MatchNumber, &m.Name, &winnersJSON, &m.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to scan match row: %w", err)
	}
	m.Winners = []MatchWinner{}
	if winnersJSON.Valid && winnersJSON.String != "" {
		var stored []Winner
		if err := json.Unmarshal([]byte(winnersJSON.String), &stored); err != nil {
			return nil, fmt.Errorf("failed to unmarshal winners_json for match %s: %w", m.ID, err)
		}
		for _, w := range stored {
			m.Winners = append(m.Winners, MatchWinner{
				PlayerID:   w.PlayerID,
				PlayerName: names[w.PlayerID],
				Earnings:   w.Earnings,
				Position:   w.Position,
			})
		}
	}
	return &m, nil
}

// playerNames builds an id-to-name map for resolving match winners.
func (s *store) playerNames() (map[string]string, error) {
	rows, err := s.db.Query("SELECT id, name FROM players")
	if err != nil {
		return nil, fmt.Errorf("failed to query player names: %w", err)
	}
	defer rows.Close()

	names := make(map[string]string)
	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("failed to scan player name: %w", err)
		}
		names[id] = name
	}
	return names, rows.Err()
}
