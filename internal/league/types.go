package league

import (
	"database/sql"
	"sync"
)

// store handles all database operations for the league.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// HistoryEntry is one recorded match result in a player's history. The
// position is denormalized at record time so the history can be
// re-displayed without reclassifying.
type HistoryEntry struct {
	MatchID  string  `json:"matchId"`
	Earnings float64 `json:"earnings"`
	Position int     `json:"position"`
}

// Player is a league member together with the aggregate derived from its
// match history. The aggregate columns always equal a fold over
// MatchHistory; they are rewritten wholesale on every mutation.
type Player struct {
	ID                string         `json:"id"`
	Name              string         `json:"name"`
	TotalEarnings     float64        `json:"totalEarnings"`
	Wins              int            `json:"wins"`
	TopThreeFinishes  int            `json:"topThreeFinishes"`
	LastPlaceFinishes int            `json:"lastPlaceFinishes"`
	AverageEarning    float64        `json:"averageEarning"`
	MatchHistory      []HistoryEntry `json:"matchHistory"`
	CreatedAt         int64          `json:"createdAt"`
}

// Winner is one (player, earnings) pair submitted with a match.
type Winner struct {
	PlayerID string  `json:"playerId"`
	Earnings float64 `json:"earnings"`
	Position int     `json:"position"`
}

// MatchWinner is a winner resolved to a player name for display.
type MatchWinner struct {
	PlayerID   string  `json:"playerId"`
	PlayerName string  `json:"playerName"`
	Earnings   float64 `json:"earnings"`
	Position   int     `json:"position"`
}

// Match is one recorded session. Matches are immutable once recorded;
// the only mutations are whole-match deletion and a full reset.
type Match struct {
	ID          string        `json:"id"`
	MatchNumber int           `json:"matchNumber"`
	Name        string        `json:"name"`
	Winners     []MatchWinner `json:"winners"`
	CreatedAt   int64         `json:"createdAt"`
}

// MatchEntry is one entry of a bulk match submission.
type MatchEntry struct {
	Winners []Winner
	Name    string
}

// PlayerStats is the stats projection used by the leaderboard table.
type PlayerStats struct {
	Name              string  `json:"name"`
	Wins              int     `json:"wins"`
	TopThreeFinishes  int     `json:"topThreeFinishes"`
	LastPlaceFinishes int     `json:"lastPlaceFinishes"`
	AverageEarning    float64 `json:"averageEarning"`
}

// PodiumEntry is one slot of the top-three podium.
type PodiumEntry struct {
	Name          string  `json:"name"`
	TotalEarnings float64 `json:"totalEarnings"`
}

// BulkPlayersResult reports the outcome of a bulk player creation:
// names that already existed are skipped, not an error.
type BulkPlayersResult struct {
	Created  []*Player `json:"created"`
	Skipped  int       `json:"skipped"`
	Existing []string  `json:"existing"`
}

// BulkMatchesResult reports the outcome of a bulk match submission.
type BulkMatchesResult struct {
	MatchesCreated int      `json:"matchesCreated"`
	PlayersUpdated int      `json:"playersUpdated"`
	Matches        []*Match `json:"matches"`
}
