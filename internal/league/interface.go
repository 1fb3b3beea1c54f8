package league

// LeagueStore defines the interface for interacting with the league's data.
// Every mutating operation runs in a single database transaction: a failed
// write leaves no partial state behind, on the create, delete and reset
// paths alike.
type LeagueStore interface {
	CreatePlayer(name string) (*Player, error)
	CreatePlayersBulk(names []string) (*BulkPlayersResult, error)
	ListPlayers(sortBy string) ([]*Player, error)
	PlayerStats() ([]PlayerStats, error)
	PlayerStatsByName(name string) (*PlayerStats, error)
	TopThree() ([]PodiumEntry, error)

	RecordMatch(winners []Winner, name string) (*Match, error)
	RecordMatchesBulk(entries []MatchEntry) (*BulkMatchesResult, error)
	ListMatches() ([]*Match, error)
	DeleteMatchByName(name string) error
	Reset() error
}
