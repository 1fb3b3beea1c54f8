package league_test

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fantasynight/tracker/internal/database"
	"github.com/fantasynight/tracker/internal/league"
	"github.com/fantasynight/tracker/internal/rules"
)

// setupTestDB creates a temporary in-memory SQLite database for testing.
func setupTestDB(t *testing.T) (league.LeagueStore, *sql.DB, func()) {
	t.Helper()

	db, err := database.InitDB(":memory:", "", "")
	require.NoError(t, err)

	store := league.New(db)
	teardown := func() {
		db.Close()
	}
	return store, db, teardown
}

func createPlayers(t *testing.T, store league.LeagueStore, names ...string) map[string]*league.Player {
	t.Helper()
	players := make(map[string]*league.Player, len(names))
	for _, name := range names {
		p, err := store.CreatePlayer(name)
		require.NoError(t, err)
		players[name] = p
	}
	return players
}

func TestCreatePlayer(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	p, err := store.CreatePlayer("Bharath")
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "Bharath", p.Name)
	assert.Empty(t, p.MatchHistory)

	t.Run("duplicate name conflicts", func(t *testing.T) {
		_, err := store.CreatePlayer("Bharath")
		assert.ErrorIs(t, err, league.ErrPlayerConflict)
	})

	t.Run("empty name is rejected", func(t *testing.T) {
		_, err := store.CreatePlayer("   ")
		assert.ErrorIs(t, err, league.ErrValidation)
	})
}

func TestCreatePlayersBulk(t *testing.T) {
	t.Run("duplicate names in input reject the batch", func(t *testing.T) {
		store, _, teardown := setupTestDB(t)
		defer teardown()

		_, err := store.CreatePlayersBulk([]string{"A", "A"})
		assert.ErrorIs(t, err, league.ErrValidation)

		players, err := store.ListPlayers("")
		require.NoError(t, err)
		assert.Empty(t, players)
	})

	t.Run("existing names are skipped, not an error", func(t *testing.T) {
		store, _, teardown := setupTestDB(t)
		defer teardown()

		createPlayers(t, store, "A")

		result, err := store.CreatePlayersBulk([]string{"A", "B", "C"})
		require.NoError(t, err)
		assert.Len(t, result.Created, 2)
		assert.Equal(t, 1, result.Skipped)
		assert.Equal(t, []string{"A"}, result.Existing)
	})

	t.Run("all existing rejects the batch", func(t *testing.T) {
		store, _, teardown := setupTestDB(t)
		defer teardown()

		createPlayers(t, store, "A")

		_, err := store.CreatePlayersBulk([]string{"A"})
		assert.ErrorIs(t, err, league.ErrPlayerConflict)
	})
}

func TestRecordMatchUpdatesAggregates(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	players := createPlayers(t, store, "A", "B")

	match, err := store.RecordMatch([]league.Winner{
		{PlayerID: players["A"].ID, Earnings: 60},
		{PlayerID: players["B"].ID, Earnings: -20},
	}, "")
	require.NoError(t, err)
	assert.Equal(t, 1, match.MatchNumber)
	assert.Equal(t, "Match 1", match.Name)

	list, err := store.ListPlayers("")
	require.NoError(t, err)
	require.Len(t, list, 2)

	byName := make(map[string]*league.Player)
	for _, p := range list {
		byName[p.Name] = p
	}

	a := byName["A"]
	assert.InDelta(t, 60.0, a.TotalEarnings, 0.001)
	assert.Equal(t, 1, a.Wins)
	assert.Equal(t, 1, a.TopThreeFinishes)
	assert.Equal(t, 0, a.LastPlaceFinishes)
	assert.InDelta(t, 60.0, a.AverageEarning, 0.001)
	require.Len(t, a.MatchHistory, 1)
	assert.Equal(t, match.ID, a.MatchHistory[0].MatchID)
	assert.Equal(t, rules.PositionTop, a.MatchHistory[0].Position)

	// -20 is the neutral boundary: not a last-place finish.
	b := byName["B"]
	assert.InDelta(t, -20.0, b.TotalEarnings, 0.001)
	assert.Equal(t, 0, b.Wins)
	assert.Equal(t, 0, b.TopThreeFinishes)
	assert.Equal(t, 0, b.LastPlaceFinishes)
	assert.Equal(t, rules.PositionNeutral, b.MatchHistory[0].Position)
}

func TestRecordMatchUnknownPlayer(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	players := createPlayers(t, store, "A")

	_, err := store.RecordMatch([]league.Winner{
		{PlayerID: players["A"].ID, Earnings: 10},
		{PlayerID: "nope-1", Earnings: 20},
		{PlayerID: "nope-2", Earnings: 30},
	}, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, league.ErrPlayerNotFound)

	var unknown *league.UnknownPlayersError
	require.ErrorAs(t, err, &unknown)
	assert.ElementsMatch(t, []string{"nope-1", "nope-2"}, unknown.PlayerIDs)

	// The rejected match must leave no trace: no ledger entry, no history.
	matches, err := store.ListMatches()
	require.NoError(t, err)
	assert.Empty(t, matches)

	list, err := store.ListPlayers("")
	require.NoError(t, err)
	assert.Empty(t, list[0].MatchHistory)
}

func TestRecordMatchValidation(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	_, err := store.RecordMatch(nil, "")
	assert.ErrorIs(t, err, league.ErrValidation)
}

func TestMatchNumberingAndListing(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	players := createPlayers(t, store, "A")
	a := players["A"].ID

	first, err := store.RecordMatch([]league.Winner{{PlayerID: a, Earnings: 10}}, "")
	require.NoError(t, err)
	second, err := store.RecordMatch([]league.Winner{{PlayerID: a, Earnings: 20}}, "Finals")
	require.NoError(t, err)

	assert.Equal(t, 1, first.MatchNumber)
	assert.Equal(t, 2, second.MatchNumber)
	assert.Equal(t, "Finals", second.Name)

	t.Run("duplicate match name conflicts", func(t *testing.T) {
		_, err := store.RecordMatch([]league.Winner{{PlayerID: a, Earnings: 5}}, "Finals")
		assert.ErrorIs(t, err, league.ErrMatchConflict)
	})

	matches, err := store.ListMatches()
	require.NoError(t, err)
	require.Len(t, matches, 2)
	// Newest match number first, winners resolved to names.
	assert.Equal(t, 2, matches[0].MatchNumber)
	assert.Equal(t, 1, matches[1].MatchNumber)
	require.Len(t, matches[0].Winners, 1)
	assert.Equal(t, "A", matches[0].Winners[0].PlayerName)
}

func TestRecordMatchesBulk(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	players := createPlayers(t, store, "A", "B")
	a, b := players["A"].ID, players["B"].ID

	result, err := store.RecordMatchesBulk([]league.MatchEntry{
		{Winners: []league.Winner{{PlayerID: a, Earnings: 60}, {PlayerID: b, Earnings: -40}}},
		{Winners: []league.Winner{{PlayerID: a, Earnings: -20}}},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.MatchesCreated)
	assert.Equal(t, 2, result.PlayersUpdated)
	require.Len(t, result.Matches, 2)
	assert.Equal(t, 1, result.Matches[0].MatchNumber)
	assert.Equal(t, 2, result.Matches[1].MatchNumber)

	list, err := store.ListPlayers("")
	require.NoError(t, err)
	byName := make(map[string]*league.Player)
	for _, p := range list {
		byName[p.Name] = p
	}

	// Both matches of the batch are folded into A's aggregate once.
	assert.InDelta(t, 40.0, byName["A"].TotalEarnings, 0.001)
	assert.Len(t, byName["A"].MatchHistory, 2)
	assert.Equal(t, 1, byName["A"].Wins)
	assert.Equal(t, 1, byName["B"].LastPlaceFinishes)
}

func TestRecordMatchesBulkIsAtomic(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	players := createPlayers(t, store, "A")
	a := players["A"].ID

	_, err := store.RecordMatchesBulk([]league.MatchEntry{
		{Winners: []league.Winner{{PlayerID: a, Earnings: 60}}},
		{Winners: nil}, // malformed entry poisons the whole batch
	})
	require.Error(t, err)

	var entryErr *league.BulkEntryError
	require.ErrorAs(t, err, &entryErr)
	assert.Equal(t, 1, entryErr.Index)
	assert.ErrorIs(t, err, league.ErrValidation)

	matches, err := store.ListMatches()
	require.NoError(t, err)
	assert.Empty(t, matches)

	list, err := store.ListPlayers("")
	require.NoError(t, err)
	assert.Zero(t, list[0].TotalEarnings)
	assert.Empty(t, list[0].MatchHistory)
}

func TestDeleteMatchByName(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	players := createPlayers(t, store, "A", "B")
	a, b := players["A"].ID, players["B"].ID

	_, err := store.RecordMatch([]league.Winner{{PlayerID: a, Earnings: 60}, {PlayerID: b, Earnings: -40}}, "Opener")
	require.NoError(t, err)
	_, err = store.RecordMatch([]league.Winner{{PlayerID: a, Earnings: -21}}, "Rematch")
	require.NoError(t, err)

	require.NoError(t, store.DeleteMatchByName("Opener"))

	list, err := store.ListPlayers("")
	require.NoError(t, err)
	byName := make(map[string]*league.Player)
	for _, p := range list {
		byName[p.Name] = p
	}

	// A's aggregate equals a fold over the single remaining event.
	aPlayer := byName["A"]
	require.Len(t, aPlayer.MatchHistory, 1)
	assert.Equal(t, "Rematch", mustMatchName(t, store, aPlayer.MatchHistory[0].MatchID))
	assert.InDelta(t, -21.0, aPlayer.TotalEarnings, 0.001)
	assert.Equal(t, 0, aPlayer.Wins)
	assert.Equal(t, 1, aPlayer.LastPlaceFinishes)
	assert.InDelta(t, -21.0, aPlayer.AverageEarning, 0.001)

	// B's history is empty again and the aggregate is zeroed.
	bPlayer := byName["B"]
	assert.Empty(t, bPlayer.MatchHistory)
	assert.Zero(t, bPlayer.TotalEarnings)
	assert.Zero(t, bPlayer.LastPlaceFinishes)
	assert.Zero(t, bPlayer.AverageEarning)

	t.Run("unknown name is not found", func(t *testing.T) {
		err := store.DeleteMatchByName("Opener")
		assert.ErrorIs(t, err, league.ErrMatchNotFound)
	})
}

func mustMatchName(t *testing.T, store league.LeagueStore, matchID string) string {
	t.Helper()
	matches, err := store.ListMatches()
	require.NoError(t, err)
	for _, m := range matches {
		if m.ID == matchID {
			return m.Name
		}
	}
	t.Fatalf("match %s not found", matchID)
	return ""
}

func TestReset(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	players := createPlayers(t, store, "A", "B")
	_, err := store.RecordMatch([]league.Winner{
		{PlayerID: players["A"].ID, Earnings: 60},
		{PlayerID: players["B"].ID, Earnings: -40},
	}, "")
	require.NoError(t, err)

	require.NoError(t, store.Reset())

	matches, err := store.ListMatches()
	require.NoError(t, err)
	assert.Empty(t, matches)

	list, err := store.ListPlayers("")
	require.NoError(t, err)
	require.Len(t, list, 2)
	for _, p := range list {
		assert.Zero(t, p.TotalEarnings)
		assert.Zero(t, p.Wins)
		assert.Zero(t, p.AverageEarning)
		assert.Empty(t, p.MatchHistory)
	}

	// Numbering restarts after a reset.
	match, err := store.RecordMatch([]league.Winner{{PlayerID: players["A"].ID, Earnings: 5}}, "")
	require.NoError(t, err)
	assert.Equal(t, 1, match.MatchNumber)
}

func TestListPlayersSorting(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	players := createPlayers(t, store, "Low", "High")
	_, err := store.RecordMatch([]league.Winner{
		{PlayerID: players["High"].ID, Earnings: 65},
		{PlayerID: players["Low"].ID, Earnings: -20},
	}, "")
	require.NoError(t, err)

	list, err := store.ListPlayers("")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "High", list[0].Name)

	byName, err := store.ListPlayers("name")
	require.NoError(t, err)
	assert.Equal(t, "High", byName[0].Name)
	assert.Equal(t, "Low", byName[1].Name)

	_, err = store.ListPlayers("bogus")
	assert.ErrorIs(t, err, league.ErrValidation)
}

func TestProjections(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	players := createPlayers(t, store, "A", "B", "C", "D")
	_, err := store.RecordMatchesBulk([]league.MatchEntry{
		{Winners: []league.Winner{
			{PlayerID: players["A"].ID, Earnings: 65},
			{PlayerID: players["B"].ID, Earnings: 25},
			{PlayerID: players["C"].ID, Earnings: 5},
			{PlayerID: players["D"].ID, Earnings: -40},
		}},
	})
	require.NoError(t, err)

	t.Run("stats projection", func(t *testing.T) {
		stats, err := store.PlayerStats()
		require.NoError(t, err)
		require.Len(t, stats, 4)
		assert.Equal(t, "A", stats[0].Name)
		assert.Equal(t, 1, stats[0].Wins)
		assert.InDelta(t, 65.0, stats[0].AverageEarning, 0.001)
	})

	t.Run("top three", func(t *testing.T) {
		podium, err := store.TopThree()
		require.NoError(t, err)
		require.Len(t, podium, 3)
		assert.Equal(t, "A", podium[0].Name)
		assert.Equal(t, "B", podium[1].Name)
		assert.Equal(t, "C", podium[2].Name)
		assert.InDelta(t, 65.0, podium[0].TotalEarnings, 0.001)
	})

	t.Run("stats by name is case-insensitive", func(t *testing.T) {
		st, err := store.PlayerStatsByName("a")
		require.NoError(t, err)
		assert.Equal(t, "A", st.Name)

		_, err = store.PlayerStatsByName("ghost")
		assert.ErrorIs(t, err, league.ErrPlayerNotFound)
	})
}

// The stored aggregate must always equal a one-pass fold over the stored
// history, no matter how the history was built up.
func TestAggregateEqualsFoldOfHistory(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	players := createPlayers(t, store, "A")
	a := players["A"].ID

	earnings := []float64{0, -20, 60, 16, -40, 45, -20, 25, 50, -21}
	for _, e := range earnings {
		_, err := store.RecordMatch([]league.Winner{{PlayerID: a, Earnings: e}}, "")
		require.NoError(t, err)
	}

	list, err := store.ListPlayers("")
	require.NoError(t, err)
	p := list[0]

	events := make([]rules.Event, len(p.MatchHistory))
	for i, h := range p.MatchHistory {
		events[i] = rules.Event{Earnings: h.Earnings, Position: h.Position}
	}
	agg := rules.Fold(events)

	assert.InDelta(t, agg.TotalEarnings, p.TotalEarnings, 0.001)
	assert.Equal(t, agg.Wins, p.Wins)
	assert.Equal(t, agg.TopThreeFinishes, p.TopThreeFinishes)
	assert.Equal(t, agg.LastPlaceFinishes, p.LastPlaceFinishes)
	assert.InDelta(t, agg.AverageEarning, p.AverageEarning, 0.001)
}
