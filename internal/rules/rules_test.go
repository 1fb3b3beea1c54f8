package rules_test

import (
	"testing"

	"github.com/fantasynight/tracker/internal/rules"
	"github.com/stretchr/testify/assert"
)

func TestClassifyBoundaries(t *testing.T) {
	t.Run("exactly 50 is a win", func(t *testing.T) {
		c := rules.Classify(50)
		assert.True(t, c.Win)
		assert.True(t, c.TopFinish)
		assert.Equal(t, rules.PositionTop, c.Position)
	})

	t.Run("49 is a top finish but not a win", func(t *testing.T) {
		c := rules.Classify(49)
		assert.False(t, c.Win)
		assert.True(t, c.TopFinish)
		assert.Equal(t, rules.PositionTop, c.Position)
	})

	t.Run("exactly -20 is neutral", func(t *testing.T) {
		c := rules.Classify(-20)
		assert.False(t, c.LastPlace)
		assert.False(t, c.TopFinish)
		assert.Equal(t, rules.PositionNeutral, c.Position)
	})

	t.Run("-21 is last place", func(t *testing.T) {
		c := rules.Classify(-21)
		assert.True(t, c.LastPlace)
		assert.Equal(t, rules.PositionLast, c.Position)
	})

	t.Run("zero is neutral", func(t *testing.T) {
		c := rules.Classify(0)
		assert.False(t, c.Win)
		assert.False(t, c.TopFinish)
		assert.False(t, c.LastPlace)
		assert.Equal(t, rules.PositionNeutral, c.Position)
	})
}

func eventsFromEarnings(earnings []float64) []rules.Event {
	events := make([]rules.Event, len(earnings))
	for i, e := range earnings {
		events[i] = rules.Event{Earnings: e, Position: rules.Classify(e).Position}
	}
	return events
}

func TestFoldEmptyHistory(t *testing.T) {
	agg := rules.Fold(nil)
	assert.Zero(t, agg.TotalEarnings)
	assert.Zero(t, agg.Wins)
	assert.Zero(t, agg.MatchesPlayed)
	assert.Zero(t, agg.AverageEarning)
}

func TestFoldCounts(t *testing.T) {
	// A realistic session sequence: wins, neutral finishes and last places.
	events := eventsFromEarnings([]float64{60, -20, 0, 45, -40, 50, -21, 5})

	agg := rules.Fold(events)

	assert.Equal(t, 8, agg.MatchesPlayed)
	assert.Equal(t, 2, agg.Wins)              // 60 and 50
	assert.Equal(t, 4, agg.TopThreeFinishes)  // 60, 45, 50, 5
	assert.Equal(t, 2, agg.LastPlaceFinishes) // -40 and -21
	assert.InDelta(t, 79.0, agg.TotalEarnings, 0.001)
	assert.InDelta(t, 79.0/8, agg.AverageEarning, 0.001)
}

// Folding event by event must agree with folding the full history in one
// pass, for any prefix of the history.
func TestFoldConsistencyIncrementalVsScratch(t *testing.T) {
	earnings := []float64{0, -20, 60, 16, -40, 45, -20, 25, 50, -21, 65, 5, -30, 80}
	events := eventsFromEarnings(earnings)

	for i := 1; i <= len(events); i++ {
		scratch := rules.Fold(events[:i])

		// Incremental: refold after each appended event, keeping only the
		// final result.
		var incremental rules.Aggregate
		var history []rules.Event
		for _, e := range events[:i] {
			history = append(history, e)
			incremental = rules.Fold(history)
		}

		assert.Equal(t, scratch, incremental, "prefix length %d", i)
	}
}

func TestFoldIdempotentRecompute(t *testing.T) {
	events := eventsFromEarnings([]float64{22, -20, -40, 45, 35, -20, 65})

	first := rules.Fold(events)
	second := rules.Fold(events)

	assert.Equal(t, first, second)
}

func TestAverageEarning(t *testing.T) {
	events := eventsFromEarnings([]float64{10, 20, -27})

	agg := rules.Fold(events)

	assert.InDelta(t, 1.0, agg.AverageEarning, 0.01)
}
