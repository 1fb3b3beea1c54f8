package rules

// Earnings thresholds for classifying a single match result.
// A result of exactly -20 is a neutral finish; only strictly lower
// earnings count as last place.
const (
	WinThreshold  float64 = 50
	LossThreshold float64 = -20
)

// Position values stored denormalized in a player's match history.
const (
	PositionTop     = 1
	PositionNeutral = 0
	PositionLast    = -1
)

// Classification is the outcome of classifying one earnings event.
type Classification struct {
	Win       bool
	TopFinish bool
	LastPlace bool
	Position  int
}

// Classify buckets a single earnings value.
func Classify(earnings float64) Classification {
	c := Classification{
		Win:       earnings >= WinThreshold,
		TopFinish: earnings > 0,
		LastPlace: earnings < LossThreshold,
	}
	switch {
	case c.TopFinish:
		c.Position = PositionTop
	case c.LastPlace:
		c.Position = PositionLast
	default:
		c.Position = PositionNeutral
	}
	return c
}

// Event is one entry of a player's match history as seen by the fold:
// the earnings and the position that was classified when the match was
// recorded.
type Event struct {
	Earnings float64
	Position int
}

// Aggregate is the cumulative summary of a match history. Every field is
// a pure function of the event sequence; nothing here is ever adjusted
// independently of the history it summarizes.
type Aggregate struct {
	TotalEarnings     float64
	Wins              int
	TopThreeFinishes  int
	LastPlaceFinishes int
	MatchesPlayed     int
	AverageEarning    float64
}

// Fold recomputes an aggregate from scratch over an ordered event
// sequence. Top and last-place counts are based on the stored position,
// wins on the earnings themselves. Folding event by event and folding the
// full sequence in one pass yield the same aggregate.
func Fold(events []Event) Aggregate {
	var agg Aggregate
	for _, e := range events {
		agg.TotalEarnings += e.Earnings
		if e.Earnings >= WinThreshold {
			agg.Wins++
		}
		switch e.Position {
		case PositionTop:
			agg.TopThreeFinishes++
		case PositionLast:
			agg.LastPlaceFinishes++
		}
	}
	agg.MatchesPlayed = len(events)
	if agg.MatchesPlayed > 0 {
		agg.AverageEarning = agg.TotalEarnings / float64(agg.MatchesPlayed)
	}
	return agg
}
