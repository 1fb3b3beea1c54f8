package metrics

import "github.com/prometheus/client_golang/prometheus"

// Service holds all the Prometheus metrics for the application.
// By defining them all in one place, we ensure consistency in naming and labeling.
type Service struct {
	PlayersCreated     prometheus.Counter
	MatchesRecorded    prometheus.Counter
	MatchesDeleted     prometheus.Counter
	StoreResets        prometheus.Counter
	RefoldDuration     prometheus.Histogram
	StartupTimeSeconds prometheus.Gauge
}
