package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		PlayersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tracker_players_created_total",
			Help: "The total number of players created.",
		}),
		MatchesRecorded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tracker_matches_recorded_total",
			Help: "The total number of matches recorded.",
		}),
		MatchesDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tracker_matches_deleted_total",
			Help: "The total number of matches deleted from the ledger.",
		}),
		StoreResets: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tracker_store_resets_total",
			Help: "The total number of full store resets.",
		}),
		RefoldDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "tracker_refold_duration_seconds",
			Help:    "The duration of aggregate recomputations, including the ledger write.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tracker_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.PlayersCreated,
		s.MatchesRecorded,
		s.MatchesDeleted,
		s.StoreResets,
		s.RefoldDuration,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) AddPlayersCreated(n int) {
	s.PlayersCreated.Add(float64(n))
}

func (s *Service) IncMatchesRecorded() {
	s.MatchesRecorded.Inc()
}

func (s *Service) IncMatchesDeleted() {
	s.MatchesDeleted.Inc()
}

func (s *Service) IncStoreResets() {
	s.StoreResets.Inc()
}

func (s *Service) ObserveRefoldDuration(duration float64) {
	s.RefoldDuration.Observe(duration)
}

func (s *Service) SetStartupTime(duration float64) {
	s.StartupTimeSeconds.Set(duration)
}
