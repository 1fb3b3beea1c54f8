package http

import (
	"net/http"

	"github.com/fantasynight/tracker/internal/config"
	"github.com/fantasynight/tracker/internal/league"
	"github.com/fantasynight/tracker/internal/metrics"
)

func NewServer(store league.LeagueStore, metricsSvc metrics.Metrics, metricsHandler http.Handler, cfg config.Config) *Server {
	server := &Server{
		Store:          store,
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
		Router:         http.NewServeMux(),
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	// Mutating routes additionally require the admin passkey.
	s.Router.Handle("/metrics", s.MetricsHandler)
	s.Router.Handle("GET /health", Chain(s.HealthCheckHandler(), paramsMiddleware))

	s.Router.Handle("GET /players", Chain(s.ListPlayersHandler(), paramsMiddleware))
	s.Router.Handle("GET /players/stats", Chain(s.PlayerStatsHandler(), paramsMiddleware))
	s.Router.Handle("GET /players/stats/{name}", Chain(s.PlayerStatsByNameHandler(), paramsMiddleware))
	s.Router.Handle("GET /players/top-three", Chain(s.TopThreeHandler(), paramsMiddleware))
	s.Router.Handle("POST /players", Chain(s.CreatePlayerHandler(), paramsMiddleware, s.requirePasskey))
	s.Router.Handle("POST /players/bulk", Chain(s.CreatePlayersBulkHandler(), paramsMiddleware, s.requirePasskey))

	s.Router.Handle("GET /matches", Chain(s.ListMatchesHandler(), paramsMiddleware))
	s.Router.Handle("POST /matches", Chain(s.RecordMatchHandler(), paramsMiddleware, s.requirePasskey))
	s.Router.Handle("POST /matches/bulk", Chain(s.RecordMatchesBulkHandler(), paramsMiddleware, s.requirePasskey))
	s.Router.Handle("DELETE /matches", Chain(s.DeleteMatchHandler(), paramsMiddleware, s.requirePasskey))

	s.Router.Handle("POST /reset", Chain(s.ResetHandler(), paramsMiddleware, s.requirePasskey))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
