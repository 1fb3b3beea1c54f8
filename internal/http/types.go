package http

import (
	"net/http"

	"github.com/fantasynight/tracker/internal/config"
	"github.com/fantasynight/tracker/internal/league"
	"github.com/fantasynight/tracker/internal/metrics"
)

type Server struct {
	Store          league.LeagueStore
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Cfg            config.Config
	Router         *http.ServeMux
}
