package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/fantasynight/tracker/internal/league"
)

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

func (s *Server) ListPlayersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		players, err := s.Store.ListPlayers(r.URL.Query().Get("sort"))
		if err != nil {
			s.respondError(w, err, "Failed to list players")
			return
		}
		respondJSON(w, http.StatusOK, players)
	}
}

func (s *Server) PlayerStatsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := s.Store.PlayerStats()
		if err != nil {
			s.respondError(w, err, "Failed to get player stats")
			return
		}
		respondJSON(w, http.StatusOK, stats)
	}
}

func (s *Server) PlayerStatsByNameHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := r.PathValue("name")
		stats, err := s.Store.PlayerStatsByName(name)
		if err != nil {
			s.respondError(w, err, "Failed to get player stats by name")
			return
		}
		respondJSON(w, http.StatusOK, stats)
	}
}

func (s *Server) TopThreeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		podium, err := s.Store.TopThree()
		if err != nil {
			s.respondError(w, err, "Failed to get podium")
			return
		}
		respondJSON(w, http.StatusOK, podium)
	}
}

func (s *Server) CreatePlayerHandler() http.HandlerFunc {
	type request struct {
		Name string `json:"name"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.respondError(w, fmt.Errorf("invalid request body: %w", league.ErrValidation), "Failed to decode create player request")
			return
		}
		player, err := s.Store.CreatePlayer(req.Name)
		if err != nil {
			s.respondError(w, err, "Failed to create player")
			return
		}
		s.Metrics.AddPlayersCreated(1)
		respondJSON(w, http.StatusCreated, player)
	}
}

func (s *Server) CreatePlayersBulkHandler() http.HandlerFunc {
	type request struct {
		Players []string `json:"players"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.respondError(w, fmt.Errorf("players must be an array of names: %w", league.ErrValidation), "Failed to decode bulk players request")
			return
		}
		result, err := s.Store.CreatePlayersBulk(req.Players)
		if err != nil {
			s.respondError(w, err, "Failed to create players in bulk")
			return
		}
		s.Metrics.AddPlayersCreated(len(result.Created))
		respondJSON(w, http.StatusCreated, result)
	}
}

func (s *Server) ListMatchesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matches, err := s.Store.ListMatches()
		if err != nil {
			s.respondError(w, err, "Failed to list matches")
			return
		}
		respondJSON(w, http.StatusOK, matches)
	}
}

type winnerInput struct {
	PlayerID string  `json:"playerId"`
	Earnings float64 `json:"earnings"`
}

type matchInput struct {
	Winners   []winnerInput `json:"winners"`
	MatchName string        `json:"matchName"`
}

func (in matchInput) toWinners() []league.Winner {
	if in.Winners == nil {
		return nil
	}
	winners := make([]league.Winner, len(in.Winners))
	for i, w := range in.Winners {
		winners[i] = league.Winner{PlayerID: w.PlayerID, Earnings: w.Earnings}
	}
	return winners
}

func (s *Server) RecordMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req matchInput
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.respondError(w, fmt.Errorf("winners must be a list: %w", league.ErrValidation), "Failed to decode match request")
			return
		}

		start := time.Now()
		match, err := s.Store.RecordMatch(req.toWinners(), req.MatchName)
		if err != nil {
			s.respondError(w, err, "Failed to record match")
			return
		}
		s.Metrics.IncMatchesRecorded()
		s.Metrics.ObserveRefoldDuration(time.Since(start).Seconds())
		respondJSON(w, http.StatusCreated, match)
	}
}

func (s *Server) RecordMatchesBulkHandler() http.HandlerFunc {
	type request struct {
		Matches []matchInput `json:"matches"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.respondError(w, fmt.Errorf("matches must be a list: %w", league.ErrValidation), "Failed to decode bulk match request")
			return
		}

		entries := make([]league.MatchEntry, len(req.Matches))
		for i, m := range req.Matches {
			entries[i] = league.MatchEntry{Winners: m.toWinners(), Name: m.MatchName}
		}

		start := time.Now()
		result, err := s.Store.RecordMatchesBulk(entries)
		if err != nil {
			s.respondError(w, err, "Failed to record matches in bulk")
			return
		}
		for range result.Matches {
			s.Metrics.IncMatchesRecorded()
		}
		s.Metrics.ObserveRefoldDuration(time.Since(start).Seconds())
		respondJSON(w, http.StatusCreated, result)
	}
}

func (s *Server) DeleteMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := r.URL.Query().Get("name")
		if name == "" {
			s.respondError(w, fmt.Errorf("match name is required: %w", league.ErrValidation), "Missing match name on delete")
			return
		}
		if err := s.Store.DeleteMatchByName(name); err != nil {
			s.respondError(w, err, "Failed to delete match")
			return
		}
		s.Metrics.IncMatchesDeleted()
		respondJSON(w, http.StatusOK, map[string]string{"message": fmt.Sprintf("match %q deleted", name)})
	}
}

func (s *Server) ResetHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.Store.Reset(); err != nil {
			s.respondError(w, err, "Failed to reset store")
			return
		}
		s.Metrics.IncStoreResets()
		respondJSON(w, http.StatusOK, map[string]string{"message": "store reset"})
	}
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to write response", "error", err)
	}
}

// respondError maps the store's error taxonomy onto HTTP status codes.
// Validation failures and conflicts are the caller's fault; anything else
// is a store failure.
func (s *Server) respondError(w http.ResponseWriter, err error, msg string) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, league.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, league.ErrPlayerNotFound), errors.Is(err, league.ErrMatchNotFound):
		status = http.StatusNotFound
	case errors.Is(err, league.ErrPlayerConflict), errors.Is(err, league.ErrMatchConflict):
		status = http.StatusConflict
	}
	if league.IsClientError(err) {
		log.Debug(msg, "error", err)
	} else {
		log.Error(msg, "error", err)
	}
	respondJSON(w, status, map[string]string{"message": err.Error()})
}
