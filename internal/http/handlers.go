package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/padel-ladder/internal/club"
	"github.com/mauv0809/padel-ladder/internal/processor"
	"github.com/mauv0809/padel-ladder/internal/ranking"
)

const defaultListLimit = 50

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "OK!")
	}
}

func (s *Server) DivisionsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, s.Processor.Engine().Divisions().Divisions())
	}
}

func (s *Server) LeaderboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		players, err := s.Store.GetLeaderboard(queryInt(r, "limit", defaultListLimit))
		if err != nil {
			log.Error("Failed to load leaderboard", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to load leaderboard")
			return
		}
		table := s.Processor.Engine().Divisions()
		entries := make([]LeaderboardEntry, 0, len(players))
		for i, p := range players {
			entries = append(entries, LeaderboardEntry{Rank: i + 1, PlayerView: newPlayerView(table, p)})
		}
		writeJSON(w, http.StatusOK, entries)
	}
}

func (s *Server) PlayerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		player, err := s.Store.GetPlayer(id)
		if errors.Is(err, club.ErrPlayerNotFound) {
			writeError(w, http.StatusNotFound, fmt.Sprintf("player %s not found", id))
			return
		}
		if err != nil {
			log.Error("Failed to load player", "error", err, "playerID", id)
			writeError(w, http.StatusInternalServerError, "failed to load player")
			return
		}
		writeJSON(w, http.StatusOK, newPlayerView(s.Processor.Engine().Divisions(), *player))
	}
}

func (s *Server) PlayerHistoryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		history, err := s.Store.GetRatingHistory(id, queryInt(r, "limit", defaultListLimit))
		if err != nil {
			log.Error("Failed to load rating history", "error", err, "playerID", id)
			writeError(w, http.StatusInternalServerError, "failed to load rating history")
			return
		}
		writeJSON(w, http.StatusOK, history)
	}
}

// LinkSlackUserHandler attaches a Slack member ID to a player so division
// changes mention them.
func (s *Server) LinkSlackUserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		var req linkSlackRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.SlackUserID == "" {
			writeError(w, http.StatusBadRequest, "slack_user_id is required")
			return
		}
		if !s.Store.IsKnownPlayer(id) {
			writeError(w, http.StatusNotFound, fmt.Sprintf("player %s not found", id))
			return
		}
		if isDryRunFromContext(r) {
			log.Info("[Dry Run] Would link Slack user", "playerID", id, "slackUserID", req.SlackUserID)
			w.WriteHeader(http.StatusOK)
			return
		}
		if err := s.Store.LinkSlackUser(id, req.SlackUserID); err != nil {
			log.Error("Failed to link Slack user", "error", err, "playerID", id)
			writeError(w, http.StatusInternalServerError, "failed to link slack user")
			return
		}
		log.Info("Linked Slack user", "playerID", id, "slackUserID", req.SlackUserID)
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) RatedMatchesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matches, err := s.Store.GetRatedMatches(queryInt(r, "limit", defaultListLimit))
		if err != nil {
			log.Error("Failed to load rated matches", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to load rated matches")
			return
		}
		writeJSON(w, http.StatusOK, matches)
	}
}

func (s *Server) RateMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in processor.MatchResult
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		rated, err := s.Processor.RateMatch(r.Context(), in, isDryRunFromContext(r))
		if err != nil {
			status := statusForRatingError(err)
			if status == http.StatusInternalServerError {
				log.Error("Failed to rate match", "error", err, "matchID", in.MatchID)
			}
			writeError(w, status, err.Error())
			return
		}
		status := http.StatusCreated
		if rated.DryRun {
			status = http.StatusOK
		}
		writeJSON(w, status, rated)
	}
}

// ImportHandler rates the Playtomic matches played since the start of the day
// 'days' days ago.
func (s *Server) ImportHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		days := queryInt(r, "days", 0)
		now := time.Now()
		since := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, -days)

		report, err := s.Processor.ImportPlaytomicMatches(r.Context(), since, isDryRunFromContext(r))
		if errors.Is(err, processor.ErrPlaytomicDisabled) {
			writeError(w, http.StatusServiceUnavailable, err.Error())
			return
		}
		if err != nil {
			log.Error("Playtomic import failed", "error", err)
			writeError(w, http.StatusInternalServerError, "import failed")
			return
		}
		writeJSON(w, http.StatusOK, report)
	}
}

func (s *Server) ClearStoreHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if isDryRunFromContext(r) {
			log.Info("[Dry Run] Would clear store")
			fmt.Fprint(w, "Store not cleared (dry run)")
			return
		}
		log.Info("Received request to clear entire store")
		s.Store.Clear()
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "Store cleared!")
	}
}

func newPlayerView(table *ranking.Table, p club.Player) PlayerView {
	v := PlayerView{Player: p, Division: table.Classify(p.Rating)}
	if missing, ok := table.PointsToNext(p.Rating); ok {
		v.PointsToNext = &missing
	}
	return v
}

// statusForRatingError maps processor errors onto HTTP statuses.
func statusForRatingError(err error) int {
	switch {
	case errors.Is(err, club.ErrMatchAlreadyRated):
		return http.StatusConflict
	case errors.Is(err, ranking.ErrInvalidTeam),
		errors.Is(err, ranking.ErrDuplicatePlayer),
		errors.Is(err, ranking.ErrInvalidScore):
		return http.StatusBadRequest
	case errors.Is(err, club.ErrStaleRating):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		log.Warn("Invalid query parameter, using default", "param", key, "value", raw, "default", fallback)
		return fallback
	}
	return v
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
