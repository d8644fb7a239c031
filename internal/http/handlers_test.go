package http

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mauv0809/padel-ladder/internal/club"
	"github.com/mauv0809/padel-ladder/internal/database"
	"github.com/mauv0809/padel-ladder/internal/metrics"
	"github.com/mauv0809/padel-ladder/internal/notifier"
	"github.com/mauv0809/padel-ladder/internal/processor"
	"github.com/mauv0809/padel-ladder/internal/pubsub"
	"github.com/mauv0809/padel-ladder/internal/ranking"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

// setupTestServer initializes a new server with an in-memory database and mock clients.
func setupTestServer(t *testing.T) (*Server, *notifier.Mock) {
	t.Helper()

	db, teardown, err := database.InitDB(":memory:", "", "")
	require.NoError(t, err)
	t.Cleanup(teardown)

	clubStore := club.New(db)
	reg := prometheus.NewRegistry()
	metricsSvc := metrics.NewService(reg)
	notif := notifier.NewMock()
	ps := pubsub.NewMock()
	proc := processor.New(clubStore, nil, notif, metricsSvc, ps, processor.Config{})

	return NewServer(clubStore, metrics.NewMetricsHandler(reg), proc, ps), notif
}

func do(t *testing.T, s *Server, method, target string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func matchBody(t *testing.T, matchID string) []byte {
	t.Helper()
	body, err := json.Marshal(processor.MatchResult{
		MatchID:  matchID,
		Team1:    []processor.MatchPlayer{{ID: "p1", Name: "Alice"}, {ID: "p2", Name: "Bob"}},
		Team2:    []processor.MatchPlayer{{ID: "p3", Name: "Carol"}, {ID: "p4", Name: "Dave"}},
		Score:    "6-0, 6-0",
		Team1Won: true,
	})
	require.NoError(t, err)
	return body
}

func TestHealthCheckHandler(t *testing.T) {
	s, _ := setupTestServer(t)
	rec := do(t, s, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK!", rec.Body.String())
}

func TestDivisionsHandler(t *testing.T) {
	s, _ := setupTestServer(t)
	rec := do(t, s, http.MethodGet, "/divisions", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var divisions []ranking.Division
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&divisions))
	require.Len(t, divisions, 15)
	assert.Equal(t, "Padelino Starter", divisions[0].Name)
}

func TestRateMatchHandler(t *testing.T) {
	s, notif := setupTestServer(t)

	rec := do(t, s, http.MethodPost, "/matches", matchBody(t, "m1"))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var rated processor.RatedMatch
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&rated))
	assert.Equal(t, "m1", rated.Match.ID)
	assert.Greater(t, rated.Match.Team1Delta, 0)
	assert.Len(t, notif.SendMatchSummaryCalls, 1)

	t.Run("leaderboard puts the winners first", func(t *testing.T) {
		rec := do(t, s, http.MethodGet, "/leaderboard?limit=2", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var entries []LeaderboardEntry
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&entries))
		require.Len(t, entries, 2)
		assert.Equal(t, 1, entries[0].Rank)
		assert.ElementsMatch(t, []string{"p1", "p2"}, []string{entries[0].ID, entries[1].ID})
		assert.Equal(t, float64(rated.Match.Team1Delta), entries[0].Rating)
		assert.Equal(t, entries[0].Division.ID, entries[0].DivisionID)
	})

	t.Run("player and history", func(t *testing.T) {
		rec := do(t, s, http.MethodGet, "/players/p3", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var view PlayerView
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&view))
		assert.Equal(t, "Carol", view.Name)
		assert.Equal(t, 0.0, view.Rating, "ratings never go below zero")
		assert.Equal(t, 1, view.MatchesPlayed)
		require.NotNil(t, view.PointsToNext)
		assert.Equal(t, 100.0, *view.PointsToNext)

		rec = do(t, s, http.MethodGet, "/players/p1/history", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var history []club.HistoryEntry
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&history))
		require.Len(t, history, 1)
		assert.Equal(t, "m1", history[0].MatchID)
		assert.Equal(t, rated.Match.Team1Delta, history[0].Delta)
	})

	t.Run("same match twice conflicts", func(t *testing.T) {
		rec := do(t, s, http.MethodPost, "/matches", matchBody(t, "m1"))
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("metrics reflect the rated match", func(t *testing.T) {
		rec := do(t, s, http.MethodGet, "/metrics", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "padel_matches_rated_total 1")
	})
}

func TestRateMatchHandler_DryRun(t *testing.T) {
	s, _ := setupTestServer(t)

	rec := do(t, s, http.MethodPost, "/matches?dry_run=true", matchBody(t, "m1"))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, s, http.MethodGet, "/leaderboard", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]\n", rec.Body.String())
}

func TestRateMatchHandler_BadRequests(t *testing.T) {
	s, _ := setupTestServer(t)

	rec := do(t, s, http.MethodPost, "/matches", []byte("{"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodPost, "/matches", []byte(`{"team1":[{"id":"a"}],"team2":[{"id":"b"},{"id":"c"}],"score":"6-0","team1_won":true}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "exactly two players")

	rec = do(t, s, http.MethodPost, "/matches", []byte(`{"team1":[{"id":"a"},{"id":"b"}],"team2":[{"id":"a"},{"id":"c"}],"score":"6-0","team1_won":true}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPlayerHandler_NotFound(t *testing.T) {
	s, _ := setupTestServer(t)
	rec := do(t, s, http.MethodGet, "/players/ghost", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLinkSlackUserHandler(t *testing.T) {
	s, notif := setupTestServer(t)
	for _, id := range []string{"p1", "p2", "p3", "p4"} {
		require.NoError(t, s.Store.UpsertPlayer(club.Player{ID: id, Name: strings.ToUpper(id)}))
	}

	rec := do(t, s, http.MethodPost, "/players/ghost/slack", []byte(`{"slack_user_id":"U9"}`))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, s, http.MethodPost, "/players/p1/slack", []byte(`{}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodPost, "/players/p1/slack?dry_run=true", []byte(`{"slack_user_id":"U1"}`))
	require.Equal(t, http.StatusOK, rec.Code)
	p1, err := s.Store.GetPlayer("p1")
	require.NoError(t, err)
	assert.Nil(t, p1.SlackUserID)

	rec = do(t, s, http.MethodPost, "/players/p1/slack", []byte(`{"slack_user_id":"U1"}`))
	require.Equal(t, http.StatusNoContent, rec.Code)

	// Winning from zero promotes p1, and the notification mentions the linked member.
	require.Equal(t, http.StatusCreated, do(t, s, http.MethodPost, "/matches", matchBody(t, "m1")).Code)
	var mentioned string
	for _, n := range notif.SendDivisionChangeCalls {
		if n.PlayerID == "p1" {
			mentioned = n.SlackUserID
		}
	}
	assert.Equal(t, "U1", mentioned)
}

func TestRatedMatchesHandler(t *testing.T) {
	s, _ := setupTestServer(t)
	require.Equal(t, http.StatusCreated, do(t, s, http.MethodPost, "/matches", matchBody(t, "m1")).Code)
	require.Equal(t, http.StatusCreated, do(t, s, http.MethodPost, "/matches", matchBody(t, "m2")).Code)

	rec := do(t, s, http.MethodGet, "/matches?limit=1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var matches []club.RatedMatch
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&matches))
	require.Len(t, matches, 1)

	rec = do(t, s, http.MethodGet, "/matches", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&matches))
	assert.Len(t, matches, 2)
}

func TestPubSubRateMatchHandler(t *testing.T) {
	s, _ := setupTestServer(t)

	payload, err := msgpack.Marshal(processor.MatchResult{
		MatchID:  "ps-1",
		Team1:    []processor.MatchPlayer{{ID: "p1"}, {ID: "p2"}},
		Team2:    []processor.MatchPlayer{{ID: "p3"}, {ID: "p4"}},
		Score:    "4-6, 3-6",
		Team1Won: false,
	})
	require.NoError(t, err)
	envelope := `{"subscription":"sub","message":{"messageId":"1","data":"` + base64.StdEncoding.EncodeToString(payload) + `"}}`

	rec := do(t, s, http.MethodPost, "/pubsub/rate-match", []byte(envelope))
	require.Equal(t, http.StatusOK, rec.Code)

	rated, err := s.Store.IsMatchRated("ps-1")
	require.NoError(t, err)
	assert.True(t, rated)

	// Redelivery is acknowledged without rating again.
	rec = do(t, s, http.MethodPost, "/pubsub/rate-match", []byte(envelope))
	assert.Equal(t, http.StatusOK, rec.Code)

}

func TestPubSubRateMatchHandler_AcksUndecodableMessages(t *testing.T) {
	s, _ := setupTestServer(t)

	tests := []struct {
		name string
		body string
	}{
		{"invalid wrapper json", `{"message":`},
		{"invalid base64", `{"message":{"messageId":"2","data":"***"}}`},
		{"invalid msgpack", `{"message":{"messageId":"3","data":"` + base64.StdEncoding.EncodeToString([]byte{0xc1}) + `"}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, "/pubsub/rate-match", []byte(tt.body))
			assert.Equal(t, http.StatusOK, rec.Code)
		})
	}

	matches, err := s.Store.GetRatedMatches(0)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestStatusForRatingError(t *testing.T) {
	tests := []struct {
		err      error
		expected int
	}{
		{club.ErrMatchAlreadyRated, http.StatusConflict},
		{ranking.ErrInvalidTeam, http.StatusBadRequest},
		{ranking.ErrDuplicatePlayer, http.StatusBadRequest},
		{ranking.ErrInvalidScore, http.StatusBadRequest},
		{club.ErrStaleRating, http.StatusServiceUnavailable},
		{assert.AnError, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, statusForRatingError(tt.err), "%v", tt.err)
	}
}

func TestImportHandler_Disabled(t *testing.T) {
	s, _ := setupTestServer(t)
	rec := do(t, s, http.MethodPost, "/import?days=3", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestClearStoreHandler(t *testing.T) {
	s, _ := setupTestServer(t)
	require.Equal(t, http.StatusCreated, do(t, s, http.MethodPost, "/matches", matchBody(t, "m1")).Code)

	rec := do(t, s, http.MethodPost, "/clear?dry_run=true", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rated, _ := s.Store.IsMatchRated("m1")
	assert.True(t, rated)

	rec = do(t, s, http.MethodPost, "/clear", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Body.String(), "Store cleared"))
	rated, _ = s.Store.IsMatchRated("m1")
	assert.False(t, rated)
}
