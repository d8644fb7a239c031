package http

import (
	"net/http"

	"github.com/mauv0809/padel-ladder/internal/club"
	"github.com/mauv0809/padel-ladder/internal/processor"
	"github.com/mauv0809/padel-ladder/internal/pubsub"
	"github.com/mauv0809/padel-ladder/internal/ranking"
)

type Server struct {
	Store          club.ClubStore
	MetricsHandler http.Handler
	Processor      *processor.Processor
	Router         *http.ServeMux
	pubsub         pubsub.PubSubClient
}

// PlayerView is a player together with their current division.
type PlayerView struct {
	club.Player
	Division     ranking.Division `json:"division"`
	PointsToNext *float64         `json:"points_to_next,omitempty"`
}

// LeaderboardEntry is one row of the leaderboard.
type LeaderboardEntry struct {
	Rank int `json:"rank"`
	PlayerView
}

// pushRequest is the body Cloud Pub/Sub sends to push subscriptions.
type pushRequest struct {
	Subscription string `json:"subscription"`
	Message      struct {
		Data      string `json:"data"` // base64-encoded message payload
		MessageID string `json:"messageId"`
	} `json:"message"`
}

type linkSlackRequest struct {
	SlackUserID string `json:"slack_user_id"`
}

type errorResponse struct {
	Error string `json:"error"`
}
