package http

import (
	"net/http"

	"github.com/mauv0809/padel-ladder/internal/club"
	"github.com/mauv0809/padel-ladder/internal/processor"
	"github.com/mauv0809/padel-ladder/internal/pubsub"
)

func NewServer(store club.ClubStore, metricsHandler http.Handler, processor *processor.Processor, pubsub pubsub.PubSubClient) *Server {
	server := &Server{
		Store:          store,
		MetricsHandler: metricsHandler,
		Processor:      processor,
		Router:         http.NewServeMux(),
		pubsub:         pubsub,
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	// e.g. Chain(s.MyHandler(), paramsMiddleware, authMiddleware)
	s.Router.Handle("GET /metrics", s.MetricsHandler)
	s.Router.Handle("GET /health", Chain(s.HealthCheckHandler(), paramsMiddleware))
	s.Router.Handle("GET /divisions", Chain(s.DivisionsHandler(), paramsMiddleware))
	s.Router.Handle("GET /leaderboard", Chain(s.LeaderboardHandler(), paramsMiddleware))
	s.Router.Handle("GET /players/{id}", Chain(s.PlayerHandler(), paramsMiddleware))
	s.Router.Handle("GET /players/{id}/history", Chain(s.PlayerHistoryHandler(), paramsMiddleware))
	s.Router.Handle("POST /players/{id}/slack", Chain(s.LinkSlackUserHandler(), paramsMiddleware))
	s.Router.Handle("GET /matches", Chain(s.RatedMatchesHandler(), paramsMiddleware))
	s.Router.Handle("POST /matches", Chain(s.RateMatchHandler(), paramsMiddleware))
	s.Router.Handle("POST /pubsub/rate-match", Chain(s.PubSubRateMatchHandler(), paramsMiddleware))
	s.Router.Handle("POST /import", Chain(s.ImportHandler(), paramsMiddleware))
	s.Router.Handle("POST /clear", Chain(s.ClearStoreHandler(), paramsMiddleware))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
