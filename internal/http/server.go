package http

import (
	"net/http"

	"github.com/mauv0809/match-ladder/internal/config"
	"github.com/mauv0809/match-ladder/internal/http/handlers"
	"github.com/mauv0809/match-ladder/internal/league"
	"github.com/mauv0809/match-ladder/internal/match"
	"github.com/mauv0809/match-ladder/internal/metrics"
	"github.com/mauv0809/match-ladder/internal/notifier"
	"github.com/mauv0809/match-ladder/internal/processor"
)

func NewServer(db handlers.Pinger, leagueSvc *league.Service, reconciler *match.Reconciler, metricsSvc metrics.Metrics, metricsHandler http.Handler, cfg config.Config, notifier notifier.Notifier, processor *processor.Processor) *Server {
	server := &Server{
		DB:             db,
		League:         leagueSvc,
		Reconciler:     reconciler,
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
		Notifier:       notifier,
		Processor:      processor,
		Router:         http.NewServeMux(),
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	auth := authMiddleware(s.Cfg.AdminToken)
	slackAuth := slackVerifierMiddleware(s.Cfg.Slack.SigningSecret)

	s.Router.Handle("GET /metrics", s.MetricsHandler)
	s.Router.Handle("GET /health", Chain(handlers.HealthCheckHandler(s.DB), paramsMiddleware))

	s.Router.Handle("POST /league/schedule-generate", Chain(handlers.GenerateScheduleHandler(s.League), paramsMiddleware, auth))
	s.Router.Handle("GET /league/standings", Chain(handlers.StandingsHandler(s.League), paramsMiddleware))
	s.Router.Handle("GET /league/schedule", Chain(handlers.ScheduleHandler(s.League), paramsMiddleware))
	s.Router.Handle("GET /team/schedule", Chain(handlers.TeamScheduleHandler(s.League), paramsMiddleware))

	s.Router.Handle("POST /match/report", Chain(handlers.ReportResultHandler(s.Reconciler), paramsMiddleware, auth))
	s.Router.Handle("GET /match/unreported", Chain(handlers.UnreportedMatchHandler(s.League), paramsMiddleware))

	s.Router.Handle("POST /pubsub/match-events", Chain(handlers.MatchEventsHandler(s.Processor), paramsMiddleware))
	s.Router.Handle("POST /slack/command/standings", Chain(handlers.StandingsCommandHandler(s.League, s.Notifier), paramsMiddleware, slackAuth))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
