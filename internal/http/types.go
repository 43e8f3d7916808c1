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

type Server struct {
	DB             handlers.Pinger
	League         *league.Service
	Reconciler     *match.Reconciler
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Cfg            config.Config
	Notifier       notifier.Notifier
	Processor      *processor.Processor
	Router         *http.ServeMux
}
