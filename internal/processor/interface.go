package processor

import (
	"github.com/mauv0809/match-ladder/internal/league"
	"github.com/mauv0809/match-ladder/internal/match"
	"github.com/mauv0809/match-ladder/internal/notifier"
)

// Notifier defines the notification operations required by the processor.
type Notifier interface {
	notifier.Notifier
}

var (
	_ match.Events  = (*Processor)(nil)
	_ league.Events = (*Processor)(nil)
)
