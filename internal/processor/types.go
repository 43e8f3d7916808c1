package processor

import (
	"github.com/mauv0809/match-ladder/internal/metrics"
	"github.com/mauv0809/match-ladder/internal/pubsub"
)

// Processor fans committed league and match changes out to the message bus
// and turns delivered messages into notifications.
type Processor struct {
	pubsub   pubsub.PubSubClient
	notifier Notifier
	metrics  metrics.Metrics
}
