package history

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"calc-ledger/internal/observer"
)

var (
	eventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "calculator_history_events_total",
		Help: "History changes by event kind.",
	}, []string{"event"})

	groupsGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "calculator_history_groups",
		Help: "Number of calculation groups currently in history.",
	})
)

// MetricsObserver exports history events to the default Prometheus registry.
type MetricsObserver struct {
	store *Store
}

func NewMetricsObserver(store *Store) *MetricsObserver {
	groupsGauge.Set(float64(store.Len()))
	return &MetricsObserver{store: store}
}

func (o *MetricsObserver) Update(ctx context.Context, ev observer.Event) error {
	eventsTotal.WithLabelValues(string(ev.Kind)).Inc()
	groupsGauge.Set(float64(o.store.Len()))
	return nil
}
