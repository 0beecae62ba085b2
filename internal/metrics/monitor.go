package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	monitorDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "monitor_events_dropped_total",
		Help: "Analytics events dropped because the queue was full",
	})

	monitorFlushed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "monitor_events_flushed_total",
			Help: "Analytics events flushed to the sink by result",
		},
		[]string{"result"},
	)
)

func RecordMonitorDrop() {
	monitorDropped.Inc()
}

func RecordMonitorFlush(result string, n int) {
	monitorFlushed.WithLabelValues(result).Add(float64(n))
}
