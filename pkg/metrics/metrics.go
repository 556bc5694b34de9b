package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Graph metrics
	TopicsTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "rosmaster_topics_total",
			Help: "Total number of topics with at least one publisher or subscriber",
		},
	)

	PublishersTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "rosmaster_publishers_total",
			Help: "Total number of publisher registrations across all topics",
		},
	)

	SubscribersTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "rosmaster_subscribers_total",
			Help: "Total number of subscriber registrations across all topics",
		},
	)

	ServicesTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "rosmaster_services_total",
			Help: "Total number of registered services",
		},
	)

	ParamNodesTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "rosmaster_param_nodes_total",
			Help: "Total number of leaf parameter nodes in the parameter tree",
		},
	)

	// RPC metrics
	RPCRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rosmaster_rpc_requests_total",
			Help: "Total number of inbound RPCs by method and result code",
		},
		[]string{"method", "code"},
	)

	RPCRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rosmaster_rpc_request_duration_seconds",
			Help:    "Inbound RPC handling duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	// Notifier metrics
	NotifierQueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "rosmaster_notifier_queue_depth",
			Help: "Total number of pending outbound notifications across all subscriber queues",
		},
	)

	NotifierDeliveriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rosmaster_notifier_deliveries_total",
			Help: "Total number of outbound notifications attempted by method and outcome",
		},
		[]string{"method", "outcome"},
	)
)

func init() {
	prometheus.MustRegister(TopicsTotal)
	prometheus.MustRegister(PublishersTotal)
	prometheus.MustRegister(SubscribersTotal)
	prometheus.MustRegister(ServicesTotal)
	prometheus.MustRegister(ParamNodesTotal)
	prometheus.MustRegister(RPCRequestsTotal)
	prometheus.MustRegister(RPCRequestDuration)
	prometheus.MustRegister(NotifierQueueDepth)
	prometheus.MustRegister(NotifierDeliveriesTotal)
}

// Handler returns the Prometheus HTTP handler serving /metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Timer measures an operation's duration against one or more histograms.
type Timer struct {
	start time.Time
}

func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

func (t *Timer) ObserveDuration(histogram prometheus.Histogram) {
	histogram.Observe(time.Since(t.start).Seconds())
}

func (t *Timer) ObserveDurationVec(histogram prometheus.ObserverVec, labels ...string) {
	histogram.WithLabelValues(labels...).Observe(time.Since(t.start).Seconds())
}

func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}
