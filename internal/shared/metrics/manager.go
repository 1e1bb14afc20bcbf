package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "langdetect"
	subsystem = "web"

	ResultOK       = "ok"
	ResultRejected = "rejected"
	ResultError    = "error"
)

type Manager struct {
	CounterRegistrations *prometheus.CounterVec
	CounterLogins        *prometheus.CounterVec
	CounterLogouts       prometheus.Counter
	CounterDetections    *prometheus.CounterVec

	HistDetectDuration prometheus.Histogram

	reg       prometheus.Registerer
	namespace string
	subsystem string
}

// NewRegistry returns a dedicated registry with Go runtime and process collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

func NewTestManager() *Manager {
	return newManager(namespace, "test", prometheus.NewRegistry())
}

func NewManager(reg *prometheus.Registry) *Manager {
	return newManager(namespace, subsystem, reg)
}

func newManager(namespace, subsystem string, reg prometheus.Registerer) *Manager {
	factory := promauto.With(reg)

	return &Manager{
		CounterRegistrations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "registrations_total",
			Help:      "Registration attempts by result",
		}, []string{"result"}),
		CounterLogins: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "logins_total",
			Help:      "Login attempts by result",
		}, []string{"result"}),
		CounterLogouts: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "logouts_total",
			Help:      "The total number of logouts",
		}),
		CounterDetections: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "detections_total",
			Help:      "Language detection requests by result",
		}, []string{"result"}),
		HistDetectDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "detect_duration_seconds",
			Help:      "Latency of calls to the inference API",
			Buckets:   []float64{.1, .25, .5, 1, 2, 5, 10, 30},
		}),
		reg:       reg,
		namespace: namespace,
		subsystem: subsystem,
	}
}

// RegisterActiveSessions exposes a gauge that samples count on every scrape.
func (m *Manager) RegisterActiveSessions(count func() int) {
	promauto.With(m.reg).NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "active_sessions",
		Help:      "Sessions currently held in memory",
	}, func() float64 {
		return float64(count())
	})
}
