package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	mu       sync.RWMutex
	registry *prometheus.Registry

	formActions *prometheus.CounterVec
	sessions    prometheus.Gauge
	sweeps      prometheus.Counter
)

// InitMetrics creates a fresh registry with the process collectors and the
// form metrics. Calling it again replaces the previous registry.
func InitMetrics() error {
	reg := prometheus.NewRegistry()
	actions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "productform",
		Name:      "form_actions_total",
		Help:      "Form transitions applied, by action.",
	}, []string{"action"})
	live := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "productform",
		Name:      "sessions",
		Help:      "Form sessions held in memory.",
	})
	evicted := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "productform",
		Name:      "sessions_evicted_total",
		Help:      "Idle form sessions evicted by the sweeper.",
	})

	for _, c := range []prometheus.Collector{
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		actions, live, evicted,
	} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}

	mu.Lock()
	registry, formActions, sessions, sweeps = reg, actions, live, evicted
	mu.Unlock()
	return nil
}

// IncAction counts one applied form action.
func IncAction(action string) {
	mu.RLock()
	defer mu.RUnlock()
	if formActions != nil {
		formActions.WithLabelValues(action).Inc()
	}
}

// SetSessions records the live session count.
func SetSessions(n int) {
	mu.RLock()
	defer mu.RUnlock()
	if sessions != nil {
		sessions.Set(float64(n))
	}
}

// AddEvicted counts sessions removed by a sweep.
func AddEvicted(n int) {
	mu.RLock()
	defer mu.RUnlock()
	if sweeps != nil {
		sweeps.Add(float64(n))
	}
}

// Handler serves the registry in the Prometheus text format.
func Handler() http.Handler {
	mu.RLock()
	defer mu.RUnlock()
	if registry == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
