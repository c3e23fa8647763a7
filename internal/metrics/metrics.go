// Package metrics exposes Prometheus collectors for the poll loop and the
// notifier. Collectors are package-level and registered once via [Register];
// the Inc/Observe helpers are no-ops until then, so packages can record
// unconditionally and tests need no registry.
package metrics

import (
	"errors"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "presencecord"

var (
	regOK atomic.Bool

	cycles = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "tracker",
		Name:      "cycles_total",
		Help:      "Completed poll cycles.",
	})
	sampleFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "tracker",
		Name:      "sample_failures_total",
		Help:      "Poll cycles whose Steam fetch failed as a whole.",
	})
	changes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "tracker",
		Name:      "changes_total",
		Help:      "Classified presence changes by kind.",
	}, []string{"kind"})
	tracked = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "tracker",
		Name:      "observed_accounts",
		Help:      "Accounts present in the current snapshot.",
	})
	cycleDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "tracker",
		Name:      "cycle_duration_seconds",
		Help:      "Wall time of one poll cycle, fetch included.",
		Buckets:   prometheus.DefBuckets,
	})

	notifications = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "notify",
		Name:      "messages_total",
		Help:      "Notification outcomes: sent, failed, dropped.",
	}, []string{"result"})
)

// Register registers all collectors with r. Calling it again after a
// successful registration is a no-op.
func Register(r prometheus.Registerer) error {
	if regOK.Load() {
		return nil
	}
	cs := []prometheus.Collector{cycles, sampleFailures, changes, tracked, cycleDuration, notifications}
	for _, c := range cs {
		if err := r.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				continue
			}
			return err
		}
	}
	regOK.Store(true)
	return nil
}

// Handler serves the default gatherer in the Prometheus text format.
func Handler() http.Handler { return promhttp.Handler() }

// ///////////////////////////////////////////////
// Recorders
// ///////////////////////////////////////////////

func ObserveCycle(d time.Duration, observed int) {
	if !regOK.Load() {
		return
	}
	cycles.Inc()
	cycleDuration.Observe(d.Seconds())
	tracked.Set(float64(observed))
}

func IncSampleFailure() {
	if regOK.Load() {
		sampleFailures.Inc()
	}
}

func IncChange(kind string) {
	if regOK.Load() {
		changes.WithLabelValues(kind).Inc()
	}
}

func IncNotifySent() {
	if regOK.Load() {
		notifications.WithLabelValues("sent").Inc()
	}
}

func IncNotifyFailure() {
	if regOK.Load() {
		notifications.WithLabelValues("failed").Inc()
	}
}

func IncNotifyDropped() {
	if regOK.Load() {
		notifications.WithLabelValues("dropped").Inc()
	}
}
