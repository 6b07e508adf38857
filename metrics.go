// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package syncall

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// metrics are the per-exposer collectors. They always exist; they are
// registered only when the endpoint was configured with a Registerer.
type metrics struct {
	reg        prometheus.Registerer
	actions    *prometheus.CounterVec
	thrown     prometheus.Counter
	references prometheus.Gauge
	latency    prometheus.Histogram
}

// newMetrics labels the collectors with the pair serial and the side
// of the pair, so both endpoints of a pair can expose into one registry.
func newMetrics(reg prometheus.Registerer, s Serial, side string) (*metrics, error) {
	labels := prometheus.Labels{"endpoint": s.String(), "side": side}
	m := &metrics{
		actions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   "syncall",
			Name:        "actions_total",
			Help:        "actions dispatched by the exposer, by operation",
			ConstLabels: labels,
		}, []string{"op"}),
		thrown: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "syncall",
			Name:        "thrown_total",
			Help:        "actions whose reply was a thrown error",
			ConstLabels: labels,
		}),
		references: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "syncall",
			Name:        "references",
			Help:        "live entries in the reference table",
			ConstLabels: labels,
		}),
		latency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace:   "syncall",
			Name:        "dispatch_seconds",
			Help:        "time spent dispatching one action, reply encoding excluded",
			ConstLabels: labels,
			Buckets:     prometheus.ExponentialBuckets(1e-6, 4, 10),
		}),
	}
	if reg == nil {
		return m, nil
	}
	registered := make([]prometheus.Collector, 0, 4)
	for _, c := range m.collectors() {
		if err := reg.Register(c); err != nil {
			for _, r := range registered {
				reg.Unregister(r)
			}
			return nil, fmt.Errorf("register metrics: %w", err)
		}
		registered = append(registered, c)
	}
	m.reg = reg
	return m, nil
}

func (m *metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{m.actions, m.thrown, m.references, m.latency}
}

func (m *metrics) observe(op Op, res Result, d time.Duration) {
	m.actions.WithLabelValues(op.String()).Inc()
	if res.IsLeft() {
		m.thrown.Inc()
	}
	m.latency.Observe(d.Seconds())
}

func (m *metrics) setReferences(n int) {
	m.references.Set(float64(n))
}

func (m *metrics) unregister() {
	if m.reg == nil {
		return
	}
	for _, c := range m.collectors() {
		m.reg.Unregister(c)
	}
	m.reg = nil
}
