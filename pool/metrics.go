package pool

import "github.com/prometheus/client_golang/prometheus"

const metricsNamespace = "poolkit"

// poolMetrics is nil-safe: a pool built without WithMetrics carries a nil
// *poolMetrics and every method is a no-op.
type poolMetrics struct {
	size     prometheus.Gauge
	inUse    prometheus.Gauge
	pending  prometheus.Gauge
	acquires prometheus.Counter
	queued   prometheus.Counter
}

func newPoolMetrics(reg prometheus.Registerer, name string) (*poolMetrics, error) {
	labels := prometheus.Labels{"pool": name}
	m := &poolMetrics{
		size: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   metricsNamespace,
			Name:        "workers",
			Help:        "Number of worker slots in the pool.",
			ConstLabels: labels,
		}),
		inUse: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   metricsNamespace,
			Name:        "workers_in_use",
			Help:        "Number of worker slots currently lent out.",
			ConstLabels: labels,
		}),
		pending: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   metricsNamespace,
			Name:        "pending_acquires",
			Help:        "Number of acquire callbacks waiting for a free worker.",
			ConstLabels: labels,
		}),
		acquires: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   metricsNamespace,
			Name:        "acquires_total",
			Help:        "Number of Acquire calls accepted.",
			ConstLabels: labels,
		}),
		queued: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   metricsNamespace,
			Name:        "queued_acquires_total",
			Help:        "Number of Acquire calls that had to wait for a worker.",
			ConstLabels: labels,
		}),
	}

	collectors := []prometheus.Collector{m.size, m.inUse, m.pending, m.acquires, m.queued}
	for i, c := range collectors {
		if err := reg.Register(c); err != nil {
			for _, registered := range collectors[:i] {
				reg.Unregister(registered)
			}
			return nil, err
		}
	}

	return m, nil
}

func (m *poolMetrics) started(workers int) {
	if m == nil {
		return
	}
	m.size.Set(float64(workers))
}

func (m *poolMetrics) acquired() {
	if m == nil {
		return
	}
	m.acquires.Inc()
	m.inUse.Inc()
}

func (m *poolMetrics) enqueued() {
	if m == nil {
		return
	}
	m.acquires.Inc()
	m.queued.Inc()
	m.pending.Inc()
}

func (m *poolMetrics) handedOff() {
	if m == nil {
		return
	}
	m.pending.Dec()
}

func (m *poolMetrics) released() {
	if m == nil {
		return
	}
	m.inUse.Dec()
}

func (m *poolMetrics) destroyed() {
	if m == nil {
		return
	}
	m.size.Set(0)
	m.inUse.Set(0)
	m.pending.Set(0)
}
