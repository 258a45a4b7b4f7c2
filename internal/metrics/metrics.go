// Package metrics exports board activity to Prometheus. A nil *Collector is
// valid and records nothing.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector holds the board's Prometheus collectors.
type Collector struct {
	mutations       *prometheus.CounterVec
	notices         *prometheus.CounterVec
	persistDuration *prometheus.HistogramVec
	persistErrors   *prometheus.CounterVec
	columnTasks     *prometheus.GaugeVec
}

// New registers the board collectors on reg, reusing collectors that were
// already registered under the same names.
func New(namespace string, reg prometheus.Registerer) (*Collector, error) {
	if namespace == "" {
		namespace = "fluxline"
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	c := &Collector{
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mutations_total",
			Help:      "Board mutation intents by operation and result.",
		}, []string{"operation", "result"}),
		notices: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notices_total",
			Help:      "User-facing notices emitted by kind.",
		}, []string{"kind"}),
		persistDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "persist_duration_seconds",
			Help:      "Latency of durable slot reads and writes.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		persistErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "persist_errors_total",
			Help:      "Failed durable slot reads and writes.",
		}, []string{"operation"}),
		columnTasks: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "column_tasks",
			Help:      "Number of tasks in each board column.",
		}, []string{"status"}),
	}

	var err error
	if c.mutations, err = register(reg, c.mutations); err != nil {
		return nil, err
	}
	if c.notices, err = register(reg, c.notices); err != nil {
		return nil, err
	}
	if c.persistDuration, err = register(reg, c.persistDuration); err != nil {
		return nil, err
	}
	if c.persistErrors, err = register(reg, c.persistErrors); err != nil {
		return nil, err
	}
	if c.columnTasks, err = register(reg, c.columnTasks); err != nil {
		return nil, err
	}

	return c, nil
}

func register[T prometheus.Collector](reg prometheus.Registerer, collector T) (T, error) {
	if err := reg.Register(collector); err != nil {
		are, ok := err.(prometheus.AlreadyRegisteredError)
		if !ok {
			return collector, fmt.Errorf("register collector: %w", err)
		}
		existing, ok := are.ExistingCollector.(T)
		if !ok {
			return collector, fmt.Errorf("register collector: %w", err)
		}
		return existing, nil
	}
	return collector, nil
}

// ObserveMutation counts one mutation intent.
func (c *Collector) ObserveMutation(operation string, err error) {
	if c == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	c.mutations.WithLabelValues(operation, result).Inc()
}

// ObserveNotice counts one notice.
func (c *Collector) ObserveNotice(kind string) {
	if c == nil {
		return
	}
	c.notices.WithLabelValues(kind).Inc()
}

// ObservePersist records a slot read or write.
func (c *Collector) ObservePersist(operation string, took time.Duration, err error) {
	if c == nil {
		return
	}
	c.persistDuration.WithLabelValues(operation).Observe(took.Seconds())
	if err != nil {
		c.persistErrors.WithLabelValues(operation).Inc()
	}
}

// SetColumnSizes publishes the task count of every column.
func (c *Collector) SetColumnSizes(sizes map[string]int) {
	if c == nil {
		return
	}
	for status, n := range sizes {
		c.columnTasks.WithLabelValues(status).Set(float64(n))
	}
}
