package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCollectorRecords(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := New("test", reg)
	if err != nil {
		t.Fatalf("new collector: %v", err)
	}

	c.ObserveMutation("create", nil)
	c.ObserveMutation("create", nil)
	c.ObserveMutation("create", errors.New("boom"))
	c.ObserveNotice("move-blocked")
	c.ObservePersist("save", 5*time.Millisecond, errors.New("disk full"))
	c.ObservePersist("load", time.Millisecond, nil)
	c.SetColumnSizes(map[string]int{"backlog": 3, "done": 0})

	if got := testutil.ToFloat64(c.mutations.WithLabelValues("create", "ok")); got != 2 {
		t.Errorf("expected 2 ok creates, got %v", got)
	}
	if got := testutil.ToFloat64(c.mutations.WithLabelValues("create", "error")); got != 1 {
		t.Errorf("expected 1 failed create, got %v", got)
	}
	if got := testutil.ToFloat64(c.notices.WithLabelValues("move-blocked")); got != 1 {
		t.Errorf("expected 1 notice, got %v", got)
	}
	if got := testutil.ToFloat64(c.persistErrors.WithLabelValues("save")); got != 1 {
		t.Errorf("expected 1 save error, got %v", got)
	}
	if got := testutil.ToFloat64(c.columnTasks.WithLabelValues("backlog")); got != 3 {
		t.Errorf("expected backlog gauge 3, got %v", got)
	}
	if got := testutil.CollectAndCount(c.persistDuration); got != 2 {
		t.Errorf("expected 2 persist histograms, got %d", got)
	}
}

func TestNewReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := New("test", reg)
	if err != nil {
		t.Fatalf("new collector: %v", err)
	}
	second, err := New("test", reg)
	if err != nil {
		t.Fatalf("second collector: %v", err)
	}

	first.ObserveNotice("corrupt-state")
	if got := testutil.ToFloat64(second.notices.WithLabelValues("corrupt-state")); got != 1 {
		t.Errorf("expected collectors to be shared, got %v", got)
	}
}

func TestNilCollector(t *testing.T) {
	var c *Collector
	c.ObserveMutation("create", nil)
	c.ObserveNotice("x")
	c.ObservePersist("save", time.Second, nil)
	c.SetColumnSizes(map[string]int{"backlog": 1})
}
