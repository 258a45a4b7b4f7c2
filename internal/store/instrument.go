package store

import (
	"context"
	"time"

	"fluxline/internal/metrics"
	"fluxline/internal/models"
)

type instrumented struct {
	next    Gateway
	metrics *metrics.Collector
}

// Instrument wraps gw so every Load and Save is timed on c.
func Instrument(gw Gateway, c *metrics.Collector) Gateway {
	if c == nil {
		return gw
	}
	return &instrumented{next: gw, metrics: c}
}

func (i *instrumented) Load(ctx context.Context) ([]byte, error) {
	start := time.Now()
	data, err := i.next.Load(ctx)
	i.metrics.ObservePersist("load", time.Since(start), err)
	return data, err
}

func (i *instrumented) Save(ctx context.Context, state models.State) error {
	start := time.Now()
	err := i.next.Save(ctx, state)
	i.metrics.ObservePersist("save", time.Since(start), err)
	return err
}
