package dashboard

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/Zachdehooge/taiwan-weather-dashboard/internal/observability"
)

// dataset memoizes one fetched dataset for the life of a session.
// Concurrent first requests share a single fetch; failures are not kept.
type dataset[T any] struct {
	name    string
	metrics *observability.Metrics
	load    func(context.Context) (T, error)

	mu     sync.Mutex
	loaded bool
	value  T
	group  singleflight.Group
}

func newDataset[T any](name string, metrics *observability.Metrics, load func(context.Context) (T, error)) *dataset[T] {
	return &dataset[T]{name: name, metrics: metrics, load: load}
}

func (d *dataset[T]) cached() (T, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.value, d.loaded
}

func (d *dataset[T]) get(ctx context.Context) (T, error) {
	if v, ok := d.cached(); ok {
		d.metrics.DatasetCache.WithLabelValues(d.name, "hit").Inc()
		return v, nil
	}
	d.metrics.DatasetCache.WithLabelValues(d.name, "miss").Inc()

	v, err, _ := d.group.Do(d.name, func() (any, error) {
		if v, ok := d.cached(); ok {
			return v, nil
		}

		start := time.Now()
		v, err := d.load(ctx)
		d.metrics.FetchDuration.WithLabelValues(d.name).Observe(time.Since(start).Seconds())
		if err != nil {
			d.metrics.FetchRequests.WithLabelValues(d.name, "error").Inc()
			return nil, err
		}
		d.metrics.FetchRequests.WithLabelValues(d.name, "success").Inc()

		d.mu.Lock()
		d.value, d.loaded = v, true
		d.mu.Unlock()
		return v, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}
