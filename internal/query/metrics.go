package query

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	Operations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "habitus_query_operations_total",
			Help: "Goal backend operations by backend, operation and outcome",
		},
		[]string{"backend", "op", "result"},
	)
	Duration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "habitus_query_duration_seconds",
			Help:    "Goal backend operation latency, including artificial delay",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"backend", "op"},
	)
)

func init() {
	prometheus.MustRegister(Operations)
	prometheus.MustRegister(Duration)
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrUnsupportedFilter), errors.Is(err, ErrInvalidColumn), errors.Is(err, ErrUnknownTable):
		return "invalid"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "error"
	}
}

// Instrument wraps a backend with operation counters and latency histograms.
func Instrument(b Backend) Backend {
	return &instrumented{Backend: b}
}

type instrumented struct {
	Backend
}

func (i *instrumented) Query(ctx context.Context, q Query) *Future {
	start := time.Now()
	inner := i.Backend.Query(ctx, q)
	return Go(func() Result {
		<-inner.Done()
		res := inner.result
		Operations.WithLabelValues(i.Name(), string(q.Op), outcome(res.Err)).Inc()
		Duration.WithLabelValues(i.Name(), string(q.Op)).Observe(time.Since(start).Seconds())
		return res
	})
}
