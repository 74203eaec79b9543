package cartkit

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
type MetricsCollector interface {
	// RecordLoad is called after each tree load with the stored size.
	RecordLoad(tree string, bytes int64, duration time.Duration, err error)

	// RecordSave is called after each tree save with the stored size.
	RecordSave(tree string, bytes int64, duration time.Duration, err error)

	// RecordClassify is called after each Classify.
	RecordClassify(tree string, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordLoad(string, int64, time.Duration, error) {}
func (NoopMetricsCollector) RecordSave(string, int64, time.Duration, error) {}
func (NoopMetricsCollector) RecordClassify(string, time.Duration, error)    {}

// BasicMetricsCollector provides simple in-memory metrics collection.
type BasicMetricsCollector struct {
	LoadCount          atomic.Int64
	LoadErrors         atomic.Int64
	LoadBytes          atomic.Int64
	LoadTotalNanos     atomic.Int64
	SaveCount          atomic.Int64
	SaveErrors         atomic.Int64
	SaveBytes          atomic.Int64
	ClassifyCount      atomic.Int64
	ClassifyErrors     atomic.Int64
	ClassifyTotalNanos atomic.Int64
}

// RecordLoad implements MetricsCollector.
func (b *BasicMetricsCollector) RecordLoad(_ string, bytes int64, duration time.Duration, err error) {
	b.LoadCount.Add(1)
	b.LoadTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.LoadErrors.Add(1)
		return
	}
	b.LoadBytes.Add(bytes)
}

// RecordSave implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSave(_ string, bytes int64, _ time.Duration, err error) {
	b.SaveCount.Add(1)
	if err != nil {
		b.SaveErrors.Add(1)
		return
	}
	b.SaveBytes.Add(bytes)
}

// RecordClassify implements MetricsCollector.
func (b *BasicMetricsCollector) RecordClassify(_ string, duration time.Duration, err error) {
	b.ClassifyCount.Add(1)
	b.ClassifyTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.ClassifyErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		LoadCount:        b.LoadCount.Load(),
		LoadErrors:       b.LoadErrors.Load(),
		LoadBytes:        b.LoadBytes.Load(),
		LoadAvgNanos:     avg(b.LoadTotalNanos.Load(), b.LoadCount.Load()),
		SaveCount:        b.SaveCount.Load(),
		SaveErrors:       b.SaveErrors.Load(),
		SaveBytes:        b.SaveBytes.Load(),
		ClassifyCount:    b.ClassifyCount.Load(),
		ClassifyErrors:   b.ClassifyErrors.Load(),
		ClassifyAvgNanos: avg(b.ClassifyTotalNanos.Load(), b.ClassifyCount.Load()),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	LoadCount        int64
	LoadErrors       int64
	LoadBytes        int64
	LoadAvgNanos     int64
	SaveCount        int64
	SaveErrors       int64
	SaveBytes        int64
	ClassifyCount    int64
	ClassifyErrors   int64
	ClassifyAvgNanos int64
}
