package terse

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
type MetricsCollector interface {
	// RecordLoad is called after a document was fetched and decoded.
	// size is the number of stored bytes.
	RecordLoad(size int, duration time.Duration, err error)

	// RecordSave is called after a document was encoded and stored.
	RecordSave(size int, duration time.Duration, err error)

	// RecordCommand is called after each edit command.
	RecordCommand(duration time.Duration, err error)

	// RecordJob is called after each job.
	RecordJob(duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordLoad(int, time.Duration, error) {}
func (NoopMetricsCollector) RecordSave(int, time.Duration, error) {}
func (NoopMetricsCollector) RecordCommand(time.Duration, error)   {}
func (NoopMetricsCollector) RecordJob(time.Duration, error)       {}

// BasicMetricsCollector provides simple in-memory metrics collection.
type BasicMetricsCollector struct {
	LoadCount     atomic.Int64
	LoadErrors    atomic.Int64
	LoadBytes     atomic.Int64
	SaveCount     atomic.Int64
	SaveErrors    atomic.Int64
	SaveBytes     atomic.Int64
	CommandCount  atomic.Int64
	CommandErrors atomic.Int64
	JobCount      atomic.Int64
	JobErrors     atomic.Int64
	JobTotalNanos atomic.Int64
}

// RecordLoad implements MetricsCollector.
func (b *BasicMetricsCollector) RecordLoad(size int, _ time.Duration, err error) {
	b.LoadCount.Add(1)
	b.LoadBytes.Add(int64(size))
	if err != nil {
		b.LoadErrors.Add(1)
	}
}

// RecordSave implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSave(size int, _ time.Duration, err error) {
	b.SaveCount.Add(1)
	b.SaveBytes.Add(int64(size))
	if err != nil {
		b.SaveErrors.Add(1)
	}
}

// RecordCommand implements MetricsCollector.
func (b *BasicMetricsCollector) RecordCommand(_ time.Duration, err error) {
	b.CommandCount.Add(1)
	if err != nil {
		b.CommandErrors.Add(1)
	}
}

// RecordJob implements MetricsCollector.
func (b *BasicMetricsCollector) RecordJob(duration time.Duration, err error) {
	b.JobCount.Add(1)
	b.JobTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.JobErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		LoadCount:     b.LoadCount.Load(),
		LoadErrors:    b.LoadErrors.Load(),
		LoadBytes:     b.LoadBytes.Load(),
		SaveCount:     b.SaveCount.Load(),
		SaveErrors:    b.SaveErrors.Load(),
		SaveBytes:     b.SaveBytes.Load(),
		CommandCount:  b.CommandCount.Load(),
		CommandErrors: b.CommandErrors.Load(),
		JobCount:      b.JobCount.Load(),
		JobErrors:     b.JobErrors.Load(),
		JobAvgNanos:   b.getAvgJobNanos(),
	}
}

func (b *BasicMetricsCollector) getAvgJobNanos() int64 {
	count := b.JobCount.Load()
	if count == 0 {
		return 0
	}
	return b.JobTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	LoadCount     int64
	LoadErrors    int64
	LoadBytes     int64
	SaveCount     int64
	SaveErrors    int64
	SaveBytes     int64
	CommandCount  int64
	CommandErrors int64
	JobCount      int64
	JobErrors     int64
	JobAvgNanos   int64
}
