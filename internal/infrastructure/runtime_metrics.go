package infrastructure

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"go.opentelemetry.io/otel/metric"
)

// RuntimeMetrics records the Go runtime footprint of a run
type RuntimeMetrics struct {
	goroutines  metric.Int64Gauge
	heapAlloc   metric.Int64Gauge
	totalAlloc  metric.Int64Gauge
	memorySys   metric.Int64Gauge
	gcCount     metric.Int64Gauge
	runDuration metric.Float64Gauge
}

// RuntimeStats is one snapshot of runtime statistics
type RuntimeStats struct {
	Goroutines  int64
	HeapAlloc   int64
	TotalAlloc  int64
	MemorySys   int64
	GCCount     uint32
	LastGCPause time.Duration
	CPUCount    int
	RunDuration time.Duration
	Timestamp   time.Time
}

// NewRuntimeMetrics creates the runtime instruments on meter
func NewRuntimeMetrics(meter metric.Meter) (*RuntimeMetrics, error) {
	goroutines, err := meter.Int64Gauge(
		"olist_runtime_goroutines",
		metric.WithDescription("Number of active goroutines"),
	)
	if err != nil {
		return nil, err
	}

	heapAlloc, err := meter.Int64Gauge(
		"olist_runtime_heap_alloc_bytes",
		metric.WithDescription("Bytes of allocated heap objects"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, err
	}

	totalAlloc, err := meter.Int64Gauge(
		"olist_runtime_total_alloc_bytes",
		metric.WithDescription("Cumulative bytes allocated for heap objects"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, err
	}

	memorySys, err := meter.Int64Gauge(
		"olist_runtime_sys_bytes",
		metric.WithDescription("Memory obtained from the OS in bytes"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, err
	}

	gcCount, err := meter.Int64Gauge(
		"olist_runtime_gc_count",
		metric.WithDescription("Completed garbage collection cycles"),
	)
	if err != nil {
		return nil, err
	}

	runDuration, err := meter.Float64Gauge(
		"olist_run_duration",
		metric.WithDescription("Wall time of the feature build"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return &RuntimeMetrics{
		goroutines:  goroutines,
		heapAlloc:   heapAlloc,
		totalAlloc:  totalAlloc,
		memorySys:   memorySys,
		gcCount:     gcCount,
		runDuration: runDuration,
	}, nil
}

// Collect reads runtime statistics and records them. A nil receiver only reads.
func (rm *RuntimeMetrics) Collect(ctx context.Context, startTime time.Time) *RuntimeStats {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	stats := &RuntimeStats{
		Goroutines:  int64(runtime.NumGoroutine()),
		HeapAlloc:   int64(memStats.HeapAlloc),
		TotalAlloc:  int64(memStats.TotalAlloc),
		MemorySys:   int64(memStats.Sys),
		GCCount:     memStats.NumGC,
		LastGCPause: time.Duration(memStats.PauseNs[(memStats.NumGC+255)%256]),
		CPUCount:    runtime.NumCPU(),
		RunDuration: time.Since(startTime),
		Timestamp:   time.Now(),
	}

	if rm == nil {
		return stats
	}
	rm.goroutines.Record(ctx, stats.Goroutines)
	rm.heapAlloc.Record(ctx, stats.HeapAlloc)
	rm.totalAlloc.Record(ctx, stats.TotalAlloc)
	rm.memorySys.Record(ctx, stats.MemorySys)
	rm.gcCount.Record(ctx, int64(stats.GCCount))
	rm.runDuration.Record(ctx, stats.RunDuration.Seconds())
	return stats
}

// LogValue groups the snapshot for structured logging
func (s *RuntimeStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("goroutines", s.Goroutines),
		slog.Int64("heap_alloc_bytes", s.HeapAlloc),
		slog.Int64("total_alloc_bytes", s.TotalAlloc),
		slog.Int64("sys_bytes", s.MemorySys),
		slog.Uint64("gc_count", uint64(s.GCCount)),
		slog.Duration("last_gc_pause", s.LastGCPause),
		slog.Int("cpu_count", s.CPUCount),
		slog.Duration("run_duration", s.RunDuration),
	)
}
