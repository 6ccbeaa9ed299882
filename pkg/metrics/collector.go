package metrics

import (
	"context"
	"runtime"
	"sync/atomic"
	"time"
)

var collectorRunning atomic.Bool //nolint:gochecknoglobals // one collector per process

// StartSystemCollector samples runtime memory, goroutine and GC figures every
// refresh interval until ctx is done.
func StartSystemCollector(ctx context.Context) error {
	if !globalManager.enabled {
		return ErrMetricsDisabled
	}
	if !collectorRunning.CompareAndSwap(false, true) {
		return ErrCollectorRunning
	}

	var lastNumGC uint32
	var lastPauseTotal uint64
	sampleSystem(&lastNumGC, &lastPauseTotal)

	go func() {
		defer collectorRunning.Store(false)
		ticker := time.NewTicker(globalManager.refreshInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				sampleSystem(&lastNumGC, &lastPauseTotal)
			}
		}
	}()
	return nil
}

func sampleSystem(lastNumGC *uint32, lastPauseTotal *uint64) {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	UpdateSystemMemoryUsage(ms.HeapAlloc)
	UpdateSystemGoroutineCount(runtime.NumGoroutine())

	if ms.NumGC > *lastNumGC {
		cycles := float64(ms.NumGC - *lastNumGC)
		pauseNs := float64(ms.PauseTotalNs - *lastPauseTotal)
		RecordSystemGCPauseTime(pauseNs / cycles / float64(time.Millisecond))
	}
	*lastNumGC = ms.NumGC
	*lastPauseTotal = ms.PauseTotalNs
}
