// Package debug holds diagnostics enabled by the debug config flag.
package debug

import (
	"context"
	"log/slog"
	"runtime"
	"runtime/metrics"
	"time"
)

// StartRuntimeLogger logs goroutine count, Go heap and stack usage and, where the
// platform reports it, process working set every interval until ctx is done.
// The returned channel is closed once the logger goroutine has exited.
func StartRuntimeLogger(ctx context.Context, interval time.Duration, logger *slog.Logger) <-chan struct{} {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	done := make(chan struct{})
	go func() {
		defer close(done)
		t := time.NewTicker(interval)
		defer t.Stop()
		samples := []metrics.Sample{{Name: "/sched/goroutines:goroutines"}}
		var rssErrLogged bool
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
			}
			metrics.Read(samples)
			var goroutines uint64
			if samples[0].Value.Kind() == metrics.KindUint64 {
				goroutines = samples[0].Value.Uint64()
			}
			var ms runtime.MemStats
			runtime.ReadMemStats(&ms)
			attrs := []any{
				slog.Uint64("goroutines", goroutines),
				slog.Uint64("heap_alloc", ms.HeapAlloc),
				slog.Uint64("heap_inuse", ms.HeapInuse),
				slog.Uint64("heap_sys", ms.HeapSys),
				slog.Uint64("stack_inuse", ms.StackInuse),
				slog.Uint64("next_gc", ms.NextGC),
				slog.Uint64("num_gc", uint64(ms.NumGC)),
			}
			rss, err := workingSet()
			switch {
			case err == nil:
				attrs = append(attrs, slog.Uint64("rss", rss))
			case !rssErrLogged:
				logger.Warn("debug.rss", "error", err)
				rssErrLogged = true
			}
			logger.Info("runtime", attrs...)
		}
	}()
	return done
}
