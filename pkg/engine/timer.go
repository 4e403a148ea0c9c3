package engine

import (
	"fmt"
	"runtime"
	"time"
)

// timer marks the start of a phase and renders a human-readable summary of
// elapsed wall time and resident memory on demand. Samples are only ever
// compared to their own start mark, never across processes.
type timer struct {
	start time.Time
}

func startTimer() timer {
	return timer{start: time.Now()}
}

func (t timer) elapsed() time.Duration {
	return time.Since(t.start).Round(time.Millisecond)
}

// Summary renders "done in 124ms (rss 12.4 MB)".
func (t timer) summary() string {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	return fmt.Sprintf("done in %s (rss %.1f MB)", t.elapsed(), float64(ms.Sys)/(1<<20))
}
