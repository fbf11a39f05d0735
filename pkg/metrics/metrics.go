// Package metrics records per-run counters and timings.
package metrics

import (
	"time"

	gometrics "github.com/rcrowley/go-metrics"
)

const (
	fileTimerName      = "file_processing"
	fileTokensName     = "file_tokens"
	bytesReadName      = "bytes_read"
	filesProcessedName = "files_processed"
	filesFailedName    = "files_failed"
)

// Run holds the metrics of one counting run. Each run gets its own
// registry so concurrent runs (and tests) do not share state.
type Run struct {
	registry  gometrics.Registry
	fileTimer gometrics.Timer
	tokens    gometrics.Histogram
	bytesRead gometrics.Meter
	processed gometrics.Counter
	failed    gometrics.Counter
}

// NewRun creates a fresh registry with every run metric registered.
func NewRun() *Run {
	r := gometrics.NewRegistry()
	return &Run{
		registry:  r,
		fileTimer: gometrics.NewRegisteredTimer(fileTimerName, r),
		tokens:    gometrics.NewRegisteredHistogram(fileTokensName, r, gometrics.NewUniformSample(1028)),
		bytesRead: gometrics.NewRegisteredMeter(bytesReadName, r),
		processed: gometrics.NewRegisteredCounter(filesProcessedName, r),
		failed:    gometrics.NewRegisteredCounter(filesFailedName, r),
	}
}

// FileDone records a file that was counted successfully.
func (m *Run) FileDone(start time.Time, tokens int, bytes int64) {
	m.fileTimer.UpdateSince(start)
	m.tokens.Update(int64(tokens))
	m.bytesRead.Mark(bytes)
	m.processed.Inc(1)
}

// FileFailed records a file whose task failed.
func (m *Run) FileFailed(start time.Time) {
	m.fileTimer.UpdateSince(start)
	m.failed.Inc(1)
}

// Snapshot is a point-in-time copy of the run metrics.
type Snapshot struct {
	FilesProcessed int64   `json:"files_processed" yaml:"files_processed"`
	FilesFailed    int64   `json:"files_failed" yaml:"files_failed"`
	BytesRead      int64   `json:"bytes_read" yaml:"bytes_read"`
	TotalTokens    int64   `json:"total_tokens" yaml:"total_tokens"`
	MaxFileTokens  int64   `json:"max_file_tokens" yaml:"max_file_tokens"`
	MeanFileMillis float64 `json:"mean_file_ms" yaml:"mean_file_ms"`
	P95FileMillis  float64 `json:"p95_file_ms" yaml:"p95_file_ms"`
}

// Snapshot reads the current values.
func (m *Run) Snapshot() Snapshot {
	timer := m.fileTimer.Snapshot()
	tokens := m.tokens.Snapshot()

	return Snapshot{
		FilesProcessed: m.processed.Count(),
		FilesFailed:    m.failed.Count(),
		BytesRead:      m.bytesRead.Count(),
		TotalTokens:    tokens.Sum(),
		MaxFileTokens:  tokens.Max(),
		MeanFileMillis: timer.Mean() / float64(time.Millisecond),
		P95FileMillis:  timer.Percentile(0.95) / float64(time.Millisecond),
	}
}

// Stop detaches the run's meter from the shared go-metrics ticker.
func (m *Run) Stop() {
	m.registry.UnregisterAll()
}
