package count

import (
	"errors"
	"fmt"
	"time"

	"github.com/dtnitsch/topwords/models"
	"github.com/dtnitsch/topwords/pkg/tokenizer"
)

// ErrConcurrency marks failures of the worker pool itself: a recovered
// panic, an interrupted run, or a result that never arrived.
var ErrConcurrency = errors.New("worker pool failure")

// ExecutionError is the single failure a run surfaces. Path names the file
// whose task failed, when there is one.
type ExecutionError struct {
	Path string
	Err  error
}

func (e *ExecutionError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("execution failed: %v", e.Err)
	}
	return fmt.Sprintf("execution failed on %s: %v", e.Path, e.Err)
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}

// Job is one file handed to a worker.
type Job struct {
	Path string
	TopN int
}

// Result holds the outcome of a processed job.
type Result struct {
	Path     string
	Ranking  models.Ranking
	Counts   models.FrequencyMap // only set in exact merge mode
	Distinct int
	Totals   tokenizer.Totals
	Duration time.Duration
	Err      error
}

// Outcome is everything a successful run produces.
type Outcome struct {
	Ranking  models.Ranking
	Files    []Result
	Distinct int
	Workers  int
	Totals   tokenizer.Totals
}
