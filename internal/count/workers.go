package count

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dtnitsch/topwords/models"
	"github.com/dtnitsch/topwords/pkg/mapreduce"
	"github.com/dtnitsch/topwords/pkg/metrics"
	"github.com/dtnitsch/topwords/pkg/storage"
	"github.com/dtnitsch/topwords/pkg/tokenizer"
)

// Options configures a counting run. Zero values pick the defaults.
type Options struct {
	TopN        int
	Workers     int
	Merge       models.MergeMode
	TaskTimeout time.Duration
	Opener      tokenizer.Opener
	Logger      *slog.Logger
	Metrics     *metrics.Run
}

// Run counts every file in paths on a fixed pool of workers and merges the
// per-file results into one global ranking.
//
// The first failing task fails the whole run: the remaining jobs are never
// handed out, in-flight tasks are cancelled, and no partial ranking is
// returned. Run only returns once every worker has exited.
func Run(ctx context.Context, opts Options, paths []string) (*Outcome, error) {
	if opts.TopN < 1 || opts.TopN > models.MaxTopN {
		return nil, fmt.Errorf("top-n %d outside [1, %d]", opts.TopN, models.MaxTopN)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	opener := opts.Opener
	if opener == nil {
		opener = &storage.Storage{}
	}
	merge := opts.Merge
	if merge == "" {
		merge = models.MergeExact
	}
	m := opts.Metrics
	if m == nil {
		m = metrics.NewRun()
		defer m.Stop()
	}

	outcome := &Outcome{Ranking: models.Ranking{}, Files: []Result{}}
	if len(paths) == 0 {
		logger.Info("No files to count")
		return outcome, nil
	}

	cfg := models.RunConfig{Workers: opts.Workers}
	workerCount := cfg.EffectiveWorkers(len(paths))
	outcome.Workers = workerCount

	logger.Info("Starting concurrent count phase", "file_count", len(paths), "workers", workerCount, "top_n", opts.TopN, "merge", merge)

	g, gctx := errgroup.WithContext(ctx)
	jobs := make(chan Job)
	results := make(chan Result, workerCount)
	var failed atomic.Bool

	g.Go(func() error {
		defer close(jobs)
		for _, path := range paths {
			select {
			case jobs <- Job{Path: path, TopN: opts.TopN}:
			case <-gctx.Done():
				return interrupted(path, ctx, gctx.Err())
			}
		}
		return nil
	})

	w := &worker{
		logger:  logger,
		opener:  opener,
		merge:   merge,
		timeout: opts.TaskTimeout,
		metrics: m,
		failed:  &failed,
	}
	for id := 1; id <= workerCount; id++ {
		id := id
		g.Go(func() error {
			return w.run(gctx, ctx, id, jobs, results)
		})
	}

	var waitErr error
	go func() {
		waitErr = g.Wait()
		close(results)
	}()

	agg := mapreduce.NewAggregator()
	for result := range results {
		// Once any task has failed nothing else is merged.
		if failed.Load() {
			continue
		}
		if merge == models.MergeExact {
			agg.AddCounts(result.Counts)
		} else {
			agg.AddRanking(result.Ranking)
		}
		result.Counts = nil
		outcome.Files = append(outcome.Files, result)
		outcome.Totals.Tokens += result.Totals.Tokens
		outcome.Totals.Bytes += result.Totals.Bytes
	}
	logger.Info("All count workers finished")

	if waitErr != nil {
		logger.Error("Count run failed", "error", waitErr)
		return nil, waitErr
	}
	if len(outcome.Files) != len(paths) {
		err := &ExecutionError{Err: fmt.Errorf("%w: %d of %d results collected", ErrConcurrency, len(outcome.Files), len(paths))}
		logger.Error("Count run lost results", "error", err)
		return nil, err
	}

	logger.Info("Starting MapReduce phase", "partials", agg.Parts())
	outcome.Ranking = agg.Ranking(opts.TopN)
	outcome.Distinct = agg.Distinct()

	sort.Slice(outcome.Files, func(i, j int) bool {
		return outcome.Files[i].Path < outcome.Files[j].Path
	})

	if logger.Enabled(ctx, slog.LevelDebug) {
		snap := m.Snapshot()
		logger.Debug("Run metrics", "files_processed", snap.FilesProcessed, "bytes_read", snap.BytesRead,
			"mean_file_ms", snap.MeanFileMillis, "p95_file_ms", snap.P95FileMillis)
		logger.Debug("Top keywords", "keywords", mapreduce.TopKeywords(agg.Counts(), opts.TopN))
	}

	return outcome, nil
}

type worker struct {
	logger  *slog.Logger
	opener  tokenizer.Opener
	merge   models.MergeMode
	timeout time.Duration
	metrics *metrics.Run
	failed  *atomic.Bool
}

// run consumes jobs until the channel closes or the run is cancelled.
// parent is the caller's context, used to tell an interrupted run from a
// cancellation caused by another worker's failure.
func (w *worker) run(ctx, parent context.Context, id int, jobs <-chan Job, results chan<- Result) error {
	for job := range jobs {
		if err := ctx.Err(); err != nil {
			return interrupted(job.Path, parent, err)
		}

		w.logger.Debug("Worker started job", "worker_id", id, "path", job.Path)
		start := time.Now()
		result := w.process(ctx, job)

		if result.Err != nil {
			w.metrics.FileFailed(start)
			if ctx.Err() != nil && isCancellation(result.Err) {
				return interrupted(job.Path, parent, result.Err)
			}
			w.failed.Store(true)
			w.logger.Error("Worker failed job", "worker_id", id, "path", job.Path, "error", result.Err)
			return &ExecutionError{Path: job.Path, Err: result.Err}
		}

		w.metrics.FileDone(start, result.Totals.Tokens, result.Totals.Bytes)
		w.logger.Debug("Worker finished job", "worker_id", id, "path", job.Path, "tokens", result.Totals.Tokens, "distinct", result.Distinct)
		results <- result
	}
	return nil
}

// process runs the tokenizer and the per-file reducer for one job.
func (w *worker) process(ctx context.Context, job Job) (result Result) {
	result.Path = job.Path
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			result = Result{Path: job.Path, Err: fmt.Errorf("%w: panic while counting: %v", ErrConcurrency, r)}
		}
		result.Duration = time.Since(start)
	}()

	taskCtx := ctx
	if w.timeout > 0 {
		var cancel context.CancelFunc
		taskCtx, cancel = context.WithTimeout(ctx, w.timeout)
		defer cancel()
	}

	counts, totals, err := tokenizer.CountFile(taskCtx, w.opener, job.Path)
	result.Totals = totals
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			err = fmt.Errorf("task timed out after %s: %w", w.timeout, err)
		}
		result.Err = err
		return result
	}

	result.Ranking = mapreduce.TopN(counts, job.TopN)
	result.Distinct = len(counts)
	if w.merge == models.MergeExact {
		result.Counts = counts
	}
	return result
}

func isCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// interrupted wraps a cancellation. When the caller's own context ended the
// run is reported as a pool failure; otherwise another worker already holds
// the real error and this one is discarded by errgroup.
func interrupted(path string, parent context.Context, err error) error {
	if parent.Err() != nil {
		return &ExecutionError{Path: path, Err: fmt.Errorf("%w: run interrupted: %w", ErrConcurrency, parent.Err())}
	}
	return err
}
