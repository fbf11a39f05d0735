package manifest

import (
	"time"

	"github.com/dustin/go-humanize"

	"github.com/dtnitsch/topwords/models"
	"github.com/dtnitsch/topwords/pkg/metrics"
)

// FileResult represents the counted result of a single file.
// It is passed in by the caller to avoid an import cycle with the scheduler.
type FileResult struct {
	Path     string
	Tokens   int
	Distinct int
	Bytes    int64
	Ranking  models.Ranking
}

// RunResult is everything GenerateSummary needs from a finished run.
type RunResult struct {
	RunID    string
	TopN     int
	Workers  int
	Merge    models.MergeMode
	Distinct int
	Ranking  models.Ranking
	Files    []FileResult
	Elapsed  time.Duration
	Metrics  *metrics.Snapshot
	PerFile  bool
	Now      time.Time
}

// GenerateSummary builds the report for a run. Per-file sections are only
// included when PerFile is set.
func GenerateSummary(run RunResult) Report {
	now := run.Now
	if now.IsZero() {
		now = time.Now()
	}

	ranking := run.Ranking
	if ranking == nil {
		ranking = models.Ranking{}
	}

	report := Report{
		RunID:          run.RunID,
		GeneratedAt:    now.Format(time.RFC3339),
		TopN:           run.TopN,
		TotalFiles:     len(run.Files),
		Workers:        run.Workers,
		MergeMode:      string(run.Merge),
		DistinctTokens: run.Distinct,
		ElapsedSeconds: run.Elapsed.Seconds(),
		TopWords:       ranking,
	}

	for _, f := range run.Files {
		report.TotalTokens += f.Tokens
		report.BytesRead += f.Bytes

		if run.PerFile {
			report.Files = append(report.Files, FileSummary{
				Path:           f.Path,
				Tokens:         f.Tokens,
				DistinctTokens: f.Distinct,
				SizeBytes:      f.Bytes,
				TopWords:       f.Ranking,
			})
		}
	}
	report.BytesReadHuman = humanize.Bytes(uint64(report.BytesRead))

	if run.Metrics != nil {
		report.Metrics = &RunMetrics{
			MeanFileMillis: run.Metrics.MeanFileMillis,
			P95FileMillis:  run.Metrics.P95FileMillis,
			MaxFileTokens:  run.Metrics.MaxFileTokens,
		}
	}

	return report
}
