package manifest

import "github.com/dtnitsch/topwords/models"

// Report is the structured summary of one run. It is rendered to stdout
// as JSON or YAML and never written to disk.
type Report struct {
	RunID          string         `json:"run_id" yaml:"run_id"`
	GeneratedAt    string         `json:"generated_at" yaml:"generated_at"`
	TopN           int            `json:"top_n" yaml:"top_n"`
	TotalFiles     int            `json:"total_files" yaml:"total_files"`
	Workers        int            `json:"workers" yaml:"workers"`
	MergeMode      string         `json:"merge_mode" yaml:"merge_mode"`
	DistinctTokens int            `json:"distinct_tokens" yaml:"distinct_tokens"`
	TotalTokens    int            `json:"total_tokens" yaml:"total_tokens"`
	BytesRead      int64          `json:"bytes_read" yaml:"bytes_read"`
	BytesReadHuman string         `json:"bytes_read_human" yaml:"bytes_read_human"`
	ElapsedSeconds float64        `json:"elapsed_seconds" yaml:"elapsed_seconds"`
	TopWords       models.Ranking `json:"top_words" yaml:"top_words"`
	Metrics        *RunMetrics    `json:"metrics,omitempty" yaml:"metrics,omitempty"`
	Files          []FileSummary  `json:"files,omitempty" yaml:"files,omitempty"`
}

// FileSummary represents summary information for a single file.
type FileSummary struct {
	Path           string         `json:"path" yaml:"path"`
	Tokens         int            `json:"tokens" yaml:"tokens"`
	DistinctTokens int            `json:"distinct_tokens" yaml:"distinct_tokens"`
	SizeBytes      int64          `json:"size_bytes" yaml:"size_bytes"`
	TopWords       models.Ranking `json:"top_words" yaml:"top_words"`
}

// RunMetrics carries the timing figures worth showing to a user.
type RunMetrics struct {
	MeanFileMillis float64 `json:"mean_file_ms" yaml:"mean_file_ms"`
	P95FileMillis  float64 `json:"p95_file_ms" yaml:"p95_file_ms"`
	MaxFileTokens  int64   `json:"max_file_tokens" yaml:"max_file_tokens"`
}
