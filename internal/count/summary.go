package count

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dtnitsch/topwords/models"
	"github.com/dtnitsch/topwords/pkg/manifest"
	"github.com/dtnitsch/topwords/pkg/metrics"
)

// Output formats accepted by --format.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// BuildReport turns a finished run into the report rendered by the json and
// yaml formats.
func BuildReport(runID string, cfg *models.RunConfig, outcome *Outcome, snap *metrics.Snapshot, elapsed time.Duration, perFile bool) manifest.Report {
	return manifest.GenerateSummary(manifest.RunResult{
		RunID:    runID,
		TopN:     cfg.TopN,
		Workers:  outcome.Workers,
		Merge:    cfg.Merge,
		Distinct: outcome.Distinct,
		Ranking:  outcome.Ranking,
		Files:    convertToManifestResults(outcome.Files),
		Elapsed:  elapsed,
		Metrics:  snap,
		PerFile:  perFile,
	})
}

// convertToManifestResults converts scheduler results to manifest.FileResult.
// This adapter keeps the manifest package free of scheduler types.
func convertToManifestResults(results []Result) []manifest.FileResult {
	manifestResults := make([]manifest.FileResult, len(results))
	for i, r := range results {
		manifestResults[i] = manifest.FileResult{
			Path:     r.Path,
			Tokens:   r.Totals.Tokens,
			Distinct: r.Distinct,
			Bytes:    r.Totals.Bytes,
			Ranking:  r.Ranking,
		}
	}
	return manifestResults
}

// WriteText prints a ranking in the classic line format.
func WriteText(w io.Writer, ranking models.Ranking) error {
	if _, err := fmt.Fprintf(w, wordsHeaderFormat, len(ranking)); err != nil {
		return err
	}
	for _, entry := range ranking {
		if _, err := fmt.Fprintf(w, wordsItemFormat, entry.Token, entry.Count); err != nil {
			return err
		}
	}
	return nil
}

// WriteOutcome prints the global ranking and, when perFile is set, one
// indented ranking per file.
func WriteOutcome(w io.Writer, outcome *Outcome, perFile bool) error {
	if err := WriteText(w, outcome.Ranking); err != nil {
		return err
	}
	if !perFile {
		return nil
	}

	for _, file := range outcome.Files {
		var b strings.Builder
		if err := WriteText(&b, file.Ranking); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "\n%s:\n", file.Path); err != nil {
			return err
		}
		for _, line := range strings.SplitAfter(b.String(), "\n") {
			if line == "" {
				continue
			}
			if _, err := io.WriteString(w, "  "+line); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteReport marshals the report as json or yaml.
func WriteReport(w io.Writer, format string, report manifest.Report) error {
	var outputData []byte
	var err error
	switch format {
	case FormatYAML:
		outputData, err = yaml.Marshal(report)
	case FormatJSON:
		outputData, err = json.MarshalIndent(report, "", "  ")
	default:
		return fmt.Errorf("unsupported report format %q", format)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	_, err = fmt.Fprintln(w, strings.TrimRight(string(outputData), "\n"))
	return err
}
