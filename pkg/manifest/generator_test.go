package manifest

import (
	"encoding/json"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dtnitsch/topwords/models"
	"github.com/dtnitsch/topwords/pkg/metrics"
)

func sampleRun() RunResult {
	return RunResult{
		RunID:    "run-1",
		TopN:     2,
		Workers:  3,
		Merge:    models.MergeExact,
		Distinct: 4,
		Ranking:  models.Ranking{{Token: "cat", Count: 7}, {Token: "dog", Count: 2}},
		Files: []FileResult{
			{Path: "a.txt", Tokens: 4, Distinct: 2, Bytes: 1500, Ranking: models.Ranking{{Token: "cat", Count: 3}}},
			{Path: "b.txt", Tokens: 6, Distinct: 3, Bytes: 500, Ranking: models.Ranking{{Token: "cat", Count: 4}}},
		},
		Elapsed: 1500 * time.Millisecond,
		Now:     time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestGenerateSummary(t *testing.T) {
	report := GenerateSummary(sampleRun())

	if report.GeneratedAt != "2026-01-02T03:04:05Z" {
		t.Errorf("GeneratedAt = %q", report.GeneratedAt)
	}
	if report.TotalFiles != 2 {
		t.Errorf("TotalFiles = %d, want 2", report.TotalFiles)
	}
	if report.TotalTokens != 10 {
		t.Errorf("TotalTokens = %d, want 10", report.TotalTokens)
	}
	if report.BytesRead != 2000 {
		t.Errorf("BytesRead = %d, want 2000", report.BytesRead)
	}
	if report.BytesReadHuman != "2.0 kB" {
		t.Errorf("BytesReadHuman = %q, want %q", report.BytesReadHuman, "2.0 kB")
	}
	if report.ElapsedSeconds != 1.5 {
		t.Errorf("ElapsedSeconds = %v, want 1.5", report.ElapsedSeconds)
	}
	if report.MergeMode != "exact" {
		t.Errorf("MergeMode = %q, want exact", report.MergeMode)
	}
	if len(report.Files) != 0 {
		t.Errorf("Files = %v, want none without PerFile", report.Files)
	}
	if report.Metrics != nil {
		t.Errorf("Metrics = %+v, want nil", report.Metrics)
	}
}

func TestGenerateSummary_PerFileAndMetrics(t *testing.T) {
	run := sampleRun()
	run.PerFile = true
	run.Metrics = &metrics.Snapshot{MeanFileMillis: 2.5, P95FileMillis: 4, MaxFileTokens: 6}

	report := GenerateSummary(run)

	if len(report.Files) != 2 {
		t.Fatalf("len(Files) = %d, want 2", len(report.Files))
	}
	if report.Files[1].Path != "b.txt" || report.Files[1].TopWords[0].Count != 4 {
		t.Errorf("Files[1] = %+v", report.Files[1])
	}
	if report.Metrics == nil || report.Metrics.MaxFileTokens != 6 {
		t.Errorf("Metrics = %+v, want MaxFileTokens 6", report.Metrics)
	}
}

func TestGenerateSummary_EmptyRun(t *testing.T) {
	report := GenerateSummary(RunResult{TopN: 5})

	if report.TopWords == nil {
		t.Fatal("TopWords = nil, want empty ranking")
	}
	data, err := json.Marshal(report)
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}
	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	if words, ok := decoded["top_words"].([]interface{}); !ok || len(words) != 0 {
		t.Errorf("top_words = %v, want []", decoded["top_words"])
	}
}

func TestReport_YAMLFieldNames(t *testing.T) {
	data, err := yaml.Marshal(GenerateSummary(sampleRun()))
	if err != nil {
		t.Fatalf("yaml.Marshal() error = %v", err)
	}

	var decoded map[string]interface{}
	if err := yaml.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("yaml.Unmarshal() error = %v", err)
	}
	for _, key := range []string{"run_id", "top_words", "bytes_read_human", "distinct_tokens"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("YAML report missing %q", key)
		}
	}
	words := decoded["top_words"].([]interface{})
	first := words[0].(map[string]interface{})
	if first["word"] != "cat" || first["count"] != 7 {
		t.Errorf("top_words[0] = %v, want word=cat count=7", first)
	}
}
