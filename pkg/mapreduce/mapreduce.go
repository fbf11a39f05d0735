// Package mapreduce reduces per-file word counts into rankings and merges
// them into one global frequency map.
package mapreduce

import "github.com/dtnitsch/topwords/models"

// Aggregator merges partial results into a cumulative frequency map.
// It is not safe for concurrent use; a single coordinator owns it.
type Aggregator struct {
	counts models.FrequencyMap
	parts  int
}

// NewAggregator returns an empty aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{counts: make(models.FrequencyMap)}
}

// AddCounts sums a full per-file frequency map into the total.
func (a *Aggregator) AddCounts(counts models.FrequencyMap) {
	for word, count := range counts {
		if count > 0 {
			a.counts[word] += count
		}
	}
	a.parts++
}

// AddRanking sums a truncated per-file ranking into the total.
func (a *Aggregator) AddRanking(r models.Ranking) {
	for _, e := range r {
		if e.Count > 0 {
			a.counts[e.Token] += e.Count
		}
	}
	a.parts++
}

// Parts is how many partial results have been merged.
func (a *Aggregator) Parts() int {
	return a.parts
}

// Distinct is the number of distinct tokens merged so far.
func (a *Aggregator) Distinct() int {
	return len(a.counts)
}

// Counts exposes the merged map. Callers must not modify it.
func (a *Aggregator) Counts() models.FrequencyMap {
	return a.counts
}

// Ranking produces the global top n from everything merged so far.
func (a *Aggregator) Ranking(n int) models.Ranking {
	return TopN(a.counts, n)
}

// Reduce aggregates a slice of word frequency maps into a single map.
func Reduce(intermediate []models.FrequencyMap) models.FrequencyMap {
	agg := NewAggregator()
	for _, counts := range intermediate {
		agg.AddCounts(counts)
	}
	return agg.Counts()
}
