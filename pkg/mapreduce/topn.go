package mapreduce

import (
	"fmt"
	"sort"

	"github.com/dtnitsch/topwords/models"
)

// TopN returns the n most frequent tokens of counts, sorted by count
// descending and then token ascending, so equal counts rank the same
// way on every run.
func TopN(counts models.FrequencyMap, n int) models.Ranking {
	if n <= 0 || len(counts) == 0 {
		return models.Ranking{}
	}

	ss := make(models.Ranking, 0, len(counts))
	for k, v := range counts {
		if v > 0 {
			ss = append(ss, models.RankedEntry{Token: k, Count: v})
		}
	}

	sort.Slice(ss, func(i, j int) bool {
		return ss[i].Less(ss[j])
	})

	limit := n
	if len(ss) < n {
		limit = len(ss)
	}

	// Copy so the backing array of discarded entries can be collected.
	out := make(models.Ranking, limit)
	copy(out, ss[:limit])
	return out
}

// TopKeywords returns the top N keywords as "word:count" strings.
func TopKeywords(counts models.FrequencyMap, n int) []string {
	ranking := TopN(counts, n)

	keywords := make([]string, len(ranking))
	for i, e := range ranking {
		keywords[i] = fmt.Sprintf("%s:%d", e.Token, e.Count)
	}
	return keywords
}
