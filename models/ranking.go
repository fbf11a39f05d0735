package models

// FrequencyMap maps a token to how many times it occurred.
type FrequencyMap map[string]int

// RankedEntry is a single (token, count) pair of a ranking.
type RankedEntry struct {
	Token string `json:"word" yaml:"word"`
	Count int    `json:"count" yaml:"count"`
}

// Less orders by count descending, then by token ascending.
func (e RankedEntry) Less(o RankedEntry) bool {
	if e.Count != o.Count {
		return e.Count > o.Count
	}
	return e.Token < o.Token
}

// Ranking is a sorted, truncated list of entries.
type Ranking []RankedEntry

// Tokens returns just the tokens, in rank order.
func (r Ranking) Tokens() []string {
	out := make([]string, len(r))
	for i, e := range r {
		out[i] = e.Token
	}
	return out
}
