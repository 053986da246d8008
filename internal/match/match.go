// ABOUTME: Token-sort fuzzy matching for the knowledge-base fallback
// ABOUTME: Scores a user query against candidate questions and applies the confidence threshold

package match

import (
	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"
)

// DefaultMinScore is the confidence threshold below which a match is rejected.
// A match is accepted only when its score is strictly greater than this value.
const DefaultMinScore = 85

// Result is the best candidate found for a query.
type Result struct {
	Question string // the matched candidate, verbatim
	Score    int    // token-sort ratio, 0-100
}

// Matcher scores queries against candidate questions using token-sort ratio:
// both strings are tokenized, tokens sorted alphabetically, and the sorted
// forms compared, making the score independent of word order.
type Matcher struct {
	// MinScore is the strict lower bound for acceptance. Zero value means
	// DefaultMinScore.
	MinScore int
}

// New returns a Matcher with the given threshold; minScore <= 0 selects
// DefaultMinScore.
func New(minScore int) *Matcher {
	if minScore <= 0 {
		minScore = DefaultMinScore
	}
	return &Matcher{MinScore: minScore}
}

// BestMatch returns the highest-scoring candidate for the query.
// The first candidate encountered at the top score wins ties, so the result
// is deterministic for a given candidate order. An empty candidate set
// returns ok=false without scoring anything.
func (m *Matcher) BestMatch(query string, candidates []string) (Result, bool) {
	if len(candidates) == 0 {
		return Result{}, false
	}

	best := Result{Score: -1}
	for _, c := range candidates {
		score := fuzzy.TokenSortRatio(query, c)
		if score > best.Score {
			best = Result{Question: c, Score: score}
		}
	}
	return best, true
}

// Accept reports whether the result clears the confidence threshold.
// The comparison is strictly greater-than: a score equal to MinScore is
// rejected.
func (m *Matcher) Accept(r Result) bool {
	min := m.MinScore
	if min <= 0 {
		min = DefaultMinScore
	}
	return r.Score > min
}

// Lookup combines BestMatch and Accept: it returns the best candidate only
// when it clears the threshold.
func (m *Matcher) Lookup(query string, candidates []string) (Result, bool) {
	best, ok := m.BestMatch(query, candidates)
	if !ok || !m.Accept(best) {
		return Result{}, false
	}
	return best, true
}
