package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"BreakoutScanner/internal/model"
)

func candidates(scores map[string]int, order []string) []*model.ScoredCandidate {
	out := make([]*model.ScoredCandidate, 0, len(order))
	for _, ticker := range order {
		out = append(out, &model.ScoredCandidate{Ticker: ticker, Score: scores[ticker]})
	}
	return out
}

func tickers(cs []*model.ScoredCandidate) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.Ticker
	}
	return out
}

func TestRank_FiltersSortsAndTruncates(t *testing.T) {
	order := []string{"A", "B", "C", "D", "E", "F", "G", "H"}
	scores := map[string]int{"A": 80, "B": 100, "C": 60, "D": 75, "E": 95, "F": 80, "G": 85, "H": 74}

	ranked := Rank(candidates(scores, order), 75, 5)

	assert.Equal(t, []string{"B", "E", "G", "A", "F"}, tickers(ranked))
	for i, c := range ranked {
		assert.GreaterOrEqual(t, c.Score, 75)
		if i > 0 {
			assert.LessOrEqual(t, c.Score, ranked[i-1].Score)
		}
	}
}

func TestRank_ThresholdIsInclusive(t *testing.T) {
	ranked := Rank(candidates(map[string]int{"X": 75, "Y": 74}, []string{"X", "Y"}), 75, 5)
	assert.Equal(t, []string{"X"}, tickers(ranked))
}

func TestRank_TiesKeepDiscoveryOrder(t *testing.T) {
	order := []string{"Q", "P", "R"}
	ranked := Rank(candidates(map[string]int{"Q": 80, "P": 80, "R": 80}, order), 75, 5)
	assert.Equal(t, order, tickers(ranked))
}

func TestRank_Empty(t *testing.T) {
	assert.Empty(t, Rank(nil, 75, 5))
	assert.Empty(t, Rank(candidates(map[string]int{"A": 10}, []string{"A"}), 75, 5))
}
