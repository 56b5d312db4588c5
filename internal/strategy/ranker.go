package strategy

import (
	"sort"

	"BreakoutScanner/internal/model"
)

// Rank keeps candidates scoring at least threshold, orders them by score
// (ties keep discovery order) and returns at most topN.
func Rank(candidates []*model.ScoredCandidate, threshold, topN int) []*model.ScoredCandidate {
	kept := make([]*model.ScoredCandidate, 0, len(candidates))
	for _, c := range candidates {
		if c.Score >= threshold {
			kept = append(kept, c)
		}
	}
	sort.SliceStable(kept, func(i, j int) bool { return kept[i].Score > kept[j].Score })
	if topN >= 0 && len(kept) > topN {
		kept = kept[:topN]
	}
	return kept
}
