package retrieval

import (
	"math"
	"slices"

	"github.com/siherrmann/linker/model"
)

// selectMMR picks up to k results from the pool by maximal marginal
// relevance. Each round selects the candidate maximizing
// lambda*similarity - (1-lambda)*redundancy, where redundancy is the
// highest similarity to any already selected result. Ties go to the
// smaller node id.
func (e *Engine) selectMMR(pool []model.SearchResult, k int, lambda float64) []model.SearchResult {
	if k <= 0 || len(pool) == 0 {
		return []model.SearchResult{}
	}

	metric := e.metric()
	if k > len(pool) {
		k = len(pool)
	}

	selected := make([]model.SearchResult, 0, k)
	remaining := slices.Clone(pool)

	for len(selected) < k && len(remaining) > 0 {
		bestIdx := -1
		bestScore := math.Inf(-1)

		for i, candidate := range remaining {
			redundancy := 0.0
			if len(selected) > 0 {
				redundancy = math.Inf(-1)
				for _, chosen := range selected {
					similarity := metric(candidate.Node.Embedding, chosen.Node.Embedding)
					if similarity > redundancy {
						redundancy = similarity
					}
				}
			}

			score := lambda*candidate.Score - (1-lambda)*redundancy
			if bestIdx < 0 || score > bestScore ||
				(score == bestScore && candidate.Node.ID < remaining[bestIdx].Node.ID) {
				bestIdx = i
				bestScore = score
			}
		}

		selected = append(selected, remaining[bestIdx])
		remaining = slices.Delete(remaining, bestIdx, bestIdx+1)
	}
	return selected
}
