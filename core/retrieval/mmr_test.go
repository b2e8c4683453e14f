package retrieval

import (
	"testing"

	"github.com/siherrmann/linker/model"
	"github.com/stretchr/testify/assert"
)

func poolEntry(id string, score float64, embedding ...float32) model.SearchResult {
	return model.SearchResult{
		Node:  &model.Node{ID: id, Embedding: embedding},
		Score: score,
	}
}

func TestSelectMMR(t *testing.T) {
	engine := &Engine{}

	t.Run("Lambda one ranks purely by relevance", func(t *testing.T) {
		pool := []model.SearchResult{
			poolEntry("mid", 0.8, 1, 0, 0),
			poolEntry("top", 0.9, 1, 0, 0),
			poolEntry("low", 0.7, 1, 0, 0),
		}

		selected := engine.selectMMR(pool, 3, 1)
		assert.Equal(t, []string{"top", "mid", "low"}, resultIDs(selected), "Expected pure relevance order")
	})

	t.Run("Lambda zero maximizes diversity", func(t *testing.T) {
		pool := []model.SearchResult{
			poolEntry("m", 0.9, 1, 0, 0),
			poolEntry("n", 0.8, 1, 0, 0),
			poolEntry("o", 0.1, 0, 1, 0),
		}

		selected := engine.selectMMR(pool, 2, 0)
		// With nothing selected all scores are zero, so the first pick
		// falls to the smallest id.
		assert.Equal(t, []string{"m", "o"}, resultIDs(selected), "Expected the orthogonal node over the duplicate")
	})

	t.Run("Balanced lambda drops redundant candidates", func(t *testing.T) {
		pool := []model.SearchResult{
			poolEntry("a", 0.9, 0.9, 0.436, 0),
			poolEntry("b", 0.88, 0.88, 0.475, 0),
			poolEntry("c", 0.6, 0.6, 0, 0.8),
		}

		selected := engine.selectMMR(pool, 2, 0.5)
		assert.Equal(t, []string{"a", "c"}, resultIDs(selected), "Expected the diverse node over the near duplicate")
	})

	t.Run("Ties resolved by smaller node id", func(t *testing.T) {
		pool := []model.SearchResult{
			poolEntry("y", 0.8, 0.8, 0.6, 0),
			poolEntry("x", 0.8, 0.8, 0.6, 0),
		}

		selected := engine.selectMMR(pool, 2, 0.5)
		assert.Equal(t, []string{"x", "y"}, resultIDs(selected), "Expected ties in id order")
	})

	t.Run("Returns whole pool when k exceeds it", func(t *testing.T) {
		pool := []model.SearchResult{
			poolEntry("a", 0.9, 1, 0, 0),
			poolEntry("b", 0.8, 0, 1, 0),
		}

		selected := engine.selectMMR(pool, 10, 0.5)
		assert.Len(t, selected, 2, "Expected the whole pool")
	})

	t.Run("Empty pool yields empty selection", func(t *testing.T) {
		selected := engine.selectMMR(nil, 3, 0.5)
		assert.NotNil(t, selected, "Expected non nil selection")
		assert.Empty(t, selected, "Expected no results")
	})

	t.Run("Non positive k yields empty selection", func(t *testing.T) {
		pool := []model.SearchResult{poolEntry("a", 0.9, 1, 0, 0)}
		assert.Empty(t, engine.selectMMR(pool, 0, 0.5), "Expected no results for zero k")
	})

	t.Run("Leaves the pool unmodified", func(t *testing.T) {
		pool := []model.SearchResult{
			poolEntry("a", 0.9, 1, 0, 0),
			poolEntry("b", 0.8, 0, 1, 0),
			poolEntry("c", 0.7, 0, 0, 1),
		}

		_ = engine.selectMMR(pool, 2, 0.5)
		assert.Equal(t, []string{"a", "b", "c"}, resultIDs(pool), "Expected pool order untouched")
	})
}
