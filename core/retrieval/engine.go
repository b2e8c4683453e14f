// Package retrieval implements similarity search and link traversal over
// an in memory node source.
package retrieval

import (
	"context"
	"fmt"
	"iter"
	"sort"
	"time"

	"github.com/siherrmann/linker/metrics"
	"github.com/siherrmann/linker/model"
)

// NodeSource provides the nodes the engine searches over.
type NodeSource interface {
	Node(id string) (*model.Node, error)
	NodeIDs() iter.Seq[string]
	Len() int
	Dimension() int
}

// LinkSource provides the links the engine traverses.
type LinkSource interface {
	EdgesFor(id string) []model.Link
}

// checkEvery is the number of scanned nodes between context checks.
const checkEvery = 256

// Engine provides similarity retrieval and link traversal capabilities.
type Engine struct {
	source NodeSource
	links  LinkSource
	// Metric scores candidates against the query. Defaults to
	// CosineSimilarity.
	Metric MetricFunc
}

// NewEngine creates a new retrieval engine over the given sources.
func NewEngine(source NodeSource, links LinkSource) *Engine {
	return &Engine{
		source: source,
		links:  links,
		Metric: CosineSimilarity,
	}
}

func (e *Engine) metric() MetricFunc {
	if e.Metric == nil {
		return CosineSimilarity
	}
	return e.Metric
}

// Similarity returns the k nodes most similar to the query embedding,
// ordered by score descending and id ascending on ties.
func (e *Engine) Similarity(ctx context.Context, embedding []float32, k int) ([]model.SearchResult, error) {
	start := time.Now()
	results, err := e.similaritySearch(ctx, embedding, k)
	if err != nil {
		return nil, err
	}
	for i := range results {
		results[i].Method = model.RetrievalMethodSimilarity
	}
	metrics.ObserveQuery(string(model.RetrievalMethodSimilarity), time.Since(start))
	return results, nil
}

// Traverse returns up to TopK nodes found by expanding the similarity
// seeds along links, reranked for relevance and diversity. With MaxDepth
// zero it behaves exactly like Similarity.
func (e *Engine) Traverse(ctx context.Context, embedding []float32, config *model.QueryConfig) ([]model.SearchResult, error) {
	if config == nil {
		config = model.DefaultQueryConfig()
	}
	err := config.Validate()
	if err != nil {
		return nil, err
	}

	start := time.Now()
	var results []model.SearchResult
	if config.MaxDepth == 0 {
		results, err = e.similaritySearch(ctx, embedding, config.TopK)
	} else {
		var pool []model.SearchResult
		pool, err = e.expand(ctx, embedding, config)
		if err == nil {
			results = e.selectMMR(pool, config.TopK, config.Lambda)
		}
	}
	if err != nil {
		return nil, err
	}

	for i := range results {
		results[i].Method = model.RetrievalMethodTraversal
	}
	metrics.ObserveQuery(string(model.RetrievalMethodTraversal), time.Since(start))
	return results, nil
}

// Compare runs a similarity and a traversal query for the same embedding
// and reports both result lists with their symmetric difference.
func (e *Engine) Compare(ctx context.Context, embedding []float32, config *model.QueryConfig) (*model.Comparison, error) {
	if config == nil {
		config = model.DefaultQueryConfig()
	}
	err := config.Validate()
	if err != nil {
		return nil, err
	}

	comparison := &model.Comparison{}

	start := time.Now()
	similarity, err := e.Similarity(ctx, embedding, config.TopK)
	if err != nil {
		return nil, err
	}
	comparison.Similarity = similarity
	comparison.SimilarityElapsed = time.Since(start)

	start = time.Now()
	traversal, err := e.Traverse(ctx, embedding, config)
	if err != nil {
		return nil, err
	}
	comparison.Traversal = traversal
	comparison.TraversalElapsed = time.Since(start)

	comparison.Shared, comparison.SimilarityOnly, comparison.TraversalOnly = diffIDs(similarity, traversal)
	return comparison, nil
}

// similaritySearch scores every node against the query and returns the
// top k without a method label.
func (e *Engine) similaritySearch(ctx context.Context, query []float32, k int) ([]model.SearchResult, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: got %d", model.ErrInvalidK, k)
	}
	if len(query) != e.source.Dimension() {
		return nil, fmt.Errorf("%w: query has %d dimensions, store has %d", model.ErrDimensionMismatch, len(query), e.source.Dimension())
	}

	results, err := e.scoreAll(ctx, query)
	if err != nil {
		return nil, err
	}

	sortResults(results)
	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

// scoreAll scores every node of the source against the query.
func (e *Engine) scoreAll(ctx context.Context, query []float32) ([]model.SearchResult, error) {
	metric := e.metric()
	results := make([]model.SearchResult, 0, e.source.Len())
	count := 0
	for id := range e.source.NodeIDs() {
		if count%checkEvery == 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}
		}
		count++

		node, err := e.source.Node(id)
		if err != nil {
			return nil, fmt.Errorf("%w: node %s: %v", model.ErrMissingNode, id, err)
		}
		results = append(results, model.SearchResult{
			Node:  node,
			Score: metric(query, node.Embedding),
		})
	}
	return results, nil
}

// expand collects the candidate pool of a traversal query. It seeds the
// pool with the similarity top k and walks links breadth first up to
// MaxDepth hops. Every discovered node is scored by its own similarity
// to the query and remembered with the hop of its first discovery.
func (e *Engine) expand(ctx context.Context, query []float32, config *model.QueryConfig) ([]model.SearchResult, error) {
	seeds, err := e.similaritySearch(ctx, query, config.TopK)
	if err != nil {
		return nil, err
	}

	limit := config.MaxCandidates
	if limit <= 0 {
		limit = model.DefaultMaxCandidates
	}

	visited := map[string]int{}
	pool := []model.SearchResult{}
	frontier := []string{}
	for _, seed := range seeds {
		if len(pool) >= limit {
			break
		}
		visited[seed.Node.ID] = 0
		if seed.Score < config.ScoreThreshold {
			continue
		}
		pool = append(pool, seed)
		frontier = append(frontier, seed.Node.ID)
	}

	for hop := 1; hop <= config.MaxDepth && len(frontier) > 0 && len(pool) < limit; hop++ {
		next := []string{}
		for _, id := range frontier {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}

			for _, link := range e.links.EdgesFor(id) {
				if len(pool) >= limit {
					break
				}
				neighbor, ok := link.Other(id)
				if !ok {
					continue
				}
				// Skip if already visited
				if _, ok := visited[neighbor]; ok {
					continue
				}
				visited[neighbor] = hop

				node, err := e.source.Node(neighbor)
				if err != nil {
					return nil, fmt.Errorf("%w: link %s: %v", model.ErrMissingNode, link, err)
				}

				score := e.metric()(query, node.Embedding)
				if score < config.ScoreThreshold {
					continue
				}
				pool = append(pool, model.SearchResult{Node: node, Score: score, Hops: hop})
				next = append(next, neighbor)
			}
		}
		frontier = next
	}
	return pool, nil
}

// sortResults orders results by score descending with ties broken by id
// ascending.
func sortResults(results []model.SearchResult) {
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Node.ID < results[j].Node.ID
	})
}

// diffIDs returns the sorted shared and exclusive result ids of a and b.
func diffIDs(a []model.SearchResult, b []model.SearchResult) (shared []string, aOnly []string, bOnly []string) {
	inA := map[string]bool{}
	for _, result := range a {
		inA[result.Node.ID] = true
	}
	inB := map[string]bool{}
	for _, result := range b {
		inB[result.Node.ID] = true
	}

	shared, aOnly, bOnly = []string{}, []string{}, []string{}
	for id := range inA {
		if inB[id] {
			shared = append(shared, id)
		} else {
			aOnly = append(aOnly, id)
		}
	}
	for id := range inB {
		if !inA[id] {
			bOnly = append(bOnly, id)
		}
	}
	sort.Strings(shared)
	sort.Strings(aOnly)
	sort.Strings(bOnly)
	return shared, aOnly, bOnly
}
