package model

import "time"

// RetrievalMethod labels which search path produced a result.
type RetrievalMethod string

const (
	RetrievalMethodSimilarity RetrievalMethod = "similarity"
	RetrievalMethodTraversal  RetrievalMethod = "traversal"
)

// SearchResult is a single node retrieved by a query.
type SearchResult struct {
	Node *Node `json:"node"`
	// Score is the similarity of the node to the query.
	Score float64 `json:"score"`
	// Hops is the link distance from the similarity seeds at which the
	// node was first discovered. Seeds have hop 0.
	Hops int `json:"hops"`
	// Method is the search path that produced the result.
	Method RetrievalMethod `json:"method"`
}

// Comparison holds the results of a similarity and a traversal query for
// the same input, with the symmetric difference of their result ids.
type Comparison struct {
	Similarity []SearchResult `json:"similarity"`
	Traversal  []SearchResult `json:"traversal"`
	// Shared holds ids returned by both searches, SimilarityOnly and
	// TraversalOnly the ids only one of them returned. All sorted.
	Shared         []string `json:"shared"`
	SimilarityOnly []string `json:"similarity_only"`
	TraversalOnly  []string `json:"traversal_only"`

	SimilarityElapsed time.Duration `json:"similarity_elapsed"`
	TraversalElapsed  time.Duration `json:"traversal_elapsed"`
}
