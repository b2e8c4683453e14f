package model

import (
	"fmt"
	"math"
)

// Defaults for QueryConfig.
const (
	DefaultTopK          = 5
	DefaultMaxDepth      = 2
	DefaultLambda        = 0.5
	DefaultMaxCandidates = 100
)

// QueryConfig holds the tunable parameters of a retrieval query.
type QueryConfig struct {
	// TopK is the number of results to return.
	TopK int `json:"top_k"`
	// MaxDepth is the number of link hops to expand from the similarity
	// seeds. Zero disables graph expansion.
	MaxDepth int `json:"max_depth"`
	// MaxCandidates caps the candidate pool of a traversal query. Zero or
	// negative falls back to DefaultMaxCandidates.
	MaxCandidates int `json:"max_candidates"`
	// Lambda balances relevance against diversity in the final selection.
	// 1 is pure relevance, 0 is pure diversity.
	Lambda float64 `json:"lambda"`
	// ScoreThreshold drops candidates scoring below it. Defaults to -Inf,
	// which keeps everything.
	ScoreThreshold float64 `json:"score_threshold"`
}

// DefaultQueryConfig returns a config with sensible defaults.
func DefaultQueryConfig() *QueryConfig {
	return &QueryConfig{
		TopK:           DefaultTopK,
		MaxDepth:       DefaultMaxDepth,
		MaxCandidates:  DefaultMaxCandidates,
		Lambda:         DefaultLambda,
		ScoreThreshold: math.Inf(-1),
	}
}

// Validate checks the config for values the engine cannot work with.
func (c *QueryConfig) Validate() error {
	if c.TopK <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidK, c.TopK)
	}
	if c.MaxDepth < 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidDepth, c.MaxDepth)
	}
	if math.IsNaN(c.Lambda) || c.Lambda < 0 || c.Lambda > 1 {
		return fmt.Errorf("%w: got %v", ErrInvalidLambda, c.Lambda)
	}
	return nil
}
