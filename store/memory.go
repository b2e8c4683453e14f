// Package store holds the in memory node store queries run against.
package store

import (
	"fmt"
	"iter"
	"slices"
	"sync"
	"time"

	"github.com/siherrmann/linker/metrics"
	"github.com/siherrmann/linker/model"
)

// MemoryStore keeps nodes in memory, indexed by id and in insertion order.
// It is safe for concurrent use. All nodes share one embedding dimension,
// fixed at construction.
type MemoryStore struct {
	mu        sync.RWMutex
	dimension int
	nodes     map[string]*model.Node
	order     []string
}

// NewMemoryStore creates a store for embeddings of the given dimension.
func NewMemoryStore(dimension int) (*MemoryStore, error) {
	if dimension <= 0 {
		return nil, fmt.Errorf("%w: embedding dimension must be positive, got %d", model.ErrValidation, dimension)
	}
	return &MemoryStore{
		dimension: dimension,
		nodes:     map[string]*model.Node{},
		order:     []string{},
	}, nil
}

// Insert adds a node to the store. The node is copied, so the caller can
// keep modifying its own instance. A zero CreatedAt is set to now.
func (s *MemoryStore) Insert(node *model.Node) error {
	err := node.Validate()
	if err != nil {
		return err
	}
	if len(node.Embedding) != s.dimension {
		return fmt.Errorf("%w: expected %d, got %d", model.ErrDimensionMismatch, s.dimension, len(node.Embedding))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.nodes[node.ID]; ok {
		return fmt.Errorf("%w: %s", model.ErrDuplicateID, node.ID)
	}

	stored := *node
	stored.Embedding = slices.Clone(node.Embedding)
	stored.Metadata = node.Metadata.Clone()
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now()
	}

	s.nodes[stored.ID] = &stored
	s.order = append(s.order, stored.ID)
	metrics.NodesTotal.Inc()
	return nil
}

// InsertAll inserts the given nodes in order and stops at the first
// failure. It returns the number of nodes inserted.
func (s *MemoryStore) InsertAll(nodes []*model.Node) (int, error) {
	for i, node := range nodes {
		err := s.Insert(node)
		if err != nil {
			return i, fmt.Errorf("insert node %d: %w", i, err)
		}
	}
	return len(nodes), nil
}

// Node returns the node with the given id.
func (s *MemoryStore) Node(id string) (*model.Node, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	node, ok := s.nodes[id]
	if !ok {
		return nil, fmt.Errorf("%w: node %s", model.ErrNotFound, id)
	}
	return node, nil
}

// NodeIDs returns an iterator over all node ids in insertion order. The
// iterator works on a snapshot, so inserts during iteration do not show
// up, and it can be restarted any number of times.
func (s *MemoryStore) NodeIDs() iter.Seq[string] {
	return func(yield func(string) bool) {
		s.mu.RLock()
		ids := slices.Clone(s.order)
		s.mu.RUnlock()

		for _, id := range ids {
			if !yield(id) {
				return
			}
		}
	}
}

// Len returns the number of nodes in the store.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// Dimension returns the embedding dimension of the store.
func (s *MemoryStore) Dimension() int {
	return s.dimension
}
