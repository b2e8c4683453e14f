package model

import (
	"fmt"
	"time"
)

// Node is a single retrievable document with its embedding and tags.
type Node struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Embedding []float32 `json:"embedding"`
	Metadata  TagSet    `json:"metadata"`
	CreatedAt time.Time `json:"created_at"`
}

// Validate checks that the node is well formed for insertion.
func (n *Node) Validate() error {
	if n == nil {
		return fmt.Errorf("%w: node is nil", ErrValidation)
	}
	if len(n.ID) == 0 {
		return fmt.Errorf("%w: node id is empty", ErrValidation)
	}
	if len(n.Embedding) == 0 {
		return fmt.Errorf("%w: node %s has an empty embedding", ErrValidation, n.ID)
	}
	return nil
}
