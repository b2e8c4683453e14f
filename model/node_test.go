package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNodeValidate(t *testing.T) {
	t.Run("Accepts well formed node", func(t *testing.T) {
		node := &Node{ID: "a", Text: "graphs", Embedding: []float32{0.1, 0.2}}
		assert.NoError(t, node.Validate(), "Expected no error for valid node")
	})

	t.Run("Rejects nil node", func(t *testing.T) {
		var node *Node
		err := node.Validate()
		assert.ErrorIs(t, err, ErrValidation, "Expected validation error for nil node")
	})

	t.Run("Rejects empty id", func(t *testing.T) {
		node := &Node{Embedding: []float32{0.1}}
		err := node.Validate()
		assert.ErrorIs(t, err, ErrValidation, "Expected validation error for empty id")
	})

	t.Run("Rejects empty embedding", func(t *testing.T) {
		node := &Node{ID: "a"}
		err := node.Validate()
		assert.ErrorIs(t, err, ErrValidation, "Expected validation error for empty embedding")
	})
}
