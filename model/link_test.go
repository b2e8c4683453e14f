package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewLink(t *testing.T) {
	t.Run("Normalizes endpoint order", func(t *testing.T) {
		tag := Tag{Key: "topic", Value: "graphs"}
		link := NewLink("b", "a", tag)
		assert.Equal(t, "a", link.Source, "Expected smaller id as source")
		assert.Equal(t, "b", link.Target, "Expected larger id as target")
		assert.Equal(t, NewLink("a", "b", tag), link, "Expected same link regardless of argument order")
	})
}

func TestLinkOther(t *testing.T) {
	link := NewLink("a", "b", Tag{Key: "topic", Value: "graphs"})

	t.Run("Returns opposite endpoint", func(t *testing.T) {
		other, ok := link.Other("a")
		assert.True(t, ok, "Expected a to be an endpoint")
		assert.Equal(t, "b", other, "Expected opposite endpoint")

		other, ok = link.Other("b")
		assert.True(t, ok, "Expected b to be an endpoint")
		assert.Equal(t, "a", other, "Expected opposite endpoint")
	})

	t.Run("Reports non endpoint", func(t *testing.T) {
		_, ok := link.Other("c")
		assert.False(t, ok, "Expected c to not be an endpoint")
	})
}

func TestLinkString(t *testing.T) {
	t.Run("Formats link with endpoints and tag", func(t *testing.T) {
		link := NewLink("a", "b", Tag{Key: "topic", Value: "graphs"})
		assert.Equal(t, "a -- b (topic=graphs)", link.String(), "Expected formatted link")
	})
}
