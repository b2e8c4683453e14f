package pipeline

import (
	"testing"

	"github.com/siherrmann/linker/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntityTagger(t *testing.T) {
	// Note: EntityTagger uses hugot which requires downloading models
	// This test will download the distilbert-NER model if not already present
	t.Run("Create entity tagger", func(t *testing.T) {
		tagger, err := EntityTagger()
		require.NoError(t, err)
		assert.NotNil(t, tagger)
	})

	t.Run("Tag persons and locations", func(t *testing.T) {
		tagger, err := EntityTagger()
		require.NoError(t, err)

		node := &model.Node{
			ID:   "node1",
			Text: "My name is Wolfgang and I live in Berlin.",
		}
		tags, err := tagger(node)
		assert.NoError(t, err)
		assert.NotNil(t, tags)

		// Should detect at least Wolfgang (person) and Berlin (location)
		for _, pair := range tags.Pairs() {
			t.Logf("  - %s", pair)
		}
		if len(tags["person"]) > 0 {
			assert.Contains(t, tags["person"], "Wolfgang")
		}
		if len(tags["location"]) > 0 {
			assert.Contains(t, tags["location"], "Berlin")
		}
	})

	t.Run("Tag organizations", func(t *testing.T) {
		tagger, err := EntityTagger()
		require.NoError(t, err)

		node := &model.Node{
			ID:   "node1",
			Text: "Apple Inc. is headquartered in Cupertino, California.",
		}
		tags, err := tagger(node)
		assert.NoError(t, err)
		assert.NotNil(t, tags)

		for _, pair := range tags.Pairs() {
			t.Logf("  - %s", pair)
		}
	})

	t.Run("Handle empty text", func(t *testing.T) {
		tagger, err := EntityTagger()
		require.NoError(t, err)

		node := &model.Node{ID: "node1", Text: ""}
		tags, err := tagger(node)
		assert.NoError(t, err)
		assert.True(t, len(tags.Pairs()) == 0)
	})

	t.Run("Handle text without entities", func(t *testing.T) {
		tagger, err := EntityTagger()
		require.NoError(t, err)

		node := &model.Node{
			ID:   "node1",
			Text: "This is a simple sentence without any named entities.",
		}
		tags, err := tagger(node)
		assert.NoError(t, err)
		t.Logf("Detected %d tags (expected 0 or few)", len(tags.Pairs()))
	})
}

func TestNormalizeEntityType(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"B-PER", "PER"},
		{"I-PER", "PER"},
		{"B-LOC", "LOC"},
		{"I-LOC", "LOC"},
		{"B-ORG", "ORG"},
		{"I-ORG", "ORG"},
		{"MISC", "MISC"},
		{"O", "O"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := normalizeEntityType(tt.input)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestEntityTagKey(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"PER", "person"},
		{"ORG", "organization"},
		{"LOC", "location"},
		{"MISC", "misc"},
		{"UNKNOWN", "misc"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := entityTagKey(tt.input)
			assert.Equal(t, tt.expected, result)
		})
	}
}
