// Package pipeline turns raw text into retrievable nodes. A pipeline
// chunks text, embeds every chunk and derives metadata tags, which the
// link index later connects nodes by.
package pipeline

import (
	"fmt"

	"github.com/siherrmann/linker/model"
)

// ChunkFunc splits text into chunks.
type ChunkFunc func(text string) ([]string, error)

// EmbedFunc generates the embedding for a text.
type EmbedFunc func(text string) ([]float32, error)

// TagExtractFunc derives metadata tags from a node's text. The returned
// tags are merged into the node's metadata.
type TagExtractFunc func(node *model.Node) (model.TagSet, error)

// Pipeline combines chunking, embedding and tag extraction.
type Pipeline struct {
	Chunker  ChunkFunc
	Embedder EmbedFunc
	Taggers  []TagExtractFunc
}

// NewPipeline creates a new processing pipeline. The chunker is optional,
// without one the whole text becomes a single node.
func NewPipeline(chunker ChunkFunc, embedder EmbedFunc, taggers ...TagExtractFunc) *Pipeline {
	return &Pipeline{
		Chunker:  chunker,
		Embedder: embedder,
		Taggers:  taggers,
	}
}

// AddTagger appends a tag extraction function to the pipeline.
func (p *Pipeline) AddTagger(tagger TagExtractFunc) {
	p.Taggers = append(p.Taggers, tagger)
}

// Process chunks the text and turns every chunk into a node carrying the
// base tags plus the tags the pipeline extracts. Node ids are left empty
// for the caller to assign.
func (p *Pipeline) Process(text string, base model.TagSet) ([]*model.Node, error) {
	if p.Embedder == nil {
		return nil, fmt.Errorf("pipeline embedder is not set")
	}

	chunks := []string{text}
	if p.Chunker != nil {
		var err error
		chunks, err = p.Chunker(text)
		if err != nil {
			return nil, fmt.Errorf("chunk text: %w", err)
		}
	}

	nodes := make([]*model.Node, 0, len(chunks))
	for _, chunk := range chunks {
		node, err := p.ProcessChunk(chunk, base)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

// ProcessChunk embeds a single chunk and runs all taggers over it.
func (p *Pipeline) ProcessChunk(text string, base model.TagSet) (*model.Node, error) {
	if p.Embedder == nil {
		return nil, fmt.Errorf("pipeline embedder is not set")
	}

	embedding, err := p.Embedder(text)
	if err != nil {
		return nil, fmt.Errorf("embed text: %w", err)
	}

	node := &model.Node{
		Text:      text,
		Embedding: embedding,
		Metadata:  base.Clone(),
	}
	for _, tagger := range p.Taggers {
		tags, err := tagger(node)
		if err != nil {
			return nil, fmt.Errorf("extract tags: %w", err)
		}
		node.Metadata.Merge(tags)
	}
	return node, nil
}
