package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/siherrmann/linker"
	"github.com/siherrmann/linker/model"
)

// The sample nodes use hand-written 3-dimensional embeddings, so the
// example runs without any model download. Tags drive the link graph:
// nodes sharing a tag pair are linked.
var sampleNodes = []*model.Node{
	{
		ID:        "mars",
		Text:      "Mars is the fourth planet and a target for crewed missions.",
		Embedding: []float32{1, 0, 0},
		Metadata: model.NewTagSet(
			model.Tag{Key: "category", Value: "space"},
			model.Tag{Key: "agency", Value: "nasa"},
		),
	},
	{
		ID:        "moon",
		Text:      "The moon is earth's only natural satellite.",
		Embedding: []float32{0.8, 0.6, 0},
		Metadata: model.NewTagSet(
			model.Tag{Key: "category", Value: "space"},
			model.Tag{Key: "agency", Value: "nasa"},
		),
	},
	{
		ID:        "comet",
		Text:      "Comets are icy bodies that grow tails near the sun.",
		Embedding: []float32{0.6, 0.8, 0},
		Metadata: model.NewTagSet(
			model.Tag{Key: "category", Value: "space"},
		),
	},
	{
		ID:        "reef",
		Text:      "Coral reefs host a quarter of all marine species.",
		Embedding: []float32{0, 0, 1},
		Metadata: model.NewTagSet(
			model.Tag{Key: "category", Value: "ocean"},
		),
	},
	{
		ID:        "trench",
		Text:      "The Mariana trench is the deepest part of the ocean.",
		Embedding: []float32{0, 0.3, 0.95},
		Metadata: model.NewTagSet(
			model.Tag{Key: "category", Value: "ocean"},
		),
	},
}

func main() {
	l, err := linker.NewLinker(3)
	if err != nil {
		log.Fatalf("Failed to create linker: %v", err)
	}

	fmt.Println("Ingesting nodes...")
	inserted, err := l.AddNodes(sampleNodes)
	if err != nil {
		log.Fatalf("Failed to insert nodes: %v", err)
	}
	fmt.Printf("Inserted %d nodes\n", inserted)

	// Build and render the tag-derived link graph
	index, err := l.Graph()
	if err != nil {
		log.Fatalf("Failed to build link index: %v", err)
	}

	fmt.Println()
	if err := index.RenderLinksTable(os.Stdout); err != nil {
		log.Fatalf("Failed to render links: %v", err)
	}
	fmt.Println()
	if err := index.RenderTagTree(os.Stdout); err != nil {
		log.Fatalf("Failed to render tag tree: %v", err)
	}

	// A query pointing at mars
	query := []float32{1, 0, 0}
	ctx := context.Background()

	fmt.Println("\nSimilarity search:")
	results, err := l.SearchEmbedding(ctx, query, 3)
	if err != nil {
		log.Fatalf("Failed to search: %v", err)
	}
	printResults(results)

	fmt.Println("\nTraversal search:")
	config := model.DefaultQueryConfig()
	config.TopK = 3
	traversal, err := l.TraversalSearchEmbedding(ctx, query, config)
	if err != nil {
		log.Fatalf("Failed to traverse: %v", err)
	}
	printResults(traversal)

	// Compare both methods side by side
	comparison, err := l.CompareEmbedding(ctx, query, config)
	if err != nil {
		log.Fatalf("Failed to compare: %v", err)
	}

	fmt.Println("\nComparison:")
	fmt.Printf("Shared: %v\n", comparison.Shared)
	fmt.Printf("Similarity only: %v\n", comparison.SimilarityOnly)
	fmt.Printf("Traversal only: %v\n", comparison.TraversalOnly)
	fmt.Printf("Similarity took %s, traversal took %s\n", comparison.SimilarityElapsed, comparison.TraversalElapsed)

	fmt.Println("\nBasic example completed successfully!")
}

func printResults(results []model.SearchResult) {
	for i, result := range results {
		fmt.Printf("--- Result %d ---\n", i+1)
		fmt.Printf("Score: %.4f (hops: %d, method: %s)\n", result.Score, result.Hops, result.Method)
		fmt.Printf("Text: %s\n", result.Node.Text)
	}
}
