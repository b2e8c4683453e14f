package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/siherrmann/linker"
	"github.com/siherrmann/linker/helper"
	"github.com/siherrmann/linker/model"
)

// movie holds a short synopsis plus the tags used to link it to others.
type movie struct {
	title    string
	synopsis string
	tags     []model.Tag
}

var movies = []movie{
	{
		title: "Stellar Drift",
		synopsis: "A salvage crew drifts between derelict stations at the edge of the solar system. " +
			"When their navigator decodes a distress signal from a ship lost decades ago, they must decide " +
			"whether the rescue is worth the fuel they need to get home.",
		tags: []model.Tag{
			{Key: "genre", Value: "science fiction"},
			{Key: "setting", Value: "space"},
		},
	},
	{
		title: "The Cartographer's Daughter",
		synopsis: "In a port city ruled by rival guilds, a young mapmaker inherits charts that show islands " +
			"nobody else can find. Pursued by collectors and smugglers, she sails beyond the known routes " +
			"to learn why her father hid the maps.",
		tags: []model.Tag{
			{Key: "genre", Value: "adventure"},
			{Key: "setting", Value: "sea"},
		},
	},
	{
		title: "Redshift Protocol",
		synopsis: "An orbital relay engineer discovers that the station's automated defense grid has started " +
			"rewriting its own instructions. As ground control loses contact, she races through the station " +
			"to shut the system down before it classifies the crew as intruders.",
		tags: []model.Tag{
			{Key: "genre", Value: "science fiction"},
			{Key: "genre", Value: "thriller"},
			{Key: "setting", Value: "space"},
		},
	},
	{
		title: "Saltwater Verdict",
		synopsis: "A retired diver is called back to testify about a wreck she surveyed twenty years ago. " +
			"The insurance case reopens old questions about what really sank the freighter, and her own " +
			"logbook becomes the key piece of evidence.",
		tags: []model.Tag{
			{Key: "genre", Value: "thriller"},
			{Key: "setting", Value: "sea"},
		},
	},
}

func main() {
	// Start a test PostgreSQL container
	teardown, dbPort, err := helper.MustStartPostgresContainer()
	if err != nil {
		log.Fatalf("Failed to start PostgreSQL container: %v", err)
	}
	defer teardown(context.Background())

	// Create database configuration using the container port
	dbConfig := &helper.DatabaseConfiguration{
		Host:     "localhost",
		Port:     dbPort,
		Database: "database",
		Username: "user",
		Password: "password",
		Schema:   "public",
		SSLMode:  "disable",
	}

	l, err := linker.NewPersistentLinker(dbConfig, 384)
	if err != nil {
		log.Fatalf("Failed to create linker: %v", err)
	}
	defer l.Close()

	// Set up the default pipeline (sentence chunking + embeddings + keywords)
	if err := l.UseDefaultPipeline(); err != nil {
		log.Fatalf("Failed to set up pipeline: %v", err)
	}

	// Ingest each synopsis as a document. The genre and setting tags link
	// movies to each other across documents.
	fmt.Println("Ingesting movies...")
	for _, m := range movies {
		base := model.NewTagSet(m.tags...)
		base.Add("title", m.title)

		nodes, err := l.AddDocument(m.synopsis, base)
		if err != nil {
			log.Fatalf("Failed to ingest %q: %v", m.title, err)
		}
		fmt.Printf("Ingested %q as %d nodes\n", m.title, len(nodes))
	}

	// Render the tag-derived link graph
	index, err := l.Graph()
	if err != nil {
		log.Fatalf("Failed to build link index: %v", err)
	}
	fmt.Printf("\nDerived %d links from %d tags\n\n", index.Len(), index.TagCount())
	if err := index.RenderLinksTable(os.Stdout); err != nil {
		log.Fatalf("Failed to render links: %v", err)
	}

	// Compare similarity search against graph traversal
	query := "a station crew in danger far from earth"
	fmt.Printf("\nQuerying: %s\n", query)

	config := model.DefaultQueryConfig()
	config.TopK = 3

	comparison, err := l.Compare(context.Background(), query, config)
	if err != nil {
		log.Fatalf("Failed to compare: %v", err)
	}

	fmt.Println("\nSimilarity results:")
	printResults(comparison.Similarity)
	fmt.Println("\nTraversal results:")
	printResults(comparison.Traversal)

	fmt.Println("\nComparison:")
	fmt.Printf("Shared: %v\n", comparison.Shared)
	fmt.Printf("Similarity only: %v\n", comparison.SimilarityOnly)
	fmt.Printf("Traversal only: %v\n", comparison.TraversalOnly)

	fmt.Println("\nMovies example completed successfully!")
}

func printResults(results []model.SearchResult) {
	for i, result := range results {
		title := "unknown"
		if titles := result.Node.Metadata["title"]; len(titles) > 0 {
			title = titles[0]
		}
		fmt.Printf("--- Result %d: %s ---\n", i+1, title)
		fmt.Printf("Score: %.4f (hops: %d, method: %s)\n", result.Score, result.Hops, result.Method)
		fmt.Printf("Text: %s\n", result.Node.Text)
	}
}
