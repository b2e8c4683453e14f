package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/siherrmann/linker"
	"github.com/siherrmann/linker/core/pipeline"
	"github.com/siherrmann/linker/helper"
	"github.com/siherrmann/linker/model"
	"github.com/spf13/cobra"
)

// record is the JSON shape accepted by the ingest command.
type record struct {
	ID        string       `json:"id"`
	Text      string       `json:"text"`
	Embedding []float32    `json:"embedding,omitempty"`
	Tags      model.TagSet `json:"tags,omitempty"`
}

var (
	embeddingDim int

	rootCmd = &cobra.Command{
		Use:   "linker",
		Short: "Graph-vector retrieval over Postgres",
		Long: `Linker stores embedded text nodes in Postgres, derives links between
nodes from shared tags and answers queries either by plain vector
similarity or by graph traversal with diversity-aware reranking.

Database access is configured through DB_HOST, DB_PORT, DB_DATABASE,
DB_USERNAME, DB_PASSWORD and DB_SCHEMA (a .env file is picked up).`,
	}

	ingestFile  string
	ingestReset bool

	ingestCmd = &cobra.Command{
		Use:   "ingest",
		Short: "Ingest nodes from a JSON file",
		Long: `Ingest reads a JSON array of records with id, text, optional embedding
and optional tags. Records without an embedding are embedded with the
default model, which is downloaded on first use.`,
		RunE: runIngest,
	}

	searchQuery string
	searchTopK  int

	searchCmd = &cobra.Command{
		Use:   "search",
		Short: "Search nodes by vector similarity",
		RunE:  runSearch,
	}

	compareQuery      string
	compareTopK       int
	compareDepth      int
	compareLambda     float64
	compareCandidates int

	compareCmd = &cobra.Command{
		Use:   "compare",
		Short: "Compare similarity search against graph traversal",
		RunE:  runCompare,
	}

	graphCmd = &cobra.Command{
		Use:   "graph",
		Short: "Render the tag-derived link graph",
		RunE:  runGraph,
	}
)

func init() {
	rootCmd.PersistentFlags().IntVar(&embeddingDim, "dim", 384, "Embedding dimension of the node store")

	ingestCmd.Flags().StringVar(&ingestFile, "file", "", "Path to a JSON file with records to ingest")
	ingestCmd.Flags().BoolVar(&ingestReset, "reset", false, "Delete all stored nodes before ingesting")
	ingestCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(ingestCmd)

	searchCmd.Flags().StringVar(&searchQuery, "query", "", "Query text")
	searchCmd.Flags().IntVar(&searchTopK, "top-k", model.DefaultTopK, "Number of results")
	searchCmd.MarkFlagRequired("query")
	rootCmd.AddCommand(searchCmd)

	compareCmd.Flags().StringVar(&compareQuery, "query", "", "Query text")
	compareCmd.Flags().IntVar(&compareTopK, "top-k", model.DefaultTopK, "Number of results")
	compareCmd.Flags().IntVar(&compareDepth, "depth", model.DefaultMaxDepth, "Maximum traversal depth")
	compareCmd.Flags().Float64Var(&compareLambda, "lambda", model.DefaultLambda, "Relevance-diversity tradeoff within [0, 1]")
	compareCmd.Flags().IntVar(&compareCandidates, "max-candidates", model.DefaultMaxCandidates, "Candidate pool cap for traversal")
	compareCmd.MarkFlagRequired("query")
	rootCmd.AddCommand(compareCmd)

	rootCmd.AddCommand(graphCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// connect opens a persistent Linker from the environment configuration.
func connect() (*linker.Linker, error) {
	dbConfig, err := helper.NewDatabaseConfiguration()
	if err != nil {
		return nil, err
	}

	return linker.NewPersistentLinker(dbConfig, embeddingDim)
}

func runIngest(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(ingestFile)
	if err != nil {
		return fmt.Errorf("read %s: %w", ingestFile, err)
	}

	var records []record
	if err := json.Unmarshal(data, &records); err != nil {
		return fmt.Errorf("parse %s: %w", ingestFile, err)
	}

	// Wipe before connecting, so the store hydrates from an empty table
	if ingestReset {
		wipe, err := connect()
		if err != nil {
			return err
		}
		deleted, err := wipe.Nodes.DeleteAllNodes()
		wipe.Close()
		if err != nil {
			return err
		}
		fmt.Printf("Deleted %d nodes\n", deleted)
	}

	l, err := connect()
	if err != nil {
		return err
	}
	defer l.Close()

	// Embed records without an embedding with the default model
	var embedder pipeline.EmbedFunc
	for i := range records {
		if len(records[i].Embedding) > 0 {
			continue
		}
		if embedder == nil {
			embedder, err = pipeline.DefaultEmbedder()
			if err != nil {
				return fmt.Errorf("create default embedder: %w", err)
			}
		}
		records[i].Embedding, err = embedder(records[i].Text)
		if err != nil {
			return fmt.Errorf("embed record %d: %w", i, err)
		}
	}

	nodes := make([]*model.Node, 0, len(records))
	for _, r := range records {
		nodes = append(nodes, &model.Node{
			ID:        r.ID,
			Text:      r.Text,
			Embedding: r.Embedding,
			Metadata:  r.Tags,
		})
	}

	inserted, err := l.AddNodes(nodes)
	if err != nil {
		return fmt.Errorf("inserted %d of %d nodes: %w", inserted, len(nodes), err)
	}

	color.Green("Inserted %d nodes", inserted)
	return nil
}

func runSearch(cmd *cobra.Command, args []string) error {
	l, err := connect()
	if err != nil {
		return err
	}
	defer l.Close()

	if err := l.UseDefaultPipeline(); err != nil {
		return err
	}

	results, err := l.Search(context.Background(), searchQuery, searchTopK)
	if err != nil {
		return err
	}

	printResults(results)
	return nil
}

func runCompare(cmd *cobra.Command, args []string) error {
	l, err := connect()
	if err != nil {
		return err
	}
	defer l.Close()

	if err := l.UseDefaultPipeline(); err != nil {
		return err
	}

	config := model.DefaultQueryConfig()
	config.TopK = compareTopK
	config.MaxDepth = compareDepth
	config.Lambda = compareLambda
	config.MaxCandidates = compareCandidates

	comparison, err := l.Compare(context.Background(), compareQuery, config)
	if err != nil {
		return err
	}

	color.New(color.FgCyan, color.Bold).Println("Similarity results")
	printResults(comparison.Similarity)
	fmt.Println()

	color.New(color.FgCyan, color.Bold).Println("Traversal results")
	printResults(comparison.Traversal)
	fmt.Println()

	fmt.Printf("Shared: %v\n", comparison.Shared)
	fmt.Printf("Similarity only: %v\n", comparison.SimilarityOnly)
	fmt.Printf("Traversal only: %v\n", comparison.TraversalOnly)
	fmt.Printf("Similarity took %s, traversal took %s\n", comparison.SimilarityElapsed, comparison.TraversalElapsed)
	return nil
}

func runGraph(cmd *cobra.Command, args []string) error {
	l, err := connect()
	if err != nil {
		return err
	}
	defer l.Close()

	index, err := l.Graph()
	if err != nil {
		return err
	}

	if err := index.RenderLinksTable(os.Stdout); err != nil {
		return err
	}
	fmt.Println()
	return index.RenderTagTree(os.Stdout)
}

func printResults(results []model.SearchResult) {
	for i, result := range results {
		fmt.Printf("--- Result %d: %s ---\n", i+1, result.Node.ID)
		fmt.Printf("Score: %.4f (hops: %d, method: %s)\n", result.Score, result.Hops, result.Method)
		fmt.Printf("Text: %s\n", result.Node.Text)
	}
}
