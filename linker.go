package linker

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/google/uuid"
	"github.com/siherrmann/linker/core/graph"
	"github.com/siherrmann/linker/core/pipeline"
	"github.com/siherrmann/linker/core/retrieval"
	"github.com/siherrmann/linker/database"
	"github.com/siherrmann/linker/helper"
	"github.com/siherrmann/linker/model"
	loadSql "github.com/siherrmann/linker/sql"
	"github.com/siherrmann/linker/store"
)

// linkSourceFunc adapts a function to the retrieval.LinkSource interface.
type linkSourceFunc func(id string) []model.Link

func (f linkSourceFunc) EdgesFor(id string) []model.Link {
	return f(id)
}

// Linker provides a unified interface to the store, the link index and the
// retrieval engine. The database handler is optional and only set when the
// Linker was created with NewPersistentLinker.
type Linker struct {
	Store    *store.MemoryStore
	DB       *helper.Database
	Nodes    *database.NodesDBHandler
	Pipeline *pipeline.Pipeline // Optional processing pipeline
	Engine   *retrieval.Engine  // Retrieval engine for similarity and traversal search
	// Link index state, rebuilt lazily after inserts
	mu    sync.RWMutex
	graph *graph.LinkIndex
	// Logging
	log *slog.Logger
}

// NewLinker creates a new in-memory Linker instance
func NewLinker(embeddingDim int) (*Linker, error) {
	// Logger
	opts := helper.PrettyHandlerOptions{
		SlogOpts: slog.HandlerOptions{
			Level: slog.LevelInfo,
		},
	}
	logger := slog.New(helper.NewPrettyHandler(os.Stdout, opts))

	memory, err := store.NewMemoryStore(embeddingDim)
	if err != nil {
		return nil, helper.NewError("create memory store", err)
	}

	l := &Linker{
		Store: memory,
		log:   logger,
	}
	l.Engine = retrieval.NewEngine(memory, linkSourceFunc(l.edgesFor))

	return l, nil
}

// NewPersistentLinker creates a Linker backed by Postgres. All persisted
// nodes are loaded into the in-memory store, and every insert through the
// Linker is written to the database as well.
func NewPersistentLinker(config *helper.DatabaseConfiguration, embeddingDim int) (*Linker, error) {
	l, err := NewLinker(embeddingDim)
	if err != nil {
		return nil, err
	}

	// Initialize database
	db := helper.NewDatabase("linker", config, l.log)
	err = loadSql.Init(db.Instance)
	if err != nil {
		return nil, helper.NewError("initialize database extensions", err)
	}

	// force=false to not reload if functions already exist
	nodes, err := database.NewNodesDBHandler(db, embeddingDim, false)
	if err != nil {
		return nil, helper.NewError("create nodes handler", err)
	}

	loaded, err := nodes.LoadStore(l.Store)
	if err != nil {
		return nil, helper.NewError("hydrate store", err)
	}

	l.DB = db
	l.Nodes = nodes
	l.log.Info("Hydrated store from database", slog.Int("nodes", loaded))

	return l, nil
}

// Close closes the database connection
func (l *Linker) Close() error {
	if l.DB != nil && l.DB.Instance != nil {
		return l.DB.Instance.Close()
	}
	return nil
}

// SetPipeline sets the processing pipeline for text ingestion
func (l *Linker) SetPipeline(pipeline *pipeline.Pipeline) {
	l.Pipeline = pipeline
}

// UseDefaultPipeline sets up the default chunking, embedding and tagging
// pipeline. This uses SentenceChunker with 5 sentences per chunk,
// DefaultEmbedder with the all-MiniLM-L6-v2 model (384 dimensions) and
// KeywordTagger with the top 5 keywords per node.
func (l *Linker) UseDefaultPipeline() error {
	chunker := pipeline.SentenceChunker(5)
	embedder, err := pipeline.DefaultEmbedder()
	if err != nil {
		return helper.NewError("create default embedder", err)
	}

	l.Pipeline = pipeline.NewPipeline(chunker, embedder, pipeline.KeywordTagger(5))
	return nil
}

// AddNode inserts a node into the store and, for persistent Linkers, into
// the database. The link index is invalidated and rebuilt on the next
// traversal search.
func (l *Linker) AddNode(node *model.Node) error {
	if l.Nodes != nil {
		if err := l.Nodes.InsertNode(node); err != nil {
			return err
		}
	}

	if err := l.Store.Insert(node); err != nil {
		return err
	}

	l.invalidateGraph()
	return nil
}

// AddNodes inserts nodes one by one, stopping at the first failure.
// It returns the number of nodes inserted.
func (l *Linker) AddNodes(nodes []*model.Node) (int, error) {
	for i, node := range nodes {
		if err := l.AddNode(node); err != nil {
			return i, fmt.Errorf("insert node %d: %w", i, err)
		}
	}
	return len(nodes), nil
}

// AddText processes a single text through the pipeline into one node with
// a generated id and inserts it.
func (l *Linker) AddText(text string, tags model.TagSet) (*model.Node, error) {
	if l.Pipeline == nil {
		return nil, helper.NewError("process text", fmt.Errorf("pipeline not set, use SetPipeline() first"))
	}

	node, err := l.Pipeline.ProcessChunk(text, tags)
	if err != nil {
		return nil, helper.NewError("process text", err)
	}
	node.ID = uuid.NewString()

	if err := l.AddNode(node); err != nil {
		return nil, err
	}

	return node, nil
}

// AddDocument chunks a document through the pipeline and inserts one node
// per chunk. Every node carries a shared doc tag, so all chunks of the
// same document end up linked to each other.
// Returns the inserted nodes.
func (l *Linker) AddDocument(text string, base model.TagSet) ([]*model.Node, error) {
	if l.Pipeline == nil {
		return nil, helper.NewError("process document", fmt.Errorf("pipeline not set, use SetPipeline() first"))
	}

	if text == "" {
		return nil, helper.NewError("process document", fmt.Errorf("document text is empty"))
	}

	docTag := uuid.NewString()
	tagged := base.Clone()
	tagged.Add("doc", docTag)

	nodes, err := l.Pipeline.Process(text, tagged)
	if err != nil {
		return nil, helper.NewError("process document", err)
	}

	for i, node := range nodes {
		node.ID = fmt.Sprintf("%s-%d", docTag, i)
	}

	if _, err := l.AddNodes(nodes); err != nil {
		return nil, helper.NewError("insert document nodes", err)
	}

	l.log.Info("Processed document into nodes", slog.Int("num_nodes", len(nodes)), slog.String("doc", docTag))

	return nodes, nil
}

// Graph returns the link index, building it from the current store
// contents if no index exists yet.
func (l *Linker) Graph() (*graph.LinkIndex, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.graph != nil {
		return l.graph, nil
	}

	index, err := graph.BuildLinkIndex(l.Store)
	if err != nil {
		return nil, helper.NewError("build link index", err)
	}
	l.graph = index

	l.log.Info("Built link index", slog.Int("links", index.Len()), slog.Int("linked_nodes", index.NodeCount()))

	return index, nil
}

// invalidateGraph drops the link index so the next traversal rebuilds it.
func (l *Linker) invalidateGraph() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.graph = nil
}

// edgesFor serves the retrieval engine. Before the index is built it
// reports no links, so similarity search works without a graph.
func (l *Linker) edgesFor(id string) []model.Link {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.graph == nil {
		return nil
	}
	return l.graph.EdgesFor(id)
}

// Search performs vector similarity search for a text query
func (l *Linker) Search(ctx context.Context, query string, k int) ([]model.SearchResult, error) {
	embedding, err := l.embedQuery(query)
	if err != nil {
		return nil, err
	}

	return l.SearchEmbedding(ctx, embedding, k)
}

// SearchEmbedding performs vector similarity search for a query embedding
func (l *Linker) SearchEmbedding(ctx context.Context, embedding []float32, k int) ([]model.SearchResult, error) {
	return l.Engine.Similarity(ctx, embedding, k)
}

// TraversalSearch performs graph-expanded search for a text query
func (l *Linker) TraversalSearch(ctx context.Context, query string, config *model.QueryConfig) ([]model.SearchResult, error) {
	embedding, err := l.embedQuery(query)
	if err != nil {
		return nil, err
	}

	return l.TraversalSearchEmbedding(ctx, embedding, config)
}

// TraversalSearchEmbedding performs graph-expanded search for a query embedding
func (l *Linker) TraversalSearchEmbedding(ctx context.Context, embedding []float32, config *model.QueryConfig) ([]model.SearchResult, error) {
	if _, err := l.Graph(); err != nil {
		return nil, err
	}

	return l.Engine.Traverse(ctx, embedding, config)
}

// Compare runs similarity and traversal search side by side for a text
// query and reports where the two methods diverge.
func (l *Linker) Compare(ctx context.Context, query string, config *model.QueryConfig) (*model.Comparison, error) {
	embedding, err := l.embedQuery(query)
	if err != nil {
		return nil, err
	}

	return l.CompareEmbedding(ctx, embedding, config)
}

// CompareEmbedding runs similarity and traversal search side by side for a
// query embedding.
func (l *Linker) CompareEmbedding(ctx context.Context, embedding []float32, config *model.QueryConfig) (*model.Comparison, error) {
	if _, err := l.Graph(); err != nil {
		return nil, err
	}

	return l.Engine.Compare(ctx, embedding, config)
}

// ChangeIndexType changes the vector index type between HNSW and IVFFlat
func (l *Linker) ChangeIndexType(ctx context.Context, indexType string, params map[string]interface{}) error {
	if l.Nodes == nil {
		return helper.NewError("change index type", fmt.Errorf("no database configured"))
	}
	return l.Nodes.ChangeIndexType(ctx, indexType, params)
}

// embedQuery generates an embedding for a text query through the pipeline
func (l *Linker) embedQuery(query string) ([]float32, error) {
	if l.Pipeline == nil || l.Pipeline.Embedder == nil {
		return nil, helper.NewError("generate embedding", fmt.Errorf("pipeline with embedder not set, use SetPipeline() first"))
	}

	embedding, err := l.Pipeline.Embedder(query)
	if err != nil {
		return nil, helper.NewError("generate embedding", err)
	}

	return embedding, nil
}
