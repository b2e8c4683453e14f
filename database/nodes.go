package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
	"github.com/siherrmann/linker/helper"
	"github.com/siherrmann/linker/model"
	loadSql "github.com/siherrmann/linker/sql"
	"github.com/siherrmann/linker/store"
)

// NodesDBHandlerFunctions defines the interface for Nodes database operations.
type NodesDBHandlerFunctions interface {
	InsertNode(node *model.Node) error
	SelectNode(id string) (*model.Node, error)
	SelectAllNodes() ([]*model.Node, error)
	SelectAllNodeIDs() ([]string, error)
	SelectNodesBySimilarity(embedding []float32, limit int) ([]*model.Node, []float64, error)
	CountNodes() (int, error)
	DeleteAllNodes() (int, error)
	LoadStore(target *store.MemoryStore) (int, error)
}

// NodesDBHandler handles node-related database operations
type NodesDBHandler struct {
	db        *helper.Database
	dimension int
}

// NewNodesDBHandler creates a new nodes database handler.
// It initializes the database connection and loads node-related SQL functions.
// If force is true, it will reload the SQL functions even if they already exist.
func NewNodesDBHandler(db *helper.Database, embeddingDim int, force bool) (*NodesDBHandler, error) {
	if db == nil {
		return nil, helper.NewError("database connection validation", fmt.Errorf("database connection is nil"))
	}
	if embeddingDim <= 0 {
		return nil, helper.NewError("embedding dimension validation", fmt.Errorf("embedding dimension must be positive, got %d", embeddingDim))
	}

	nodesDbHandler := &NodesDBHandler{
		db:        db,
		dimension: embeddingDim,
	}

	err := loadSql.LoadNodesSql(nodesDbHandler.db.Instance, force)
	if err != nil {
		return nil, helper.NewError("load nodes sql", err)
	}

	err = nodesDbHandler.CreateTable(embeddingDim)
	if err != nil {
		return nil, helper.NewError("create table", err)
	}

	db.Logger.Info("Initialized NodesDBHandler")

	return nodesDbHandler, nil
}

// CreateTable creates the 'nodes' table in the database.
// If the table already exists, it does not create it again.
// It also creates all necessary extensions and indexes.
func (h *NodesDBHandler) CreateTable(embeddingDim int) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Use the SQL init_nodes() function to create the table and indexes
	_, err := h.db.Instance.ExecContext(ctx, `SELECT init_nodes($1);`, embeddingDim)
	if err != nil {
		log.Panicf("error initializing nodes table: %#v", err)
	}

	h.db.Logger.Info("Checked/created table nodes")

	return nil
}

// Dimension returns the embedding dimension the handler was created with.
func (h *NodesDBHandler) Dimension() int {
	return h.dimension
}

// InsertNode inserts a new node. The node's CreatedAt is set from the
// database. A duplicate id maps to model.ErrDuplicateID.
func (h *NodesDBHandler) InsertNode(node *model.Node) error {
	if err := node.Validate(); err != nil {
		return err
	}
	if len(node.Embedding) != h.dimension {
		return fmt.Errorf("%w: expected %d, got %d", model.ErrDimensionMismatch, h.dimension, len(node.Embedding))
	}

	row := h.db.Instance.QueryRow(
		`SELECT * FROM insert_node($1, $2, $3, $4)`,
		node.ID,
		node.Text,
		node.Metadata,
		pgvector.NewVector(node.Embedding),
	)

	err := row.Scan(&node.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return fmt.Errorf("%w: %s", model.ErrDuplicateID, node.ID)
		}
		return helper.NewError("scan", err)
	}

	return nil
}

// SelectNode retrieves a node by id
func (h *NodesDBHandler) SelectNode(id string) (*model.Node, error) {
	row := h.db.Instance.QueryRow(
		`SELECT * FROM select_node($1)`,
		id,
	)

	node := &model.Node{}
	var embedding pgvector.Vector
	err := row.Scan(
		&node.ID,
		&node.Text,
		&node.Metadata,
		&embedding,
		&node.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: node %s", model.ErrNotFound, id)
	}
	if err != nil {
		return nil, helper.NewError("scan", err)
	}
	node.Embedding = embedding.Slice()

	return node, nil
}

// SelectAllNodes retrieves all nodes in insertion order
func (h *NodesDBHandler) SelectAllNodes() ([]*model.Node, error) {
	rows, err := h.db.Instance.Query(
		`SELECT * FROM select_all_nodes()`,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	var nodes []*model.Node
	for rows.Next() {
		node := &model.Node{}

		var metadataJSON []byte
		var embedding pgvector.Vector
		err := rows.Scan(
			&node.ID,
			&node.Text,
			&metadataJSON,
			&embedding,
			&node.CreatedAt,
		)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}

		if err := json.Unmarshal(metadataJSON, &node.Metadata); err != nil {
			return nil, helper.NewError("unmarshaling metadata", err)
		}
		node.Embedding = embedding.Slice()

		nodes = append(nodes, node)
	}

	err = rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return nodes, nil
}

// SelectAllNodeIDs retrieves all node ids in insertion order
func (h *NodesDBHandler) SelectAllNodeIDs() ([]string, error) {
	rows, err := h.db.Instance.Query(
		`SELECT * FROM select_all_node_ids()`,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, helper.NewError("scan", err)
		}
		ids = append(ids, id)
	}

	err = rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return ids, nil
}

// SelectNodesBySimilarity retrieves the closest nodes by cosine similarity
// together with their similarity scores.
func (h *NodesDBHandler) SelectNodesBySimilarity(embedding []float32, limit int) ([]*model.Node, []float64, error) {
	if limit <= 0 {
		return nil, nil, fmt.Errorf("%w: got %d", model.ErrInvalidK, limit)
	}
	if len(embedding) != h.dimension {
		return nil, nil, fmt.Errorf("%w: query has %d dimensions, store has %d", model.ErrDimensionMismatch, len(embedding), h.dimension)
	}

	rows, err := h.db.Instance.Query(
		`SELECT * FROM select_nodes_by_similarity($1, $2)`,
		pgvector.NewVector(embedding),
		limit,
	)
	if err != nil {
		return nil, nil, helper.NewError("query", err)
	}
	defer rows.Close()

	var nodes []*model.Node
	var scores []float64
	for rows.Next() {
		node := &model.Node{}

		var metadataJSON []byte
		var nodeEmbedding pgvector.Vector
		var similarity float64
		err := rows.Scan(
			&node.ID,
			&node.Text,
			&metadataJSON,
			&nodeEmbedding,
			&node.CreatedAt,
			&similarity,
		)
		if err != nil {
			return nil, nil, helper.NewError("scan", err)
		}

		if err := json.Unmarshal(metadataJSON, &node.Metadata); err != nil {
			return nil, nil, helper.NewError("unmarshaling metadata", err)
		}
		node.Embedding = nodeEmbedding.Slice()

		nodes = append(nodes, node)
		scores = append(scores, similarity)
	}

	err = rows.Err()
	if err != nil {
		return nil, nil, helper.NewError("rows error", err)
	}

	return nodes, scores, nil
}

// CountNodes returns the number of stored nodes
func (h *NodesDBHandler) CountNodes() (int, error) {
	row := h.db.Instance.QueryRow(
		`SELECT * FROM count_nodes()`,
	)

	var count int
	err := row.Scan(&count)
	if err != nil {
		return 0, helper.NewError("scan", err)
	}

	return count, nil
}

// DeleteAllNodes removes all nodes and returns how many were deleted
func (h *NodesDBHandler) DeleteAllNodes() (int, error) {
	row := h.db.Instance.QueryRow(
		`SELECT * FROM delete_all_nodes()`,
	)

	var deleted int
	err := row.Scan(&deleted)
	if err != nil {
		return 0, helper.NewError("scan", err)
	}

	return deleted, nil
}

// LoadStore hydrates an in-memory store with all persisted nodes and
// returns how many were loaded.
func (h *NodesDBHandler) LoadStore(target *store.MemoryStore) (int, error) {
	nodes, err := h.SelectAllNodes()
	if err != nil {
		return 0, helper.NewError("select all nodes", err)
	}

	loaded, err := target.InsertAll(nodes)
	if err != nil {
		return loaded, helper.NewError("insert nodes", err)
	}

	return loaded, nil
}
