package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"enterprise-brain/backend/pkg/logger"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Repository handles all Neo4j database operations
type Repository struct {
	driver neo4j.DriverWithContext
	logger *zap.Logger
}

// NewRepository creates a new graph repository
func NewRepository(driver neo4j.DriverWithContext) *Repository {
	return &Repository{
		driver: driver,
		logger: logger.Get(),
	}
}

// Close closes the Neo4j driver connection
func (r *Repository) Close() error {
	return r.driver.Close(context.Background())
}

// Ping checks that the database is reachable
func (r *Repository) Ping(ctx context.Context) error {
	return r.driver.VerifyConnectivity(ctx)
}

// EnsureConstraints creates the node id uniqueness constraint
func (r *Repository) EnsureConstraints(ctx context.Context) error {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	query := `CREATE CONSTRAINT brain_node_id IF NOT EXISTS FOR (n:BrainNode) REQUIRE n.id IS UNIQUE`
	result, err := session.Run(ctx, query, nil)
	if err != nil {
		return fmt.Errorf("failed to create constraint: %w", err)
	}
	if _, err := result.Consume(ctx); err != nil {
		return fmt.Errorf("failed to create constraint: %w", err)
	}
	return nil
}

// LoadGraph reads every node and relation. Nodes and edges are fetched
// concurrently on separate sessions.
func (r *Repository) LoadGraph(ctx context.Context) (Data, error) {
	var data Data
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		nodes, err := r.loadNodes(gctx)
		if err != nil {
			return err
		}
		data.Nodes = nodes
		return nil
	})
	g.Go(func() error {
		edges, err := r.loadEdges(gctx)
		if err != nil {
			return err
		}
		data.Edges = edges
		return nil
	})

	if err := g.Wait(); err != nil {
		return Data{}, err
	}

	r.logger.Debug("Graph loaded from Neo4j",
		zap.Int("nodes", len(data.Nodes)),
		zap.Int("edges", len(data.Edges)),
	)
	return data, nil
}

func (r *Repository) loadNodes(ctx context.Context) ([]Node, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	query := `
		MATCH (n:BrainNode)
		RETURN n.id as id, n.label as label, n.type as type, n.metadata as metadata
		ORDER BY n.created_at, n.id
	`

	result, err := session.Run(ctx, query, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load nodes: %w", err)
	}

	nodes := []Node{}
	for result.Next(ctx) {
		record := result.Record()
		n := Node{
			ID:    getStringFromRecord(record, "id"),
			Label: getStringFromRecord(record, "label"),
			Type:  NodeType(getStringFromRecord(record, "type")),
		}
		meta, err := decodeMetadata(getStringFromRecord(record, "metadata"))
		if err != nil {
			r.logger.Warn("Skipping unreadable node metadata",
				zap.String("node_id", n.ID),
				zap.Error(err),
			)
		}
		n.Metadata = meta
		nodes = append(nodes, n)
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("failed to read nodes: %w", err)
	}
	return nodes, nil
}

func (r *Repository) loadEdges(ctx context.Context) ([]Edge, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	query := `
		MATCH (a:BrainNode)-[r:RELATES]->(b:BrainNode)
		RETURN a.id as source, b.id as target, r.type as type, r.strength as strength
		ORDER BY r.created_at, a.id, b.id
	`

	result, err := session.Run(ctx, query, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load edges: %w", err)
	}

	edges := []Edge{}
	for result.Next(ctx) {
		record := result.Record()
		e := Edge{
			Source: getStringFromRecord(record, "source"),
			Target: getStringFromRecord(record, "target"),
			Type:   getStringFromRecord(record, "type"),
		}
		if strength, ok := getOptionalFloat64FromRecord(record, "strength"); ok {
			e.Strength = &strength
		}
		edges = append(edges, e)
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("failed to read edges: %w", err)
	}
	return edges, nil
}

// AddNode creates or updates a node. The node type becomes a secondary label.
func (r *Repository) AddNode(ctx context.Context, n Node) error {
	if err := ValidateNode(n); err != nil {
		return err
	}

	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	metadata, err := encodeMetadata(n.Metadata)
	if err != nil {
		return err
	}

	// the label comes from the validated node type, never from client text
	query := fmt.Sprintf(`
		MERGE (n:BrainNode {id: $id})
		ON CREATE SET n.created_at = datetime()
		SET n:%s,
		    n.label = $label,
		    n.type = $type,
		    n.metadata = $metadata,
		    n.updated_at = datetime()
		RETURN n.id as id
	`, typeLabel(n.Type))

	result, err := session.Run(ctx, query, map[string]interface{}{
		"id":       n.ID,
		"label":    n.Label,
		"type":     string(n.Type),
		"metadata": metadata,
	})
	if err != nil {
		return fmt.Errorf("failed to add node: %w", err)
	}
	if _, err := result.Single(ctx); err != nil {
		return fmt.Errorf("failed to verify node creation: %w", err)
	}

	r.logger.Info("Node stored",
		zap.String("node_id", n.ID),
		zap.String("type", string(n.Type)),
	)
	return nil
}

// AddEdge creates a relation between two existing nodes
func (r *Repository) AddEdge(ctx context.Context, e Edge) error {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	query := `
		MATCH (a:BrainNode {id: $source}), (b:BrainNode {id: $target})
		MERGE (a)-[r:RELATES {type: $type}]->(b)
		ON CREATE SET r.created_at = datetime()
		SET r.strength = $strength
		RETURN a.id as source
	`

	var strength interface{}
	if e.Strength != nil {
		strength = *e.Strength
	}

	result, err := session.Run(ctx, query, map[string]interface{}{
		"source":   e.Source,
		"target":   e.Target,
		"type":     e.Type,
		"strength": strength,
	})
	if err != nil {
		return fmt.Errorf("failed to add edge: %w", err)
	}
	if !result.Next(ctx) {
		if err := result.Err(); err != nil {
			return fmt.Errorf("failed to add edge: %w", err)
		}
		return ErrNodeNotFound{NodeID: e.Source + " or " + e.Target}
	}

	r.logger.Info("Edge stored", zap.String("edge", e.String()))
	return nil
}

// Reset deletes every node and relation
func (r *Repository) Reset(ctx context.Context) error {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	result, err := session.Run(ctx, `MATCH (n:BrainNode) DETACH DELETE n`, nil)
	if err != nil {
		return fmt.Errorf("failed to reset graph: %w", err)
	}
	if _, err := result.Consume(ctx); err != nil {
		return fmt.Errorf("failed to reset graph: %w", err)
	}

	r.logger.Warn("Graph reset: all nodes deleted")
	return nil
}

func typeLabel(t NodeType) string {
	s := string(t)
	if s == "" {
		return "Unknown"
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Neo4j properties cannot hold nested maps, so metadata is stored as JSON text
func encodeMetadata(m Metadata) (string, error) {
	if len(m) == 0 {
		return "", nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("failed to encode metadata: %w", err)
	}
	return string(b), nil
}

func decodeMetadata(raw string) (Metadata, error) {
	if raw == "" {
		return nil, nil
	}
	var m Metadata
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return nil, err
	}
	return m, nil
}

// Errors

type ErrNodeNotFound struct {
	NodeID string
}

func (e ErrNodeNotFound) Error() string {
	return fmt.Sprintf("node not found: %s", e.NodeID)
}
