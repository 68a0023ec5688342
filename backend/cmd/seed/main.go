package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"enterprise-brain/backend/internal/constants"
	"enterprise-brain/backend/internal/graph"
	"enterprise-brain/backend/pkg/config"
	"enterprise-brain/backend/pkg/logger"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"
)

func main() {
	force := flag.Bool("force", false, "Replace a non-empty graph")
	dataset := flag.String("dataset", "", "JSON or YAML dataset to load instead of the sample graph")
	timeout := flag.Duration("timeout", 2*time.Minute, "Overall timeout")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load configuration: %v", err))
	}
	if err := logger.Init(cfg.Env, cfg.LogLevel); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Sync()
	log := logger.Get()

	data := graph.SampleData()
	if *dataset != "" {
		data, err = graph.LoadFile(*dataset)
		if err != nil {
			log.Fatal("Failed to read dataset", zap.String("path", *dataset), zap.Error(err))
		}
	}
	// Reject inconsistent datasets before touching the database
	if _, err := graph.NewStore(data); err != nil {
		log.Fatal("Dataset is inconsistent", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	driver, err := neo4j.NewDriverWithContext(
		cfg.Neo4jURI,
		neo4j.BasicAuth(cfg.Neo4jUser, cfg.Neo4jPassword, ""),
	)
	if err != nil {
		log.Fatal("Failed to create Neo4j driver", zap.Error(err))
	}
	repo := graph.NewRepository(driver)
	defer repo.Close()

	if err := repo.Ping(ctx); err != nil {
		log.Fatal("Failed to verify Neo4j connectivity", zap.Error(err))
	}
	if err := repo.EnsureConstraints(ctx); err != nil {
		log.Fatal("Failed to create constraints", zap.Error(err))
	}

	existing, err := repo.LoadGraph(ctx)
	if err != nil {
		log.Fatal("Failed to read current graph", zap.Error(err))
	}
	if len(existing.Nodes) > 0 && !*force {
		log.Fatal("Graph is not empty, rerun with -force to replace it", zap.Int("nodes", len(existing.Nodes)))
	}
	if err := repo.Reset(ctx); err != nil {
		log.Fatal("Failed to reset graph", zap.Error(err))
	}

	for _, n := range tagSeeded(data.Nodes) {
		if err := repo.AddNode(ctx, n); err != nil {
			log.Fatal("Failed to write node", zap.String("node_id", n.ID), zap.Error(err))
		}
	}
	written := 0
	for _, e := range data.Edges {
		if err := repo.AddEdge(ctx, e); err != nil {
			log.Warn("Skipping edge", zap.String("edge", e.String()), zap.Error(err))
			continue
		}
		written++
	}

	log.Info("Seed inserted",
		zap.Int("nodes", len(data.Nodes)),
		zap.Int("edges", written),
	)
}

// tagSeeded records the seeding agent on nodes that carry none
func tagSeeded(nodes []graph.Node) []graph.Node {
	out := make([]graph.Node, len(nodes))
	for i, n := range nodes {
		n.Metadata = n.Metadata.Clone()
		if _, ok := n.Metadata["agent"]; !ok {
			if n.Metadata == nil {
				n.Metadata = graph.Metadata{}
			}
			n.Metadata["agent"] = graph.String(constants.SeedAgent)
		}
		out[i] = n
	}
	return out
}
