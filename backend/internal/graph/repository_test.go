package graph

import (
	"context"
	"os"
	"testing"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRepository requires a running Neo4j instance
// Set NEO4J_URI, NEO4J_USER, NEO4J_PASSWORD environment variables
// The database is wiped, so point it at a scratch instance.
func TestRepository_RoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx := context.Background()
	driver, err := createTestDriver()
	if err != nil {
		t.Skipf("Neo4j not reachable: %v", err)
	}
	repo := NewRepository(driver)
	defer repo.Close()

	require.NoError(t, repo.EnsureConstraints(ctx))
	require.NoError(t, repo.Reset(ctx))
	defer func() { _ = repo.Reset(ctx) }()

	sample := SampleData()
	for _, n := range sample.Nodes {
		if err := repo.AddNode(ctx, n); err != nil {
			t.Fatalf("AddNode(%s) failed: %v", n.ID, err)
		}
	}
	for _, e := range sample.Edges {
		if err := repo.AddEdge(ctx, e); err != nil {
			t.Fatalf("AddEdge(%s) failed: %v", e, err)
		}
	}

	data, err := repo.LoadGraph(ctx)
	require.NoError(t, err)
	assert.Len(t, data.Nodes, len(sample.Nodes))
	assert.Len(t, data.Edges, len(sample.Edges))

	store, err := NewStore(data)
	require.NoError(t, err)
	n, ok := store.Node("a2")
	require.True(t, ok)
	assert.True(t, sample.Nodes[8].Equal(n))
	assert.ElementsMatch(t, []string{"c1", "c2", "a1", "ac1"}, ids(store.Neighbors("p1")))
}

func TestRepository_AddEdgeMissingEndpoint(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx := context.Background()
	driver, err := createTestDriver()
	if err != nil {
		t.Skipf("Neo4j not reachable: %v", err)
	}
	repo := NewRepository(driver)
	defer repo.Close()

	require.NoError(t, repo.Reset(ctx))
	require.NoError(t, repo.AddNode(ctx, Node{ID: "only", Label: "Only", Type: NodeTypeAgent}))
	defer func() { _ = repo.Reset(ctx) }()

	err = repo.AddEdge(ctx, Edge{Source: "only", Target: "ghost", Type: "knows"})
	var notFound ErrNodeNotFound
	assert.ErrorAs(t, err, &notFound)
}

func TestRepository_AddNodeRejectsUnsafeInput(t *testing.T) {
	// validation runs before any session is opened, so no database is needed
	repo := &Repository{}

	err := repo.AddNode(context.Background(), Node{ID: "x}) DETACH DELETE (n", Type: NodeTypeAgent})
	var invalidID ErrInvalidNodeID
	assert.ErrorAs(t, err, &invalidID)

	err = repo.AddNode(context.Background(), Node{ID: "x", Type: "Agent:Admin"})
	var invalidType ErrInvalidNodeType
	assert.ErrorAs(t, err, &invalidType)
}

func TestTypeLabel(t *testing.T) {
	assert.Equal(t, "Person", typeLabel(NodeTypePerson))
	assert.Equal(t, "Conversation", typeLabel(NodeTypeConversation))
	assert.Equal(t, "Unknown", typeLabel(""))
}

func TestMetadataEncoding(t *testing.T) {
	raw, err := encodeMetadata(nil)
	require.NoError(t, err)
	assert.Empty(t, raw)

	m := Metadata{"status": String("Draft"), "owner": Map(Metadata{"team": String("core")})}
	raw, err = encodeMetadata(m)
	require.NoError(t, err)

	decoded, err := decodeMetadata(raw)
	require.NoError(t, err)
	assert.True(t, m.Equal(decoded))

	_, err = decodeMetadata("{not json")
	assert.Error(t, err)
}

func createTestDriver() (neo4j.DriverWithContext, error) {
	uri := getenv("NEO4J_URI", "bolt://localhost:7687")
	user := getenv("NEO4J_USER", "neo4j")
	password := getenv("NEO4J_PASSWORD", "password")

	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(user, password, ""))
	if err != nil {
		return nil, err
	}

	// Verify connection
	ctx := context.Background()
	if err := driver.VerifyConnectivity(ctx); err != nil {
		driver.Close(ctx)
		return nil, err
	}

	return driver, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
