package brain

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"enterprise-brain/backend/internal/graph"
	"enterprise-brain/backend/internal/ingest"
	brainerrors "enterprise-brain/backend/pkg/errors"
	"enterprise-brain/backend/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Backend persists the graph. Both the Neo4j repository and MemoryBackend
// satisfy it.
type Backend interface {
	LoadGraph(ctx context.Context) (graph.Data, error)
	AddNode(ctx context.Context, n graph.Node) error
	AddEdge(ctx context.Context, e graph.Edge) error
	Reset(ctx context.Context) error
	Ping(ctx context.Context) error
}

// Narrator turns an explanation into prose
type Narrator interface {
	Narrate(ctx context.Context, exp graph.Explanation) (string, error)
}

// PageFetcher downloads a page and returns its readable text
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// NarrationTimeout bounds one narration including retries
const NarrationTimeout = 30 * time.Second

// Options configures optional collaborators of the service
type Options struct {
	EnrichLimit int
	Narrator    Narrator
	Fetcher     PageFetcher
	NewID       graph.IDFunc
}

// Service serves reads from an immutable store snapshot and routes writes to
// the backend. Every successful write reloads the backend into a fresh
// snapshot; readers holding the previous snapshot are unaffected.
type Service struct {
	backend Backend
	store   atomic.Pointer[graph.Store]
	writeMu sync.Mutex
	opts    Options
	logger  *zap.Logger
}

// NewService loads the backend once and returns a ready service
func NewService(ctx context.Context, backend Backend, opts Options) (*Service, error) {
	if opts.NewID == nil {
		opts.NewID = NewNodeID
	}
	if opts.EnrichLimit <= 0 {
		opts.EnrichLimit = graph.DefaultEnrichLimit
	}

	s := &Service{
		backend: backend,
		opts:    opts,
		logger:  logger.Get(),
	}
	if err := s.Refresh(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// NewNodeID returns prefix followed by eight random hex characters
func NewNodeID(prefix string) string {
	return fmt.Sprintf("%s-%s", prefix, uuid.New().String()[:8])
}

// Refresh rebuilds the store snapshot from the backend
func (s *Service) Refresh(ctx context.Context) error {
	data, err := s.backend.LoadGraph(ctx)
	if err != nil {
		return brainerrors.NewGraphQueryFailed("load graph", err)
	}
	store, err := graph.NewStore(data)
	if err != nil {
		return brainerrors.NewGraphInconsistent(err)
	}

	if dangling := store.DanglingEdges(); len(dangling) > 0 {
		s.logger.Warn("Dataset contains edges with missing endpoints; they are hidden from views",
			zap.Int("count", len(dangling)),
			zap.String("first", dangling[0].String()),
		)
	}

	s.store.Store(store)
	s.logger.Debug("Store snapshot refreshed",
		zap.Int("nodes", store.Len()),
		zap.Int("edges", len(data.Edges)),
	)
	return nil
}

// Store returns the current snapshot
func (s *Service) Store() *graph.Store {
	return s.store.Load()
}

// View filters the current snapshot
func (s *Service) View(q graph.QueryState) graph.GraphView {
	return graph.Filter(s.Store(), q)
}

// Detail returns a node with its neighbours and directed edges
func (s *Service) Detail(id string) (graph.Detail, bool) {
	return s.Store().Detail(id)
}

// Neighbors returns the nodes adjacent to id
func (s *Service) Neighbors(id string) []graph.Node {
	return s.Store().Neighbors(id)
}

// Stats returns node, edge and per-type totals
func (s *Service) Stats() graph.Stats {
	return s.Store().Stats()
}

// Explain returns the causal paths leading into id
func (s *Service) Explain(id string) graph.Explanation {
	return graph.Explain(s.Store(), id, graph.ExplainOptions{})
}

// Narrate explains id and asks the narrator to summarise the result
func (s *Service) Narrate(ctx context.Context, id string) (graph.Explanation, string, error) {
	exp := s.Explain(id)
	if !exp.Found {
		return exp, "", brainerrors.NewNodeNotFound(id)
	}
	if s.opts.Narrator == nil {
		return exp, "", brainerrors.ErrNarrationUnavailable
	}
	ctx, cancel := context.WithTimeout(ctx, NarrationTimeout)
	defer cancel()

	text, err := s.opts.Narrator.Narrate(ctx, exp)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return exp, "", brainerrors.NewContextTimeout("narrate", NarrationTimeout)
		}
		return exp, "", err
	}
	return exp, text, nil
}

// AddNode validates and writes a node
func (s *Service) AddNode(ctx context.Context, n graph.Node) (graph.Node, error) {
	if err := graph.ValidateNode(n); err != nil {
		return graph.Node{}, brainerrors.NewInvalidInput("node", err)
	}
	if err := s.apply(ctx, "add node", graph.Plan{Nodes: []graph.Node{n}}); err != nil {
		return graph.Node{}, err
	}
	return n, nil
}

// AddEdge writes an edge between two existing nodes
func (s *Service) AddEdge(ctx context.Context, e graph.Edge) (graph.Edge, error) {
	for _, id := range []string{e.Source, e.Target} {
		if err := graph.ValidateID(id); err != nil {
			return graph.Edge{}, brainerrors.NewInvalidInput("edge endpoint", err)
		}
		if !s.Store().Has(id) {
			return graph.Edge{}, brainerrors.NewNodeNotFound(id)
		}
	}
	if err := s.apply(ctx, "add edge", graph.Plan{Edges: []graph.Edge{e}}); err != nil {
		return graph.Edge{}, err
	}
	return e, nil
}

// IngestText turns sentences into chained action nodes
func (s *Service) IngestText(ctx context.Context, text, agent string) (graph.Plan, error) {
	plan, err := ingest.PlanText(text, agent, s.opts.NewID)
	if err != nil {
		return graph.Plan{}, brainerrors.NewInvalidInput("text", err)
	}
	if err := s.apply(ctx, "ingest text", plan); err != nil {
		return graph.Plan{}, err
	}
	s.logger.Info("Text ingested", zap.Int("nodes", len(plan.Nodes)))
	return plan, nil
}

// IngestURL fetches a page and ingests its text
func (s *Service) IngestURL(ctx context.Context, url, agent string) (graph.Plan, error) {
	if s.opts.Fetcher == nil {
		return graph.Plan{}, brainerrors.NewIngestFailed(url, errors.New("page fetching is disabled"))
	}
	text, err := s.opts.Fetcher.Fetch(ctx, url)
	if err != nil {
		return graph.Plan{}, brainerrors.NewIngestFailed(url, err)
	}
	return s.IngestText(ctx, text, agent)
}

// Enrich assigns placeholder people to unassigned actions. Planning and
// writing happen under the write lock so concurrent calls never assign the
// same action twice.
func (s *Service) Enrich(ctx context.Context) (graph.Plan, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	plan := graph.PlanEnrichment(s.Store(), s.opts.EnrichLimit, s.opts.NewID)
	if len(plan.Nodes) == 0 {
		return plan, nil
	}
	if err := s.applyLocked(ctx, "enrich", plan); err != nil {
		return graph.Plan{}, err
	}
	s.logger.Info("Graph enriched", zap.Int("nodes", len(plan.Nodes)))
	return plan, nil
}

// Reset deletes the whole graph
func (s *Service) Reset(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	return s.resetLocked(ctx)
}

// Seed replaces the graph with the sample dataset. No other write can land
// between the reset and the load.
func (s *Service) Seed(ctx context.Context) (graph.Stats, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.resetLocked(ctx); err != nil {
		return graph.Stats{}, err
	}
	sample := graph.SampleData()
	if err := s.applyLocked(ctx, "seed", graph.Plan{Nodes: sample.Nodes, Edges: sample.Edges}); err != nil {
		return graph.Stats{}, err
	}
	return s.Stats(), nil
}

func (s *Service) resetLocked(ctx context.Context) error {
	if err := s.backend.Reset(ctx); err != nil {
		return brainerrors.NewGraphQueryFailed("reset", err)
	}
	return s.Refresh(ctx)
}

// Health checks the backend
func (s *Service) Health(ctx context.Context) error {
	if err := s.backend.Ping(ctx); err != nil {
		return brainerrors.NewGraphConnectionFailed("backend", err)
	}
	return nil
}

// apply writes plan under the write lock
func (s *Service) apply(ctx context.Context, operation string, plan graph.Plan) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	return s.applyLocked(ctx, operation, plan)
}

// applyLocked writes nodes before edges, then refreshes the snapshot even when
// a write failed part way so that readers see what did land. The caller holds
// writeMu.
func (s *Service) applyLocked(ctx context.Context, operation string, plan graph.Plan) error {
	writeErr := s.write(ctx, plan)
	if err := s.Refresh(ctx); err != nil {
		s.logger.Error("Failed to refresh store after write",
			zap.String("operation", operation),
			zap.Error(err),
		)
		if writeErr == nil {
			return err
		}
	}
	if writeErr != nil {
		var notFound graph.ErrNodeNotFound
		if errors.As(writeErr, &notFound) {
			return brainerrors.NewNodeNotFound(notFound.NodeID)
		}
		var invalidID graph.ErrInvalidNodeID
		var invalidType graph.ErrInvalidNodeType
		if errors.As(writeErr, &invalidID) || errors.As(writeErr, &invalidType) {
			return brainerrors.NewInvalidInput("node", writeErr)
		}
		return brainerrors.NewGraphQueryFailed(operation, writeErr)
	}
	return nil
}

func (s *Service) write(ctx context.Context, plan graph.Plan) error {
	for _, n := range plan.Nodes {
		if err := s.backend.AddNode(ctx, n); err != nil {
			return err
		}
	}
	for _, e := range plan.Edges {
		if err := s.backend.AddEdge(ctx, e); err != nil {
			return err
		}
	}
	return nil
}
