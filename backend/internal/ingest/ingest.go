package ingest

import (
	"errors"
	"strings"

	"enterprise-brain/backend/internal/constants"
	"enterprise-brain/backend/internal/graph"
)

// ErrEmptyText is returned when there is nothing to ingest
var ErrEmptyText = errors.New("no sentences found in text")

// SplitSentences breaks text on '.' and drops empty fragments
func SplitSentences(text string) []string {
	parts := strings.Split(text, ".")
	sentences := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.Join(strings.Fields(p), " "); s != "" {
			sentences = append(sentences, s)
		}
	}
	return sentences
}

// PlanText turns each sentence into an action node and chains them so that
// every sentence depends on the one before it
func PlanText(text, agent string, newID graph.IDFunc) (graph.Plan, error) {
	sentences := SplitSentences(text)
	if len(sentences) == 0 {
		return graph.Plan{}, ErrEmptyText
	}
	if agent == "" {
		agent = constants.IngestAgent
	}

	plan := graph.Plan{
		Nodes: make([]graph.Node, 0, len(sentences)),
		Edges: make([]graph.Edge, 0, len(sentences)-1),
	}
	for i, sentence := range sentences {
		n := graph.Node{
			ID:    newID("task"),
			Label: sentence,
			Type:  graph.NodeTypeAction,
			Metadata: graph.Metadata{
				"agent": graph.String(agent),
			},
		}
		plan.Nodes = append(plan.Nodes, n)
		if i > 0 {
			plan.Edges = append(plan.Edges, graph.Edge{
				Source: n.ID,
				Target: plan.Nodes[i-1].ID,
				Type:   constants.IngestEdgeType,
			})
		}
	}
	return plan, nil
}
