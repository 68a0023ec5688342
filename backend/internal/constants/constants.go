package constants

import "enterprise-brain/backend/internal/graph"

// NodeTypeInfo describes how a node type is presented
type NodeTypeInfo struct {
	Type        graph.NodeType `json:"type"`
	Label       string         `json:"label"`
	Color       string         `json:"color"`
	Icon        string         `json:"icon"`
	Description string         `json:"description"`
}

// NodeTypes is the display catalogue, in filter-menu order
var NodeTypes = []NodeTypeInfo{
	{Type: graph.NodeTypePerson, Label: "People", Color: "#00d4ff", Icon: "User", Description: "Employees and team members"},
	{Type: graph.NodeTypeConversation, Label: "Conversations", Color: "#10b981", Icon: "MessageSquare", Description: "Slack, Teams, meetings, discussions"},
	{Type: graph.NodeTypeArtifact, Label: "Artifacts", Color: "#f97316", Icon: "FileText", Description: "Documents, specs, reports, code"},
	{Type: graph.NodeTypeAgent, Label: "Agents", Color: "#8b5cf6", Icon: "Bot", Description: "AI assistants and automated systems"},
	{Type: graph.NodeTypeAction, Label: "Actions", Color: "#ef4444", Icon: "Zap", Description: "Tasks, decisions, workflows, approvals"},
}

// InfoFor returns the catalogue entry for t
func InfoFor(t graph.NodeType) (NodeTypeInfo, bool) {
	for _, info := range NodeTypes {
		if info.Type == t {
			return info, true
		}
	}
	return NodeTypeInfo{}, false
}

// Ingestion constants
const (
	// IngestAgent is recorded on nodes created from raw text when no agent is given
	IngestAgent = "AI"
	// IngestEdgeType links each ingested sentence to the one before it
	IngestEdgeType = "depends_on"
	// MaxIngestBytes bounds a fetched page body
	MaxIngestBytes = 2 << 20
	// MaxIngestRequestBytes bounds the JSON body of an ingest request
	MaxIngestRequestBytes = 256 << 10
)

// SeedAgent marks nodes written by the seed command
const SeedAgent = "seed"
