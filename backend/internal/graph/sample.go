package graph

// SampleData returns the enterprise demo graph: four people, three
// conversations, four artifacts, three agents and three actions.
func SampleData() Data {
	meta := func(kv ...string) Metadata {
		m := make(Metadata, len(kv)/2)
		for i := 0; i+1 < len(kv); i += 2 {
			m[kv[i]] = String(kv[i+1])
		}
		return m
	}
	edge := func(source, target, relation string) Edge {
		return Edge{Source: source, Target: target, Type: relation}
	}

	return Data{
		Nodes: []Node{
			{ID: "p1", Label: "Alice Chen", Type: NodeTypePerson, Metadata: meta("role", "Product Manager", "department", "Product")},
			{ID: "p2", Label: "Bob Smith", Type: NodeTypePerson, Metadata: meta("role", "Tech Lead", "department", "Engineering")},
			{ID: "p3", Label: "Carol White", Type: NodeTypePerson, Metadata: meta("role", "Designer", "department", "Design")},
			{ID: "p4", Label: "David Lee", Type: NodeTypePerson, Metadata: meta("role", "Data Analyst", "department", "Analytics")},

			{ID: "c1", Label: "Q2 Planning", Type: NodeTypeConversation, Metadata: meta("channel", "Slack", "date", "2025-01-10")},
			{ID: "c2", Label: "Feature Review", Type: NodeTypeConversation, Metadata: meta("channel", "Teams", "date", "2025-01-12")},
			{ID: "c3", Label: "Design Sync", Type: NodeTypeConversation, Metadata: meta("channel", "Slack", "date", "2025-01-14")},

			{ID: "a1", Label: "PRD: New Dashboard", Type: NodeTypeArtifact, Metadata: meta("type", "Document", "status", "Draft")},
			{ID: "a2", Label: "API Spec v2", Type: NodeTypeArtifact, Metadata: meta("type", "Technical Doc", "status", "Approved")},
			{ID: "a3", Label: "Design Mockups", Type: NodeTypeArtifact, Metadata: meta("type", "Figma", "status", "In Review")},
			{ID: "a4", Label: "Analytics Report", Type: NodeTypeArtifact, Metadata: meta("type", "Report", "status", "Published")},

			{ID: "ag1", Label: "Code Reviewer", Type: NodeTypeAgent, Metadata: meta("model", "GPT-4", "task", "Code Review")},
			{ID: "ag2", Label: "Doc Assistant", Type: NodeTypeAgent, Metadata: meta("model", "Gemini", "task", "Documentation")},
			{ID: "ag3", Label: "Data Analyzer", Type: NodeTypeAgent, Metadata: meta("model", "Claude", "task", "Analytics")},

			{ID: "ac1", Label: "Approve Release", Type: NodeTypeAction, Metadata: meta("status", "Pending", "priority", "High")},
			{ID: "ac2", Label: "Update KPIs", Type: NodeTypeAction, Metadata: meta("status", "In Progress", "priority", "Medium")},
			{ID: "ac3", Label: "Review Design", Type: NodeTypeAction, Metadata: meta("status", "Completed", "priority", "High")},
		},
		Edges: []Edge{
			// who took part in which conversation
			edge("p1", "c1", "participated"),
			edge("p2", "c1", "participated"),
			edge("p1", "c2", "participated"),
			edge("p3", "c3", "participated"),

			edge("c1", "a1", "generated"),
			edge("c2", "a2", "referenced"),
			edge("c3", "a3", "created"),

			edge("p1", "a1", "authored"),
			edge("p2", "a2", "authored"),
			edge("p3", "a3", "authored"),
			edge("p4", "a4", "authored"),

			edge("ag1", "a2", "reviewed"),
			edge("ag2", "a1", "assisted"),
			edge("ag3", "a4", "analyzed"),

			edge("ac1", "a2", "requires"),
			edge("ac2", "a4", "updates"),
			edge("ac3", "a3", "reviews"),

			edge("p1", "ac1", "assigned"),
			edge("p4", "ac2", "assigned"),
			edge("p3", "ac3", "completed"),

			edge("a1", "a4", "references"),
			edge("c1", "ac1", "initiated"),
			edge("ag3", "ac2", "recommends"),
		},
	}
}
