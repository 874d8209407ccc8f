// internal/agents/models.go
package agents

// Collaborator is one hosted agent the supervisor can delegate to.
type Collaborator struct {
	Name    string
	AgentID string
	AliasID string

	// Keywords route an input to this collaborator when any of them
	// appears in the lowercased input. Empty means catch-all.
	Keywords []string
}

// Turn is one delegated exchange.
type Turn struct {
	Collaborator string `json:"collaborator"`
	Input        string `json:"input"`
	Output       string `json:"output"`
}

// Conversation is the result of an orchestrated run.
type Conversation struct {
	SessionID string `json:"sessionId"`
	Turns     []Turn `json:"turns"`
	Final     string `json:"final"`
}
