// internal/retrieval/models.go
package retrieval

import "rag-workbench/internal/filter"

// Query is one retrieval request against a knowledge base.
type Query struct {
	KnowledgeBaseID string
	Text            string
	TopK            int
	Filter          filter.Expression
}

// Passage is one retrieved chunk, unwrapped for display.
type Passage struct {
	Text     string                 `json:"text"`
	Score    float64                `json:"score"`
	Source   string                 `json:"source,omitempty"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// GenerateRequest extends a Query with generation settings.
type GenerateRequest struct {
	Query

	ModelArn         string
	GuardrailID      string
	GuardrailVersion string
	PromptTemplate   string
	SessionID        string
	MaxTokens        int32
	Temperature      float32
}

// Citation ties a span of the generated answer back to its sources.
type Citation struct {
	Text     string                 `json:"text"`
	Source   string                 `json:"source,omitempty"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// Answer is the unwrapped retrieve-and-generate response.
type Answer struct {
	Text      string     `json:"text"`
	SessionID string     `json:"sessionId"`
	Citations []Citation `json:"citations,omitempty"`
}
