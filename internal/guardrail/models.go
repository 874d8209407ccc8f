// internal/guardrail/models.go
package guardrail

// Spec declares a content-safety policy to be enforced server-side.
type Spec struct {
	Name        string
	Description string

	// DeniedTopics are refused in both directions.
	DeniedTopics []Topic

	// ContentFilters set per-category strengths.
	ContentFilters []ContentFilter

	// BlockedWords are matched literally; ProfanityList additionally
	// enables the managed profanity list.
	BlockedWords  []string
	ProfanityList bool

	BlockedInputMessage  string
	BlockedOutputMessage string
}

type Topic struct {
	Name       string
	Definition string
	Examples   []string
}

// ContentFilter strength values follow the service enum: NONE, LOW,
// MEDIUM, HIGH.
type ContentFilter struct {
	Category       string
	InputStrength  string
	OutputStrength string
}

// Info is the unwrapped guardrail create response.
type Info struct {
	ID      string
	ARN     string
	Version string
}

// ModelReply is the unwrapped direct-invocation response.
type ModelReply struct {
	Text         string
	StopReason   string
	Intervened   bool
	InputTokens  int32
	OutputTokens int32
}
