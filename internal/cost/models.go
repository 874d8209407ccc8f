// internal/cost/models.go
package cost

import "time"

// ModelUsage is the token consumption of one model over the report window.
type ModelUsage struct {
	ModelID      string  `json:"modelId"`
	InputTokens  float64 `json:"inputTokens"`
	OutputTokens float64 `json:"outputTokens"`
	CostUSD      float64 `json:"costUsd"`
}

// Report is a priced usage summary for a time window.
type Report struct {
	WindowStart time.Time    `json:"windowStart"`
	WindowEnd   time.Time    `json:"windowEnd"`
	Models      []ModelUsage `json:"models"`
	TotalUSD    float64      `json:"totalUsd"`
}
