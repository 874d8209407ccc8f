// internal/cost/pricing.go
package cost

// PriceTable maps model ids to USD per 1000 tokens. The static defaults
// track the public on-demand price sheet; config can override per model.
type PriceTable struct {
	InputPer1K  map[string]float64
	OutputPer1K map[string]float64
}

func DefaultPriceTable() PriceTable {
	return PriceTable{
		InputPer1K: map[string]float64{
			"anthropic.claude-3-haiku-20240307-v1:0":  0.00025,
			"anthropic.claude-3-sonnet-20240229-v1:0": 0.003,
			"amazon.titan-text-express-v1":            0.0002,
			"amazon.titan-embed-text-v2:0":            0.00002,
		},
		OutputPer1K: map[string]float64{
			"anthropic.claude-3-haiku-20240307-v1:0":  0.00125,
			"anthropic.claude-3-sonnet-20240229-v1:0": 0.015,
			"amazon.titan-text-express-v1":            0.0006,
			"amazon.titan-embed-text-v2:0":            0,
		},
	}
}

// Merge overlays non-empty config prices onto the defaults.
func (p PriceTable) Merge(input, output map[string]float64) PriceTable {
	for k, v := range input {
		p.InputPer1K[k] = v
	}
	for k, v := range output {
		p.OutputPer1K[k] = v
	}
	return p
}

// Cost prices a token count pair for one model. Unknown models price at
// zero so a report never fails on a new model id.
func (p PriceTable) Cost(modelID string, inputTokens, outputTokens float64) float64 {
	return inputTokens/1000*p.InputPer1K[modelID] + outputTokens/1000*p.OutputPer1K[modelID]
}
