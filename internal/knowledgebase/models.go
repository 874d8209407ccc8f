// internal/knowledgebase/models.go
package knowledgebase

// ChunkingStrategy selects how the service splits documents into
// retrievable units during ingestion.
type ChunkingStrategy string

const (
	// ChunkingFixed splits into fixed-size token windows with overlap.
	ChunkingFixed ChunkingStrategy = "fixed"
	// ChunkingSemantic splits at embedding-similarity breakpoints.
	ChunkingSemantic ChunkingStrategy = "semantic"
	// ChunkingHierarchical builds parent/child chunk levels.
	ChunkingHierarchical ChunkingStrategy = "hierarchical"
	// ChunkingNone ingests pre-chunked objects as-is; pair with the
	// client-side chunker package.
	ChunkingNone ChunkingStrategy = "none"
)

// ChunkingSpec carries the per-strategy knobs. Only the section matching
// Strategy is read.
type ChunkingSpec struct {
	Strategy ChunkingStrategy

	Fixed struct {
		MaxTokens      int32
		OverlapPercent int32
	}

	Semantic struct {
		MaxTokens            int32
		BufferSize           int32
		BreakpointPercentile int32
	}

	Hierarchical struct {
		ParentMaxTokens int32
		ChildMaxTokens  int32
		OverlapTokens   int32
	}
}

// DefaultFixedChunking mirrors the service's defaults.
func DefaultFixedChunking() ChunkingSpec {
	spec := ChunkingSpec{Strategy: ChunkingFixed}
	spec.Fixed.MaxTokens = 300
	spec.Fixed.OverlapPercent = 20
	return spec
}

// KnowledgeBaseInfo is the unwrapped create response.
type KnowledgeBaseInfo struct {
	ID     string
	ARN    string
	Status string
}

// DataSourceInfo is the unwrapped data-source create response.
type DataSourceInfo struct {
	ID     string
	Status string
}

// IngestionResult summarizes a finished ingestion job.
type IngestionResult struct {
	JobID            string
	Status           string
	DocumentsScanned int64
	DocumentsIndexed int64
	DocumentsFailed  int64
	FailureReasons   []string
}
