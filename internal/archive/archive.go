// Package archive keeps a local copy of retrieved passages in
// Elasticsearch so retrieval runs can be inspected and compared after the
// fact without re-querying the platform.
package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"rag-workbench/internal/common/errors"
	"rag-workbench/internal/common/logger"
	"rag-workbench/internal/retrieval"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"
)

// Entry is one archived passage, stamped with the query that produced it.
type Entry struct {
	RunID      string                 `json:"runId"`
	Query      string                 `json:"query"`
	KnowledgeB string                 `json:"knowledgeBaseId"`
	Text       string                 `json:"text"`
	Score      float64                `json:"score"`
	Source     string                 `json:"source,omitempty"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
	ArchivedAt time.Time              `json:"archivedAt"`
}

type Service struct {
	client *elasticsearch.Client
	index  string
	logger logger.Logger
}

func NewService(client *elasticsearch.Client, index string, log logger.Logger) *Service {
	if index == "" {
		index = "retrieval-archive"
	}
	return &Service{
		client: client,
		index:  index,
		logger: log.WithFields(map[string]interface{}{"component": "archive"}),
	}
}

// ArchiveRun indexes every passage of a retrieval run under a fresh run id
// and returns that id.
func (s *Service) ArchiveRun(ctx context.Context, kbID, query string, passages []retrieval.Passage) (string, error) {
	runID := uuid.NewString()
	now := time.Now().UTC()

	for i, p := range passages {
		entry := Entry{
			RunID:      runID,
			Query:      query,
			KnowledgeB: kbID,
			Text:       p.Text,
			Score:      p.Score,
			Source:     p.Source,
			Metadata:   p.Metadata,
			ArchivedAt: now,
		}

		body, err := json.Marshal(entry)
		if err != nil {
			return runID, err
		}

		req := esapi.IndexRequest{
			Index:      s.index,
			DocumentID: fmt.Sprintf("%s-%d", runID, i),
			Body:       bytes.NewReader(body),
		}
		res, err := req.Do(ctx, s.client)
		if err != nil {
			return runID, errors.Wrap(errors.ErrCodeArchiveFailed, "index archived passage", true, err)
		}
		res.Body.Close()
		if res.IsError() {
			return runID, errors.New(errors.ErrCodeArchiveFailed,
				fmt.Sprintf("index archived passage: %s", res.Status()), true)
		}
	}

	s.logger.Info("retrieval run archived", map[string]interface{}{
		"runId":    runID,
		"passages": len(passages),
	})
	return runID, nil
}

// Search runs a match query over archived passage text.
func (s *Service) Search(ctx context.Context, term string, size int) ([]Entry, error) {
	if size <= 0 || size > 100 {
		size = 20
	}

	queryBody := map[string]interface{}{
		"query": map[string]interface{}{
			"match": map[string]interface{}{
				"text": term,
			},
		},
	}
	body, _ := json.Marshal(queryBody)

	req := esapi.SearchRequest{
		Index: []string{s.index},
		Body:  bytes.NewReader(body),
		Size:  &size,
	}
	res, err := req.Do(ctx, s.client)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeArchiveFailed, "search archive", true, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, errors.New(errors.ErrCodeArchiveFailed,
			fmt.Sprintf("search archive: %s", res.String()), false)
	}

	var r struct {
		Hits struct {
			Hits []struct {
				Source Entry `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(r.Hits.Hits))
	for _, h := range r.Hits.Hits {
		entries = append(entries, h.Source)
	}
	return entries, nil
}
