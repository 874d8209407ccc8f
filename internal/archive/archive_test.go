// internal/archive/archive_test.go
package archive

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rag-workbench/internal/common/logger"
	"rag-workbench/internal/retrieval"
)

// stubTransport answers every Elasticsearch request with a canned body and
// records what was sent.
type stubTransport struct {
	status   int
	body     string
	requests []capturedRequest
}

type capturedRequest struct {
	method string
	path   string
	query  string
	body   string
}

func (t *stubTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	var body string
	if req.Body != nil {
		b, _ := io.ReadAll(req.Body)
		body = string(b)
	}
	t.requests = append(t.requests, capturedRequest{
		method: req.Method,
		path:   req.URL.Path,
		query:  req.URL.RawQuery,
		body:   body,
	})

	return &http.Response{
		StatusCode: t.status,
		Body:       io.NopCloser(strings.NewReader(t.body)),
		Header:     http.Header{"X-Elastic-Product": []string{"Elasticsearch"}, "Content-Type": []string{"application/json"}},
	}, nil
}

func createTestService(t *testing.T, transport *stubTransport) *Service {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{"http://localhost:9200"},
		Transport: transport,
	})
	require.NoError(t, err)
	return NewService(client, "retrieval-archive", logger.NewNoOpLogger())
}

func TestArchiveRunIndexesEveryPassage(t *testing.T) {
	transport := &stubTransport{status: http.StatusCreated, body: `{"result":"created"}`}
	svc := createTestService(t, transport)

	passages := []retrieval.Passage{
		{Text: "first passage", Score: 0.9, Source: "s3://workbench-data/a.txt"},
		{Text: "second passage", Score: 0.8},
	}

	runID, err := svc.ArchiveRun(context.Background(), "KB123", "revenue question", passages)

	require.NoError(t, err)
	assert.NotEmpty(t, runID)
	require.Len(t, transport.requests, 2)

	first := transport.requests[0]
	assert.Equal(t, http.MethodPut, first.method)
	assert.Equal(t, "/retrieval-archive/_doc/"+runID+"-0", first.path)

	var entry Entry
	require.NoError(t, json.Unmarshal([]byte(first.body), &entry))
	assert.Equal(t, runID, entry.RunID)
	assert.Equal(t, "KB123", entry.KnowledgeB)
	assert.Equal(t, "revenue question", entry.Query)
	assert.Equal(t, "first passage", entry.Text)
	assert.False(t, entry.ArchivedAt.IsZero())
}

func TestArchiveRunStopsOnIndexError(t *testing.T) {
	transport := &stubTransport{status: http.StatusInternalServerError, body: `{"error":"boom"}`}
	svc := createTestService(t, transport)

	_, err := svc.ArchiveRun(context.Background(), "KB123", "q", []retrieval.Passage{{Text: "p"}})

	require.Error(t, err)
	assert.Len(t, transport.requests, 1)
}

func TestSearchDecodesHits(t *testing.T) {
	transport := &stubTransport{
		status: http.StatusOK,
		body: `{"hits":{"hits":[
			{"_source":{"runId":"r1","query":"revenue","text":"first passage","score":0.9}},
			{"_source":{"runId":"r1","query":"revenue","text":"second passage","score":0.8}}
		]}}`,
	}
	svc := createTestService(t, transport)

	entries, err := svc.Search(context.Background(), "passage", 10)

	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "first passage", entries[0].Text)
	assert.InDelta(t, 0.9, entries[0].Score, 1e-9)

	req := transport.requests[0]
	assert.Contains(t, req.path, "/retrieval-archive/_search")
	assert.Contains(t, req.body, `"match"`)
	assert.Contains(t, req.body, `"text":"passage"`)
}

func TestSearchClampsSize(t *testing.T) {
	transport := &stubTransport{status: http.StatusOK, body: `{"hits":{"hits":[]}}`}
	svc := createTestService(t, transport)

	entries, err := svc.Search(context.Background(), "anything", -5)

	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.Contains(t, transport.requests[0].query, "size=20")
}
