// internal/chunker/chunker_test.go
package chunker

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rag-workbench/internal/common/logger"
)

type fakeObjectStore struct {
	objects map[string][]byte
	types   map[string]string
	putErr  error
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{
		objects: map[string][]byte{},
		types:   map[string]string{},
	}
}

func (f *fakeObjectStore) PutObject(ctx context.Context, input *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	body, err := io.ReadAll(input.Body)
	if err != nil {
		return nil, err
	}
	key := aws.ToString(input.Key)
	f.objects[key] = body
	f.types[key] = aws.ToString(input.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func createTestService(store *fakeObjectStore) *Service {
	return NewService(&Config{
		Bucket:       "workbench-data",
		Prefix:       "docs/",
		ChunkSize:    100,
		ChunkOverlap: 10,
	}, store, logger.NewNoOpLogger())
}

func testDocument() Document {
	return Document{
		Name:    "amazon-2023.txt",
		Text:    strings.Repeat("Net sales increased in the fourth quarter. ", 20),
		Company: "Amazon",
		Year:    2023,
		DocType: "report",
	}
}

func TestSplitAndUploadPairsChunksWithSidecars(t *testing.T) {
	store := newFakeObjectStore()
	svc := createTestService(store)

	uploaded, err := svc.SplitAndUpload(context.Background(), testDocument())

	require.NoError(t, err)
	require.NotEmpty(t, uploaded)
	// The 100-char chunk size over ~860 chars must produce several chunks.
	assert.Greater(t, len(uploaded), 1)

	for _, chunk := range uploaded {
		assert.Equal(t, chunk.Key+".metadata.json", chunk.SidecarKey)
		assert.Contains(t, store.objects, chunk.Key)
		assert.Contains(t, store.objects, chunk.SidecarKey)
		assert.Equal(t, "text/plain", store.types[chunk.Key])
		assert.Equal(t, "application/json", store.types[chunk.SidecarKey])

		sidecar := string(store.objects[chunk.SidecarKey])
		assert.Contains(t, sidecar, `"company":"Amazon"`)
		assert.Contains(t, sidecar, `"year":2023`)
		assert.Contains(t, sidecar, "s3://workbench-data/"+chunk.Key)
	}
}

func TestSplitAndUploadKeysAreDeterministic(t *testing.T) {
	store := newFakeObjectStore()
	svc := createTestService(store)

	uploaded, err := svc.SplitAndUpload(context.Background(), testDocument())

	require.NoError(t, err)
	assert.Equal(t, "docs/amazon-2023-chunk-0000.txt", uploaded[0].Key)
	assert.Equal(t, 0, uploaded[0].Index)
	if len(uploaded) > 1 {
		assert.Equal(t, "docs/amazon-2023-chunk-0001.txt", uploaded[1].Key)
	}
}

func TestSplitAndUploadNoPrefix(t *testing.T) {
	store := newFakeObjectStore()
	svc := NewService(&Config{Bucket: "workbench-data", ChunkSize: 100, ChunkOverlap: 10},
		store, logger.NewNoOpLogger())

	uploaded, err := svc.SplitAndUpload(context.Background(), testDocument())

	require.NoError(t, err)
	assert.Equal(t, "amazon-2023-chunk-0000.txt", uploaded[0].Key)
}

func TestSplitAndUploadReportsPartialProgress(t *testing.T) {
	store := newFakeObjectStore()
	store.putErr = assert.AnError
	svc := createTestService(store)

	uploaded, err := svc.SplitAndUpload(context.Background(), testDocument())

	require.Error(t, err)
	assert.Empty(t, uploaded)
}

func TestSplitAndUploadRejectsBadMetadata(t *testing.T) {
	store := newFakeObjectStore()
	svc := createTestService(store)

	doc := testDocument()
	doc.Year = 1492 // below the sidecar schema's minimum

	_, err := svc.SplitAndUpload(context.Background(), doc)
	require.Error(t, err)
	assert.Empty(t, store.objects)
}
