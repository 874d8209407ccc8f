// Package chunker implements the client-side chunking path used with the
// "none" managed strategy: documents are split locally and uploaded to the
// source bucket as pre-chunked objects, each with a metadata sidecar the
// ingestion service attaches to the resulting vector entries.
package chunker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"rag-workbench/internal/common/errors"
	"rag-workbench/internal/common/logger"
	"rag-workbench/internal/common/validation"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/tmc/langchaingo/textsplitter"
)

type objectStoreAPI interface {
	PutObject(ctx context.Context, input *s3.PutObjectInput) (*s3.PutObjectOutput, error)
}

type Config struct {
	Bucket       string
	Prefix       string
	ChunkSize    int
	ChunkOverlap int
}

func (c *Config) applyDefaults() {
	if c.ChunkSize == 0 {
		c.ChunkSize = 1000
	}
	if c.ChunkOverlap == 0 {
		c.ChunkOverlap = 100
	}
}

// Document is a source document plus the attributes stamped onto every
// chunk's sidecar.
type Document struct {
	Name    string
	Text    string
	Company string
	Year    int
	DocType string
}

// UploadedChunk records where one chunk landed.
type UploadedChunk struct {
	Key        string
	SidecarKey string
	Index      int
	Size       int
}

type Service struct {
	config   *Config
	store    objectStoreAPI
	splitter textsplitter.TextSplitter
	logger   logger.Logger
}

func NewService(config *Config, store objectStoreAPI, log logger.Logger) *Service {
	config.applyDefaults()
	return &Service{
		config: config,
		store:  store,
		splitter: textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(config.ChunkSize),
			textsplitter.WithChunkOverlap(config.ChunkOverlap),
		),
		logger: log.WithFields(map[string]interface{}{"component": "chunker"}),
	}
}

// SplitAndUpload splits the document and uploads every chunk together with
// its validated metadata sidecar. Partial uploads are reported, not rolled
// back; re-running is idempotent because keys are deterministic.
func (s *Service) SplitAndUpload(ctx context.Context, doc Document) ([]UploadedChunk, error) {
	chunks, err := s.splitter.SplitText(doc.Text)
	if err != nil {
		return nil, fmt.Errorf("split %s: %w", doc.Name, err)
	}

	uploaded := make([]UploadedChunk, 0, len(chunks))
	for i, chunk := range chunks {
		key := s.chunkKey(doc.Name, i)

		meta := map[string]interface{}{
			"metadataAttributes": map[string]interface{}{
				"company":    doc.Company,
				"year":       doc.Year,
				"docType":    doc.DocType,
				"page":       i + 1,
				"source_uri": fmt.Sprintf("s3://%s/%s", s.config.Bucket, key),
			},
		}
		result, err := validation.ValidateChunkMetadata(meta)
		if err != nil {
			return uploaded, err
		}
		if !result.Valid {
			return uploaded, errors.New(errors.ErrCodeValidationFailed,
				fmt.Sprintf("chunk metadata invalid for %s: %v", doc.Name, result.Errors), false)
		}

		if err := s.put(ctx, key, []byte(chunk), "text/plain"); err != nil {
			return uploaded, err
		}

		sidecarKey := key + ".metadata.json"
		body, _ := json.Marshal(meta)
		if err := s.put(ctx, sidecarKey, body, "application/json"); err != nil {
			return uploaded, err
		}

		uploaded = append(uploaded, UploadedChunk{
			Key:        key,
			SidecarKey: sidecarKey,
			Index:      i,
			Size:       len(chunk),
		})
	}

	s.logger.Info("document chunked and uploaded", map[string]interface{}{
		"document": doc.Name,
		"chunks":   len(uploaded),
	})
	return uploaded, nil
}

func (s *Service) put(ctx context.Context, key string, body []byte, contentType string) error {
	_, err := s.store.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.config.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return errors.FromAWS("upload chunk object", err)
	}
	return nil
}

func (s *Service) chunkKey(name string, index int) string {
	base := strings.TrimSuffix(name, ".txt")
	prefix := strings.TrimSuffix(s.config.Prefix, "/")
	if prefix == "" {
		return fmt.Sprintf("%s-chunk-%04d.txt", base, index)
	}
	return fmt.Sprintf("%s/%s-chunk-%04d.txt", prefix, base, index)
}
