// internal/common/validation/schema.go
package validation

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// configSchema pins down the exported resource-identifier document before
// viper ever sees it. Identifiers are opaque strings; only shape and the
// account number format are checked here.
const configSchema = `{
  "type": "object",
  "properties": {
    "platform": {
      "type": "object",
      "properties": {
        "account_id": {"type": "string", "pattern": "^[0-9]{12}$"},
        "region": {"type": "string", "minLength": 1}
      },
      "required": ["account_id", "region"]
    },
    "knowledge": {
      "type": "object",
      "properties": {
        "knowledge_base_id": {"type": "string"},
        "data_source_id": {"type": "string"},
        "top_k": {"type": "integer", "minimum": 1, "maximum": 100}
      }
    },
    "guardrail": {
      "type": "object",
      "properties": {
        "guardrail_id": {"type": "string"},
        "version": {"type": "string"}
      }
    }
  },
  "required": ["platform"]
}`

// chunkMetadataSchema is the sidecar format the ingestion service expects
// next to each custom chunk ("<name>.metadata.json").
const chunkMetadataSchema = `{
  "type": "object",
  "properties": {
    "metadataAttributes": {
      "type": "object",
      "properties": {
        "company": {"type": "string"},
        "year": {"type": "integer", "minimum": 1900, "maximum": 2200},
        "docType": {"type": "string"},
        "page": {"type": "integer", "minimum": 1},
        "source_uri": {"type": "string"}
      },
      "additionalProperties": true
    }
  },
  "required": ["metadataAttributes"]
}`

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

func validate(schema string, doc interface{}) (*ValidationResult, error) {
	schemaLoader := gojsonschema.NewStringLoader(schema)

	var docLoader gojsonschema.JSONLoader
	switch d := doc.(type) {
	case []byte:
		docLoader = gojsonschema.NewBytesLoader(d)
	case string:
		docLoader = gojsonschema.NewStringLoader(d)
	default:
		docLoader = gojsonschema.NewGoLoader(d)
	}

	result, err := gojsonschema.Validate(schemaLoader, docLoader)
	if err != nil {
		return nil, fmt.Errorf("schema validation failed to run: %w", err)
	}

	out := &ValidationResult{Valid: result.Valid()}
	for _, re := range result.Errors() {
		out.Errors = append(out.Errors, ValidationError{
			Field:   re.Field(),
			Message: re.Description(),
		})
	}
	return out, nil
}

// ValidateConfigDocument checks a raw workbench.json document.
func ValidateConfigDocument(raw []byte) (*ValidationResult, error) {
	return validate(configSchema, raw)
}

// ValidateChunkMetadata checks a metadata sidecar before upload.
func ValidateChunkMetadata(doc map[string]interface{}) (*ValidationResult, error) {
	return validate(chunkMetadataSchema, doc)
}
