package snapshot

import (
	"errors"
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// ErrSchemaViolation marks a payload that does not match the wire schema.
var ErrSchemaViolation = errors.New("snapshot schema violation")

const wireSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "definitions": {
    "series": {
      "type": "object",
      "properties": {
        "labels": {"type": ["array", "null"], "items": {"type": "string"}},
        "values": {"type": ["array", "null"], "items": {"type": "integer", "minimum": 0}}
      }
    }
  },
  "properties": {
    "hostname": {"type": ["string", "null"]},
    "identity": {"type": ["string", "null"]},
    "total_attacks": {"type": ["integer", "null"], "minimum": 0},
    "timeline": {"$ref": "#/definitions/series"},
    "owasp": {"$ref": "#/definitions/series"},
    "severity": {"$ref": "#/definitions/series"},
    "tenants": {
      "type": ["array", "null"],
      "items": {
        "type": "object",
        "properties": {
          "hostname": {"type": "string"},
          "identity": {"type": "string"},
          "events": {"type": "integer", "minimum": 0}
        }
      }
    },
    "mitre": {
      "type": ["array", "null"],
      "items": {
        "type": "object",
        "required": ["mitre_id"],
        "properties": {
          "mitre_id": {"type": "string"},
          "category": {"type": ["string", "null"]},
          "owasp": {"type": ["string", "null"]},
          "severity": {"type": ["string", "null"]},
          "count": {"type": "integer", "minimum": 0}
        }
      }
    }
  }
}`

// Validator checks raw payloads against the backend wire schema.
type Validator struct {
	schema *gojsonschema.Schema
}

// NewValidator compiles the wire schema.
func NewValidator() (*Validator, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(wireSchema))
	if err != nil {
		return nil, fmt.Errorf("compile snapshot schema: %w", err)
	}
	return &Validator{schema: schema}, nil
}

// Validate returns one error per schema violation.
func (v *Validator) Validate(payload []byte) []error {
	if v == nil || v.schema == nil {
		return nil
	}
	result, err := v.schema.Validate(gojsonschema.NewBytesLoader(payload))
	if err != nil {
		return []error{fmt.Errorf("%w: %v", ErrSchemaViolation, err)}
	}
	if result.Valid() {
		return nil
	}
	errs := make([]error, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		errs = append(errs, fmt.Errorf("%w: %s", ErrSchemaViolation, desc.String()))
	}
	return errs
}
