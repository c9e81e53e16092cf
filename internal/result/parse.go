package result

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Outcome tags the result of ParseResponse.
type Outcome int

const (
	// Unrecognized means the body is neither a report nor an acknowledgement.
	Unrecognized Outcome = iota
	// Parsed means the body is a report in the canonical shape.
	Parsed
	// Acknowledged means the body is a bare acknowledgement token.
	Acknowledged
)

func (o Outcome) String() string {
	switch o {
	case Parsed:
		return "parsed"
	case Acknowledged:
		return "acknowledged"
	}
	return "unrecognized"
}

// DefaultAckTokens are the plain-text bodies treated as an acknowledgement.
var DefaultAckTokens = []string{"Accepted"}

// Response is the tagged outcome of parsing a webhook body.
type Response struct {
	Outcome Outcome
	Record  Record
	// Err explains why the body was unrecognized.
	Err error
}

// ParseResponse classifies body in precedence order: a report matching
// the record schema, then an acknowledgement token, then unrecognized.
// Acknowledged responses carry Fallback() as their record.
func ParseResponse(body []byte, ackTokens []string) Response {
	rec, err := decodeRecord(body)
	if err == nil {
		return Response{Outcome: Parsed, Record: rec}
	}

	text := strings.TrimSpace(string(body))
	for _, tok := range ackTokens {
		if text == tok {
			return Response{Outcome: Acknowledged, Record: Fallback()}
		}
	}
	return Response{Outcome: Unrecognized, Err: err}
}

func decodeRecord(body []byte) (Record, error) {
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return Record{}, fmt.Errorf("invalid JSON: %w", err)
	}
	// Some automation tools wrap the payload in a one-element array.
	if arr, ok := doc.([]any); ok && len(arr) == 1 {
		doc = arr[0]
	}

	schema, err := recordSchema()
	if err != nil {
		return Record{}, err
	}
	if err := schema.Validate(doc); err != nil {
		return Record{}, fmt.Errorf("schema validation failed: %w", err)
	}

	b, err := json.Marshal(doc)
	if err != nil {
		return Record{}, fmt.Errorf("encode record: %w", err)
	}
	var rec Record
	if err := json.Unmarshal(b, &rec); err != nil {
		return Record{}, fmt.Errorf("decode record: %w", err)
	}
	return rec, nil
}

const recordSchemaURL = "schema://result/record.json"

// recordSchemaDoc requires a JSON object with the headline estimate and
// checks the kind of every known key. Unknown keys are allowed, except the
// old key_* driver names, which mark a report in the previous format.
const recordSchemaDoc = `{
  "type": "object",
  "required": ["estimated_property_value_eur"],
  "not": {
    "anyOf": [
      {"required": ["key_positive_value_drivers"]},
      {"required": ["key_negative_value_drivers"]}
    ]
  },
  "properties": {
    "estimated_property_value_eur": {"type": ["number", "null"]},
    "value_range_min_eur": {"type": ["number", "null"]},
    "value_range_max_eur": {"type": ["number", "null"]},
    "price_per_sqm_avg_eur": {"type": ["number", "null"]},
    "valuation_confidence": {"enum": ["hoch", "mittel", "gering", null]},
    "positive_value_drivers": {"type": ["array", "null"], "items": {"type": "string"}},
    "negative_value_drivers": {"type": ["array", "null"], "items": {"type": "string"}},
    "local_market_trend_info": {"type": ["string", "null"]},
    "price_development": {
      "type": ["array", "null"],
      "items": {
        "type": "object",
        "required": ["year"],
        "properties": {
          "year": {"type": "integer"},
          "avg_price_per_sqm_eur": {"type": ["number", "null"]},
          "local_price_per_sqm_eur": {"type": ["number", "null"]}
        }
      }
    },
    "comparable_properties_nearby": {
      "type": ["array", "null"],
      "items": {
        "type": "object",
        "required": ["id"],
        "properties": {
          "id": {"type": "string"},
          "image_url": {"type": ["string", "null"]},
          "address_snippet": {"type": "string"},
          "property_type_display": {"type": "string"},
          "living_area_sqm": {"type": ["number", "null"]},
          "plot_area_sqm": {"type": ["number", "null"]},
          "year_built_display": {"type": "string"},
          "estimated_value_eur": {"type": ["number", "null"]},
          "price_per_sqm_eur": {"type": ["number", "null"]}
        }
      }
    }
  }
}`

var (
	schemaOnce sync.Once
	schemaVal  *jsonschema.Schema
	schemaErr  error
)

func recordSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(strings.NewReader(recordSchemaDoc))
		if err != nil {
			schemaErr = fmt.Errorf("parse record schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(recordSchemaURL, doc); err != nil {
			schemaErr = fmt.Errorf("add resource: %w", err)
			return
		}
		schemaVal, schemaErr = c.Compile(recordSchemaURL)
	})
	return schemaVal, schemaErr
}
