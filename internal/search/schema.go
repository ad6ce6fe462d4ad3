package search

import (
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"sigs.k8s.io/yaml"
)

// searchResponseSchema is the part of a _search response the benchmark
// relies on. Elasticsearch 7+ and OpenSearch report hits.total as an
// object; older engines report a bare number.
const searchResponseSchema = `{
  "type": "object",
  "required": ["took", "hits"],
  "properties": {
    "took": {"type": "integer", "minimum": 0},
    "hits": {
      "type": "object",
      "required": ["total"],
      "properties": {
        "total": {
          "oneOf": [
            {"type": "integer", "minimum": 0},
            {
              "type": "object",
              "required": ["value"],
              "properties": {"value": {"type": "integer", "minimum": 0}}
            }
          ]
        }
      }
    }
  }
}`

var searchResponse = jsonschema.MustCompileString("search-response.json", searchResponseSchema)

// validateSearchResponse checks body against searchResponseSchema.
func validateSearchResponse(body []byte) error {
	var doc interface{}
	if err := json.Unmarshal(body, &doc); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if err := searchResponse.Validate(doc); err != nil {
		return fmt.Errorf("unexpected search response: %w", err)
	}
	return nil
}

// toJSON converts a settings or mapping resource to JSON. YAML is a superset
// of JSON, so JSON input passes through unchanged in meaning. Empty input
// yields nil.
func toJSON(blob []byte) (json.RawMessage, error) {
	if len(blob) == 0 {
		return nil, nil
	}
	data, err := yaml.YAMLToJSON(blob)
	if err != nil {
		return nil, err
	}
	if string(data) == "null" {
		return nil, nil
	}
	return data, nil
}
