package main

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// pointsSchema validates the JSON accepted by send and send-edge: an
// array of points with the same field names the client marshals.
const pointsSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "array",
  "minItems": 1,
  "items": {
    "type": "object",
    "required": ["type"],
    "additionalProperties": false,
    "properties": {
      "type":      {"type": "string", "minLength": 1},
      "key":       {"type": "string"},
      "time":      {"type": "string", "format": "date-time"},
      "index":     {"type": "number"},
      "value":     {"type": "number"},
      "text":      {"type": "string"},
      "tombstone": {"type": "integer"},
      "data":      {"type": "string", "contentEncoding": "base64"}
    }
  }
}`

func validatePointsJSON(data []byte) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(pointsSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return fmt.Errorf("validate points: %w", err)
	}
	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("invalid points JSON: %s", strings.Join(msgs, "; "))
}
