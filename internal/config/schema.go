package config

import (
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// testConfigSchema is the structural schema applied to definition files
// before they are decoded. Semantic rules (URL scheme, bounds) live in
// Validate; the schema catches shape mistakes with a usable field path.
const testConfigSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["url"],
  "additionalProperties": false,
  "properties": {
    "name": { "type": "string" },
    "url": { "type": "string", "minLength": 1 },
    "method": {
      "type": "string",
      "enum": ["GET", "POST", "PUT", "DELETE", "PATCH"]
    },
    "connections": { "type": "integer", "minimum": 1, "maximum": 1000 },
    "duration": { "type": "integer", "minimum": 1, "maximum": 3600 },
    "timeout": { "type": "integer", "minimum": 1, "maximum": 300 },
    "headers": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["name", "value"],
        "additionalProperties": false,
        "properties": {
          "name": { "type": "string", "minLength": 1 },
          "value": { "type": "string" }
        }
      }
    },
    "body": { "type": "string" }
  }
}`

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

// compileSchema compiles the embedded schema once. The schema is a
// compile-time constant, so an error here is a programming bug.
func compileSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiledSchema, schemaErr = jsonschema.CompileString("testconfig.json", testConfigSchema)
	})
	return compiledSchema, schemaErr
}
