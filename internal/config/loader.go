package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads a test definition from a YAML or JSON file, validates it
// against the embedded schema, decodes it, and applies defaults for any
// omitted optional field. The returned configuration has already passed
// Validate.
func Load(path string) (*TestConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return Parse(data, filepath.Ext(path))
}

// Parse decodes a test definition from raw bytes. ext selects the decoder
// (".json" for JSON, anything else is treated as YAML).
func Parse(data []byte, ext string) (*TestConfig, error) {
	jsonBytes, err := toJSON(data, ext)
	if err != nil {
		return nil, err
	}

	if err := validateSchema(jsonBytes); err != nil {
		return nil, err
	}

	cfg := Default()
	if err := json.Unmarshal(jsonBytes, cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// toJSON normalizes the input to JSON bytes so a single schema check and
// decode path serves both formats.
func toJSON(data []byte, ext string) ([]byte, error) {
	if strings.EqualFold(ext, ".json") {
		if !json.Valid(data) {
			return nil, fmt.Errorf("config file is not valid JSON")
		}
		return data, nil
	}

	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}
	jsonBytes, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("converting YAML to JSON: %w", err)
	}
	return jsonBytes, nil
}

// validateSchema applies the embedded JSON schema to the normalized
// document.
func validateSchema(jsonBytes []byte) error {
	schema, err := compileSchema()
	if err != nil {
		return fmt.Errorf("compiling config schema: %w", err)
	}

	var doc interface{}
	if err := json.Unmarshal(jsonBytes, &doc); err != nil {
		return fmt.Errorf("decoding config: %w", err)
	}

	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("config does not match schema: %w", err)
	}
	return nil
}
