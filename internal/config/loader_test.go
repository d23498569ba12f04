package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempConfig(t *testing.T, name, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoad_YAML(t *testing.T) {
	path := writeTempConfig(t, "test.yaml", `
name: checkout smoke
url: https://api.example.com/checkout
method: POST
connections: 50
duration: 60
timeout: 10
headers:
  - name: Content-Type
    value: application/json
  - name: Authorization
    value: Bearer abc123
body: '{"sku":"A-1"}'
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "checkout smoke", cfg.Name)
	assert.Equal(t, "https://api.example.com/checkout", cfg.URL)
	assert.Equal(t, "POST", cfg.Method)
	assert.Equal(t, 50, cfg.Connections)
	assert.Equal(t, 60, cfg.DurationSeconds)
	assert.Equal(t, 10, cfg.TimeoutSeconds)
	require.Len(t, cfg.Headers, 2)
	assert.Equal(t, "Content-Type", cfg.Headers[0].Name)
	assert.Equal(t, "Authorization", cfg.Headers[1].Name)
	assert.Equal(t, `{"sku":"A-1"}`, cfg.Body)
}

func TestLoad_JSON(t *testing.T) {
	path := writeTempConfig(t, "test.json",
		`{"url": "http://localhost:8080/", "method": "GET", "connections": 5, "duration": 10, "timeout": 3}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/", cfg.URL)
	assert.Equal(t, 5, cfg.Connections)
}

func TestLoad_DefaultsApplied(t *testing.T) {
	path := writeTempConfig(t, "min.yaml", "url: https://example.com\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "GET", cfg.Method)
	assert.Equal(t, 10, cfg.Connections)
	assert.Equal(t, 30, cfg.DurationSeconds)
	assert.Equal(t, 5, cfg.TimeoutSeconds)
}

func TestLoad_SchemaRejectsShapeMistakes(t *testing.T) {
	tests := []struct {
		name     string
		contents string
	}{
		{"unknown field", "url: https://example.com\nconcurrency: 10\n"},
		{"wrong type", "url: https://example.com\nconnections: many\n"},
		{"method outside enum", "url: https://example.com\nmethod: TRACE\n"},
		{"connections above maximum", "url: https://example.com\nconnections: 5000\n"},
		{"missing url", "method: GET\n"},
		{"headers as map", "url: https://example.com\nheaders:\n  X-Test: v\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTempConfig(t, "bad.yaml", tt.contents)
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestLoad_SemanticValidationStillRuns(t *testing.T) {
	// Passes the schema (string url) but fails URL validation.
	path := writeTempConfig(t, "badurl.yaml", "url: notaurl\n")
	_, err := Load(path)
	require.Error(t, err)
	assert.IsType(t, &ValidationErrors{}, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
