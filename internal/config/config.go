// Package config defines the load-test configuration consumed by the
// command builder, along with its validation rules and file loading.
package config

// Bounds for the numeric configuration fields. The same limits are applied
// whether a configuration arrives from CLI flags or from a definition file.
const (
	MinConnections = 1
	MaxConnections = 1000

	MinDurationSeconds = 1
	MaxDurationSeconds = 3600

	MinTimeoutSeconds = 1
	MaxTimeoutSeconds = 300
)

// Header is a single request header. Headers are kept as an ordered slice
// rather than a map so the argument vector preserves insertion order.
type Header struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

// TestConfig describes one load test against a single URL.
//
// Example YAML:
//
//	name: "checkout smoke"
//	url: https://api.example.com/checkout
//	method: POST
//	connections: 50
//	duration: 30
//	timeout: 5
//	headers:
//	  - name: Content-Type
//	    value: application/json
//	body: '{"sku":"A-1"}'
type TestConfig struct {
	// Name of the test (for display only)
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// URL is the target; http or https only
	URL string `json:"url" yaml:"url"`

	// Method is one of GET, POST, PUT, DELETE, PATCH
	Method string `json:"method,omitempty" yaml:"method,omitempty"`

	// Connections is the number of concurrent connections
	Connections int `json:"connections,omitempty" yaml:"connections,omitempty"`

	// DurationSeconds is how long the test runs
	DurationSeconds int `json:"duration,omitempty" yaml:"duration,omitempty"`

	// TimeoutSeconds is the per-request timeout
	TimeoutSeconds int `json:"timeout,omitempty" yaml:"timeout,omitempty"`

	// Headers are sent with every request, in order
	Headers []Header `json:"headers,omitempty" yaml:"headers,omitempty"`

	// Body is the request payload; only meaningful for methods that carry one
	Body string `json:"body,omitempty" yaml:"body,omitempty"`
}

// Default returns a TestConfig with the documented defaults filled in.
// The URL is left empty and must be supplied by the caller.
func Default() *TestConfig {
	return &TestConfig{
		Method:          "GET",
		Connections:     10,
		DurationSeconds: 30,
		TimeoutSeconds:  5,
	}
}

// MethodCarriesBody reports whether the given HTTP method sends a payload.
// GET and DELETE requests never carry one, regardless of configuration.
func MethodCarriesBody(method string) bool {
	switch method {
	case "POST", "PUT", "PATCH":
		return true
	}
	return false
}
