package config

import (
	"fmt"
	"net/url"
	"strings"
)

// ValidationError represents a single configuration validation failure.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// ValidationErrors is a collection of validation errors. A nil return from
// Validate means the configuration is valid.
type ValidationErrors struct {
	Errors []*ValidationError
}

func (e *ValidationErrors) Error() string {
	if len(e.Errors) == 0 {
		return "no validation errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e.Errors)))
	for i, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// Add appends an error to the collection.
func (e *ValidationErrors) Add(field, message string) {
	e.Errors = append(e.Errors, &ValidationError{Field: field, Message: message})
}

// HasErrors returns true if there are any errors.
func (e *ValidationErrors) HasErrors() bool {
	return len(e.Errors) > 0
}

var allowedMethods = map[string]bool{
	"GET":    true,
	"POST":   true,
	"PUT":    true,
	"DELETE": true,
	"PATCH":  true,
}

// Validate checks the configuration against the documented invariants.
//
// Returns nil if valid, or a *ValidationErrors containing every violation.
func (c *TestConfig) Validate() error {
	errs := &ValidationErrors{}

	if c.URL == "" {
		errs.Add("url", "url is required")
	} else {
		u, err := url.Parse(c.URL)
		if err != nil {
			errs.Add("url", fmt.Sprintf("invalid url: %v", err))
		} else if u.Scheme != "http" && u.Scheme != "https" {
			errs.Add("url", fmt.Sprintf("scheme must be http or https, got '%s'", u.Scheme))
		} else if u.Host == "" {
			errs.Add("url", "url has no host")
		}
	}

	if c.Method == "" {
		errs.Add("method", "method is required")
	} else if !allowedMethods[c.Method] {
		errs.Add("method", fmt.Sprintf("invalid method: %s", c.Method))
	}

	if c.Connections < MinConnections || c.Connections > MaxConnections {
		errs.Add("connections", fmt.Sprintf("must be between %d and %d, got %d",
			MinConnections, MaxConnections, c.Connections))
	}

	if c.DurationSeconds < MinDurationSeconds || c.DurationSeconds > MaxDurationSeconds {
		errs.Add("duration", fmt.Sprintf("must be between %d and %d seconds, got %d",
			MinDurationSeconds, MaxDurationSeconds, c.DurationSeconds))
	}

	if c.TimeoutSeconds < MinTimeoutSeconds || c.TimeoutSeconds > MaxTimeoutSeconds {
		errs.Add("timeout", fmt.Sprintf("must be between %d and %d seconds, got %d",
			MinTimeoutSeconds, MaxTimeoutSeconds, c.TimeoutSeconds))
	}

	for i, h := range c.Headers {
		if h.Name == "" {
			errs.Add(fmt.Sprintf("headers[%d].name", i), "header name cannot be empty")
		}
		if strings.ContainsAny(h.Name, "\r\n") || strings.ContainsAny(h.Value, "\r\n") {
			errs.Add(fmt.Sprintf("headers[%d]", i), "header cannot contain newlines")
		}
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}
