// Package command turns a validated test configuration into the argument
// vector for the oha load-generation binary.
//
// The vector is passed to the process spawn call as discrete strings, never
// through a shell, so header and body content containing spaces, quotes, or
// metacharacters travels verbatim.
package command

import (
	"fmt"
	"strconv"

	"github.com/volleyhq/volley/internal/config"
)

// BinaryName is the executable this package builds command lines for.
const BinaryName = "oha"

// SmokeTestURL is the default reachable target used to verify the binary
// is installed and runnable, independent of any user configuration.
const SmokeTestURL = "https://www.example.com"

// Build maps a test configuration to a complete argument vector, with the
// binary path as element zero and the target URL as the final element.
//
// The configuration is re-validated defensively; on failure Build returns
// the validation error and no vector, never a partially built one. Build is
// a pure function of its inputs and returns a fresh slice on every call.
func Build(binPath string, cfg *config.TestConfig) ([]string, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	argv := []string{
		binPath,
		"-c", strconv.Itoa(cfg.Connections),
		"-z", fmt.Sprintf("%ds", cfg.DurationSeconds),
		"-t", fmt.Sprintf("%ds", cfg.TimeoutSeconds),
		"-m", cfg.Method,
	}

	for _, h := range cfg.Headers {
		argv = append(argv, "-H", h.Name+": "+h.Value)
	}

	if cfg.Body != "" && config.MethodCarriesBody(cfg.Method) {
		argv = append(argv, "-d", cfg.Body)
	}

	argv = append(argv, "--no-tui", cfg.URL)
	return argv, nil
}

// SmokeTest returns the fixed minimal vector used by installation checks:
// one connection for one second against SmokeTestURL.
func SmokeTest(binPath string) []string {
	return []string{binPath, "-c", "1", "-z", "1s", "--no-tui", SmokeTestURL}
}
