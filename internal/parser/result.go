// Package parser extracts structured metrics from the text report the
// load-generation binary prints on completion.
//
// The parser never fails: every input, including an empty string, yields a
// TestResult with the raw text preserved and unextractable fields left at
// their zero values.
package parser

import "math"

// TestResult is the structured outcome of one execution. It is created once
// when an execution finishes and never mutated afterwards.
type TestResult struct {
	// RequestsPerSecond is the reported throughput.
	RequestsPerSecond float64 `json:"requestsPerSecond"`

	// TotalRequests is the reported request count.
	TotalRequests int `json:"totalRequests"`

	// SuccessRate is a percentage in [0, 100].
	SuccessRate float64 `json:"successRate"`

	// FailedRequests is derived: total − round(total × rate/100).
	FailedRequests int `json:"failedRequests"`

	// Raw is the full captured output, preserved verbatim.
	Raw string `json:"raw"`

	// Extended holds opportunistically parsed secondary metrics, nil when
	// none were recognized.
	Extended *ExtendedStats `json:"extended,omitempty"`

	// Errors are human-readable error lines found in the output, in
	// document order. Diagnostic only; not used in the numeric fields.
	Errors []string `json:"errors,omitempty"`
}

// ExtendedStats carries the secondary metrics. Every field is optional;
// a nil pointer means the metric's label was not found in the report.
type ExtendedStats struct {
	FastestSeconds *float64 `json:"fastestSeconds,omitempty"`
	AverageSeconds *float64 `json:"averageSeconds,omitempty"`
	SlowestSeconds *float64 `json:"slowestSeconds,omitempty"`

	P50Seconds *float64 `json:"p50Seconds,omitempty"`
	P90Seconds *float64 `json:"p90Seconds,omitempty"`
	P95Seconds *float64 `json:"p95Seconds,omitempty"`
	P99Seconds *float64 `json:"p99Seconds,omitempty"`

	// DataPerSecond is the reported transfer rate, kept with its unit
	// (e.g. "6.44 MiB") since binaries disagree on units.
	DataPerSecond *string `json:"dataPerSecond,omitempty"`
}

// empty reports whether no extended metric was extracted.
func (s *ExtendedStats) empty() bool {
	return s.FastestSeconds == nil && s.AverageSeconds == nil &&
		s.SlowestSeconds == nil && s.P50Seconds == nil && s.P90Seconds == nil &&
		s.P95Seconds == nil && s.P99Seconds == nil && s.DataPerSecond == nil
}

// deriveFailed applies the documented rounding rule. The rule can disagree
// by ±1 with a binary's own failure count at edge percentages; callers
// depend on this exact behavior, so it is preserved as-is.
func deriveFailed(total int, successRate float64) int {
	if total <= 0 {
		return 0
	}
	succeeded := int(math.Round(float64(total) * successRate / 100))
	if succeeded > total {
		succeeded = total
	}
	return total - succeeded
}
