// Package output renders parsed test results for the terminal.
package output

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/volleyhq/volley/internal/parser"
)

// Formatter renders TestResults in text format.
type Formatter struct {
	NoColor bool
}

// NewFormatter creates a new formatter with the given options.
func NewFormatter(noColor bool) *Formatter {
	return &Formatter{NoColor: noColor}
}

// FormatResult formats a parsed result for display.
func (f *Formatter) FormatResult(res *parser.TestResult) string {
	var buf strings.Builder

	heading := color.New(color.FgCyan, color.Bold)
	label := color.New(color.FgYellow)
	good := color.New(color.FgGreen, color.Bold)
	bad := color.New(color.FgRed, color.Bold)
	if f.NoColor {
		heading.DisableColor()
		label.DisableColor()
		good.DisableColor()
		bad.DisableColor()
	}

	buf.WriteString(heading.Sprint("Result") + "\n")
	buf.WriteString(fmt.Sprintf("  %s %.4f\n", label.Sprint("Requests/sec:"), res.RequestsPerSecond))
	buf.WriteString(fmt.Sprintf("  %s %d\n", label.Sprint("Total requests:"), res.TotalRequests))

	rateColor := good
	if res.SuccessRate < 100 {
		rateColor = bad
	}
	buf.WriteString(fmt.Sprintf("  %s %s\n", label.Sprint("Success rate:"),
		rateColor.Sprintf("%.2f%%", res.SuccessRate)))
	buf.WriteString(fmt.Sprintf("  %s %d\n", label.Sprint("Failed requests:"), res.FailedRequests))

	if res.Extended != nil {
		buf.WriteString(f.formatExtended(res.Extended, label))
	}

	if len(res.Errors) > 0 {
		buf.WriteString(heading.Sprint("Errors") + "\n")
		for _, line := range res.Errors {
			buf.WriteString("  " + bad.Sprint(line) + "\n")
		}
	}

	return buf.String()
}

func (f *Formatter) formatExtended(ext *parser.ExtendedStats, label *color.Color) string {
	var buf strings.Builder

	latency := func(name string, v *float64) {
		if v != nil {
			buf.WriteString(fmt.Sprintf("  %s %s\n", label.Sprint(name), formatSeconds(*v)))
		}
	}
	latency("Fastest:", ext.FastestSeconds)
	latency("Average:", ext.AverageSeconds)
	latency("Slowest:", ext.SlowestSeconds)
	latency("p50:", ext.P50Seconds)
	latency("p90:", ext.P90Seconds)
	latency("p95:", ext.P95Seconds)
	latency("p99:", ext.P99Seconds)

	if ext.DataPerSecond != nil {
		buf.WriteString(fmt.Sprintf("  %s %s/s\n", label.Sprint("Transfer:"), *ext.DataPerSecond))
	}
	return buf.String()
}

// formatSeconds prints sub-second latencies in milliseconds.
func formatSeconds(v float64) string {
	if v < 1 {
		return fmt.Sprintf("%.1fms", v*1000)
	}
	return fmt.Sprintf("%.3fs", v)
}
