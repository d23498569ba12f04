package parser

import (
	"regexp"
	"strconv"
	"strings"
)

// Each primary metric has an ordered list of label variants. Variants are
// tried in priority order; the first variant that matches anywhere in the
// text wins, and its first occurrence in document order supplies the value.
var (
	throughputPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)requests/sec:?[ \t]*([0-9][0-9,]*(?:\.[0-9]+)?)`),
		regexp.MustCompile(`(?i)\bRPS:?[ \t]*([0-9][0-9,]*(?:\.[0-9]+)?)`),
		regexp.MustCompile(`(?i)([0-9][0-9,]*(?:\.[0-9]+)?)[ \t]*req/s`),
	}

	totalPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\btotal:?[ \t]*([0-9][0-9,]*)[ \t]+requests\b`),
		regexp.MustCompile(`(?i)([0-9][0-9,]*)[ \t]+total[ \t]+requests\b`),
		regexp.MustCompile(`(?i)\bcompleted[ \t]+([0-9][0-9,]*)[ \t]+requests\b`),
	}

	successPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)success[ \t]*rate:?[ \t]*([0-9]+(?:\.[0-9]+)?)[ \t]*%`),
		regexp.MustCompile(`(?i)([0-9]+(?:\.[0-9]+)?)%[ \t]+success\b`),
	}
)

// Secondary metrics: a latency value plus its unit.
var (
	fastestPattern = regexp.MustCompile(`(?i)\b(?:fastest|min(?:imum)?[ \t]+latency|min):?[ \t]*([0-9]+(?:\.[0-9]+)?)[ \t]*(secs|sec|s|ms|us|µs)\b`)
	averagePattern = regexp.MustCompile(`(?i)\b(?:average|avg(?:[ \t]+latency)?|mean):?[ \t]*([0-9]+(?:\.[0-9]+)?)[ \t]*(secs|sec|s|ms|us|µs)\b`)
	slowestPattern = regexp.MustCompile(`(?i)\b(?:slowest|max(?:imum)?[ \t]+latency|max):?[ \t]*([0-9]+(?:\.[0-9]+)?)[ \t]*(secs|sec|s|ms|us|µs)\b`)

	// "50.00% in 0.0021 secs" (distribution table) or "p50: 2.1ms".
	distPattern       = regexp.MustCompile(`(?i)\b([0-9]{1,2}(?:\.[0-9]+)?)%[ \t]+in[ \t]+([0-9]+(?:\.[0-9]+)?)[ \t]*(secs|sec|s|ms|us|µs)\b`)
	percentilePattern = regexp.MustCompile(`(?i)\bp(50|90|95|99):?[ \t]*([0-9]+(?:\.[0-9]+)?)[ \t]*(secs|sec|s|ms|us|µs)\b`)

	dataRatePattern = regexp.MustCompile(`(?i)\b(?:size/sec|transfer/sec|data/sec):?[ \t]*([0-9]+(?:\.[0-9]+)?[ \t]*[KMGT]?i?B)`)
)

// errorMarkers are the recognized prefixes/phrases of diagnostic lines.
// Matching is case-insensitive; the text from the marker to the end of the
// line is reported.
var errorMarkers = []string{
	"error:",
	"failed to",
	"dns resolution failed",
	"ssl error",
	"tls handshake",
	"connection refused",
	"connection reset",
	"too many open files",
	"timeout while",
}

// Parse converts captured output into a TestResult. It never fails; fields
// whose labels are absent stay zeroed, and the raw text is always preserved.
func Parse(raw string) *TestResult {
	res := &TestResult{Raw: raw}

	trimmed := strings.TrimSpace(raw)
	if strings.HasPrefix(trimmed, "{") && parseJSON(trimmed, res) {
		res.Errors = ExtractErrors(raw)
		return res
	}

	if v, ok := firstFloat(raw, throughputPatterns); ok {
		res.RequestsPerSecond = v
	}
	if v, ok := firstInt(raw, totalPatterns); ok {
		res.TotalRequests = v
	}

	rate, hasRate := firstFloat(raw, successPatterns)
	switch {
	case hasRate:
		res.SuccessRate = rate
	case res.TotalRequests > 0:
		// A report that states a total but no success rate is taken as
		// fully successful, not as missing data.
		res.SuccessRate = 100
	}
	res.FailedRequests = deriveFailed(res.TotalRequests, res.SuccessRate)

	if ext := parseExtended(raw); !ext.empty() {
		res.Extended = ext
	}
	res.Errors = ExtractErrors(raw)
	return res
}

// LooksLikeReport reports whether the text plausibly came from the load
// binary, as opposed to an unrelated error dump. Callers use it to decide
// between showing a parsed result and a raw-error path.
func LooksLikeReport(raw string) bool {
	lower := strings.ToLower(raw)
	if strings.Contains(lower, "summary:") ||
		strings.Contains(lower, "latency distribution") ||
		strings.Contains(lower, "response time distribution") ||
		strings.Contains(lower, "status code distribution") {
		return true
	}
	for _, patterns := range [][]*regexp.Regexp{throughputPatterns, totalPatterns, successPatterns} {
		if _, ok := firstMatch(raw, patterns); ok {
			return true
		}
	}
	return false
}

// ExtractErrors returns the descriptive portion of every line containing a
// recognized error marker, preserving line order.
func ExtractErrors(raw string) []string {
	var out []string
	for _, line := range strings.Split(raw, "\n") {
		lower := strings.ToLower(line)
		best := -1
		for _, marker := range errorMarkers {
			if idx := strings.Index(lower, marker); idx >= 0 && (best < 0 || idx < best) {
				best = idx
			}
		}
		if best >= 0 {
			if msg := strings.TrimSpace(line[best:]); msg != "" {
				out = append(out, msg)
			}
		}
	}
	return out
}

func parseExtended(raw string) *ExtendedStats {
	ext := &ExtendedStats{}

	if m := fastestPattern.FindStringSubmatch(raw); m != nil {
		ext.FastestSeconds = toSeconds(m[1], m[2])
	}
	if m := averagePattern.FindStringSubmatch(raw); m != nil {
		ext.AverageSeconds = toSeconds(m[1], m[2])
	}
	if m := slowestPattern.FindStringSubmatch(raw); m != nil {
		ext.SlowestSeconds = toSeconds(m[1], m[2])
	}

	// Distribution table rows; first occurrence per percentile wins.
	for _, m := range distPattern.FindAllStringSubmatch(raw, -1) {
		assignPercentile(ext, m[1], m[2], m[3])
	}
	for _, m := range percentilePattern.FindAllStringSubmatch(raw, -1) {
		assignPercentile(ext, m[1], m[2], m[3])
	}

	if m := dataRatePattern.FindStringSubmatch(raw); m != nil {
		rate := strings.Join(strings.Fields(m[1]), " ")
		ext.DataPerSecond = &rate
	}
	return ext
}

func assignPercentile(ext *ExtendedStats, pct, value, unit string) {
	p, err := strconv.ParseFloat(pct, 64)
	if err != nil {
		return
	}
	secs := toSeconds(value, unit)
	if secs == nil {
		return
	}
	switch p {
	case 50:
		if ext.P50Seconds == nil {
			ext.P50Seconds = secs
		}
	case 90:
		if ext.P90Seconds == nil {
			ext.P90Seconds = secs
		}
	case 95:
		if ext.P95Seconds == nil {
			ext.P95Seconds = secs
		}
	case 99:
		if ext.P99Seconds == nil {
			ext.P99Seconds = secs
		}
	}
}

// toSeconds normalizes a latency value to seconds.
func toSeconds(value, unit string) *float64 {
	v, err := strconv.ParseFloat(strings.ReplaceAll(value, ",", ""), 64)
	if err != nil {
		return nil
	}
	switch strings.ToLower(unit) {
	case "ms":
		v /= 1000
	case "us", "µs":
		v /= 1e6
	}
	return &v
}

// firstMatch tries each pattern in priority order and returns the first
// captured group of the first pattern that matches.
func firstMatch(raw string, patterns []*regexp.Regexp) (string, bool) {
	for _, p := range patterns {
		if m := p.FindStringSubmatch(raw); m != nil {
			return m[1], true
		}
	}
	return "", false
}

func firstFloat(raw string, patterns []*regexp.Regexp) (float64, bool) {
	s, ok := firstMatch(raw, patterns)
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func firstInt(raw string, patterns []*regexp.Regexp) (int, bool) {
	s, ok := firstMatch(raw, patterns)
	if !ok {
		return 0, false
	}
	v, err := strconv.Atoi(strings.ReplaceAll(s, ",", ""))
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}
