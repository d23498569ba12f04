package parser

import "github.com/tidwall/gjson"

// parseJSON handles the binary's --json report layout. The builder never
// requests JSON output itself, but captures produced by running the binary
// by hand are accepted too. Returns false when the text is not a
// recognizable JSON report, in which case the text rules run instead.
func parseJSON(raw string, res *TestResult) bool {
	if !gjson.Valid(raw) {
		return false
	}
	summary := gjson.Get(raw, "summary")
	if !summary.Exists() {
		return false
	}

	if v := summary.Get("requestsPerSec"); v.Exists() {
		res.RequestsPerSecond = v.Float()
	}

	// The JSON layout reports no request total directly; it is the sum of
	// the per-status and per-error counts.
	total := 0
	countValues := func(_, value gjson.Result) bool {
		total += int(value.Int())
		return true
	}
	gjson.Get(raw, "statusCodeDistribution").ForEach(countValues)
	gjson.Get(raw, "errorDistribution").ForEach(countValues)
	res.TotalRequests = total

	if v := summary.Get("successRate"); v.Exists() {
		// successRate is a fraction in [0, 1] here.
		res.SuccessRate = v.Float() * 100
	} else if total > 0 {
		res.SuccessRate = 100
	}
	res.FailedRequests = deriveFailed(res.TotalRequests, res.SuccessRate)

	ext := &ExtendedStats{}
	if v := summary.Get("fastest"); v.Exists() {
		f := v.Float()
		ext.FastestSeconds = &f
	}
	if v := summary.Get("average"); v.Exists() {
		f := v.Float()
		ext.AverageSeconds = &f
	}
	if v := summary.Get("slowest"); v.Exists() {
		f := v.Float()
		ext.SlowestSeconds = &f
	}
	for path, field := range map[string]**float64{
		"latencyPercentiles.p50": &ext.P50Seconds,
		"latencyPercentiles.p90": &ext.P90Seconds,
		"latencyPercentiles.p95": &ext.P95Seconds,
		"latencyPercentiles.p99": &ext.P99Seconds,
	} {
		if v := gjson.Get(raw, path); v.Exists() {
			f := v.Float()
			*field = &f
		}
	}
	if !ext.empty() {
		res.Extended = ext
	}
	return true
}
