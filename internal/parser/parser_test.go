package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ohaStyleReport = `Summary:
  Success rate: 100.00%
  Total:        1000 requests
  Slowest:      0.3941 secs
  Fastest:      0.0012 secs
  Average:      0.0345 secs
  Requests/sec: 299.0098

  Size/sec:     6.44 MiB

Response time distribution:
  10.00% in 0.0100 secs
  50.00% in 0.0295 secs
  90.00% in 0.0823 secs
  95.00% in 0.1210 secs
  99.00% in 0.2933 secs
`

func TestParse_FullReport(t *testing.T) {
	res := Parse(ohaStyleReport)

	assert.InDelta(t, 299.0098, res.RequestsPerSecond, 0.0001)
	assert.Equal(t, 1000, res.TotalRequests)
	assert.Equal(t, 100.0, res.SuccessRate)
	assert.Equal(t, 0, res.FailedRequests)
	assert.Equal(t, ohaStyleReport, res.Raw, "raw text preserved verbatim")

	require.NotNil(t, res.Extended)
	require.NotNil(t, res.Extended.AverageSeconds)
	assert.InDelta(t, 0.0345, *res.Extended.AverageSeconds, 0.0001)
	require.NotNil(t, res.Extended.FastestSeconds)
	assert.InDelta(t, 0.0012, *res.Extended.FastestSeconds, 0.0001)
	require.NotNil(t, res.Extended.SlowestSeconds)
	assert.InDelta(t, 0.3941, *res.Extended.SlowestSeconds, 0.0001)
	require.NotNil(t, res.Extended.P50Seconds)
	assert.InDelta(t, 0.0295, *res.Extended.P50Seconds, 0.0001)
	require.NotNil(t, res.Extended.P99Seconds)
	assert.InDelta(t, 0.2933, *res.Extended.P99Seconds, 0.0001)
	require.NotNil(t, res.Extended.DataPerSecond)
	assert.Equal(t, "6.44 MiB", *res.Extended.DataPerSecond)
}

func TestParse_FailedRequestRounding(t *testing.T) {
	res := Parse("Success rate: 95.50%\nTotal: 1000 requests\n")

	assert.Equal(t, 1000, res.TotalRequests)
	assert.InDelta(t, 95.50, res.SuccessRate, 0.001)
	assert.Equal(t, 45, res.FailedRequests, "1000 − round(955) = 45")
}

func TestParse_EmptyInput(t *testing.T) {
	res := Parse("")

	assert.Zero(t, res.RequestsPerSecond)
	assert.Zero(t, res.TotalRequests)
	assert.Zero(t, res.SuccessRate)
	assert.Zero(t, res.FailedRequests)
	assert.Equal(t, "", res.Raw)
	assert.Nil(t, res.Extended)
	assert.Empty(t, res.Errors)
}

func TestParse_PartialExtraction(t *testing.T) {
	res := Parse("Requests/sec: 75.5\n")

	assert.InDelta(t, 75.5, res.RequestsPerSecond, 0.0001)
	assert.Equal(t, 0, res.TotalRequests)
	assert.Equal(t, 0.0, res.SuccessRate)
	assert.Equal(t, 0, res.FailedRequests)
}

func TestParse_TotalWithoutRateAssumesFullSuccess(t *testing.T) {
	res := Parse("Total: 500 requests\n")

	assert.Equal(t, 500, res.TotalRequests)
	assert.Equal(t, 100.0, res.SuccessRate)
	assert.Equal(t, 0, res.FailedRequests)
}

func TestParse_LabelVariants(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		check func(t *testing.T, res *TestResult)
	}{
		{
			name: "RPS variant",
			text: "RPS: 1234.5\n",
			check: func(t *testing.T, res *TestResult) {
				assert.InDelta(t, 1234.5, res.RequestsPerSecond, 0.001)
			},
		},
		{
			name: "req/s variant",
			text: "throughput was 88.25 req/s overall\n",
			check: func(t *testing.T, res *TestResult) {
				assert.InDelta(t, 88.25, res.RequestsPerSecond, 0.001)
			},
		},
		{
			name: "N total requests variant",
			text: "ran 2500 total requests\n",
			check: func(t *testing.T, res *TestResult) {
				assert.Equal(t, 2500, res.TotalRequests)
			},
		},
		{
			name: "Completed N requests variant",
			text: "Completed 123 requests in 10s\n",
			check: func(t *testing.T, res *TestResult) {
				assert.Equal(t, 123, res.TotalRequests)
			},
		},
		{
			name: "percent success variant",
			text: "Total: 200 requests\n98.5% success\n",
			check: func(t *testing.T, res *TestResult) {
				assert.InDelta(t, 98.5, res.SuccessRate, 0.001)
				assert.Equal(t, 3, res.FailedRequests)
			},
		},
		{
			name: "case and whitespace tolerance",
			text: "REQUESTS/SEC:\t 42.0\nTOTAL:   10\trequests\n",
			check: func(t *testing.T, res *TestResult) {
				assert.InDelta(t, 42.0, res.RequestsPerSecond, 0.001)
				assert.Equal(t, 10, res.TotalRequests)
			},
		},
		{
			name: "thousands separators",
			text: "Total: 1,250,000 requests\nRequests/sec: 12,500.5\n",
			check: func(t *testing.T, res *TestResult) {
				assert.Equal(t, 1250000, res.TotalRequests)
				assert.InDelta(t, 12500.5, res.RequestsPerSecond, 0.001)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, Parse(tt.text))
		})
	}
}

func TestParse_FirstMatchWins(t *testing.T) {
	text := "Requests/sec: 100.0\nRequests/sec: 200.0\nTotal: 10 requests\nTotal: 99 requests\n"
	res := Parse(text)

	assert.InDelta(t, 100.0, res.RequestsPerSecond, 0.001, "first occurrence wins")
	assert.Equal(t, 10, res.TotalRequests, "first occurrence wins")
}

func TestParse_HigherPriorityVariantWins(t *testing.T) {
	// "RPS" appears earlier in the document, but "Requests/sec" is the
	// higher-priority variant and is preferred.
	text := "RPS: 50.0\nRequests/sec: 75.0\n"
	res := Parse(text)

	assert.InDelta(t, 75.0, res.RequestsPerSecond, 0.001)
}

func TestParse_MillisecondLatencies(t *testing.T) {
	res := Parse("avg latency: 12.5ms\np50: 9ms\np99: 340ms\nRequests/sec: 10\n")

	require.NotNil(t, res.Extended)
	require.NotNil(t, res.Extended.AverageSeconds)
	assert.InDelta(t, 0.0125, *res.Extended.AverageSeconds, 0.00001)
	require.NotNil(t, res.Extended.P50Seconds)
	assert.InDelta(t, 0.009, *res.Extended.P50Seconds, 0.00001)
	require.NotNil(t, res.Extended.P99Seconds)
	assert.InDelta(t, 0.34, *res.Extended.P99Seconds, 0.00001)
	assert.Nil(t, res.Extended.P90Seconds, "absent percentile stays nil")
}

func TestParse_GarbledInputNeverPanics(t *testing.T) {
	inputs := []string{
		"Requests/sec: ",
		"Total: requests",
		"Success rate: %",
		"%%%%%\x00\xff",
		"Requests/sec: 1e309",
		"50% in secs",
	}
	for _, in := range inputs {
		res := Parse(in)
		require.NotNil(t, res)
		assert.Equal(t, in, res.Raw)
	}
}

func TestExtractErrors(t *testing.T) {
	text := `Summary:
  Requests/sec: 10.0
Error: connection refused to 10.0.0.5:443
all good here
  Failed to resolve host api.internal
DNS resolution failed for api.internal
some noise SSL error: handshake aborted
`
	errs := ExtractErrors(text)

	require.Len(t, errs, 4)
	assert.Equal(t, "Error: connection refused to 10.0.0.5:443", errs[0])
	assert.Equal(t, "Failed to resolve host api.internal", errs[1])
	assert.Equal(t, "DNS resolution failed for api.internal", errs[2])
	assert.Equal(t, "SSL error: handshake aborted", errs[3])
}

func TestExtractErrors_NoMarkers(t *testing.T) {
	assert.Empty(t, ExtractErrors("Summary:\n  Requests/sec: 10\n"))
}

func TestLooksLikeReport(t *testing.T) {
	assert.True(t, LooksLikeReport(ohaStyleReport))
	assert.True(t, LooksLikeReport("Requests/sec: 10.0"))
	assert.True(t, LooksLikeReport("total: 5 requests"))
	assert.True(t, LooksLikeReport("Success rate: 99.00%"))

	assert.False(t, LooksLikeReport(""))
	assert.False(t, LooksLikeReport("panic: runtime error: index out of range"))
	assert.False(t, LooksLikeReport("command not found"))
}

const jsonReport = `{
  "summary": {
    "successRate": 0.98,
    "total": 10.01,
    "slowest": 0.392,
    "fastest": 0.002,
    "average": 0.034,
    "requestsPerSec": 299.0098
  },
  "latencyPercentiles": {
    "p50": 0.029,
    "p90": 0.081,
    "p95": 0.12,
    "p99": 0.29
  },
  "statusCodeDistribution": { "200": 980, "500": 10 },
  "errorDistribution": { "connection refused": 10 }
}`

func TestParse_JSONReport(t *testing.T) {
	res := Parse(jsonReport)

	assert.InDelta(t, 299.0098, res.RequestsPerSecond, 0.0001)
	assert.Equal(t, 1000, res.TotalRequests, "total is the sum of status and error counts")
	assert.InDelta(t, 98.0, res.SuccessRate, 0.001)
	assert.Equal(t, 20, res.FailedRequests)

	require.NotNil(t, res.Extended)
	require.NotNil(t, res.Extended.P95Seconds)
	assert.InDelta(t, 0.12, *res.Extended.P95Seconds, 0.0001)
	require.NotNil(t, res.Extended.AverageSeconds)
	assert.InDelta(t, 0.034, *res.Extended.AverageSeconds, 0.0001)
}

func TestParse_JSONWithoutSummaryFallsBackToText(t *testing.T) {
	// Valid JSON but not a report; the text rules still get a chance.
	res := Parse(`{"message": "Requests/sec: 50.0"}`)
	assert.InDelta(t, 50.0, res.RequestsPerSecond, 0.001)
}

func TestDeriveFailed_EdgeRates(t *testing.T) {
	tests := []struct {
		total int
		rate  float64
		want  int
	}{
		{1000, 100, 0},
		{1000, 95.5, 45},
		{1000, 99.999, 0}, // round(999.99) = 1000; documented ±1 behavior
		{1000, 0, 1000},
		{0, 50, 0},
		{3, 50, 1}, // round(1.5) = 2 succeeded
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, deriveFailed(tt.total, tt.rate),
			"total=%d rate=%v", tt.total, tt.rate)
	}
}
