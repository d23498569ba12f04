package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/volleyhq/volley/internal/config"
)

func validConfig() *config.TestConfig {
	cfg := config.Default()
	cfg.URL = "https://api.example.com/health"
	return cfg
}

// indexOfFlag returns the index of the first occurrence of flag, or -1.
func indexOfFlag(argv []string, flag string) int {
	for i, a := range argv {
		if a == flag {
			return i
		}
	}
	return -1
}

func TestBuild_RequiredArgumentsAlwaysPresent(t *testing.T) {
	argv, err := Build("/usr/local/bin/oha", validConfig())
	require.NoError(t, err)

	assert.Equal(t, "/usr/local/bin/oha", argv[0])
	assert.Equal(t, "https://api.example.com/health", argv[len(argv)-1], "URL must be the final element")

	for _, flag := range []string{"-c", "-z", "-t", "-m", "--no-tui"} {
		assert.NotEqual(t, -1, indexOfFlag(argv, flag), "missing %s", flag)
	}

	assert.Equal(t, "10", argv[indexOfFlag(argv, "-c")+1])
	assert.Equal(t, "30s", argv[indexOfFlag(argv, "-z")+1], "duration is seconds-suffixed")
	assert.Equal(t, "5s", argv[indexOfFlag(argv, "-t")+1], "timeout is seconds-suffixed")
	assert.Equal(t, "GET", argv[indexOfFlag(argv, "-m")+1])
}

func TestBuild_HeadersPreserveOrder(t *testing.T) {
	cfg := validConfig()
	cfg.Headers = []config.Header{
		{Name: "Content-Type", Value: "application/json"},
		{Name: "Authorization", Value: "Bearer abc 123"},
		{Name: "X-Weird", Value: `va"lue; $(rm -rf /)`},
	}

	argv, err := Build("oha", cfg)
	require.NoError(t, err)

	var headers []string
	for i, a := range argv {
		if a == "-H" {
			headers = append(headers, argv[i+1])
		}
	}
	require.Equal(t, []string{
		"Content-Type: application/json",
		"Authorization: Bearer abc 123",
		`X-Weird: va"lue; $(rm -rf /)`,
	}, headers, "one -H per header, insertion order, content verbatim")
}

func TestBuild_BodyOnlyForPayloadMethods(t *testing.T) {
	body := "line one\nline \"two\" with quotes"

	for _, method := range []string{"GET", "DELETE"} {
		cfg := validConfig()
		cfg.Method = method
		cfg.Body = body

		argv, err := Build("oha", cfg)
		require.NoError(t, err)
		assert.Equal(t, -1, indexOfFlag(argv, "-d"), "%s must not carry a body flag", method)
	}

	for _, method := range []string{"POST", "PUT", "PATCH"} {
		cfg := validConfig()
		cfg.Method = method
		cfg.Body = body

		argv, err := Build("oha", cfg)
		require.NoError(t, err)

		idx := indexOfFlag(argv, "-d")
		require.NotEqual(t, -1, idx, "%s with a body must carry -d", method)
		assert.Equal(t, body, argv[idx+1], "body must be passed verbatim")
	}
}

func TestBuild_EmptyBodyOmitted(t *testing.T) {
	cfg := validConfig()
	cfg.Method = "POST"
	cfg.Body = ""

	argv, err := Build("oha", cfg)
	require.NoError(t, err)
	assert.Equal(t, -1, indexOfFlag(argv, "-d"))
}

func TestBuild_InvalidConfigurationProducesNoVector(t *testing.T) {
	cfg := validConfig()
	cfg.URL = "ftp://example.com"

	argv, err := Build("oha", cfg)
	assert.Error(t, err)
	assert.Nil(t, argv, "no partial vector on validation failure")
}

func TestBuild_ReturnsFreshSlice(t *testing.T) {
	cfg := validConfig()
	first, err := Build("oha", cfg)
	require.NoError(t, err)
	second, err := Build("oha", cfg)
	require.NoError(t, err)

	first[0] = "mutated"
	assert.Equal(t, "oha", second[0])
}

func TestSmokeTest(t *testing.T) {
	argv := SmokeTest("/opt/oha")

	assert.Equal(t, "/opt/oha", argv[0])
	assert.Equal(t, SmokeTestURL, argv[len(argv)-1])
	assert.NotEqual(t, -1, indexOfFlag(argv, "--no-tui"))
	assert.Equal(t, "1", argv[indexOfFlag(argv, "-c")+1])
	assert.Equal(t, "1s", argv[indexOfFlag(argv, "-z")+1])
}
