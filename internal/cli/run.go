package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/volleyhq/volley/internal/binary"
	"github.com/volleyhq/volley/internal/command"
	"github.com/volleyhq/volley/internal/config"
	"github.com/volleyhq/volley/internal/executor"
	"github.com/volleyhq/volley/internal/logging"
	"github.com/volleyhq/volley/internal/output"
	"github.com/volleyhq/volley/internal/parser"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a load test",
	Long: `Run a load test against a URL, either from flags or from a YAML/JSON
definition file. Output from the load binary is streamed while the test
runs, followed by the parsed summary.

Flag mode:
  volley run --url https://api.example.com/health --connections 50 --duration 30

Definition file mode:
  volley run --config checkout.yaml`,
	RunE: runLoadTest,
}

func init() {
	registerRunFlags(runCmd)
}

func registerRunFlags(cmd *cobra.Command) {
	cmd.Flags().String("config", "", "test definition file (YAML or JSON)")
	cmd.Flags().String("url", "", "target URL (http or https)")
	cmd.Flags().String("method", "GET", "HTTP method (GET|POST|PUT|DELETE|PATCH)")
	cmd.Flags().IntP("connections", "c", 10, "concurrent connections")
	cmd.Flags().IntP("duration", "z", 30, "test duration in seconds")
	cmd.Flags().IntP("timeout", "t", 5, "per-request timeout in seconds")
	cmd.Flags().StringArrayP("header", "H", nil, "request header as 'Name: Value' (repeatable)")
	cmd.Flags().StringP("body", "d", "", "request body")
	cmd.Flags().String("body-file", "", "read the request body from a file")
	cmd.Flags().Duration("max-wait", 0, "abort if the test has not finished after this long (0 = duration + 60s)")
	cmd.Flags().Bool("quiet", false, "suppress streamed output, print only the summary")
}

func runLoadTest(cmd *cobra.Command, args []string) error {
	cfg, err := configFromFlags(cmd)
	if err != nil {
		return err
	}

	binPath, err := binary.Find(command.BinaryName, extraRoots())
	if err != nil {
		return err
	}

	argv, err := command.Build(binPath, cfg)
	if err != nil {
		return err
	}

	maxWait, _ := cmd.Flags().GetDuration("max-wait")
	if maxWait == 0 {
		// Leave generous headroom over the test itself before declaring
		// the child wedged.
		maxWait = time.Duration(cfg.DurationSeconds)*time.Second + 60*time.Second
	}

	quiet, _ := cmd.Flags().GetBool("quiet")
	var onChunk executor.OutputFunc
	if !quiet {
		onChunk = func(chunk string) { fmt.Print(chunk) }
	}

	log := logging.New(logLevel, logFile)
	ex := executor.New(log)
	defer ex.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	result, runErr := ex.Run(ctx, argv, maxWait, onChunk)

	var timeoutErr *executor.TimeoutError
	switch {
	case errors.As(runErr, &timeoutErr):
		return fmt.Errorf("test did not finish within %s (use --max-wait to raise the limit)", maxWait)
	case errors.Is(runErr, context.Canceled):
		fmt.Fprintln(os.Stderr, "interrupted; test stopped")
	case runErr != nil && result == nil:
		return runErr
	}

	if result == nil {
		return errors.New("no result produced")
	}

	formatter := output.NewFormatter(colorDisabled())
	if !parser.LooksLikeReport(result.Raw) {
		// The output does not look like a report; show it raw together
		// with any recognizable error lines instead of a zeroed summary.
		fmt.Fprintln(os.Stderr, "output did not look like a load-test report:")
		fmt.Fprintln(os.Stderr, strings.TrimSpace(result.Raw))
		for _, line := range result.Errors {
			fmt.Fprintln(os.Stderr, "  "+line)
		}
		if runErr != nil {
			return runErr
		}
		return errors.New("unrecognized output")
	}

	fmt.Println()
	fmt.Print(formatter.FormatResult(result))
	return runErr
}

// configFromFlags assembles a TestConfig from --config or from individual
// flags; flags win over file values when both are given.
func configFromFlags(cmd *cobra.Command) (*config.TestConfig, error) {
	configFile, _ := cmd.Flags().GetString("config")

	var cfg *config.TestConfig
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		cfg = config.Default()
	}

	if cmd.Flags().Changed("url") {
		cfg.URL, _ = cmd.Flags().GetString("url")
	}
	if cmd.Flags().Changed("method") {
		cfg.Method, _ = cmd.Flags().GetString("method")
	}
	if cmd.Flags().Changed("connections") {
		cfg.Connections, _ = cmd.Flags().GetInt("connections")
	}
	if cmd.Flags().Changed("duration") {
		cfg.DurationSeconds, _ = cmd.Flags().GetInt("duration")
	}
	if cmd.Flags().Changed("timeout") {
		cfg.TimeoutSeconds, _ = cmd.Flags().GetInt("timeout")
	}

	headers, _ := cmd.Flags().GetStringArray("header")
	for _, raw := range headers {
		name, value, found := strings.Cut(raw, ":")
		if !found {
			return nil, fmt.Errorf("invalid header %q: expected 'Name: Value'", raw)
		}
		cfg.Headers = append(cfg.Headers, config.Header{
			Name:  strings.TrimSpace(name),
			Value: strings.TrimSpace(value),
		})
	}

	if bodyFile, _ := cmd.Flags().GetString("body-file"); bodyFile != "" {
		data, err := os.ReadFile(bodyFile)
		if err != nil {
			return nil, fmt.Errorf("reading body file: %w", err)
		}
		cfg.Body = string(data)
	} else if cmd.Flags().Changed("body") {
		cfg.Body, _ = cmd.Flags().GetString("body")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func extraRoots() []string {
	if binaryDir == "" {
		return nil
	}
	return []string{binaryDir}
}

func colorDisabled() bool {
	return noColor || !isatty.IsTerminal(os.Stdout.Fd())
}
