package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/volleyhq/volley/internal/binary"
	"github.com/volleyhq/volley/internal/command"
	"github.com/volleyhq/volley/internal/executor"
	"github.com/volleyhq/volley/internal/logging"
)

// smokeTestTimeout bounds the doctor's one-second smoke run with room for
// slow DNS.
const smokeTestTimeout = 30 * time.Second

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Verify that the oha binary is installed and runnable",
	Long: `Locate the oha binary and run a minimal one-second smoke test against
a known URL. Reports every location checked when the binary is missing.`,
	RunE: runDoctor,
}

func runDoctor(cmd *cobra.Command, args []string) error {
	ok := color.New(color.FgGreen, color.Bold)
	fail := color.New(color.FgRed, color.Bold)
	if colorDisabled() {
		ok.DisableColor()
		fail.DisableColor()
	}

	binPath, err := binary.Find(command.BinaryName, extraRoots())
	if err != nil {
		var notFound *binary.NotFoundError
		if errors.As(err, &notFound) {
			fmt.Println(fail.Sprint("✗") + " oha not found; checked:")
			for _, loc := range notFound.Checked {
				fmt.Println("    " + loc)
			}
			fmt.Println("  install it with 'cargo install oha' or 'brew install oha'")
		}
		return err
	}
	fmt.Println(ok.Sprint("✓") + " found " + binPath)

	ex := executor.New(logging.New(logLevel, logFile))
	defer ex.Close()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	result, err := ex.Run(ctx, command.SmokeTest(binPath), smokeTestTimeout, nil)
	if err != nil {
		fmt.Println(fail.Sprint("✗") + " smoke test failed")
		return err
	}
	fmt.Println(ok.Sprint("✓") + fmt.Sprintf(" smoke test passed (%d requests, %.1f req/s)",
		result.TotalRequests, result.RequestsPerSecond))
	return nil
}
