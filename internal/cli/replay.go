package cli

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"civseq/internal/harness"
)

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	var streamToken string

	cmd := &cobra.Command{
		Use:   "replay <scenario.yaml>",
		Short: "Replay a sequencer scenario and print its trace",
		Long: `Load a YAML scenario, drive a fresh streamer through its steps, and
print the resulting trace of instants and deltas.

Expectation mismatches are reported and exit non-zero. Without
--stream-token the run is stamped with a generated token.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(rootOpts, args[0], streamToken, cmd)
		},
	}

	cmd.Flags().StringVar(&streamToken, "stream-token", "", "fixed stream token for reproducible output")
	return cmd
}

func runReplay(opts *RootOptions, path, streamToken string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	scenario, err := harness.LoadScenario(path)
	if err != nil {
		formatter.Failure("BAD_SCENARIO", err.Error(), nil)
		return WrapExitError(ExitCommandError, "scenario", err)
	}
	if streamToken != "" {
		scenario.StreamToken = streamToken
	} else if scenario.StreamToken == "" {
		scenario.StreamToken = uuid.NewString()
	}
	formatter.VerboseLog("scenario %s: zone=%s steps=%d token=%s",
		scenario.Name, scenario.Zone, len(scenario.Steps), scenario.StreamToken)

	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: replayLogLevel(opts)}))
	result, err := harness.RunWithLogger(scenario, logger)
	if err != nil {
		formatter.Failure("RUN_FAILED", err.Error(), nil)
		return WrapExitError(ExitCommandError, "replay", err)
	}

	if err := formatter.Success(result, renderTrace(result)); err != nil {
		return err
	}
	if !result.Pass {
		return NewExitError(ExitFailure, fmt.Sprintf("%d expectation mismatch(es)", len(result.Errors)))
	}
	return nil
}

func replayLogLevel(opts *RootOptions) slog.Level {
	if opts.Verbose {
		return slog.LevelDebug
	}
	return slog.LevelWarn
}

// renderTrace renders the text form of a replay result.
func renderTrace(result *harness.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "stream %s\n", result.StreamToken)
	for _, ev := range result.Trace {
		if ev.Error != "" {
			fmt.Fprintf(&b, "%3d  %-8s %-22s !%s\n", ev.Seq, ev.Op, ev.Arg, ev.Error)
			continue
		}
		rolled := ""
		if ev.DayRolled {
			rolled = " (day rolled)"
		}
		fmt.Fprintf(&b, "%3d  %-8s %-22s %s  delta=%s%s\n", ev.Seq, ev.Op, ev.Arg, ev.Instant, ev.Delta, rolled)
	}
	for _, msg := range result.Errors {
		fmt.Fprintf(&b, "FAIL %s\n", msg)
	}
	if result.Pass {
		b.WriteString("PASS")
	} else {
		b.WriteString("FAIL")
	}
	return b.String()
}
