package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"civseq/internal/civil"
	"civseq/internal/streamer"
	"civseq/internal/tzrules"
)

// ResolveReport is the payload of the resolve command.
type ResolveReport struct {
	Zone             string `json:"zone"`
	Local            string `json:"local"`
	Classification   string `json:"classification"`
	Instant          string `json:"instant,omitempty"`
	FirstOccurrence  string `json:"first_occurrence,omitempty"`
	SecondOccurrence string `json:"second_occurrence,omitempty"`
}

// NewResolveCommand creates the resolve command.
func NewResolveCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve <zone> <datetime>",
		Short: "Resolve a civil time to UTC instants",
		Long: `Classify a naive local date-time against a zone's DST transition table
and print the matching UTC instant(s).

The zone is a built-in name (see "civseq zones") or a path to a YAML rule
file. Ambiguous fall-back readings print both occurrences; spring-forward
gap readings resolve to nothing and exit non-zero.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(rootOpts, args[0], args[1], cmd)
		},
	}
	return cmd
}

func runResolve(opts *RootOptions, zoneArg, dtArg string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	rules, err := lookupZone(zoneArg)
	if err != nil {
		formatter.Failure("UNKNOWN_ZONE", err.Error(), nil)
		return WrapExitError(ExitCommandError, "zone", err)
	}
	formatter.VerboseLog("zone %s: std=%s dst=%s observes_dst=%t",
		rules.Name(), rules.StdOffset(), rules.DSTOffset(), rules.ObservesDST())

	dt, err := civil.ParseDateTime(dtArg)
	if err != nil {
		formatter.Failure("BAD_DATETIME", err.Error(), nil)
		return WrapExitError(ExitCommandError, "datetime", err)
	}

	report := ResolveReport{
		Zone:           rules.Name(),
		Local:          dt.String(),
		Classification: rules.Classify(dt).String(),
	}

	switch rules.Classify(dt) {
	case tzrules.Ambiguous:
		first, second := streamer.Occurrences(rules, dt)
		report.FirstOccurrence = first.Format(time.RFC3339)
		report.SecondOccurrence = second.Format(time.RFC3339)
		return formatter.Success(report, fmt.Sprintf("%s %s is ambiguous: %s or %s",
			report.Zone, report.Local, report.FirstOccurrence, report.SecondOccurrence))
	case tzrules.Nonexistent:
		formatter.Failure(string(streamer.ErrCodeNonexistentLocalTime),
			fmt.Sprintf("%s does not exist in %s", report.Local, report.Zone), report)
		return NewExitError(ExitFailure, "nonexistent local time")
	default:
		instant, err := streamer.Resolve(rules, dt)
		if err != nil {
			return WrapExitError(ExitFailure, "resolve", err)
		}
		report.Instant = instant.Format(time.RFC3339)
		return formatter.Success(report, fmt.Sprintf("%s %s = %s",
			report.Zone, report.Local, report.Instant))
	}
}

// lookupZone finds a built-in rule table or loads one from a file path.
func lookupZone(name string) (*tzrules.Rules, error) {
	if rules, ok := tzrules.Builtin(name); ok {
		return rules, nil
	}
	rules, err := tzrules.LoadFile(name)
	if err != nil {
		return nil, fmt.Errorf("unknown zone %q (not built in, not a readable rule file): %w", name, err)
	}
	return rules, nil
}
