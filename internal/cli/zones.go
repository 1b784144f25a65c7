package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"civseq/internal/tzrules"
)

// ZoneInfo describes one built-in zone for the zones command.
type ZoneInfo struct {
	Name        string `json:"name"`
	StdOffset   string `json:"std_offset"`
	DSTOffset   string `json:"dst_offset,omitempty"`
	ObservesDST bool   `json:"observes_dst"`
}

// NewZonesCommand creates the zones command.
func NewZonesCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "zones",
		Short:         "List built-in zone rule tables",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := &OutputFormatter{
				Format:    rootOpts.Format,
				Writer:    cmd.OutOrStdout(),
				ErrWriter: cmd.ErrOrStderr(),
				Verbose:   rootOpts.Verbose,
			}

			infos := make([]ZoneInfo, 0)
			var lines []string
			for _, name := range tzrules.BuiltinNames() {
				rules, _ := tzrules.Builtin(name)
				info := ZoneInfo{
					Name:        rules.Name(),
					StdOffset:   rules.StdOffset().String(),
					ObservesDST: rules.ObservesDST(),
				}
				line := rules.Name() + " (std " + info.StdOffset
				if rules.ObservesDST() {
					info.DSTOffset = rules.DSTOffset().String()
					line += ", dst " + info.DSTOffset
				}
				line += ")"
				infos = append(infos, info)
				lines = append(lines, line)
			}
			return formatter.Success(infos, strings.Join(lines, "\n"))
		},
	}
}
