package commands

import (
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/wildstat/internal/analytics"
	"github.com/leapstack-labs/wildstat/internal/cli/output"
)

// NewReportCommand creates the report command.
func NewReportCommand() *cobra.Command {
	var partial bool

	cmd := &cobra.Command{
		Use:   "report [kind...]",
		Short: "Compute analytics reports",
		Long: `Load the park from the database and compute analytics reports.

With no arguments all five reports are computed into one combined report.
Name kinds to compute only those: basic, animals, guests, guiders, complex.
Report names such as basic_stats are accepted too.

By default one failing report fails the whole command and nothing is
printed. With --partial the reports that succeeded are printed and the
failures are returned afterwards.

Output adapts to environment:
  - Terminal: Styled headings and tables
  - Piped/Scripted: Markdown format
  - JSON/YAML: Machine-readable format`,
		Example: `  # Every report
  wildstat report

  # Two reports as JSON
  wildstat report basic guiders --output json

  # Keep going past malformed guest data
  wildstat report --partial`,
		ValidArgsFunction: func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
			names := make([]string, 0, len(analytics.Kinds()))
			for _, k := range analytics.Kinds() {
				names = append(names, k.String())
			}
			return names, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd, args, partial)
		},
	}

	cmd.Flags().BoolVar(&partial, "partial", false, "Print the reports that succeeded even if others fail")
	return cmd
}

func runReport(cmd *cobra.Command, args []string, partial bool) error {
	kinds := make([]analytics.Kind, 0, len(args))
	for _, arg := range args {
		k, err := analytics.ParseKind(arg)
		if err != nil {
			return err
		}
		kinds = append(kinds, k)
	}
	if len(kinds) == 0 {
		kinds = analytics.Kinds()
	}

	cc, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := cmd.Context()
	snap, err := cc.Store.Load(ctx)
	if err != nil {
		return err
	}
	a := analytics.New(snap, cc.Logger)

	if len(kinds) == 1 {
		report, err := a.Run(ctx, kinds[0])
		if err != nil {
			return err
		}
		return cc.Renderer.Tree(output.Title(kinds[0].ReportName()), report)
	}

	if partial {
		combined, runErr := a.SelectPartial(ctx, kinds...)
		if len(combined.Reports()) > 0 {
			if err := cc.Renderer.Tree("Wildlife Analytics", combined); err != nil {
				return err
			}
		}
		return runErr
	}

	combined, err := a.Select(ctx, kinds...)
	if err != nil {
		return err
	}
	return cc.Renderer.Tree("Wildlife Analytics", combined)
}
