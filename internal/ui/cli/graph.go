package cli

import (
	"bytes"
	"context"
	"fmt"

	"shadow/internal/core/errors"
	"shadow/internal/shared/util"
	"shadow/internal/ui/report"

	"github.com/spf13/cobra"
)

type graphOptions struct {
	cycles bool
	inject string
	marker string
	output string
}

// NewGraphCmd creates the "graph" subcommand.
func NewGraphCmd(global *globalOptions) *cobra.Command {
	var opts graphOptions

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Export the workspace dependency graph",
		Long: "Graph scans the workspace and prints its import graph. --cycles lists import cycles " +
			"instead. --inject writes a mermaid diagram between <!-- shadow:<marker>:start --> and " +
			"<!-- shadow:<marker>:end --> in a markdown file. --output writes the export to a file.",
		Args: cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.cycles && (opts.inject != "" || opts.output != "") {
				return fmt.Errorf("--cycles cannot be combined with --inject or --output")
			}
			if opts.inject != "" && opts.output != "" {
				return fmt.Errorf("--inject and --output cannot be combined")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd, global, func(ctx context.Context, rt *runtime) error {
				if _, err := rt.app.BuildDependencyGraph(ctx, ""); err != nil {
					return err
				}
				cycles, err := rt.app.DetectCycles(ctx)
				if err != nil {
					return err
				}
				if opts.cycles {
					return rt.printer.Cycles(cycles)
				}

				g, err := rt.app.CurrentGraph()
				if err != nil {
					return err
				}
				if opts.inject != "" {
					var buf bytes.Buffer
					if err := report.NewPrinter(&buf, report.FormatMermaid, report.ColorNever).Graph(g, cycles); err != nil {
						return err
					}
					diagram := "```mermaid\n" + buf.String() + "```"
					if err := report.InjectDiagram(opts.inject, opts.marker, diagram); err != nil {
						return err
					}
					_, err := fmt.Fprintf(cmd.OutOrStdout(), "Updated %s (%s)\n", opts.inject, opts.marker)
					return err
				}
				if opts.output != "" {
					var buf bytes.Buffer
					format := rt.printer.Format()
					if err := report.NewPrinter(&buf, format, report.ColorNever).Graph(g, cycles); err != nil {
						return err
					}
					if err := util.WriteFileWithDirs(opts.output, buf.Bytes(), 0o644); err != nil {
						return errors.IOFailure(opts.output, err)
					}
					_, err := fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s graph to %s\n", format, opts.output)
					return err
				}
				return rt.printer.Graph(g, cycles)
			})
		},
	}

	cmd.Flags().BoolVar(&opts.cycles, "cycles", false, "List import cycles")
	cmd.Flags().StringVar(&opts.inject, "inject", "", "Markdown file to write a mermaid diagram into")
	cmd.Flags().StringVar(&opts.marker, "marker", "deps", "Marker name used with --inject")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Write the graph export to a file")
	return cmd
}

// NewChainCmd creates the "chain" subcommand.
func NewChainCmd(global *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "chain <from> <to>",
		Short: "Show the shortest import chain between two files",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd, global, func(ctx context.Context, rt *runtime) error {
				if _, err := rt.app.BuildDependencyGraph(ctx, ""); err != nil {
					return err
				}
				from, to := rt.workspacePath(args[0]), rt.workspacePath(args[1])
				chain, found, err := rt.app.TraceImportChain(ctx, from, to)
				if err != nil {
					return err
				}
				return rt.printer.Chain(from, to, chain, found)
			})
		},
	}
}
