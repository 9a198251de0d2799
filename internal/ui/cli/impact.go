package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"shadow/internal/core/errors"
	"shadow/internal/engine/graph"

	"github.com/spf13/cobra"
)

// NewImpactCmd creates the "impact" subcommand.
func NewImpactCmd(global *globalOptions) *cobra.Command {
	var patchFile string

	cmd := &cobra.Command{
		Use:   "impact [files...]",
		Short: "Estimate which workspace files a change can affect",
		Long: "Impact scans the workspace, then walks importers of the changed files. Changed files " +
			"come from the arguments or from a unified diff given with --patch (- reads stdin).",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && patchFile == "" {
				return fmt.Errorf("at least one file or --patch is required")
			}
			if len(args) > 0 && patchFile != "" {
				return fmt.Errorf("files and --patch cannot be combined")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd, global, func(ctx context.Context, rt *runtime) error {
				if _, err := rt.app.BuildDependencyGraph(ctx, ""); err != nil {
					return err
				}

				var (
					result graph.ImpactAnalysis
					err    error
				)
				if patchFile != "" {
					text, readErr := readPatch(cmd.InOrStdin(), patchFile)
					if readErr != nil {
						return readErr
					}
					result, err = rt.app.AnalyzeImpactFromPatch(ctx, text)
				} else {
					changed := make([]string, 0, len(args))
					for _, arg := range args {
						changed = append(changed, rt.workspacePath(arg))
					}
					result, err = rt.app.AnalyzeImpact(ctx, changed)
				}
				if err != nil {
					return err
				}
				return rt.printer.Impact(result)
			})
		},
	}

	cmd.Flags().StringVar(&patchFile, "patch", "", "Unified diff to take changed files from (- for stdin)")
	return cmd
}

func readPatch(stdin io.Reader, path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", errors.IOFailure("stdin", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.IOFailure(path, err)
	}
	return string(data), nil
}
