package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"shadow/internal/core/errors"
	"shadow/internal/core/ports"
	"shadow/internal/ui/report"

	"github.com/spf13/cobra"
)

type diffOptions struct {
	oldFile string
	newFile string
	context int
}

// NewDiffCmd creates the "diff" subcommand.
func NewDiffCmd(global *globalOptions) *cobra.Command {
	var opts diffOptions

	cmd := &cobra.Command{
		Use:   "diff <path>",
		Short: "Show declaration-level changes between two versions of a file",
		Long: "Diff compares the declarations of two versions of a file. The old version is read " +
			"from --old (empty when omitted) and the new version from --new, defaulting to the file " +
			"at <path> in the workspace.",
		Args: cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.context < 0 {
				return fmt.Errorf("--context must not be negative")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd, global, func(ctx context.Context, rt *runtime) error {
				return runDiff(ctx, rt, args[0], opts)
			})
		},
	}

	cmd.Flags().StringVar(&opts.oldFile, "old", "", "File holding the old version")
	cmd.Flags().StringVar(&opts.newFile, "new", "", "File holding the new version (default <path>)")
	cmd.Flags().IntVarP(&opts.context, "context", "C", 0, "Lines of source context around each change (text output)")

	return cmd
}

func runDiff(ctx context.Context, rt *runtime, path string, opts diffOptions) error {
	oldText, err := readOptional(opts.oldFile)
	if err != nil {
		return err
	}

	newPath := opts.newFile
	if newPath == "" {
		newPath = path
		if !filepath.IsAbs(newPath) {
			newPath = filepath.Join(rt.app.Paths.WorkspaceRoot, filepath.FromSlash(path))
		}
	}
	newText, err := readOptional(newPath)
	if err != nil {
		return err
	}

	change := ports.FileChange{Path: rt.workspacePath(path), OldContent: oldText, NewContent: newText}
	diffs, err := rt.app.ComputeDiffs(ctx, []ports.FileChange{change})
	if err != nil {
		return err
	}

	entries := make([]report.DiffEntry, 0, len(diffs))
	for _, d := range diffs {
		entries = append(entries, report.DiffEntry{Diff: d, OldText: oldText, NewText: newText})
	}
	return rt.printer.Diffs(entries, opts.context)
}

func readOptional(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.IOFailure(path, err)
	}
	return string(data), nil
}
