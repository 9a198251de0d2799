package cli

import (
	"io"
	"log/slog"

	"shadow/internal/core/config"

	"github.com/spf13/cobra"
)

type globalOptions struct {
	configPath string
	root       string
	format     string
	color      string
	verbose    bool
}

// NewRootCmd creates the top-level shadow command with every subcommand attached.
func NewRootCmd(version string) *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:   "shadow",
		Short: "Structural diff and change-impact analysis",
		Long: "Shadow diffs the declaration structure of TypeScript and JavaScript files and " +
			"estimates which workspace files a change can affect through their imports.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			configureLogging(cmd.ErrOrStderr(), opts.verbose)
		},
	}
	cmd.Version = version

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "Path to config file (default ./"+config.DefaultConfigFile+" when present)")
	flags.StringVar(&opts.root, "root", "", "Workspace root, overrides paths.workspace_root")
	flags.StringVar(&opts.format, "format", "", "Output format: text, json, yaml, dot, mermaid, plantuml, tsv")
	flags.StringVar(&opts.color, "color", "", "Color mode: auto, always, never")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")

	cmd.AddCommand(
		NewDiffCmd(opts),
		NewImpactCmd(opts),
		NewGraphCmd(opts),
		NewChainCmd(opts),
		NewWatchCmd(opts),
		NewSessionCmd(opts),
	)
	return cmd
}

func configureLogging(w io.Writer, verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}
