// Package cli implements the chatrank command line: offline analysis of a
// chat export and synthetic transcript generation.
package cli

import (
	"context"

	"github.com/gookit/color"
	"github.com/spf13/cobra"

	"github.com/okian/chatrank/pkg/logger"
)

type rootOptions struct {
	logLevel  string
	logFormat string
	noColor   bool
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "chatrank",
		Short:         "Rank chat participants and chart message volume",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if opts.noColor {
				color.Enable = false
			}
			if err := logger.InitWithWriter(cmd.ErrOrStderr(), opts.logFormat); err != nil {
				return err
			}
			return logger.SetLevelString(opts.logLevel)
		},
	}

	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level (debug|info|warn|error)")
	root.PersistentFlags().StringVar(&opts.logFormat, "log-format", "text", "log format (text|json)")
	root.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "disable colored output")

	root.AddCommand(newAnalyzeCommand(), newGenerateCommand())
	return root
}

// Execute runs the command tree with args.
func Execute(ctx context.Context, args []string) error {
	root := NewRootCommand()
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}
