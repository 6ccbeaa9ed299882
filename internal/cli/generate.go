package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/okian/chatrank/internal/transcriptgen"
	"github.com/okian/chatrank/pkg/logger"
)

const outputPermission = 0o600

type generateOptions struct {
	messages  int
	senders   int
	noise     float64
	multiline float64
	seed      uint64
	out       string
}

func newGenerateCommand() *cobra.Command {
	opts := &generateOptions{}
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a synthetic chat export",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGenerate(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.IntVar(&opts.messages, "messages", transcriptgen.DefaultMessages, "number of messages")
	f.IntVar(&opts.senders, "senders", transcriptgen.DefaultSenders, "number of participants")
	f.Float64Var(&opts.noise, "noise", 0, "ratio of system notifications per message (0..1)")
	f.Float64Var(&opts.multiline, "multiline", transcriptgen.DefaultMultiline, "probability of continuation lines")
	f.Uint64Var(&opts.seed, "seed", transcriptgen.DefaultSeed, "random seed")
	f.StringVarP(&opts.out, "out", "o", "", "output file (default stdout)")
	return cmd
}

func runGenerate(cmd *cobra.Command, opts *generateOptions) error {
	if opts.noise < 0 || opts.noise >= 1 {
		return fmt.Errorf("noise must be in [0, 1): %v", opts.noise)
	}
	g := transcriptgen.New(
		transcriptgen.WithMessages(opts.messages),
		transcriptgen.WithSenders(opts.senders),
		transcriptgen.WithNoise(opts.noise),
		transcriptgen.WithMultiline(opts.multiline),
		transcriptgen.WithSeed(opts.seed),
	)

	var w io.Writer = cmd.OutOrStdout()
	if opts.out != "" {
		f, err := os.OpenFile(opts.out, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, outputPermission)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer func() {
			if err := f.Close(); err != nil {
				logger.Get().Error(cmd.Context(), "failed to close output", logger.Error(err))
			}
		}()
		w = f
	}

	n, err := g.WriteTo(w)
	if err != nil {
		return fmt.Errorf("write transcript: %w", err)
	}
	logger.Get().Info(cmd.Context(), "transcript generated",
		logger.String("out", opts.out),
		logger.Int("messages", opts.messages),
		logger.Int("bytes", int(n)))
	return nil
}
