package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	repository "github.com/okian/chatrank/internal/adapters/repository"
	service "github.com/okian/chatrank/internal/app"
	"github.com/okian/chatrank/internal/domain/chat"
	"github.com/okian/chatrank/internal/domain/language"
	"github.com/okian/chatrank/internal/domain/timeline"
	"github.com/okian/chatrank/internal/domain/types"
	"github.com/okian/chatrank/pkg/logger"
)

type analyzeOptions struct {
	top            int
	timeline       bool
	json           bool
	maxPoints      int
	maxFailures    int
	location       string
	languageSample int
}

// report is the --json shape of an analysis.
type report struct {
	Summary  types.Summary         `json:"summary"`
	Senders  []types.RankedSender  `json:"senders"`
	Timeline []types.TimelinePoint `json:"timeline,omitempty"`
}

func newAnalyzeCommand() *cobra.Command {
	opts := &analyzeOptions{}
	cmd := &cobra.Command{
		Use:   "analyze [file|-]",
		Short: "Analyze a chat export and print the sender ranking",
		Long: "Reads a WhatsApp-style export from a file or stdin, ranks participants by\n" +
			"message count and optionally prints the cumulative message timeline.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, args, opts)
		},
	}

	f := cmd.Flags()
	f.IntVar(&opts.top, "top", 10, "number of senders to show (0 for all)")
	f.BoolVar(&opts.timeline, "timeline", false, "print the sampled timeline")
	f.BoolVar(&opts.json, "json", false, "print the report as JSON")
	f.IntVar(&opts.maxPoints, "max-points", timeline.MaxPoints, "maximum timeline points")
	f.IntVar(&opts.maxFailures, "max-failures", chat.DefaultMaxConsecutiveFailures, "consecutive unparseable blocks tolerated")
	f.StringVar(&opts.location, "location", "UTC", "time zone of header timestamps")
	f.IntVar(&opts.languageSample, "language-sample", language.DefaultSampleSize, "messages used for language detection")
	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string, opts *analyzeOptions) error {
	ctx := cmd.Context()
	log := logger.Get().Named("analyze")

	loc, err := time.LoadLocation(opts.location)
	if err != nil {
		return fmt.Errorf("location %q: %w", opts.location, err)
	}

	in, name, closeFn, err := openInput(cmd, args)
	if err != nil {
		return err
	}
	defer closeFn()

	start := time.Now()
	c, err := chat.Read(ctx, in,
		chat.WithLogger(log),
		chat.WithMaxPoints(opts.maxPoints),
		chat.WithMaxConsecutiveFailures(opts.maxFailures),
		chat.WithLocation(loc),
	)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}

	var lang language.Result
	if c.Valid() {
		lang = language.Detect(c.Messages(), opts.languageSample)
	}
	log.Info(ctx, "chat analyzed",
		logger.String("input", name),
		logger.Bool("valid", c.Valid()),
		logger.Int("messages", c.MessageCount()),
		logger.Int("skipped", len(c.Skipped())),
		logger.Duration("took", time.Since(start)))

	rep := buildReport(name, c, lang, opts)
	out := cmd.OutOrStdout()
	if opts.json {
		if err := writeJSON(out, rep); err != nil {
			return err
		}
	} else {
		renderReport(out, rep, opts.timeline)
	}

	if !c.Valid() {
		return fmt.Errorf("%w: %s (%v)", ErrInvalidChat, name, c.Err())
	}
	return nil
}

func buildReport(name string, c *chat.Chat, lang language.Result, opts *analyzeOptions) report {
	status := repository.StatusDone
	if !c.Valid() {
		status = repository.StatusInvalid
	}
	rep := report{
		Summary: service.Summarize(repository.Result{
			ID:       name,
			Status:   status,
			Chat:     c,
			Language: lang,
			Err:      c.Err(),
		}),
	}
	if !c.Valid() {
		return rep
	}
	rep.Senders = service.RankedSenders(c, opts.top)
	if opts.timeline || opts.json {
		rep.Timeline = service.TimelinePoints(c.Timeline())
	}
	return rep
}

// openInput returns stdin for no argument or "-", otherwise the named file.
func openInput(cmd *cobra.Command, args []string) (io.Reader, string, func(), error) {
	if len(args) > 1 {
		return nil, "", nil, ErrTooManyArgs
	}
	if len(args) == 0 || args[0] == "-" {
		return cmd.InOrStdin(), "stdin", func() {}, nil
	}
	f, err := os.Open(args[0])
	if err != nil {
		return nil, "", nil, fmt.Errorf("open input: %w", err)
	}
	return f, args[0], func() { _ = f.Close() }, nil
}
