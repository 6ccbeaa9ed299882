package loadtest

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/okian/chatrank/internal/domain/model"
	"github.com/okian/chatrank/internal/domain/types"
	"github.com/okian/chatrank/pkg/logger"
)

// verifyResults checks every retrieved analysis against the tallies the
// generator recorded, and that duplicate uploads resolved to one analysis.
func verifyResults(ctx context.Context, config *Config, uploads []*Upload, outcomes []Outcome, stats *Stats) error {
	logger.Get().Info(ctx, "verifying results", logger.Int("outcomes", len(outcomes)))

	if len(outcomes) == 0 {
		return fmt.Errorf("no results to verify")
	}

	var mismatches []error
	for _, out := range outcomes {
		if out.Err != nil {
			mismatches = append(mismatches, out.Err)
			continue
		}
		if err := verifyOutcome(out); err != nil {
			mismatches = append(mismatches, err)
			continue
		}
		stats.ResultsVerified++
	}
	if err := verifyDuplicates(uploads); err != nil {
		mismatches = append(mismatches, err)
	}

	stats.ResultsMismatched = len(mismatches)
	for _, err := range mismatches {
		if config.Verbose {
			logger.Get().Warn(ctx, "verification mismatch", logger.Error(err))
		}
	}

	displayTopSenders(ctx, outcomes)

	if len(mismatches) > 0 {
		return fmt.Errorf("%d of %d results failed verification: %w", len(mismatches), len(outcomes), mismatches[0])
	}
	logger.Get().Info(ctx, "result verification completed", logger.Int("verified", stats.ResultsVerified))
	return nil
}

// verifyOutcome compares one analysis with its generated transcript.
func verifyOutcome(out Outcome) error {
	tr := out.Upload.Transcript
	id := out.Upload.ID

	if out.Summary.TotalMessages != tr.Messages {
		return fmt.Errorf("%s: total messages %d, want %d", id, out.Summary.TotalMessages, tr.Messages)
	}
	if out.Summary.SkippedBlocks != tr.Notices {
		return fmt.Errorf("%s: skipped blocks %d, want %d", id, out.Summary.SkippedBlocks, tr.Notices)
	}

	want := expectedRanking(tr.Senders)
	if len(out.Senders) != len(want) {
		return fmt.Errorf("%s: %d senders, want %d", id, len(out.Senders), len(want))
	}
	return verifyRanking(id, out.Senders, want)
}

// expectedRanking orders senders by count, most active first. Equal counts
// keep first-appearance order.
func expectedRanking(senders []model.Sender) []model.Sender {
	want := slices.Clone(senders)
	slices.SortStableFunc(want, func(a, b model.Sender) int {
		return cmp.Compare(b.MessageCount, a.MessageCount)
	})
	return want
}

// verifyRanking checks names, counts and dense ranks row by row.
func verifyRanking(id string, got []types.RankedSender, want []model.Sender) error {
	rank := 0
	for i, row := range got {
		if row.Name != want[i].Name || row.MessageCount != want[i].MessageCount {
			return fmt.Errorf("%s: row %d is %s/%d, want %s/%d",
				id, i, row.Name, row.MessageCount, want[i].Name, want[i].MessageCount)
		}
		if i == 0 || want[i].MessageCount != want[i-1].MessageCount {
			rank++
		}
		if row.Rank != rank {
			return fmt.Errorf("%s: row %d has rank %d, want %d", id, i, row.Rank, rank)
		}
	}
	return nil
}

// verifyDuplicates requires identical transcripts to share one analysis id.
func verifyDuplicates(uploads []*Upload) error {
	owners := make(map[string]string, len(uploads))
	for _, up := range uploads {
		if up.Err != nil || up.ID == "" {
			continue
		}
		if id, ok := owners[up.Transcript.Text]; ok && id != up.ID {
			return fmt.Errorf("identical transcripts analyzed twice: %s and %s", id, up.ID)
		}
		owners[up.Transcript.Text] = up.ID
	}
	return nil
}

// displayTopSenders logs the leader of the first few analyses.
func displayTopSenders(ctx context.Context, outcomes []Outcome) {
	const topN = 5
	shown := 0
	for _, out := range outcomes {
		if shown == topN {
			return
		}
		if out.Err != nil || len(out.Senders) == 0 {
			continue
		}
		leader := out.Senders[0]
		logger.Get().Info(ctx, "top sender",
			logger.String("id", out.Upload.ID),
			logger.String("name", leader.Name),
			logger.Int("messages", leader.MessageCount),
			logger.Float64("share", leader.Share))
		shown++
	}
}
