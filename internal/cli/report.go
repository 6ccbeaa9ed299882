package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"

	"github.com/okian/chatrank/internal/domain/types"
)

const timeLayout = "2006-01-02 15:04"

var (
	heading = color.New(color.FgGreen, color.OpBold)
	warning = color.New(color.FgRed, color.OpBold)
	muted   = color.New(color.FgGray)
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func renderReport(w io.Writer, rep report, withTimeline bool) {
	sum := rep.Summary
	_, _ = fmt.Fprintln(w, heading.Render("== "+sum.ID+" =="))
	if !sum.Valid {
		_, _ = fmt.Fprintln(w, warning.Render("invalid chat: "+sum.Reason))
		_, _ = fmt.Fprintln(w, muted.Render(fmt.Sprintf("skipped blocks: %d", sum.SkippedBlocks)))
		return
	}

	_, _ = fmt.Fprintf(w, "messages: %d  senders: %d  skipped blocks: %d\n",
		sum.TotalMessages, sum.SenderCount, sum.SkippedBlocks)
	if sum.FirstMessageAt != nil && sum.LastMessageAt != nil {
		_, _ = fmt.Fprintf(w, "period: %s .. %s\n",
			sum.FirstMessageAt.Format(timeLayout), sum.LastMessageAt.Format(timeLayout))
	}
	if sum.Language != "" {
		_, _ = fmt.Fprintf(w, "language: %s\n", sum.Language)
	}
	_, _ = fmt.Fprintln(w)

	_, _ = fmt.Fprintln(w, heading.Render("Senders"))
	renderSenders(w, rep.Senders)

	if withTimeline {
		_, _ = fmt.Fprintln(w)
		_, _ = fmt.Fprintln(w, heading.Render("Timeline"))
		renderTimeline(w, rep.Timeline)
	}
}

func renderSenders(w io.Writer, rows []types.RankedSender) {
	table := newTable(w)
	table.SetHeader([]string{"Rank", "Name", "Messages", "Share"})
	for _, r := range rows {
		table.Append([]string{
			strconv.Itoa(r.Rank),
			r.Name,
			strconv.Itoa(r.MessageCount),
			strconv.FormatFloat(r.Share*100, 'f', 1, 64) + "%",
		})
	}
	table.Render()
}

func renderTimeline(w io.Writer, points []types.TimelinePoint) {
	table := newTable(w)
	table.SetHeader([]string{"Time", "Messages", "X", "Y"})
	for _, p := range points {
		table.Append([]string{
			p.XLabel,
			p.YLabel,
			strconv.FormatFloat(p.X, 'f', 3, 64),
			strconv.FormatFloat(p.Y, 'f', 3, 64),
		})
	}
	table.Render()
}

func newTable(w io.Writer) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
	return table
}
