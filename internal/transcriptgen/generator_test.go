package transcriptgen

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/chatrank/internal/domain/chat"
	"github.com/okian/chatrank/internal/domain/transcript"
)

func TestGenerator(t *testing.T) {
	Convey("Given a generator with a fixed seed", t, func() {
		opts := []Option{WithMessages(300), WithSenders(4), WithSeed(42)}

		Convey("When generating twice", func() {
			a := New(opts...).Generate()
			b := New(opts...).Generate()

			Convey("Then the output should be identical", func() {
				So(a, ShouldEqual, b)
				So(a, ShouldNotBeEmpty)
			})
		})

		Convey("When changing the seed", func() {
			a := New(opts...).Generate()
			b := New(append(opts, WithSeed(43))...).Generate()

			Convey("Then the output should differ", func() {
				So(a, ShouldNotEqual, b)
			})
		})

		Convey("When building a transcript", func() {
			tr := New(opts...).Build()

			Convey("Then the expected tallies should add up", func() {
				So(tr.Messages, ShouldEqual, 300)
				So(len(tr.Senders), ShouldBeLessThanOrEqualTo, 4)
				total := 0
				for _, s := range tr.Senders {
					total += s.MessageCount
				}
				So(total, ShouldEqual, 300)
				So(tr.Notices, ShouldEqual, 0)
				So(tr.Last.After(tr.First), ShouldBeTrue)
			})

			Convey("Then every header should start a block", func() {
				blocks := transcript.Reassemble(strings.Split(strings.TrimSuffix(tr.Text, "\n"), "\n"))
				So(len(blocks), ShouldEqual, 300)
			})
		})
	})
}

func TestGeneratedTranscriptAnalysis(t *testing.T) {
	Convey("Given a generated transcript with multiline messages and notices", t, func() {
		tr := New(
			WithMessages(1200),
			WithSenders(6),
			WithNoise(0.1),
			WithMultiline(0.3),
			WithSeed(9),
			WithStart(time.Date(2022, time.May, 10, 8, 30, 0, 0, time.UTC)),
		).Build()

		Convey("When the chat is analyzed", func() {
			c, err := chat.Read(context.Background(), strings.NewReader(tr.Text))

			Convey("Then it should match the generator's tallies", func() {
				So(err, ShouldBeNil)
				So(c.Valid(), ShouldBeTrue)
				So(c.MessageCount(), ShouldEqual, tr.Messages)
				So(len(c.Skipped()), ShouldEqual, tr.Notices)
				So(tr.Notices, ShouldBeGreaterThan, 0)
				So(len(c.Senders()), ShouldEqual, len(tr.Senders))
				for _, want := range tr.Senders {
					got, ok := c.Sender(want.Name)
					So(ok, ShouldBeTrue)
					So(got.MessageCount, ShouldEqual, want.MessageCount)
				}
				So(c.Messages()[0].Timestamp.Equal(tr.First), ShouldBeTrue)
				So(c.Messages()[len(c.Messages())-1].Timestamp.Equal(tr.Last), ShouldBeTrue)
				So(len(c.Timeline()), ShouldEqual, 500)
			})
		})
	})
}

func TestWriteTo(t *testing.T) {
	Convey("Given a small generator", t, func() {
		g := New(WithMessages(5), WithMultiline(0))
		var buf bytes.Buffer

		Convey("When writing to a buffer", func() {
			n, err := g.WriteTo(&buf)

			Convey("Then the text should match Generate", func() {
				So(err, ShouldBeNil)
				So(n, ShouldEqual, int64(buf.Len()))
				So(buf.String(), ShouldEqual, g.Generate())
				So(strings.Count(buf.String(), "\n"), ShouldEqual, 5)
			})
		})
	})
}

func TestOptions(t *testing.T) {
	Convey("Given out-of-range options", t, func() {
		g := New(WithMessages(-1), WithSenders(0), WithNoise(1.5), WithMultiline(-0.2), WithStart(time.Time{}))

		Convey("Then defaults should be kept", func() {
			So(g.messages, ShouldEqual, DefaultMessages)
			So(g.senders, ShouldEqual, DefaultSenders)
			So(g.noise, ShouldEqual, 0)
			So(g.multiline, ShouldEqual, DefaultMultiline)
			So(g.start.IsZero(), ShouldBeFalse)
		})
	})

	Convey("Given more senders than built-in names", t, func() {
		got := participantNames(len(names) + 2)

		Convey("Then extra participants should be numbered", func() {
			So(got[len(names)], ShouldEqual, "Member 17")
			So(got[len(names)+1], ShouldEqual, "Member 18")
		})
	})
}
