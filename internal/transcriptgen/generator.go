// Package transcriptgen produces synthetic chat exports for tests, benchmarks
// and the generate command. Output is deterministic for a given seed.
package transcriptgen

import (
	"io"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/okian/chatrank/internal/domain/model"
)

// HeaderLayout is the timestamp layout written on every header line.
const HeaderLayout = "2/1/06, 15:04"

const (
	minWords        = 2
	wordRange       = 10
	maxGapMinutes   = 90
	maxContinuation = 3
	seedStream      = 0x9e3779b97f4a7c15
)

var names = []string{
	"Alice", "Bob", "Carol", "Dan", "Erin", "Frank", "Grace", "Heidi",
	"Ivan", "Judy", "Mallory", "Niaj", "Olivia", "Peggy", "Rupert", "Sybil",
}

var words = []string{
	"hey", "sure", "tomorrow", "lunch", "meeting", "sounds", "good", "see",
	"you", "later", "thanks", "photo", "where", "are", "we", "going", "tonight",
	"ok", "running", "late", "haha", "nice", "call", "me", "when", "free",
}

var notices = []string{
	"Messages and calls are end-to-end encrypted.",
	"You created group \"Weekend\"",
	"Alice changed the subject to \"Plans\"",
	"Bob left",
	"Missed voice call",
}

// Generator writes WhatsApp-style transcripts.
type Generator struct {
	messages  int
	senders   int
	noise     float64
	multiline float64
	seed      uint64
	start     time.Time
}

// Transcript is a generated export together with the counts a correct
// analysis must report.
type Transcript struct {
	Text string
	// Senders in order of first appearance.
	Senders []model.Sender
	// Messages is the number of parseable messages.
	Messages int
	// Notices is the number of header lines without a sender.
	Notices int
	First   time.Time
	Last    time.Time
}

// New creates a generator.
func New(opts ...Option) *Generator {
	g := &Generator{
		messages:  DefaultMessages,
		senders:   DefaultSenders,
		multiline: DefaultMultiline,
		seed:      DefaultSeed,
		start:     time.Date(2021, time.March, 1, 9, 0, 0, 0, time.UTC),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate returns the transcript text.
func (g *Generator) Generate() string {
	return g.Build().Text
}

// WriteTo writes the transcript text to w.
func (g *Generator) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, g.Generate())
	return int64(n), err
}

// Build generates a transcript and its expected tallies.
func (g *Generator) Build() Transcript {
	rng := rand.New(rand.NewPCG(g.seed, seedStream))
	participants := participantNames(g.senders)
	weights := cumulativeWeights(len(participants))

	var b strings.Builder
	counts := make(map[string]int, len(participants))
	order := make([]string, 0, len(participants))
	out := Transcript{}
	ts := g.start

	for i := 0; i < g.messages; i++ {
		if g.noise > 0 && rng.Float64() < g.noise {
			writeNotice(&b, ts, notices[rng.IntN(len(notices))])
			out.Notices++
		}

		name := participants[pick(rng, weights)]
		if _, ok := counts[name]; !ok {
			order = append(order, name)
		}
		counts[name]++

		writeMessage(&b, ts, name, sentence(rng))
		if g.multiline > 0 && rng.Float64() < g.multiline {
			for n := 1 + rng.IntN(maxContinuation); n > 0; n-- {
				b.WriteString(sentence(rng))
				b.WriteByte('\n')
			}
		}

		if i == 0 {
			out.First = ts
		}
		out.Last = ts
		ts = ts.Add(time.Duration(1+rng.IntN(maxGapMinutes)) * time.Minute)
	}

	out.Text = b.String()
	out.Messages = g.messages
	out.Senders = make([]model.Sender, 0, len(order))
	for _, name := range order {
		out.Senders = append(out.Senders, model.Sender{Name: name, MessageCount: counts[name]})
	}
	return out
}

func writeMessage(b *strings.Builder, ts time.Time, name, body string) {
	b.WriteString(ts.Format(HeaderLayout))
	b.WriteString(" - ")
	b.WriteString(name)
	b.WriteString(": ")
	b.WriteString(body)
	b.WriteByte('\n')
}

func writeNotice(b *strings.Builder, ts time.Time, text string) {
	b.WriteString(ts.Format(HeaderLayout))
	b.WriteString(" - ")
	b.WriteString(text)
	b.WriteByte('\n')
}

func sentence(rng *rand.Rand) string {
	n := minWords + rng.IntN(wordRange)
	parts := make([]string, n)
	for i := range parts {
		parts[i] = words[rng.IntN(len(words))]
	}
	return strings.Join(parts, " ")
}

func participantNames(k int) []string {
	out := make([]string, k)
	for i := range out {
		if i < len(names) {
			out[i] = names[i]
			continue
		}
		out[i] = "Member " + strconv.Itoa(i+1)
	}
	return out
}

// cumulativeWeights gives participant i a weight of 1/(i+1) so a few people
// dominate the conversation.
func cumulativeWeights(k int) []float64 {
	cum := make([]float64, k)
	total := 0.0
	for i := range cum {
		total += 1 / float64(i+1)
		cum[i] = total
	}
	for i := range cum {
		cum[i] /= total
	}
	return cum
}

func pick(rng *rand.Rand, cum []float64) int {
	r := rng.Float64()
	for i, c := range cum {
		if r < c {
			return i
		}
	}
	return len(cum) - 1
}
