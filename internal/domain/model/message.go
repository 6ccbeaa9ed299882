// Package model contains domain models passed between layers.
package model

import "time"

// Message is one parsed chat message.
type Message struct {
	Timestamp time.Time // minute precision
	Sender    string    // trimmed, non-empty
	Body      string    // may span several lines joined by "\n"
}

// Equal reports whether two messages carry the same instant, sender and body.
func (m Message) Equal(o Message) bool {
	return m.Timestamp.Equal(o.Timestamp) && m.Sender == o.Sender && m.Body == o.Body
}

// Sender is a chat participant and the number of messages attributed to it.
// MessageCount only changes while the owning chat is being built.
type Sender struct {
	Name         string
	MessageCount int
}

// TimelinePoint is one sample of the cumulative message curve.
// Norm values are in [0,1]; a constant dimension normalizes to 0.
type TimelinePoint struct {
	RawX   float64 // unix milliseconds
	RawY   float64 // message index
	NormX  float64
	NormY  float64
	XLabel string
	YLabel string
}
