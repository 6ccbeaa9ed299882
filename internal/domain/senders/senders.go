// Package senders aggregates per-sender message counts for one chat.
package senders

import "github.com/okian/chatrank/internal/domain/model"

// Aggregator is a get-or-create mapping from sender name to its record.
// It remembers the order in which names first appeared. Not safe for
// concurrent use; one Aggregator belongs to one chat build.
type Aggregator struct {
	byName map[string]*model.Sender
	order  []*model.Sender
	total  int
}

// New constructs an empty Aggregator.
func New() *Aggregator {
	return &Aggregator{byName: make(map[string]*model.Sender)}
}

// Increment creates the sender if needed and adds one message to it.
func (a *Aggregator) Increment(name string) *model.Sender {
	s, ok := a.byName[name]
	if !ok {
		s = &model.Sender{Name: name}
		a.byName[name] = s
		a.order = append(a.order, s)
	}
	s.MessageCount++
	a.total++
	return s
}

// Get returns the sender registered under name.
func (a *Aggregator) Get(name string) (*model.Sender, bool) {
	s, ok := a.byName[name]
	return s, ok
}

// Len returns the number of distinct senders.
func (a *Aggregator) Len() int { return len(a.order) }

// Total returns the sum of all message counts.
func (a *Aggregator) Total() int { return a.total }

// Ordered returns the senders in first-appearance order.
func (a *Aggregator) Ordered() []*model.Sender {
	out := make([]*model.Sender, len(a.order))
	copy(out, a.order)
	return out
}
