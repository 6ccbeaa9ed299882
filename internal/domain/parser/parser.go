// Package parser converts reassembled message blocks into messages.
//
// A block looks like
//
//	<date>, <time> - <sender>: <body>
//	<continuation>...
//
// Blocks without a ": " after the dash are system notifications ("Alice
// joined") and are rejected with ErrNoSender.
package parser

import (
	"strings"
	"time"

	"github.com/okian/chatrank/internal/domain/model"
)

const (
	dash      = " - "
	separator = ": "
)

// DefaultLayouts are the accepted timestamp layouts, tried in order.
var DefaultLayouts = []string{
	"2/1/06, 15:04",
	"2.1.06, 15:04",
	"2/1/2006, 15:04",
	"2.1.2006, 15:04",
}

// Parser turns blocks into messages. It holds no per-chat state besides the
// optional registrar.
type Parser struct {
	loc       *time.Location
	layouts   []string
	registrar Registrar
}

// New constructs a Parser.
func New(opts ...Option) *Parser {
	p := &Parser{
		loc:     time.UTC,
		layouts: DefaultLayouts,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse parses one block. On success the sender is reported to the
// registrar, if any. Failures are *ParseError.
func (p *Parser) Parse(block string) (model.Message, error) {
	header, rest, multiline := strings.Cut(block, "\n")

	stamp, remainder, ok := strings.Cut(header, dash)
	if !ok {
		return model.Message{}, &ParseError{Block: block, Err: ErrHeader}
	}

	name, body, ok := strings.Cut(remainder, separator)
	if !ok {
		return model.Message{}, &ParseError{Block: block, Err: ErrNoSender}
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Message{}, &ParseError{Block: block, Err: ErrNoSender}
	}

	ts, err := p.timestamp(stamp)
	if err != nil {
		return model.Message{}, &ParseError{Block: block, Err: err}
	}

	if multiline {
		body += "\n" + rest
	}

	if p.registrar != nil {
		p.registrar.Increment(name)
	}
	return model.Message{Timestamp: ts, Sender: name, Body: body}, nil
}

func (p *Parser) timestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range p.layouts {
		if ts, err := time.ParseInLocation(layout, s, p.loc); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, ErrTimestamp
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
