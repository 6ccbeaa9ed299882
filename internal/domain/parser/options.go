package parser

import (
	"time"

	"github.com/okian/chatrank/internal/domain/model"
)

// Registrar receives the sender of every successfully parsed message.
type Registrar interface {
	Increment(name string) *model.Sender
}

// Option applies a configuration option to the Parser.
type Option func(*Parser)

// WithLocation sets the location timestamps are interpreted in.
func WithLocation(loc *time.Location) Option {
	return func(p *Parser) {
		if loc != nil {
			p.loc = loc
		}
	}
}

// WithLayouts replaces the accepted timestamp layouts. Layouts are tried in
// order and use Go reference time notation, e.g. "2/1/06, 15:04".
func WithLayouts(layouts ...string) Option {
	return func(p *Parser) {
		if len(layouts) > 0 {
			p.layouts = append([]string(nil), layouts...)
		}
	}
}

// WithRegistrar makes Parse report each parsed sender to r.
func WithRegistrar(r Registrar) Option {
	return func(p *Parser) {
		p.registrar = r
	}
}
