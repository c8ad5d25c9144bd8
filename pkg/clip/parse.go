// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package clip

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/yeetrun/clip/pkg/argerr"
	"github.com/yeetrun/clip/pkg/argv"
	"github.com/yeetrun/clip/pkg/coerce"
	"github.com/yeetrun/clip/pkg/shape"
	"github.com/yeetrun/clip/pkg/suggest"
)

// Options tune a parse. The zero value is ready to use.
type Options struct {
	// Tracef, if set, receives one line per classified token. It has the
	// signature of log.Printf.
	Tracef func(format string, args ...any)
	// NoSuggest disables "did you mean" suggestions on unknown flags and
	// subcommands.
	NoSuggest bool
}

// Parse matches args against s with default options.
func Parse(s *shape.Shape, args []string) (*Result, error) {
	return Options{}.Parse(s, args)
}

// Parse matches args against s.
func (o Options) Parse(s *shape.Shape, args []string) (*Result, error) {
	return o.ParseStream(s, argv.New(args))
}

// ParseStream matches the remaining tokens of st against s, consuming all
// of them.
func (o Options) ParseStream(s *shape.Shape, st *argv.Stream) (*Result, error) {
	p := &parser{opts: o, st: st}
	return p.run(s, "", false)
}

// parser holds the state of one parse call.
type parser struct {
	opts Options
	st   *argv.Stream
}

func (p *parser) tracef(format string, args ...any) {
	if p.opts.Tracef != nil {
		p.opts.Tracef(format, args...)
	}
}

func (p *parser) suggest(token string, candidates []string) []string {
	if p.opts.NoSuggest {
		return nil
	}
	return suggest.Closest(token, candidates)
}

// run parses the rest of the stream against s. discriminant names the
// variant that selected s; seenSeparator carries "--" mode into a
// subcommand.
func (p *parser) run(s *shape.Shape, discriminant string, seenSeparator bool) (*Result, error) {
	res := newResult(s, discriminant)
	rank := 0

	for !p.st.Done() {
		tok, _ := p.st.Peek()

		if !seenSeparator && argv.IsSeparator(tok.Text) {
			p.st.Advance()
			seenSeparator = true
			p.tracef("clip: %s: separator at %d", s.Name(), tok.Index)
			continue
		}

		if !seenSeparator && argv.LooksLikeFlag(tok.Text) {
			p.st.Advance()
			if err := p.named(s, res, tok); err != nil {
				return nil, err
			}
			continue
		}

		m, ok := s.Positional(rank)
		if !ok {
			return nil, argerr.Positional(tok.Text, tok.Index)
		}
		p.st.Advance()

		if m.Kind == shape.Command {
			sub, err := p.command(m, tok, seenSeparator)
			if err != nil {
				return nil, err
			}
			res.add(Value{Member: m.ID, Raw: tok.Text, Pos: tok.Index, V: sub})
			rank++
			continue
		}

		p.tracef("clip: %s: %q -> positional %s", s.Name(), tok.Text, m.ID)
		if err := p.record(res, m, tok.Text, tok.Index); err != nil {
			return nil, err
		}
		if !m.Arity.Variadic() || !m.Arity.Allows(res.Count(m.ID)+1) {
			rank++
		}
	}

	if err := validate(s, res, p.st.Position()); err != nil {
		return nil, err
	}
	return res, nil
}

// command selects the variant named by tok and parses the rest of the
// stream against it.
func (p *parser) command(m *shape.Member, tok argv.Token, seenSeparator bool) (*Result, error) {
	v, ok := m.Variant(tok.Text)
	if !ok {
		return nil, argerr.UnknownVariant(m.ID, tok.Text, tok.Index, p.suggest(tok.Text, m.VariantNames()))
	}
	p.tracef("clip: %q -> subcommand %s", tok.Text, v.Name)
	sub, err := p.run(v.Shape, v.Name, seenSeparator)
	if err != nil {
		if e, ok := argerr.As(err); ok {
			return nil, e.Wrap(v.Name)
		}
		return nil, err
	}
	return sub, nil
}

// named resolves a flag-shaped token.
func (p *parser) named(s *shape.Shape, res *Result, tok argv.Token) error {
	if argv.IsLong(tok.Text) {
		name, inline, hasInline := strings.Cut(tok.Text[2:], "=")
		m, ok := s.ByLong(name)
		if !ok {
			flag := "--" + name
			return argerr.Unknown(flag, tok.Index, p.suggest(flag, s.Keys()))
		}
		return p.assign(s, res, m, "--"+name, inline, hasInline, tok)
	}
	return p.cluster(s, res, tok)
}

// cluster resolves a short-form token such as -v, -abc, -nAda or -n=Ada.
// Presence letters are set one by one; the first letter taking a value
// claims the remainder of the token as its value.
func (p *parser) cluster(s *shape.Shape, res *Result, tok argv.Token) error {
	body := tok.Text[1:]
	for len(body) > 0 {
		r, size := utf8.DecodeRuneInString(body)
		rest := body[size:]
		body = rest

		flag := "-" + string(r)
		m, ok := s.ByShort(r)
		if !ok {
			return argerr.Unknown(flag, tok.Index, p.suggest(flag, s.Keys()))
		}

		if m.Arity.IsPresence() {
			if strings.HasPrefix(rest, "=") {
				return p.assign(s, res, m, flag, rest[1:], true, tok)
			}
			if err := p.assign(s, res, m, flag, "", false, tok); err != nil {
				return err
			}
			continue
		}

		if rest == "" {
			return p.assign(s, res, m, flag, "", false, tok)
		}
		return p.assign(s, res, m, flag, strings.TrimPrefix(rest, "="), true, tok)
	}
	return nil
}

// assign records a named member occurrence. inline is the attached value,
// if hasInline; otherwise a valued member consumes the next token.
func (p *parser) assign(s *shape.Shape, res *Result, m *shape.Member, flag, inline string, hasInline bool, tok argv.Token) error {
	p.tracef("clip: %s: %q -> flag %s", s.Name(), tok.Text, m.ID)

	if m.Arity.IsPresence() {
		v := Value{Member: m.ID, Pos: tok.Index, V: true}
		if hasInline {
			b, err := coerce.Bool.Coerce(inline)
			if err != nil {
				return argerr.Coercion(m.ID, inline, tok.Index, err)
			}
			v.Raw, v.V = inline, b
		}
		res.add(v)
		return nil
	}

	if !hasInline && m.Arity == shape.Optional {
		if res.Count(m.ID) > 0 {
			return argerr.TooMany(m.ID, flag, tok.Index, "at most 1")
		}
		res.add(Value{Member: m.ID, Pos: tok.Index, V: m.Implicit})
		return nil
	}

	raw, pos := inline, tok.Index
	if !hasInline {
		next, ok := p.st.Peek()
		if !ok || argv.IsSeparator(next.Text) || argv.LooksLikeFlag(next.Text) {
			return argerr.NoValue(m.ID, flag, tok.Index)
		}
		p.st.Advance()
		raw, pos = next.Text, next.Index
	}
	return p.record(res, m, raw, pos)
}

// record coerces raw, split on the member's separator, and appends the
// values.
func (p *parser) record(res *Result, m *shape.Member, raw string, pos int) error {
	pieces := []string{raw}
	if m.Split != "" {
		pieces = pieces[:0]
		for _, piece := range strings.Split(raw, m.Split) {
			if piece != "" {
				pieces = append(pieces, piece)
			}
		}
	}
	for _, piece := range pieces {
		if !m.Arity.Allows(res.Count(m.ID) + 1) {
			return argerr.TooMany(m.ID, piece, pos, fmt.Sprintf("at most %d", m.Arity.Max))
		}
		v, err := m.Coercer.Coerce(piece)
		if err != nil {
			return argerr.Coercion(m.ID, piece, pos, err)
		}
		res.add(Value{Member: m.ID, Raw: piece, Pos: pos, V: v})
	}
	return nil
}

// validate checks requiredness and minimum counts, then applies defaults.
func validate(s *shape.Shape, res *Result, end int) error {
	for _, m := range s.Members() {
		n := res.Count(m.ID)
		if n == 0 && m.Required {
			detail := ""
			if m.Kind == shape.Command {
				detail = "expected one of " + strings.Join(m.VariantNames(), ", ")
			}
			return argerr.Required(m.ID, end, detail)
		}
		if m.Arity.IsMany() && n < m.Arity.Min {
			return argerr.Required(m.ID, end, fmt.Sprintf("need at least %d values, got %d", m.Arity.Min, n))
		}
		if n == 0 && m.HasDefault {
			res.add(Value{Member: m.ID, Pos: argerr.NoPosition, V: m.Default, Default: true})
		}
	}
	return nil
}
