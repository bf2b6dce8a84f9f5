// Copyright (c) 2024 The taa authors
//
// MIT License

// Package timbuk parses and serializes the Timbuk line-oriented textual
// automaton format: an "Ops" line declaring the ranked alphabet, an
// "Automaton" line naming it, a "States"/"Final States" pair, and a
// "Transitions" block of one rule per line. This package is a collaborator,
// not core logic — taa.Automaton has no notion of symbol or state names;
// Alphabet and the name<->taa.State map built while parsing are what let a
// document round-trip through Parse and Write.
package timbuk

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/tree-automata/taa"
	"github.com/google/uuid"
)

// Parse reads one Timbuk document from r and returns the automaton it
// describes together with a fresh alphabet used to name its symbols.
// Parsing tolerates arbitrary whitespace; state and symbol
// identifiers are non-whitespace tokens, registered in the automaton on
// first use.
func Parse(r io.Reader) (*taa.Automaton, *Alphabet, error) {
	al := NewAlphabet()
	a, err := ParseWith(r, al)
	return a, al, err
}

// ParseWith reads one Timbuk document from r like Parse, but registers its
// symbols into the caller-supplied alphabet instead of a fresh one. Callers
// that parse two documents destined for the same Union or Intersection
// call must share one Alphabet this way, since taa.Symbol values from
// independently parsed documents are otherwise not comparable: Union and
// Intersection copy a transition's Sym field verbatim, assuming the same
// integer means the same symbol on both sides.
func ParseWith(r io.Reader, al *Alphabet) (*taa.Automaton, error) {
	p := &parser{
		a:      taa.New(),
		al:     al,
		states: make(map[string]taa.State),
		sc:     bufio.NewScanner(r),
	}
	if err := p.run(); err != nil {
		return nil, err
	}
	return p.a, nil
}

type parser struct {
	a      *taa.Automaton
	al     *Alphabet
	states map[string]taa.State
	sc     *bufio.Scanner
	line   int
}

func (p *parser) run() error {
	section := ""
	for p.sc.Scan() {
		p.line++
		fields := strings.Fields(p.sc.Text())
		if len(fields) == 0 {
			continue
		}
		switch {
		case fields[0] == "Ops":
			if err := p.parseOps(fields[1:]); err != nil {
				return err
			}
		case fields[0] == "Automaton":
			if len(fields) < 2 {
				return parseErrorf(p.line, "", "Automaton line missing a name")
			}
			p.a.SetName(fields[1])
		case fields[0] == "States":
			p.ensureStates(fields[1:])
		case fields[0] == "Final" && len(fields) > 1 && fields[1] == "States":
			for _, name := range fields[2:] {
				s := p.ensureState(name)
				if err := p.a.AddFinal(s); err != nil {
					pe := parseErrorf(p.line, name, "%s", err)
					pe.err = err
					return pe
				}
			}
		case fields[0] == "Transitions":
			section = "transitions"
		case section == "transitions":
			if err := p.parseTransitionLine(strings.Join(fields, " ")); err != nil {
				return err
			}
		default:
			return parseErrorf(p.line, fields[0], "unexpected line outside a known section")
		}
	}
	if err := p.sc.Err(); err != nil {
		return parseErrorf(p.line, "", "scanner error: %s", err)
	}
	if p.a.Name() == "" {
		p.a.SetName(Name(p.a))
	}
	return nil
}

func (p *parser) parseOps(decls []string) error {
	for _, d := range decls {
		name, arityStr, ok := strings.Cut(d, ":")
		if !ok {
			return parseErrorf(p.line, d, "Ops declaration must be sym:arity")
		}
		arity, err := strconv.Atoi(arityStr)
		if err != nil || arity < 0 {
			return parseErrorf(p.line, d, "arity must be a non-negative integer")
		}
		if _, err := p.al.Symbol(name, arity); err != nil {
			return p.withLine(err, d)
		}
	}
	return nil
}

func (p *parser) ensureStates(names []string) {
	for _, name := range names {
		p.ensureState(name)
	}
}

func (p *parser) ensureState(name string) taa.State {
	if s, ok := p.states[name]; ok {
		return s
	}
	s := p.a.AddState()
	p.states[name] = s
	return s
}

// parseTransitionLine parses one "<sym>(<c1>, <c2>, ...) -> <state>" or
// "<sym> -> <state>" rule (the leaf form is the arity-0 special case of the
// same grammar).
func (p *parser) parseTransitionLine(line string) error {
	lhs, rhs, ok := strings.Cut(line, "->")
	if !ok {
		return parseErrorf(p.line, line, "transition missing '->'")
	}
	lhs, rhs = strings.TrimSpace(lhs), strings.TrimSpace(rhs)
	if rhs == "" {
		return parseErrorf(p.line, line, "transition missing target state")
	}
	parent := p.ensureState(rhs)

	sym, childNames, err := splitCall(lhs)
	if err != nil {
		return p.withLine(err, lhs)
	}
	children := make([]taa.State, len(childNames))
	for i, name := range childNames {
		children[i] = p.ensureState(name)
	}
	symID, err := p.al.Symbol(sym, len(children))
	if err != nil {
		return p.withLine(err, sym)
	}
	if err := p.a.AddTransition(symID, children, parent); err != nil {
		pe := parseErrorf(p.line, lhs, "%s", err)
		pe.err = err
		return pe
	}
	return nil
}

// splitCall parses "sym" or "sym(c1, c2, ...)" into the symbol name and its
// (possibly empty) argument list.
func splitCall(s string) (string, []string, error) {
	open := strings.IndexByte(s, '(')
	if open < 0 {
		return s, nil, nil
	}
	if !strings.HasSuffix(s, ")") {
		return "", nil, parseErrorf(0, s, "unbalanced parentheses in transition head")
	}
	sym := strings.TrimSpace(s[:open])
	inner := strings.TrimSpace(s[open+1 : len(s)-1])
	if inner == "" {
		return sym, nil, nil
	}
	parts := strings.Split(inner, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return sym, parts, nil
}

// withLine rewrites a *ParseError produced without a line number (errors
// raised deep inside Alphabet or splitCall, which have no scanner to
// consult) to carry the current line, and passes any other error through
// wrapped with one.
func (p *parser) withLine(err error, token string) error {
	if pe, ok := err.(*ParseError); ok && pe.Line == 0 {
		pe.Line = p.line
		if pe.Token == "" {
			pe.Token = token
		}
		return pe
	}
	return parseErrorf(p.line, token, "%s", err)
}

// Name returns a's display name, or, for an automaton that was never given
// one by an "Automaton <name>" line — e.g. one assembled in memory via
// taa.New() and passed straight to Write — mints a fresh random one
// ("A-" and a new UUID) on every call without storing it.
func Name(a *taa.Automaton) string {
	if n := a.Name(); n != "" {
		return n
	}
	return fmt.Sprintf("A-%s", uuid.New().String())
}
