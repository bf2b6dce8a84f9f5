// Copyright (c) 2024 The taa authors
//
// MIT License

package timbuk

import (
	"fmt"

	"github.com/tree-automata/taa"
)

// Alphabet is the name <-> taa.Symbol correspondence of one parsed (or
// about-to-be-written) Timbuk document. taa.Automaton only ever sees
// integer Symbol values; Alphabet is what lets the codec round-trip the
// textual names.
type Alphabet struct {
	idOf   map[string]taa.Symbol
	nameOf map[taa.Symbol]string
	arity  map[taa.Symbol]int
	next   taa.Symbol
}

// NewAlphabet returns an empty Alphabet.
func NewAlphabet() *Alphabet {
	return &Alphabet{
		idOf:   make(map[string]taa.Symbol),
		nameOf: make(map[taa.Symbol]string),
		arity:  make(map[taa.Symbol]int),
	}
}

// Symbol returns the taa.Symbol for name, registering it with arity on
// first use. A later use of the same name with a different arity is
// rejected, mirroring taa.Automaton.AddTransition's own arity check.
func (al *Alphabet) Symbol(name string, arity int) (taa.Symbol, error) {
	if s, ok := al.idOf[name]; ok {
		if al.arity[s] != arity {
			return 0, parseErrorf(0, name, "symbol %q previously declared with arity %d, used with arity %d", name, al.arity[s], arity)
		}
		return s, nil
	}
	s := al.next
	al.next++
	al.idOf[name] = s
	al.nameOf[s] = name
	al.arity[s] = arity
	return s, nil
}

// Name returns the textual name registered for s, or a synthetic "sym<N>"
// placeholder if s was never registered through this Alphabet.
func (al *Alphabet) Name(s taa.Symbol) string {
	if n, ok := al.nameOf[s]; ok {
		return n
	}
	return fmt.Sprintf("sym%d", int(s))
}

// Arity returns the declared arity of s and whether it is known.
func (al *Alphabet) Arity(s taa.Symbol) (int, bool) {
	n, ok := al.arity[s]
	return n, ok
}

// Symbols returns every registered symbol, in ascending taa.Symbol order
// (i.e. declaration order), so Write reproduces a stable "Ops" line.
func (al *Alphabet) Symbols() []taa.Symbol {
	out := make([]taa.Symbol, 0, len(al.nameOf))
	for s := range al.nameOf {
		out = append(out, s)
	}
	sortSymbols(out)
	return out
}

func sortSymbols(s []taa.Symbol) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}
