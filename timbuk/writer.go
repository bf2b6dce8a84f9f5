// Copyright (c) 2024 The taa authors
//
// MIT License

package timbuk

import (
	"bufio"
	"fmt"
	"io"

	"github.com/tree-automata/taa"
)

// Write serializes a to w in the grammar Parse reads, under the given
// name and alphabet. taa.State carries no name of its own, so Write mints
// stable "q<N>" identifiers from each state's integer value; round-
// tripping a document through Parse then Write reproduces the same
// structure but not necessarily the original state spelling.
func Write(w io.Writer, name string, a *taa.Automaton, alphabet *Alphabet) error {
	bw := bufio.NewWriter(w)

	fmt.Fprint(bw, "Ops")
	for _, sym := range alphabet.Symbols() {
		arity, _ := alphabet.Arity(sym)
		fmt.Fprintf(bw, " %s:%d", alphabet.Name(sym), arity)
	}
	fmt.Fprintln(bw)

	fmt.Fprintf(bw, "Automaton %s\n", name)

	fmt.Fprint(bw, "States")
	for _, s := range a.States() {
		fmt.Fprintf(bw, " %s", stateName(s))
	}
	fmt.Fprintln(bw)

	fmt.Fprint(bw, "Final States")
	for _, s := range a.Finals() {
		fmt.Fprintf(bw, " %s", stateName(s))
	}
	fmt.Fprintln(bw)

	fmt.Fprintln(bw, "Transitions")
	for _, t := range a.Transitions() {
		if len(t.Children) == 0 {
			fmt.Fprintf(bw, "%s -> %s\n", alphabet.Name(t.Sym), stateName(t.Parent))
			continue
		}
		fmt.Fprintf(bw, "%s(", alphabet.Name(t.Sym))
		for i, c := range t.Children {
			if i > 0 {
				fmt.Fprint(bw, ", ")
			}
			fmt.Fprint(bw, stateName(c))
		}
		fmt.Fprintf(bw, ") -> %s\n", stateName(t.Parent))
	}

	return bw.Flush()
}

func stateName(s taa.State) string {
	return fmt.Sprintf("q%d", int(s))
}
