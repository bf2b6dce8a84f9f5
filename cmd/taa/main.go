// Copyright (c) 2024 The taa authors
//
// MIT License

// Command taa is the command-line front-end over the tree-automata core:
// load, union and isect, each reading Timbuk documents and writing the
// result back in the same format. It is a thin collaborator —
// every real decision (inclusion, simulation, combinators) lives in the
// taa package; this file only wires flags to calls and formats output.
package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/tree-automata/taa"
	"github.com/tree-automata/taa/timbuk"
	flag "github.com/spf13/pflag"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr *os.File) int {
	fs := flag.NewFlagSet("taa", flag.ContinueOnError)
	fs.SetOutput(stderr)
	representation := fs.StringP("representation", "r", "explicit", "internal representation: explicit (only supported value; 'bdd' is accepted and rejected)")
	inFmt := fs.StringP("input-format", "I", "timbuk", "input format")
	outFmt := fs.StringP("output-format", "O", "timbuk", "output format")
	bothFmt := fs.StringP("format", "F", "", "shorthand for -I and -O together")
	timed := fs.BoolP("time", "t", false, "print elapsed wall-clock time to stderr")

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		fmt.Fprintln(stderr, err)
		return 1
	}
	if *bothFmt != "" {
		*inFmt, *outFmt = *bothFmt, *bothFmt
	}
	if *representation != "explicit" {
		fmt.Fprintf(stderr, "taa: representation not implemented: %s\n", *representation)
		return 1
	}
	if *inFmt != "timbuk" || *outFmt != "timbuk" {
		fmt.Fprintf(stderr, "taa: format not implemented: %s\n", pickUnsupported(*inFmt, *outFmt))
		return 1
	}

	rest := fs.Args()
	if len(rest) == 0 {
		fmt.Fprintln(stderr, "usage: taa [-r <representation>] [(-I|-O|-F) <format>] [-t] <command> [<args>]")
		return 1
	}

	start := time.Now()
	err := dispatch(rest[0], rest[1:], stdout)
	if *timed {
		fmt.Fprintf(stderr, "elapsed: %s\n", time.Since(start))
	}
	if err != nil {
		fmt.Fprintf(stderr, "taa: %s\n", err)
		return 1
	}
	return 0
}

func pickUnsupported(inFmt, outFmt string) string {
	if inFmt != "timbuk" {
		return inFmt
	}
	return outFmt
}

func dispatch(cmd string, args []string, stdout *os.File) error {
	switch cmd {
	case "load":
		if len(args) != 1 {
			return fmt.Errorf("load takes exactly one file")
		}
		a, al, err := loadFile(args[0])
		if err != nil {
			return err
		}
		return timbuk.Write(stdout, timbuk.Name(a), a, al)
	case "union":
		return binaryOp(args, stdout, func(a, b *taa.Automaton) *taa.Automaton {
			u, _, _ := taa.Union(a, b)
			return u
		})
	case "isect":
		return binaryOp(args, stdout, taa.Intersection)
	case "help":
		printHelp(stdout)
		return nil
	default:
		return fmt.Errorf("unknown command: %s", cmd)
	}
}

func printHelp(stdout *os.File) {
	tw := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "load\t<file>\tparse and re-emit a Timbuk document ('-' reads stdin)")
	fmt.Fprintln(tw, "union\t<file1> <file2>\tdisjoint union of two automata")
	fmt.Fprintln(tw, "isect\t<file1> <file2>\tproduct intersection of two automata")
	tw.Flush()
}

func binaryOp(args []string, stdout *os.File, op func(a, b *taa.Automaton) *taa.Automaton) error {
	if len(args) != 2 {
		return fmt.Errorf("expected exactly two files")
	}
	al := timbuk.NewAlphabet()
	a, err := loadFileWith(args[0], al)
	if err != nil {
		return err
	}
	b, err := loadFileWith(args[1], al)
	if err != nil {
		return err
	}
	result := op(a, b)
	return timbuk.Write(stdout, timbuk.Name(result), result, al)
}

// openInput opens path for reading, treating "-" as standard input — the
// mirror image of the "-"-means-stdout convention used on output paths
// elsewhere in this tree's ancestry.
func openInput(path string) (io.Reader, func() error, error) {
	if path == "-" {
		return os.Stdin, func() error { return nil }, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

func loadFile(path string) (*taa.Automaton, *timbuk.Alphabet, error) {
	r, closeFn, err := openInput(path)
	if err != nil {
		return nil, nil, err
	}
	defer closeFn()
	return timbuk.Parse(r)
}

func loadFileWith(path string, al *timbuk.Alphabet) (*taa.Automaton, error) {
	r, closeFn, err := openInput(path)
	if err != nil {
		return nil, err
	}
	defer closeFn()
	return timbuk.ParseWith(r, al)
}
