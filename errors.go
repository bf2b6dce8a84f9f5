// Copyright (c) 2024 The taa authors
//
// MIT License

package taa

import "fmt"

// InvariantError reports a fatal, all-or-nothing failure inside the core.
// AddFinal and AddTransition return one when given a state outside the
// automaton's domain or, for AddTransition, a child count that differs
// from the symbol's arity; both inclusion checkers return one when given
// a nil automaton.
type InvariantError struct {
	Op  string // the operation that detected the violation, e.g. "AddTransition"
	Msg string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("taa: %s: %s", e.Op, e.Msg)
}

func invariantf(op, format string, a ...interface{}) error {
	return &InvariantError{Op: op, Msg: fmt.Sprintf(format, a...)}
}

// Refutation reasons, returned as the second value of CheckUpwardInclusion
// and CheckDownwardInclusion whenever the boolean verdict is false. These
// are not errors: a refutation is the expected, successful outcome of a
// failing inclusion test.
const (
	ReasonLeavesNotCovered       = "leaves not covered"
	ReasonSmallerAcceptsBiggerNo = "smaller accepts, bigger does not"
	ReasonLeafSetSizeIncompat    = "leaves set sizes incompatible"
	ReasonNoTransitionForSymbol  = "no matching transition for symbol"
	ReasonNoCoveringChoice       = "no choice of bigger-side tuples covers the smaller tuple"
)
