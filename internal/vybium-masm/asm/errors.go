package asm

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrUnexpectedEOF is returned when the input ends inside a construct
	ErrUnexpectedEOF = errors.New("unexpected end of input")

	// ErrDuplicateProcedure is returned when a module defines a name twice
	ErrDuplicateProcedure = errors.New("duplicate procedure name")
)

// SyntaxError reports a source text that cannot be parsed. Parsing stops at
// the first SyntaxError; no partial program is returned.
type SyntaxError struct {
	Line  int
	Token string
	Msg   string
	Err   error
}

func (e *SyntaxError) Error() string {
	if e.Token == "" {
		return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
	}
	return fmt.Sprintf("line %d: %s (at %q)", e.Line, e.Msg, e.Token)
}

// Cause returns the sentinel behind the error, if any
func (e *SyntaxError) Cause() error {
	return e.Err
}

// Unwrap returns the sentinel behind the error, if any
func (e *SyntaxError) Unwrap() error {
	return e.Err
}

// StructureError reports unbalanced control flow: an else outside an if, an
// end without an open block, or a block that is never closed.
type StructureError struct {
	Index int
	Op    Opcode
	Msg   string
}

func (e *StructureError) Error() string {
	if e.Index < 0 {
		return e.Msg
	}
	return fmt.Sprintf("operand %d (%s): %s", e.Index, e.Op, e.Msg)
}
