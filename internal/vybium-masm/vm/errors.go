package vm

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/vybium/vybium-masm/internal/vybium-masm/asm"
)

// Fatal execution errors. They abort a run; everything else is recorded as
// a Diagnostic and execution continues.
var (
	ErrCycleLimit = errors.New("cycle limit exceeded")
	ErrCallDepth  = errors.New("call depth exceeded")
)

// ErrorKind classifies a violated precondition
type ErrorKind uint8

const (
	ParameterOutOfBounds ErrorKind = iota + 1
	DivisionByZero
	ModulusByZero
	DivModByZero
	NotBinaryValue
	NotU32Value
	U32Overflow
	U32InvalidSubtraction
	AdviceStackReadOutOfBounds
	DuplicateProcedureName
	ProcedureNotFound
	LocalMemoryAccessOutsideProcedure
	AssertionFailed
)

var errorKindNames = map[ErrorKind]string{
	ParameterOutOfBounds:              "ParameterOutOfBounds",
	DivisionByZero:                    "DivisionByZero",
	ModulusByZero:                     "ModulusByZero",
	DivModByZero:                      "DivModByZero",
	NotBinaryValue:                    "NotBinaryValue",
	NotU32Value:                       "NotU32Value",
	U32Overflow:                       "U32Overflow",
	U32InvalidSubtraction:             "U32InvalidSubtraction",
	AdviceStackReadOutOfBounds:        "AdviceStackReadOutOfBounds",
	DuplicateProcedureName:            "DuplicateProcedureName",
	ProcedureNotFound:                 "ProcedureNotFound",
	LocalMemoryAccessOutsideProcedure: "LocalMemoryAccessOutsideProcedure",
	AssertionFailed:                   "AssertionFailed",
}

func (k ErrorKind) String() string {
	if name, ok := errorKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ErrorKind(%d)", k)
}

// Error records a violated precondition together with the offending values.
// Which fields are set depends on Kind.
type Error struct {
	Kind ErrorKind
	Op   asm.Opcode

	Value uint64 // offending value
	Other uint64 // second operand of subtraction and equality failures

	Min, Max uint64 // legal range, ParameterOutOfBounds only

	Requested, Available int // AdviceStackReadOutOfBounds only

	Name string // procedure name
}

func (e *Error) Error() string {
	switch e.Kind {
	case ParameterOutOfBounds:
		return fmt.Sprintf("%s: %s parameter %d out of bounds [%d, %d]", e.Kind, e.Op, e.Value, e.Min, e.Max)
	case DivisionByZero, ModulusByZero, DivModByZero:
		return fmt.Sprintf("%s: %s", e.Kind, e.Op)
	case NotBinaryValue, NotU32Value, U32Overflow:
		return fmt.Sprintf("%s(%d): %s", e.Kind, e.Value, e.Op)
	case U32InvalidSubtraction:
		return fmt.Sprintf("%s(%d, %d): %s", e.Kind, e.Value, e.Other, e.Op)
	case AdviceStackReadOutOfBounds:
		return fmt.Sprintf("%s: requested %d, available %d", e.Kind, e.Requested, e.Available)
	case DuplicateProcedureName, ProcedureNotFound:
		return fmt.Sprintf("%s: %s", e.Kind, e.Name)
	case LocalMemoryAccessOutsideProcedure:
		return fmt.Sprintf("%s: %s", e.Kind, e.Op)
	case AssertionFailed:
		if e.Op == asm.AssertEq {
			return fmt.Sprintf("%s(%d, %d): %s", e.Kind, e.Value, e.Other, e.Op)
		}
		return fmt.Sprintf("%s(%d): %s", e.Kind, e.Value, e.Op)
	}
	return e.Kind.String()
}

// Is reports whether target is an *Error of the same kind
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

func outOfBounds(op asm.Opcode, value, min, max uint64) *Error {
	return &Error{Kind: ParameterOutOfBounds, Op: op, Value: value, Min: min, Max: max}
}

func valueError(kind ErrorKind, op asm.Opcode, value uint64) *Error {
	return &Error{Kind: kind, Op: op, Value: value}
}

// Diagnostic is an error record attached to the operand that caused it.
// Procedure is empty for the entry block.
type Diagnostic struct {
	Procedure string
	Index     int
	Operand   asm.Operand
	Cycle     int
	Err       *Error
}

func (d Diagnostic) String() string {
	where := "begin"
	if d.Procedure != "" {
		where = "proc." + d.Procedure
	}
	if d.Index < 0 {
		return fmt.Sprintf("%s: %v", where, d.Err)
	}
	return fmt.Sprintf("%s[%d] %s: %v", where, d.Index, d.Operand, d.Err)
}
