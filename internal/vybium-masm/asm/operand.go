package asm

import (
	"strconv"
	"strings"
)

// Operand is one instruction of a program: an opcode with its optional
// immediate and, for exec and the diagnostic markers, a name or message.
//
// Operands are plain values and compare with ==.
type Operand struct {
	Op     Opcode
	Imm    uint64
	HasImm bool
	Name   string
}

// Op returns the operand for an opcode without an immediate
func Op(op Opcode) Operand {
	return Operand{Op: op}
}

// OpImm returns the operand for an opcode with an immediate
func OpImm(op Opcode, imm uint64) Operand {
	return Operand{Op: op, Imm: imm, HasImm: true}
}

// PushOp returns a push operand for value
func PushOp(value uint64) Operand {
	return OpImm(Push, value)
}

// IfOp returns an if.true operand
func IfOp() Operand { return Op(If) }

// ElseOp returns an else operand
func ElseOp() Operand { return Op(Else) }

// EndOp returns an end operand
func EndOp() Operand { return Op(End) }

// WhileOp returns a while.true operand
func WhileOp() Operand { return Op(While) }

// RepeatOp returns a repeat operand running its body n times
func RepeatOp(n uint64) Operand {
	return OpImm(Repeat, n)
}

// ExecOp returns an operand invoking the named procedure
func ExecOp(name string) Operand {
	return Operand{Op: Exec, Name: name}
}

// PrintOp returns a diagnostic operand that prints message and the stack
func PrintOp(message string) Operand {
	return Operand{Op: Print, Name: message}
}

// ErrorOp returns the marker spliced before a rejected operand
func ErrorOp(message string) Operand {
	return Operand{Op: ErrorMarker, Name: message}
}

// CommentOp returns the commented-out form of a rejected operand
func CommentOp(original Operand) Operand {
	return Operand{Op: Commented, Name: original.String()}
}

// Index returns the immediate of the operand, or the implied default of
// opcodes whose immediate is optional
func (o Operand) Index() uint64 {
	if o.HasImm {
		return o.Imm
	}
	return AllOpcodes[o.Op].Default
}

// IsDiagnostic reports whether the operand only carries diagnostics
func (o Operand) IsDiagnostic() bool {
	return o.Op.IsDiagnostic()
}

// String returns the canonical assembly spelling of the operand, with the
// immediate joined by '.'
func (o Operand) String() string {
	switch o.Op {
	case If, While:
		return o.Op.String() + ".true"
	case Exec:
		return "exec." + o.Name
	case Print:
		return "print " + strconv.Quote(o.Name)
	case ErrorMarker:
		return "# error: " + o.Name
	case Commented:
		return "# " + o.Name
	}

	var b strings.Builder
	b.WriteString(o.Op.String())
	if o.HasImm {
		b.WriteByte('.')
		b.WriteString(strconv.FormatUint(o.Imm, 10))
	}
	return b.String()
}
