package vm

import (
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"

	"github.com/vybium/vybium-masm/internal/vybium-masm/asm"
	"github.com/vybium/vybium-masm/internal/vybium-masm/core"
)

// popOperands pops the operands of a binary op. b is the immediate when one
// is present, otherwise the top element; a is popped after b.
func (m *Machine) popOperands(op asm.Operand) (a, b field.Element) {
	if op.HasImm {
		b = field.New(op.Imm)
	} else {
		b = m.stack.Pop()
	}
	a = m.stack.Pop()
	return a, b
}

// ============================================================================
// Field Arithmetic
// ============================================================================

// execField applies a field arithmetic operand
func (m *Machine) execField(op asm.Operand) {
	st := m.stack

	switch op.Op {
	case asm.Add:
		a, b := m.popOperands(op)
		st.Push(a.Add(b))
	case asm.Sub:
		a, b := m.popOperands(op)
		st.Push(a.Sub(b))
	case asm.Mul:
		a, b := m.popOperands(op)
		st.Push(a.Mul(b))
	case asm.Div:
		a, b := m.popOperands(op)
		st.Push(a.Mul(b.Inverse()))
	case asm.Neg:
		st.Push(st.Pop().Neg())
	case asm.Inv:
		st.Push(st.Pop().Inverse())
	case asm.Pow2:
		st.Push(field.New(uint64(1) << st.Pop().Value()))
	case asm.Exp:
		a, b := m.popOperands(op)
		st.Push(a.ModPow(b.Value()))
	case asm.Incr:
		st.Push(st.Pop().Add(field.One))
	case asm.Decr:
		st.Push(st.Pop().Sub(field.One))
	case asm.Assert, asm.AssertZ:
		st.Pop()
	case asm.AssertEq:
		st.Pop()
		st.Pop()
	}
}

// ============================================================================
// Comparison
// ============================================================================

// execComparison applies a field comparison operand
func (m *Machine) execComparison(op asm.Operand) {
	st := m.stack

	if op.Op == asm.EqW {
		st.Push(core.Bool(st.PeekWord(0).Equal(st.PeekWord(1))))
		return
	}

	a, b := m.popOperands(op)
	av, bv := a.Value(), b.Value()
	var r bool
	switch op.Op {
	case asm.Eq:
		r = av == bv
	case asm.Neq:
		r = av != bv
	case asm.Lt:
		r = av < bv
	case asm.Lte:
		r = av <= bv
	case asm.Gt:
		r = av > bv
	case asm.Gte:
		r = av >= bv
	}
	st.Push(core.Bool(r))
}

// ============================================================================
// Boolean
// ============================================================================

// execBoolean applies a boolean operand to binary inputs
func (m *Machine) execBoolean(op asm.Operand) {
	st := m.stack

	if op.Op == asm.Not {
		st.Push(core.Bool(!isOne(st.Pop())))
		return
	}

	b := isOne(st.Pop())
	a := isOne(st.Pop())
	var r bool
	switch op.Op {
	case asm.And:
		r = a && b
	case asm.Or:
		r = a || b
	case asm.Xor:
		r = a != b
	}
	st.Push(core.Bool(r))
}
