package vm

import (
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"

	"github.com/vybium/vybium-masm/internal/vybium-masm/asm"
	"github.com/vybium/vybium-masm/internal/vybium-masm/core"
)

// ============================================================================
// u32 Operations
// ============================================================================

// Inputs of unchecked, wrapping and overflowing operands are reduced to their
// low 32 bits; checked operands have been validated as u32 values already.

func (m *Machine) popU32Operands(op asm.Operand) (a, b uint32) {
	x, y := m.popOperands(op)
	return uint32(x.Value()), uint32(y.Value())
}

func (m *Machine) pushU32(v uint32) {
	m.stack.Push(field.New(uint64(v)))
}

// execU32 applies a u32 operand
func (m *Machine) execU32(op asm.Operand) {
	st := m.stack

	switch op.Op {
	case asm.U32Test:
		st.Push(core.Bool(core.IsU32(st.Peek(0))))
		return
	case asm.U32TestW:
		all := true
		for i := 0; i < WordSize; i++ {
			all = all && core.IsU32(st.Peek(i))
		}
		st.Push(core.Bool(all))
		return
	case asm.U32Assert, asm.U32AssertW:
		return
	case asm.U32Cast:
		lo, _ := core.Split(st.Pop())
		m.pushU32(lo)
		return
	case asm.U32Split:
		lo, hi := core.Split(st.Pop())
		m.pushU32(lo)
		m.pushU32(hi)
		return
	case asm.U32CheckedNot:
		m.pushU32(^uint32(st.Pop().Value()))
		return
	}

	a, b := m.popU32Operands(op)
	switch op.Op {
	case asm.U32CheckedAdd, asm.U32WrappingAdd:
		m.pushU32(a + b)
	case asm.U32OverflowingAdd:
		sum, carry := core.OverflowingAdd(a, b)
		m.pushU32(sum)
		m.pushU32(carry)
	case asm.U32CheckedSub, asm.U32WrappingSub:
		m.pushU32(a - b)
	case asm.U32OverflowingSub:
		diff, borrow := core.OverflowingSub(a, b)
		m.pushU32(diff)
		m.pushU32(borrow)
	case asm.U32CheckedMul, asm.U32WrappingMul:
		m.pushU32(a * b)
	case asm.U32OverflowingMul:
		lo, hi := core.WideningMul(a, b)
		m.pushU32(lo)
		m.pushU32(hi)
	case asm.U32CheckedDiv, asm.U32UncheckedDiv:
		m.pushU32(a / b)
	case asm.U32CheckedMod, asm.U32UncheckedMod:
		m.pushU32(a % b)
	case asm.U32CheckedDivMod, asm.U32UncheckedDivMod:
		m.pushU32(a / b)
		m.pushU32(a % b)
	case asm.U32CheckedAnd:
		m.pushU32(a & b)
	case asm.U32CheckedOr:
		m.pushU32(a | b)
	case asm.U32CheckedXor:
		m.pushU32(a ^ b)
	case asm.U32CheckedShl, asm.U32UncheckedShl:
		m.pushU32(a << (b & 31))
	case asm.U32CheckedShr, asm.U32UncheckedShr:
		m.pushU32(a >> (b & 31))
	case asm.U32CheckedRotl, asm.U32UncheckedRotl:
		m.pushU32(core.RotateLeft(a, uint(b&31)))
	case asm.U32CheckedRotr, asm.U32UncheckedRotr:
		m.pushU32(core.RotateRight(a, uint(b&31)))
	case asm.U32CheckedEq:
		st.Push(core.Bool(a == b))
	case asm.U32CheckedNeq:
		st.Push(core.Bool(a != b))
	case asm.U32CheckedLt, asm.U32UncheckedLt:
		st.Push(core.Bool(a < b))
	case asm.U32CheckedLte, asm.U32UncheckedLte:
		st.Push(core.Bool(a <= b))
	case asm.U32CheckedGt, asm.U32UncheckedGt:
		st.Push(core.Bool(a > b))
	case asm.U32CheckedGte, asm.U32UncheckedGte:
		st.Push(core.Bool(a >= b))
	case asm.U32CheckedMin, asm.U32UncheckedMin:
		if a < b {
			m.pushU32(a)
		} else {
			m.pushU32(b)
		}
	case asm.U32CheckedMax, asm.U32UncheckedMax:
		if a > b {
			m.pushU32(a)
		} else {
			m.pushU32(b)
		}
	}
}
