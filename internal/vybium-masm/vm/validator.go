package vm

import (
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"

	"github.com/vybium/vybium-masm/internal/vybium-masm/asm"
	"github.com/vybium/vybium-masm/internal/vybium-masm/core"
)

// Check reports whether op can be applied to the current state. It returns
// nil when op may execute and never modifies the stack or the tape.
//
// Wrapping, overflowing and unchecked u32 operands are only checked for
// immediate ranges and zero divisors; field and extension operands only for
// zero divisors and failed assertions.
func Check(st *Stack, adv *AdviceTape, inProc bool, op asm.Operand) *Error {
	info, ok := asm.AllOpcodes[op.Op]
	if !ok {
		return nil
	}

	if info.Imm != asm.ImmNone && (op.HasImm || info.Imm == asm.ImmRequired) {
		if v := op.Index(); v < info.Min || v > info.Max {
			return outOfBounds(op.Op, v, info.Min, info.Max)
		}
	}

	switch info.Family {
	case asm.FamilyStack:
		return checkStack(st, adv, op)
	case asm.FamilyField:
		return checkField(st, op)
	case asm.FamilyBoolean:
		return checkBoolean(st, op)
	case asm.FamilyExt2:
		return checkExt2(st, op)
	case asm.FamilyMemory:
		return checkMemory(st, inProc, op)
	case asm.FamilyU32:
		return checkU32(st, op)
	}
	return nil
}

// peekOperands returns the operands a binary op would pop: b is the
// immediate when present, otherwise the top element, and a lies below it
func peekOperands(st *Stack, op asm.Operand) (a, b field.Element) {
	if op.HasImm {
		return st.Peek(0), field.New(op.Imm)
	}
	return st.Peek(1), st.Peek(0)
}

func checkStack(st *Stack, adv *AdviceTape, op asm.Operand) *Error {
	switch op.Op {
	case asm.CSwap, asm.CSwapW, asm.CDrop, asm.CDropW:
		if c := st.Peek(0); !core.IsBinary(c) {
			return valueError(NotBinaryValue, op.Op, c.Value())
		}
	case asm.AdvPush:
		if n := int(op.Imm); n > adv.Len() {
			return &Error{Kind: AdviceStackReadOutOfBounds, Op: op.Op, Requested: n, Available: adv.Len()}
		}
	case asm.AdvLoadW:
		if adv.Len() < WordSize {
			return &Error{Kind: AdviceStackReadOutOfBounds, Op: op.Op, Requested: WordSize, Available: adv.Len()}
		}
	}
	return nil
}

func checkField(st *Stack, op asm.Operand) *Error {
	switch op.Op {
	case asm.Div:
		if _, b := peekOperands(st, op); b.IsZero() {
			return &Error{Kind: DivisionByZero, Op: op.Op}
		}
	case asm.Inv:
		if st.Peek(0).IsZero() {
			return &Error{Kind: DivisionByZero, Op: op.Op}
		}
	case asm.Pow2:
		if v := st.Peek(0).Value(); v > 63 {
			return outOfBounds(op.Op, v, 0, 63)
		}
	case asm.Assert:
		if v := st.Peek(0).Value(); v != 1 {
			return valueError(AssertionFailed, op.Op, v)
		}
	case asm.AssertZ:
		if v := st.Peek(0).Value(); v != 0 {
			return valueError(AssertionFailed, op.Op, v)
		}
	case asm.AssertEq:
		if a, b := st.Peek(1), st.Peek(0); !a.Equal(b) {
			return &Error{Kind: AssertionFailed, Op: op.Op, Value: a.Value(), Other: b.Value()}
		}
	}
	return nil
}

func checkBoolean(st *Stack, op asm.Operand) *Error {
	n := 2
	if op.Op == asm.Not {
		n = 1
	}
	for i := 0; i < n; i++ {
		if v := st.Peek(i); !core.IsBinary(v) {
			return valueError(NotBinaryValue, op.Op, v.Value())
		}
	}
	return nil
}

func checkExt2(st *Stack, op asm.Operand) *Error {
	switch op.Op {
	case asm.Ext2Inv, asm.Ext2Div:
		if st.Peek(0).IsZero() && st.Peek(1).IsZero() {
			return &Error{Kind: DivisionByZero, Op: op.Op}
		}
	}
	return nil
}

func checkMemory(st *Stack, inProc bool, op asm.Operand) *Error {
	switch op.Op {
	case asm.LocLoad, asm.LocLoadW, asm.LocStore, asm.LocStoreW:
		if !inProc {
			return &Error{Kind: LocalMemoryAccessOutsideProcedure, Op: op.Op}
		}
	default:
		if !op.HasImm {
			if addr := st.Peek(0); !core.IsU32(addr) {
				return valueError(NotU32Value, op.Op, addr.Value())
			}
		}
	}
	return nil
}

// checkedBinary lists the checked u32 operands taking two u32 inputs
var checkedBinary = map[asm.Opcode]bool{
	asm.U32CheckedAdd:    true,
	asm.U32CheckedSub:    true,
	asm.U32CheckedMul:    true,
	asm.U32CheckedDiv:    true,
	asm.U32CheckedMod:    true,
	asm.U32CheckedDivMod: true,
	asm.U32CheckedAnd:    true,
	asm.U32CheckedOr:     true,
	asm.U32CheckedXor:    true,
	asm.U32CheckedShl:    true,
	asm.U32CheckedShr:    true,
	asm.U32CheckedRotl:   true,
	asm.U32CheckedRotr:   true,
	asm.U32CheckedEq:     true,
	asm.U32CheckedNeq:    true,
	asm.U32CheckedLt:     true,
	asm.U32CheckedLte:    true,
	asm.U32CheckedGt:     true,
	asm.U32CheckedGte:    true,
	asm.U32CheckedMin:    true,
	asm.U32CheckedMax:    true,
}

func checkU32(st *Stack, op asm.Operand) *Error {
	if checkedBinary[op.Op] {
		a, b := peekOperands(st, op)
		if !core.IsU32(b) {
			return valueError(NotU32Value, op.Op, b.Value())
		}
		if !core.IsU32(a) {
			return valueError(NotU32Value, op.Op, a.Value())
		}
		return checkU32Result(op, a.Value(), b.Value())
	}

	switch op.Op {
	case asm.U32CheckedNot, asm.U32Assert:
		if v := st.Peek(0); !core.IsU32(v) {
			return valueError(NotU32Value, op.Op, v.Value())
		}
	case asm.U32AssertW:
		for i := 0; i < WordSize; i++ {
			if v := st.Peek(i); !core.IsU32(v) {
				return valueError(NotU32Value, op.Op, v.Value())
			}
		}
	case asm.U32UncheckedDiv, asm.U32UncheckedMod, asm.U32UncheckedDivMod:
		if _, b := peekOperands(st, op); uint32(b.Value()) == 0 {
			return &Error{Kind: zeroDivisorKind(op.Op), Op: op.Op}
		}
	}
	return nil
}

// checkU32Result checks the result constraints of checked u32 operands whose
// inputs are known to be u32 values
func checkU32Result(op asm.Operand, a, b uint64) *Error {
	switch op.Op {
	case asm.U32CheckedAdd:
		if a+b > core.U32Max {
			return valueError(U32Overflow, op.Op, a+b)
		}
	case asm.U32CheckedMul:
		if a*b > core.U32Max {
			return valueError(U32Overflow, op.Op, a*b)
		}
	case asm.U32CheckedSub:
		if a < b {
			return &Error{Kind: U32InvalidSubtraction, Op: op.Op, Value: a, Other: b}
		}
	case asm.U32CheckedDiv, asm.U32CheckedMod, asm.U32CheckedDivMod:
		if b == 0 {
			return &Error{Kind: zeroDivisorKind(op.Op), Op: op.Op}
		}
	case asm.U32CheckedShl, asm.U32CheckedShr, asm.U32CheckedRotl, asm.U32CheckedRotr:
		if b > 31 {
			return outOfBounds(op.Op, b, 0, 31)
		}
	}
	return nil
}

func zeroDivisorKind(op asm.Opcode) ErrorKind {
	switch op {
	case asm.U32CheckedMod, asm.U32UncheckedMod:
		return ModulusByZero
	case asm.U32CheckedDivMod, asm.U32UncheckedDivMod:
		return DivModByZero
	}
	return DivisionByZero
}
