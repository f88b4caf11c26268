package vm

import (
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"

	"github.com/vybium/vybium-masm/internal/vybium-masm/asm"
)

// ============================================================================
// Stack Manipulation
// ============================================================================

// execStack applies a stack manipulation operand
func (m *Machine) execStack(op asm.Operand) {
	st := m.stack
	idx := int(op.Index())

	switch op.Op {
	case asm.Drop:
		st.Pop()
	case asm.DropW:
		st.PopWord()
	case asm.PadW:
		st.PushWord(ZeroWord())
	case asm.Dup:
		st.Push(st.Peek(idx))
	case asm.DupW:
		st.PushWord(st.PeekWord(idx))
	case asm.Swap:
		st.Swap(0, idx)
	case asm.SwapW:
		st.SwapWords(0, idx)
	case asm.SwapDW:
		st.SwapWords(0, 2)
		st.SwapWords(1, 3)
	case asm.MovUp:
		st.MoveUp(idx)
	case asm.MovUpW:
		st.MoveUpWord(idx)
	case asm.MovDn:
		st.MoveDown(idx)
	case asm.MovDnW:
		st.MoveDownWord(idx)
	case asm.CSwap:
		if isOne(st.Pop()) {
			st.Swap(0, 1)
		}
	case asm.CSwapW:
		if isOne(st.Pop()) {
			st.SwapWords(0, 1)
		}
	case asm.CDrop:
		c := st.Pop()
		b := st.Pop()
		a := st.Pop()
		if isOne(c) {
			st.Push(b)
		} else {
			st.Push(a)
		}
	case asm.CDropW:
		c := st.Pop()
		b := st.PopWord()
		a := st.PopWord()
		if isOne(c) {
			st.PushWord(b)
		} else {
			st.PushWord(a)
		}
	case asm.Push:
		st.Push(field.New(op.Imm))
	case asm.AdvPush:
		for i := 0; i < idx; i++ {
			v, _ := m.advice.Next()
			st.Push(v)
		}
	case asm.AdvLoadW:
		st.PopWord()
		for i := 0; i < WordSize; i++ {
			v, _ := m.advice.Next()
			st.Push(v)
		}
	}
}

func isOne(e field.Element) bool {
	return e.Value() == 1
}
