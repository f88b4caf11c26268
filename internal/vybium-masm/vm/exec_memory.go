package vm

import (
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"

	"github.com/vybium/vybium-masm/internal/vybium-masm/asm"
)

// ============================================================================
// Memory
// ============================================================================

// execMemory applies a RAM or local memory operand. locals is the local
// memory of the running procedure.
func (m *Machine) execMemory(op asm.Operand, locals *Memory) {
	st := m.stack

	mem := m.ram
	var addr uint32
	switch op.Op {
	case asm.LocLoad, asm.LocLoadW, asm.LocStore, asm.LocStoreW:
		mem = locals
		addr = uint32(op.Imm)
	default:
		if op.HasImm {
			addr = uint32(op.Imm)
		} else {
			addr = uint32(st.Pop().Value())
		}
	}

	switch op.Op {
	case asm.MemLoad, asm.LocLoad:
		st.Push(mem.Load(addr)[0])
	case asm.MemLoadW, asm.LocLoadW:
		st.PopWord()
		st.PushWord(mem.Load(addr))
	case asm.MemStore, asm.LocStore:
		mem.Store(addr, Word{st.Pop(), field.Zero, field.Zero, field.Zero})
	case asm.MemStoreW, asm.LocStoreW:
		mem.Store(addr, st.PeekWord(0))
	}
}
