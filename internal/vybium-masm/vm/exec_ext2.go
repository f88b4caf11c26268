package vm

import (
	"github.com/vybium/vybium-masm/internal/vybium-masm/asm"
	"github.com/vybium/vybium-masm/internal/vybium-masm/core"
)

// ============================================================================
// Extension Field Arithmetic
// ============================================================================

// An extension element occupies two stack slots with its high coefficient
// on top.

func (m *Machine) popExt2() core.Ext2 {
	c1 := m.stack.Pop()
	c0 := m.stack.Pop()
	return core.NewExt2(c0, c1)
}

func (m *Machine) pushExt2(e core.Ext2) {
	m.stack.Push(e.C0)
	m.stack.Push(e.C1)
}

// execExt2 applies an extension field operand
func (m *Machine) execExt2(op asm.Operand) {
	switch op.Op {
	case asm.Ext2Neg:
		m.pushExt2(m.popExt2().Neg())
		return
	case asm.Ext2Inv:
		inv, _ := m.popExt2().Inverse()
		m.pushExt2(inv)
		return
	}

	b := m.popExt2()
	a := m.popExt2()
	switch op.Op {
	case asm.Ext2Add:
		m.pushExt2(a.Add(b))
	case asm.Ext2Sub:
		m.pushExt2(a.Sub(b))
	case asm.Ext2Mul:
		m.pushExt2(a.Mul(b))
	case asm.Ext2Div:
		q, _ := a.Div(b)
		m.pushExt2(q)
	}
}
