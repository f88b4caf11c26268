package asm

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind tells whether a program is an entry block or a procedure
type Kind uint8

const (
	// KindBegin is an entry block, executed against the live stack
	KindBegin Kind = iota
	// KindProc is a named procedure, executed only through exec
	KindProc
)

func (k Kind) String() string {
	if k == KindProc {
		return "proc"
	}
	return "begin"
}

// MaxLocals is the number of addressable local memory slots of a procedure
const MaxLocals = maxU16 + 1

type openBlock struct {
	index   int
	op      Opcode
	hasElse bool
}

// Program is a flat operand sequence together with its kind. Control flow
// stays linear: blocks are delimited by structural operands and resolved
// into a jump table on demand.
type Program struct {
	Kind     Kind
	Name     string
	Locals   int
	Operands []Operand

	open   []openBlock
	blocks *Blocks
}

// NewProgram creates an empty entry block
func NewProgram() *Program {
	return &Program{
		Kind:     KindBegin,
		Operands: make([]Operand, 0),
	}
}

// NewProcedure creates an empty procedure with the given name and declared
// number of local memory slots
func NewProcedure(name string, locals int) (*Program, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	if locals < 0 || locals > MaxLocals {
		return nil, errors.Errorf("procedure %s: invalid local count %d (must be 0-%d)", name, locals, MaxLocals)
	}
	return &Program{
		Kind:     KindProc,
		Name:     name,
		Locals:   locals,
		Operands: make([]Operand, 0),
	}, nil
}

// ValidateName checks that name can be written as a procedure name
func ValidateName(name string) error {
	if name == "" {
		return errors.New("empty procedure name")
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		if isSeparator(c) || c == '#' {
			return errors.Errorf("invalid procedure name %q", name)
		}
	}
	if _, ok := LookupKeyword(name); ok || name == "proc" || name == "begin" {
		return errors.Errorf("procedure name %q is a keyword", name)
	}
	if _, ok := parseNumber(name); ok {
		return errors.Errorf("procedure name %q is a number", name)
	}
	return nil
}

// Append adds an operand to the end of the program. Structural operands are
// checked as they arrive: else must belong to the innermost open if, and end
// must close an open block.
func (p *Program) Append(op Operand) error {
	if !op.Op.Valid() {
		return errors.Errorf("unknown opcode %d", op.Op)
	}

	idx := len(p.Operands)
	switch op.Op {
	case If, While, Repeat:
		p.open = append(p.open, openBlock{index: idx, op: op.Op})
	case Else:
		if len(p.open) == 0 {
			return &StructureError{Index: idx, Op: Else, Msg: "else without if"}
		}
		top := &p.open[len(p.open)-1]
		if top.op != If {
			return &StructureError{Index: idx, Op: Else, Msg: "else inside " + top.op.String() + " block"}
		}
		if top.hasElse {
			return &StructureError{Index: idx, Op: Else, Msg: "second else for the same if"}
		}
		top.hasElse = true
	case End:
		if len(p.open) == 0 {
			return &StructureError{Index: idx, Op: End, Msg: "end without open block"}
		}
		p.open = p.open[:len(p.open)-1]
	case Exec:
		if err := ValidateName(op.Name); err != nil {
			return errors.Wrap(err, "exec")
		}
	case LocStore, LocStoreW:
		if op.HasImm && op.Imm < MaxLocals && int(op.Imm) >= p.Locals {
			p.Locals = int(op.Imm) + 1
		}
	}

	p.Operands = append(p.Operands, op)
	return nil
}

// MustAppend appends every operand and panics on a structural error. It is
// meant for building fixed programs in tests and examples.
func (p *Program) MustAppend(ops ...Operand) *Program {
	for _, op := range ops {
		if err := p.Append(op); err != nil {
			panic(fmt.Sprintf("append %s: %v", op, err))
		}
	}
	return p
}

// Depth returns the number of currently open blocks
func (p *Program) Depth() int {
	return len(p.open)
}

// Len returns the number of operands
func (p *Program) Len() int {
	return len(p.Operands)
}

// Close checks that every block has been closed
func (p *Program) Close() error {
	if len(p.open) > 0 {
		top := p.open[len(p.open)-1]
		return &StructureError{Index: top.index, Op: top.op, Msg: "block is never closed"}
	}
	return nil
}

// Blocks returns the jump table of the program, resolving it when operands
// were appended since the last call
func (p *Program) Blocks() (*Blocks, error) {
	if p.blocks != nil && p.blocks.Len() == len(p.Operands) {
		return p.blocks, nil
	}
	b, err := ResolveBlocks(p.Operands)
	if err != nil {
		return nil, err
	}
	p.blocks = b
	return b, nil
}

// Header returns the header line of the program
func (p *Program) Header() string {
	if p.Kind == KindBegin {
		return "begin"
	}
	if p.Locals > 0 {
		return fmt.Sprintf("proc.%s.%d", p.Name, p.Locals)
	}
	return "proc." + p.Name
}

// Module is a set of procedures followed by an optional entry block
type Module struct {
	Procedures []*Program
	Main       *Program
}

// NewModule creates an empty module
func NewModule() *Module {
	return &Module{}
}

// AddProcedure registers a procedure; names must be unique within a module
func (m *Module) AddProcedure(p *Program) error {
	if p.Kind != KindProc {
		return errors.New("not a procedure")
	}
	if m.Procedure(p.Name) != nil {
		return errors.Wrap(ErrDuplicateProcedure, p.Name)
	}
	m.Procedures = append(m.Procedures, p)
	return nil
}

// Procedure returns the procedure with the given name, or nil
func (m *Module) Procedure(name string) *Program {
	for _, p := range m.Procedures {
		if p.Name == name {
			return p
		}
	}
	return nil
}
