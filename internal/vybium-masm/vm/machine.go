package vm

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"

	"github.com/vybium/vybium-masm/internal/vybium-masm/asm"
	"github.com/vybium/vybium-masm/internal/vybium-masm/utils"
)

// Machine is the stack machine state together with the interpreter that
// drives it. Programs are never modified by execution: control flow follows
// the jump table of each program and violated preconditions are recorded as
// diagnostics instead of being spliced into the operand sequence.
type Machine struct {
	cfg *utils.Config
	log zerolog.Logger

	stack    *Stack
	advice   *AdviceTape
	ram      *Memory
	registry *Registry

	diags  []Diagnostic
	trace  *TraceRecorder
	cycles int
	depth  int
}

// frame is the program being executed together with the resources it may
// touch besides the shared stack
type frame struct {
	name   string // empty for the entry block
	prog   *asm.Program
	blocks *asm.Blocks
	locals *Memory // nil outside procedures
}

// NewMachine creates a machine over the given initial stack and advice tape.
// A nil stack starts as 16 zeros and a nil tape as an empty one.
func NewMachine(cfg *utils.Config, stack *Stack, advice *AdviceTape) (*Machine, error) {
	if cfg == nil {
		cfg = utils.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	if stack == nil {
		stack = NewStack()
	}
	if advice == nil {
		advice = NewAdviceTape()
	}

	m := &Machine{
		cfg:      cfg,
		log:      cfg.Logger,
		stack:    stack,
		advice:   advice,
		ram:      NewMemory(),
		registry: NewRegistry(),
	}
	if cfg.Trace {
		m.trace = NewTraceRecorder()
	}
	return m, nil
}

// Stack returns the live operand stack
func (m *Machine) Stack() *Stack { return m.stack }

// Advice returns the advice tape
func (m *Machine) Advice() *AdviceTape { return m.advice }

// RAM returns global memory
func (m *Machine) RAM() *Memory { return m.ram }

// Registry returns the procedure registry
func (m *Machine) Registry() *Registry { return m.registry }

// Diagnostics returns every error record collected so far
func (m *Machine) Diagnostics() []Diagnostic { return m.diags }

// Trace returns the recorded trace, or nil when tracing is disabled
func (m *Machine) Trace() []TraceRow { return m.trace.Rows() }

// Cycles returns the number of operands dispatched so far
func (m *Machine) Cycles() int { return m.cycles }

// Define registers a procedure for later exec calls
func (m *Machine) Define(p *asm.Program) error {
	if err := m.registry.Register(p); err != nil {
		return err
	}
	m.log.Debug().Str("proc", p.Name).Int("operands", p.Len()).Int("locals", p.Locals).Msg("procedure defined")
	return nil
}

// Execute runs a complete entry block against the live state
func (m *Machine) Execute(p *asm.Program) error {
	return m.ExecuteRange(p, 0, p.Len())
}

// ExecuteRange runs operands [start, end) of an entry block. The range must
// not cut through a block.
func (m *Machine) ExecuteRange(p *asm.Program, start, end int) error {
	blocks, err := p.Blocks()
	if err != nil {
		return err
	}
	f := &frame{prog: p, blocks: blocks}
	if p.Kind == asm.KindProc {
		f.name = p.Name
		f.locals = NewMemory()
	}
	return m.run(f, start, end)
}

// run interprets operands [start, end) of f. Structural operands jump
// through the jump table; else and end are never dispatched because every
// range stops in front of them.
func (m *Machine) run(f *frame, start, end int) error {
	for i := start; i < end; {
		op := f.prog.Operands[i]
		if err := m.tick(f, i, op); err != nil {
			return err
		}

		switch op.Op {
		case asm.If:
			stop := f.blocks.End(i)
			thenEnd := stop
			els := f.blocks.Else(i)
			if els >= 0 {
				thenEnd = els
			}
			if isOne(m.stack.Pop()) {
				if err := m.run(f, i+1, thenEnd); err != nil {
					return err
				}
			} else if els >= 0 {
				if err := m.run(f, els+1, stop); err != nil {
					return err
				}
			}
			i = stop + 1

		case asm.While:
			stop := f.blocks.End(i)
			for m.continueLoop(m.stack.Pop()) {
				if err := m.run(f, i+1, stop); err != nil {
					return err
				}
				if err := m.tick(f, i, op); err != nil {
					return err
				}
			}
			i = stop + 1

		case asm.Repeat:
			stop := f.blocks.End(i)
			if e := Check(m.stack, m.advice, f.locals != nil, op); e != nil {
				m.record(f, i, op, e)
			} else {
				for n := uint64(0); n < op.Imm; n++ {
					if err := m.run(f, i+1, stop); err != nil {
						return err
					}
				}
			}
			i = stop + 1

		case asm.Exec:
			if err := m.call(f, i, op); err != nil {
				return err
			}
			i++

		case asm.Print:
			fmt.Fprintf(m.cfg.Output, "%s %s\n", op.Name, m.stack)
			i++

		case asm.Else, asm.End, asm.ErrorMarker, asm.Commented:
			i++

		default:
			if err := m.step(f, i, op); err != nil {
				return err
			}
			i++
		}
	}
	return nil
}

// tick accounts one dispatched operand against the cycle limit
func (m *Machine) tick(f *frame, i int, op asm.Operand) error {
	m.cycles++
	if m.cycles > m.cfg.MaxCycles {
		return errors.Wrapf(ErrCycleLimit, "%s at %s[%d] after %d cycles", op, where(f), i, m.cfg.MaxCycles)
	}
	if m.trace != nil {
		m.trace.Record(m.cycles, f.name, i, op, m.stack)
	}
	if e := m.log.Trace(); e.Enabled() {
		e.Int("cycle", m.cycles).
			Str("proc", where(f)).
			Int("index", i).
			Str("op", op.String()).
			Uint64("top", m.stack.Peek(0).Value()).
			Msg("dispatch")
	}
	return nil
}

// continueLoop applies the configured while policy to a popped condition
func (m *Machine) continueLoop(cond field.Element) bool {
	if m.cfg.LoopCondition == utils.ConditionNonZero {
		return !cond.IsZero()
	}
	return isOne(cond)
}

// step validates and applies one plain operand
func (m *Machine) step(f *frame, i int, op asm.Operand) error {
	if e := Check(m.stack, m.advice, f.locals != nil, op); e != nil {
		m.record(f, i, op, e)
		return nil
	}

	switch op.Op.Family() {
	case asm.FamilyStack:
		m.execStack(op)
	case asm.FamilyField:
		m.execField(op)
	case asm.FamilyComparison:
		m.execComparison(op)
	case asm.FamilyBoolean:
		m.execBoolean(op)
	case asm.FamilyExt2:
		m.execExt2(op)
	case asm.FamilyMemory:
		m.execMemory(op, f.locals)
	case asm.FamilyU32:
		m.execU32(op)
	default:
		return errors.Errorf("unknown opcode %d at %s[%d]", op.Op, where(f), i)
	}
	return nil
}

// call runs the named procedure against the live stack and the procedure's
// own local memory
func (m *Machine) call(f *frame, i int, op asm.Operand) error {
	proc := m.registry.Lookup(op.Name)
	if proc == nil {
		m.record(f, i, op, &Error{Kind: ProcedureNotFound, Op: asm.Exec, Name: op.Name})
		return nil
	}
	if m.depth >= m.cfg.MaxCallDepth {
		return errors.Wrapf(ErrCallDepth, "exec.%s at %s[%d] (limit %d)", op.Name, where(f), i, m.cfg.MaxCallDepth)
	}

	// Resolved per call: the builder may have grown the procedure since it
	// was registered.
	blocks, err := proc.Program.Blocks()
	if err != nil {
		return errors.Wrapf(err, "exec.%s at %s[%d]", op.Name, where(f), i)
	}

	m.log.Trace().Str("proc", op.Name).Int("depth", m.depth+1).Msg("call")
	m.depth++
	defer func() { m.depth-- }()

	callee := &frame{
		name:   proc.Name(),
		prog:   proc.Program,
		blocks: blocks,
		locals: proc.Locals,
	}
	return m.run(callee, 0, proc.Program.Len())
}

// record stores a diagnostic for the operand at position i of f
func (m *Machine) record(f *frame, i int, op asm.Operand, e *Error) {
	m.diags = append(m.diags, Diagnostic{
		Procedure: f.name,
		Index:     i,
		Operand:   op,
		Cycle:     m.cycles,
		Err:       e,
	})
	m.log.Debug().Str("proc", where(f)).Int("index", i).Str("op", op.String()).Str("kind", e.Kind.String()).Msg(e.Error())
}

func where(f *frame) string {
	if f.name == "" {
		return "begin"
	}
	return "proc." + f.name
}
