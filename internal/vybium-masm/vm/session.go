package vm

import (
	"github.com/vybium/vybium-masm/internal/vybium-masm/asm"
	"github.com/vybium/vybium-masm/internal/vybium-masm/utils"
)

// Session builds an entry block one operand at a time and executes each
// top-level statement as soon as it is complete: plain operands at once,
// blocks when their end arrives. Procedures are defined up front and run
// only through exec.
type Session struct {
	m      *Machine
	module *asm.Module
	done   int // operands of the entry block already executed
}

// NewSession creates a session over the given initial stack and advice tape
func NewSession(cfg *utils.Config, stack *Stack, advice *AdviceTape) (*Session, error) {
	m, err := NewMachine(cfg, stack, advice)
	if err != nil {
		return nil, err
	}
	mod := asm.NewModule()
	mod.Main = asm.NewProgram()
	return &Session{m: m, module: mod}, nil
}

// Define registers a procedure
func (s *Session) Define(p *asm.Program) error {
	if err := s.m.Define(p); err != nil {
		return err
	}
	return s.module.AddProcedure(p)
}

// Append adds operands to the entry block. An operand that would unbalance
// the block is rejected with its structural error; precondition violations
// are recorded as diagnostics.
func (s *Session) Append(ops ...asm.Operand) error {
	main := s.module.Main
	for _, op := range ops {
		if err := main.Append(op); err != nil {
			return err
		}
		if main.Depth() > 0 {
			continue
		}
		start := s.done
		s.done = main.Len()
		if err := s.m.ExecuteRange(main, start, s.done); err != nil {
			return err
		}
	}
	return nil
}

// Eval parses src as a module, defines its procedures and appends its entry
// block
func (s *Session) Eval(src string) error {
	mod, err := asm.ParseModule(src)
	if err != nil {
		return err
	}
	for _, p := range mod.Procedures {
		if err := s.Define(p); err != nil {
			return err
		}
	}
	if mod.Main != nil {
		return s.Append(mod.Main.Operands...)
	}
	return nil
}

// Pending reports whether the entry block has an open block awaiting its end
func (s *Session) Pending() bool {
	return s.module.Main.Depth() > 0
}

// Stack returns the live operand stack
func (s *Session) Stack() *Stack { return s.m.Stack() }

// Machine returns the underlying machine
func (s *Session) Machine() *Machine { return s.m }

// Module returns the procedures and entry block built so far
func (s *Session) Module() *asm.Module { return s.module }

// Diagnostics returns every error record collected so far
func (s *Session) Diagnostics() []Diagnostic { return s.m.Diagnostics() }

// Annotated renders the module with its diagnostics spliced in as comments
func (s *Session) Annotated() string {
	return FormatAnnotated(s.module, s.m.Diagnostics())
}
