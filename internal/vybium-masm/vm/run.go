package vm

import (
	"github.com/pkg/errors"

	"github.com/vybium/vybium-masm/internal/vybium-masm/asm"
	"github.com/vybium/vybium-masm/internal/vybium-masm/utils"
)

// Result is the outcome of running a module
type Result struct {
	Stack       *Stack
	Advice      *AdviceTape // unread values
	RAM         *Memory
	Diagnostics []Diagnostic
	Trace       []TraceRow
	Cycles      int
}

// Outputs returns the canonical values of the top n stack elements
func (r *Result) Outputs(n int) []uint64 {
	return r.Stack.Uint64s(n)
}

// OK reports whether the run finished without diagnostics
func (r *Result) OK() bool {
	return len(r.Diagnostics) == 0
}

// Run executes the entry block of mod on a fresh machine. The module, stack
// and tape are not modified, so the same module can be replayed against
// different inputs.
//
// Violated preconditions do not stop execution; they are returned in
// Result.Diagnostics. Only structural errors and the cycle and call depth
// limits make Run fail.
func Run(cfg *utils.Config, mod *asm.Module, stack *Stack, advice *AdviceTape) (*Result, error) {
	if mod == nil || mod.Main == nil {
		return nil, errors.New("module has no entry block")
	}
	if stack == nil {
		stack = NewStack()
	}

	m, err := NewMachine(cfg, stack.Clone(), advice.Clone())
	if err != nil {
		return nil, err
	}

	for _, p := range mod.Procedures {
		if err := m.Define(p); err != nil {
			var e *Error
			if errors.As(err, &e) {
				m.diags = append(m.diags, Diagnostic{Procedure: p.Name, Index: -1, Err: e})
				continue
			}
			return nil, err
		}
	}

	if err := mod.Main.Close(); err != nil {
		return nil, err
	}
	if err := m.Execute(mod.Main); err != nil {
		return nil, err
	}

	return &Result{
		Stack:       m.stack,
		Advice:      m.advice,
		RAM:         m.ram,
		Diagnostics: m.diags,
		Trace:       m.Trace(),
		Cycles:      m.cycles,
	}, nil
}
