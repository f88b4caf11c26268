package vm

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/vybium/vybium-masm/internal/vybium-masm/asm"
)

// Procedure is a registered procedure: its operand sequence and the local
// memory it owns. Invocations share the caller's stack but only ever touch
// their own local memory. The program stays live, so operands appended after
// registration run on the next call.
type Procedure struct {
	Program *asm.Program
	Locals  *Memory
}

// Name returns the procedure name
func (p *Procedure) Name() string {
	return p.Program.Name
}

// Registry maps procedure names to procedures
type Registry struct {
	procs map[string]*Procedure
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{procs: make(map[string]*Procedure)}
}

// Register adds a procedure. The program must be a closed procedure;
// registering a name twice yields a DuplicateProcedureName error.
func (r *Registry) Register(p *asm.Program) error {
	if p.Kind != asm.KindProc {
		return errors.New("register: not a procedure")
	}
	if err := p.Close(); err != nil {
		return errors.Wrapf(err, "register %s", p.Name)
	}
	if _, ok := r.procs[p.Name]; ok {
		return &Error{Kind: DuplicateProcedureName, Op: asm.Exec, Name: p.Name}
	}
	if _, err := p.Blocks(); err != nil {
		return errors.Wrapf(err, "register %s", p.Name)
	}
	r.procs[p.Name] = &Procedure{Program: p, Locals: NewMemory()}
	return nil
}

// Lookup returns the procedure with the given name, or nil
func (r *Registry) Lookup(name string) *Procedure {
	return r.procs[name]
}

// Names returns the registered names in sorted order
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.procs))
	for n := range r.procs {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered procedures
func (r *Registry) Len() int {
	return len(r.procs)
}
