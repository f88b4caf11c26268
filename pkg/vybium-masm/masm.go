package vybiummasm

import (
	"github.com/vybium/vybium-masm/internal/vybium-masm/asm"
	"github.com/vybium/vybium-masm/internal/vybium-masm/inputs"
	"github.com/vybium/vybium-masm/internal/vybium-masm/prover"
	"github.com/vybium/vybium-masm/internal/vybium-masm/utils"
	"github.com/vybium/vybium-masm/internal/vybium-masm/vm"
)

// DefaultConfig returns the default interpreter configuration
func DefaultConfig() *Config {
	return utils.DefaultConfig()
}

// ParseLoopCondition parses a while policy name: "equals-one" or "non-zero"
func ParseLoopCondition(s string) (LoopCondition, error) {
	cond, err := utils.ParseLoopCondition(s)
	if err != nil {
		return cond, &VMError{Code: ErrInvalidConfig, Message: "invalid loop condition", Cause: err}
	}
	return cond, nil
}

// Assemble parses assembly text into a module
func Assemble(src string) (*Module, error) {
	mod, err := asm.ParseModule(src)
	if err != nil {
		return nil, wrap(err, ErrSyntax, "failed to assemble")
	}
	return mod, nil
}

// Run executes the entry block of mod. A nil cfg selects DefaultConfig and
// nil inputs start from an all-zero stack and an empty advice tape.
func Run(cfg *Config, mod *Module, in *Inputs) (*Result, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, &VMError{Code: ErrInvalidConfig, Message: "invalid config", Cause: err}
	}
	if in == nil {
		in = inputs.New(nil, nil)
	}

	res, err := vm.Run(cfg, mod, in.Stack(), in.AdviceTape())
	if err != nil {
		return nil, wrap(err, ErrExecution, "execution aborted")
	}
	return res, nil
}

// RunSource assembles and runs src
func RunSource(cfg *Config, src string, in *Inputs) (*Result, error) {
	mod, err := Assemble(src)
	if err != nil {
		return nil, err
	}
	return Run(cfg, mod, in)
}

// NewSession creates an eager session over in
func NewSession(cfg *Config, in *Inputs) (*Session, error) {
	if in == nil {
		in = inputs.New(nil, nil)
	}
	s, err := vm.NewSession(cfg, in.Stack(), in.AdviceTape())
	if err != nil {
		return nil, &VMError{Code: ErrInvalidConfig, Message: "invalid config", Cause: err}
	}
	return s, nil
}

// Format renders mod as assembly text
func Format(mod *Module) string {
	return asm.FormatModule(mod)
}

// FormatAnnotated renders mod with diagnostics spliced in as comments
func FormatAnnotated(mod *Module, diags []Diagnostic) string {
	return vm.FormatAnnotated(mod, diags)
}

// NewInputs creates inputs from a top-first operand stack and an advice tape
func NewInputs(stack, advice []uint64) *Inputs {
	return inputs.New(stack, advice)
}

// LoadInputs reads inputs from a JSON file
func LoadInputs(path string) (*Inputs, error) {
	in, err := inputs.LoadFile(path)
	if err != nil {
		return nil, wrap(err, ErrInvalidInput, "failed to load inputs")
	}
	return in, nil
}

// ParseInputs decodes inputs from JSON
func ParseInputs(data []byte) (*Inputs, error) {
	in, err := inputs.Parse(data)
	if err != nil {
		return nil, wrap(err, ErrInvalidInput, "failed to parse inputs")
	}
	return in, nil
}

// Prover proves executions on the local backend
type Prover struct {
	backend *prover.LocalBackend
}

// NewProver creates a prover running under cfg
func NewProver(cfg *Config) (*Prover, error) {
	b, err := prover.NewLocalBackend(cfg)
	if err != nil {
		return nil, &VMError{Code: ErrInvalidConfig, Message: "invalid config", Cause: err}
	}
	return &Prover{backend: b}, nil
}

// Backend returns the underlying proving backend
func (p *Prover) Backend() Backend {
	return p.backend
}

// Compile prepares assembly text for proving
func (p *Prover) Compile(src string) (*CompiledProgram, error) {
	prog, err := p.backend.Compile(src)
	if err != nil {
		return nil, wrap(err, ErrAssembly, "failed to compile")
	}
	return prog, nil
}

// Prove runs prog on in and returns the top 16 stack values with a proof
func (p *Prover) Prove(prog *CompiledProgram, in *Inputs) ([]uint64, *Proof, error) {
	if in == nil {
		in = inputs.New(nil, nil)
	}
	outputs, proof, err := p.backend.Prove(prog, in.OperandStack, in.AdviceStack)
	if err != nil {
		return nil, nil, wrap(err, ErrProving, "failed to prove")
	}
	return outputs, proof, nil
}

// Verify checks a proof by re-executing prog
func (p *Prover) Verify(prog *CompiledProgram, in *Inputs, outputs []uint64, proof *Proof) error {
	if in == nil {
		in = inputs.New(nil, nil)
	}
	if err := p.backend.Verify(prog, in.OperandStack, in.AdviceStack, outputs, proof); err != nil {
		return wrap(err, ErrProving, "verification failed")
	}
	return nil
}
