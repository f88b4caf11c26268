// Package prover hands assembled programs to a proving backend. The Backend
// interface is what the interpreter exposes to provers; LocalBackend is a
// transcript backend that re-executes the program, commits to its trace
// with a Fiat-Shamir channel and opens a few sampled trace rows. It binds
// program, inputs and outputs together but is not zero-knowledge.
package prover

import (
	"bytes"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"

	"github.com/vybium/vybium-masm/internal/vybium-masm/asm"
	"github.com/vybium/vybium-masm/internal/vybium-masm/utils"
	"github.com/vybium/vybium-masm/internal/vybium-masm/vm"
)

// DefaultQueries is the number of trace rows opened by a proof
const DefaultQueries = 8

// Backend compiles assembly text and proves executions of the result
type Backend interface {
	Compile(assembly string) (*CompiledProgram, error)
	Prove(prog *CompiledProgram, stackInputs, adviceInputs []uint64) ([]uint64, *Proof, error)
}

// CompiledProgram is a parsed, structurally checked module and its digest
type CompiledProgram struct {
	Module *asm.Module
	Digest field.Element
}

// Proof binds a program digest, its inputs and outputs to an execution
// trace. Commitment is the channel state after the whole transcript.
type Proof struct {
	Digest     field.Element
	Cycles     int
	Commitment []byte
	Queries    []vm.TraceRow
}

// LocalBackend proves executions on the local interpreter
type LocalBackend struct {
	cfg      *utils.Config
	log      zerolog.Logger
	queries  int
	hashFunc string
}

// NewLocalBackend creates a backend running under cfg; a nil cfg selects the
// default configuration
func NewLocalBackend(cfg *utils.Config) (*LocalBackend, error) {
	if cfg == nil {
		cfg = utils.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return &LocalBackend{
		cfg:      cfg.Clone().WithTrace(true),
		log:      cfg.Logger,
		queries:  DefaultQueries,
		hashFunc: "sha3",
	}, nil
}

// WithQueries sets the number of opened trace rows
func (b *LocalBackend) WithQueries(n int) *LocalBackend {
	b.queries = n
	return b
}

// Compile parses assembly text into a module with an entry block
func (b *LocalBackend) Compile(assembly string) (*CompiledProgram, error) {
	mod, err := asm.ParseModule(assembly)
	if err != nil {
		return nil, &AssemblyError{Err: err}
	}
	if mod.Main == nil {
		return nil, &AssemblyError{Err: errors.New("no begin block")}
	}
	for _, p := range mod.Procedures {
		if err := p.Close(); err != nil {
			return nil, &AssemblyError{Err: err}
		}
	}
	if err := mod.Main.Close(); err != nil {
		return nil, &AssemblyError{Err: err}
	}

	prog := &CompiledProgram{Module: mod, Digest: ProgramDigest(mod)}
	b.log.Debug().Uint64("digest", prog.Digest.Value()).Int("procedures", len(mod.Procedures)).Msg("program compiled")
	return prog, nil
}

// Prove runs prog and returns the top 16 stack values with a proof of the
// run. Executions that record diagnostics cannot be proven.
func (b *LocalBackend) Prove(prog *CompiledProgram, stackInputs, adviceInputs []uint64) ([]uint64, *Proof, error) {
	if prog == nil || prog.Module == nil {
		return nil, nil, &ProvingError{Msg: "no program"}
	}

	res, err := vm.Run(b.cfg, prog.Module, vm.NewStackFromUint64(stackInputs...), vm.NewAdviceTape(adviceInputs...))
	if err != nil {
		return nil, nil, &ProvingError{Msg: "execution failed", Err: err}
	}
	if !res.OK() {
		return nil, nil, &ProvingError{Msg: "execution recorded errors", Err: res.Diagnostics[0].Err}
	}

	outputs := res.Outputs(vm.MinStackDepth)
	proof := b.transcript(prog.Digest, stackInputs, adviceInputs, outputs, res.Trace)

	b.log.Debug().
		Uint64("digest", prog.Digest.Value()).
		Int("cycles", proof.Cycles).
		Int("queries", len(proof.Queries)).
		Msg("proof generated")
	return outputs, proof, nil
}

// Verify re-executes prog and checks that it reproduces outputs and proof
func (b *LocalBackend) Verify(prog *CompiledProgram, stackInputs, adviceInputs, outputs []uint64, proof *Proof) error {
	if prog == nil || prog.Module == nil {
		return &ProvingError{Msg: "no program"}
	}
	if proof == nil {
		return &ProvingError{Msg: "no proof"}
	}
	if !proof.Digest.Equal(prog.Digest) {
		return &ProvingError{Msg: "proof is for a different program"}
	}

	got, expected, err := b.Prove(prog, stackInputs, adviceInputs)
	if err != nil {
		return err
	}
	if len(got) != len(outputs) {
		return &ProvingError{Msg: "output length mismatch"}
	}
	for i := range got {
		if got[i] != outputs[i] {
			return &ProvingError{Msg: "outputs do not match the execution"}
		}
	}
	if proof.Cycles != expected.Cycles || !bytes.Equal(proof.Commitment, expected.Commitment) {
		return &ProvingError{Msg: "commitment mismatch"}
	}
	return nil
}

// transcript absorbs the public data and the trace, then samples the
// opened rows from the resulting state
func (b *LocalBackend) transcript(digest field.Element, stack, advice, outputs []uint64, trace []vm.TraceRow) *Proof {
	ch := NewChannel(b.hashFunc)
	ch.SendElements(digest)
	ch.SendUint64s(uint64(len(stack)))
	ch.SendUint64s(stack...)
	ch.SendUint64s(uint64(len(advice)))
	ch.SendUint64s(advice...)

	for _, row := range trace {
		ch.SendUint64s(uint64(row.Cycle), uint64(row.Operand.Op), row.Operand.Imm)
		ch.SendUint64s(row.Stack[:]...)
	}
	ch.SendUint64s(outputs...)

	proof := &Proof{Digest: digest, Cycles: len(trace)}
	if len(trace) > 0 {
		for i := 0; i < b.queries; i++ {
			proof.Queries = append(proof.Queries, trace[ch.ReceiveIndex(len(trace))])
		}
	}
	proof.Commitment = ch.State()
	return proof
}
