package prover

import (
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/hash"

	"github.com/vybium/vybium-masm/internal/vybium-masm/asm"
)

// ProgramDigest commits to every program of a module. Each operand is
// encoded as an (opcode, argument) pair with the low bit of the opcode
// word marking an explicit immediate; exec arguments are the digest of the
// callee name. Each program is preceded by its kind and local count.
func ProgramDigest(mod *asm.Module) field.Element {
	elems := make([]field.Element, 0, 64)
	for _, p := range mod.Procedures {
		elems = appendProgram(elems, p)
	}
	if mod.Main != nil {
		elems = appendProgram(elems, mod.Main)
	}
	return hash.PoseidonHash(elems)
}

func appendProgram(elems []field.Element, p *asm.Program) []field.Element {
	header := field.New(uint64(p.Kind))
	if p.Kind == asm.KindProc {
		header = header.Add(nameDigest(p.Name))
	}
	elems = append(elems, header, field.New(uint64(p.Locals)))

	for _, op := range p.Operands {
		if op.IsDiagnostic() {
			continue
		}
		code := uint64(op.Op) << 1
		if op.HasImm {
			code |= 1
		}
		elems = append(elems, field.New(code))
		switch {
		case op.Op == asm.Exec:
			elems = append(elems, nameDigest(op.Name))
		case op.HasImm:
			elems = append(elems, field.New(op.Imm))
		default:
			elems = append(elems, field.Zero)
		}
	}
	return elems
}

func nameDigest(name string) field.Element {
	elems := make([]field.Element, len(name))
	for i := 0; i < len(name); i++ {
		elems[i] = field.New(uint64(name[i]))
	}
	return hash.PoseidonHash(elems)
}
