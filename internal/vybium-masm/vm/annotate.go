package vm

import (
	"strings"

	"github.com/vybium/vybium-masm/internal/vybium-masm/asm"
)

// Annotate returns the operands of p with diagnostics spliced in: every
// operand with a recorded error is preceded by an error marker and replaced
// by its commented-out form. Block openers keep their place so the listing
// stays balanced. Only the first error of each position is shown.
//
// The program itself is not modified.
func Annotate(p *asm.Program, diags []Diagnostic) []asm.Operand {
	name := ""
	if p.Kind == asm.KindProc {
		name = p.Name
	}

	first := make(map[int]*Error)
	for _, d := range diags {
		if d.Procedure != name || d.Index < 0 {
			continue
		}
		if _, ok := first[d.Index]; !ok {
			first[d.Index] = d.Err
		}
	}

	out := make([]asm.Operand, 0, len(p.Operands)+2*len(first))
	for i, op := range p.Operands {
		e, ok := first[i]
		if !ok {
			out = append(out, op)
			continue
		}
		out = append(out, asm.ErrorOp(e.Error()))
		if op.Op.IsStructural() {
			out = append(out, op)
		} else {
			out = append(out, asm.CommentOp(op))
		}
	}
	return out
}

// FormatAnnotated renders every program of mod with its diagnostics
func FormatAnnotated(mod *asm.Module, diags []Diagnostic) string {
	var b strings.Builder
	for _, d := range diags {
		if d.Index < 0 {
			b.WriteString("# error: ")
			b.WriteString(d.Err.Error())
			b.WriteByte('\n')
		}
	}
	for i, p := range mod.Procedures {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(asm.FormatAnnotated(p, Annotate(p, diags)))
	}
	if mod.Main != nil {
		if len(mod.Procedures) > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(asm.FormatAnnotated(mod.Main, Annotate(mod.Main, diags)))
	}
	return b.String()
}
