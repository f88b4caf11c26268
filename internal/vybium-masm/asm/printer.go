package asm

import (
	"io"
	"strings"
)

// Format renders a program as assembly text: its header, the body indented
// by one tab per level of control-flow nesting, and the closing end. Print
// and error markers are omitted.
func Format(p *Program) string {
	var b strings.Builder
	writeProgram(&b, p, p.Operands, false)
	return b.String()
}

// FormatAnnotated renders a program like Format, but with ops in place of the
// program's own operands and with error markers kept as comments. It is used
// to display a program together with its diagnostics.
func FormatAnnotated(p *Program, ops []Operand) string {
	var b strings.Builder
	writeProgram(&b, p, ops, true)
	return b.String()
}

// FormatModule renders every procedure of m followed by its entry block
func FormatModule(m *Module) string {
	var b strings.Builder
	for i, p := range m.Procedures {
		if i > 0 {
			b.WriteByte('\n')
		}
		writeProgram(&b, p, p.Operands, false)
	}
	if m.Main != nil {
		if len(m.Procedures) > 0 {
			b.WriteByte('\n')
		}
		writeProgram(&b, m.Main, m.Main.Operands, false)
	}
	return b.String()
}

// WriteModule writes the text of m to w
func WriteModule(w io.Writer, m *Module) error {
	_, err := io.WriteString(w, FormatModule(m))
	return err
}

func writeProgram(b *strings.Builder, p *Program, ops []Operand, annotated bool) {
	b.WriteString(p.Header())
	b.WriteByte('\n')
	writeOperands(b, ops, 1, annotated)
	b.WriteString("end\n")
}

// writeOperands writes one operand per line. Opening markers increase the
// indentation of what follows, end decreases it, and else is written one
// level above its body.
func writeOperands(b *strings.Builder, ops []Operand, depth int, annotated bool) {
	line := func(d int, s string) {
		if d < 0 {
			d = 0
		}
		b.WriteString(strings.Repeat("\t", d))
		b.WriteString(s)
		b.WriteByte('\n')
	}

	for _, op := range ops {
		switch op.Op {
		case If, While, Repeat:
			line(depth, op.String())
			depth++
		case Else:
			line(depth-1, op.String())
		case End:
			depth--
			line(depth, op.String())
		case Print:
			if annotated {
				line(depth, "# "+op.String())
			}
		case ErrorMarker:
			if annotated {
				line(depth, op.String())
			}
		default:
			line(depth, op.String())
		}
	}
}
