package asm

import (
	"strings"
	"testing"

	"github.com/kr/pretty"
)

// TestFormatIndentation tests nesting-depth indentation and else placement
func TestFormatIndentation(t *testing.T) {
	p := NewProgram().MustAppend(
		PushOp(1),
		IfOp(),
		PushOp(7),
		ElseOp(),
		RepeatOp(2),
		OpImm(Add, 3),
		EndOp(),
		EndOp(),
	)

	want := "begin\n" +
		"\tpush.1\n" +
		"\tif.true\n" +
		"\t\tpush.7\n" +
		"\telse\n" +
		"\t\trepeat.2\n" +
		"\t\t\tadd.3\n" +
		"\t\tend\n" +
		"\tend\n" +
		"end\n"

	if got := Format(p); got != want {
		t.Errorf("Format() =\n%s\nwant\n%s", got, want)
	}
}

// TestFormatSkipsDiagnostics tests that print and error markers are not emitted
func TestFormatSkipsDiagnostics(t *testing.T) {
	p := NewProgram().MustAppend(PushOp(1), PrintOp("stack"), ErrorOp("boom"), Op(Drop))

	got := Format(p)
	if strings.Contains(got, "print") || strings.Contains(got, "boom") {
		t.Errorf("Format() emitted diagnostics:\n%s", got)
	}

	annotated := FormatAnnotated(p, p.Operands)
	if !strings.Contains(annotated, "# error: boom") {
		t.Errorf("FormatAnnotated() should keep error markers as comments:\n%s", annotated)
	}
}

// TestFormatProcedureHeader tests procedure headers with and without locals
func TestFormatProcedureHeader(t *testing.T) {
	p, err := NewProcedure("f", 0)
	if err != nil {
		t.Fatalf("NewProcedure failed: %v", err)
	}
	if got := p.Header(); got != "proc.f" {
		t.Errorf("Header() = %q, want proc.f", got)
	}
	p.MustAppend(OpImm(LocStore, 2))
	if got := p.Header(); got != "proc.f.3" {
		t.Errorf("Header() = %q, want proc.f.3", got)
	}
}

// TestRoundTrip tests that emitted text parses back to the same operands
func TestRoundTrip(t *testing.T) {
	sq, _ := NewProcedure("square", 0)
	sq.MustAppend(Op(Dup), Op(Mul))

	acc, _ := NewProcedure("acc", 2)
	acc.MustAppend(
		OpImm(LocStore, 0),
		OpImm(LocLoad, 0),
		OpImm(MemStoreW, 7),
		Op(U32CheckedAdd),
		OpImm(U32WrappingSub, 4),
		Op(Ext2Mul),
	)

	main := NewProgram().MustAppend(
		PushOp(5),
		PrintOp("ignored"),
		WhileOp(),
		Op(Decr),
		Op(Dup),
		OpImm(Dup, 0),
		OpImm(Swap, 1),
		Op(Swap),
		EndOp(),
		PushOp(0),
		IfOp(),
		ExecOp("square"),
		ElseOp(),
		ExecOp("acc"),
		IfOp(),
		EndOp(),
		EndOp(),
		RepeatOp(3),
		OpImm(AdvPush, 2),
		Op(AdvLoadW),
		EndOp(),
	)

	m := NewModule()
	if err := m.AddProcedure(sq); err != nil {
		t.Fatal(err)
	}
	if err := m.AddProcedure(acc); err != nil {
		t.Fatal(err)
	}
	m.Main = main

	text := FormatModule(m)
	back, err := ParseModule(text)
	if err != nil {
		t.Fatalf("ParseModule(FormatModule()) failed: %v\n%s", err, text)
	}

	strip := func(ops []Operand) []Operand {
		var out []Operand
		for _, op := range ops {
			if !op.IsDiagnostic() {
				out = append(out, op)
			}
		}
		return out
	}

	for _, name := range []string{"square", "acc"} {
		got := back.Procedure(name)
		if got == nil {
			t.Fatalf("procedure %s lost in round trip", name)
		}
		if diff := pretty.Diff(got.Operands, m.Procedure(name).Operands); len(diff) > 0 {
			t.Errorf("procedure %s differs:\n%s", name, strings.Join(diff, "\n"))
		}
		if got.Locals != m.Procedure(name).Locals {
			t.Errorf("procedure %s locals = %d, want %d", name, got.Locals, m.Procedure(name).Locals)
		}
	}
	if diff := pretty.Diff(back.Main.Operands, strip(main.Operands)); len(diff) > 0 {
		t.Errorf("main differs:\n%s", strings.Join(diff, "\n"))
	}
}

// TestRoundTripAllOpcodes tests that every parseable opcode survives emission
func TestRoundTripAllOpcodes(t *testing.T) {
	p, _ := NewProcedure("all", 0)
	for op, info := range AllOpcodes {
		if info.Family == FamilyDiagnostic || op.IsStructural() || op == Exec {
			continue
		}
		switch info.Imm {
		case ImmRequired:
			p.MustAppend(OpImm(op, info.Min))
		case ImmOptional:
			p.MustAppend(Op(op), OpImm(op, info.Max))
		default:
			p.MustAppend(Op(op))
		}
	}

	back, err := ParseProgram(Format(p))
	if err != nil {
		t.Fatalf("ParseProgram(Format()) failed: %v", err)
	}
	if diff := pretty.Diff(back.Operands, p.Operands); len(diff) > 0 {
		t.Errorf("operands differ:\n%s", strings.Join(diff, "\n"))
	}
}
