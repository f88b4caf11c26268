// Package vybiummasm builds and interprets programs written in a stack-based
// assembly language for a zero-knowledge virtual machine over the
// Goldilocks field.
//
// # Features
//
// - Tokenizer and parser for procedures and entry blocks
// - Interpreter over flat operand sequences with a precomputed jump table
// - Checked, wrapping and overflowing u32 arithmetic
// - Quadratic extension field arithmetic
// - Non-aborting validation: rejected operands are reported as diagnostics
// - Eager sessions that execute statements as they are appended
// - JSON inputs with advice maps and Merkle fixtures
// - A local proving backend with a Fiat-Shamir transcript
//
// # Quick Start
//
// Assembling and running a program:
//
//	mod, err := vybiummasm.Assemble(`
//	proc.square
//		dup mul
//	end
//
//	begin
//		push.3 exec.square
//	end`)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	res, err := vybiummasm.Run(nil, mod, nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(res.Outputs(1)) // [9]
//
// Operands whose preconditions fail are skipped and reported:
//
//	for _, d := range res.Diagnostics {
//		fmt.Println(d)
//	}
//	fmt.Print(vybiummasm.FormatAnnotated(mod, res.Diagnostics))
//
// Building a program interactively:
//
//	s, _ := vybiummasm.NewSession(nil, nil)
//	s.Eval("push.1 push.2 add")
//	fmt.Println(s.Stack())
//
// # Architecture
//
// - pkg/vybium-masm/: Public API (this package)
// - internal/vybium-masm/: Private implementation (not importable)
package vybiummasm
