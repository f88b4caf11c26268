package integration_test

import (
	"strings"
	"testing"

	vybiummasm "github.com/vybium/vybium-masm/pkg/vybium-masm"
)

const factorialSource = `
proc.fact.1
	push.1 loc_store.0
	dup neq.0
	while.true
		dup loc_load.0 mul loc_store.0
		decr
		dup neq.0
	end
	drop
	loc_load.0
end

begin
	exec.fact
end`

// Test03_FactorialProof tests loops, procedure locals and proofs together
//
// Related example: examples/07_factorial/main.go
func Test03_FactorialProof(t *testing.T) {
	t.Log("=== Test 03: Factorial -> Proof ===")

	mod, err := vybiummasm.Assemble(factorialSource)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}

	want := map[uint64]uint64{0: 1, 1: 1, 5: 120, 10: 3628800, 20: 2432902008176640000}
	for n, f := range want {
		res, err := vybiummasm.Run(nil, mod, vybiummasm.NewInputs([]uint64{n}, nil))
		if err != nil {
			t.Fatalf("Run(%d) failed: %v", n, err)
		}
		if !res.OK() {
			t.Fatalf("Run(%d) diagnostics: %v", n, res.Diagnostics)
		}
		if got := res.Outputs(1)[0]; got != f {
			t.Errorf("%d! = %d, want %d", n, got, f)
		}
	}

	p, err := vybiummasm.NewProver(vybiummasm.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	prog, err := p.Compile(factorialSource)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	in := vybiummasm.NewInputs([]uint64{6}, nil)
	outputs, proof, err := p.Prove(prog, in)
	if err != nil {
		t.Fatalf("Prove failed: %v", err)
	}
	if outputs[0] != 720 {
		t.Errorf("6! = %d, want 720", outputs[0])
	}
	if err := p.Verify(prog, in, outputs, proof); err != nil {
		t.Fatalf("Verify failed: %v", err)
	}

	t.Log("✅ Test 03 PASSED")
}

// Test03_NonZeroLoopPolicy tests the same countdown under both while policies
func Test03_NonZeroLoopPolicy(t *testing.T) {
	src := "begin push.0 push.5 dup while.true dup movdn.2 add swap decr dup end drop end"

	res, err := vybiummasm.RunSource(
		vybiummasm.DefaultConfig().WithLoopCondition(vybiummasm.ConditionNonZero), src, nil)
	if err != nil {
		t.Fatalf("RunSource failed: %v", err)
	}
	if got := res.Outputs(1)[0]; got != 15 {
		t.Errorf("sum = %d, want 15", got)
	}

	// Under the default policy a condition of 5 leaves the loop at once.
	res, err = vybiummasm.RunSource(nil, src, nil)
	if err != nil {
		t.Fatalf("RunSource failed: %v", err)
	}
	if got := res.Outputs(1)[0]; got != 0 {
		t.Errorf("sum = %d, want 0", got)
	}
}

// Test03_SessionMatchesRun tests that eager execution and a replayed run agree
func Test03_SessionMatchesRun(t *testing.T) {
	statements := []string{
		"proc.fact.1 push.1 loc_store.0 dup neq.0 while.true dup loc_load.0 mul loc_store.0 decr dup neq.0 end drop loc_load.0 end",
		"push.4",
		"exec.fact",
		"push.3 exec.fact",
		"add",
	}

	s, err := vybiummasm.NewSession(nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	for _, stmt := range statements {
		if err := s.Eval(stmt); err != nil {
			t.Fatalf("Eval(%q) failed: %v", stmt, err)
		}
	}
	if got := s.Stack().Uint64s(1)[0]; got != 30 {
		t.Fatalf("session result = %d, want 30", got)
	}

	res, err := vybiummasm.RunSource(nil, statements[0]+" begin "+strings.Join(statements[1:], " ")+" end", nil)
	if err != nil {
		t.Fatalf("RunSource failed: %v", err)
	}
	if got := res.Outputs(1)[0]; got != 30 {
		t.Errorf("replayed result = %d, want 30", got)
	}
}
