package vybiummasm

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"

	"github.com/vybium/vybium-masm/internal/vybium-masm/asm"
)

// TestAssembleAndRun tests the basic public workflow
func TestAssembleAndRun(t *testing.T) {
	mod, err := Assemble(`
proc.square
	dup mul
end

begin
	push.3 exec.square
end`)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}

	res, err := Run(nil, mod, nil)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if got := res.Outputs(1)[0]; got != 9 {
		t.Errorf("output = %d, want 9", got)
	}
	if !res.OK() {
		t.Errorf("unexpected diagnostics: %v", res.Diagnostics)
	}

	back, err := Assemble(Format(mod))
	if err != nil {
		t.Fatalf("Assemble(Format()) failed: %v", err)
	}
	if Format(back) != Format(mod) {
		t.Error("formatting is not stable")
	}
}

// TestErrorCodes tests that failures carry the right code
func TestErrorCodes(t *testing.T) {
	tests := []struct {
		name string
		run  func() error
		code ErrorCode
	}{
		{"Syntax", func() error { _, err := Assemble("begin push end"); return err }, ErrSyntax},
		{"Structure", func() error {
			s, _ := NewSession(nil, nil)
			return wrap(s.Append(asm.EndOp()), ErrUnknown, "append")
		}, ErrStructure},
		{"InvalidConfig", func() error {
			_, err := RunSource(DefaultConfig().WithMaxCallDepth(0), "push.1", nil)
			return err
		}, ErrInvalidConfig},
		{"Execution", func() error {
			_, err := RunSource(DefaultConfig().WithMaxCycles(10), "push.1 while.true push.1 end", nil)
			return err
		}, ErrExecution},
		{"InvalidInput", func() error { _, err := ParseInputs([]byte(`{"operand_stack": ["x"]}`)); return err }, ErrInvalidInput},
		{"Assembly", func() error {
			p, _ := NewProver(nil)
			_, err := p.Compile("proc.f end")
			return err
		}, ErrAssembly},
		{"Proving", func() error {
			p, _ := NewProver(nil)
			prog, _ := p.Compile("begin push.0 inv end")
			_, _, err := p.Prove(prog, nil)
			return err
		}, ErrProving},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.run()
			if err == nil {
				t.Fatal("expected error")
			}
			if got := CodeOf(err); got != tt.code {
				t.Errorf("CodeOf(%v) = %v, want %v", err, got, tt.code)
			}
			if !errors.Is(err, &VMError{Code: tt.code}) {
				t.Error("errors.Is should match on the code")
			}
		})
	}
}

// TestVMError tests message formatting and unwrapping
func TestVMError(t *testing.T) {
	cause := errors.New("boom")
	err := &VMError{Code: ErrExecution, Message: "failed", Cause: cause}
	if !strings.Contains(err.Error(), "execution") || !strings.Contains(err.Error(), "boom") {
		t.Errorf("Error() = %q", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Error("Unwrap should expose the cause")
	}
	if (&VMError{Code: ErrSyntax, Message: "x"}).Error() != "vybium-masm error [syntax]: x" {
		t.Error("unexpected message without cause")
	}
	if CodeOf(cause) != ErrUnknown {
		t.Error("CodeOf of a foreign error should be ErrUnknown")
	}
}

// TestDiagnosticsListing tests the annotated listing of a failing program
func TestDiagnosticsListing(t *testing.T) {
	mod, _ := Assemble("push.5 push.1 xor")
	res, err := Run(nil, mod, NewInputs(nil, nil))
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Diagnostics) != 1 {
		t.Fatalf("Diagnostics = %v", res.Diagnostics)
	}
	text := FormatAnnotated(mod, res.Diagnostics)
	if !strings.Contains(text, "# error: NotBinaryValue(5): xor\n\t# xor\n") {
		t.Errorf("FormatAnnotated() =\n%s", text)
	}
}

// TestInputsAndProof tests inputs loading followed by proving
func TestInputsAndProof(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.json")
	data := `{"operand_stack": ["6", "7"], "advice_stack": ["1"]}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	in, err := LoadInputs(path)
	if err != nil {
		t.Fatalf("LoadInputs failed: %v", err)
	}

	p, err := NewProver(nil)
	if err != nil {
		t.Fatal(err)
	}
	prog, err := p.Compile("begin mul adv_push.1 add end")
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	outputs, proof, err := p.Prove(prog, in)
	if err != nil {
		t.Fatalf("Prove failed: %v", err)
	}
	if outputs[0] != 43 {
		t.Errorf("output = %d, want 43", outputs[0])
	}
	if err := p.Verify(prog, in, outputs, proof); err != nil {
		t.Errorf("Verify failed: %v", err)
	}

	if _, err := LoadInputs(filepath.Join(t.TempDir(), "nope.json")); CodeOf(err) != ErrInvalidInput {
		t.Errorf("LoadInputs(missing) = %v, want ErrInvalidInput", err)
	}
}

// TestSession tests the public session
func TestSession(t *testing.T) {
	s, err := NewSession(DefaultConfig().WithLoopCondition(ConditionNonZero), NewInputs([]uint64{3}, nil))
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Eval("dup while.true decr dup end"); err != nil {
		t.Fatalf("Eval failed: %v", err)
	}
	if got := s.Stack().Peek(0).Value(); got != 0 {
		t.Errorf("top = %d, want 0", got)
	}
}
