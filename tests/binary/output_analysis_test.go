package binary_test

import (
	"encoding/json"
	"testing"
)

type proofOutput struct {
	ProgramDigest string   `json:"program_digest"`
	Input         []uint64 `json:"input"`
	Output        []uint64 `json:"output"`
	Cycles        int      `json:"cycles"`
	Commitment    string   `json:"commitment"`
	OpenedRows    []int    `json:"opened_rows"`
}

// TestProofDeterminism checks that the prove command is deterministic
func TestProofDeterminism(t *testing.T) {
	bin, err := buildCLI(t)
	if err != nil {
		t.Skipf("Skipping test: failed to build vybium-masm: %v", err)
	}

	tc := cliCase{
		Name:   "Squares",
		Args:   []string{"prove"},
		Source: "proc.sq dup mul end begin exec.sq swap exec.sq add end",
		Inputs: `{"operand_stack": ["3", "4"]}`,
	}

	var proofs []proofOutput
	for i := 0; i < 2; i++ {
		stdout, stderr, exitCode := runCLI(t, bin, tc)
		if exitCode != 0 {
			t.Fatalf("prove exited with %d: %s", exitCode, stderr)
		}
		var p proofOutput
		if err := json.Unmarshal([]byte(stdout), &p); err != nil {
			t.Fatalf("invalid JSON output: %v\n%s", err, stdout)
		}
		proofs = append(proofs, p)
	}

	if proofs[0].Commitment != proofs[1].Commitment || proofs[0].ProgramDigest != proofs[1].ProgramDigest {
		t.Errorf("proofs differ between runs:\n%+v\n%+v", proofs[0], proofs[1])
	}
	if proofs[0].Output[0] != 25 {
		t.Errorf("output = %d, want 25", proofs[0].Output[0])
	}
	if proofs[0].Cycles != 8 {
		t.Errorf("cycles = %d, want 8", proofs[0].Cycles)
	}
	if len(proofs[0].Commitment) != 64 {
		t.Errorf("commitment %q is not a 32-byte hex string", proofs[0].Commitment)
	}
	t.Logf("digest %s, commitment %s, opened rows %v", proofs[0].ProgramDigest, proofs[0].Commitment, proofs[0].OpenedRows)
}

// TestProofRejectsFailingProgram checks that rejected operands block proving
func TestProofRejectsFailingProgram(t *testing.T) {
	bin, err := buildCLI(t)
	if err != nil {
		t.Skipf("Skipping test: failed to build vybium-masm: %v", err)
	}

	_, stderr, exitCode := runCLI(t, bin, cliCase{
		Args:   []string{"prove"},
		Source: "begin push.2 assertz end",
	})
	if exitCode == 0 {
		t.Fatal("prove should fail for a program with a failed assertion")
	}
	if stderr == "" {
		t.Error("expected an error message on stderr")
	}
}
