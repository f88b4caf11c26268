package inputs

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/vybium/vybium-masm/internal/vybium-masm/vm"
)

const sample = `{
	"operand_stack": ["1", 2, "0x03"],
	"advice_stack": [7, "8"],
	"advice_map": {"0xAB01": ["5", "6"]},
	"merkle_store": [{"merkle_tree": [["1", "2", "3", "4"], ["5", "6", "7", "8"], ["9", "10", "11", "12"]]}]
}`

// TestParse tests decoding of every section
func TestParse(t *testing.T) {
	in, err := Parse([]byte(sample))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if want := []uint64{1, 2, 3}; !reflect.DeepEqual(in.OperandStack, want) {
		t.Errorf("OperandStack = %v, want %v", in.OperandStack, want)
	}
	if want := []uint64{7, 8}; !reflect.DeepEqual(in.AdviceStack, want) {
		t.Errorf("AdviceStack = %v, want %v", in.AdviceStack, want)
	}
	if got, ok := in.Advice("0xab01"); !ok || !reflect.DeepEqual(got, []uint64{5, 6}) {
		t.Errorf("Advice(0xab01) = %v, %v", got, ok)
	}
	if keys := in.AdviceKeys(); !reflect.DeepEqual(keys, []string{"ab01"}) {
		t.Errorf("AdviceKeys() = %v", keys)
	}
	if len(in.MerkleStore) != 1 || in.MerkleStore[0].Len() != 3 {
		t.Fatalf("MerkleStore = %v, want one tree with 3 leaves", in.MerkleStore)
	}
}

// TestParseErrors tests rejected input files
func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		msg  string
	}{
		{"NotJSON", `{`, "decode inputs"},
		{"UnknownField", `{"operand_stack": [], "extra": 1}`, "unknown field"},
		{"NonCanonical", `{"operand_stack": ["18446744069414584321"]}`, "canonical"},
		{"Negative", `{"operand_stack": [-1]}`, "invalid value"},
		{"Garbage", `{"operand_stack": ["abc"]}`, "invalid value"},
		{"BadKey", `{"operand_stack": [], "advice_map": {"0xzz": []}}`, "advice map key"},
		{"ShortLeaf", `{"operand_stack": [], "merkle_store": [{"merkle_tree": [["1", "2"]]}]}`, "leaf 0 has 2 values"},
		{"EmptyTree", `{"operand_stack": [], "merkle_store": [{"merkle_tree": []}]}`, "no leaves"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.msg) {
				t.Errorf("error = %q, want it to contain %q", err.Error(), tt.msg)
			}
		})
	}
}

// TestMachineState tests the stack and tape built from inputs
func TestMachineState(t *testing.T) {
	in := New([]uint64{4, 5}, []uint64{9})

	st := in.Stack()
	if st.Depth() != vm.MinStackDepth {
		t.Errorf("Depth() = %d, want %d", st.Depth(), vm.MinStackDepth)
	}
	if got := st.Uint64s(3); !reflect.DeepEqual(got, []uint64{4, 5, 0}) {
		t.Errorf("stack top = %v, want [4 5 0]", got)
	}

	tape := in.AdviceTape()
	if v, ok := tape.Next(); !ok || v.Value() != 9 {
		t.Errorf("Next() = %v, %v, want 9", v.Value(), ok)
	}
	if in.AdviceTape().Len() != 1 {
		t.Error("AdviceTape should return a fresh tape each time")
	}
}

// TestRoundTripJSON tests that marshalled inputs parse back unchanged
func TestRoundTripJSON(t *testing.T) {
	in, err := Parse([]byte(sample))
	if err != nil {
		t.Fatal(err)
	}
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	back, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse(Marshal()) failed: %v\n%s", err, data)
	}
	if !reflect.DeepEqual(back.OperandStack, in.OperandStack) || !reflect.DeepEqual(back.AdviceMap, in.AdviceMap) {
		t.Errorf("round trip differs:\n%s", data)
	}
	if !back.MerkleStore[0].Root().Equal(in.MerkleStore[0].Root()) {
		t.Error("merkle root changed in round trip")
	}
}

// TestLoadFile tests reading inputs from disk
func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inputs.json")
	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		t.Fatal(err)
	}
	in, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if len(in.OperandStack) != 3 {
		t.Errorf("OperandStack = %v", in.OperandStack)
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("LoadFile should fail for a missing file")
	}
}
