// Package inputs loads the initial state of a run from JSON: the operand
// stack, the advice tape, the advice map and Merkle tree fixtures.
//
// A file looks like
//
//	{
//	  "operand_stack": ["1", "2"],
//	  "advice_stack": [3, "0x04"],
//	  "advice_map": {"0x1f": ["5", "6"]},
//	  "merkle_store": [{"merkle_tree": [["1", "2", "3", "4"], ["5", "6", "7", "8"]]}]
//	}
//
// The operand stack is listed top first. Only the operand stack and the
// advice tape initialize the machine; the advice map and the Merkle store
// are carried along for tooling.
package inputs

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/vybium/vybium-masm/internal/vybium-masm/vm"
)

// MaxOperandStack bounds the initial operand stack
const MaxOperandStack = 1 << 16

// Inputs is the initializer of a run
type Inputs struct {
	OperandStack []uint64
	AdviceStack  []uint64
	AdviceMap    map[string][]uint64 // keyed by lowercase hex without 0x
	MerkleStore  []*MerkleTree
}

type fileFormat struct {
	OperandStack []Value            `json:"operand_stack"`
	AdviceStack  []Value            `json:"advice_stack,omitempty"`
	AdviceMap    map[string][]Value `json:"advice_map,omitempty"`
	MerkleStore  []merkleEntry      `json:"merkle_store,omitempty"`
}

type merkleEntry struct {
	MerkleTree [][]Value `json:"merkle_tree"`
}

// New creates inputs holding only an operand stack and an advice tape
func New(stack, advice []uint64) *Inputs {
	return &Inputs{
		OperandStack: append([]uint64(nil), stack...),
		AdviceStack:  append([]uint64(nil), advice...),
	}
}

// Parse decodes inputs from JSON
func Parse(data []byte) (*Inputs, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var f fileFormat
	if err := dec.Decode(&f); err != nil {
		return nil, errors.Wrap(err, "decode inputs")
	}
	return fromFile(&f)
}

// Load decodes inputs from r
func Load(r io.Reader) (*Inputs, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "read inputs")
	}
	return Parse(data)
}

// LoadFile decodes inputs from the file at path
func LoadFile(path string) (*Inputs, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read inputs")
	}
	in, err := Parse(data)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	return in, nil
}

func fromFile(f *fileFormat) (*Inputs, error) {
	if len(f.OperandStack) > MaxOperandStack {
		return nil, errors.Errorf("operand stack has %d values, at most %d allowed", len(f.OperandStack), MaxOperandStack)
	}

	in := &Inputs{
		OperandStack: toUint64s(f.OperandStack),
		AdviceStack:  toUint64s(f.AdviceStack),
	}

	if len(f.AdviceMap) > 0 {
		in.AdviceMap = make(map[string][]uint64, len(f.AdviceMap))
		for key, values := range f.AdviceMap {
			k, err := normalizeKey(key)
			if err != nil {
				return nil, err
			}
			if _, ok := in.AdviceMap[k]; ok {
				return nil, errors.Errorf("advice map key %q given twice", key)
			}
			in.AdviceMap[k] = toUint64s(values)
		}
	}

	for i, entry := range f.MerkleStore {
		leaves := make([]vm.Word, len(entry.MerkleTree))
		for j, leaf := range entry.MerkleTree {
			if len(leaf) != vm.WordSize {
				return nil, errors.Errorf("merkle tree %d: leaf %d has %d values, want %d", i, j, len(leaf), vm.WordSize)
			}
			copy(leaves[j][:], toElements(leaf))
		}
		tree, err := NewMerkleTree(leaves)
		if err != nil {
			return nil, errors.Wrapf(err, "merkle tree %d", i)
		}
		in.MerkleStore = append(in.MerkleStore, tree)
	}

	return in, nil
}

// normalizeKey validates a hex advice map key and strips its prefix
func normalizeKey(key string) (string, error) {
	k := strings.ToLower(strings.TrimPrefix(strings.TrimPrefix(key, "0x"), "0X"))
	if k == "" {
		return "", errors.New("empty advice map key")
	}
	if _, err := hex.DecodeString(k); err != nil {
		return "", errors.Wrapf(err, "advice map key %q", key)
	}
	return k, nil
}

// Stack returns a fresh operand stack holding the initial values
func (in *Inputs) Stack() *vm.Stack {
	return vm.NewStackFromUint64(in.OperandStack...)
}

// AdviceTape returns a fresh advice tape holding the advice values
func (in *Inputs) AdviceTape() *vm.AdviceTape {
	return vm.NewAdviceTape(in.AdviceStack...)
}

// Advice returns the values stored under a hex key
func (in *Inputs) Advice(key string) ([]uint64, bool) {
	k, err := normalizeKey(key)
	if err != nil {
		return nil, false
	}
	values, ok := in.AdviceMap[k]
	return values, ok
}

// AdviceKeys returns the advice map keys in sorted order
func (in *Inputs) AdviceKeys() []string {
	keys := make([]string, 0, len(in.AdviceMap))
	for k := range in.AdviceMap {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// MarshalJSON writes the inputs back in the file format
func (in *Inputs) MarshalJSON() ([]byte, error) {
	f := fileFormat{
		OperandStack: fromUint64s(in.OperandStack),
		AdviceStack:  fromUint64s(in.AdviceStack),
	}
	if len(in.AdviceMap) > 0 {
		f.AdviceMap = make(map[string][]Value, len(in.AdviceMap))
		for k, values := range in.AdviceMap {
			f.AdviceMap["0x"+k] = fromUint64s(values)
		}
	}
	for _, t := range in.MerkleStore {
		entry := merkleEntry{MerkleTree: make([][]Value, t.Len())}
		for i := range entry.MerkleTree {
			leaf, _ := t.Leaf(i)
			values := leaf.Uint64s()
			entry.MerkleTree[i] = fromUint64s(values[:])
		}
		f.MerkleStore = append(f.MerkleStore, entry)
	}
	return json.Marshal(f)
}

func fromUint64s(values []uint64) []Value {
	out := make([]Value, len(values))
	for i, v := range values {
		out[i] = Value(v)
	}
	return out
}
