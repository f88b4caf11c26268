package vm

import (
	"sort"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
)

// WordSize is the number of field elements in a memory word
const WordSize = 4

// Word is a memory word
type Word [WordSize]field.Element

// ZeroWord returns a word of zeros
func ZeroWord() Word {
	return Word{field.Zero, field.Zero, field.Zero, field.Zero}
}

// Equal reports whether two words hold the same elements
func (w Word) Equal(o Word) bool {
	for i := range w {
		if !w[i].Equal(o[i]) {
			return false
		}
	}
	return true
}

// Uint64s returns the canonical values of the word
func (w Word) Uint64s() [WordSize]uint64 {
	var out [WordSize]uint64
	for i := range w {
		out[i] = w[i].Value()
	}
	return out
}

// Memory is a sparse word-addressed store. Unwritten addresses read as zero
// words. It backs both global RAM and procedure local memory.
type Memory struct {
	words map[uint32]Word
}

// NewMemory creates an empty memory
func NewMemory() *Memory {
	return &Memory{words: make(map[uint32]Word)}
}

// Load returns the word at addr
func (m *Memory) Load(addr uint32) Word {
	if w, ok := m.words[addr]; ok {
		return w
	}
	return ZeroWord()
}

// Store writes w at addr
func (m *Memory) Store(addr uint32, w Word) {
	m.words[addr] = w
}

// Len returns the number of written addresses
func (m *Memory) Len() int {
	return len(m.words)
}

// Addresses returns the written addresses in ascending order
func (m *Memory) Addresses() []uint32 {
	addrs := make([]uint32, 0, len(m.words))
	for a := range m.words {
		addrs = append(addrs, a)
	}
	sort.Slice(addrs, func(i, j int) bool { return addrs[i] < addrs[j] })
	return addrs
}

// Clone returns an independent copy of the memory
func (m *Memory) Clone() *Memory {
	c := NewMemory()
	for a, w := range m.words {
		c.words[a] = w
	}
	return c
}
