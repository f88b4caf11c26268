// Package vm provides the stack machine: its state, the validator, the
// interpreter over flat operand sequences, the procedure registry and the
// eager session used by the builder and the REPL.
package vm

import (
	"fmt"
	"strings"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
)

// MinStackDepth is the number of elements the operand stack always holds
const MinStackDepth = 16

// Stack is the operand stack. It never holds fewer than MinStackDepth
// elements: whenever a pop would shrink it further, a zero is inserted at
// the bottom.
//
// Depth 0 is the top of the stack. Internally the top lives at the end of
// the slice.
type Stack struct {
	values []field.Element
}

// NewStack creates a stack from values listed top first, padded with zeros
func NewStack(values ...field.Element) *Stack {
	s := &Stack{values: make([]field.Element, 0, MinStackDepth+len(values))}
	for i := len(values) - 1; i >= 0; i-- {
		s.values = append(s.values, values[i])
	}
	s.pad()
	return s
}

// NewStackFromUint64 creates a stack from raw values listed top first
func NewStackFromUint64(values ...uint64) *Stack {
	elems := make([]field.Element, len(values))
	for i, v := range values {
		elems[i] = field.New(v)
	}
	return NewStack(elems...)
}

func (s *Stack) pad() {
	if missing := MinStackDepth - len(s.values); missing > 0 {
		padded := make([]field.Element, MinStackDepth, MinStackDepth+8)
		for i := 0; i < missing; i++ {
			padded[i] = field.Zero
		}
		copy(padded[missing:], s.values)
		s.values = padded
	}
}

// Depth returns the number of elements on the stack
func (s *Stack) Depth() int {
	return len(s.values)
}

// Push pushes value onto the top of the stack
func (s *Stack) Push(value field.Element) {
	s.values = append(s.values, value)
}

// Pop removes and returns the top element
func (s *Stack) Pop() field.Element {
	n := len(s.values)
	value := s.values[n-1]
	s.values = s.values[:n-1]
	s.pad()
	return value
}

// Peek returns the element at depth i
func (s *Stack) Peek(i int) field.Element {
	return s.values[len(s.values)-1-i]
}

// Set overwrites the element at depth i
func (s *Stack) Set(i int, value field.Element) {
	s.values[len(s.values)-1-i] = value
}

// Swap exchanges the elements at depths i and j
func (s *Stack) Swap(i, j int) {
	a, b := len(s.values)-1-i, len(s.values)-1-j
	s.values[a], s.values[b] = s.values[b], s.values[a]
}

// MoveUp moves the element at depth i to the top
func (s *Stack) MoveUp(i int) {
	idx := len(s.values) - 1 - i
	value := s.values[idx]
	copy(s.values[idx:], s.values[idx+1:])
	s.values[len(s.values)-1] = value
}

// MoveDown moves the top element to depth i
func (s *Stack) MoveDown(i int) {
	top := len(s.values) - 1
	idx := top - i
	value := s.values[top]
	copy(s.values[idx+1:], s.values[idx:top])
	s.values[idx] = value
}

// Word helpers. Word i covers depths 4i..4i+3, element j of the word lying
// at depth 4i+j.

// PeekWord returns word i without removing it
func (s *Stack) PeekWord(i int) Word {
	var w Word
	for j := 0; j < WordSize; j++ {
		w[j] = s.Peek(i*WordSize + j)
	}
	return w
}

// SetWord overwrites word i
func (s *Stack) SetWord(i int, w Word) {
	for j := 0; j < WordSize; j++ {
		s.Set(i*WordSize+j, w[j])
	}
}

// PopWord removes and returns the top word
func (s *Stack) PopWord() Word {
	var w Word
	for j := 0; j < WordSize; j++ {
		w[j] = s.Pop()
	}
	return w
}

// PushWord pushes w so that its element 0 ends on top
func (s *Stack) PushWord(w Word) {
	for j := WordSize - 1; j >= 0; j-- {
		s.Push(w[j])
	}
}

// SwapWords exchanges words i and j
func (s *Stack) SwapWords(i, j int) {
	for k := 0; k < WordSize; k++ {
		s.Swap(i*WordSize+k, j*WordSize+k)
	}
}

// MoveUpWord moves word i to the top
func (s *Stack) MoveUpWord(i int) {
	for k := 0; k < WordSize; k++ {
		s.MoveUp(i*WordSize + WordSize - 1)
	}
}

// MoveDownWord moves the top word to word position i
func (s *Stack) MoveDownWord(i int) {
	for k := 0; k < WordSize; k++ {
		s.MoveDown(i*WordSize + WordSize - 1)
	}
}

// Values returns a copy of the stack contents, top first
func (s *Stack) Values() []field.Element {
	out := make([]field.Element, len(s.values))
	for i := range out {
		out[i] = s.values[len(s.values)-1-i]
	}
	return out
}

// Uint64s returns the canonical values of the top n elements, top first
func (s *Stack) Uint64s(n int) []uint64 {
	if n > len(s.values) {
		n = len(s.values)
	}
	out := make([]uint64, n)
	for i := range out {
		out[i] = s.Peek(i).Value()
	}
	return out
}

// Clone returns an independent copy of the stack
func (s *Stack) Clone() *Stack {
	return &Stack{values: append([]field.Element(nil), s.values...)}
}

func (s *Stack) String() string {
	parts := make([]string, 0, MinStackDepth)
	for _, v := range s.Uint64s(MinStackDepth) {
		parts = append(parts, fmt.Sprint(v))
	}
	if s.Depth() > MinStackDepth {
		parts = append(parts, fmt.Sprintf("... (%d more)", s.Depth()-MinStackDepth))
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
