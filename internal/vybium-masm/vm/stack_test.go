package vm

import (
	"reflect"
	"testing"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
)

// TestStackPadding tests that the stack never drops below its minimum depth
func TestStackPadding(t *testing.T) {
	s := NewStackFromUint64(1, 2, 3)
	if s.Depth() != MinStackDepth {
		t.Fatalf("Depth() = %d, want %d", s.Depth(), MinStackDepth)
	}
	if got := s.Uint64s(4); !reflect.DeepEqual(got, []uint64{1, 2, 3, 0}) {
		t.Errorf("Uint64s(4) = %v, want [1 2 3 0]", got)
	}

	for i := 0; i < 40; i++ {
		s.Pop()
		if s.Depth() != MinStackDepth {
			t.Fatalf("after %d pops Depth() = %d, want %d", i+1, s.Depth(), MinStackDepth)
		}
	}
	for i, v := range s.Values() {
		if !v.IsZero() {
			t.Errorf("element %d = %d after exhausting pops, want 0", i, v.Value())
		}
	}

	s.Push(field.New(9))
	if s.Depth() != MinStackDepth+1 {
		t.Errorf("Depth() after push = %d, want %d", s.Depth(), MinStackDepth+1)
	}
	if got := s.Pop().Value(); got != 9 {
		t.Errorf("Pop() = %d, want 9", got)
	}
}

// TestStackMoves tests element moves
func TestStackMoves(t *testing.T) {
	tests := []struct {
		name string
		fn   func(s *Stack)
		want []uint64
	}{
		{"Swap", func(s *Stack) { s.Swap(0, 2) }, []uint64{3, 2, 1, 4, 5}},
		{"MoveUp", func(s *Stack) { s.MoveUp(3) }, []uint64{4, 1, 2, 3, 5}},
		{"MoveDown", func(s *Stack) { s.MoveDown(3) }, []uint64{2, 3, 4, 1, 5}},
		{"Set", func(s *Stack) { s.Set(1, field.New(9)) }, []uint64{1, 9, 3, 4, 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStackFromUint64(1, 2, 3, 4, 5)
			tt.fn(s)
			if got := s.Uint64s(5); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

// TestStackWords tests word-granular access
func TestStackWords(t *testing.T) {
	seq := func() *Stack {
		vals := make([]uint64, 12)
		for i := range vals {
			vals[i] = uint64(i + 1)
		}
		return NewStackFromUint64(vals...)
	}

	t.Run("PeekWord", func(t *testing.T) {
		w := seq().PeekWord(1)
		if got := w.Uint64s(); got != [4]uint64{5, 6, 7, 8} {
			t.Errorf("PeekWord(1) = %v, want [5 6 7 8]", got)
		}
	})

	t.Run("PopPushWord", func(t *testing.T) {
		s := seq()
		w := s.PopWord()
		if got := s.Peek(0).Value(); got != 5 {
			t.Errorf("top after PopWord = %d, want 5", got)
		}
		s.PushWord(w)
		if got := s.Uint64s(5); !reflect.DeepEqual(got, []uint64{1, 2, 3, 4, 5}) {
			t.Errorf("after PushWord = %v, want [1 2 3 4 5]", got)
		}
	})

	t.Run("MoveUpWord", func(t *testing.T) {
		s := seq()
		s.MoveUpWord(2)
		want := []uint64{9, 10, 11, 12, 1, 2, 3, 4, 5, 6, 7, 8}
		if got := s.Uint64s(12); !reflect.DeepEqual(got, want) {
			t.Errorf("MoveUpWord(2) = %v, want %v", got, want)
		}
	})

	t.Run("MoveDownWord", func(t *testing.T) {
		s := seq()
		s.MoveDownWord(2)
		want := []uint64{5, 6, 7, 8, 9, 10, 11, 12, 1, 2, 3, 4}
		if got := s.Uint64s(12); !reflect.DeepEqual(got, want) {
			t.Errorf("MoveDownWord(2) = %v, want %v", got, want)
		}
	})

	t.Run("SwapWords", func(t *testing.T) {
		s := seq()
		s.SwapWords(0, 2)
		want := []uint64{9, 10, 11, 12, 5, 6, 7, 8, 1, 2, 3, 4}
		if got := s.Uint64s(12); !reflect.DeepEqual(got, want) {
			t.Errorf("SwapWords(0, 2) = %v, want %v", got, want)
		}
	})
}

// TestStackClone tests that clones do not share storage
func TestStackClone(t *testing.T) {
	s := NewStackFromUint64(1)
	c := s.Clone()
	c.Push(field.New(2))
	c.Set(1, field.New(7))
	if s.Peek(0).Value() != 1 || s.Depth() != MinStackDepth {
		t.Errorf("original changed through clone: %v", s)
	}
}

// TestMemory tests sparse word storage
func TestMemory(t *testing.T) {
	m := NewMemory()
	if !m.Load(5).Equal(ZeroWord()) {
		t.Error("unwritten address should read as a zero word")
	}
	w := Word{field.New(1), field.New(2), field.New(3), field.New(4)}
	m.Store(5, w)
	m.Store(1, w)
	if !m.Load(5).Equal(w) {
		t.Errorf("Load(5) = %v, want %v", m.Load(5), w)
	}
	if got := m.Addresses(); !reflect.DeepEqual(got, []uint32{1, 5}) {
		t.Errorf("Addresses() = %v, want [1 5]", got)
	}
}

// TestAdviceTape tests FIFO reads
func TestAdviceTape(t *testing.T) {
	tape := NewAdviceTape(1, 2, 3)
	if v, ok := tape.Next(); !ok || v.Value() != 1 {
		t.Errorf("Next() = %d, %v, want 1, true", v.Value(), ok)
	}
	c := tape.Clone()
	if tape.Len() != 2 || c.Len() != 2 {
		t.Errorf("Len() = %d, clone %d, want 2", tape.Len(), c.Len())
	}
	tape.Next()
	tape.Next()
	if _, ok := tape.Next(); ok {
		t.Error("Next() on an exhausted tape should report false")
	}
	if got := c.Remaining(); !reflect.DeepEqual(got, []uint64{2, 3}) {
		t.Errorf("clone Remaining() = %v, want [2 3]", got)
	}
}
