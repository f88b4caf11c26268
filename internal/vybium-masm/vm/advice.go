package vm

import "github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"

// AdviceTape is the FIFO queue of non-deterministic inputs read by adv_push
// and adv_loadw
type AdviceTape struct {
	values []uint64
	pos    int
}

// NewAdviceTape creates a tape that yields values in order
func NewAdviceTape(values ...uint64) *AdviceTape {
	return &AdviceTape{values: append([]uint64(nil), values...)}
}

// Len returns the number of unread values
func (t *AdviceTape) Len() int {
	if t == nil {
		return 0
	}
	return len(t.values) - t.pos
}

// Next reads the next value, or reports false when the tape is exhausted
func (t *AdviceTape) Next() (field.Element, bool) {
	if t.Len() == 0 {
		return field.Zero, false
	}
	v := t.values[t.pos]
	t.pos++
	return field.New(v), true
}

// Remaining returns the unread values in read order
func (t *AdviceTape) Remaining() []uint64 {
	if t == nil {
		return nil
	}
	return append([]uint64(nil), t.values[t.pos:]...)
}

// Clone returns a tape positioned at the same unread value
func (t *AdviceTape) Clone() *AdviceTape {
	if t == nil {
		return NewAdviceTape()
	}
	return NewAdviceTape(t.values[t.pos:]...)
}
