package core

import (
	"testing"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
)

// TestIsU32 tests the 32-bit canonicality check
func TestIsU32(t *testing.T) {
	tests := []struct {
		value uint64
		want  bool
	}{
		{0, true},
		{U32Max, true},
		{U32Max + 1, false},
		{field.P - 1, false},
	}
	for _, tt := range tests {
		if got := IsU32(field.New(tt.value)); got != tt.want {
			t.Errorf("IsU32(%d) = %v, want %v", tt.value, got, tt.want)
		}
	}
}

// TestSplit tests splitting into 32-bit limbs
func TestSplit(t *testing.T) {
	lo, hi := Split(field.New(0x0000000500000007))
	if lo != 7 || hi != 5 {
		t.Errorf("Split() = (%d, %d), want (7, 5)", lo, hi)
	}
}

// TestOverflowingOps tests carry, borrow and widening results
func TestOverflowingOps(t *testing.T) {
	if s, c := OverflowingAdd(U32Max, 1); s != 0 || c != 1 {
		t.Errorf("OverflowingAdd(max, 1) = (%d, %d), want (0, 1)", s, c)
	}
	if s, c := OverflowingAdd(5, 7); s != 12 || c != 0 {
		t.Errorf("OverflowingAdd(5, 7) = (%d, %d), want (12, 0)", s, c)
	}
	if d, b := OverflowingSub(3, 5); d != U32Max-1 || b != 1 {
		t.Errorf("OverflowingSub(3, 5) = (%d, %d), want (%d, 1)", d, b, uint32(U32Max-1))
	}
	if lo, hi := WideningMul(1<<31, 4); lo != 0 || hi != 2 {
		t.Errorf("WideningMul(2^31, 4) = (%d, %d), want (0, 2)", lo, hi)
	}
}

// TestRotate tests 32-bit rotations
func TestRotate(t *testing.T) {
	if got := RotateLeft(0x80000001, 1); got != 0x00000003 {
		t.Errorf("RotateLeft = %#x, want 0x3", got)
	}
	if got := RotateRight(0x00000003, 1); got != 0x80000001 {
		t.Errorf("RotateRight = %#x, want 0x80000001", got)
	}
}
