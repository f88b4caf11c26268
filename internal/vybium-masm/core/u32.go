package core

import (
	"math/bits"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
)

// U32Max is the largest value of a 32-bit integer
const U32Max = 1<<32 - 1

// IsU32 reports whether e is the canonical encoding of a 32-bit integer
func IsU32(e field.Element) bool {
	return e.Value() <= U32Max
}

// IsBinary reports whether e is 0 or 1
func IsBinary(e field.Element) bool {
	return e.Value() <= 1
}

// Split returns the low and high 32 bits of the canonical value of e
func Split(e field.Element) (lo, hi uint32) {
	v := e.Value()
	return uint32(v), uint32(v >> 32)
}

// OverflowingAdd returns a + b mod 2^32 and the carry
func OverflowingAdd(a, b uint32) (uint32, uint32) {
	sum, carry := bits.Add32(a, b, 0)
	return sum, carry
}

// OverflowingSub returns a − b mod 2^32 and the borrow
func OverflowingSub(a, b uint32) (uint32, uint32) {
	diff, borrow := bits.Sub32(a, b, 0)
	return diff, borrow
}

// WideningMul returns the low and high 32 bits of a · b
func WideningMul(a, b uint32) (lo, hi uint32) {
	hi, lo = bits.Mul32(a, b)
	return lo, hi
}

// RotateLeft rotates a left by n bits
func RotateLeft(a uint32, n uint) uint32 {
	return bits.RotateLeft32(a, int(n))
}

// RotateRight rotates a right by n bits
func RotateRight(a uint32, n uint) uint32 {
	return bits.RotateLeft32(a, -int(n))
}

// Bool maps a predicate to the field elements 1 and 0
func Bool(b bool) field.Element {
	if b {
		return field.One
	}
	return field.Zero
}
