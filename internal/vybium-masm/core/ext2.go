// Package core provides the arithmetic shared by the interpreter: the
// quadratic extension of the base field and 32-bit integer helpers.
package core

import (
	"fmt"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
)

// Ext2 is an element c0 + c1·x of the quadratic extension F_p[x]/(x² − x + 2)
type Ext2 struct {
	C0 field.Element
	C1 field.Element
}

var (
	// Ext2Zero is the additive identity of the extension
	Ext2Zero = Ext2{field.Zero, field.Zero}
	// Ext2One is the multiplicative identity of the extension
	Ext2One = Ext2{field.One, field.Zero}

	two = field.New(2)
)

// NewExt2 creates an extension element from its coefficients
func NewExt2(c0, c1 field.Element) Ext2 {
	return Ext2{C0: c0, C1: c1}
}

// Add returns a + b
func (a Ext2) Add(b Ext2) Ext2 {
	return Ext2{a.C0.Add(b.C0), a.C1.Add(b.C1)}
}

// Sub returns a − b
func (a Ext2) Sub(b Ext2) Ext2 {
	return Ext2{a.C0.Sub(b.C0), a.C1.Sub(b.C1)}
}

// Neg returns −a
func (a Ext2) Neg() Ext2 {
	return Ext2{a.C0.Neg(), a.C1.Neg()}
}

// Mul returns a · b, reducing x² to x − 2
func (a Ext2) Mul(b Ext2) Ext2 {
	a0b0 := a.C0.Mul(b.C0)
	a1b1 := a.C1.Mul(b.C1)
	c0 := a0b0.Sub(two.Mul(a1b1))
	c1 := a.C0.Mul(b.C1).Add(a.C1.Mul(b.C0)).Add(a1b1)
	return Ext2{c0, c1}
}

// Conjugate returns the image of a under x ↦ 1 − x
func (a Ext2) Conjugate() Ext2 {
	return Ext2{a.C0.Add(a.C1), a.C1.Neg()}
}

// Norm returns a · conj(a) = c0² + c0·c1 + 2·c1², an element of the base field
func (a Ext2) Norm() field.Element {
	c0c0 := a.C0.Mul(a.C0)
	c0c1 := a.C0.Mul(a.C1)
	c1c1 := a.C1.Mul(a.C1)
	return c0c0.Add(c0c1).Add(two.Mul(c1c1))
}

// IsZero reports whether a is the additive identity
func (a Ext2) IsZero() bool {
	return a.C0.IsZero() && a.C1.IsZero()
}

// Equal reports whether a and b are the same element
func (a Ext2) Equal(b Ext2) bool {
	return a.C0.Equal(b.C0) && a.C1.Equal(b.C1)
}

// Inverse returns a⁻¹ = conj(a) / N(a). It fails for zero.
func (a Ext2) Inverse() (Ext2, error) {
	if a.IsZero() {
		return Ext2Zero, fmt.Errorf("cannot invert zero in extension field")
	}
	norm := a.Norm()
	if norm.IsZero() {
		return Ext2Zero, fmt.Errorf("extension field element has zero norm")
	}
	normInv := norm.Inverse()
	conj := a.Conjugate()
	return Ext2{conj.C0.Mul(normInv), conj.C1.Mul(normInv)}, nil
}

// Div returns a / b. It fails when b is zero.
func (a Ext2) Div(b Ext2) (Ext2, error) {
	inv, err := b.Inverse()
	if err != nil {
		return Ext2Zero, err
	}
	return a.Mul(inv), nil
}

func (a Ext2) String() string {
	return fmt.Sprintf("(%d + %d·x)", a.C0.Value(), a.C1.Value())
}
