package curve

import (
	"github.com/cronokirby/saferith"
	"github.com/taurusgroup/epid/pkg/math/field"
)

// Scalar is an integer modulo the order of a Curve.
//
// Unlike points, arithmetic on scalars modifies the receiver, which is also returned.
type Scalar struct {
	curve *Curve
	s     field.Element
}

// Curve returns the curve the scalar belongs to.
func (s *Scalar) Curve() *Curve { return s.curve }

func (s *Scalar) mustMatch(t *Scalar) {
	if s.curve != t.curve {
		panic(ErrWrongCurve)
	}
}

// Add sets s = s + t.
func (s *Scalar) Add(t *Scalar) *Scalar {
	s.mustMatch(t)
	s.s.Add(&s.s, &t.s, s.curve.order)
	return s
}

// Sub sets s = s - t.
func (s *Scalar) Sub(t *Scalar) *Scalar {
	s.mustMatch(t)
	s.s.Sub(&s.s, &t.s, s.curve.order)
	return s
}

// Mul sets s = s⋅t.
func (s *Scalar) Mul(t *Scalar) *Scalar {
	s.mustMatch(t)
	s.s.Mul(&s.s, &t.s, s.curve.order)
	return s
}

// Negate sets s = -s.
func (s *Scalar) Negate() *Scalar {
	s.s.Neg(&s.s, s.curve.order)
	return s
}

// Invert sets s = s⁻¹, assuming a prime order. The inverse of 0 is 0.
func (s *Scalar) Invert() *Scalar {
	s.s.Inv(&s.s, s.curve.order)
	return s
}

// Equal returns true if s == t.
func (s *Scalar) Equal(t *Scalar) bool {
	s.mustMatch(t)
	return s.s.Equal(&t.s) == 1
}

// IsZero returns true if s == 0.
func (s *Scalar) IsZero() bool {
	return s.s.IsZero() == 1
}

// Set sets s = t.
func (s *Scalar) Set(t *Scalar) *Scalar {
	s.curve = t.curve
	s.s.Set(&t.s)
	return s
}

// SetNat sets s = x mod q.
func (s *Scalar) SetNat(x *saferith.Nat) *Scalar {
	s.s.SetNat(x, s.curve.order)
	return s
}

// SetUint64 sets s = x mod q.
func (s *Scalar) SetUint64(x uint64) *Scalar {
	s.s.SetUint64(x, s.curve.order)
	return s
}

// SetBytesReduced sets s to the big-endian integer in data, reduced modulo q.
func (s *Scalar) SetBytesReduced(data []byte) *Scalar {
	s.s.SetBytesReduced(data, s.curve.order)
	return s
}

// Bytes returns the fixed-width big-endian encoding of s.
func (s *Scalar) Bytes() []byte {
	return s.s.Bytes(s.curve.order)
}

// Nat returns s as a saferith.Nat.
func (s *Scalar) Nat() *saferith.Nat {
	return s.s.Nat(s.curve.order)
}

// Clear overwrites s with 0.
func (s *Scalar) Clear() {
	s.s.Clear()
}

// Act returns s⋅p.
func (s *Scalar) Act(p *Point) *Point {
	if s.curve != p.curve {
		panic(ErrWrongCurve)
	}
	c := s.curve
	out := c.NewPoint()
	c.scalarMult(out, p, s.s.Limbs(c.order), c.order.BitLen())
	return out
}

// ActOnBase returns s⋅G, using the generator's fixed-base table.
func (s *Scalar) ActOnBase() *Point {
	out := s.curve.NewPoint()
	s.curve.baseTable().mul(out, s.s.Limbs(s.curve.order))
	return out
}
