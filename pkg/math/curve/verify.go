package curve

import (
	"fmt"

	"github.com/taurusgroup/epid/pkg/math/field"
)

// Result is the outcome of Verify.
type Result uint8

const (
	Valid Result = iota
	ZeroDiscriminant
	PointAtInfinity
	PointNotOnCurve
	InvalidOrder
	WeakOrder
)

func (r Result) String() string {
	switch r {
	case Valid:
		return "valid"
	case ZeroDiscriminant:
		return "zero discriminant"
	case PointAtInfinity:
		return "generator is the point at infinity"
	case PointNotOnCurve:
		return "generator is not on the curve"
	case InvalidOrder:
		return "order⋅G is not the point at infinity"
	case WeakOrder:
		return "order equals the field modulus"
	default:
		return fmt.Sprintf("result(%d)", uint8(r))
	}
}

// Verify checks the curve parameters, stopping at the first failed check:
//
//  1. 4A³ + 27B² ≠ 0
//  2. G is not the point at infinity
//  3. G lies on the curve
//  4. order⋅G is the point at infinity
//  5. the order differs from the field modulus
//
// A failed check is reported as a Result with a nil error. The error is only set
// when c is nil or was not created by NewCurve.
func Verify(c *Curve) (Result, error) {
	if c == nil {
		return 0, ErrNilCurve
	}
	if c.tag != curveTag || c.field == nil || c.order == nil {
		return 0, ErrContextMismatch
	}
	f := c.field

	var disc, t field.Element
	// 27B²
	disc.Sqr(&c.b, f)
	disc.MulUint64(&disc, 27, f)
	if c.params.Special != SpecialEPID2 {
		// 4A³
		t.Sqr(&c.a, f)
		t.Mul(&t, &c.a, f)
		t.MulUint64(&t, 4, f)
		disc.Add(&disc, &t, f)
	}
	if disc.IsZero() == 1 {
		return ZeroDiscriminant, nil
	}

	if c.g.IsIdentity() {
		return PointAtInfinity, nil
	}
	if !c.g.IsOnCurve() {
		return PointNotOnCurve, nil
	}

	var og Point
	c.scalarMult(&og, &c.g, c.order.Limbs(), c.order.BitLen())
	if !og.IsIdentity() {
		return InvalidOrder, nil
	}

	if c.order.Equal(c.field) {
		return WeakOrder, nil
	}
	return Valid, nil
}

// ValidatePoint returns an error if p is nil, belongs to another curve, is the identity,
// or does not satisfy the curve equation.
func (c *Curve) ValidatePoint(p *Point) error {
	if p == nil {
		return ErrPointEncoding
	}
	if p.curve != c {
		return ErrWrongCurve
	}
	if p.IsIdentity() {
		return ErrIdentity
	}
	if !p.IsOnCurve() {
		return ErrPointNotOnCurve
	}
	return nil
}
