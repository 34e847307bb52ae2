package curve

import (
	"github.com/taurusgroup/epid/pkg/math/bnu"
	"github.com/taurusgroup/epid/pkg/math/field"
)

// Form describes how a Point is currently represented.
type Form uint8

const (
	Infinity Form = iota
	Affine
	Projective
)

func (f Form) String() string {
	switch f {
	case Infinity:
		return "infinity"
	case Affine:
		return "affine"
	default:
		return "projective"
	}
}

// Point is a point on a Curve, in Jacobian coordinates (X, Y, Z) representing (X/Z², Y/Z³).
//
// The point at infinity is marked by an explicit flag rather than by Z = 0, and every
// operation handles it through masked selection, so that no field division is ever
// performed on a degenerate coordinate.
//
// Point operations return new values and never modify their arguments.
type Point struct {
	curve   *Curve
	x, y, z field.Element
	inf     bnu.Choice
	// affine is set when Z = 1 is known; it never depends on secret data
	affine bool
}

// Curve returns the curve the point belongs to.
func (p *Point) Curve() *Curve { return p.curve }

// Form returns the current representation of p.
func (p *Point) Form() Form {
	switch {
	case p.inf == 1:
		return Infinity
	case p.affine:
		return Affine
	default:
		return Projective
	}
}

// IsIdentity returns true if p is the point at infinity.
func (p *Point) IsIdentity() bool {
	return p.inf == 1
}

// Set sets p = q and returns p.
func (p *Point) Set(q *Point) *Point {
	*p = *q
	return p
}

// Add returns p + q.
func (p *Point) Add(q *Point) *Point {
	p.mustMatch(q)
	out := new(Point)
	p.curve.add(out, p, q)
	return out
}

// Sub returns p - q.
func (p *Point) Sub(q *Point) *Point {
	return p.Add(q.Negate())
}

// Negate returns -p.
func (p *Point) Negate() *Point {
	out := *p
	out.y.Neg(&p.y, p.curve.field)
	return &out
}

// Double returns 2⋅p.
func (p *Point) Double() *Point {
	out := new(Point)
	p.curve.double(out, p)
	return out
}

// Equal returns true if p and q represent the same point.
func (p *Point) Equal(q *Point) bool {
	p.mustMatch(q)
	f := p.curve.field
	var z1z1, z2z2, u1, u2, s1, s2 field.Element
	z1z1.Sqr(&p.z, f)
	z2z2.Sqr(&q.z, f)
	u1.Mul(&p.x, &z2z2, f)
	u2.Mul(&q.x, &z1z1, f)
	s1.Mul(&p.y, &q.z, f)
	s1.Mul(&s1, &z2z2, f)
	s2.Mul(&q.y, &p.z, f)
	s2.Mul(&s2, &z1z1, f)

	same := u1.Equal(&u2) & s1.Equal(&s2)
	anyInf := p.inf | q.inf
	return (p.inf&q.inf)|(same&(anyInf^1)) == 1
}

// IsOnCurve returns true if p satisfies Y² = X³ + A⋅X⋅Z⁴ + B⋅Z⁶, or is the identity.
func (p *Point) IsOnCurve() bool {
	c := p.curve
	f := c.field
	var lhs, rhs, zz, z4, z6, t field.Element
	lhs.Sqr(&p.y, f)

	zz.Sqr(&p.z, f)
	z4.Sqr(&zz, f)
	z6.Mul(&z4, &zz, f)

	rhs.Sqr(&p.x, f)
	rhs.Mul(&rhs, &p.x, f)
	if !c.aIsZero {
		t.Mul(&c.a, &p.x, f)
		t.Mul(&t, &z4, f)
		rhs.Add(&rhs, &t, f)
	}
	t.Mul(&c.b, &z6, f)
	rhs.Add(&rhs, &t, f)
	return (p.inf | lhs.Equal(&rhs)) == 1
}

// ToAffine returns p normalized to Z = 1. The identity is returned as is.
func (p *Point) ToAffine() *Point {
	out := *p
	p.curve.toAffine(&out)
	return &out
}

// XBytes returns the fixed-width encoding of the affine x coordinate.
func (p *Point) XBytes() []byte {
	a := p.ToAffine()
	return a.x.Bytes(p.curve.field)
}

// YBytes returns the fixed-width encoding of the affine y coordinate.
func (p *Point) YBytes() []byte {
	a := p.ToAffine()
	return a.y.Bytes(p.curve.field)
}

func (p *Point) mustMatch(q *Point) {
	if p.curve != q.curve {
		panic(ErrWrongCurve)
	}
}

func (c *Curve) toAffine(p *Point) {
	if p.affine {
		return
	}
	f := c.field
	var zinv, zinv2 field.Element
	zinv.Inv(&p.z, f)
	zinv2.Sqr(&zinv, f)
	p.x.Mul(&p.x, &zinv2, f)
	zinv2.Mul(&zinv2, &zinv, f)
	p.y.Mul(&p.y, &zinv2, f)
	p.z.SetUint64(1, f)

	var zero field.Element
	p.x.Select(p.inf, &zero, &p.x)
	p.y.Select(p.inf, &zero, &p.y)
	p.affine = true
}

// double sets out = 2⋅p, with a = A:
//
//	S = 4⋅X⋅Y², M = 3⋅X² + a⋅Z⁴
//	X' = M² - 2⋅S, Y' = M⋅(S - X') - 8⋅Y⁴, Z' = 2⋅Y⋅Z
//
// A point with Y = 0 has order two, and doubles to the identity.
func (c *Curve) double(out, p *Point) {
	f := c.field
	var xx, yy, yyyy, s, m, t, x3, y3, z3 field.Element
	xx.Sqr(&p.x, f)
	yy.Sqr(&p.y, f)
	yyyy.Sqr(&yy, f)

	s.Mul(&p.x, &yy, f)
	s.Double(&s, f)
	s.Double(&s, f)

	m.Double(&xx, f)
	m.Add(&m, &xx, f)
	if !c.aIsZero {
		t.Sqr(&p.z, f)
		t.Sqr(&t, f)
		t.Mul(&t, &c.a, f)
		m.Add(&m, &t, f)
	}

	x3.Sqr(&m, f)
	x3.Sub(&x3, &s, f)
	x3.Sub(&x3, &s, f)

	y3.Sub(&s, &x3, f)
	y3.Mul(&y3, &m, f)
	t.Double(&yyyy, f)
	t.Double(&t, f)
	t.Double(&t, f)
	y3.Sub(&y3, &t, f)

	z3.Mul(&p.y, &p.z, f)
	z3.Double(&z3, f)

	out.curve = c
	out.inf = p.inf | p.y.IsZero()
	out.x, out.y, out.z = x3, y3, z3
	out.affine = false
}

// add sets out = p + q.
//
//	U1 = X1⋅Z2², U2 = X2⋅Z1², S1 = Y1⋅Z2³, S2 = Y2⋅Z1³, H = U2 - U1, r = S2 - S1
//	X3 = r² - H³ - 2⋅U1⋅H², Y3 = r⋅(U1⋅H² - X3) - S1⋅H³, Z3 = Z1⋅Z2⋅H
//
// The doubling and identity cases are always computed and chosen by masked selection.
func (c *Curve) add(out, p, q *Point) {
	f := c.field
	var z1z1, z2z2, u1, u2, s1, s2, h, r, hh, hhh, v, t field.Element
	z1z1.Sqr(&p.z, f)
	z2z2.Sqr(&q.z, f)
	u1.Mul(&p.x, &z2z2, f)
	u2.Mul(&q.x, &z1z1, f)
	s1.Mul(&p.y, &q.z, f)
	s1.Mul(&s1, &z2z2, f)
	s2.Mul(&q.y, &p.z, f)
	s2.Mul(&s2, &z1z1, f)
	h.Sub(&u2, &u1, f)
	r.Sub(&s2, &s1, f)

	hh.Sqr(&h, f)
	hhh.Mul(&hh, &h, f)
	v.Mul(&u1, &hh, f)

	sum := Point{curve: c}
	sum.x.Sqr(&r, f)
	sum.x.Sub(&sum.x, &hhh, f)
	sum.x.Sub(&sum.x, &v, f)
	sum.x.Sub(&sum.x, &v, f)

	sum.y.Sub(&v, &sum.x, f)
	sum.y.Mul(&sum.y, &r, f)
	t.Mul(&s1, &hhh, f)
	sum.y.Sub(&sum.y, &t, f)

	sum.z.Mul(&p.z, &q.z, f)
	sum.z.Mul(&sum.z, &h, f)

	// H = 0 with r ≠ 0 means q = -p
	hZero := h.IsZero()
	sum.inf = hZero

	var dbl Point
	c.double(&dbl, p)
	selectPoint(&sum, hZero&r.IsZero(), &dbl, &sum)
	selectPoint(&sum, p.inf, q, &sum)
	selectPoint(&sum, q.inf, p, &sum)

	*out = sum
	out.affine = false
}

// selectPoint sets out = a if cond == 1, and out = b otherwise.
func selectPoint(out *Point, cond bnu.Choice, a, b *Point) {
	out.curve = a.curve
	out.x.Select(cond, &a.x, &b.x)
	out.y.Select(cond, &a.y, &b.y)
	out.z.Select(cond, &a.z, &b.z)
	out.inf = bnu.SelectWord(a.inf, b.inf, cond)
}
