// Package curve implements short Weierstrass curves y² = x³ + Ax + B over a prime field,
// with constant-time point arithmetic in Jacobian coordinates.
package curve

import (
	"errors"
	"fmt"
	"sync"

	"github.com/taurusgroup/epid/pkg/math/field"
	"github.com/taurusgroup/epid/pkg/pool"
)

// Special marks a curve family for which parts of the validation can be shortcut.
type Special uint8

const (
	SpecialNone Special = iota
	// SpecialEPID2 is the EPID 2.0 G1 family, with A = 0.
	SpecialEPID2
)

// curveTag identifies a Curve produced by NewCurve.
const curveTag uint32 = 0x45435047

var (
	ErrNilCurve        = errors.New("curve: nil curve")
	ErrContextMismatch = errors.New("curve: curve was not initialized with NewCurve")
	ErrInvalidParams   = errors.New("curve: invalid curve parameters")
	ErrPointNotOnCurve = errors.New("curve: point is not on the curve")
	ErrPointEncoding   = errors.New("curve: invalid point encoding")
	ErrScalarEncoding  = errors.New("curve: invalid scalar encoding")
	ErrIdentity        = errors.New("curve: point is the identity")
	ErrWrongCurve      = errors.New("curve: element belongs to a different curve")
)

// Params holds the parameters of a curve as big-endian octet strings.
//
// A generator given as (0, 0) denotes the point at infinity.
type Params struct {
	Name    string
	P       []byte
	A, B    []byte
	Gx, Gy  []byte
	Order   []byte
	Special Special
}

// Curve is an immutable curve instance, created by NewCurve.
//
// A Curve may be shared between goroutines.
type Curve struct {
	tag     uint32
	params  Params
	field   *field.Modulus
	order   *field.Modulus
	a, b    field.Element
	aIsZero bool
	g       Point

	tableOnce sync.Once
	table     *FixedBaseTable
}

// NewCurve builds a curve from its parameters.
//
// NewCurve only checks that the parameters are well-formed: every value must be
// reduced modulo P, and SpecialEPID2 requires A = 0. Use Verify to check the
// cryptographic soundness of the parameters.
func NewCurve(params Params) (*Curve, error) {
	f, err := field.NewModulus(params.P)
	if err != nil {
		return nil, fmt.Errorf("curve: field modulus: %w", err)
	}
	if f.Strategy() == field.Generic {
		return nil, fmt.Errorf("%w: field modulus must be odd", ErrInvalidParams)
	}
	order, err := field.NewModulusWithStrategy(params.Order, field.Montgomery)
	if err != nil {
		return nil, fmt.Errorf("curve: order: %w", err)
	}

	c := &Curve{
		tag:    curveTag,
		params: params,
		field:  f,
		order:  order,
	}
	if _, err = c.a.SetBytes(params.A, f); err != nil {
		return nil, fmt.Errorf("%w: A: %v", ErrInvalidParams, err)
	}
	if _, err = c.b.SetBytes(params.B, f); err != nil {
		return nil, fmt.Errorf("%w: B: %v", ErrInvalidParams, err)
	}
	c.aIsZero = c.a.IsZero() == 1
	if params.Special == SpecialEPID2 && !c.aIsZero {
		return nil, fmt.Errorf("%w: EPID2 curves require A = 0", ErrInvalidParams)
	}

	g := c.NewPoint()
	if _, err = g.x.SetBytes(params.Gx, f); err != nil {
		return nil, fmt.Errorf("%w: Gx: %v", ErrInvalidParams, err)
	}
	if _, err = g.y.SetBytes(params.Gy, f); err != nil {
		return nil, fmt.Errorf("%w: Gy: %v", ErrInvalidParams, err)
	}
	g.z.SetUint64(1, f)
	g.inf = g.x.IsZero() & g.y.IsZero()
	g.affine = true
	c.g = *g
	return c, nil
}

// ByName returns a fresh instance of a named curve.
//
// Points and scalars are bound to the instance that created them, and instances are
// never equal to each other even with identical parameters. Decode values with the
// same *Curve that will check them, usually the Group of an epid.Config.
func ByName(name string) (*Curve, error) {
	var params Params
	switch name {
	case EPID2Name:
		params = EPID2Params()
	case Secp256k1Name:
		params = Secp256k1Params()
	case P256Name:
		params = P256Params()
	default:
		return nil, fmt.Errorf("curve: unknown curve %q", name)
	}
	return NewCurve(params)
}

func mustCurve(params Params) *Curve {
	c, err := NewCurve(params)
	if err != nil {
		panic(err)
	}
	return c
}

// Name returns the name given in the parameters.
func (c *Curve) Name() string { return c.params.Name }

// Params returns the parameters the curve was built from.
func (c *Curve) Params() Params { return c.params }

// Field returns the modulus of the base field.
func (c *Curve) Field() *field.Modulus { return c.field }

// Order returns the modulus of the scalar field.
func (c *Curve) Order() *field.Modulus { return c.order }

// ScalarBytes returns the length of an encoded scalar.
func (c *Curve) ScalarBytes() int { return c.order.ByteLen() }

// PointBytes returns the length of an encoded point.
func (c *Curve) PointBytes() int { return 2 * c.field.ByteLen() }

// NewPoint returns the identity.
func (c *Curve) NewPoint() *Point {
	return &Point{curve: c, inf: 1, affine: true}
}

// NewBasePoint returns the generator.
func (c *Curve) NewBasePoint() *Point {
	g := c.g
	return &g
}

// NewScalar returns the scalar 0.
func (c *Curve) NewScalar() *Scalar {
	return &Scalar{curve: c}
}

// Precompute builds the fixed-base table for the generator, spreading the work over pl.
// It is done lazily otherwise, on the first call to ActOnBase.
func (c *Curve) Precompute(pl *pool.Pool) {
	c.tableOnce.Do(func() {
		c.table = NewFixedBaseTable(&c.g, pl)
	})
}

func (c *Curve) baseTable() *FixedBaseTable {
	c.Precompute(nil)
	return c.table
}

// PointFromX returns the point with the given x coordinate reduced modulo P and an even y,
// or an error if x³ + Ax + B is not a square.
//
// PointFromX is meant for public inputs, such as hashes of basenames.
func (c *Curve) PointFromX(x []byte) (*Point, error) {
	f := c.field
	p := c.NewPoint()
	p.x.SetBytesReduced(x, f)

	var rhs field.Element
	c.rhs(&rhs, &p.x)
	if _, err := p.y.Sqrt(&rhs, f); err != nil {
		return nil, err
	}
	var neg field.Element
	neg.Neg(&p.y, f)
	p.y.Select(p.y.IsOdd(), &neg, &p.y)
	p.z.SetUint64(1, f)
	p.inf = 0
	return p, nil
}

// rhs sets out = x³ + Ax + B.
func (c *Curve) rhs(out, x *field.Element) {
	f := c.field
	var t field.Element
	t.Sqr(x, f)
	t.Mul(&t, x, f)
	if !c.aIsZero {
		var ax field.Element
		ax.Mul(&c.a, x, f)
		t.Add(&t, &ax, f)
	}
	out.Add(&t, &c.b, f)
}
