package curve

import (
	"fmt"

	"github.com/taurusgroup/epid/pkg/math/bnu"
)

// MarshalBinary implements encoding.BinaryMarshaler.
//
// The encoding is the fixed-width big-endian q-byte value of s.
func (s *Scalar) MarshalBinary() ([]byte, error) {
	return s.Bytes(), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
//
// The data must have exactly the scalar length, and encode a value below the order.
// The receiver must already be bound to a curve, as returned by Curve.NewScalar.
func (s *Scalar) UnmarshalBinary(data []byte) error {
	if s.curve == nil {
		return ErrNilCurve
	}
	if len(data) != s.curve.ScalarBytes() {
		return fmt.Errorf("%w: expected %d bytes, got %d", ErrScalarEncoding, s.curve.ScalarBytes(), len(data))
	}
	if _, err := s.s.SetBytes(data, s.curve.order); err != nil {
		return fmt.Errorf("%w: %v", ErrScalarEncoding, err)
	}
	return nil
}

// MarshalBinary implements encoding.BinaryMarshaler.
//
// The encoding is X ‖ Y, the affine coordinates as fixed-width big-endian integers.
// The identity is encoded as all zeros.
func (p *Point) MarshalBinary() ([]byte, error) {
	out := make([]byte, p.curve.PointBytes())
	a := p.ToAffine()
	fl := p.curve.field.ByteLen()
	a.x.FillBytes(out[:fl], p.curve.field)
	a.y.FillBytes(out[fl:], p.curve.field)
	return out, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
//
// Both coordinates must be reduced, and the point must lie on the curve.
// The receiver must already be bound to a curve, as returned by Curve.NewPoint.
func (p *Point) UnmarshalBinary(data []byte) error {
	c := p.curve
	if c == nil {
		return ErrNilCurve
	}
	if len(data) != c.PointBytes() {
		return fmt.Errorf("%w: expected %d bytes, got %d", ErrPointEncoding, c.PointBytes(), len(data))
	}
	fl := c.field.ByteLen()
	q := c.NewPoint()
	if _, err := q.x.SetBytes(data[:fl], c.field); err != nil {
		return fmt.Errorf("%w: x: %v", ErrPointEncoding, err)
	}
	if _, err := q.y.SetBytes(data[fl:], c.field); err != nil {
		return fmt.Errorf("%w: y: %v", ErrPointEncoding, err)
	}
	q.z.SetUint64(1, c.field)
	q.inf = q.x.IsZero() & q.y.IsZero()
	if q.inf == bnu.Choice(0) && !q.IsOnCurve() {
		return ErrPointNotOnCurve
	}
	*p = *q
	return nil
}
