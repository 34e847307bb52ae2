package field

import (
	"github.com/cronokirby/saferith"
	"github.com/taurusgroup/epid/pkg/math/bnu"
)

// Element is a value in [0, m) for some Modulus m.
//
// The zero value is the element 0. Elements do not record their modulus: every operation
// takes it explicitly, and mixing elements of different moduli is a programming error.
// Operations allow the receiver to alias any argument.
type Element struct {
	v [maxWords]bnu.Word
}

// Limbs returns the little-endian words of z, of length m.Words().
func (z *Element) Limbs(m *Modulus) []bnu.Word {
	return z.v[:m.n]
}

// Set sets z = x.
func (z *Element) Set(x *Element) *Element {
	z.v = x.v
	return z
}

// SetUint64 sets z = x mod m.
func (z *Element) SetUint64(x uint64, m *Modulus) *Element {
	var buf [8]byte
	for i := 0; i < 8; i++ {
		buf[7-i] = byte(x >> (8 * i))
	}
	return z.SetNat(new(saferith.Nat).SetBytes(buf[:]), m)
}

// SetBytes sets z to the big-endian value in buf, which must already be reduced modulo m.
// On error, z is left unchanged.
func (z *Element) SetBytes(buf []byte, m *Modulus) (*Element, error) {
	var t [maxWords]bnu.Word
	if err := bnu.SetBytes(t[:m.n], buf); err != nil {
		return nil, ErrOutOfRange
	}
	if bnu.Less(t[:m.n], m.m[:m.n]) != 1 {
		return nil, ErrOutOfRange
	}
	z.v = t
	return z, nil
}

// SetNat sets z = x mod m.
func (z *Element) SetNat(x *saferith.Nat, m *Modulus) *Element {
	r := new(saferith.Nat).Mod(x, m.nat)
	buf := make([]byte, m.byteLen)
	r.FillBytes(buf)
	var t [maxWords]bnu.Word
	_ = bnu.SetBytes(t[:m.n], buf)
	z.v = t
	return z
}

// SetBytesReduced sets z to the big-endian value in buf, reduced modulo m.
func (z *Element) SetBytesReduced(buf []byte, m *Modulus) *Element {
	return z.SetNat(new(saferith.Nat).SetBytes(buf), m)
}

// Nat returns z as a saferith.Nat.
func (z *Element) Nat(m *Modulus) *saferith.Nat {
	return new(saferith.Nat).SetBytes(z.Bytes(m))
}

// Bytes returns the fixed-width big-endian encoding of z.
func (z *Element) Bytes(m *Modulus) []byte {
	out := make([]byte, m.byteLen)
	z.FillBytes(out, m)
	return out
}

// FillBytes writes the fixed-width big-endian encoding of z to buf, which must have length m.ByteLen().
func (z *Element) FillBytes(buf []byte, m *Modulus) {
	if len(buf) != m.byteLen {
		panic(ErrInvalidByteLength)
	}
	_ = bnu.FillBytes(z.v[:m.n], buf)
}

// Equal returns 1 if z == x.
func (z *Element) Equal(x *Element) bnu.Choice {
	return bnu.Equal(z.v[:], x.v[:])
}

// IsZero returns 1 if z == 0.
func (z *Element) IsZero() bnu.Choice {
	return bnu.IsZero(z.v[:])
}

// Select sets z = x if c == 1, and z = y if c == 0.
func (z *Element) Select(c bnu.Choice, x, y *Element) *Element {
	bnu.Select(z.v[:], x.v[:], y.v[:], c)
	return z
}

// Clear overwrites z with 0.
func (z *Element) Clear() {
	bnu.Zero(z.v[:])
}

// Add sets z = x + y mod m.
func (z *Element) Add(x, y *Element, m *Modulus) *Element {
	n := m.n
	var s, d [maxWords]bnu.Word
	c := bnu.Add(s[:n], x.v[:n], y.v[:n])
	b := bnu.Sub(d[:n], s[:n], m.m[:n])
	// keep the difference if the sum overflowed, or if it did not borrow
	bnu.Select(z.v[:n], d[:n], s[:n], c|(b^1))
	return z
}

// Sub sets z = x - y mod m.
func (z *Element) Sub(x, y *Element, m *Modulus) *Element {
	n := m.n
	var d [maxWords]bnu.Word
	b := bnu.Sub(d[:n], x.v[:n], y.v[:n])
	bnu.CondAdd(d[:n], m.m[:n], b)
	copy(z.v[:n], d[:n])
	return z
}

// Neg sets z = -x mod m.
func (z *Element) Neg(x *Element, m *Modulus) *Element {
	var zero Element
	return z.Sub(&zero, x, m)
}

// Double sets z = 2⋅x mod m.
func (z *Element) Double(x *Element, m *Modulus) *Element {
	return z.Add(x, x, m)
}

// Mul sets z = x⋅y mod m.
func (z *Element) Mul(x, y *Element, m *Modulus) *Element {
	n := m.n
	var t wide
	bnu.Mul(t[:2*n], x.v[:n], y.v[:n])
	m.red.reduce(z.v[:n], t[:2*n])
	return z
}

// Sqr sets z = x² mod m.
func (z *Element) Sqr(x *Element, m *Modulus) *Element {
	return z.Mul(x, x, m)
}

// MulUint64 sets z = x⋅k mod m for a small public constant k.
func (z *Element) MulUint64(x *Element, k uint64, m *Modulus) *Element {
	var kk Element
	kk.SetUint64(k, m)
	return z.Mul(x, &kk, m)
}

// Exp sets z = xᵉ mod m, for a big-endian exponent e.
//
// The running time depends on the length of e but not on its value nor on x.
func (z *Element) Exp(x *Element, e []byte, m *Modulus) *Element {
	var acc, base, t Element
	acc.SetUint64(1, m)
	base.Set(x)
	for _, b := range e {
		for i := 7; i >= 0; i-- {
			acc.Sqr(&acc, m)
			t.Mul(&acc, &base, m)
			acc.Select(bnu.Word(b>>uint(i))&1, &t, &acc)
		}
	}
	z.Set(&acc)
	acc.Clear()
	base.Clear()
	t.Clear()
	return z
}

// Inv sets z = x⁻¹ mod m, using Fermat's little theorem. m must be prime.
// The inverse of 0 is 0.
func (z *Element) Inv(x *Element, m *Modulus) *Element {
	return z.Exp(x, m.invExp, m)
}

// Sqrt sets z to a square root of x mod m, for a prime m ≡ 3 (mod 4).
//
// Whether x is a square is revealed through the returned error, so Sqrt is meant
// for public values.
func (z *Element) Sqrt(x *Element, m *Modulus) (*Element, error) {
	if m.sqrtExp == nil {
		return nil, ErrSqrtNotSupported
	}
	var r, check Element
	r.Exp(x, m.sqrtExp, m)
	check.Sqr(&r, m)
	if check.Equal(x) != 1 {
		return nil, ErrNotSquare
	}
	return z.Set(&r), nil
}

// IsOdd returns 1 if the canonical representative of z is odd.
func (z *Element) IsOdd() bnu.Choice {
	return z.v[0] & 1
}
