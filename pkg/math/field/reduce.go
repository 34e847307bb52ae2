package field

import (
	"math/bits"

	"github.com/cronokirby/saferith"
	"github.com/taurusgroup/epid/pkg/math/bnu"
)

type wide [2*maxWords + 1]bnu.Word

// montgomery reduces with REDC, built on repeated SubMulDigit.
//
// Elements are kept in their natural representation: a product x⋅y is reduced
// to x⋅y⋅R⁻¹ first, and multiplied by R² followed by a second REDC.
type montgomery struct {
	m []bnu.Word
	// m0inv⋅m[0] ≡ 1 (mod 2^WordBits)
	m0inv bnu.Word
	// rr = R² mod m, with R = 2^(n⋅WordBits)
	rr [maxWords]bnu.Word
}

func newMontgomery(m []bnu.Word, nat *saferith.Modulus) *montgomery {
	r := &montgomery{m: m}

	inv := m[0]
	for i := 0; i < 6; i++ {
		inv *= 2 - m[0]*inv
	}
	r.m0inv = inv

	n := len(m)
	rr := new(saferith.Nat).SetUint64(1)
	rr.Lsh(rr, uint(2*n*bnu.WordBits), -1)
	rr.Mod(rr, nat)
	buf := make([]byte, n*bnu.WordBytes)
	rr.FillBytes(buf)
	_ = bnu.SetBytes(r.rr[:n], buf)
	return r
}

// redc sets z = t⋅R⁻¹ mod m, for t < m⋅R.
//
// Each step subtracts u⋅m⋅2^(i⋅WordBits), with u chosen to clear word i of t.
// The running value only decreases and stays above -m⋅R, so it wraps at most once;
// the final value lies in (-m, m) and a single masked addition of m makes it canonical.
func (r *montgomery) redc(z, t []bnu.Word) {
	n := len(r.m)
	var borrow bnu.Word
	for i := 0; i < n; i++ {
		u := t[i] * r.m0inv
		ext := bnu.SubMulDigit(t[i:i+n], r.m, u)
		borrow |= bnu.SubWord(t[i+n:2*n], t[i+n:2*n], ext)
	}
	copy(z, t[n:2*n])
	bnu.CondAdd(z, r.m, borrow)
}

func (r *montgomery) reduce(z, t []bnu.Word) {
	n := len(r.m)
	var u [maxWords]bnu.Word
	r.redc(u[:n], t)

	var t2 wide
	bnu.Mul(t2[:2*n], u[:n], r.rr[:n])
	r.redc(z, t2[:2*n])
}

// pseudoMersenne reduces modulo m = 2^(n⋅WordBits) - c using 2^(n⋅WordBits) ≡ c.
type pseudoMersenne struct {
	m []bnu.Word
	c bnu.Word
}

func (r *pseudoMersenne) reduce(z, t []bnu.Word) {
	n := len(r.m)
	lo, hi := t[:n], t[n:2*n]

	// lo + hi⋅c < 2^(n⋅WordBits)⋅(c+1)
	top := bnu.AddMulDigit(lo, hi, r.c)

	// fold top⋅c < 2^(2⋅WordBits-4) back in
	h, l := bits.Mul(top, r.c)
	var carry bnu.Word
	lo[0], carry = bits.Add(lo[0], l, 0)
	lo[1], carry = bits.Add(lo[1], h, carry)
	carry = bnu.AddWord(lo[2:], lo[2:], carry)

	// a final wrap leaves a small value, to which c can be added without carrying
	bnu.AddWord(lo, lo, carry*r.c)

	// lo < 2^(n⋅WordBits) < 2m
	var d [maxWords]bnu.Word
	b := bnu.Sub(d[:n], lo, r.m)
	bnu.Select(z, lo, d[:n], b)
}

// generic reduces by schoolbook long division on a normalized divisor.
//
// Each quotient digit estimate is at most two above the true digit, so every step
// performs exactly two masked corrections regardless of the values involved.
type generic struct {
	m []bnu.Word
	// mn = m << s, with the top bit of mn set
	mn [maxWords]bnu.Word
	s  uint
}

func newGeneric(m []bnu.Word) *generic {
	n := len(m)
	r := &generic{m: m}
	r.s = uint(bits.LeadingZeros(m[n-1]))
	bnu.Shl(r.mn[:n], m, r.s)
	return r
}

func (r *generic) reduce(z, t []bnu.Word) {
	n := len(r.m)
	mn := r.mn[:n]
	d := mn[n-1]

	var u wide
	u[2*n] = bnu.Shl(u[:2*n], t[:2*n], r.s)

	for j := n; j >= 0; j-- {
		w := u[j : j+n+1]

		// q̂ = min(⌊(w[n]⋅2^WordBits + w[n-1]) / d⌋, 2^WordBits - 1)
		top := w[n]
		sat := bnu.WordEqual(top, d)
		q := divWord(bnu.SelectWord(0, top, sat), w[n-1], d)
		qhat := bnu.SelectWord(^bnu.Word(0), q, sat)

		ext := bnu.SubMulDigit(w[:n], mn, qhat)
		var neg bnu.Word
		w[n], neg = bits.Sub(w[n], ext, 0)

		for k := 0; k < 2; k++ {
			c := bnu.CondAdd(w[:n], mn, neg)
			var wrapped bnu.Word
			w[n], wrapped = bits.Add(w[n], c, 0)
			neg &^= wrapped
		}
	}
	bnu.Shr(z, u[:n], r.s)
}

// divWord returns ⌊(hi⋅2^WordBits + lo) / d⌋ for hi < d and d with its top bit set.
//
// It shifts in one bit of lo per step and subtracts d under a mask, so it never
// reaches the hardware divider, whose timing depends on the operands on some platforms.
func divWord(hi, lo, d bnu.Word) (q bnu.Word) {
	r := hi
	for i := bnu.WordBits - 1; i >= 0; i-- {
		out := r >> (bnu.WordBits - 1)
		r = r<<1 | (lo>>uint(i))&1
		diff, borrow := bits.Sub(r, d, 0)
		// the shifted remainder is at least d if a bit fell out, or if r - d did not borrow
		ge := out | (borrow ^ 1)
		r = bnu.SelectWord(diff, r, ge)
		q = q<<1 | ge
	}
	return q
}
