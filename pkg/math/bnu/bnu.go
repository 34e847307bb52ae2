// Package bnu implements fixed-width multi-precision arithmetic on little-endian
// slices of machine words.
//
// Unless stated otherwise, every function runs in time depending only on the lengths
// of its arguments, never on their values. Operands passed together must have the
// lengths documented on each function; the functions panic on mismatched lengths,
// since that is a programming error rather than a runtime condition.
package bnu

import "math/bits"

// Word is a single digit of a multi-precision integer.
type Word = uint

const (
	WordBits  = bits.UintSize
	WordBytes = WordBits / 8
)

// Words returns the number of words needed to store an integer of bitLen bits.
func Words(bitLen int) int {
	return (bitLen + WordBits - 1) / WordBits
}

func checkLen(n int, others ...int) {
	for _, m := range others {
		if m != n {
			panic("bnu: length mismatch")
		}
	}
}

// Add sets z = x + y and returns the carry out of the top word.
func Add(z, x, y []Word) (c Word) {
	checkLen(len(z), len(x), len(y))
	for i := range z {
		z[i], c = bits.Add(x[i], y[i], c)
	}
	return c
}

// Sub sets z = x - y and returns the borrow out of the top word.
func Sub(z, x, y []Word) (b Word) {
	checkLen(len(z), len(x), len(y))
	for i := range z {
		z[i], b = bits.Sub(x[i], y[i], b)
	}
	return b
}

// AddWord sets z = x + y, propagating the carry through every word of x.
func AddWord(z, x []Word, y Word) (c Word) {
	checkLen(len(z), len(x))
	c = y
	for i := range z {
		z[i], c = bits.Add(x[i], c, 0)
	}
	return c
}

// SubWord sets z = x - y, propagating the borrow through every word of x.
func SubWord(z, x []Word, y Word) (b Word) {
	checkLen(len(z), len(x))
	b = y
	for i := range z {
		z[i], b = bits.Sub(x[i], b, 0)
	}
	return b
}

// MulDigit sets z = x⋅y and returns the high word of the product.
func MulDigit(z, x []Word, y Word) (c Word) {
	checkLen(len(z), len(x))
	for i := range x {
		hi, lo := bits.Mul(x[i], y)
		var cc Word
		z[i], cc = bits.Add(lo, c, 0)
		c = hi + cc
	}
	return c
}

// AddMulDigit sets z = z + x⋅y and returns the word carried out of the top position.
func AddMulDigit(z, x []Word, y Word) (c Word) {
	checkLen(len(z), len(x))
	for i := range x {
		hi, lo := bits.Mul(x[i], y)
		var cc Word
		lo, cc = bits.Add(lo, c, 0)
		hi += cc
		z[i], cc = bits.Add(z[i], lo, 0)
		c = hi + cc
	}
	return c
}

// SubMulDigit sets z = z - x⋅y and returns the extension word, that is the amount
// that still has to be subtracted from the word following the top of z.
//
// The high word of each partial product and the borrow of each subtraction are
// folded into a single running extension, so that
//
//	z_in - x⋅y = z_out - ext⋅2^(len(z)⋅WordBits)
//
// The extension never overflows a word: ext ≤ y.
func SubMulDigit(z, x []Word, y Word) (ext Word) {
	checkLen(len(z), len(x))
	for i := range x {
		hi, lo := bits.Mul(x[i], y)
		var b Word
		lo, b = bits.Add(lo, ext, 0)
		hi += b
		z[i], b = bits.Sub(z[i], lo, 0)
		ext = hi + b
	}
	return ext
}

// Mul sets z = x⋅y using schoolbook multiplication.
// z must have length len(x)+len(y) and must not alias x or y.
func Mul(z, x, y []Word) {
	checkLen(len(z), len(x)+len(y))
	for i := range z {
		z[i] = 0
	}
	for j := range y {
		z[j+len(x)] = AddMulDigit(z[j:j+len(x)], x, y[j])
	}
}

// DivDigit sets q = x / y and returns x mod y.
//
// The hardware division instruction this relies on does not run in constant time
// on every platform, so y must be public.
func DivDigit(q, x []Word, y Word) (r Word) {
	checkLen(len(q), len(x))
	if y == 0 {
		panic("bnu: division by zero")
	}
	for i := len(x) - 1; i >= 0; i-- {
		q[i], r = bits.Div(r, x[i], y)
	}
	return r
}

// Shl sets z = x << s for 0 ≤ s < WordBits and returns the bits shifted out.
func Shl(z, x []Word, s uint) (c Word) {
	checkLen(len(z), len(x))
	s &= WordBits - 1
	for i := range x {
		w := x[i]
		z[i] = w<<s | c
		c = w >> (WordBits - s)
	}
	return c
}

// Shr sets z = x >> s for 0 ≤ s < WordBits and returns the bits shifted out,
// aligned to the top of the returned word.
func Shr(z, x []Word, s uint) (c Word) {
	checkLen(len(z), len(x))
	s &= WordBits - 1
	for i := len(x) - 1; i >= 0; i-- {
		w := x[i]
		z[i] = w>>s | c
		c = w << (WordBits - s)
	}
	return c
}

// Zero sets every word of z to 0.
func Zero(z []Word) {
	for i := range z {
		z[i] = 0
	}
}

// BitLen returns the position of the highest set bit of x, plus one.
//
// This leaks the bit length of x, and is reserved for public values such as moduli.
func BitLen(x []Word) int {
	for i := len(x) - 1; i >= 0; i-- {
		if x[i] != 0 {
			return i*WordBits + bits.Len(x[i])
		}
	}
	return 0
}

// Bit returns bit i of x.
func Bit(x []Word, i int) Word {
	return (x[i/WordBits] >> (uint(i) % WordBits)) & 1
}
