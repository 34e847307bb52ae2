package bnu

import "math/bits"

// Choice is 1 or 0, used to drive branch-free selection.
type Choice = Word

// mask expands a Choice to a word of all ones or all zeros.
func mask(c Choice) Word {
	return -(c & 1)
}

// WordIsZero returns 1 if w == 0.
func WordIsZero(w Word) Choice {
	// w | -w has its top bit set exactly when w ≠ 0.
	return 1 ^ ((w | -w) >> (WordBits - 1))
}

// WordEqual returns 1 if x == y.
func WordEqual(x, y Word) Choice {
	return WordIsZero(x ^ y)
}

// IsZero returns 1 if every word of x is 0.
func IsZero(x []Word) Choice {
	var acc Word
	for _, w := range x {
		acc |= w
	}
	return WordIsZero(acc)
}

// Equal returns 1 if x == y.
func Equal(x, y []Word) Choice {
	checkLen(len(x), len(y))
	var acc Word
	for i := range x {
		acc |= x[i] ^ y[i]
	}
	return WordIsZero(acc)
}

// Less returns 1 if x < y.
func Less(x, y []Word) Choice {
	checkLen(len(x), len(y))
	var b Word
	for i := range x {
		_, b = bits.Sub(x[i], y[i], b)
	}
	return b
}

// Cmp compares x and y, returning -1, 0 or +1.
//
// The comparison itself is branch-free, but callers branching on the result reveal it.
func Cmp(x, y []Word) int {
	lt := Less(x, y)
	gt := Less(y, x)
	return int(gt) - int(lt)
}

// Select sets z = x if c == 1, and z = y if c == 0.
func Select(z, x, y []Word, c Choice) {
	checkLen(len(z), len(x), len(y))
	m := mask(c)
	for i := range z {
		z[i] = (x[i] & m) | (y[i] &^ m)
	}
}

// SelectWord returns x if c == 1, and y if c == 0.
func SelectWord(x, y Word, c Choice) Word {
	m := mask(c)
	return (x & m) | (y &^ m)
}

// CondAdd sets z = z + x if c == 1, leaving z unchanged otherwise, and returns the carry.
func CondAdd(z, x []Word, c Choice) (carry Word) {
	checkLen(len(z), len(x))
	m := mask(c)
	for i := range z {
		z[i], carry = bits.Add(z[i], x[i]&m, carry)
	}
	return carry
}

// CondSub sets z = z - x if c == 1, leaving z unchanged otherwise, and returns the borrow.
func CondSub(z, x []Word, c Choice) (borrow Word) {
	checkLen(len(z), len(x))
	m := mask(c)
	for i := range z {
		z[i], borrow = bits.Sub(z[i], x[i]&m, borrow)
	}
	return borrow
}
