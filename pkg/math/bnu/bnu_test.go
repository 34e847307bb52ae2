package bnu

import (
	"math/big"
	mrand "math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func toBig(x []Word) *big.Int {
	buf := make([]byte, len(x)*WordBytes)
	_ = FillBytes(x, buf)
	return new(big.Int).SetBytes(buf)
}

func randWords(r *mrand.Rand, n int) []Word {
	x := make([]Word, n)
	for i := range x {
		x[i] = Word(r.Uint64())
	}
	return x
}

func pow2(n int) *big.Int {
	return new(big.Int).Lsh(big.NewInt(1), uint(n))
}

func TestAddSub(t *testing.T) {
	r := mrand.New(mrand.NewSource(1))
	for n := 1; n <= 8; n++ {
		x, y := randWords(r, n), randWords(r, n)
		z := make([]Word, n)

		c := Add(z, x, y)
		expected := new(big.Int).Add(toBig(x), toBig(y))
		got := new(big.Int).Add(toBig(z), new(big.Int).Mul(big.NewInt(int64(c)), pow2(n*WordBits)))
		assert.Equal(t, expected, got, "Add with %d words", n)

		b := Sub(z, x, y)
		expected = new(big.Int).Sub(toBig(x), toBig(y))
		got = new(big.Int).Sub(toBig(z), new(big.Int).Mul(big.NewInt(int64(b)), pow2(n*WordBits)))
		assert.Equal(t, expected, got, "Sub with %d words", n)
	}
}

func TestMulDigit(t *testing.T) {
	r := mrand.New(mrand.NewSource(2))
	for n := 1; n <= 8; n++ {
		x := randWords(r, n)
		y := Word(r.Uint64())
		z := make([]Word, n)
		hi := MulDigit(z, x, y)
		full := append(append([]Word{}, z...), hi)
		expected := new(big.Int).Mul(toBig(x), new(big.Int).SetUint64(uint64(y)))
		assert.Equal(t, expected, toBig(full))
	}
}

func TestAddMulDigit(t *testing.T) {
	r := mrand.New(mrand.NewSource(3))
	for n := 1; n <= 8; n++ {
		x, z := randWords(r, n), randWords(r, n)
		y := Word(r.Uint64())
		expected := new(big.Int).Mul(toBig(x), new(big.Int).SetUint64(uint64(y)))
		expected.Add(expected, toBig(z))
		c := AddMulDigit(z, x, y)
		full := append(append([]Word{}, z...), c)
		assert.Equal(t, expected, toBig(full))
	}
}

func TestSubMulDigit(t *testing.T) {
	r := mrand.New(mrand.NewSource(4))
	for n := 1; n <= 8; n++ {
		for i := 0; i < 50; i++ {
			x, z := randWords(r, n), randWords(r, n)
			y := Word(r.Uint64())
			zIn := toBig(z)
			ext := SubMulDigit(z, x, y)
			assert.LessOrEqual(t, uint64(ext), uint64(y))

			// z_in - x⋅y = z_out - ext⋅2^(n⋅w)
			lhs := new(big.Int).Mul(toBig(x), new(big.Int).SetUint64(uint64(y)))
			lhs.Sub(zIn, lhs)
			rhs := new(big.Int).Mul(new(big.Int).SetUint64(uint64(ext)), pow2(n*WordBits))
			rhs.Sub(toBig(z), rhs)
			assert.Equal(t, lhs, rhs)
		}
	}
}

func TestSubMulDigitExtremes(t *testing.T) {
	max := ^Word(0)
	z := []Word{0, 0, 0}
	x := []Word{max, max, max}
	ext := SubMulDigit(z, x, max)
	// 0 - (R-1)(2^w-1) = z - ext⋅R with R = 2^(3w)
	lhs := new(big.Int).Sub(pow2(3*WordBits), big.NewInt(1))
	lhs.Mul(lhs, new(big.Int).SetUint64(uint64(max)))
	lhs.Neg(lhs)
	rhs := new(big.Int).Mul(new(big.Int).SetUint64(uint64(ext)), pow2(3*WordBits))
	rhs.Sub(toBig(z), rhs)
	assert.Equal(t, lhs, rhs)
	assert.Equal(t, max, ext)
}

func TestMul(t *testing.T) {
	r := mrand.New(mrand.NewSource(5))
	for n := 1; n <= 8; n++ {
		for m := 1; m <= 4; m++ {
			x, y := randWords(r, n), randWords(r, m)
			z := make([]Word, n+m)
			Mul(z, x, y)
			assert.Equal(t, new(big.Int).Mul(toBig(x), toBig(y)), toBig(z))
		}
	}
}

func TestDivDigit(t *testing.T) {
	r := mrand.New(mrand.NewSource(6))
	x := randWords(r, 5)
	y := Word(r.Uint64()) | 1
	q := make([]Word, 5)
	rem := DivDigit(q, x, y)
	bq, br := new(big.Int).QuoRem(toBig(x), new(big.Int).SetUint64(uint64(y)), new(big.Int))
	assert.Equal(t, bq, toBig(q))
	assert.Equal(t, br.Uint64(), uint64(rem))
	assert.Panics(t, func() { DivDigit(q, x, 0) })
}

func TestShifts(t *testing.T) {
	r := mrand.New(mrand.NewSource(7))
	x := randWords(r, 4)
	for _, s := range []uint{0, 1, 13, WordBits - 1} {
		z := make([]Word, 4)
		c := Shl(z, x, s)
		full := append(append([]Word{}, z...), c)
		assert.Equal(t, new(big.Int).Lsh(toBig(x), s), toBig(full), "Shl by %d", s)

		Shr(z, x, s)
		assert.Equal(t, new(big.Int).Rsh(toBig(x), s), toBig(z), "Shr by %d", s)
	}
}

func TestComparisons(t *testing.T) {
	x := []Word{1, 2, 3}
	y := []Word{1, 2, 4}
	assert.Equal(t, Choice(1), Less(x, y))
	assert.Equal(t, Choice(0), Less(y, x))
	assert.Equal(t, Choice(0), Less(x, x))
	assert.Equal(t, Choice(1), Equal(x, x))
	assert.Equal(t, Choice(0), Equal(x, y))
	assert.Equal(t, -1, Cmp(x, y))
	assert.Equal(t, 1, Cmp(y, x))
	assert.Equal(t, 0, Cmp(x, x))
	assert.Equal(t, Choice(1), IsZero([]Word{0, 0}))
	assert.Equal(t, Choice(0), IsZero([]Word{0, 1 << (WordBits - 1)}))
	assert.Equal(t, Choice(1), WordIsZero(0))
	assert.Equal(t, Choice(0), WordIsZero(^Word(0)))

	assert.Panics(t, func() { Equal(x, []Word{1}) })
}

func TestSelect(t *testing.T) {
	x := []Word{1, 2}
	y := []Word{3, 4}
	z := make([]Word, 2)
	Select(z, x, y, 1)
	assert.Equal(t, x, z)
	Select(z, x, y, 0)
	assert.Equal(t, y, z)

	assert.Equal(t, Word(7), SelectWord(7, 9, 1))
	assert.Equal(t, Word(9), SelectWord(7, 9, 0))

	z = []Word{^Word(0), 0}
	c := CondAdd(z, []Word{1, 0}, 0)
	assert.Equal(t, []Word{^Word(0), 0}, z)
	assert.Equal(t, Word(0), c)
	c = CondAdd(z, []Word{1, 0}, 1)
	assert.Equal(t, []Word{0, 1}, z)
	assert.Equal(t, Word(0), c)
	b := CondSub(z, []Word{1, 0}, 1)
	assert.Equal(t, []Word{^Word(0), 0}, z)
	assert.Equal(t, Word(0), b)
}

func TestBytes(t *testing.T) {
	buf := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09}
	z := make([]Word, Words(len(buf)*8))
	require.NoError(t, SetBytes(z, buf))
	assert.Equal(t, new(big.Int).SetBytes(buf), toBig(z))

	out := make([]byte, len(buf))
	require.NoError(t, FillBytes(z, out))
	assert.Equal(t, buf, out)

	assert.ErrorIs(t, FillBytes(z, make([]byte, 4)), ErrOverflow)
	assert.ErrorIs(t, SetBytes(make([]Word, 1), buf), ErrOverflow)

	padded := append(make([]byte, 16), 0x2a)
	small := make([]Word, 1)
	require.NoError(t, SetBytes(small, padded))
	assert.Equal(t, Word(0x2a), small[0])

	assert.Equal(t, WordBits+1, BitLen([]Word{0, 1}))
	assert.Equal(t, 0, BitLen([]Word{0, 0}))
	assert.Equal(t, Word(1), Bit([]Word{0, 1}, WordBits))
}
