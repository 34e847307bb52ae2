package field

import (
	"math/big"
	"math/bits"
	mrand "math/rand"
	"testing"

	"github.com/bwesterb/go-exptable"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taurusgroup/epid/pkg/math/bnu"
)

type testModulus struct {
	name     string
	hex      string
	expected Strategy
}

var testModuli = []testModulus{
	{"secp256k1", "fffffffffffffffffffffffffffffffffffffffffffffffffffffffefffffc2f", PseudoMersenne},
	{"epid2", "fffffffffffcf0cd46e5f25eee71a49f0cdc65fb12980a82d3292ddbaed33013", Montgomery},
	{"p256", "ffffffff00000001000000000000000000000000ffffffffffffffffffffffff", Montgomery},
	{"anomalous", "3000000000000003c000000000000013", Montgomery},
	{"small", "fffffffb", Montgomery},
	{"even", "c0ffee00000000000000000000000000000000000000000000000000000000002a", Generic},
}

func mustHex(s string) []byte {
	b, ok := new(big.Int).SetString(s, 16)
	if !ok {
		panic("bad hex")
	}
	return b.Bytes()
}

func randElement(t *testing.T, r *mrand.Rand, m *Modulus, mb *big.Int) (*Element, *big.Int) {
	x := new(big.Int).Rand(r, mb)
	e, err := new(Element).SetBytes(x.Bytes(), m)
	require.NoError(t, err)
	return e, x
}

func toBig(e *Element, m *Modulus) *big.Int {
	return new(big.Int).SetBytes(e.Bytes(m))
}

func strategiesFor(m *Modulus) []Strategy {
	out := []Strategy{Generic}
	if m.m[0]&1 == 1 {
		out = append(out, Montgomery)
	}
	if _, ok := pseudoMersenneConstant(m.Limbs()); ok {
		out = append(out, PseudoMersenne)
	}
	return out
}

func TestStrategySelection(t *testing.T) {
	for _, tm := range testModuli {
		m, err := NewModulus(mustHex(tm.hex))
		require.NoError(t, err, tm.name)
		assert.Equal(t, tm.expected, m.Strategy(), tm.name)
	}

	even, err := NewModulus(mustHex("1000"))
	require.NoError(t, err)
	assert.Equal(t, Generic, even.Strategy())

	_, err = NewModulusWithStrategy(mustHex("1000"), Montgomery)
	assert.ErrorIs(t, err, ErrStrategy)
	_, err = NewModulusWithStrategy(mustHex(testModuli[1].hex), PseudoMersenne)
	assert.ErrorIs(t, err, ErrStrategy)

	_, err = NewModulus([]byte{1})
	assert.ErrorIs(t, err, ErrModulusTooSmall)
	_, err = NewModulus(make([]byte, 65))
	assert.ErrorIs(t, err, ErrModulusTooSmall)
	tooLarge := append([]byte{1}, make([]byte, 64)...)
	_, err = NewModulus(tooLarge)
	assert.ErrorIs(t, err, ErrModulusTooLarge)
}

func TestArithmetic(t *testing.T) {
	r := mrand.New(mrand.NewSource(42))
	for _, tm := range testModuli {
		auto, err := NewModulus(mustHex(tm.hex))
		require.NoError(t, err)
		mb := new(big.Int).SetBytes(mustHex(tm.hex))

		for _, strategy := range strategiesFor(auto) {
			m, err := NewModulusWithStrategy(mustHex(tm.hex), strategy)
			require.NoError(t, err)
			for i := 0; i < 64; i++ {
				x, xb := randElement(t, r, m, mb)
				y, yb := randElement(t, r, m, mb)
				msg := tm.name + "/" + strategy.String()

				z := new(Element).Add(x, y, m)
				assert.Equal(t, new(big.Int).Mod(new(big.Int).Add(xb, yb), mb), toBig(z, m), "add "+msg)

				z = new(Element).Sub(x, y, m)
				assert.Equal(t, new(big.Int).Mod(new(big.Int).Sub(xb, yb), mb), toBig(z, m), "sub "+msg)

				z = new(Element).Neg(x, m)
				assert.Equal(t, new(big.Int).Mod(new(big.Int).Neg(xb), mb), toBig(z, m), "neg "+msg)

				z = new(Element).Mul(x, y, m)
				assert.Equal(t, new(big.Int).Mod(new(big.Int).Mul(xb, yb), mb), toBig(z, m), "mul "+msg)

				z = new(Element).Sqr(x, m)
				assert.Equal(t, new(big.Int).Mod(new(big.Int).Mul(xb, xb), mb), toBig(z, m), "sqr "+msg)
			}
		}
	}
}

func TestReductionEdges(t *testing.T) {
	for _, tm := range testModuli {
		auto, err := NewModulus(mustHex(tm.hex))
		require.NoError(t, err)
		mb := new(big.Int).SetBytes(mustHex(tm.hex))
		mMinusOne := new(big.Int).Sub(mb, big.NewInt(1))

		for _, strategy := range strategiesFor(auto) {
			m, err := NewModulusWithStrategy(mustHex(tm.hex), strategy)
			require.NoError(t, err)
			top, err := new(Element).SetBytes(mMinusOne.Bytes(), m)
			require.NoError(t, err)

			z := new(Element).Mul(top, top, m)
			assert.Equal(t, big.NewInt(1), toBig(z, m), tm.name+"/"+strategy.String())

			z = new(Element).Add(top, top, m)
			assert.Equal(t, new(big.Int).Sub(mb, big.NewInt(2)), toBig(z, m))

			var zero Element
			z = new(Element).Mul(top, &zero, m)
			assert.Equal(t, uint(1), z.IsZero())
		}
	}
}

func TestAliasing(t *testing.T) {
	m, err := NewModulus(mustHex(testModuli[1].hex))
	require.NoError(t, err)
	x := new(Element).SetUint64(12345, m)
	y := new(Element).SetUint64(678, m)
	x.Mul(x, y, m)
	assert.Equal(t, big.NewInt(12345*678), toBig(x, m))
	x.Add(x, x, m)
	assert.Equal(t, big.NewInt(2*12345*678), toBig(x, m))
	x.Sub(x, x, m)
	assert.Equal(t, uint(1), x.IsZero())
}

func TestInvExp(t *testing.T) {
	r := mrand.New(mrand.NewSource(7))
	for _, tm := range testModuli[:5] {
		m, err := NewModulus(mustHex(tm.hex))
		require.NoError(t, err)
		mb := new(big.Int).SetBytes(mustHex(tm.hex))

		x, xb := randElement(t, r, m, mb)
		inv := new(Element).Inv(x, m)
		assert.Equal(t, new(big.Int).ModInverse(xb, mb), toBig(inv, m), tm.name)

		one := new(Element).Mul(x, inv, m)
		assert.Equal(t, big.NewInt(1), toBig(one, m))

		var zero Element
		assert.Equal(t, uint(1), new(Element).Inv(&zero, m).IsZero())

		e := new(big.Int).Rand(r, mb)
		got := new(Element).Exp(x, e.Bytes(), m)
		var table exptable.Table
		table.Compute(xb, mb, 5)
		expected := new(big.Int)
		table.Exp(expected, e)
		assert.Equal(t, expected, toBig(got, m), tm.name)
	}
}

func TestSqrt(t *testing.T) {
	r := mrand.New(mrand.NewSource(9))
	for _, tm := range testModuli[:4] {
		m, err := NewModulus(mustHex(tm.hex))
		require.NoError(t, err)
		mb := new(big.Int).SetBytes(mustHex(tm.hex))

		x, _ := randElement(t, r, m, mb)
		sq := new(Element).Sqr(x, m)
		root, err := new(Element).Sqrt(sq, m)
		require.NoError(t, err, tm.name)
		assert.Equal(t, uint(1), new(Element).Sqr(root, m).Equal(sq))

		// -sq is a non-residue when m ≡ 3 (mod 4)
		nsq := new(Element).Neg(sq, m)
		_, err = new(Element).Sqrt(nsq, m)
		assert.ErrorIs(t, err, ErrNotSquare)
	}

	m, err := NewModulus(mustHex("0d"))
	require.NoError(t, err)
	_, err = new(Element).Sqrt(new(Element).SetUint64(4, m), m)
	assert.ErrorIs(t, err, ErrSqrtNotSupported)
}

func TestEncoding(t *testing.T) {
	m, err := NewModulus(mustHex(testModuli[0].hex))
	require.NoError(t, err)
	assert.Equal(t, 32, m.ByteLen())
	assert.Equal(t, mustHex(testModuli[0].hex), m.Bytes())

	_, err = new(Element).SetBytes(m.Bytes(), m)
	assert.ErrorIs(t, err, ErrOutOfRange)

	reduced := new(Element).SetBytesReduced(m.Bytes(), m)
	assert.Equal(t, uint(1), reduced.IsZero())

	x := new(Element).SetUint64(0x0102, m)
	buf := x.Bytes(m)
	assert.Len(t, buf, 32)
	assert.Equal(t, []byte{0x01, 0x02}, buf[30:])
	assert.Equal(t, uint64(0x0102), x.Nat(m).Big().Uint64())
	assert.Panics(t, func() { x.FillBytes(make([]byte, 31), m) })
}

func TestDivWord(t *testing.T) {
	r := mrand.New(mrand.NewSource(7))
	top := bnu.Word(1) << (bnu.WordBits - 1)
	check := func(hi, lo, d bnu.Word) {
		expected, _ := bits.Div(hi, lo, d)
		assert.Equal(t, expected, divWord(hi, lo, d), "%x %x / %x", hi, lo, d)
	}
	for i := 0; i < 1000; i++ {
		d := bnu.Word(r.Uint64()) | top
		hi := bnu.Word(r.Uint64()) % d
		check(hi, bnu.Word(r.Uint64()), d)
	}
	ones := ^bnu.Word(0)
	check(0, 0, top)
	check(0, ones, top)
	check(top-1, ones, top)
	check(ones-1, ones, ones)
	check(ones-1, 0, ones)
}
