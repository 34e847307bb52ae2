package curve

import (
	"math/big"
	"testing"

	"github.com/cronokirby/saferith"
	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScalarArithmetic(t *testing.T) {
	c := EPID2()
	q := new(big.Int).SetBytes(c.Order().Bytes())
	toBig := func(s *Scalar) *big.Int { return new(big.Int).SetBytes(s.Bytes()) }

	for i := 0; i < 16; i++ {
		a, b := randomScalar(t, c), randomScalar(t, c)
		ab, bb := toBig(a), toBig(b)

		assert.Equal(t, new(big.Int).Mod(new(big.Int).Add(ab, bb), q), toBig(c.NewScalar().Set(a).Add(b)))
		assert.Equal(t, new(big.Int).Mod(new(big.Int).Sub(ab, bb), q), toBig(c.NewScalar().Set(a).Sub(b)))
		assert.Equal(t, new(big.Int).Mod(new(big.Int).Mul(ab, bb), q), toBig(c.NewScalar().Set(a).Mul(b)))
		assert.Equal(t, new(big.Int).Mod(new(big.Int).Neg(ab), q), toBig(c.NewScalar().Set(a).Negate()))
		assert.Equal(t, new(big.Int).ModInverse(ab, q), toBig(c.NewScalar().Set(a).Invert()))
	}

	a := randomScalar(t, c)
	assert.True(t, c.NewScalar().Set(a).Sub(a).IsZero())
	assert.True(t, a.Equal(c.NewScalar().Set(a)))
	assert.False(t, a.Equal(c.NewScalar()))

	n := new(saferith.Nat).SetBytes(c.Order().Bytes())
	assert.True(t, c.NewScalar().SetNat(n).IsZero())
	assert.Equal(t, uint64(5), c.NewScalar().SetUint64(5).Nat().Big().Uint64())

	a.Clear()
	assert.True(t, a.IsZero())
}

type marshalTester struct {
	S *Scalar
	P *Point
}

func TestMarshal(t *testing.T) {
	c := P256()
	s := marshalTester{
		S: c.NewScalar().SetUint64(0xED),
		P: c.NewBasePoint(),
	}
	data, err := cbor.Marshal(s)
	require.NoError(t, err)

	s2 := marshalTester{S: c.NewScalar(), P: c.NewPoint()}
	require.NoError(t, cbor.Unmarshal(data, &s2))
	assert.True(t, s.S.Equal(s2.S))
	assert.True(t, s.P.Equal(s2.P))
}

func TestScalarUnmarshal(t *testing.T) {
	c := Secp256k1()
	s := c.NewScalar()
	assert.ErrorIs(t, s.UnmarshalBinary(make([]byte, 31)), ErrScalarEncoding)
	assert.ErrorIs(t, s.UnmarshalBinary(c.Order().Bytes()), ErrScalarEncoding)
	assert.ErrorIs(t, new(Scalar).UnmarshalBinary(make([]byte, 32)), ErrNilCurve)

	r := randomScalar(t, c)
	data, err := r.MarshalBinary()
	require.NoError(t, err)
	require.NoError(t, s.UnmarshalBinary(data))
	assert.True(t, r.Equal(s))
}
