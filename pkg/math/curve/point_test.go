package curve

import (
	"crypto/elliptic"
	"crypto/rand"
	"math/big"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taurusgroup/epid/pkg/pool"
)

func randomScalar(t *testing.T, c *Curve) *Scalar {
	buf := make([]byte, c.ScalarBytes()+16)
	_, err := rand.Read(buf)
	require.NoError(t, err)
	return c.NewScalar().SetBytesReduced(buf)
}

func TestGroupLaw(t *testing.T) {
	for _, c := range []*Curve{EPID2(), Secp256k1(), P256()} {
		g := c.NewBasePoint()
		id := c.NewPoint()

		assert.True(t, g.Add(id).Equal(g), c.Name())
		assert.True(t, id.Add(g).Equal(g))
		assert.True(t, id.Add(id).IsIdentity())
		assert.True(t, g.Sub(g).IsIdentity())
		assert.True(t, g.Add(g.Negate()).IsIdentity())
		assert.True(t, g.Add(g).Equal(g.Double()))
		assert.True(t, id.Double().IsIdentity())

		a := randomScalar(t, c)
		b := randomScalar(t, c)
		A := a.Act(g)
		B := b.Act(g)
		sum := c.NewScalar().Set(a).Add(b)
		assert.True(t, A.Add(B).Equal(sum.ActOnBase()))
		assert.True(t, A.Add(B).Equal(B.Add(A)))
		assert.True(t, A.Add(B).Sub(B).Equal(A))
		assert.Equal(t, Projective, A.Add(B).Form())
		assert.Equal(t, Affine, A.Add(B).ToAffine().Form())
		assert.Equal(t, Infinity, id.Form())

		// a⋅(b⋅G) = (a⋅b)⋅G
		prod := c.NewScalar().Set(a).Mul(b)
		assert.True(t, a.Act(B).Equal(prod.ActOnBase()))

		assert.True(t, c.NewScalar().ActOnBase().IsIdentity())
		assert.True(t, c.NewScalar().Act(g).IsIdentity())
		assert.True(t, a.Act(id).IsIdentity())
		assert.True(t, A.IsOnCurve())

		one := c.NewScalar().SetUint64(1)
		assert.True(t, one.Act(g).Equal(g))
		assert.True(t, one.ActOnBase().Equal(g))
		minusOne := c.NewScalar().Set(one).Negate()
		assert.True(t, minusOne.ActOnBase().Equal(g.Negate()))
	}
}

func TestAgainstStdlibP256(t *testing.T) {
	c := P256()
	std := elliptic.P256()
	for i := 0; i < 8; i++ {
		k := randomScalar(t, c)
		kb := k.Bytes()

		x, y := std.ScalarBaseMult(kb)
		P := k.ActOnBase()
		assert.Equal(t, x.FillBytes(make([]byte, 32)), P.XBytes())
		assert.Equal(t, y.FillBytes(make([]byte, 32)), P.YBytes())

		l := randomScalar(t, c)
		x2, y2 := std.ScalarMult(x, y, l.Bytes())
		Q := l.Act(P)
		assert.Equal(t, x2.FillBytes(make([]byte, 32)), Q.XBytes())
		assert.Equal(t, y2.FillBytes(make([]byte, 32)), Q.YBytes())

		x3, y3 := std.Add(x, y, x2, y2)
		R := P.Add(Q)
		assert.Equal(t, x3.FillBytes(make([]byte, 32)), R.XBytes())
		assert.Equal(t, y3.FillBytes(make([]byte, 32)), R.YBytes())
	}
}

func TestAgainstDecredSecp256k1(t *testing.T) {
	c := Secp256k1()
	for i := 0; i < 8; i++ {
		k := randomScalar(t, c)

		pub := secp256k1.PrivKeyFromBytes(k.Bytes()).PubKey()
		expected := pub.SerializeUncompressed()[1:]
		actual, err := k.ActOnBase().MarshalBinary()
		require.NoError(t, err)
		assert.Equal(t, expected, actual)

		var s secp256k1.ModNScalar
		l := randomScalar(t, c)
		s.SetByteSlice(l.Bytes())
		var base, result secp256k1.JacobianPoint
		pub.AsJacobian(&base)
		secp256k1.ScalarMultNonConst(&s, &base, &result)
		result.ToAffine()

		Q := l.Act(k.ActOnBase())
		assert.Equal(t, result.X.Bytes()[:], Q.XBytes())
		assert.Equal(t, result.Y.Bytes()[:], Q.YBytes())
	}
}

func TestAgainstBtcec(t *testing.T) {
	c := Secp256k1()
	k := randomScalar(t, c)
	_, pub := btcec.PrivKeyFromBytes(k.Bytes())
	actual, err := k.ActOnBase().MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, pub.SerializeUncompressed()[1:], actual)
}

func TestFixedBaseTable(t *testing.T) {
	pl := pool.NewPool(0)
	defer pl.TearDown()

	c := EPID2()
	c.Precompute(pl)
	H := randomScalar(t, c).ActOnBase()
	table := NewFixedBaseTable(H, pl)
	for i := 0; i < 4; i++ {
		s := randomScalar(t, c)
		assert.True(t, table.Mul(s).Equal(s.Act(H)))
	}
	assert.True(t, table.Mul(c.NewScalar()).IsIdentity())
	assert.Panics(t, func() { table.Mul(Secp256k1().NewScalar()) })
}

func TestPointMarshal(t *testing.T) {
	c := EPID2()
	P := randomScalar(t, c).ActOnBase()
	data, err := P.MarshalBinary()
	require.NoError(t, err)
	assert.Len(t, data, c.PointBytes())

	Q := c.NewPoint()
	require.NoError(t, Q.UnmarshalBinary(data))
	assert.True(t, P.Equal(Q))
	assert.Equal(t, Affine, Q.Form())

	id, err := c.NewPoint().MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, make([]byte, c.PointBytes()), id)
	require.NoError(t, Q.UnmarshalBinary(id))
	assert.True(t, Q.IsIdentity())

	// identity obtained through arithmetic encodes the same way
	id2, err := P.Sub(P).MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, id, id2)

	assert.ErrorIs(t, Q.UnmarshalBinary(data[1:]), ErrPointEncoding)
	tooBig := append([]byte{}, data...)
	copy(tooBig, c.Field().Bytes())
	assert.ErrorIs(t, Q.UnmarshalBinary(tooBig), ErrPointEncoding)
	assert.ErrorIs(t, new(Point).UnmarshalBinary(data), ErrNilCurve)
}

func TestCrossCurvePanics(t *testing.T) {
	a, b := EPID2(), EPID2()
	assert.Panics(t, func() { a.NewBasePoint().Add(b.NewBasePoint()) })
	assert.Panics(t, func() { a.NewScalar().Act(b.NewBasePoint()) })
}

func TestScalarMultEdgeDigits(t *testing.T) {
	c := Secp256k1()
	g := c.NewBasePoint()
	// q - 1 has every window non-zero near the top, and exercises the all-ones digit
	qMinusOne := new(big.Int).SetBytes(c.Order().Bytes())
	qMinusOne.Sub(qMinusOne, big.NewInt(1))
	s := c.NewScalar().SetBytesReduced(qMinusOne.Bytes())
	assert.True(t, s.Act(g).Equal(g.Negate()))
	assert.True(t, s.ActOnBase().Equal(g.Negate()))

	fifteen := c.NewScalar().SetUint64(15)
	expected := c.NewPoint()
	for i := 0; i < 15; i++ {
		expected = expected.Add(g)
	}
	assert.True(t, fifteen.Act(g).Equal(expected))
	assert.True(t, fifteen.ActOnBase().Equal(expected))
}
