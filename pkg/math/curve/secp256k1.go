package curve

import "encoding/hex"

const Secp256k1Name = "secp256k1"

// Secp256k1Params returns the parameters of secp256k1, as defined in SEC 2.
// Its field modulus 2²⁵⁶ - 2³² - 977 is reduced with the pseudo-Mersenne strategy.
func Secp256k1Params() Params {
	return Params{
		Name:  Secp256k1Name,
		P:     mustDecodeHex("fffffffffffffffffffffffffffffffffffffffffffffffffffffffefffffc2f"),
		A:     []byte{0},
		B:     []byte{7},
		Gx:    mustDecodeHex("79be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798"),
		Gy:    mustDecodeHex("483ada7726a3c4655da4fbfc0e1108a8fd17b448a68554199c47d08ffb10d4b8"),
		Order: mustDecodeHex("fffffffffffffffffffffffffffffffebaaedce6af48a03bbfd25e8cd0364141"),
	}
}

// Secp256k1 returns a new instance of secp256k1.
// Each call creates a distinct instance, see ByName.
func Secp256k1() *Curve {
	return mustCurve(Secp256k1Params())
}

func mustDecodeHex(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic(err)
	}
	return b
}
