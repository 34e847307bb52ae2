package curve

const P256Name = "P-256"

// P256Params returns the parameters of NIST P-256, as defined in FIPS 186-4.
func P256Params() Params {
	return Params{
		Name:  P256Name,
		P:     mustDecodeHex("ffffffff00000001000000000000000000000000ffffffffffffffffffffffff"),
		A:     mustDecodeHex("ffffffff00000001000000000000000000000000fffffffffffffffffffffffc"),
		B:     mustDecodeHex("5ac635d8aa3a93e7b3ebbd55769886bc651d06b0cc53b0f63bce3c3e27d2604b"),
		Gx:    mustDecodeHex("6b17d1f2e12c4247f8bce6e563a440f277037d812deb33a0f4a13945d898c296"),
		Gy:    mustDecodeHex("4fe342e2fe1a7f9b8ee7eb4a7c0f9e162bce33576b315ececbb6406837bf51f5"),
		Order: mustDecodeHex("ffffffff00000000ffffffffffffffffbce6faada7179e84f3b9cac2fc632551"),
	}
}

// P256 returns a new instance of NIST P-256.
// Each call creates a distinct instance, see ByName.
func P256() *Curve {
	return mustCurve(P256Params())
}
