package curve

const EPID2Name = "epid2-g1"

// EPID2Params returns the parameters of G1 in Intel EPID 2.0, the BN curve
// y² = x³ + 3 over Fq with generator (1, 2).
func EPID2Params() Params {
	return Params{
		Name:    EPID2Name,
		P:       mustDecodeHex("fffffffffffcf0cd46e5f25eee71a49f0cdc65fb12980a82d3292ddbaed33013"),
		A:       []byte{0},
		B:       []byte{3},
		Gx:      []byte{1},
		Gy:      []byte{2},
		Order:   mustDecodeHex("fffffffffffcf0cd46e5f25eee71a49e0cdc65fb1299921af62d536cd10b500d"),
		Special: SpecialEPID2,
	}
}

// EPID2 returns a new instance of the EPID 2.0 G1 curve.
// Each call creates a distinct instance, see ByName.
func EPID2() *Curve {
	return mustCurve(EPID2Params())
}
