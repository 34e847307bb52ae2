package test

import (
	"io"

	"github.com/taurusgroup/epid/pkg/epid"
	"github.com/taurusgroup/epid/pkg/hash"
	"github.com/taurusgroup/epid/pkg/math/curve"
	"github.com/taurusgroup/epid/pkg/math/sample"
)

// GenerateConfig creates a group over the given curve, with random H1, H2.
// Issuance is not modelled, the points only need to be valid.
func GenerateConfig(group *curve.Curve, alg hash.Algorithm, source io.Reader) *epid.Config {
	serial := make([]byte, epid.GroupIDLength)
	if _, err := io.ReadFull(source, serial); err != nil {
		panic(err)
	}
	return &epid.Config{
		Group: group,
		PublicKey: &epid.GroupPublicKey{
			ID: epid.NewGroupID(alg, serial),
			H1: randomPoint(group, source),
			H2: randomPoint(group, source),
		},
	}
}

// GenerateKey returns a random member key.
func GenerateKey(group *curve.Curve, source io.Reader) *curve.Scalar {
	f, err := sample.Scalar(source, group)
	if err != nil {
		panic(err)
	}
	return f
}

// Sign returns the pseudonym part (B, K = f⋅B) of a basic signature under bsn,
// with a random B when bsn is empty.
func Sign(cfg *epid.Config, f *curve.Scalar, bsn []byte, source io.Reader) *epid.BasicSignature {
	var B *curve.Point
	if len(bsn) == 0 {
		B = randomPoint(cfg.Group, source)
	} else {
		var err error
		B, err = epid.BasenamePoint(cfg.Group, cfg.PublicKey.ID.HashAlg(), bsn)
		if err != nil {
			panic(err)
		}
	}
	return &epid.BasicSignature{B: B, K: f.Act(B)}
}

// RevokedEntry returns the SigRl entry of a signature made with f.
func RevokedEntry(cfg *epid.Config, f *curve.Scalar, source io.Reader) *epid.SigRlEntry {
	sig := Sign(cfg, f, nil, source)
	return &epid.SigRlEntry{B: sig.B, K: sig.K}
}

// SigRl returns n entries made with fresh keys.
func SigRl(cfg *epid.Config, n int, source io.Reader) []*epid.SigRlEntry {
	entries := make([]*epid.SigRlEntry, n)
	for i := range entries {
		entries[i] = RevokedEntry(cfg, GenerateKey(cfg.Group, source), source)
	}
	return entries
}

func randomPoint(group *curve.Curve, source io.Reader) *curve.Point {
	_, p, err := sample.ScalarPointPair(source, group)
	if err != nil {
		panic(err)
	}
	return p
}
