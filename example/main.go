package main

import (
	"context"
	"crypto/rand"
	"flag"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/taurusgroup/epid/internal/test"
	"github.com/taurusgroup/epid/pkg/epid"
	"github.com/taurusgroup/epid/pkg/hash"
	"github.com/taurusgroup/epid/pkg/math/curve"
	"github.com/taurusgroup/epid/pkg/member"
	"github.com/taurusgroup/epid/pkg/pool"
	"github.com/taurusgroup/epid/pkg/verifier"
)

func main() {
	curveName := flag.String("curve", curve.EPID2Name, "curve of the group")
	alg := flag.Uint("hash", uint(hash.SHA256), "hash algorithm, as encoded in the group ID")
	entries := flag.Int("sigrl", 8, "number of SigRl entries")
	revoke := flag.Bool("revoke", false, "put the member's own signature in the SigRl")
	flag.Parse()

	log := epid.Logger
	if err := run(*curveName, hash.Algorithm(*alg), *entries, *revoke); err != nil {
		log.WithError(err).Fatal("example failed")
	}
}

func run(curveName string, alg hash.Algorithm, entries int, revoke bool) error {
	log := epid.Logger
	ctx := context.Background()

	group, err := curve.ByName(curveName)
	if err != nil {
		return err
	}
	result, err := curve.Verify(group)
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{"curve": group.Name(), "result": result}).Info("curve parameters checked")

	pl := pool.NewPool(0)
	defer pl.TearDown()
	start := time.Now()
	group.Precompute(pl)
	log.WithField("duration", time.Since(start)).Info("generator table built")

	cfg := test.GenerateConfig(group, alg, rand.Reader)
	f := test.GenerateKey(group, rand.Reader)

	link := test.NewLink(member.NewSoftwareModule(alg, f, rand.Reader))
	defer link.Close()
	m, err := member.New(cfg, link, rand.Reader)
	if err != nil {
		return err
	}
	v, err := verifier.New(cfg)
	if err != nil {
		return err
	}

	bsn := []byte("example basename")
	msg := []byte("example message")
	sig, err := m.KeyImage(ctx, bsn)
	if err != nil {
		return err
	}

	rl := test.SigRl(cfg, entries, rand.Reader)
	if revoke && len(rl) > 0 {
		rl[len(rl)/2] = test.RevokedEntry(cfg, f, rand.Reader)
	}

	start = time.Now()
	proofs, err := m.NrProveSigRl(ctx, msg, bsn, sig, rl)
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"proofs":       len(proofs),
		"duration":     time.Since(start),
		"module calls": link.Calls(),
	}).Info("non-revocation proofs created")

	encoded := make([][]byte, len(proofs))
	for i, p := range proofs {
		if encoded[i], err = p.MarshalBinary(); err != nil {
			return err
		}
	}

	start = time.Now()
	err = v.VerifySigRl(ctx, sig, msg, bsn, rl, encoded)
	log.WithFields(logrus.Fields{
		"duration": time.Since(start),
		"valid":    err == nil,
	}).Info("sigrl verified")
	if revoke {
		log.WithError(err).Info("expected a revoked signature")
		return nil
	}
	return err
}
