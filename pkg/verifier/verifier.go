package verifier

import (
	"context"
	"errors"
	"runtime"

	"github.com/sirupsen/logrus"
	"github.com/taurusgroup/epid/pkg/epid"
	zknr "github.com/taurusgroup/epid/pkg/zk/nr"
	"golang.org/x/sync/errgroup"
)

// Verifier checks non-revocation proofs against the SigRl of one group.
// It holds no mutable state, and can be used concurrently.
type Verifier struct {
	config *epid.Config
	limit  int
}

// New creates a Verifier for the group described by config.
func New(config *epid.Config) (*Verifier, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Verifier{
		config: config,
		limit:  runtime.NumCPU(),
	}, nil
}

// SetLimit sets how many proofs VerifySigRl checks at once. n < 1 means no limit.
func (v *Verifier) SetLimit(n int) {
	v.limit = n
}

// NrVerify checks an encoded non-revocation proof of sig against entry.
//
// It returns nil if the proof is valid, epid.ErrSignatureInvalid if it is not, and
// epid.ErrBadArgument if an input is missing or malformed, including a proof of the wrong size.
func (v *Verifier) NrVerify(sig *epid.BasicSignature, msg, bsn []byte, entry *epid.SigRlEntry, proof []byte) error {
	if v == nil {
		return epid.BadArgument("nr verify", nil)
	}
	group := v.config.Group
	if epid.ValidateInputs(group, sig, entry) != nil {
		return epid.BadArgument("nr verify", nil)
	}
	if len(proof) != zknr.Size(group) {
		return epid.BadArgument("nr verify", nil)
	}
	p := zknr.Empty(group)
	if err := p.UnmarshalBinary(proof); err != nil {
		return epid.BadArgument("nr verify", nil)
	}
	public := zknr.Public{
		Group:     v.config.PublicKey,
		Signature: sig,
		Entry:     entry,
		Basename:  bsn,
		Message:   msg,
	}
	switch err := p.Verify(public); {
	case err == nil:
		return nil
	case errors.Is(err, zknr.ErrRevoked), errors.Is(err, zknr.ErrChallenge):
		return epid.ErrSignatureInvalid
	default:
		return epid.Unexpected("nr verify", err)
	}
}

// VerifySigRl checks one proof per SigRl entry, concurrently.
//
// If a proof fails, the signature is considered revoked, and the error is an
// *epid.RevokedError naming the first such entry. A bad argument in any entry makes
// the whole call fail with epid.ErrBadArgument.
func (v *Verifier) VerifySigRl(ctx context.Context, sig *epid.BasicSignature, msg, bsn []byte, entries []*epid.SigRlEntry, proofs [][]byte) error {
	if v == nil || len(entries) != len(proofs) {
		return epid.BadArgument("verify sigrl", nil)
	}
	results := make([]error, len(entries))
	g, ctx := errgroup.WithContext(ctx)
	if v.limit > 0 {
		g.SetLimit(v.limit)
	}
	for i := range entries {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = v.NrVerify(sig, msg, bsn, entries[i], proofs[i])
			if errors.Is(results[i], epid.ErrBadArgument) {
				return results[i]
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if errors.Is(err, epid.ErrBadArgument) {
			return err
		}
		return epid.Unexpected("verify sigrl", err)
	}

	for i, err := range results {
		switch {
		case err == nil:
		case errors.Is(err, epid.ErrSignatureInvalid):
			epid.Logger.WithFields(logrus.Fields{
				"entry":   i,
				"entries": len(entries),
			}).Info("signature revoked in sigrl")
			return &epid.RevokedError{Index: i}
		default:
			return err
		}
	}
	return nil
}
