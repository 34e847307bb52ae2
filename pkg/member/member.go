package member

import (
	"context"
	"crypto/rand"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/taurusgroup/epid/pkg/epid"
	"github.com/taurusgroup/epid/pkg/math/curve"
	"github.com/taurusgroup/epid/pkg/math/sample"
	"github.com/taurusgroup/epid/pkg/pool"
	zknr "github.com/taurusgroup/epid/pkg/zk/nr"
)

// Member creates non-revocation proofs for the signatures of one group member.
//
// A Member holds no secret itself, the key stays in its ModuleSigner. Reads from the
// randomness source are serialized, so a Member can be used concurrently if its module can.
type Member struct {
	config *epid.Config
	module ModuleSigner
	rand   io.Reader
}

// New creates a Member of the group described by config.
// If source is nil, crypto/rand is used.
func New(config *epid.Config, module ModuleSigner, source io.Reader) (*Member, error) {
	if module == nil {
		return nil, epid.BadArgument("member", nil)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	// a software module hashes on its own, so it must agree with the group
	if sm, ok := module.(*SoftwareModule); ok {
		if sm.Group() != config.Group || sm.Algorithm() != config.PublicKey.ID.HashAlg() {
			return nil, epid.BadArgument("member", nil)
		}
	}
	if source == nil {
		source = rand.Reader
	}
	return &Member{
		config: config,
		module: module,
		rand:   pool.NewLockedReader(source),
	}, nil
}

// Config returns the group configuration.
func (m *Member) Config() *epid.Config { return m.config }

// HostBlinder owns the host side of a split proof: the witness μ and the nonces rμ and k.
// It is used for a single proof, and cleared afterwards.
type HostBlinder struct {
	mu, rmu, k *curve.Scalar
}

// NewHostBlinder draws μ, rμ and k, in that order.
func NewHostBlinder(group *curve.Curve, rand io.Reader) (*HostBlinder, error) {
	b := &HostBlinder{}
	for _, s := range []**curve.Scalar{&b.mu, &b.rmu, &b.k} {
		v, err := sample.Scalar(rand, group)
		if err != nil {
			b.Clear()
			return nil, err
		}
		*s = v
	}
	return b, nil
}

// Blind returns P1 = μ⋅B and P2 = μ⋅B_i, the points sent to the module.
func (b *HostBlinder) Blind(sig *epid.BasicSignature, entry *epid.SigRlEntry) (p1, p2 *curve.Point) {
	return b.mu.Act(sig.B), b.mu.Act(entry.B)
}

// Commit computes T = μ⋅K_i - f⋅P2, R1 = rμ⋅K - E1 and R2 = rμ⋅K_i - E2 from the module outputs.
func (b *HostBlinder) Commit(sig *epid.BasicSignature, entry *epid.SigRlEntry, fP2, e1, e2 *curve.Point) (*curve.Point, *zknr.Commitment) {
	T := b.mu.Act(entry.K).Sub(fP2)
	return T, &zknr.Commitment{
		R1: b.rmu.Act(sig.K).Sub(e1),
		R2: b.rmu.Act(entry.K).Sub(e2),
	}
}

// Respond returns sμ = rμ + e⋅μ and sν = -μ⋅s, where s = r + e⋅f is the module response.
func (b *HostBlinder) Respond(e, s *curve.Scalar) (smu, snu *curve.Scalar) {
	group := b.mu.Curve()
	smu = group.NewScalar().Set(e).Mul(b.mu).Add(b.rmu)
	snu = group.NewScalar().Set(b.mu).Mul(s).Negate()
	return smu, snu
}

// Nonce returns a copy of k.
func (b *HostBlinder) Nonce() *curve.Scalar {
	return b.k.Curve().NewScalar().Set(b.k)
}

// Clear zeroes the scalars.
func (b *HostBlinder) Clear() {
	for _, s := range []*curve.Scalar{b.mu, b.rmu, b.k} {
		if s != nil {
			s.Clear()
		}
	}
}

// NrProve proves that the key behind sig is not the one that made entry.
//
// bsn is empty for random-base signatures. Invalid or missing inputs are reported as
// epid.ErrBadArgument, without saying which one. Failures of the randomness source or
// of the module are reported as epid.ErrUnexpected.
func (m *Member) NrProve(ctx context.Context, msg, bsn []byte, sig *epid.BasicSignature, entry *epid.SigRlEntry) (*zknr.Proof, error) {
	if m == nil {
		return nil, epid.BadArgument("nr prove", nil)
	}
	group := m.config.Group
	if epid.ValidateInputs(group, sig, entry) != nil {
		return nil, epid.BadArgument("nr prove", nil)
	}
	public := zknr.Public{
		Group:     m.config.PublicKey,
		Signature: sig,
		Entry:     entry,
		Basename:  bsn,
		Message:   msg,
	}

	blinder, err := NewHostBlinder(group, m.rand)
	if err != nil {
		return nil, epid.Unexpected("nr prove: sample", err)
	}
	defer blinder.Clear()

	p1, p2 := blinder.Blind(sig, entry)
	fP2, err := m.module.PrivateExp(ctx, p2)
	if err != nil {
		return nil, epid.Unexpected("nr prove: module", err)
	}
	handle, e1, e2, err := m.module.Commit(ctx, p1, p2)
	if err != nil {
		return nil, epid.Unexpected("nr prove: module", err)
	}
	signed := false
	defer func() {
		if !signed {
			m.discard(ctx, handle)
		}
	}()
	if !onGroup(group, fP2, e1, e2) {
		return nil, epid.Unexpected("nr prove: module", curve.ErrWrongCurve)
	}

	T, commitment := blinder.Commit(sig, entry, fP2, e1, e2)
	c, err := zknr.Challenge(public, T, commitment)
	if err != nil {
		return nil, epid.Unexpected("nr prove: challenge", err)
	}
	k := blinder.Nonce()
	s, err := m.module.Sign(ctx, handle, k, c)
	if err != nil {
		return nil, epid.Unexpected("nr prove: module", err)
	}
	signed = true
	if s == nil || s.Curve() != group {
		return nil, epid.Unexpected("nr prove: module", curve.ErrWrongCurve)
	}
	defer s.Clear()
	e, err := zknr.Binding(public.Group.ID.HashAlg(), k, c)
	if err != nil {
		return nil, epid.Unexpected("nr prove: challenge", err)
	}
	smu, snu := blinder.Respond(e, s)

	epid.Logger.WithFields(logrus.Fields{
		"curve":    group.Name(),
		"basename": len(bsn) > 0,
	}).Debug("created non-revocation proof")

	return &zknr.Proof{
		T:   T,
		C:   c,
		Smu: smu,
		Snu: snu,
		K:   k,
	}, nil
}

// discard releases a commitment after a failed proof. It runs even if ctx is done.
func (m *Member) discard(ctx context.Context, handle uint64) {
	if err := m.module.Discard(context.WithoutCancel(ctx), handle); err != nil {
		epid.Logger.WithError(err).Warn("failed to discard module commitment")
	}
}

// NrProveSigRl creates one proof per entry, in order.
func (m *Member) NrProveSigRl(ctx context.Context, msg, bsn []byte, sig *epid.BasicSignature, entries []*epid.SigRlEntry) ([]*zknr.Proof, error) {
	proofs := make([]*zknr.Proof, 0, len(entries))
	for i, entry := range entries {
		proof, err := m.NrProve(ctx, msg, bsn, sig, entry)
		if err != nil {
			epid.Logger.WithField("entry", i).Debug("non-revocation proof failed")
			return nil, err
		}
		proofs = append(proofs, proof)
	}
	return proofs, nil
}

// KeyImage returns the pseudonym (B, K = f⋅B) of the member for a basename,
// with B derived from bsn, or random when bsn is empty.
func (m *Member) KeyImage(ctx context.Context, bsn []byte) (*epid.BasicSignature, error) {
	if m == nil {
		return nil, epid.BadArgument("key image", nil)
	}
	group := m.config.Group
	var B *curve.Point
	if len(bsn) == 0 {
		b, p, err := sample.ScalarPointPair(m.rand, group)
		if err != nil {
			return nil, epid.Unexpected("key image: sample", err)
		}
		b.Clear()
		B = p
	} else {
		p, err := epid.BasenamePoint(group, m.config.PublicKey.ID.HashAlg(), bsn)
		if err != nil {
			return nil, epid.Unexpected("key image: basename", err)
		}
		B = p
	}
	K, err := m.module.PrivateExp(ctx, B)
	if err != nil {
		return nil, epid.Unexpected("key image: module", err)
	}
	if !onGroup(group, K) {
		return nil, epid.Unexpected("key image: module", curve.ErrWrongCurve)
	}
	return &epid.BasicSignature{B: B, K: K}, nil
}

func onGroup(group *curve.Curve, points ...*curve.Point) bool {
	for _, p := range points {
		if p == nil || p.Curve() != group {
			return false
		}
	}
	return true
}
