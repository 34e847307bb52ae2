package zknr

import (
	"errors"
	"fmt"
	"io"

	"github.com/taurusgroup/epid/pkg/epid"
	"github.com/taurusgroup/epid/pkg/hash"
	"github.com/taurusgroup/epid/pkg/math/curve"
	"github.com/taurusgroup/epid/pkg/math/sample"
)

// Public is the statement: the pseudonym K = f⋅B of Signature was not made with the key
// behind Entry, that is K_i ≠ f⋅B_i.
type Public struct {
	Group     *epid.GroupPublicKey
	Signature *epid.BasicSignature
	Entry     *epid.SigRlEntry

	// Basename is empty for random-base signatures.
	Basename []byte
	Message  []byte
}

type Private struct {
	// F = f
	F *curve.Scalar
}

type Commitment struct {
	// R1 = rμ⋅K + rν⋅B
	R1 *curve.Point

	// R2 = rμ⋅K_i + rν⋅B_i
	R2 *curve.Point
}

// Proof is a non-revocation proof, with witness μ and ν = -f⋅μ.
type Proof struct {
	// T = μ⋅K_i + ν⋅B_i
	T *curve.Point

	// C = H(…, T, R1, R2, …) (mod q)
	C *curve.Scalar

	// Smu = rμ + e⋅μ (mod q)
	Smu *curve.Scalar

	// Snu = rν + e⋅ν (mod q)
	Snu *curve.Scalar

	// K is a nonce binding the responses to the challenge, e = H(K ‖ C) (mod q)
	K *curve.Scalar
}

// Size returns the length of an encoded proof over group.
func Size(group *curve.Curve) int {
	return group.PointBytes() + 4*group.ScalarBytes()
}

// Empty returns a proof bound to group, ready for unmarshalling.
func Empty(group *curve.Curve) *Proof {
	return &Proof{
		T:   group.NewPoint(),
		C:   group.NewScalar(),
		Smu: group.NewScalar(),
		Snu: group.NewScalar(),
		K:   group.NewScalar(),
	}
}

// NewProof creates a proof knowing the member key f.
//
// The randomness is consumed in the order μ, rμ, k, r with rν = -μ⋅r, which is also the
// order in which a member and its module consume a shared source, so that both produce
// the same proof.
func NewProof(public Public, private Private, rand io.Reader) (*Proof, error) {
	group := public.Group.Group()
	mu, err := sample.Scalar(rand, group)
	if err != nil {
		return nil, err
	}
	defer mu.Clear()
	rmu, err := sample.Scalar(rand, group)
	if err != nil {
		return nil, err
	}
	defer rmu.Clear()
	k, err := sample.Scalar(rand, group)
	if err != nil {
		return nil, err
	}
	r, err := sample.Scalar(rand, group)
	if err != nil {
		return nil, err
	}
	defer r.Clear()

	nu := group.NewScalar().Set(private.F).Mul(mu).Negate() // ν = -f⋅μ
	defer nu.Clear()
	rnu := group.NewScalar().Set(mu).Mul(r).Negate() // rν = -μ⋅r
	defer rnu.Clear()

	sig, entry := public.Signature, public.Entry
	T := mu.Act(entry.K).Add(nu.Act(entry.B))
	commitment := &Commitment{
		R1: rmu.Act(sig.K).Add(rnu.Act(sig.B)),
		R2: rmu.Act(entry.K).Add(rnu.Act(entry.B)),
	}
	c, err := Challenge(public, T, commitment)
	if err != nil {
		return nil, err
	}
	e, err := Binding(public.Group.ID.HashAlg(), k, c)
	if err != nil {
		return nil, err
	}
	return &Proof{
		T:   T,
		C:   c,
		Smu: group.NewScalar().Set(e).Mul(mu).Add(rmu), // sμ = rμ + e⋅μ
		Snu: group.NewScalar().Set(e).Mul(nu).Add(rnu), // sν = rν + e⋅ν
		K:   k,
	}, nil
}

// ErrRevoked is returned by Verify when T is the identity, meaning K_i = f⋅B_i.
var ErrRevoked = errors.New("zknr: signature made with a revoked key")

// ErrChallenge is returned by Verify when the recomputed challenge differs.
var ErrChallenge = errors.New("zknr: challenge mismatch")

// Verify checks the proof. The points of public must already have been validated.
func (p *Proof) Verify(public Public) error {
	if !p.IsBound() {
		return curve.ErrNilCurve
	}
	group := public.Group.Group()
	if p.T.Curve() != group || p.C.Curve() != group || p.Smu.Curve() != group ||
		p.Snu.Curve() != group || p.K.Curve() != group {
		return curve.ErrWrongCurve
	}
	if p.T.IsIdentity() {
		return ErrRevoked
	}
	e, err := Binding(public.Group.ID.HashAlg(), p.K, p.C)
	if err != nil {
		return err
	}

	sig, entry := public.Signature, public.Entry
	commitment := &Commitment{
		// R1 = sμ⋅K + sν⋅B
		R1: p.Smu.Act(sig.K).Add(p.Snu.Act(sig.B)),
		// R2 = sμ⋅K_i + sν⋅B_i - e⋅T
		R2: p.Smu.Act(entry.K).Add(p.Snu.Act(entry.B)).Sub(e.Act(p.T)),
	}
	c, err := Challenge(public, p.T, commitment)
	if err != nil {
		return err
	}
	if !c.Equal(p.C) {
		return ErrChallenge
	}
	return nil
}

// IsBound reports whether every field of p is set.
func (p *Proof) IsBound() bool {
	return p != nil && p.T != nil && p.C != nil && p.Smu != nil && p.Snu != nil && p.K != nil &&
		p.T.Curve() != nil && p.C.Curve() != nil
}

// Challenge computes
//
//	c = H(q ‖ G ‖ gid ‖ H1 ‖ H2 ‖ B ‖ K ‖ B_i ‖ K_i ‖ T ‖ R1 ‖ R2 ‖ [len(bsn) ‖ bsn] ‖ msg) (mod q),
//
// with H selected by the group ID. The basename part is omitted for random-base signatures.
func Challenge(public Public, T *curve.Point, commitment *Commitment) (*curve.Scalar, error) {
	group := public.Group.Group()
	h, err := hash.New(public.Group.ID.HashAlg())
	if err != nil {
		return nil, err
	}
	err = h.WriteAny(
		group.Order().Bytes(), group.NewBasePoint(),
		public.Group.ID[:], public.Group.H1, public.Group.H2,
		public.Signature.B, public.Signature.K,
		public.Entry.B, public.Entry.K,
		T, commitment.R1, commitment.R2,
	)
	if err != nil {
		return nil, err
	}
	if len(public.Basename) > 0 {
		if err = h.WriteAny(uint32(len(public.Basename)), public.Basename); err != nil {
			return nil, err
		}
	}
	if err = h.WriteAny(public.Message); err != nil {
		return nil, err
	}
	return h.Scalar(group), nil
}

// Binding computes e = H(k ‖ c) (mod q).
func Binding(alg hash.Algorithm, k, c *curve.Scalar) (*curve.Scalar, error) {
	h, err := hash.New(alg)
	if err != nil {
		return nil, err
	}
	if err = h.WriteAny(k, c); err != nil {
		return nil, err
	}
	return h.Scalar(k.Curve()), nil
}

// MarshalBinary returns T.x ‖ T.y ‖ c ‖ sμ ‖ sν ‖ k, each of fixed width.
func (p *Proof) MarshalBinary() ([]byte, error) {
	if !p.IsBound() {
		return nil, curve.ErrNilCurve
	}
	out := make([]byte, 0, Size(p.T.Curve()))
	t, err := p.T.MarshalBinary()
	if err != nil {
		return nil, err
	}
	out = append(out, t...)
	for _, s := range []*curve.Scalar{p.C, p.Smu, p.Snu, p.K} {
		out = append(out, s.Bytes()...)
	}
	return out, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
// The receiver must come from Empty, and is left unchanged on error.
func (p *Proof) UnmarshalBinary(data []byte) error {
	if !p.IsBound() {
		return curve.ErrNilCurve
	}
	group := p.T.Curve()
	if len(data) != Size(group) {
		return fmt.Errorf("zknr: proof must have %d bytes, got %d", Size(group), len(data))
	}
	q := Empty(group)
	pl, sl := group.PointBytes(), group.ScalarBytes()
	if err := q.T.UnmarshalBinary(data[:pl]); err != nil {
		return fmt.Errorf("zknr: T: %w", err)
	}
	data = data[pl:]
	for _, s := range []*curve.Scalar{q.C, q.Smu, q.Snu, q.K} {
		if err := s.UnmarshalBinary(data[:sl]); err != nil {
			return fmt.Errorf("zknr: %w", err)
		}
		data = data[sl:]
	}
	*p = *q
	return nil
}
