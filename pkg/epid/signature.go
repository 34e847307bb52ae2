package epid

import (
	"github.com/go-errors/errors"
	"github.com/taurusgroup/epid/internal/params"
	"github.com/taurusgroup/epid/pkg/hash"
	"github.com/taurusgroup/epid/pkg/math/curve"
)

// BasicSignature carries the pseudonym of a signer, K = f⋅B.
//
// Only the part consumed by non-revocation proofs is represented.
type BasicSignature struct {
	B *curve.Point
	K *curve.Point
}

// EmptyBasicSignature returns a signature bound to group, ready for unmarshalling.
// group must be the Config.Group of the member or verifier that will use the signature.
func EmptyBasicSignature(group *curve.Curve) *BasicSignature {
	return &BasicSignature{B: group.NewPoint(), K: group.NewPoint()}
}

// Validate returns ErrBadArgument if either point is missing, off the curve, or the identity.
func (sig *BasicSignature) Validate(group *curve.Curve) error {
	if sig == nil {
		return ErrBadArgument
	}
	return validatePoints(group, sig.B, sig.K)
}

// MarshalBinary returns B ‖ K.
func (sig *BasicSignature) MarshalBinary() ([]byte, error) {
	return marshalPoints(nil, sig.B, sig.K)
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
// The receiver must come from EmptyBasicSignature.
func (sig *BasicSignature) UnmarshalBinary(data []byte) error {
	return unmarshalPoints(data, sig.B, sig.K)
}

// SigRlEntry is one entry of a signature based revocation list: the (B, K) pair of a
// signature made by a revoked member.
type SigRlEntry struct {
	B *curve.Point
	K *curve.Point
}

// EmptySigRlEntry returns an entry bound to group, ready for unmarshalling.
// group must be the Config.Group of the member or verifier that will use the entry.
func EmptySigRlEntry(group *curve.Curve) *SigRlEntry {
	return &SigRlEntry{B: group.NewPoint(), K: group.NewPoint()}
}

// Validate returns ErrBadArgument if either point is missing, off the curve, or the identity.
func (e *SigRlEntry) Validate(group *curve.Curve) error {
	if e == nil {
		return ErrBadArgument
	}
	return validatePoints(group, e.B, e.K)
}

// ValidateInputs validates a signature and a revocation entry together.
// Both are always checked, and the error does not tell which one failed.
func ValidateInputs(group *curve.Curve, sig *BasicSignature, entry *SigRlEntry) error {
	sigErr := sig.Validate(group)
	entryErr := entry.Validate(group)
	if sigErr != nil || entryErr != nil {
		return ErrBadArgument
	}
	return nil
}

// MarshalBinary returns B ‖ K.
func (e *SigRlEntry) MarshalBinary() ([]byte, error) {
	return marshalPoints(nil, e.B, e.K)
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
// The receiver must come from EmptySigRlEntry.
func (e *SigRlEntry) UnmarshalBinary(data []byte) error {
	return unmarshalPoints(data, e.B, e.K)
}

// ErrBasenameHash is returned when no point was found for a basename.
var ErrBasenameHash = errors.New("epid: failed to hash basename to the curve")

// BasenamePoint maps a basename to a curve point, by trying x = H(i ‖ bsn) for i = 0, 1, …
// until x is the abscissa of a point. The point with even y is returned.
//
// All supported curves have a cofactor of 1, so the result is in the subgroup.
func BasenamePoint(group *curve.Curve, alg hash.Algorithm, bsn []byte) (*curve.Point, error) {
	for i := uint32(0); i < params.MaxHashIterations; i++ {
		h, err := hash.New(alg)
		if err != nil {
			return nil, err
		}
		if err = h.WriteAny(i, bsn); err != nil {
			return nil, err
		}
		p, err := group.PointFromX(h.Sum())
		if err != nil {
			continue
		}
		if !p.IsIdentity() {
			return p, nil
		}
	}
	return nil, ErrBasenameHash
}
