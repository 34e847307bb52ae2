package epid

import (
	"encoding/hex"
	"fmt"

	"github.com/taurusgroup/epid/pkg/hash"
	"github.com/taurusgroup/epid/pkg/math/curve"
)

// GroupIDLength is the size of a GroupID in bytes.
const GroupIDLength = 16

// GroupID identifies an EPID group.
//
// The low nibble of byte 1 selects the hash algorithm used by the group's signatures.
type GroupID [GroupIDLength]byte

// NewGroupID returns a GroupID whose remaining bytes are copied from serial.
func NewGroupID(alg hash.Algorithm, serial []byte) GroupID {
	var id GroupID
	copy(id[:], serial)
	id[1] = id[1]&0xf0 | byte(alg)&0x0f
	return id
}

// HashAlg returns the hash algorithm encoded in the ID.
func (id GroupID) HashAlg() hash.Algorithm {
	return hash.Algorithm(id[1] & 0x0f)
}

func (id GroupID) String() string { return hex.EncodeToString(id[:]) }

// GroupPublicKey is the public key of an EPID group.
type GroupPublicKey struct {
	ID GroupID
	H1 *curve.Point
	H2 *curve.Point
}

// EmptyGroupPublicKey returns a key with points bound to group, ready for unmarshalling.
func EmptyGroupPublicKey(group *curve.Curve) *GroupPublicKey {
	return &GroupPublicKey{
		H1: group.NewPoint(),
		H2: group.NewPoint(),
	}
}

// Group returns the curve the key is defined over.
func (pub *GroupPublicKey) Group() *curve.Curve {
	if pub == nil || pub.H1 == nil {
		return nil
	}
	return pub.H1.Curve()
}

// Validate checks that both points are valid non-identity points of the same curve,
// and that the hash algorithm is supported.
func (pub *GroupPublicKey) Validate() error {
	group := pub.Group()
	if group == nil {
		return BadArgument("group public key", nil)
	}
	if !pub.ID.HashAlg().Available() {
		return BadArgument("group public key", fmt.Errorf("unsupported hash algorithm %d", pub.ID.HashAlg()))
	}
	if validatePoints(group, pub.H1, pub.H2) != nil {
		return BadArgument("group public key", nil)
	}
	return nil
}

// MarshalBinary returns ID ‖ H1 ‖ H2.
func (pub *GroupPublicKey) MarshalBinary() ([]byte, error) {
	return marshalPoints(pub.ID[:], pub.H1, pub.H2)
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
// The receiver must come from EmptyGroupPublicKey.
func (pub *GroupPublicKey) UnmarshalBinary(data []byte) error {
	group := pub.Group()
	if group == nil {
		return BadArgument("group public key", curve.ErrNilCurve)
	}
	if len(data) != GroupIDLength+2*group.PointBytes() {
		return BadArgument("group public key", fmt.Errorf("invalid length %d", len(data)))
	}
	copy(pub.ID[:], data[:GroupIDLength])
	return unmarshalPoints(data[GroupIDLength:], pub.H1, pub.H2)
}

// validatePoints returns the same error whichever point is invalid.
func validatePoints(group *curve.Curve, points ...*curve.Point) error {
	valid := true
	for _, p := range points {
		if p == nil || group.ValidatePoint(p) != nil {
			valid = false
		}
	}
	if !valid {
		return ErrBadArgument
	}
	return nil
}

func marshalPoints(prefix []byte, points ...*curve.Point) ([]byte, error) {
	out := append([]byte{}, prefix...)
	for _, p := range points {
		if p == nil {
			return nil, BadArgument("marshal", nil)
		}
		data, err := p.MarshalBinary()
		if err != nil {
			return nil, err
		}
		out = append(out, data...)
	}
	return out, nil
}

func unmarshalPoints(data []byte, points ...*curve.Point) error {
	for _, p := range points {
		if p == nil || p.Curve() == nil {
			return BadArgument("unmarshal", curve.ErrNilCurve)
		}
	}
	size := points[0].Curve().PointBytes()
	if len(data) != size*len(points) {
		return BadArgument("unmarshal", fmt.Errorf("invalid length %d", len(data)))
	}
	decoded := make([]*curve.Point, len(points))
	failed := false
	for i, p := range points {
		decoded[i] = p.Curve().NewPoint()
		if decoded[i].UnmarshalBinary(data[i*size:(i+1)*size]) != nil {
			failed = true
		}
	}
	if failed {
		return BadArgument("unmarshal", nil)
	}
	for i, p := range points {
		p.Set(decoded[i])
	}
	return nil
}
