package epid

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/go-errors/errors"
	"github.com/taurusgroup/epid/pkg/math/curve"
)

// Config holds what members and verifiers of a group share.
type Config struct {
	// Group is the curve of the group, its parameters are checked by Validate.
	Group *curve.Curve

	PublicKey *GroupPublicKey
}

// EmptyConfig creates an empty Config with a fixed group, ready for unmarshalling.
//
// This needs to be used for unmarshalling, otherwise the points on the curve can't
// be decoded.
func EmptyConfig(group *curve.Curve) *Config {
	return &Config{
		Group:     group,
		PublicKey: EmptyGroupPublicKey(group),
	}
}

// Validate checks the curve parameters, and the group public key against them.
func (c *Config) Validate() error {
	if c == nil || c.Group == nil || c.PublicKey == nil {
		return BadArgument("config", nil)
	}
	result, err := curve.Verify(c.Group)
	if err != nil {
		return BadArgument("config", err)
	}
	if result != curve.Valid {
		return BadArgument("config", fmt.Errorf("curve %s: %s", c.Group.Name(), result))
	}
	if c.PublicKey.Group() != c.Group {
		return BadArgument("config", curve.ErrWrongCurve)
	}
	return c.PublicKey.Validate()
}

type configMarshal struct {
	Curve  string
	ID     GroupID
	H1, H2 *curve.Point
}

func (c *Config) MarshalBinary() ([]byte, error) {
	if c.Group == nil || c.PublicKey == nil {
		return nil, errors.New("config: missing group")
	}
	return cbor.Marshal(&configMarshal{
		Curve: c.Group.Name(),
		ID:    c.PublicKey.ID,
		H1:    c.PublicKey.H1,
		H2:    c.PublicKey.H2,
	})
}

func (c *Config) UnmarshalBinary(data []byte) error {
	if c.Group == nil {
		return errors.New("config must be initialized using EmptyConfig")
	}
	cm := &configMarshal{
		H1: c.Group.NewPoint(),
		H2: c.Group.NewPoint(),
	}
	if err := cbor.Unmarshal(data, cm); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if cm.Curve != c.Group.Name() {
		return fmt.Errorf("config: curve %q does not match %q", cm.Curve, c.Group.Name())
	}
	if cm.H1.IsIdentity() || cm.H2.IsIdentity() {
		return errors.New("config: group public key contains the identity")
	}
	*c = Config{
		Group: c.Group,
		PublicKey: &GroupPublicKey{
			ID: cm.ID,
			H1: cm.H1,
			H2: cm.H2,
		},
	}
	return nil
}
