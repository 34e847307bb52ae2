package sample

import (
	"errors"
	"fmt"
	"io"

	"github.com/cronokirby/saferith"
	"github.com/taurusgroup/epid/internal/params"
	"github.com/taurusgroup/epid/pkg/math/curve"
)

const maxIterations = 255

var ErrMaxIterations = fmt.Errorf("sample: failed to generate after %d iterations", maxIterations)

// ErrNilReader is returned when no randomness source was supplied.
var ErrNilReader = errors.New("sample: nil randomness source")

func readBits(rand io.Reader, buf []byte) error {
	if rand == nil {
		return ErrNilReader
	}
	if _, err := io.ReadFull(rand, buf); err != nil {
		return fmt.Errorf("sample: read randomness: %w", err)
	}
	return nil
}

// Scalar returns a uniformly random non-zero scalar.
//
// It reads params.StatBytes more bytes than the order needs, and reduces the result
// modulo the order, so that the bias is below 2^-StatParam. Zero is rejected and
// sampled again.
func Scalar(rand io.Reader, group *curve.Curve) (*curve.Scalar, error) {
	buf := make([]byte, group.ScalarBytes()+params.StatBytes)
	defer clear(buf)
	for i := 0; i < maxIterations; i++ {
		if err := readBits(rand, buf); err != nil {
			return nil, err
		}
		s := group.NewScalar().SetNat(new(saferith.Nat).SetBytes(buf))
		if !s.IsZero() {
			return s, nil
		}
	}
	return nil, ErrMaxIterations
}

// ScalarPointPair returns a random scalar s together with s⋅G.
func ScalarPointPair(rand io.Reader, group *curve.Curve) (*curve.Scalar, *curve.Point, error) {
	s, err := Scalar(rand, group)
	if err != nil {
		return nil, nil, err
	}
	return s, s.ActOnBase(), nil
}
