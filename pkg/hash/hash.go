package hash

import (
	"crypto/sha512"
	"encoding"
	"encoding/binary"
	"fmt"
	stdhash "hash"
	"io"

	"github.com/minio/sha256-simd"
	"github.com/taurusgroup/epid/pkg/math/curve"
	"github.com/zeebo/blake3"
	"golang.org/x/crypto/sha3"
)

// Algorithm identifies the hash function used to derive challenges.
//
// The values follow the hash algorithm field of an EPID group ID.
type Algorithm uint8

const (
	SHA256     Algorithm = 0
	SHA384     Algorithm = 1
	SHA512     Algorithm = 2
	SHA512_256 Algorithm = 3
	SHA3_256   Algorithm = 4
	BLAKE3     Algorithm = 0xf
)

func (a Algorithm) String() string {
	switch a {
	case SHA256:
		return "SHA-256"
	case SHA384:
		return "SHA-384"
	case SHA512:
		return "SHA-512"
	case SHA512_256:
		return "SHA-512/256"
	case SHA3_256:
		return "SHA3-256"
	case BLAKE3:
		return "BLAKE3"
	default:
		return fmt.Sprintf("hash(%d)", uint8(a))
	}
}

// Available reports whether a is a supported algorithm.
func (a Algorithm) Available() bool {
	_, err := a.new()
	return err == nil
}

func (a Algorithm) new() (stdhash.Hash, error) {
	switch a {
	case SHA256:
		return sha256.New(), nil
	case SHA384:
		return sha512.New384(), nil
	case SHA512:
		return sha512.New(), nil
	case SHA512_256:
		return sha512.New512_256(), nil
	case SHA3_256:
		return sha3.New256(), nil
	case BLAKE3:
		return blake3.New(), nil
	default:
		return nil, fmt.Errorf("hash: unsupported algorithm %d", uint8(a))
	}
}

// Hash accumulates the transcript of a proof and turns it into a challenge.
//
// Values are written without any framing: fixed-width encodings are simply concatenated,
// so that two implementations agreeing on the encoding of each value compute the same digest.
type Hash struct {
	alg Algorithm
	h   stdhash.Hash
}

// New creates a Hash using the given algorithm.
func New(alg Algorithm) (*Hash, error) {
	h, err := alg.new()
	if err != nil {
		return nil, err
	}
	return &Hash{alg: alg, h: h}, nil
}

// Algorithm returns the algorithm in use.
func (hash *Hash) Algorithm() Algorithm { return hash.alg }

// Write writes data to the hash state.
// Implements io.Writer
func (hash *Hash) Write(data []byte) (int, error) {
	return hash.h.Write(data)
}

// WriteAny takes many different data types and writes them to the hash state.
//
// Currently supported types:
//
//   - []byte, written as is
//   - uint32, written as 4 big-endian bytes
//   - encoding.BinaryMarshaler, such as curve.Point and curve.Scalar
//   - io.WriterTo
func (hash *Hash) WriteAny(data ...interface{}) error {
	for _, d := range data {
		switch t := d.(type) {
		case []byte:
			_, _ = hash.h.Write(t)
		case uint32:
			var buf [4]byte
			binary.BigEndian.PutUint32(buf[:], t)
			_, _ = hash.h.Write(buf[:])
		case encoding.BinaryMarshaler:
			b, err := t.MarshalBinary()
			if err != nil {
				return fmt.Errorf("hash.Hash: write %T: %w", t, err)
			}
			_, _ = hash.h.Write(b)
		case io.WriterTo:
			if _, err := t.WriteTo(hash.h); err != nil {
				return fmt.Errorf("hash.Hash: write io.WriterTo: %w", err)
			}
		default:
			panic(fmt.Sprintf("hash.Hash: unsupported type %T", d))
		}
	}
	return nil
}

// Sum returns the digest of everything written so far, without changing the state.
func (hash *Hash) Sum() []byte {
	return hash.h.Sum(nil)
}

// Scalar returns the digest, read as a big-endian integer and reduced modulo the group order.
func (hash *Hash) Scalar(group *curve.Curve) *curve.Scalar {
	return group.NewScalar().SetBytesReduced(hash.Sum())
}

// Sum computes the digest of the concatenation of data in one call.
func Sum(alg Algorithm, data ...[]byte) ([]byte, error) {
	h, err := New(alg)
	if err != nil {
		return nil, err
	}
	for _, d := range data {
		_, _ = h.Write(d)
	}
	return h.Sum(), nil
}
