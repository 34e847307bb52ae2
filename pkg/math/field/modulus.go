// Package field implements constant-time arithmetic modulo a fixed odd or even modulus.
//
// A Modulus picks its reduction strategy once, at construction time, from the shape of
// the modulus. The strategy only affects performance: every strategy produces the same
// canonical representative in [0, m).
package field

import (
	"errors"
	"fmt"

	"github.com/cronokirby/saferith"
	"github.com/taurusgroup/epid/internal/params"
	"github.com/taurusgroup/epid/pkg/math/bnu"
)

const maxWords = params.MaxFieldBits / bnu.WordBits

// Strategy identifies how products are reduced modulo m.
type Strategy uint8

const (
	// Auto lets NewModulusWithStrategy pick the fastest applicable strategy.
	Auto Strategy = iota
	// Generic reduces by constant-time long division.
	Generic
	// PseudoMersenne folds the high half for m = 2ᵏ - c with c smaller than a word.
	PseudoMersenne
	// Montgomery uses Montgomery reduction, valid for odd m.
	Montgomery
)

func (s Strategy) String() string {
	switch s {
	case Auto:
		return "auto"
	case Generic:
		return "generic"
	case PseudoMersenne:
		return "pseudo-mersenne"
	case Montgomery:
		return "montgomery"
	default:
		return fmt.Sprintf("strategy(%d)", uint8(s))
	}
}

var (
	ErrModulusTooSmall   = errors.New("field: modulus must be at least 2")
	ErrModulusTooLarge   = fmt.Errorf("field: modulus exceeds %d bits", params.MaxFieldBits)
	ErrStrategy          = errors.New("field: reduction strategy does not apply to this modulus")
	ErrOutOfRange        = errors.New("field: value is not reduced modulo m")
	ErrNotSquare         = errors.New("field: value is not a square")
	ErrSqrtNotSupported  = errors.New("field: square roots require m ≡ 3 (mod 4)")
	ErrInvalidByteLength = errors.New("field: invalid encoding length")
)

// reducer sets z = t mod m for a double-width t < m⋅2^(n⋅WordBits).
// t is used as scratch space and is clobbered.
type reducer interface {
	reduce(z, t []bnu.Word)
}

// Modulus describes a modulus m together with everything needed to reduce modulo m.
//
// A Modulus is immutable after construction and may be shared between goroutines.
type Modulus struct {
	m        [maxWords]bnu.Word
	n        int
	bitLen   int
	byteLen  int
	strategy Strategy
	red      reducer
	nat      *saferith.Modulus

	// invExp = m - 2
	invExp []byte
	// sqrtExp = (m + 1) / 4, only set when m ≡ 3 (mod 4)
	sqrtExp []byte
}

// NewModulus creates a Modulus from a big-endian encoding, choosing the reduction strategy
// from the shape of m.
func NewModulus(buf []byte) (*Modulus, error) {
	return NewModulusWithStrategy(buf, Auto)
}

// NewModulusWithStrategy creates a Modulus using the requested reduction strategy.
func NewModulusWithStrategy(buf []byte, strategy Strategy) (*Modulus, error) {
	var mod Modulus
	nat := new(saferith.Nat).SetBytes(buf)
	mod.bitLen = nat.TrueLen()
	if mod.bitLen < 2 {
		return nil, ErrModulusTooSmall
	}
	if mod.bitLen > params.MaxFieldBits {
		return nil, ErrModulusTooLarge
	}
	mod.n = bnu.Words(mod.bitLen)
	mod.byteLen = (mod.bitLen + 7) / 8
	if err := bnu.SetBytes(mod.m[:mod.n], buf); err != nil {
		return nil, err
	}
	mod.nat = saferith.ModulusFromNat(nat)

	odd := mod.m[0]&1 == 1
	c, special := pseudoMersenneConstant(mod.m[:mod.n])
	if strategy == Auto {
		switch {
		case special:
			strategy = PseudoMersenne
		case odd:
			strategy = Montgomery
		default:
			strategy = Generic
		}
	}

	switch strategy {
	case Generic:
		mod.red = newGeneric(mod.m[:mod.n])
	case PseudoMersenne:
		if !special {
			return nil, ErrStrategy
		}
		mod.red = &pseudoMersenne{m: mod.m[:mod.n], c: c}
	case Montgomery:
		if !odd {
			return nil, ErrStrategy
		}
		mod.red = newMontgomery(mod.m[:mod.n], mod.nat)
	default:
		return nil, ErrStrategy
	}
	mod.strategy = strategy

	two := new(saferith.Nat).SetUint64(2)
	mod.invExp = new(saferith.Nat).Sub(nat, two, mod.bitLen).Bytes()
	if mod.m[0]&3 == 3 {
		one := new(saferith.Nat).SetUint64(1)
		e := new(saferith.Nat).Add(nat, one, mod.bitLen+1)
		mod.sqrtExp = e.Rsh(e, 2, mod.bitLen).Bytes()
	}
	return &mod, nil
}

// BitLen returns the bit length of m.
func (m *Modulus) BitLen() int { return m.bitLen }

// ByteLen returns the length of the fixed-width big-endian encoding of an element.
func (m *Modulus) ByteLen() int { return m.byteLen }

// Words returns the number of words used by an element.
func (m *Modulus) Words() int { return m.n }

// Strategy returns the reduction strategy in use.
func (m *Modulus) Strategy() Strategy { return m.strategy }

// Limbs returns the words of m. The slice must not be modified.
func (m *Modulus) Limbs() []bnu.Word { return m.m[:m.n] }

// Nat returns m as a saferith.Modulus.
func (m *Modulus) Nat() *saferith.Modulus { return m.nat }

// Bytes returns the fixed-width big-endian encoding of m.
func (m *Modulus) Bytes() []byte {
	out := make([]byte, m.byteLen)
	_ = bnu.FillBytes(m.m[:m.n], out)
	return out
}

// Equal reports whether both moduli have the same value.
func (m *Modulus) Equal(other *Modulus) bool {
	if m == nil || other == nil {
		return m == other
	}
	return m.n == other.n && bnu.Equal(m.m[:m.n], other.m[:other.n]) == 1
}

// pseudoMersenneConstant returns c when m = 2^(n⋅WordBits) - c, with c small enough
// that two folds always bring a double-width value below 2^(n⋅WordBits).
func pseudoMersenneConstant(m []bnu.Word) (bnu.Word, bool) {
	if len(m) < 2 {
		return 0, false
	}
	for _, w := range m[1:] {
		if w != ^bnu.Word(0) {
			return 0, false
		}
	}
	c := -m[0]
	if c == 0 || c >= 1<<(bnu.WordBits-2) {
		return 0, false
	}
	return c, true
}
