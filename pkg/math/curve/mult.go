package curve

import (
	"github.com/taurusgroup/epid/pkg/math/bnu"
	"github.com/taurusgroup/epid/pkg/pool"
)

// window is the number of scalar bits consumed per table lookup.
// It divides WordBits, so a window never straddles two words.
const window = 4

const tableSize = 1 << window

// digit returns window i of k, that is bits [window⋅i, window⋅i+window).
func digit(k []bnu.Word, i int) bnu.Word {
	bit := i * window
	w := bit / bnu.WordBits
	if w >= len(k) {
		return 0
	}
	return (k[w] >> (uint(bit) % bnu.WordBits)) & (tableSize - 1)
}

// lookup sets out = table[d], reading every entry.
func lookup(out *Point, table []Point, d bnu.Word) {
	*out = table[0]
	for j := 1; j < len(table); j++ {
		selectPoint(out, bnu.WordEqual(bnu.Word(j), d), &table[j], out)
	}
}

// scalarMult sets out = k⋅p, processing bitLen bits of k.
//
// The sequence of operations only depends on bitLen: every window performs the same
// doublings, the same full table scan and one complete addition.
func (c *Curve) scalarMult(out, p *Point, k []bnu.Word, bitLen int) {
	var table [tableSize]Point
	table[0] = *c.NewPoint()
	table[1] = *p
	for j := 2; j < tableSize; j++ {
		if j%2 == 0 {
			c.double(&table[j], &table[j/2])
		} else {
			c.add(&table[j], &table[j-1], p)
		}
	}

	acc := *c.NewPoint()
	var t Point
	for i := (bitLen+window-1)/window - 1; i >= 0; i-- {
		for j := 0; j < window; j++ {
			c.double(&acc, &acc)
		}
		lookup(&t, table[:], digit(k, i))
		c.add(&acc, &acc, &t)
	}
	*out = acc
}

// FixedBaseTable holds multiples of a fixed point P: row i contains j⋅16ⁱ⋅P for j < 16.
//
// Multiplication by a scalar then needs one lookup and one addition per window and
// no doubling at all.
type FixedBaseTable struct {
	curve *Curve
	rows  [][tableSize]Point
}

// NewFixedBaseTable precomputes the table for p, filling rows in parallel on pl.
func NewFixedBaseTable(p *Point, pl *pool.Pool) *FixedBaseTable {
	c := p.curve
	windows := (c.order.BitLen() + window - 1) / window

	bases := make([]Point, windows)
	bases[0] = *p
	for i := 1; i < windows; i++ {
		b := bases[i-1]
		for j := 0; j < window; j++ {
			c.double(&b, &b)
		}
		bases[i] = b
	}

	rows := pool.Parallelize(pl, windows, func(i int) [tableSize]Point {
		var row [tableSize]Point
		row[0] = *c.NewPoint()
		row[1] = bases[i]
		for j := 2; j < tableSize; j++ {
			c.add(&row[j], &row[j-1], &bases[i])
		}
		return row
	})
	return &FixedBaseTable{curve: c, rows: rows}
}

// Mul returns s⋅P.
func (t *FixedBaseTable) Mul(s *Scalar) *Point {
	if s.curve != t.curve {
		panic(ErrWrongCurve)
	}
	out := t.curve.NewPoint()
	t.mul(out, s.s.Limbs(t.curve.order))
	return out
}

func (t *FixedBaseTable) mul(out *Point, k []bnu.Word) {
	c := t.curve
	acc := *c.NewPoint()
	var e Point
	for i := range t.rows {
		lookup(&e, t.rows[i][:], digit(k, i))
		c.add(&acc, &acc, &e)
	}
	*out = acc
}
