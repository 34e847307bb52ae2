package member

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/taurusgroup/epid/pkg/hash"
	"github.com/taurusgroup/epid/pkg/math/curve"
	"github.com/taurusgroup/epid/pkg/math/sample"
	"github.com/taurusgroup/epid/pkg/pool"
	zknr "github.com/taurusgroup/epid/pkg/zk/nr"
)

// ModuleSigner is the trusted module holding the member key f.
//
// The host only ever sees f multiplied into points it chose, and the response
// s = r + e⋅f, where r is a nonce that never leaves the module.
type ModuleSigner interface {
	// PrivateExp returns f⋅P.
	PrivateExp(ctx context.Context, p *curve.Point) (*curve.Point, error)

	// Commit draws a nonce r and returns a handle to it, with r⋅P1 and r⋅P2.
	Commit(ctx context.Context, p1, p2 *curve.Point) (handle uint64, e1, e2 *curve.Point, err error)

	// Sign returns s = r + e⋅f, with e = H(k ‖ c) and r the nonce of the handle.
	// A handle can be used once, and is consumed even when Sign fails.
	Sign(ctx context.Context, handle uint64, k, c *curve.Scalar) (*curve.Scalar, error)

	// Discard erases the nonce of a handle that will not be signed.
	// Discarding an unknown or consumed handle does nothing.
	Discard(ctx context.Context, handle uint64) error
}

var (
	// ErrUnknownHandle is returned by Sign for a handle that was never issued, or already used.
	ErrUnknownHandle = errors.New("member: unknown commitment handle")
)

// SoftwareModule implements ModuleSigner in process.
type SoftwareModule struct {
	group *curve.Curve
	alg   hash.Algorithm
	f     *curve.Scalar
	rand  io.Reader

	mtx     sync.Mutex
	next    uint64
	pending map[uint64]*curve.Scalar
}

// NewSoftwareModule creates a module for the key f, hashing with alg.
// Reads from rand are serialized, so that it can be shared with the host.
func NewSoftwareModule(alg hash.Algorithm, f *curve.Scalar, rand io.Reader) *SoftwareModule {
	return &SoftwareModule{
		group:   f.Curve(),
		alg:     alg,
		f:       f.Curve().NewScalar().Set(f),
		rand:    pool.NewLockedReader(rand),
		pending: make(map[uint64]*curve.Scalar),
	}
}

func (m *SoftwareModule) PrivateExp(ctx context.Context, p *curve.Point) (*curve.Point, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := m.group.ValidatePoint(p); err != nil {
		return nil, err
	}
	return m.f.Act(p), nil
}

func (m *SoftwareModule) Commit(ctx context.Context, p1, p2 *curve.Point) (uint64, *curve.Point, *curve.Point, error) {
	if err := ctx.Err(); err != nil {
		return 0, nil, nil, err
	}
	for _, p := range []*curve.Point{p1, p2} {
		if err := m.group.ValidatePoint(p); err != nil {
			return 0, nil, nil, err
		}
	}
	r, err := sample.Scalar(m.rand, m.group)
	if err != nil {
		return 0, nil, nil, err
	}

	m.mtx.Lock()
	defer m.mtx.Unlock()
	m.next++
	m.pending[m.next] = r
	return m.next, r.Act(p1), r.Act(p2), nil
}

func (m *SoftwareModule) Sign(ctx context.Context, handle uint64, k, c *curve.Scalar) (*curve.Scalar, error) {
	r, ok := m.take(handle)
	if !ok {
		return nil, ErrUnknownHandle
	}
	defer r.Clear()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if k == nil || c == nil || k.Curve() != m.group || c.Curve() != m.group {
		return nil, curve.ErrWrongCurve
	}
	e, err := zknr.Binding(m.alg, k, c)
	if err != nil {
		return nil, err
	}
	// s = r + e⋅f
	return e.Mul(m.f).Add(r), nil
}

func (m *SoftwareModule) Discard(_ context.Context, handle uint64) error {
	if r, ok := m.take(handle); ok {
		r.Clear()
	}
	return nil
}

func (m *SoftwareModule) take(handle uint64) (*curve.Scalar, bool) {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	r, ok := m.pending[handle]
	delete(m.pending, handle)
	return r, ok
}

// Algorithm returns the hash algorithm of the module.
func (m *SoftwareModule) Algorithm() hash.Algorithm { return m.alg }

// Group returns the curve of the module key.
func (m *SoftwareModule) Group() *curve.Curve { return m.group }

// Pending returns the number of commitments not yet consumed by Sign or Discard.
func (m *SoftwareModule) Pending() int {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	return len(m.pending)
}
