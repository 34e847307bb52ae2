package test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/taurusgroup/epid/pkg/math/curve"
)

// Signer is the method set of a member's signing module.
type Signer interface {
	PrivateExp(ctx context.Context, p *curve.Point) (*curve.Point, error)
	Commit(ctx context.Context, p1, p2 *curve.Point) (uint64, *curve.Point, *curve.Point, error)
	Sign(ctx context.Context, handle uint64, k, c *curve.Scalar) (*curve.Scalar, error)
	Discard(ctx context.Context, handle uint64) error
}

// ErrLinkClosed is returned by calls made after Close.
var ErrLinkClosed = errors.New("test: link closed")

// Link forwards calls to a Signer served by its own goroutine, the way a host talks to a
// device over a transport. A call returns early when its context is done.
type Link struct {
	inner Signer
	calls chan *call
	done  chan struct{}
	once  sync.Once
	count atomic.Int64
}

type call struct {
	run  func(Signer)
	done chan struct{}
}

// NewLink starts serving inner. Close must be called to stop the goroutine.
func NewLink(inner Signer) *Link {
	l := &Link{
		inner: inner,
		calls: make(chan *call),
		done:  make(chan struct{}),
	}
	go l.serve()
	return l
}

// serve blocks until the link is closed.
func (l *Link) serve() {
	for {
		select {
		case c := <-l.calls:
			c.run(l.inner)
			close(c.done)
		case <-l.done:
			return
		}
	}
}

// Close stops the serving goroutine.
func (l *Link) Close() {
	l.once.Do(func() { close(l.done) })
}

// Calls returns the number of calls that reached the module.
func (l *Link) Calls() int {
	return int(l.count.Load())
}

// roundTrip sends run to the module and waits for it to finish.
// If ctx is done after the module accepted the call, abandon runs once the call
// completes, so that the caller can release what the module still holds.
func (l *Link) roundTrip(ctx context.Context, run func(Signer), abandon func(Signer)) error {
	c := &call{run: run, done: make(chan struct{})}
	select {
	case l.calls <- c:
		l.count.Add(1)
	case <-ctx.Done():
		return ctx.Err()
	case <-l.done:
		return ErrLinkClosed
	}
	select {
	case <-c.done:
		return nil
	case <-ctx.Done():
		if abandon != nil {
			go func() {
				<-c.done
				abandon(l.inner)
			}()
		}
		return ctx.Err()
	}
}

func (l *Link) PrivateExp(ctx context.Context, p *curve.Point) (*curve.Point, error) {
	var res struct {
		p   *curve.Point
		err error
	}
	if err := l.roundTrip(ctx, func(s Signer) { res.p, res.err = s.PrivateExp(ctx, p) }, nil); err != nil {
		return nil, err
	}
	return res.p, res.err
}

func (l *Link) Commit(ctx context.Context, p1, p2 *curve.Point) (uint64, *curve.Point, *curve.Point, error) {
	var res struct {
		handle uint64
		e1, e2 *curve.Point
		err    error
	}
	run := func(s Signer) { res.handle, res.e1, res.e2, res.err = s.Commit(ctx, p1, p2) }
	abandon := func(s Signer) {
		if res.err == nil {
			_ = s.Discard(context.Background(), res.handle)
		}
	}
	if err := l.roundTrip(ctx, run, abandon); err != nil {
		return 0, nil, nil, err
	}
	return res.handle, res.e1, res.e2, res.err
}

func (l *Link) Sign(ctx context.Context, handle uint64, k, c *curve.Scalar) (*curve.Scalar, error) {
	var res struct {
		s   *curve.Scalar
		err error
	}
	if err := l.roundTrip(ctx, func(s Signer) { res.s, res.err = s.Sign(ctx, handle, k, c) }, nil); err != nil {
		return nil, err
	}
	return res.s, res.err
}

func (l *Link) Discard(ctx context.Context, handle uint64) error {
	var err error
	if rtErr := l.roundTrip(ctx, func(s Signer) { err = s.Discard(ctx, handle) }, nil); rtErr != nil {
		return rtErr
	}
	return err
}
