package distance

import (
	"fmt"
	"strings"
)

// Calculator answers distance queries from a fixed start commit.
//
// DistanceTo returns (d, true, nil) when target is reachable within the bound,
// (0, false, nil) when it is not, and a non-nil error only when the walk could
// not be completed. Calls do not mutate the calculator and may run concurrently.
type Calculator interface {
	DistanceTo(target CommitID) (int, bool, error)
}

// Strategy names a traversal algorithm.
type Strategy string

const (
	// FirstParent follows mainline parents first and falls back to side branches.
	FirstParent Strategy = "first-parent"
	// BoundedBreadth walks breadth first and returns shortest path distances.
	BoundedBreadth Strategy = "breadth"
)

// DefaultStrategy is used by New when no strategy option is given.
const DefaultStrategy = FirstParent

// Strategies lists every supported strategy.
func Strategies() []Strategy {
	return []Strategy{FirstParent, BoundedBreadth}
}

// ParseStrategy validates a user supplied strategy name. An empty string
// yields DefaultStrategy.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return DefaultStrategy, nil
	case FirstParent, "firstparent", "mainline":
		return FirstParent, nil
	case BoundedBreadth, "bfs", "depth":
		return BoundedBreadth, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
}

type options struct {
	strategy Strategy
	visit    VisitFunc
}

// Option configures New.
type Option func(*options)

// WithStrategy selects the traversal algorithm.
func WithStrategy(s Strategy) Option {
	return func(o *options) {
		o.strategy = s
	}
}

// WithVisitFunc installs a hook invoked for each expanded commit.
func WithVisitFunc(fn VisitFunc) Option {
	return func(o *options) {
		o.visit = fn
	}
}

func buildOptions(opts []Option) options {
	o := options{strategy: DefaultStrategy}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// New creates a reusable Calculator for start. maxDepth <= 0 means unbounded.
// The start commit is resolved immediately, so a missing start fails here
// with a ResolutionError rather than on the first query.
func New(start CommitID, store CommitStore, maxDepth int, opts ...Option) (Calculator, error) {
	o := buildOptions(opts)
	switch o.strategy {
	case FirstParent:
		c, err := NewFirstParent(start, store, maxDepth, opts...)
		if err != nil {
			return nil, err
		}
		return c, nil
	case BoundedBreadth:
		c, err := NewBoundedBreadth(start, store, maxDepth, opts...)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, o.strategy)
}

// base holds what both strategies share. It is never written after construction.
type base struct {
	start    *Commit
	store    CommitStore
	maxDepth int
	visit    VisitFunc
}

func newBase(start CommitID, store CommitStore, maxDepth int, opts []Option) (base, error) {
	o := buildOptions(opts)
	c, err := store.Resolve(start)
	if err != nil {
		return base{}, classify(start, err)
	}
	return base{
		start:    c,
		store:    store,
		maxDepth: MaxDepth(maxDepth),
		visit:    o.visit,
	}, nil
}

// Start returns the id the calculator measures from.
func (b *base) Start() CommitID {
	return b.start.ID
}

// MaxDepth returns the normalized depth bound.
func (b *base) MaxDepth() int {
	return b.maxDepth
}

func (b *base) visited(id CommitID, depth int) {
	if b.visit != nil {
		b.visit(id, depth)
	}
}

// resolve fetches a commit during a walk, keeping the store's typed errors
// intact and wrapping anything else as an I/O failure.
func (b *base) resolve(id CommitID) (*Commit, error) {
	if id == b.start.ID {
		return b.start, nil
	}
	c, err := b.store.Resolve(id)
	if err != nil {
		return nil, classify(id, err)
	}
	return c, nil
}

func classify(id CommitID, err error) error {
	if IsErrResolution(err) || IsErrStoreIO(err) {
		return err
	}
	return &StoreIOError{ID: id, Err: err}
}
