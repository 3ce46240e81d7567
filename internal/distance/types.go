// Package distance computes commit distances over a git history graph.
//
// A Calculator is built once for a start commit and answers how many parent
// hops separate that commit from arbitrary targets. Two strategies exist and
// they do not always agree on merge-heavy histories: BoundedBreadth returns the
// true shortest path, FirstParent prefers the mainline.
package distance

import (
	"math"

	"github.com/go-git/go-git/v5/plumbing"
)

// CommitID identifies a commit by its object hash.
type CommitID = plumbing.Hash

// Commit is the part of a commit object the walks care about.
type Commit struct {
	ID      CommitID
	Parents []CommitID // Parents[0] is the mainline parent
}

// IsMerge reports whether the commit has more than one parent.
func (c *Commit) IsMerge() bool {
	return len(c.Parents) > 1
}

// CommitStore resolves commit ids into commits.
// Implementations must be safe for concurrent reads.
type CommitStore interface {
	Resolve(id CommitID) (*Commit, error)
}

// CommitStoreFunc adapts a function to CommitStore.
type CommitStoreFunc func(id CommitID) (*Commit, error)

func (f CommitStoreFunc) Resolve(id CommitID) (*Commit, error) {
	return f(id)
}

// VisitFunc is called for every commit a walk expands, with its hop count
// relative to the walk's notion of depth.
type VisitFunc func(id CommitID, depth int)

// Unbounded is the depth used when no positive bound is given.
const Unbounded = math.MaxInt

// MaxDepth normalizes a caller supplied bound: anything <= 0 means unbounded.
func MaxDepth(n int) int {
	if n <= 0 {
		return Unbounded
	}
	return n
}
