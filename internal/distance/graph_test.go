package distance

import (
	"errors"
	"sync"

	"github.com/go-git/go-git/v5/plumbing"
)

// id derives a stable fake hash from a commit label.
func id(name string) CommitID {
	return plumbing.ComputeHash(plumbing.CommitObject, []byte(name))
}

// graph is an in-memory CommitStore keyed by label.
type graph struct {
	commits map[CommitID]*Commit
	names   map[CommitID]string

	mu       sync.Mutex
	resolved []string
}

// newGraph builds a store from label -> parent labels.
func newGraph(edges map[string][]string) *graph {
	g := &graph{
		commits: make(map[CommitID]*Commit),
		names:   make(map[CommitID]string),
	}
	for name, parents := range edges {
		c := &Commit{ID: id(name)}
		for _, p := range parents {
			c.Parents = append(c.Parents, id(p))
		}
		g.commits[c.ID] = c
		g.names[c.ID] = name
	}
	return g
}

var errDisk = errors.New("disk on fire")

func (g *graph) Resolve(h CommitID) (*Commit, error) {
	g.mu.Lock()
	g.resolved = append(g.resolved, g.names[h])
	g.mu.Unlock()

	c, ok := g.commits[h]
	if !ok {
		return nil, &ResolutionError{ID: h, Reason: "object not found", Err: ErrNotExist}
	}
	return c, nil
}

// failing makes store return err for the named commit.
func failing(store CommitStore, name string, err error) CommitStore {
	bad := id(name)
	return CommitStoreFunc(func(h CommitID) (*Commit, error) {
		if h == bad {
			return nil, err
		}
		return store.Resolve(h)
	})
}

// linear is A <- B <- C <- D with D as head, plus an unrelated root E.
func linear() *graph {
	return newGraph(map[string][]string{
		"A": nil,
		"B": {"A"},
		"C": {"B"},
		"D": {"C"},
		"E": nil,
	})
}

// merge is A <- B <- C and A <- D, with M merging [C, D].
func merge() *graph {
	return newGraph(map[string][]string{
		"A": nil,
		"B": {"A"},
		"C": {"B"},
		"D": {"A"},
		"M": {"C", "D"},
	})
}

// featureBranches has two short feature branches off A merged into a longer
// mainline, plus an unrelated root X:
//
//	A - B - C - D - M1 - G - H - M2
//	|\             /             /
//	| E -----------             /
//	 \                         /
//	  F -----------------------
func featureBranches() *graph {
	return newGraph(map[string][]string{
		"A":  nil,
		"B":  {"A"},
		"C":  {"B"},
		"D":  {"C"},
		"E":  {"A"},
		"M1": {"D", "E"},
		"G":  {"M1"},
		"H":  {"G"},
		"F":  {"A"},
		"M2": {"H", "F"},
		"X":  nil,
	})
}

// sharedBelowBound has a long mainline and a short side branch meeting at X:
//
//	S - P1 - P2 - X - Y
//	 \           /
//	  Q ---------
func sharedBelowBound() *graph {
	return newGraph(map[string][]string{
		"Y":  nil,
		"X":  {"Y"},
		"P2": {"X"},
		"P1": {"P2"},
		"Q":  {"X"},
		"S":  {"P1", "Q"},
	})
}
