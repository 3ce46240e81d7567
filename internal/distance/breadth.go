package distance

// BoundedBreadthCalculator walks the history breadth first from the start
// commit. Every commit gets the depth at which it was first discovered, which
// is its shortest path distance since edges are unweighted.
type BoundedBreadthCalculator struct {
	base
}

// NewBoundedBreadth creates a breadth first calculator. maxDepth <= 0 means unbounded.
func NewBoundedBreadth(start CommitID, store CommitStore, maxDepth int, opts ...Option) (*BoundedBreadthCalculator, error) {
	b, err := newBase(start, store, maxDepth, opts)
	if err != nil {
		return nil, err
	}
	return &BoundedBreadthCalculator{base: b}, nil
}

type frontierEntry struct {
	id    CommitID
	depth int
}

func (c *BoundedBreadthCalculator) DistanceTo(target CommitID) (int, bool, error) {
	if target == c.start.ID {
		return 0, true, nil
	}

	seen := map[CommitID]struct{}{c.start.ID: {}}
	queue := []frontierEntry{{id: c.start.ID, depth: 0}}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		// Parents of a commit at the bound would be past it.
		if current.depth >= c.maxDepth {
			continue
		}

		commit, err := c.resolve(current.id)
		if err != nil {
			return 0, false, err
		}
		c.visited(commit.ID, current.depth)

		for _, p := range commit.Parents {
			if _, ok := seen[p]; ok {
				continue
			}
			seen[p] = struct{}{}

			if p == target {
				return current.depth + 1, true, nil
			}
			queue = append(queue, frontierEntry{id: p, depth: current.depth + 1})
		}
	}

	return 0, false, nil
}
