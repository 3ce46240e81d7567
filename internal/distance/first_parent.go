package distance

// FirstParentCalculator looks for the target along the mainline first,
// following parent 0 of every commit. Secondary parents of merges are kept on
// a stack and explored only once the current branch is exhausted or has hit
// the depth bound.
//
// Distances found on a side branch count hops from that branch's merge
// commit, not from the start commit. For targets on the mainline the answer
// is the mainline distance even when a shorter path through a merge exists.
type FirstParentCalculator struct {
	base
}

// NewFirstParent creates a mainline first calculator. maxDepth <= 0 means unbounded.
func NewFirstParent(start CommitID, store CommitStore, maxDepth int, opts ...Option) (*FirstParentCalculator, error) {
	b, err := newBase(start, store, maxDepth, opts)
	if err != nil {
		return nil, err
	}
	return &FirstParentCalculator{base: b}, nil
}

func (c *FirstParentCalculator) DistanceTo(target CommitID) (int, bool, error) {
	seen := make(map[CommitID]struct{})
	var pending []CommitID

	head := c.start
	hops := 0
	for {
		if head.ID == target {
			return hops, true, nil
		}

		// A commit at the bound stays unseen so a shorter side branch can
		// still expand it later.
		next, ok := CommitID{}, false
		if hops < c.maxDepth {
			seen[head.ID] = struct{}{}
			c.visited(head.ID, hops)

			// Reverse order so that parent 1 is popped first.
			for i := len(head.Parents) - 1; i >= 1; i-- {
				if _, done := seen[head.Parents[i]]; !done {
					pending = append(pending, head.Parents[i])
				}
			}
			if len(head.Parents) > 0 {
				if _, done := seen[head.Parents[0]]; !done {
					next, ok = head.Parents[0], true
					hops++
				}
			}
		}

		if !ok {
			next, ok = popUnseen(&pending, seen)
			if !ok {
				return 0, false, nil
			}
			// A side branch is one hop away from the merge that introduced it.
			hops = 1
		}

		commit, err := c.resolve(next)
		if err != nil {
			return 0, false, err
		}
		head = commit
	}
}

func popUnseen(stack *[]CommitID, seen map[CommitID]struct{}) (CommitID, bool) {
	s := *stack
	for len(s) > 0 {
		id := s[len(s)-1]
		s = s[:len(s)-1]
		if _, done := seen[id]; !done {
			*stack = s
			return id, true
		}
	}
	*stack = s
	return CommitID{}, false
}
