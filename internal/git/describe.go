package git

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/gobwas/glob"

	"github.com/kurobon/gitdistance/internal/distance"
)

var (
	// ErrNoTag is returned by Describe when no tag is reachable within the bound.
	ErrNoTag = errors.New("no reachable tag")
	// ErrInvalidPattern is returned for a tag pattern that is not a valid glob.
	ErrInvalidPattern = errors.New("invalid tag pattern")
)

// Tag is a tag name peeled to the commit it marks.
type Tag struct {
	Name   string
	Commit distance.CommitID
}

// Description is the nearest tag to a commit.
type Description struct {
	Tag      string
	Commit   distance.CommitID
	Distance int
}

func (d *Description) String() string {
	return fmt.Sprintf("%s %d", d.Tag, d.Distance)
}

// Tags lists tags whose short name matches pattern (empty matches all),
// sorted by name. Tags that do not point at a commit are skipped.
func (r *Repository) Tags(pattern string) ([]Tag, error) {
	var g glob.Glob
	if pattern != "" {
		var err error
		g, err = glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("%w %q: %v", ErrInvalidPattern, pattern, err)
		}
	}

	iter, err := r.repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}

	var tags []Tag
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		name := ref.Name().Short()
		if g != nil && !g.Match(name) {
			return nil
		}

		hash := ref.Hash()
		// Resolve annotated tag
		if tagObj, err := r.repo.TagObject(hash); err == nil {
			c, err := tagObj.Commit()
			if err != nil {
				slog.Debug("skipping tag", "tag", name, "target_type", tagObj.TargetType.String())
				return nil
			}
			hash = c.Hash
		} else if !errors.Is(err, plumbing.ErrObjectNotFound) {
			return fmt.Errorf("read tag %s: %w", name, err)
		}

		tags = append(tags, Tag{Name: name, Commit: hash})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(tags, func(i, j int) bool { return tags[i].Name < tags[j].Name })
	return tags, nil
}

// Describe finds the tag closest to rev, measured with one calculator reused
// for every candidate. Ties go to the tag sorting first.
func (r *Repository) Describe(rev, pattern string, maxDepth int, opts ...distance.Option) (*Description, error) {
	tags, err := r.Tags(pattern)
	if err != nil {
		return nil, err
	}

	calc, err := r.Calculator(rev, maxDepth, opts...)
	if err != nil {
		return nil, err
	}

	var best *Description
	for _, t := range tags {
		d, found, err := calc.DistanceTo(t.Commit)
		if err != nil {
			return nil, fmt.Errorf("distance to tag %s: %w", t.Name, err)
		}
		if !found {
			continue
		}
		if best == nil || d < best.Distance {
			best = &Description{Tag: t.Name, Commit: t.Commit, Distance: d}
		}
	}

	if best == nil {
		return nil, ErrNoTag
	}
	return best, nil
}
