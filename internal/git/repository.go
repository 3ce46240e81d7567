package git

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/cache"
	"github.com/go-git/go-git/v5/storage"
	"github.com/go-git/go-git/v5/storage/filesystem"

	"github.com/kurobon/gitdistance/internal/distance"
)

// ErrRevisionNotExist is returned when a revision cannot be resolved to a commit.
type ErrRevisionNotExist struct {
	Rev string
	Err error
}

// IsErrRevisionNotExist checks if an error is a ErrRevisionNotExist.
func IsErrRevisionNotExist(err error) bool {
	var e ErrRevisionNotExist
	return errors.As(err, &e)
}

func (err ErrRevisionNotExist) Error() string {
	return fmt.Sprintf("revision does not exist [rev: %s]: %v", err.Rev, err.Err)
}

// Unwrap exposes both distance.ErrNotExist and the go-git cause.
func (err ErrRevisionNotExist) Unwrap() []error {
	return []error{distance.ErrNotExist, err.Err}
}

// Repository is a read-only view of a git repository for distance queries.
type Repository struct {
	repo  *gogit.Repository
	store *ObjectStore
}

// OpenOptions controls Open.
type OpenOptions struct {
	// SharedPath names a second repository whose objects are borrowed when
	// missing locally.
	SharedPath string
}

// Open opens the repository at path. Both work trees (path/.git) and bare
// repositories are accepted.
func Open(path string, opts OpenOptions) (*Repository, error) {
	st, err := openStorage(path)
	if err != nil {
		return nil, err
	}

	var s storage.Storer = st
	if opts.SharedPath != "" {
		shared, err := openStorage(opts.SharedPath)
		if err != nil {
			return nil, fmt.Errorf("open shared objects: %w", err)
		}
		s = NewLayeredStorer(st, shared)
	}

	repo, err := gogit.Open(s, nil)
	if err != nil {
		return nil, fmt.Errorf("open repository %s: %w", path, err)
	}
	return &Repository{repo: repo, store: NewObjectStore(s)}, nil
}

func openStorage(path string) (*filesystem.Storage, error) {
	fs := osfs.New(path)
	var dotGit billy.Filesystem = fs
	if fi, err := fs.Stat(gogit.GitDirName); err == nil && fi.IsDir() {
		dotGit, err = fs.Chroot(gogit.GitDirName)
		if err != nil {
			return nil, err
		}
	}
	return filesystem.NewStorage(dotGit, cache.NewObjectLRUDefault()), nil
}

// NewRepository wraps an already opened go-git repository.
func NewRepository(repo *gogit.Repository) *Repository {
	return &Repository{repo: repo, store: NewObjectStore(repo.Storer)}
}

// Store returns the commit store backing this repository.
func (r *Repository) Store() *ObjectStore {
	return r.store
}

// ResolveRevision resolves HEAD, a branch, a tag or a hash to a commit id.
// Annotated tags are peeled.
func (r *Repository) ResolveRevision(rev string) (distance.CommitID, error) {
	if rev == "" {
		rev = string(plumbing.HEAD)
	}
	h, err := r.repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) || errors.Is(err, plumbing.ErrObjectNotFound) {
			return distance.CommitID{}, ErrRevisionNotExist{Rev: rev, Err: err}
		}
		return distance.CommitID{}, fmt.Errorf("resolve %s: %w", rev, err)
	}
	return *h, nil
}

// Calculator builds a distance calculator starting at rev.
func (r *Repository) Calculator(rev string, maxDepth int, opts ...distance.Option) (distance.Calculator, error) {
	start, err := r.ResolveRevision(rev)
	if err != nil {
		return nil, err
	}
	slog.Debug("distance calculator", "rev", rev, "start", start.String(), "max_depth", distance.MaxDepth(maxDepth))
	return distance.New(start, r.store, maxDepth, opts...)
}

// Distance resolves both revisions and measures from one to the other.
func (r *Repository) Distance(from, to string, maxDepth int, opts ...distance.Option) (int, bool, error) {
	calc, err := r.Calculator(from, maxDepth, opts...)
	if err != nil {
		return 0, false, err
	}
	target, err := r.ResolveRevision(to)
	if err != nil {
		return 0, false, err
	}
	return calc.DistanceTo(target)
}
