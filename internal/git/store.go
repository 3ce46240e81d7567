package git

import (
	"errors"
	"fmt"
	"sync"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"

	"github.com/kurobon/gitdistance/internal/distance"
)

// ObjectStore resolves commits straight from a go-git object storer.
// go-git storers make no promise about concurrent reads (packfile handles are
// shared), so lookups are serialized here.
type ObjectStore struct {
	storer storer.EncodedObjectStorer
	mu     sync.Mutex
}

// NewObjectStore wraps s as a distance.CommitStore.
func NewObjectStore(s storer.EncodedObjectStorer) *ObjectStore {
	return &ObjectStore{storer: s}
}

// Resolve implements distance.CommitStore.
func (s *ObjectStore) Resolve(id distance.CommitID) (*distance.Commit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	obj, err := s.storer.EncodedObject(plumbing.AnyObject, id)
	if err != nil {
		if errors.Is(err, plumbing.ErrObjectNotFound) {
			return nil, &distance.ResolutionError{ID: id, Reason: "object not found", Err: distance.ErrNotExist}
		}
		return nil, &distance.StoreIOError{ID: id, Err: err}
	}

	if obj.Type() != plumbing.CommitObject {
		return nil, &distance.ResolutionError{ID: id, Reason: fmt.Sprintf("object is a %s, not a commit", obj.Type())}
	}

	c, err := object.DecodeCommit(s.storer, obj)
	if err != nil {
		return nil, &distance.ResolutionError{ID: id, Reason: "corrupt commit", Err: err}
	}

	parents := make([]distance.CommitID, len(c.ParentHashes))
	copy(parents, c.ParentHashes)
	return &distance.Commit{ID: id, Parents: parents}, nil
}
