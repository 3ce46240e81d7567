package git

import (
	"errors"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/storage"
)

// LayeredStorer implements storage.Storer by embedding a Local storer.
// Object reads that miss locally are retried against Shared, the way git
// alternates let a clone borrow objects from another repository.
// Refs, config and index always come from Local.
type LayeredStorer struct {
	storage.Storer // Local
	Shared         storage.Storer
}

func NewLayeredStorer(local, shared storage.Storer) *LayeredStorer {
	return &LayeredStorer{
		Storer: local,
		Shared: shared,
	}
}

// LocalStorer returns the storer refs are read from.
func (s *LayeredStorer) LocalStorer() storage.Storer {
	return s.Storer
}

// EncodedObject tries Local first, then Shared. Only a miss falls through;
// read failures are returned as they are.
func (s *LayeredStorer) EncodedObject(t plumbing.ObjectType, h plumbing.Hash) (plumbing.EncodedObject, error) {
	obj, err := s.Storer.EncodedObject(t, h)
	if !errors.Is(err, plumbing.ErrObjectNotFound) {
		return obj, err
	}
	return s.Shared.EncodedObject(t, h)
}

func (s *LayeredStorer) EncodedObjectSize(h plumbing.Hash) (int64, error) {
	sz, err := s.Storer.EncodedObjectSize(h)
	if !errors.Is(err, plumbing.ErrObjectNotFound) {
		return sz, err
	}
	return s.Shared.EncodedObjectSize(h)
}

func (s *LayeredStorer) HasEncodedObject(h plumbing.Hash) error {
	err := s.Storer.HasEncodedObject(h)
	if !errors.Is(err, plumbing.ErrObjectNotFound) {
		return err
	}
	return s.Shared.HasEncodedObject(h)
}

// IterEncodedObjects is not overridden: iterating Shared would walk a whole
// foreign object database, so iteration stays Local.
