package git

import (
	"testing"
	"time"

	"github.com/go-git/go-billy/v5/memfs"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage"
	"github.com/go-git/go-git/v5/storage/memory"
	"github.com/stretchr/testify/require"
)

// history writes commit objects directly into a storer so tests can build
// arbitrary DAGs, merges included, without a work tree.
type history struct {
	t       *testing.T
	st      storage.Storer
	repo    *gogit.Repository
	commits map[string]plumbing.Hash
	clock   time.Time
}

func newHistory(t *testing.T) *history {
	t.Helper()
	st := memory.NewStorage()
	repo, err := gogit.Init(st, memfs.New())
	require.NoError(t, err)
	return &history{
		t:       t,
		st:      st,
		repo:    repo,
		commits: make(map[string]plumbing.Hash),
		clock:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (h *history) sig() object.Signature {
	h.clock = h.clock.Add(time.Minute)
	return object.Signature{Name: "Test", Email: "test@test.com", When: h.clock}
}

// commit records a commit named name with the given parents and returns its hash.
func (h *history) commit(name string, parents ...string) plumbing.Hash {
	h.t.Helper()
	return h.commitTo(h.st, name, parents...)
}

func (h *history) commitTo(st storage.Storer, name string, parents ...string) plumbing.Hash {
	h.t.Helper()
	c := &object.Commit{
		Author:    h.sig(),
		Committer: h.sig(),
		Message:   name,
		TreeHash:  plumbing.ZeroHash,
	}
	for _, p := range parents {
		ph, ok := h.commits[p]
		require.True(h.t, ok, "unknown parent %s", p)
		c.ParentHashes = append(c.ParentHashes, ph)
	}

	obj := st.NewEncodedObject()
	require.NoError(h.t, c.Encode(obj))
	hash, err := st.SetEncodedObject(obj)
	require.NoError(h.t, err)

	h.commits[name] = hash
	return hash
}

// branch points refs/heads/name at commit and moves HEAD there.
func (h *history) branch(name, commit string) {
	h.t.Helper()
	ref := plumbing.NewBranchReferenceName(name)
	require.NoError(h.t, h.st.SetReference(plumbing.NewHashReference(ref, h.commits[commit])))
	require.NoError(h.t, h.st.SetReference(plumbing.NewSymbolicReference(plumbing.HEAD, ref)))
}

func (h *history) lightweightTag(name, commit string) {
	h.t.Helper()
	_, err := h.repo.CreateTag(name, h.commits[commit], nil)
	require.NoError(h.t, err)
}

func (h *history) annotatedTag(name, commit string) {
	h.t.Helper()
	sig := h.sig()
	_, err := h.repo.CreateTag(name, h.commits[commit], &gogit.CreateTagOptions{
		Tagger:  &sig,
		Message: "release " + name,
	})
	require.NoError(h.t, err)
}

// blob stores a non-commit object and returns its hash.
func (h *history) blob(content string) plumbing.Hash {
	h.t.Helper()
	obj := h.st.NewEncodedObject()
	obj.SetType(plumbing.BlobObject)
	w, err := obj.Writer()
	require.NoError(h.t, err)
	_, err = w.Write([]byte(content))
	require.NoError(h.t, err)
	require.NoError(h.t, w.Close())
	hash, err := h.st.SetEncodedObject(obj)
	require.NoError(h.t, err)
	return hash
}

// mergeHistory is A <- B <- C and A <- D with M = merge(C, D) on main.
func mergeHistory(t *testing.T) *history {
	h := newHistory(t)
	h.commit("A")
	h.commit("B", "A")
	h.commit("C", "B")
	h.commit("D", "A")
	h.commit("M", "C", "D")
	h.branch("main", "M")
	return h
}
