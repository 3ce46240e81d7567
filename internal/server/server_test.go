package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-git/go-billy/v5/memfs"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kurobon/gitdistance/internal/distance"
	"github.com/kurobon/gitdistance/internal/git"
)

// newTestServer serves A <- B <- C, A <- D, M = merge(C, D) with HEAD at M
// and tag v1.0.0 on A.
func newTestServer(t *testing.T) (*httptest.Server, map[string]plumbing.Hash) {
	t.Helper()
	st := memory.NewStorage()
	repo, err := gogit.Init(st, memfs.New())
	require.NoError(t, err)

	hashes := make(map[string]plumbing.Hash)
	when := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	commit := func(name string, parents ...string) {
		when = when.Add(time.Minute)
		sig := object.Signature{Name: "Test", Email: "test@test.com", When: when}
		c := &object.Commit{Author: sig, Committer: sig, Message: name}
		for _, p := range parents {
			c.ParentHashes = append(c.ParentHashes, hashes[p])
		}
		obj := st.NewEncodedObject()
		require.NoError(t, c.Encode(obj))
		h, err := st.SetEncodedObject(obj)
		require.NoError(t, err)
		hashes[name] = h
	}
	commit("A")
	commit("B", "A")
	commit("C", "B")
	commit("D", "A")
	commit("M", "C", "D")

	main := plumbing.NewBranchReferenceName("main")
	require.NoError(t, st.SetReference(plumbing.NewHashReference(main, hashes["M"])))
	require.NoError(t, st.SetReference(plumbing.NewSymbolicReference(plumbing.HEAD, main)))
	_, err = repo.CreateTag("v1.0.0", hashes["A"], nil)
	require.NoError(t, err)

	srv := NewServer(git.NewRepository(repo), Options{}, nil)
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)
	return ts, hashes
}

func getJSON(t *testing.T, url string, v any) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if v != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
	}
	return resp.StatusCode
}

func TestPing(t *testing.T) {
	ts, _ := newTestServer(t)
	var res map[string]string
	assert.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/ping", &res))
	assert.Equal(t, "pong", res["message"])
}

func TestHandleDistance(t *testing.T) {
	ts, hashes := newTestServer(t)
	a := hashes["A"].String()

	tests := []struct {
		name     string
		query    string
		status   int
		distance int
		found    bool
	}{
		{"default strategy", "?to=" + a, http.StatusOK, 3, true},
		{"breadth", "?to=" + a + "&strategy=breadth", http.StatusOK, 2, true},
		{"bounded via side branch", "?to=" + a + "&maxDepth=2", http.StatusOK, 2, true},
		{"bounded", "?to=" + a + "&maxDepth=1", http.StatusOK, 0, false},
		{"explicit from", "?from=" + hashes["D"].String() + "&to=v1.0.0", http.StatusOK, 1, true},
		{"missing to", "", http.StatusBadRequest, 0, false},
		{"bad depth", "?to=" + a + "&maxDepth=deep", http.StatusBadRequest, 0, false},
		{"bad strategy", "?to=" + a + "&strategy=zigzag", http.StatusBadRequest, 0, false},
		{"unknown rev", "?to=nope", http.StatusNotFound, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var res DistanceResponse
			status := getJSON(t, ts.URL+"/api/distance"+tt.query, &res)
			require.Equal(t, tt.status, status)
			if status != http.StatusOK {
				return
			}
			assert.Equal(t, tt.distance, res.Distance)
			assert.Equal(t, tt.found, res.Found)
		})
	}
}

func TestHandleDistance_MethodNotAllowed(t *testing.T) {
	ts, _ := newTestServer(t)
	resp, err := http.Post(ts.URL+"/api/distance?to=HEAD", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestHandleDescribe(t *testing.T) {
	ts, hashes := newTestServer(t)

	var res DescribeResponse
	require.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/api/describe", &res))
	assert.Equal(t, "v1.0.0", res.Tag)
	assert.Equal(t, hashes["A"].String(), res.Commit)
	assert.Equal(t, 3, res.Distance)

	require.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/api/describe?strategy=breadth", &res))
	assert.Equal(t, 2, res.Distance)

	assert.Equal(t, http.StatusNotFound, getJSON(t, ts.URL+"/api/describe?maxDepth=1", nil))
	assert.Equal(t, http.StatusNotFound, getJSON(t, ts.URL+"/api/describe?match=v2.*", nil))
	assert.Equal(t, http.StatusBadRequest, getJSON(t, ts.URL+"/api/describe?match=%5B", nil))
}

func TestMetrics(t *testing.T) {
	ts, hashes := newTestServer(t)
	getJSON(t, ts.URL+"/api/distance?to="+hashes["A"].String(), nil)
	getJSON(t, ts.URL+"/api/distance?to=nope", nil)

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Contains(t, string(body), `gitdistance_queries_total{endpoint="distance",result="found"} 1`)
	assert.Contains(t, string(body), `gitdistance_queries_total{endpoint="distance",result="error"} 1`)
	assert.Contains(t, string(body), `gitdistance_visited_commits_count{strategy="`+string(distance.FirstParent)+`"} 2`)
}
