package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/kurobon/gitdistance/internal/distance"
	"github.com/kurobon/gitdistance/internal/git"
	"github.com/kurobon/gitdistance/internal/logging"
)

type DistanceResponse struct {
	From     string `json:"from"`
	To       string `json:"to"`
	Distance int    `json:"distance"`
	Found    bool   `json:"found"`
	Strategy string `json:"strategy"`
}

type DescribeResponse struct {
	Tag      string `json:"tag"`
	Commit   string `json:"commit"`
	Distance int    `json:"distance"`
}

// queryOptions reads maxDepth and strategy, falling back to server defaults.
func (s *Server) queryOptions(r *http.Request) (int, distance.Strategy, error) {
	maxDepth := s.Options.MaxDepth
	if v := r.URL.Query().Get("maxDepth"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, "", fmt.Errorf("invalid maxDepth %q", v)
		}
		maxDepth = n
	}

	strategy := s.Options.Strategy
	if v := r.URL.Query().Get("strategy"); v != "" {
		st, err := distance.ParseStrategy(v)
		if err != nil {
			return 0, "", err
		}
		strategy = st
	}
	return maxDepth, strategy, nil
}

// walkOptions builds the calculator options for one request and returns a
// func that records how many commits the request expanded.
func (s *Server) walkOptions(strategy distance.Strategy) ([]distance.Option, func()) {
	visited := 0
	logVisit := logging.VisitFunc(s.Logger)
	hook := func(id distance.CommitID, depth int) {
		visited++
		logVisit(id, depth)
	}
	done := func() {
		s.metrics.visited.WithLabelValues(string(strategy)).Observe(float64(visited))
	}
	return []distance.Option{distance.WithStrategy(strategy), distance.WithVisitFunc(hook)}, done
}

func errorStatus(err error) int {
	if errors.Is(err, git.ErrInvalidPattern) {
		return http.StatusBadRequest
	}
	if errors.Is(err, distance.ErrNotExist) || distance.IsErrResolution(err) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func (s *Server) handleDistance(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	from := r.URL.Query().Get("from")
	if from == "" {
		from = "HEAD"
	}
	to := r.URL.Query().Get("to")
	if to == "" {
		writeError(w, http.StatusBadRequest, "to required")
		return
	}

	maxDepth, strategy, err := s.queryOptions(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	opts, done := s.walkOptions(strategy)
	d, found, err := s.Repo.Distance(from, to, maxDepth, opts...)
	done()
	if err != nil {
		s.metrics.observe("distance", resultError)
		s.Logger.Error("distance query failed", "from", from, "to", to, "error", err)
		writeError(w, errorStatus(err), err.Error())
		return
	}

	result := resultNotFound
	if found {
		result = resultFound
	}
	s.metrics.observe("distance", result)

	writeJSON(w, http.StatusOK, DistanceResponse{
		From:     from,
		To:       to,
		Distance: d,
		Found:    found,
		Strategy: string(strategy),
	})
}

func (s *Server) handleDescribe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	rev := r.URL.Query().Get("rev")
	if rev == "" {
		rev = "HEAD"
	}
	maxDepth, strategy, err := s.queryOptions(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	opts, done := s.walkOptions(strategy)
	desc, err := s.Repo.Describe(rev, r.URL.Query().Get("match"), maxDepth, opts...)
	done()
	if err != nil {
		if errors.Is(err, git.ErrNoTag) {
			s.metrics.observe("describe", resultNotFound)
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		s.metrics.observe("describe", resultError)
		s.Logger.Error("describe failed", "rev", rev, "error", err)
		writeError(w, errorStatus(err), err.Error())
		return
	}

	s.metrics.observe("describe", resultFound)
	writeJSON(w, http.StatusOK, DescribeResponse{
		Tag:      desc.Tag,
		Commit:   desc.Commit.String(),
		Distance: desc.Distance,
	})
}
