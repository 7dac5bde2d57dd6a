package server

import (
	"net/http"
	"strconv"

	"github.com/matzehuels/cornerstone/pkg/buildinfo"
	"github.com/matzehuels/cornerstone/pkg/engine"
	cerrors "github.com/matzehuels/cornerstone/pkg/errors"
	"github.com/matzehuels/cornerstone/pkg/layout"
	"github.com/matzehuels/cornerstone/pkg/placement"
	"github.com/matzehuels/cornerstone/pkg/report"
	"github.com/matzehuels/cornerstone/pkg/suite"
)

type healthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

type catalogResponse struct {
	Fingerprint         string        `json:"fingerprint"`
	TotalCornerstoneLen int           `json:"total_cornerstone_len"`
	Suites              []suite.Suite `json:"suites"`
}

type positionsResponse struct {
	Positions placement.Positions     `json:"positions"`
	Exclusive map[string]int          `json:"exclusive"`
	Order     []string                `json:"order"`
	ByOffset  []placement.OffsetGroup `json:"by_offset"`
}

// SuitesRequest is the body of POST /v1/place and POST /v1/layout.
type SuitesRequest struct {
	Suites []string `json:"suites"`
}

type placeResponse struct {
	Suites    []string            `json:"suites"`
	Placement placement.Placement `json:"placement"`
	End       int                 `json:"end"`
}

type verifyResponse struct {
	OK     bool           `json:"ok"`
	Cached bool           `json:"cached"`
	Report *report.Report `json:"report"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Build: buildinfo.Get()})
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	cat := s.opts.Catalog
	writeJSON(w, http.StatusOK, catalogResponse{
		Fingerprint:         cat.Fingerprint(),
		TotalCornerstoneLen: cat.TotalCornerstoneLen(),
		Suites:              cat.Suites(),
	})
}

func (s *Server) handlePositions(w http.ResponseWriter, r *http.Request) {
	alloc := s.opts.Runner.Allocate(s.opts.Catalog)
	writeJSON(w, http.StatusOK, positionsResponse{
		Positions: alloc.Positions,
		Exclusive: alloc.Exclusive,
		Order:     alloc.Order,
		ByOffset:  alloc.ByOffset(),
	})
}

func (s *Server) handlePlace(w http.ResponseWriter, r *http.Request) {
	names, err := s.readSuites(r)
	if err != nil {
		writeError(w, r, s.opts.Logger, err)
		return
	}
	p, err := s.opts.Runner.Place(r.Context(), s.opts.Catalog, names)
	if err != nil {
		writeError(w, r, s.opts.Logger, err)
		return
	}
	ordered, _ := engine.CatalogOrder(s.opts.Catalog, names)
	writeJSON(w, http.StatusOK, placeResponse{Suites: ordered, Placement: p, End: p.End()})
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	names, err := s.readSuites(r)
	if err != nil {
		writeError(w, r, s.opts.Logger, err)
		return
	}
	h, err := s.opts.Runner.Layout(r.Context(), s.opts.Catalog, names)
	if err != nil {
		writeError(w, r, s.opts.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		*layout.Header
		Slack int `json:"slack"`
	}{h, h.Slack()})
}

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	opts := s.opts.Verify
	q := r.URL.Query()
	for _, p := range []struct {
		name string
		dst  *int
	}{{"min", &opts.MinSize}, {"max", &opts.MaxSize}} {
		v := q.Get(p.name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, r, s.opts.Logger, cerrors.New(cerrors.ErrCodeInvalidInput,
				"query parameter %s must be a non-negative integer, got %q", p.name, v))
			return
		}
		*p.dst = n
	}
	opts.Refresh = q.Get("refresh") == "true"

	rep, cached, err := s.opts.Runner.Verify(r.Context(), s.opts.Catalog, opts)
	if err != nil && rep == nil {
		writeError(w, r, s.opts.Logger, err)
		return
	}
	status := http.StatusOK
	if !rep.OK() {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, verifyResponse{OK: rep.OK(), Cached: cached, Report: rep})
}

func (s *Server) readSuites(r *http.Request) ([]string, error) {
	var req SuitesRequest
	if err := decodeJSON(r, &req); err != nil {
		return nil, err
	}
	if len(req.Suites) == 0 {
		return nil, cerrors.New(cerrors.ErrCodeInvalidInput, "suites must name at least one suite")
	}
	return req.Suites, nil
}
