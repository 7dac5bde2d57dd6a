package layout

import (
	"github.com/matzehuels/cornerstone/pkg/errors"
	"github.com/matzehuels/cornerstone/pkg/placement"
	"github.com/matzehuels/cornerstone/pkg/suite"
)

// Cornerstone is one suite's slot in the header.
type Cornerstone struct {
	Suite         string `json:"suite"`
	Start         int    `json:"start"`
	End           int    `json:"end"`
	EntrypointLen int    `json:"entrypoint_len"`
}

// Header is the cornerstone prefix of a message header.
type Header struct {
	Cornerstones []Cornerstone `json:"cornerstones"`

	// Length is the number of bytes up to the end of the last cornerstone.
	Length int `json:"length"`

	// Free lists the unused gaps below Length.
	Free []Region `json:"free,omitempty"`

	layout *Layout
}

// Layout returns a copy of the underlying reservation map.
func (h *Header) Layout() *Layout { return h.layout.Clone() }

// Slack is the number of free bytes below Length.
func (h *Header) Slack() int {
	n := 0
	for _, r := range h.Free {
		n += r.Len()
	}
	return n
}

// FromPlacement reserves every cornerstone of p exclusively. It fails with
// REGION_CONFLICT if two cornerstones overlap and UNKNOWN_SUITE if p names
// a suite missing from the catalog or an interval of the wrong length.
func FromPlacement(cat *suite.Catalog, p placement.Placement) (*Header, error) {
	l := New()
	h := &Header{layout: l}

	for _, slot := range p.Slots() {
		s, ok := cat.Lookup(slot.Suite)
		if !ok {
			return nil, errors.New(errors.ErrCodeUnknownSuite, "unknown suite %q", slot.Suite)
		}
		iv := slot.Interval
		if iv.Start < 0 || iv.Len() != s.CornerstoneLen {
			return nil, errors.New(errors.ErrCodeInvalidInput,
				"suite %q: interval %s does not fit a %d-byte cornerstone", s.Name, iv, s.CornerstoneLen)
		}
		if !l.Reserve(iv.Start, iv.End, true, s.Name) {
			return nil, errors.New(errors.ErrCodeRegionConflict,
				"cornerstone of %q at %s overlaps an earlier reservation", s.Name, iv)
		}
		h.Cornerstones = append(h.Cornerstones, Cornerstone{
			Suite:         s.Name,
			Start:         iv.Start,
			End:           iv.End,
			EntrypointLen: s.EntrypointLen,
		})
	}

	h.Length = l.End()
	h.Free = l.FreeRegions(h.Length)
	return h, nil
}
