// Package report records the outcome of a feasibility sweep so it can be
// cached, served over HTTP and printed.
//
// Reports are encoded with CBOR Core Deterministic Encoding: the same
// sweep always produces identical bytes, which keeps cached entries
// stable across runs.
package report

import (
	"reflect"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"

	"github.com/matzehuels/cornerstone/pkg/placement"
	"github.com/matzehuels/cornerstone/pkg/suite"
)

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error

	opts := cbor.CoreDetEncOptions()
	opts.Time = cbor.TimeRFC3339Nano
	encMode, err = opts.EncMode()
	if err != nil {
		panic("report: CBOR encoder initialization failed: " + err.Error())
	}

	decMode, err = cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		panic("report: CBOR decoder initialization failed: " + err.Error())
	}
}

// Report is a self-contained sweep result.
type Report struct {
	ID          string    `json:"id"`
	Fingerprint string    `json:"fingerprint"`
	Catalog     []string  `json:"catalog"`
	CreatedAt   time.Time `json:"created_at"`

	MinSize int                      `json:"min_size"`
	MaxSize int                      `json:"max_size"`
	Checked int                      `json:"checked"`
	Results []placement.SubsetResult `json:"results"`
	Failure []string                 `json:"failure,omitempty"`
}

// New wraps a sweep result with an ID, the catalog identity and a
// timestamp.
func New(cat *suite.Catalog, r *placement.Report) *Report {
	return &Report{
		ID:          uuid.NewString(),
		Fingerprint: cat.Fingerprint(),
		Catalog:     cat.Names(),
		CreatedAt:   time.Now().UTC(),
		MinSize:     r.MinSize,
		MaxSize:     r.MaxSize,
		Checked:     r.Checked,
		Results:     r.Results,
		Failure:     r.Failure,
	}
}

// OK reports whether every checked subset was placed.
func (r *Report) OK() bool { return len(r.Failure) == 0 }

// Err returns the unsatisfiable error recorded by the sweep, or nil.
func (r *Report) Err() error {
	if r.OK() {
		return nil
	}
	return &placement.UnsatisfiableError{Suites: r.Failure}
}

// Marshal encodes r with deterministic CBOR.
func Marshal(r *Report) ([]byte, error) {
	return encMode.Marshal(r)
}

// Unmarshal decodes a report produced by Marshal.
func Unmarshal(data []byte) (*Report, error) {
	var r Report
	if err := decMode.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	return &r, nil
}
