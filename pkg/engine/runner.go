// Package engine runs placement operations with caching, logging and
// observability hooks. The CLI and the HTTP API both go through a Runner
// so they share one code path.
package engine

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/cornerstone/pkg/cache"
	"github.com/matzehuels/cornerstone/pkg/layout"
	"github.com/matzehuels/cornerstone/pkg/observability"
	"github.com/matzehuels/cornerstone/pkg/placement"
	"github.com/matzehuels/cornerstone/pkg/report"
	"github.com/matzehuels/cornerstone/pkg/suite"
)

// DefaultReportTTL is used when a Runner has no TTL set.
const DefaultReportTTL = 7 * 24 * time.Hour

const keyTypeReport = "report"

// Runner is stateless apart from its collaborators; one Runner may serve
// concurrent requests.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// ReportTTL is the lifetime of cached verify reports.
	ReportTTL time.Duration
}

// NewRunner creates a runner. A nil cache disables caching, a nil keyer
// uses cache.DefaultKeyer and a nil logger uses log.Default().
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:     c,
		Keyer:     keyer,
		Logger:    logger,
		ReportTTL: DefaultReportTTL,
	}
}

// Allocate computes the candidate positions for every suite in cat.
func (r *Runner) Allocate(cat *suite.Catalog) *placement.Allocation {
	alloc := placement.Allocate(cat)
	r.Logger.Debug("allocated positions", "suites", cat.Len(), "max_offset", alloc.Positions.Max())
	return alloc
}

// Place places the named suites. The names are validated and then put in
// catalog order, so the result does not depend on how the caller listed
// them.
func (r *Runner) Place(ctx context.Context, cat *suite.Catalog, names []string) (placement.Placement, error) {
	ordered, err := CatalogOrder(cat, names)
	if err != nil {
		return nil, err
	}
	p, err := placement.Place(cat, r.Allocate(cat).Positions, ordered)
	if err != nil {
		return nil, err
	}
	r.Logger.Debug("placed", "suites", len(ordered), "end", p.End())
	return p, nil
}

// Layout places the named suites and reserves their cornerstones in a
// header layout.
func (r *Runner) Layout(ctx context.Context, cat *suite.Catalog, names []string) (*layout.Header, error) {
	p, err := r.Place(ctx, cat, names)
	if err != nil {
		return nil, err
	}
	h, err := layout.FromPlacement(cat, p)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	return h, nil
}

// VerifyOptions configures Runner.Verify.
type VerifyOptions struct {
	MinSize int
	MaxSize int

	// Refresh skips the cache lookup; the fresh report is still stored.
	Refresh bool
}

// Verify sweeps subsets of cat and reports whether the result came from
// the cache. Both passing and failing reports are cached; a failing
// report is returned together with an *placement.UnsatisfiableError.
func (r *Runner) Verify(ctx context.Context, cat *suite.Catalog, opts VerifyOptions) (*report.Report, bool, error) {
	popts := placement.VerifyOptions{MinSize: opts.MinSize, MaxSize: opts.MaxSize}
	lo, hi, err := popts.Bounds(cat.Len())
	if err != nil {
		return nil, false, err
	}
	fp := cat.Fingerprint()
	key := r.Keyer.ReportKey(fp, lo, hi)
	hooks := observability.Verify()
	cacheHooks := observability.Cache()

	if !opts.Refresh {
		data, hit, err := r.Cache.Get(ctx, key)
		switch {
		case err != nil:
			r.Logger.Warn("cache read failed", "err", err)
		case hit:
			if rep, err := report.Unmarshal(data); err == nil {
				cacheHooks.OnCacheHit(ctx, keyTypeReport)
				return rep, true, failureError(rep)
			}
			r.Logger.Debug("discarding undecodable cached report", "key", key)
		}
		cacheHooks.OnCacheMiss(ctx, keyTypeReport)
	}

	start := time.Now()
	hooks.OnSweepStart(ctx, fp, lo, hi)
	popts.OnSubset = func(res placement.SubsetResult) {
		hooks.OnSubsetPlaced(ctx, res.Suites)
	}
	sweep, sweepErr := placement.Verify(cat, r.Allocate(cat), popts)
	if sweep == nil {
		return nil, false, sweepErr
	}
	hooks.OnSweepComplete(ctx, fp, sweep.Checked, sweep.Failure, time.Since(start))

	rep := report.New(cat, sweep)
	if data, err := report.Marshal(rep); err != nil {
		r.Logger.Warn("encode report failed", "err", err)
	} else if err := r.Cache.Set(ctx, key, data, r.ReportTTL); err != nil {
		r.Logger.Warn("cache write failed", "err", err)
	} else {
		cacheHooks.OnCacheSet(ctx, keyTypeReport, len(data))
	}
	return rep, false, sweepErr
}

// failureError rebuilds the sweep error for a cached failing report.
func failureError(rep *report.Report) error {
	if rep.OK() {
		return nil
	}
	return fmt.Errorf("verify subset of %d: %w", len(rep.Failure), rep.Err())
}

// CatalogOrder validates names against cat and returns them sorted by
// catalog position.
func CatalogOrder(cat *suite.Catalog, names []string) ([]string, error) {
	if _, err := cat.Subset(names); err != nil {
		return nil, err
	}
	ordered := slices.Clone(names)
	slices.SortFunc(ordered, func(a, b string) int {
		return cat.IndexOf(a) - cat.IndexOf(b)
	})
	return ordered, nil
}
