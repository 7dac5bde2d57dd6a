package suite

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/zeebo/blake3"

	"github.com/matzehuels/cornerstone/pkg/errors"
)

// MaxSuites bounds the catalog size. The feasibility sweep enumerates
// every subset, so the bound keeps it at most 2^16 placements.
const MaxSuites = 16

// Suite is one cryptographic suite configuration.
type Suite struct {
	Name           string `json:"name" toml:"name" yaml:"name"`
	CornerstoneLen int    `json:"cornerstone_len" toml:"cornerstone_len" yaml:"cornerstone_len"`
	EntrypointLen  int    `json:"entrypoint_len" toml:"entrypoint_len" yaml:"entrypoint_len"`
}

// String returns "name(cornerstone/entrypoint)".
func (s Suite) String() string {
	return fmt.Sprintf("%s(%d/%d)", s.Name, s.CornerstoneLen, s.EntrypointLen)
}

// Validate checks the suite name and lengths.
func (s Suite) Validate() error {
	if err := errors.ValidateSuiteName(s.Name); err != nil {
		return err
	}
	if s.CornerstoneLen <= 0 {
		return errors.New(errors.ErrCodeInvalidCatalog,
			"suite %q: cornerstone length must be positive, got %d", s.Name, s.CornerstoneLen)
	}
	if s.EntrypointLen < 0 {
		return errors.New(errors.ErrCodeInvalidCatalog,
			"suite %q: entrypoint length must not be negative, got %d", s.Name, s.EntrypointLen)
	}
	return nil
}

// Catalog is an ordered set of suites. It is safe for concurrent reads and
// never modified after construction.
type Catalog struct {
	suites []Suite
	index  map[string]int
}

// NewCatalog validates the suites and returns a catalog preserving their
// order. Names must be unique.
func NewCatalog(suites ...Suite) (*Catalog, error) {
	if len(suites) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidCatalog, "catalog must contain at least one suite")
	}
	if len(suites) > MaxSuites {
		return nil, errors.New(errors.ErrCodeInvalidCatalog,
			"catalog has %d suites (max %d)", len(suites), MaxSuites)
	}

	c := &Catalog{
		suites: make([]Suite, len(suites)),
		index:  make(map[string]int, len(suites)),
	}
	for i, s := range suites {
		if err := s.Validate(); err != nil {
			return nil, err
		}
		if _, dup := c.index[s.Name]; dup {
			return nil, errors.New(errors.ErrCodeInvalidCatalog, "duplicate suite name %q", s.Name)
		}
		c.suites[i] = s
		c.index[s.Name] = i
	}
	return c, nil
}

// MustCatalog is like NewCatalog but panics on error. Intended for
// package-level catalogs and tests.
func MustCatalog(suites ...Suite) *Catalog {
	c, err := NewCatalog(suites...)
	if err != nil {
		panic(err)
	}
	return c
}

// Len returns the number of suites.
func (c *Catalog) Len() int { return len(c.suites) }

// Suites returns a copy of the suites in declaration order.
func (c *Catalog) Suites() []Suite {
	out := make([]Suite, len(c.suites))
	copy(out, c.suites)
	return out
}

// At returns the i-th suite in declaration order.
func (c *Catalog) At(i int) Suite { return c.suites[i] }

// Names returns suite names in declaration order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.suites))
	for i, s := range c.suites {
		names[i] = s.Name
	}
	return names
}

// Lookup returns the suite with the given name.
func (c *Catalog) Lookup(name string) (Suite, bool) {
	i, ok := c.index[name]
	if !ok {
		return Suite{}, false
	}
	return c.suites[i], true
}

// IndexOf returns the declaration index of name, or -1.
func (c *Catalog) IndexOf(name string) int {
	if i, ok := c.index[name]; ok {
		return i
	}
	return -1
}

// CornerstoneLen returns the cornerstone length of the named suite, or 0
// when the suite is unknown.
func (c *Catalog) CornerstoneLen(name string) int {
	if i, ok := c.index[name]; ok {
		return c.suites[i].CornerstoneLen
	}
	return 0
}

// Subset resolves names to suites, keeping the order given. Unknown and
// repeated names are rejected.
func (c *Catalog) Subset(names []string) ([]Suite, error) {
	out := make([]Suite, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		s, ok := c.Lookup(name)
		if !ok {
			return nil, errors.New(errors.ErrCodeUnknownSuite, "unknown suite %q", name)
		}
		if seen[name] {
			return nil, errors.New(errors.ErrCodeInvalidInput, "suite %q listed twice", name)
		}
		seen[name] = true
		out = append(out, s)
	}
	return out, nil
}

// TotalCornerstoneLen is the sum of all cornerstone lengths, which is also
// the end of the last exclusive slot.
func (c *Catalog) TotalCornerstoneLen() int {
	total := 0
	for _, s := range c.suites {
		total += s.CornerstoneLen
	}
	return total
}

// Fingerprint returns a hex BLAKE3 digest of the ordered catalog. Two
// catalogs share a fingerprint iff they list the same suites in the same
// order.
func (c *Catalog) Fingerprint() string {
	var b strings.Builder
	for _, s := range c.suites {
		fmt.Fprintf(&b, "%s\x00%d\x00%d\n", s.Name, s.CornerstoneLen, s.EntrypointLen)
	}
	sum := blake3.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

// String lists the suites in order.
func (c *Catalog) String() string {
	parts := make([]string, len(c.suites))
	for i, s := range c.suites {
		parts[i] = s.String()
	}
	return strings.Join(parts, " ")
}
