package placement

import (
	"fmt"
	"strings"

	"github.com/matzehuels/cornerstone/pkg/errors"
)

// UnsatisfiableError reports that no disjoint assignment exists for a set
// of suites under the given allowed positions. Retrying with the same
// inputs reproduces it; the allocation or catalog has to change.
type UnsatisfiableError struct {
	Suites []string
}

// Error implements the error interface.
func (e *UnsatisfiableError) Error() string {
	return fmt.Sprintf("%s: no non-overlapping placement for suites {%s}",
		errors.ErrCodeUnsatisfiable, strings.Join(e.Suites, ", "))
}

// ErrorCode ties the error to errors.ErrCodeUnsatisfiable, so
// errors.Is(err, errors.ErrCodeUnsatisfiable) holds.
func (e *UnsatisfiableError) ErrorCode() errors.Code {
	return errors.ErrCodeUnsatisfiable
}
