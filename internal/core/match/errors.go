package match

import (
	"fmt"

	"github.com/Ning0612/fmatch/internal/domain"
)

// ResolutionError reports a failed glob resolution.
// errors.Is(err, domain.ErrResolution) holds and Err is the resolver's error as returned.
type ResolutionError struct {
	Pattern string
	Cwd     string
	Err     error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("resolve %q in %s: %v", e.Pattern, e.Cwd, e.Err)
}

func (e *ResolutionError) Unwrap() []error {
	return []error{domain.ErrResolution, e.Err}
}
