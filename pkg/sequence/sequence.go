package sequence

import (
	"strconv"
	"sync/atomic"
)

// Sequence issues commit identifiers as decimal strings of a monotonically
// increasing counter. A single sequence is shared by every repository in the
// process, so identifiers are unique across repositories, not per repository.
type Sequence struct {
	next int64
}

// New creates a sequence starting at zero. The first identifier issued is "0".
func New() *Sequence {
	return &Sequence{}
}

// Next returns the current counter value as a decimal string and advances
// the counter. Safe for concurrent use.
func (s *Sequence) Next() string {
	n := atomic.AddInt64(&s.next, 1) - 1
	return strconv.FormatInt(n, 10)
}

// Current returns the next identifier that would be issued, without
// advancing the counter.
func (s *Sequence) Current() string {
	return strconv.FormatInt(atomic.LoadInt64(&s.next), 10)
}

// Reset restores the counter to zero. Intended for test isolation only;
// resetting a sequence that live repositories are still using breaks the
// uniqueness guarantee.
func (s *Sequence) Reset() {
	atomic.StoreInt64(&s.next, 0)
}

// Default is the process-wide sequence used by repositories that are not
// constructed with an explicit one.
var Default = New()
