// Package commit defines the immutable commit record that repository chains
// are built from.
package commit

import (
	"errors"
	"fmt"
	"time"

	"github.com/bellarboulter/MiniGit/pkg/sequence"
)

// ErrInvalidArgument is returned for malformed inputs: an empty commit
// message, an empty repository name, or a non-positive history count.
// Callers should match it with errors.Is.
var ErrInvalidArgument = errors.New("invalid argument")

// TimeFormat is the layout used when rendering commit timestamps. It is
// fixed and locale-independent so descriptions are stable across machines.
const TimeFormat = "2006-01-02 15:04:05 MST"

// Commit is one record of a change event: an identifier issued by a shared
// sequence, a message, a creation timestamp, and a link to the chronological
// predecessor. Everything except the predecessor link is immutable after
// construction.
type Commit struct {
	id      string
	message string
	created time.Time
	past    *Commit
}

// New creates a commit with the given message and predecessor. The
// identifier and timestamp are assigned at construction. A nil seq falls
// back to the process-wide default sequence.
func New(message string, past *Commit, seq *sequence.Sequence) (*Commit, error) {
	if message == "" {
		return nil, fmt.Errorf("commit message must not be empty: %w", ErrInvalidArgument)
	}
	if seq == nil {
		seq = sequence.Default
	}
	return &Commit{
		id:      seq.Next(),
		message: message,
		created: time.Now(),
		past:    past,
	}, nil
}

// ID returns the commit's unique identifier.
func (c *Commit) ID() string {
	return c.id
}

// Message returns the commit message.
func (c *Commit) Message() string {
	return c.message
}

// Created returns the time the commit was constructed.
func (c *Commit) Created() time.Time {
	return c.created
}

// Past returns the chronological predecessor, or nil for the oldest commit
// in a chain.
func (c *Commit) Past() *Commit {
	return c.past
}

// SetPast rewrites the predecessor link. Only repository splice operations
// call this; it is not part of the commit's caller-facing surface.
func (c *Commit) SetPast(past *Commit) {
	c.past = past
}

// String renders the commit as "<id> at <timestamp>: <message>".
func (c *Commit) String() string {
	return fmt.Sprintf("%s at %s: %s", c.id, c.created.Format(TimeFormat), c.message)
}
