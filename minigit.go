// Package minigit provides an in-memory version history ledger: named
// repositories holding singly-linked chains of immutable commits, with
// append, removal, lookup, bounded history, and destructive merge between
// repositories. It tracks commit metadata only; there is no file content,
// diffing, or branching.
package minigit

import (
	"fmt"

	"github.com/bellarboulter/MiniGit/pkg/commit"
	"github.com/bellarboulter/MiniGit/pkg/sequence"
)

// ErrInvalidArgument is the only error kind the library produces. It is
// returned for an empty repository name, an empty commit message, and a
// non-positive history count. Match with errors.Is.
var ErrInvalidArgument = commit.ErrInvalidArgument

// New creates an empty repository with the given name, drawing commit
// identifiers from the process-wide default sequence.
func New(name string) (*Repository, error) {
	return NewWithSequence(name, sequence.Default)
}

// NewWithSequence creates an empty repository whose commits take identifiers
// from seq. Passing an isolated sequence keeps identifier assignment
// deterministic in tests; a nil seq falls back to the default.
func NewWithSequence(name string, seq *sequence.Sequence) (*Repository, error) {
	if name == "" {
		return nil, fmt.Errorf("repository name must not be empty: %w", ErrInvalidArgument)
	}
	if seq == nil {
		seq = sequence.Default
	}
	return &Repository{name: name, seq: seq}, nil
}
